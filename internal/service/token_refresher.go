package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vipul43/classmate-sync/internal/models"
	"github.com/vipul43/classmate-sync/internal/repository"
)

// defaultTokenLifetime is assumed when the token endpoint omits expires_in.
const defaultTokenLifetime = time.Hour

// CredentialStore is the persistence the refresher needs.
type CredentialStore interface {
	GetByUser(ctx context.Context, userID, provider string) (*models.Credential, error)
	UpdateTokens(ctx context.Context, credentialID, accessToken, refreshToken string, expiresAt, refreshedAt, prevUpdatedAt time.Time) (bool, error)
}

// TokenRefreshClient performs the refresh-token grant.
type TokenRefreshClient interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenRefreshResult, error)
}

type TokenRefreshResult struct {
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string // May be same or new
	Scope        string
}

// TokenRefresher hands out access tokens that are valid right now.
type TokenRefresher struct {
	store  CredentialStore
	client TokenRefreshClient
	logger *zap.Logger
	now    func() time.Time
}

func NewTokenRefresher(store CredentialStore, client TokenRefreshClient, logger *zap.Logger) *TokenRefresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenRefresher{
		store:  store,
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// GetValidAccessToken returns the stored access token while it is unexpired,
// and otherwise refreshes it exactly once and persists the result.
func (r *TokenRefresher) GetValidAccessToken(ctx context.Context, userID string) (string, error) {
	credential, err := r.store.GetByUser(ctx, userID, models.ProviderGoogle)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return "", newError(KindNoCredential, "Google account is not connected", err)
		}
		return "", newError(KindInternal, "failed to load credential", err)
	}

	if !credential.IsExpired(r.now()) {
		return credential.AccessToken, nil
	}

	r.logger.Info("access token expired, refreshing",
		zap.String("user_id", userID),
		zap.Time("expired_at", credential.ExpiresAt))

	result, err := r.client.RefreshAccessToken(ctx, credential.RefreshToken)
	if err != nil {
		r.logger.Warn("token refresh rejected", zap.String("user_id", userID), zap.Error(err))
		return "", newError(KindRefreshFailed, "Google rejected the token refresh; reconnect the account", err)
	}

	refreshedAt := r.now().UTC().Truncate(time.Microsecond)
	expiresAt := result.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = refreshedAt.Add(defaultTokenLifetime)
	}
	refreshToken := result.RefreshToken
	if refreshToken == "" {
		refreshToken = credential.RefreshToken
	}

	written, err := r.store.UpdateTokens(ctx, credential.ID, result.AccessToken, refreshToken, expiresAt, refreshedAt, credential.UpdatedAt)
	if err != nil {
		return "", newError(KindInternal, "failed to persist refreshed token", err)
	}
	if !written {
		// A concurrent request refreshed first; both tokens are valid.
		r.logger.Info("credential refreshed concurrently, keeping stored row", zap.String("user_id", userID))
	}

	return result.AccessToken, nil
}
