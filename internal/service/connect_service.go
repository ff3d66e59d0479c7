package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vipul43/classmate-sync/internal/models"
	"github.com/vipul43/classmate-sync/internal/repository"
)

const (
	oauthStateTTL    = 10 * time.Minute
	oauthStatePrefix = "classmate:oauth_state:"
)

// OAuthFlow is the provider side of the two-step connect protocol.
type OAuthFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*TokenRefreshResult, error)
}

// StateStore keeps the pending connect state between the two steps.
type StateStore interface {
	SaveState(ctx context.Context, key, userID string, ttl time.Duration) error
	// ConsumeState returns the user that started the flow and forgets the
	// state, or "" if it is unknown or expired.
	ConsumeState(ctx context.Context, key string) (string, error)
}

// CredentialWriter persists and removes credentials.
type CredentialWriter interface {
	GetByUser(ctx context.Context, userID, provider string) (*models.Credential, error)
	Upsert(ctx context.Context, credential *models.Credential) error
	Delete(ctx context.Context, userID, provider string) error
}

// ConnectionStatus describes whether a user has connected Google.
type ConnectionStatus struct {
	Connected bool       `json:"connected"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ConnectService runs the explicit two-step OAuth connect protocol:
// Start returns a consent URL, Complete exchanges the callback code.
type ConnectService struct {
	flow        OAuthFlow
	states      StateStore
	credentials CredentialWriter
	logger      *zap.Logger
}

func NewConnectService(flow OAuthFlow, states StateStore, credentials CredentialWriter, logger *zap.Logger) *ConnectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectService{
		flow:        flow,
		states:      states,
		credentials: credentials,
		logger:      logger,
	}
}

// Start records a fresh state for userID and returns the consent URL.
func (s *ConnectService) Start(ctx context.Context, userID string) (string, error) {
	state := uuid.NewString()
	if err := s.states.SaveState(ctx, oauthStatePrefix+state, userID, oauthStateTTL); err != nil {
		return "", newError(KindInternal, "failed to store oauth state", err)
	}
	return s.flow.AuthCodeURL(state), nil
}

// Complete validates the callback state, exchanges the code and stores the
// resulting credential. It returns the user the credential belongs to.
func (s *ConnectService) Complete(ctx context.Context, state, code string) (string, error) {
	if strings.TrimSpace(state) == "" || strings.TrimSpace(code) == "" {
		return "", BadRequest("Missing code or state")
	}

	userID, err := s.states.ConsumeState(ctx, oauthStatePrefix+state)
	if err != nil {
		return "", newError(KindInternal, "failed to load oauth state", err)
	}
	if userID == "" {
		return "", BadRequest("Unknown or expired state")
	}

	token, err := s.flow.Exchange(ctx, code)
	if err != nil {
		return "", newError(KindProviderError, "Google rejected the authorization code", err)
	}
	if token.RefreshToken == "" {
		// Only acceptable when a stored refresh token can be kept.
		_, err := s.credentials.GetByUser(ctx, userID, models.ProviderGoogle)
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return "", newError(KindProviderError, "Google did not return a refresh token", nil)
		}
		if err != nil {
			return "", newError(KindInternal, "failed to load credential", err)
		}
	}

	credential := &models.Credential{
		UserID:       userID,
		Provider:     models.ProviderGoogle,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
	}
	if credential.ExpiresAt.IsZero() {
		credential.ExpiresAt = time.Now().UTC().Add(defaultTokenLifetime)
	}
	if token.Scope != "" {
		scope := token.Scope
		credential.Scope = &scope
	}

	if err := s.credentials.Upsert(ctx, credential); err != nil {
		return "", newError(KindInternal, "failed to store credential", err)
	}

	s.logger.Info("google account connected", zap.String("user_id", userID))
	return userID, nil
}

// Status reports whether userID has a stored credential.
func (s *ConnectService) Status(ctx context.Context, userID string) (ConnectionStatus, error) {
	credential, err := s.credentials.GetByUser(ctx, userID, models.ProviderGoogle)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return ConnectionStatus{}, nil
		}
		return ConnectionStatus{}, newError(KindInternal, "failed to load credential", err)
	}
	expiresAt := credential.ExpiresAt
	return ConnectionStatus{Connected: true, ExpiresAt: &expiresAt}, nil
}

// Disconnect forgets the user's credential.
func (s *ConnectService) Disconnect(ctx context.Context, userID string) error {
	if err := s.credentials.Delete(ctx, userID, models.ProviderGoogle); err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return newError(KindNoCredential, "Google account is not connected", err)
		}
		return newError(KindInternal, "failed to delete credential", err)
	}
	s.logger.Info("google account disconnected", zap.String("user_id", userID))
	return nil
}
