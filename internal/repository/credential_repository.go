package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vipul43/classmate-sync/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCredentialNotFound = errors.New("credential not found")

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// GetByUser retrieves the credential for a user and provider
func (r *CredentialRepository) GetByUser(ctx context.Context, userID, provider string) (*models.Credential, error) {
	var credential models.Credential
	result := r.db.WithContext(ctx).First(&credential, "user_id = ? AND provider = ?", userID, provider)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to get credential: %w", result.Error)
	}
	return &credential, nil
}

// Upsert stores a freshly exchanged credential, replacing any existing one
// for the same user and provider. An empty refresh token keeps the stored one.
func (r *CredentialRepository) Upsert(ctx context.Context, credential *models.Credential) error {
	now := time.Now().UTC()
	if credential.ID == "" {
		credential.ID = uuid.New().String()
	}
	if credential.CreatedAt.IsZero() {
		credential.CreatedAt = now
	}
	credential.UpdatedAt = now

	columns := []string{"access_token", "expires_at", "scope", "updated_at"}
	if credential.RefreshToken != "" {
		columns = append(columns, "refresh_token")
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "provider"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(credential)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert credential: %w", result.Error)
	}
	return nil
}

// UpdateTokens writes a refreshed token triple, but only if the row has not
// been updated since prevUpdatedAt. It reports whether the row was written.
func (r *CredentialRepository) UpdateTokens(ctx context.Context, credentialID, accessToken, refreshToken string, expiresAt, refreshedAt, prevUpdatedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Credential{}).
		Where("id = ? AND updated_at = ?", credentialID, prevUpdatedAt).
		Updates(map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"expires_at":    expiresAt,
			"updated_at":    refreshedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update tokens: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Delete removes the credential, disconnecting the provider
func (r *CredentialRepository) Delete(ctx context.Context, userID, provider string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&models.Credential{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete credential: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
