package models

import "time"

// ProviderGoogle is the only provider the gateway talks to today.
const ProviderGoogle = "google"

// Credential is a user's OAuth token triple for one provider.
// ExpiresAt always describes the AccessToken stored in the same row.
type Credential struct {
	ID           string    `gorm:"column:id;primaryKey"`
	UserID       string    `gorm:"column:user_id;uniqueIndex:idx_oauth_credential_user_provider"`
	Provider     string    `gorm:"column:provider;uniqueIndex:idx_oauth_credential_user_provider"`
	AccessToken  string    `gorm:"column:access_token"`
	RefreshToken string    `gorm:"column:refresh_token"`
	ExpiresAt    time.Time `gorm:"column:expires_at"`
	Scope        *string   `gorm:"column:scope"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for GORM
func (Credential) TableName() string {
	return "oauth_credential"
}

// IsExpired reports whether the access token must be refreshed before use at now.
func (c *Credential) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
