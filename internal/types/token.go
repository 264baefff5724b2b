package types

import "time"

// OAuthToken stores an encrypted provider token pair for a user.
// Rows are append-only versioned: the most recently created row for a
// (provider, user) pair is "the" token.
type OAuthToken struct {
	ID       string `json:"id" gorm:"type:varchar(36);primaryKey"`
	Provider string `json:"provider" gorm:"type:varchar(50);not null;index"`
	// Subject is the provider-side account identifier, when known
	Subject string  `json:"subject,omitempty" gorm:"type:varchar(255)"`
	UserID  *string `json:"user_id,omitempty" gorm:"type:varchar(36);index"`
	// AccessToken and RefreshToken are encrypted at the application layer;
	// the store treats them as opaque text
	AccessToken  string  `json:"-" gorm:"type:text;not null"`
	RefreshToken *string `json:"-" gorm:"type:text"`
	TokenType    string  `json:"token_type,omitempty" gorm:"type:varchar(50)"`
	// Scope is the space-delimited scope string
	Scope     string     `json:"scope,omitempty" gorm:"type:text"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	// Raw holds the encrypted full provider payload for round-trip fidelity
	Raw       string    `json:"-" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the table name of the OAuthToken model
func (OAuthToken) TableName() string {
	return "oauth_tokens"
}

// TokenPayload is the provider-shaped token dictionary exchanged with the
// OAuth collaborators (key names vary by provider)
type TokenPayload map[string]interface{}
