package interfaces

import (
	"context"

	"github.com/majordome-app/majordome/internal/types"
)

// TokenService defines the interface for the OAuth token vault
type TokenService interface {
	// SaveToken normalizes and encrypts a provider token payload, then
	// upserts the latest row for (provider, userID)
	SaveToken(ctx context.Context, provider string, subject string, token types.TokenPayload, userID string) (*types.OAuthToken, error)

	// GetToken returns the decrypted payload of the most recent token row
	// for (provider, userID), or nil when none exists
	GetToken(ctx context.Context, provider string, userID string) (types.TokenPayload, error)

	// NeedsRefresh reports whether the payload's expiry is within
	// skewSeconds of now
	NeedsRefresh(token types.TokenPayload, skewSeconds int) bool
}

// TokenRepository defines the interface for OAuth token persistence
type TokenRepository interface {
	// Create persists a new token row and generates its identity
	Create(ctx context.Context, token *types.OAuthToken) error

	// Update persists changes to an existing token row
	Update(ctx context.Context, token *types.OAuthToken) error

	// GetLatest returns the most recently created row for
	// (provider, userID), or nil when none exists. An empty userID matches
	// rows regardless of user.
	GetLatest(ctx context.Context, provider string, userID string) (*types.OAuthToken, error)
}
