package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/majordome-app/majordome/internal/types"
	"github.com/majordome-app/majordome/internal/types/interfaces"
)

// tokenRepository implements the TokenRepository interface over gorm
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new OAuth token repository
func NewTokenRepository(db *gorm.DB) interfaces.TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *types.OAuthToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	token.CreatedAt = time.Now()
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create oauth token: %w", err)
	}
	return nil
}

func (r *tokenRepository) Update(ctx context.Context, token *types.OAuthToken) error {
	if err := r.db.WithContext(ctx).Save(token).Error; err != nil {
		return fmt.Errorf("failed to update oauth token: %w", err)
	}
	return nil
}

// GetLatest selects the most recently created row for (provider, userID).
// Older rows are kept as append-only versions and never pruned here.
func (r *tokenRepository) GetLatest(ctx context.Context, provider string, userID string) (*types.OAuthToken, error) {
	tx := r.db.WithContext(ctx).Where("provider = ?", provider)
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}

	var token types.OAuthToken
	err := tx.Order("created_at DESC").First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}
	return &token, nil
}
