package token

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/majordome-app/majordome/internal/logger"
	"github.com/majordome-app/majordome/internal/secret"
	"github.com/majordome-app/majordome/internal/types"
	"github.com/majordome-app/majordome/internal/types/interfaces"
)

// defaultSkewSeconds is the refresh window applied when the caller does
// not specify one
const defaultSkewSeconds = 120

// tokenService implements the TokenService interface. Access token,
// refresh token and the raw payload are encrypted before they reach the
// repository; the store only ever sees opaque text.
type tokenService struct {
	repo interfaces.TokenRepository
	box  *secret.Box
	now  func() time.Time
}

// NewTokenService creates a new OAuth token vault
func NewTokenService(repo interfaces.TokenRepository, box *secret.Box) interfaces.TokenService {
	return &tokenService{
		repo: repo,
		box:  box,
		now:  time.Now,
	}
}

// SaveToken normalizes a provider payload and upserts the latest row for
// (provider, userID). There is no update path that fails when absent: a
// missing row is created.
func (s *tokenService) SaveToken(ctx context.Context, provider string, subject string, payload types.TokenPayload, userID string) (*types.OAuthToken, error) {
	accessToken := stringField(payload, "access_token")
	if accessToken == "" {
		accessToken = stringField(payload, "token")
	}
	refreshToken := stringField(payload, "refresh_token")
	tokenType := stringField(payload, "token_type")
	scope := scopeField(payload)

	var expiresAt *time.Time
	if exp := resolveExpiry(payload, s.now()); exp.kind == expiryAbsolute {
		at := exp.at
		expiresAt = &at
	}

	rawJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize token payload: %w", err)
	}

	encAccess, err := s.box.Encrypt(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	encRaw, err := s.box.Encrypt(string(rawJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt token payload: %w", err)
	}
	var encRefresh *string
	if refreshToken != "" {
		enc, err := s.box.Encrypt(refreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
		encRefresh = &enc
	}

	row, err := s.repo.GetLatest(ctx, provider, userID)
	if err != nil {
		return nil, err
	}
	fresh := row == nil
	if fresh {
		row = &types.OAuthToken{Provider: provider}
		if userID != "" {
			row.UserID = &userID
		}
	}

	row.Subject = subject
	row.AccessToken = encAccess
	row.RefreshToken = encRefresh
	row.TokenType = tokenType
	row.Scope = scope
	row.ExpiresAt = expiresAt
	row.Raw = encRaw

	if fresh {
		err = s.repo.Create(ctx, row)
	} else {
		err = s.repo.Update(ctx, row)
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "saved oauth token for provider=%s user=%s (encrypted=%t)", provider, userID, s.box.Enabled())
	return row, nil
}

// GetToken returns the decrypted payload of the most recent row, or nil
// when no row exists. A decryption failure falls back to the stored value
// rather than failing the call; the token may then be unusable and the
// caller handles the downstream authentication failure.
func (s *tokenService) GetToken(ctx context.Context, provider string, userID string) (types.TokenPayload, error) {
	row, err := s.repo.GetLatest(ctx, provider, userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}

	raw, err := s.box.Decrypt(row.Raw)
	if err != nil {
		logger.Warnf(ctx, "failed to decrypt token payload for provider=%s, returning stored value: %v", provider, err)
	}

	var payload types.TokenPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil && payload != nil {
		return payload, nil
	}

	// Raw payload unreadable: reconstruct a minimal one from the columns
	payload = types.TokenPayload{}
	if access, err := s.box.Decrypt(row.AccessToken); err == nil {
		payload["access_token"] = access
	} else {
		payload["access_token"] = row.AccessToken
	}
	if row.RefreshToken != nil {
		if refresh, err := s.box.Decrypt(*row.RefreshToken); err == nil {
			payload["refresh_token"] = refresh
		} else {
			payload["refresh_token"] = *row.RefreshToken
		}
	}
	if row.TokenType != "" {
		payload["token_type"] = row.TokenType
	}
	if row.Scope != "" {
		payload["scope"] = row.Scope
	}
	if row.ExpiresAt != nil {
		payload["expires_at"] = float64(row.ExpiresAt.Unix())
	}
	return payload, nil
}

// NeedsRefresh reports whether the payload expires within skewSeconds.
// A payload carrying only a relative expires_in is treated as needing
// refresh (the absolute timestamp was never resolved, assume stale); a
// payload with no expiry information at all is treated as valid.
func (s *tokenService) NeedsRefresh(payload types.TokenPayload, skewSeconds int) bool {
	if skewSeconds <= 0 {
		skewSeconds = defaultSkewSeconds
	}
	skew := time.Duration(skewSeconds) * time.Second
	now := s.now()

	if v, ok := payload["expires_at"]; ok && !emptyValue(v) {
		at, ok := parseAbsolute(v)
		if !ok {
			return false
		}
		return at.Sub(now) < skew
	}
	// Google credentials serialize the absolute timestamp as "expiry"
	if v, ok := payload["expiry"]; ok && !emptyValue(v) {
		str, ok := v.(string)
		if !ok {
			return false
		}
		at, ok := parseISO(str)
		if !ok {
			return false
		}
		return at.Sub(now) < skew
	}
	if v, ok := payload["expires_in"]; ok && !emptyValue(v) {
		return true
	}
	return false
}

func stringField(payload types.TokenPayload, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

// scopeField reads the scope as a string or joins a sequence with spaces
func scopeField(payload types.TokenPayload) string {
	switch v := payload["scope"].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}
