package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aeroparkhq/aeropark-backend/pkg/config"
	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// TokenStore persists refresh token hashes. The raw token is only ever
// held by the client.
type TokenStore interface {
	Insert(ctx context.Context, token *models.RefreshToken) error
	FindActive(ctx context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string, now time.Time) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error
}

// Manager handles refresh token creation, rotation, and revocation.
type Manager struct {
	store TokenStore
	ttl   time.Duration
	now   func() time.Time
}

// NewManager constructs a session manager backed by the token store.
func NewManager(store TokenStore, cfg config.JWTConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("token store is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}

	return &Manager{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

// Generate creates a refresh token for the user and stores its hash.
func (m *Manager) Generate(ctx context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}
	raw, err := generateRefreshToken()
	if err != nil {
		return "", err
	}
	record := &models.RefreshToken{
		UserID:    userID,
		TokenHash: HashToken(raw),
		ExpiresAt: m.now().Add(m.ttl),
	}
	if err := m.store.Insert(ctx, record); err != nil {
		return "", err
	}
	return raw, nil
}

// Rotate validates the provided refresh token, revokes it, and issues a
// replacement. Returns the owning user so the caller can mint a fresh
// access token.
func (m *Manager) Rotate(ctx context.Context, provided string) (uuid.UUID, string, error) {
	if strings.TrimSpace(provided) == "" {
		return uuid.Nil, "", ErrInvalidRefreshToken
	}

	now := m.now()
	hash := HashToken(provided)
	record, err := m.store.FindActive(ctx, hash, now)
	if err != nil {
		return uuid.Nil, "", err
	}
	if record == nil {
		return uuid.Nil, "", ErrInvalidRefreshToken
	}

	if err := m.store.Revoke(ctx, hash, now); err != nil {
		return uuid.Nil, "", err
	}

	raw, err := generateRefreshToken()
	if err != nil {
		return uuid.Nil, "", err
	}
	replacement := &models.RefreshToken{
		UserID:    record.UserID,
		TokenHash: HashToken(raw),
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Insert(ctx, replacement); err != nil {
		return uuid.Nil, "", err
	}

	return record.UserID, raw, nil
}

// Revoke invalidates the provided refresh token.
func (m *Manager) Revoke(ctx context.Context, provided string) error {
	if strings.TrimSpace(provided) == "" {
		return ErrInvalidRefreshToken
	}
	return m.store.Revoke(ctx, HashToken(provided), m.now())
}

// RevokeAll invalidates every active refresh token the user holds.
func (m *Manager) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("user id is required")
	}
	return m.store.RevokeAllForUser(ctx, userID, m.now())
}

// NewAccessID produces a stable identifier used as the JWT jti.
func NewAccessID() string {
	return uuid.NewString()
}

// HashToken derives the storage key for a raw refresh token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func generateRefreshToken() (string, error) {
	bytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
