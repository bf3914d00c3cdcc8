package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aeroparkhq/aeropark-backend/pkg/db/models"
)

// TokenStore is the gorm-backed session.TokenStore implementation.
type TokenStore struct {
	db *gorm.DB
}

// NewTokenStore binds the refresh token store to the provided DB.
func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) Insert(ctx context.Context, token *models.RefreshToken) error {
	return s.db.WithContext(ctx).Create(token).Error
}

// FindActive returns the unrevoked, unexpired token for the hash, or
// nil when no such token exists.
func (s *TokenStore) FindActive(ctx context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := s.db.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", tokenHash, now).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (s *TokenStore) Revoke(ctx context.Context, tokenHash string, now time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", now).Error
}

func (s *TokenStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).Error
}

// DeleteExpired purges tokens that expired before the cutoff. Used by
// the cron worker to keep the table small.
func (s *TokenStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
