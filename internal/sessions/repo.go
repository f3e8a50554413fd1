package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soukmarket/souk-backend/pkg/db/models"
)

// Repository handles the active-session and blacklist tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to session ledger operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DeleteActiveByUser removes any active-session rows for the user.
func (r *Repository) DeleteActiveByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.ActiveSession{}).Error
}

// InsertActive records the user's current token.
func (r *Repository) InsertActive(ctx context.Context, session *models.ActiveSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// DeleteActiveByUserToken removes the active row matching both user and token.
func (r *Repository) DeleteActiveByUserToken(ctx context.Context, userID uuid.UUID, token string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.ActiveSession{}).Error
}

// DeleteActiveByToken removes any active row carrying the token, regardless
// of owner.
func (r *Repository) DeleteActiveByToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.ActiveSession{}).Error
}

// CountActiveByUser returns how many active rows the user holds.
func (r *Repository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ActiveSession{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// InsertBlacklisted records a revoked token.
func (r *Repository) InsertBlacklisted(ctx context.Context, row *models.BlacklistedToken) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// FindBlacklisted looks up a token in the blacklist.
func (r *Repository) FindBlacklisted(ctx context.Context, token string) (*models.BlacklistedToken, error) {
	var row models.BlacklistedToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteExpired removes ledger rows whose tokens have passed their natural
// expiry. Returns rows removed per table.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, int64, error) {
	blacklist := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.BlacklistedToken{})
	if blacklist.Error != nil {
		return 0, 0, blacklist.Error
	}

	active := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.ActiveSession{})
	if active.Error != nil {
		return blacklist.RowsAffected, 0, active.Error
	}

	return blacklist.RowsAffected, active.RowsAffected, nil
}
