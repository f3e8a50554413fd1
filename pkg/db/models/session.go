package models

import (
	"time"

	"github.com/google/uuid"
)

// ActiveSession is the bookkeeping row recording the most recent token
// issued to a user. Login replaces it; at most one row exists per user.
type ActiveSession struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Token     string    `gorm:"column:token;not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the historical table name.
func (ActiveSession) TableName() string {
	return "active_sessions"
}

// BlacklistedToken marks a token revoked by logout. Rows are immutable and
// swept only after the token's natural expiry.
type BlacklistedToken struct {
	Token     string    `gorm:"column:token;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the historical table name.
func (BlacklistedToken) TableName() string {
	return "blacklisted_tokens"
}
