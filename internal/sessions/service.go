package sessions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/pkg/db"
	"github.com/soukmarket/souk-backend/pkg/db/models"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/logger"
)

type ledgerRepository interface {
	DeleteActiveByUser(ctx context.Context, userID uuid.UUID) error
	InsertActive(ctx context.Context, session *models.ActiveSession) error
	DeleteActiveByUserToken(ctx context.Context, userID uuid.UUID, token string) error
	DeleteActiveByToken(ctx context.Context, token string) error
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	InsertBlacklisted(ctx context.Context, row *models.BlacklistedToken) error
	FindBlacklisted(ctx context.Context, token string) (*models.BlacklistedToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, int64, error)
}

// Service is the token ledger consulted on login, logout, and every
// authenticated request.
type Service interface {
	ReplaceActiveSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	RemoveActiveSession(ctx context.Context, userID uuid.UUID, token string) error
	RemoveActiveByToken(ctx context.Context, token string) error
	Blacklist(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
	CountActiveForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type service struct {
	repo ledgerRepository
	logg *logger.Logger
}

// ServiceParams carries the session service dependencies.
type ServiceParams struct {
	Repo   ledgerRepository
	Logger *logger.Logger
}

// NewService builds the session ledger service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("session repository required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

// ReplaceActiveSession deletes the user's prior bookkeeping row and records
// the new token. A failed delete is logged and swallowed; a failed insert is
// returned and fails the login.
func (s *service) ReplaceActiveSession(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if err := s.repo.DeleteActiveByUser(ctx, userID); err != nil {
		if s.logg != nil {
			ctx = s.logg.WithFields(ctx, map[string]any{"user_id": userID.String()})
			s.logg.Warn(ctx, "failed to clear prior active session")
		}
	}

	row := &models.ActiveSession{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.repo.InsertActive(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording active session")
	}
	return nil
}

// RemoveActiveSession is best effort; callers decide whether a failure
// matters.
func (s *service) RemoveActiveSession(ctx context.Context, userID uuid.UUID, token string) error {
	return s.repo.DeleteActiveByUserToken(ctx, userID, token)
}

// RemoveActiveByToken drops any active row carrying the token. Used when a
// blacklisted token is presented and its owner is not yet known.
func (s *service) RemoveActiveByToken(ctx context.Context, token string) error {
	return s.repo.DeleteActiveByToken(ctx, token)
}

// Blacklist marks the token revoked until its natural expiry. A duplicate
// insert means a concurrent request already revoked the same token, so it is
// reported as a revoked-token error rather than a storage failure.
func (s *service) Blacklist(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	row := &models.BlacklistedToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.repo.InsertBlacklisted(ctx, row); err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "token invalidated")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording blacklisted token")
	}
	return nil
}

// IsBlacklisted performs the per-request revocation lookup. Lookup errors
// propagate so the middleware can refuse the request instead of letting a
// revoked token through.
func (s *service) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	row, err := s.repo.FindBlacklisted(ctx, token)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "blacklist lookup failed")
	}
	return row != nil, nil
}

// CountActiveForUser reports ledger rows held by the user.
func (s *service) CountActiveForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountActiveByUser(ctx, userID)
}

// SweepExpired drops ledger rows past their expiry and returns the total
// removed.
func (s *service) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	blacklisted, active, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		return blacklisted + active, err
	}
	return blacklisted + active, nil
}
