package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/soukmarket/souk-backend/internal/sessions"
	"github.com/soukmarket/souk-backend/internal/users"
	pkgauth "github.com/soukmarket/souk-backend/pkg/auth"
	"github.com/soukmarket/souk-backend/pkg/config"
	"github.com/soukmarket/souk-backend/pkg/db"
	"github.com/soukmarket/souk-backend/pkg/db/models"
	"github.com/soukmarket/souk-backend/pkg/enums"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/logger"
	"github.com/soukmarket/souk-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service handles registration, login, and token revocation.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
}

// ServiceParams carries the auth service dependencies.
type ServiceParams struct {
	Users          userRepository
	Sessions       sessions.Service
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type service struct {
	users    userRepository
	sessions sessions.Service
	jwtCfg   config.JWTConfig
	passCfg  config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session service required")
	}
	return &service{
		users:    params.Users,
		sessions: params.Sessions,
		jwtCfg:   params.JWTConfig,
		passCfg:  params.PasswordConfig,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	userType, err := enums.ParseUserType(req.UserType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user type")
	}

	hash, err := security.HashPassword(req.Password, s.passCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     req.FullName,
		UserType:     userType,
		Status:       enums.UserStatusActive,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating user")
	}

	token, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &RegisterResponse{
		UserID: user.ID,
		Token:  token,
		User:   users.FromModel(user),
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token: token,
		User:  users.FromModel(user),
	}, nil
}

// Logout revokes the presented token. The revocation ledger is consulted
// before the signature so an already revoked token cannot pass through
// logout a second time.
func (s *service) Logout(ctx context.Context, token string) error {
	revoked, err := s.sessions.IsBlacklisted(ctx, token)
	if err != nil {
		return err
	}
	if revoked {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "token invalidated")
	}

	claims, err := pkgauth.ParseAccessToken(s.jwtCfg, token)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}

	if err := s.sessions.Blacklist(ctx, token, claims.UserID, claims.ExpiresAt.Time); err != nil {
		return err
	}

	// Best effort; the blacklist row already guarantees the token is dead.
	if err := s.sessions.RemoveActiveSession(ctx, claims.UserID, token); err != nil && s.logg != nil {
		ctx = s.logg.WithUserID(ctx, claims.UserID.String())
		s.logg.Warn(ctx, "failed to remove active session row on logout")
	}
	return nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user by email")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// issueSession mints an access token and records it as the user's single
// active session, displacing any previous one.
func (s *service) issueSession(ctx context.Context, user *models.User) (string, error) {
	now := s.now()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.UserType,
		Status: user.Status,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	expiresAt := now.Add(s.jwtCfg.Expiration())
	if err := s.sessions.ReplaceActiveSession(ctx, user.ID, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}
