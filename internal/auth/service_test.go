package auth

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/soukmarket/souk-backend/internal/sessions"
	"github.com/soukmarket/souk-backend/internal/users"
	pkgauth "github.com/soukmarket/souk-backend/pkg/auth"
	"github.com/soukmarket/souk-backend/pkg/config"
	"github.com/soukmarket/souk-backend/pkg/db/models"
	"github.com/soukmarket/souk-backend/pkg/enums"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "souk",
		ExpirationMinutes: 1440,
	}
}

func newTestService(t *testing.T) (Service, sessions.Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.ActiveSession{}, &models.BlacklistedToken{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	sessionSvc, err := sessions.NewService(sessions.ServiceParams{
		Repo: sessions.NewRepository(conn),
	})
	if err != nil {
		t.Fatalf("sessions.NewService: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Users:     users.NewRepository(conn),
		Sessions:  sessionSvc,
		JWTConfig: testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, sessionSvc
}

func register(t *testing.T, svc Service, email, userType string) *RegisterResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "s3cret-passw0rd",
		FullName: "Test User",
		UserType: userType,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return resp
}

func TestRegisterIssuesTokenForRequestedRole(t *testing.T) {
	svc, sessionSvc := newTestService(t)
	ctx := context.Background()

	resp := register(t, svc, "Merchant@Example.com", "merchant")

	if resp.User.Email != "merchant@example.com" {
		t.Fatalf("expected lowercased email, got %q", resp.User.Email)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Role != enums.UserTypeMerchant {
		t.Fatalf("expected merchant role in claims, got %q", claims.Role)
	}
	if claims.UserID != resp.UserID {
		t.Fatalf("claims user id %s does not match response %s", claims.UserID, resp.UserID)
	}

	count, err := sessionSvc.CountActiveForUser(ctx, resp.UserID)
	if err != nil {
		t.Fatalf("CountActiveForUser: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 active session after register, got %d", count)
	}
}

func TestRegisterRejectsInvalidUserType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "someone@example.com",
		Password: "s3cret-passw0rd",
		FullName: "Someone",
		UserType: "superuser",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newTestService(t)

	register(t, svc, "dupe@example.com", "customer")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "dupe@example.com",
		Password: "another-passw0rd",
		FullName: "Second",
		UserType: "customer",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "login@example.com", "customer")

	_, err := svc.Login(ctx, LoginRequest{Email: "login@example.com", Password: "wrong-password"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized on bad password, got %v", err)
	}

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "wrong-password"})
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestSecondLoginDisplacesLedgerRowNotToken(t *testing.T) {
	svc, sessionSvc := newTestService(t)
	ctx := context.Background()

	resp := register(t, svc, "twice@example.com", "customer")
	first := resp.Token

	login, err := svc.Login(ctx, LoginRequest{Email: "twice@example.com", Password: "s3cret-passw0rd"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The ledger holds only the newest row; the older token stays usable
	// until it expires or is revoked.
	count, err := sessionSvc.CountActiveForUser(ctx, resp.UserID)
	if err != nil {
		t.Fatalf("CountActiveForUser: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 active session after second login, got %d", count)
	}
	if _, err := pkgauth.ParseAccessToken(testJWTConfig(), first); err != nil {
		t.Fatalf("first token should still verify: %v", err)
	}

	blacklisted, err := sessionSvc.IsBlacklisted(ctx, first)
	if err != nil {
		t.Fatalf("IsBlacklisted: %v", err)
	}
	if blacklisted {
		t.Fatal("second login must not revoke the first token")
	}
	_ = login
}

func TestLogoutRevokesTokenOnce(t *testing.T) {
	svc, sessionSvc := newTestService(t)
	ctx := context.Background()

	resp := register(t, svc, "bye@example.com", "customer")

	if err := svc.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	blacklisted, err := sessionSvc.IsBlacklisted(ctx, resp.Token)
	if err != nil {
		t.Fatalf("IsBlacklisted: %v", err)
	}
	if !blacklisted {
		t.Fatal("logout must blacklist the token")
	}

	count, err := sessionSvc.CountActiveForUser(ctx, resp.UserID)
	if err != nil {
		t.Fatalf("CountActiveForUser: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected active session removed on logout, got %d rows", count)
	}

	err = svc.Logout(ctx, resp.Token)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized on repeated logout, got %v", err)
	}
}

func TestLogoutRejectsMalformedToken(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Logout(context.Background(), "not-a-jwt")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for malformed token, got %v", err)
	}
}
