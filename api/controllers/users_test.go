package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/api/middleware"
	"github.com/soukmarket/souk-backend/internal/users"
	pkgauth "github.com/soukmarket/souk-backend/pkg/auth"
	"github.com/soukmarket/souk-backend/pkg/enums"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

type stubUsersService struct {
	gotID    uuid.UUID
	gotInput *users.UpdateUserInput
	deleted  uuid.UUID
}

func (s *stubUsersService) GetByID(_ context.Context, id uuid.UUID) (*users.UserDTO, error) {
	s.gotID = id
	return &users.UserDTO{ID: id, Email: "amina@example.com", FullName: "Amina K"}, nil
}

func (s *stubUsersService) List(_ context.Context, _ *enums.UserType, params pagination.Params) ([]users.UserDTO, pagination.Page, error) {
	return []users.UserDTO{{ID: uuid.New()}}, pagination.MetaFor(params, 1), nil
}

func (s *stubUsersService) UpdateProfile(_ context.Context, id uuid.UUID, input users.UpdateUserInput) (*users.UserDTO, error) {
	s.gotID = id
	s.gotInput = &input
	return &users.UserDTO{ID: id}, nil
}

func (s *stubUsersService) DeleteProfile(_ context.Context, id uuid.UUID) error {
	s.deleted = id
	return nil
}

func claimsContext(userID uuid.UUID, role enums.UserType) context.Context {
	return middleware.WithClaims(context.Background(), &pkgauth.AccessTokenClaims{
		UserID: userID,
		Email:  "amina@example.com",
		Role:   role,
		Status: enums.UserStatusActive,
	})
}

func TestMeController(t *testing.T) {
	logg := testLogger()

	t.Run("returns the authenticated account", func(t *testing.T) {
		stub := &stubUsersService{}
		callerID := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req = req.WithContext(claimsContext(callerID, enums.UserTypeCustomer))
		rec := httptest.NewRecorder()

		Me(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.gotID != callerID {
			t.Fatalf("expected lookup for the caller, got %s", stub.gotID)
		}
	})

	t.Run("missing context rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		rec := httptest.NewRecorder()

		Me(&stubUsersService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestProfileTargetResolution(t *testing.T) {
	logg := testLogger()
	callerID := uuid.New()
	otherID := uuid.New()

	t.Run("non-admin cannot target another account", func(t *testing.T) {
		stub := &stubUsersService{}
		req := httptest.NewRequest(http.MethodGet, "/api/users/profile?id="+otherID.String(), nil)
		req = req.WithContext(claimsContext(callerID, enums.UserTypeMerchant))
		rec := httptest.NewRecorder()

		GetProfile(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin override targets the named account", func(t *testing.T) {
		stub := &stubUsersService{}
		req := httptest.NewRequest(http.MethodGet, "/api/users/profile?id="+otherID.String(), nil)
		req = req.WithContext(claimsContext(callerID, enums.UserTypeAdmin))
		rec := httptest.NewRecorder()

		GetProfile(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.gotID != otherID {
			t.Fatalf("expected lookup for the requested account, got %s", stub.gotID)
		}
	})

	t.Run("defaults to the caller", func(t *testing.T) {
		stub := &stubUsersService{}
		req := httptest.NewRequest(http.MethodDelete, "/api/users/profile", nil)
		req = req.WithContext(claimsContext(callerID, enums.UserTypeCustomer))
		rec := httptest.NewRecorder()

		DeleteProfile(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.deleted != callerID {
			t.Fatalf("expected caller's profile deleted, got %s", stub.deleted)
		}
	})
}

func TestUpdateProfileStatusGuard(t *testing.T) {
	logg := testLogger()
	callerID := uuid.New()

	t.Run("non-admin cannot change status", func(t *testing.T) {
		stub := &stubUsersService{}
		body := `{"status":"suspended"}`
		req := httptest.NewRequest(http.MethodPut, "/api/users/profile", strings.NewReader(body))
		req = req.WithContext(claimsContext(callerID, enums.UserTypeMerchant))
		rec := httptest.NewRecorder()

		UpdateProfile(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if stub.gotInput != nil {
			t.Fatalf("service should not run when the guard fires")
		}
	})

	t.Run("admin may change status", func(t *testing.T) {
		stub := &stubUsersService{}
		body := `{"status":"suspended","full_name":"Renamed"}`
		req := httptest.NewRequest(http.MethodPut, "/api/users/profile", strings.NewReader(body))
		req = req.WithContext(claimsContext(callerID, enums.UserTypeAdmin))
		rec := httptest.NewRecorder()

		UpdateProfile(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.gotInput == nil || stub.gotInput.Status == nil || *stub.gotInput.Status != "suspended" {
			t.Fatalf("expected the status change to reach the service")
		}
	})
}
