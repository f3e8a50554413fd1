package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/soukmarket/souk-backend/internal/auth"
	"github.com/soukmarket/souk-backend/internal/geoip"
	"github.com/soukmarket/souk-backend/internal/media"
	"github.com/soukmarket/souk-backend/internal/merchants"
	"github.com/soukmarket/souk-backend/internal/products"
	"github.com/soukmarket/souk-backend/internal/stores"
	"github.com/soukmarket/souk-backend/internal/users"
	pkgauth "github.com/soukmarket/souk-backend/pkg/auth"
	"github.com/soukmarket/souk-backend/pkg/config"
	"github.com/soukmarket/souk-backend/pkg/enums"
	"github.com/soukmarket/souk-backend/pkg/logger"
	"github.com/soukmarket/souk-backend/pkg/pagination"
	"github.com/soukmarket/souk-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessions struct{}

func (stubSessions) ReplaceActiveSession(context.Context, uuid.UUID, string, time.Time) error {
	return nil
}
func (stubSessions) RemoveActiveSession(context.Context, uuid.UUID, string) error { return nil }
func (stubSessions) RemoveActiveByToken(context.Context, string) error            { return nil }
func (stubSessions) Blacklist(context.Context, string, uuid.UUID, time.Time) error {
	return nil
}
func (stubSessions) IsBlacklisted(context.Context, string) (bool, error) { return false, nil }
func (stubSessions) CountActiveForUser(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}
func (stubSessions) SweepExpired(context.Context, time.Time) (int64, error) { return 0, nil }

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return &auth.RegisterResponse{}, nil
}
func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{}, nil
}
func (stubAuthService) Logout(context.Context, string) error { return nil }

type stubUsersService struct{}

func (stubUsersService) GetByID(_ context.Context, id uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}
func (stubUsersService) List(_ context.Context, _ *enums.UserType, params pagination.Params) ([]users.UserDTO, pagination.Page, error) {
	return nil, pagination.MetaFor(params, 0), nil
}
func (stubUsersService) UpdateProfile(_ context.Context, id uuid.UUID, _ users.UpdateUserInput) (*users.UserDTO, error) {
	return &users.UserDTO{ID: id}, nil
}
func (stubUsersService) DeleteProfile(context.Context, uuid.UUID) error { return nil }

type stubMerchantsService struct{}

func (stubMerchantsService) CreateProfile(context.Context, merchants.CreateProfileInput) (*merchants.MerchantProfileDTO, error) {
	return &merchants.MerchantProfileDTO{}, nil
}
func (stubMerchantsService) GetByID(_ context.Context, id uuid.UUID) (*merchants.MerchantProfileDTO, error) {
	return &merchants.MerchantProfileDTO{ID: id}, nil
}
func (stubMerchantsService) List(_ context.Context, params pagination.Params) ([]merchants.MerchantProfileDTO, pagination.Page, error) {
	return nil, pagination.MetaFor(params, 0), nil
}
func (stubMerchantsService) UpdateProfile(_ context.Context, id uuid.UUID, _ merchants.UpdateProfileRequest) (*merchants.MerchantProfileDTO, error) {
	return &merchants.MerchantProfileDTO{ID: id}, nil
}
func (stubMerchantsService) DeleteProfile(context.Context, uuid.UUID) error { return nil }

type stubStoresService struct{}

func (stubStoresService) Create(context.Context, uuid.UUID, stores.CreateStoreRequest) (*stores.StoreDTO, error) {
	return &stores.StoreDTO{}, nil
}
func (stubStoresService) GetByID(_ context.Context, id uuid.UUID) (*stores.StoreDTO, error) {
	return &stores.StoreDTO{ID: id}, nil
}
func (stubStoresService) ListByMerchant(context.Context, uuid.UUID) ([]stores.StoreDTO, error) {
	return nil, nil
}
func (stubStoresService) ListAll(_ context.Context, params pagination.Params) ([]stores.StoreDTO, pagination.Page, error) {
	return nil, pagination.MetaFor(params, 0), nil
}
func (stubStoresService) Update(_ context.Context, id, _ uuid.UUID, _ enums.UserType, _ stores.UpdateStoreRequest) (*stores.StoreDTO, error) {
	return &stores.StoreDTO{ID: id}, nil
}
func (stubStoresService) Delete(context.Context, uuid.UUID, uuid.UUID, enums.UserType) error {
	return nil
}

type stubProductsService struct{}

func (stubProductsService) Create(context.Context, uuid.UUID, products.CreateProductRequest) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}
func (stubProductsService) GetByID(_ context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}
func (stubProductsService) List(_ context.Context, _ products.ListFilters, params pagination.Params) ([]products.ProductDTO, pagination.Page, error) {
	return nil, pagination.MetaFor(params, 0), nil
}
func (stubProductsService) ListByMerchant(context.Context, uuid.UUID) ([]products.ProductDTO, error) {
	return nil, nil
}
func (stubProductsService) Update(_ context.Context, id, _ uuid.UUID, _ enums.UserType, _ products.UpdateProductRequest) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}
func (stubProductsService) Delete(context.Context, uuid.UUID, uuid.UUID, enums.UserType) error {
	return nil
}

type stubMediaService struct{}

func (stubMediaService) Upload(context.Context, string, string, io.Reader) (*media.UploadResult, error) {
	return &media.UploadResult{URL: "https://storage.example.com/images/x"}, nil
}
func (stubMediaService) List(context.Context) (*media.ImageListing, error) {
	return &media.ImageListing{}, nil
}

type stubGeoIPService struct{}

func (stubGeoIPService) Lookup(context.Context) (*geoip.LocationResult, error) {
	return &geoip.LocationResult{IP: "203.0.113.9"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "souk", ExpirationMinutes: 1440},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          stubPinger{},
		Redis:       (*redis.Client)(nil),
		Sessions:    stubSessions{},
		AuthService: stubAuthService{},
		Users:       stubUsersService{},
		Merchants:   stubMerchantsService{},
		Stores:      stubStoresService{},
		Products:    stubProductsService{},
		Media:       stubMediaService{},
		GeoIP:       stubGeoIPService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserType) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "user@example.com",
		Role:   role,
		Status: enums.UserStatusActive,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}
	return token
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, target := range []string{"/api/users/me", "/api/store/all", "/api/images/list"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without token, got %d", target, resp.Code)
		}
	}
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, target := range []string{"/api/products", "/health/live"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", target, resp.Code)
		}
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, target := range []string{"/api/users", "/api/users/admins", "/api/users/customers", "/api/merchants", "/api/store/all"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeCustomer))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusForbidden {
			t.Fatalf("expected 403 for %s as customer, got %d", target, resp.Code)
		}

		req = httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeAdmin))
		resp = httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s as admin, got %d", target, resp.Code)
		}
	}
}

func TestMerchantRoutesRequireMerchantRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/store", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 creating a store as customer, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/users/merchants", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeMerchant))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 listing merchants as merchant, got %d", resp.Code)
	}
}

func TestBearerRoutesAcceptAnyRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserTypeCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for /api/users/me as customer, got %d", resp.Code)
	}
}
