package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/soukmarket/souk-backend/internal/products"
	"github.com/soukmarket/souk-backend/pkg/enums"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

type stubProductsService struct {
	gotMerchant uuid.UUID
	gotCreate   *products.CreateProductRequest
	gotFilters  *products.ListFilters
	gotUpdateID uuid.UUID
	gotActor    uuid.UUID
	gotRole     enums.UserType
	deletedID   uuid.UUID
}

func (s *stubProductsService) Create(_ context.Context, merchantID uuid.UUID, req products.CreateProductRequest) (*products.ProductDTO, error) {
	s.gotMerchant = merchantID
	s.gotCreate = &req
	return &products.ProductDTO{ID: uuid.New(), Title: req.Title}, nil
}

func (s *stubProductsService) GetByID(_ context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id}, nil
}

func (s *stubProductsService) List(_ context.Context, filters products.ListFilters, params pagination.Params) ([]products.ProductDTO, pagination.Page, error) {
	s.gotFilters = &filters
	return nil, pagination.MetaFor(params, 0), nil
}

func (s *stubProductsService) ListByMerchant(_ context.Context, merchantID uuid.UUID) ([]products.ProductDTO, error) {
	s.gotMerchant = merchantID
	return nil, nil
}

func (s *stubProductsService) Update(_ context.Context, id, actorID uuid.UUID, actorRole enums.UserType, _ products.UpdateProductRequest) (*products.ProductDTO, error) {
	s.gotUpdateID = id
	s.gotActor = actorID
	s.gotRole = actorRole
	return &products.ProductDTO{ID: id}, nil
}

func (s *stubProductsService) Delete(_ context.Context, id, actorID uuid.UUID, actorRole enums.UserType) error {
	s.deletedID = id
	s.gotActor = actorID
	s.gotRole = actorRole
	return nil
}

func TestCreateProductController(t *testing.T) {
	logg := testLogger()
	merchantID := uuid.New()

	t.Run("unknown body fields are tolerated", func(t *testing.T) {
		stub := &stubProductsService{}
		body := `{"title":"Copper Teapot","price":"45.00","category":"kitchen","voltage":"220v"}`
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
		req = req.WithContext(claimsContext(merchantID, enums.UserTypeMerchant))
		rec := httptest.NewRecorder()

		CreateProduct(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.gotMerchant != merchantID {
			t.Fatalf("expected the caller as owning merchant, got %s", stub.gotMerchant)
		}
		if stub.gotCreate == nil || stub.gotCreate.Attributes["voltage"] != "220v" {
			t.Fatalf("expected the unknown field folded into attributes, got %+v", stub.gotCreate)
		}
	})

	t.Run("missing context rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"title":"X","price":"1"}`))
		rec := httptest.NewRecorder()

		CreateProduct(&stubProductsService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestListProductsFilterParsing(t *testing.T) {
	logg := testLogger()

	t.Run("filters reach the service", func(t *testing.T) {
		stub := &stubProductsService{}
		merchantID := uuid.New()
		target := "/api/products?category=kitchen&search=teapot&min_price=10&max_price=99.50&merchant_id=" + merchantID.String()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()

		ListProducts(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		f := stub.gotFilters
		if f == nil {
			t.Fatalf("expected the service to be invoked")
		}
		if f.Category != "kitchen" || f.Search != "teapot" {
			t.Fatalf("unexpected text filters: %+v", f)
		}
		if f.MinPrice == nil || !f.MinPrice.Equal(decimal.RequireFromString("10")) {
			t.Fatalf("unexpected min price: %v", f.MinPrice)
		}
		if f.MaxPrice == nil || !f.MaxPrice.Equal(decimal.RequireFromString("99.50")) {
			t.Fatalf("unexpected max price: %v", f.MaxPrice)
		}
		if f.MerchantID == nil || *f.MerchantID != merchantID {
			t.Fatalf("unexpected merchant filter: %v", f.MerchantID)
		}
	})

	t.Run("malformed price rejected", func(t *testing.T) {
		stub := &stubProductsService{}
		req := httptest.NewRequest(http.MethodGet, "/api/products?min_price=cheap", nil)
		rec := httptest.NewRecorder()

		ListProducts(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if stub.gotFilters != nil {
			t.Fatalf("service should not run on a bad filter")
		}
	})
}

func TestUpdateProductPassesActor(t *testing.T) {
	logg := testLogger()
	productID := uuid.New()
	actorID := uuid.New()

	stub := &stubProductsService{}
	req := httptest.NewRequest(http.MethodPut, "/api/products?id="+productID.String(), strings.NewReader(`{"title":"Renamed"}`))
	req = req.WithContext(claimsContext(actorID, enums.UserTypeMerchant))
	rec := httptest.NewRecorder()

	UpdateProduct(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotUpdateID != productID || stub.gotActor != actorID || stub.gotRole != enums.UserTypeMerchant {
		t.Fatalf("expected actor identity forwarded, got id=%s actor=%s role=%s", stub.gotUpdateID, stub.gotActor, stub.gotRole)
	}
}

func TestDeleteProductRequiresID(t *testing.T) {
	logg := testLogger()

	stub := &stubProductsService{}
	req := httptest.NewRequest(http.MethodDelete, "/api/products", nil)
	req = req.WithContext(claimsContext(uuid.New(), enums.UserTypeMerchant))
	rec := httptest.NewRecorder()

	DeleteProduct(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if stub.deletedID != uuid.Nil {
		t.Fatalf("service should not run without an id")
	}
}
