package stores

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/soukmarket/souk-backend/pkg/db/models"
	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
	"github.com/soukmarket/souk-backend/pkg/enums"
	pkgerrors "github.com/soukmarket/souk-backend/pkg/errors"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Store{}, &models.MerchantProfile{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, conn
}

func seedMerchant(t *testing.T, conn *gorm.DB) uuid.UUID {
	t.Helper()
	profile := &models.MerchantProfile{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		FullName: "Shop Owner",
		Status:   enums.UserStatusActive,
		Products: dbtypes.RefList{},
		Stores:   dbtypes.RefList{},
	}
	if err := conn.Create(profile).Error; err != nil {
		t.Fatalf("seed merchant: %v", err)
	}
	return profile.ID
}

func TestCreateLinksStoreOnMerchantProfile(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	merchantID := seedMerchant(t, conn)

	dto, err := svc.Create(ctx, merchantID, CreateStoreRequest{
		Name:       "Acme",
		Location:   "Casablanca",
		Categories: []string{"hardware"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.MerchantID != merchantID {
		t.Fatalf("expected merchant id %s, got %s", merchantID, dto.MerchantID)
	}
	if dto.Status != enums.StoreStatusActive {
		t.Fatalf("expected active status, got %q", dto.Status)
	}

	var profile models.MerchantProfile
	if err := conn.First(&profile, "id = ?", merchantID).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if len(profile.Stores) != 1 || profile.Stores[0].ID != dto.ID {
		t.Fatalf("expected store ref on profile, got %+v", profile.Stores)
	}
}

func TestCreateWithoutProfileIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateStoreRequest{Name: "Orphan"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found without merchant profile, got %v", err)
	}
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := seedMerchant(t, conn)
	other := seedMerchant(t, conn)

	dto, err := svc.Create(ctx, owner, CreateStoreRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Acme Renamed"
	_, err = svc.Update(ctx, dto.ID, other, enums.UserTypeMerchant, UpdateStoreRequest{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	updated, err := svc.Update(ctx, dto.ID, owner, enums.UserTypeMerchant, UpdateStoreRequest{Name: &name})
	if err != nil {
		t.Fatalf("Update as owner: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("expected name %q, got %q", name, updated.Name)
	}

	status := "inactive"
	updated, err = svc.Update(ctx, dto.ID, other, enums.UserTypeAdmin, UpdateStoreRequest{Status: &status})
	if err != nil {
		t.Fatalf("Update as admin: %v", err)
	}
	if updated.Status != enums.StoreStatusInactive {
		t.Fatalf("expected inactive status, got %q", updated.Status)
	}
}

func TestUpdateRejectsBadStatus(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := seedMerchant(t, conn)

	dto, err := svc.Create(ctx, owner, CreateStoreRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	bad := "closed"
	_, err = svc.Update(ctx, dto.ID, owner, enums.UserTypeMerchant, UpdateStoreRequest{Status: &bad})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteUnlinksFromProfile(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := seedMerchant(t, conn)

	dto, err := svc.Create(ctx, owner, CreateStoreRequest{Name: "Acme"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, dto.ID, owner, enums.UserTypeMerchant); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err = svc.GetByID(ctx, dto.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	var profile models.MerchantProfile
	if err := conn.First(&profile, "id = ?", owner).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if len(profile.Stores) != 0 {
		t.Fatalf("expected store ref removed, got %+v", profile.Stores)
	}
}

func TestListAllPaginates(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := seedMerchant(t, conn)

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, owner, CreateStoreRequest{Name: fmt.Sprintf("Store %d", i)}); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}

	list, page, err := svc.ListAll(ctx, pagination.Params{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 stores on page 2, got %d", len(list))
	}
	if page.Total != 5 || page.Pages != 3 || page.Current != 2 {
		t.Fatalf("unexpected page meta: %+v", page)
	}

	mine, err := svc.ListByMerchant(ctx, owner)
	if err != nil {
		t.Fatalf("ListByMerchant: %v", err)
	}
	if len(mine) != 5 {
		t.Fatalf("expected 5 stores for merchant, got %d", len(mine))
	}
}
