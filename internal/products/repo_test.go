package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/soukmarket/souk-backend/pkg/db/models"
	dbtypes "github.com/soukmarket/souk-backend/pkg/db/types"
	"github.com/soukmarket/souk-backend/pkg/pagination"
)

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MerchantProfile{}, &models.Product{}))
	return db
}

func seedRepoMerchant(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&models.MerchantProfile{
		ID:       id,
		Email:    fmt.Sprintf("%s@example.com", id),
		FullName: "Repo Merchant",
		Products: dbtypes.RefList{},
		Stores:   dbtypes.RefList{},
	}).Error)
	return id
}

func seedRepoProduct(t *testing.T, repo *Repository, merchantID uuid.UUID, title, price string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:             uuid.New(),
		MerchantID:     merchantID,
		Title:          title,
		Price:          decimal.RequireFromString(price),
		Images:         dbtypes.StringList{},
		Specifications: dbtypes.JSONMap{},
		Attributes:     dbtypes.JSONMap{},
	}
	require.NoError(t, repo.CreateAndLink(context.Background(), product))
	return product
}

func TestRepoCreateAndLinkAppendsBackReference(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewRepository(db)
	merchantID := seedRepoMerchant(t, db)

	first := seedRepoProduct(t, repo, merchantID, "Brass Lamp", "25.00")
	second := seedRepoProduct(t, repo, merchantID, "Clay Tagine", "40.00")

	var profile models.MerchantProfile
	require.NoError(t, db.First(&profile, "id = ?", merchantID).Error)
	require.Len(t, profile.Products, 2)
	assert.True(t, profile.Products.Contains(first.ID))
	assert.True(t, profile.Products.Contains(second.ID))
}

func TestRepoListPagination(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewRepository(db)
	merchantID := seedRepoMerchant(t, db)

	for i := 0; i < 5; i++ {
		seedRepoProduct(t, repo, merchantID, fmt.Sprintf("Item %d", i), "10.00")
	}

	list, total, err := repo.List(context.Background(), ListFilters{}, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, list, 2)
}

func TestRepoDeleteAndUnlinkDropsBackReference(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewRepository(db)
	merchantID := seedRepoMerchant(t, db)

	keep := seedRepoProduct(t, repo, merchantID, "Keeper", "12.00")
	drop := seedRepoProduct(t, repo, merchantID, "Goner", "13.00")

	require.NoError(t, repo.DeleteAndUnlink(context.Background(), drop))

	_, err := repo.FindByID(context.Background(), drop.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var profile models.MerchantProfile
	require.NoError(t, db.First(&profile, "id = ?", merchantID).Error)
	require.Len(t, profile.Products, 1)
	assert.True(t, profile.Products.Contains(keep.ID))
}

func TestRepoDeleteAndUnlinkToleratesMissingProfile(t *testing.T) {
	db := newRepoTestDB(t)
	repo := NewRepository(db)
	merchantID := seedRepoMerchant(t, db)
	product := seedRepoProduct(t, repo, merchantID, "Orphaned", "9.00")

	require.NoError(t, db.Delete(&models.MerchantProfile{}, "id = ?", merchantID).Error)
	require.NoError(t, repo.DeleteAndUnlink(context.Background(), product))
}
