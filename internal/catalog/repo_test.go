package catalog

import (
	"context"
	"testing"

	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  image_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE phone_cases (
  id TEXT PRIMARY KEY,
  brand TEXT NOT NULL,
  model TEXT NOT NULL,
  price INTEGER NOT NULL DEFAULT 0,
  available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE settings (
  id INTEGER PRIMARY KEY,
  post_price INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestListProductsFiltersInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	active := models.Product{ID: uuid.New(), Name: "Ghost Print", IsActive: true}
	inactive := models.Product{ID: uuid.New(), Name: "Retired Print", IsActive: false}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&inactive).Error)

	rows, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, active.ID, rows[0].ID)
}

func TestListPhoneCasesFiltersUnavailable(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	available := models.PhoneCase{ID: uuid.New(), Brand: "Samsung", Model: "S24", Price: 250000, Available: true}
	unavailable := models.PhoneCase{ID: uuid.New(), Brand: "Apple", Model: "15 Pro", Price: 300000, Available: false}
	require.NoError(t, db.Create(&available).Error)
	require.NoError(t, db.Create(&unavailable).Error)

	rows, err := repo.ListPhoneCases(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, available.ID, rows[0].ID)
}

func TestFindPhoneCaseByID(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	row := models.PhoneCase{ID: uuid.New(), Brand: "Xiaomi", Model: "13T", Price: 180000, Available: true}
	require.NoError(t, db.Create(&row).Error)

	found, err := repo.FindPhoneCaseByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(180000), found.Price)

	_, err = repo.FindPhoneCaseByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetSettings(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Settings{ID: 1, PostPrice: 45000}).Error)

	settings, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(45000), settings.PostPrice)
}
