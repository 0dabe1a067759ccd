package catalog

import (
	"context"

	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes read access to the catalog and shop settings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListProducts(ctx context.Context) ([]models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListPhoneCases(ctx context.Context) ([]models.PhoneCase, error)
	FindPhoneCaseByID(ctx context.Context, id uuid.UUID) (*models.PhoneCase, error)
	GetSettings(ctx context.Context) (*models.Settings, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListPhoneCases(ctx context.Context) ([]models.PhoneCase, error) {
	var rows []models.PhoneCase
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("brand ASC, model ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindPhoneCaseByID(ctx context.Context, id uuid.UUID) (*models.PhoneCase, error) {
	var row models.PhoneCase
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) GetSettings(ctx context.Context) (*models.Settings, error) {
	var row models.Settings
	if err := r.db.WithContext(ctx).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
