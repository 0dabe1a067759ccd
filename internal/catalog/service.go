package catalog

import (
	"context"
	"errors"

	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service serves the public storefront browsing reads.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService wires the catalog service.
func NewService(repo Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logger: logg}
}

// ListProducts returns active products for the storefront.
func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return rows, nil
}

// GetProduct returns a single product by id.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return row, nil
}

// ListPhoneCases returns available phone case variants.
func (s *Service) ListPhoneCases(ctx context.Context) ([]models.PhoneCase, error) {
	rows, err := s.repo.ListPhoneCases(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing phone cases")
	}
	return rows, nil
}

// ShippingFee returns the flat post price from the shop settings.
func (s *Service) ShippingFee(ctx context.Context) (int64, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shop settings")
	}
	return settings.PostPrice, nil
}
