package cart

import (
	"context"
	"errors"

	"github.com/aminzare2005/vlonefarsi/internal/catalog"
	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns the cart lifecycle for a user.
type Service struct {
	repo    Repository
	catalog catalog.Repository
	logger  *logger.Logger
}

// NewService wires the cart service.
func NewService(repo Repository, catalogRepo catalog.Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, catalog: catalogRepo, logger: logg}
}

// List returns the user's cart lines joined with product and phone case data.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cart items")
	}
	return rows, nil
}

// Add puts a product/phone-case pair into the cart. An existing line for the
// same pair absorbs the quantity instead of creating a duplicate row.
func (s *Service) Add(ctx context.Context, userID, productID, phoneCaseID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not active")
	}

	phoneCase, err := s.catalog.FindPhoneCaseByID(ctx, phoneCaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "phone case not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading phone case")
	}
	if !phoneCase.Available {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone case is not available")
	}

	existing, err := s.repo.FindLine(ctx, userID, productID, phoneCaseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up cart line")
	}
	if existing != nil {
		newQuantity := existing.Quantity + quantity
		if err := s.repo.UpdateQuantity(ctx, existing.ID, newQuantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merging cart line")
		}
		existing.Quantity = newQuantity
		return existing, nil
	}

	item := &models.CartItem{
		ID:          uuid.New(),
		UserID:      userID,
		ProductID:   productID,
		PhoneCaseID: phoneCaseID,
		Quantity:    quantity,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart line")
	}
	return created, nil
}

// UpdateQuantity sets a line's quantity. Anything below 1 deletes the row.
func (s *Service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	item, err := s.repo.FindByIDForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}

	if quantity < 1 {
		if err := s.repo.Delete(ctx, item.ID, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart line")
		}
		return nil
	}
	if err := s.repo.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart quantity")
	}
	return nil
}

// Remove deletes a single cart line owned by the user.
func (s *Service) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if _, err := s.repo.FindByIDForUser(ctx, itemID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}
	if err := s.repo.Delete(ctx, itemID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart line")
	}
	return nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
	}
	return nil
}
