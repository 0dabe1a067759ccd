package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	"github.com/aminzare2005/vlonefarsi/pkg/enums"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns order reads and operator-driven fulfillment transitions.
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService wires the orders service.
func NewService(repo Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logger: logg}
}

// Get returns an order owned by the user.
func (s *Service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}

// List returns the user's orders, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return rows, nil
}

// Track resolves an order by its public track code. No auth required; the
// code itself is the capability.
func (s *Service) Track(ctx context.Context, trackID string) (*models.Order, error) {
	trackID = strings.ToUpper(strings.TrimSpace(trackID))
	if trackID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "track code is required")
	}
	order, err := s.repo.FindByTrackID(ctx, trackID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order by track code")
	}
	return order, nil
}

// Advance moves an order to the target status when the transition table
// allows it. Delivered orders accept a carrier tracking number.
func (s *Service) Advance(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus, trackPostID string) (*models.Order, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	if !enums.CanTransition(order.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").
			WithDetails(map[string]any{
				"from": order.Status.String(),
				"to":   target.String(),
			})
	}

	updated, err := s.repo.UpdateStatusGuarded(ctx, order.ID, order.Status, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "advancing order status")
	}
	if !updated {
		// someone else moved the order between read and write
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
	}

	if trackPostID = strings.TrimSpace(trackPostID); trackPostID != "" {
		if err := s.repo.SetTrackPostID(ctx, order.ID, trackPostID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing carrier tracking number")
		}
	}

	ctx = s.logger.WithOrderID(ctx, order.ID.String())
	ctx = s.logger.WithFields(ctx, map[string]any{
		"from": order.Status.String(),
		"to":   target.String(),
	})
	s.logger.Info(ctx, "order status advanced")

	return s.repo.FindByID(ctx, order.ID)
}
