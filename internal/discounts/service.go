package discounts

import (
	"context"
	"errors"
	"time"

	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	"github.com/aminzare2005/vlonefarsi/pkg/enums"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RejectionReason identifies why a discount code was refused. Checks run in a
// fixed order and the first failure wins.
type RejectionReason string

const (
	ReasonInvalidCode      RejectionReason = "invalid_code"
	ReasonExpired          RejectionReason = "expired"
	ReasonBelowMinimum     RejectionReason = "below_minimum"
	ReasonExhaustedGlobal  RejectionReason = "exhausted_global"
	ReasonExhaustedForUser RejectionReason = "exhausted_for_user"
)

// Evaluation is the outcome of applying a code to a subtotal.
type Evaluation struct {
	Discount     *models.DiscountCode
	Amount       int64
	FreeShipping bool
}

// Service evaluates discount codes and writes the usage ledger.
type Service struct {
	repo   Repository
	logger *logger.Logger
	now    func() time.Time
}

// NewService wires the discounts service.
func NewService(repo Repository, logg *logger.Logger) *Service {
	return &Service{repo: repo, logger: logg, now: time.Now}
}

// Evaluate validates a code against a subtotal without consuming it. The
// checks short-circuit in order: existence/active, time window, order minimum,
// global cap, per-user cap.
func (s *Service) Evaluate(ctx context.Context, code string, userID uuid.UUID, subtotal int64) (*Evaluation, error) {
	discount, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rejection(ReasonInvalidCode, "discount code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up discount code")
	}
	if !discount.IsActive {
		return nil, rejection(ReasonInvalidCode, "discount code is not active")
	}

	if reason := s.checkWindow(discount); reason != "" {
		return nil, rejection(reason, "discount code is outside its validity window")
	}

	if discount.MinOrderAmount != nil && subtotal < *discount.MinOrderAmount {
		return nil, rejection(ReasonBelowMinimum, "order subtotal is below the discount minimum")
	}

	if reason, err := s.checkCaps(ctx, discount, userID); err != nil {
		return nil, err
	} else if reason != "" {
		return nil, rejection(reason, "discount code usage limit reached")
	}

	return s.compute(discount, subtotal), nil
}

// RecordUsage consumes the code for an order. Callers invoke it inside the
// order-creation transaction with a tx-bound repository: the discount row is
// locked and the caps re-checked so two racing checkouts cannot both take the
// last slot.
func (s *Service) RecordUsage(ctx context.Context, repo Repository, discountID, userID, orderID uuid.UUID) error {
	discount, err := repo.LockByID(ctx, discountID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "locking discount row")
	}

	if discount.UsageLimit != nil {
		count, err := repo.CountUsages(ctx, discount.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting discount usages")
		}
		if count >= int64(*discount.UsageLimit) {
			return rejection(ReasonExhaustedGlobal, "discount code usage limit reached")
		}
	}
	if discount.UsagePerUser != nil {
		count, err := repo.CountUsagesByUser(ctx, discount.ID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting user discount usages")
		}
		if count >= int64(*discount.UsagePerUser) {
			return rejection(ReasonExhaustedForUser, "discount code exhausted for this user")
		}
	}

	usage := &models.DiscountUsage{
		ID:         uuid.New(),
		DiscountID: discount.ID,
		UserID:     userID,
		OrderID:    orderID,
	}
	if err := repo.CreateUsage(ctx, usage); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing discount usage")
	}
	return nil
}

func (s *Service) checkWindow(discount *models.DiscountCode) RejectionReason {
	now := s.now()
	if discount.StartsAt != nil && now.Before(*discount.StartsAt) {
		return ReasonExpired
	}
	if discount.ExpiresAt != nil && now.After(*discount.ExpiresAt) {
		return ReasonExpired
	}
	return ""
}

func (s *Service) checkCaps(ctx context.Context, discount *models.DiscountCode, userID uuid.UUID) (RejectionReason, error) {
	if discount.UsageLimit != nil {
		count, err := s.repo.CountUsages(ctx, discount.ID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting discount usages")
		}
		if count >= int64(*discount.UsageLimit) {
			return ReasonExhaustedGlobal, nil
		}
	}
	if discount.UsagePerUser != nil {
		count, err := s.repo.CountUsagesByUser(ctx, discount.ID, userID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting user discount usages")
		}
		if count >= int64(*discount.UsagePerUser) {
			return ReasonExhaustedForUser, nil
		}
	}
	return "", nil
}

func (s *Service) compute(discount *models.DiscountCode, subtotal int64) *Evaluation {
	eval := &Evaluation{Discount: discount}
	switch discount.Type {
	case enums.DiscountTypePercentage:
		amount := decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(discount.Value)).
			Div(decimal.NewFromInt(100)).
			Floor().
			IntPart()
		if discount.MaxDiscountAmount != nil && amount > *discount.MaxDiscountAmount {
			amount = *discount.MaxDiscountAmount
		}
		eval.Amount = amount
	case enums.DiscountTypeFixed:
		amount := discount.Value
		if amount > subtotal {
			amount = subtotal
		}
		eval.Amount = amount
	case enums.DiscountTypeFreeShipping:
		eval.FreeShipping = true
	}
	return eval
}

func rejection(reason RejectionReason, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"reason": string(reason)})
}

// RejectionReasonOf extracts the rejection reason from an evaluation error,
// or "" when the error is not a discount rejection.
func RejectionReasonOf(err error) RejectionReason {
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeValidation {
		return ""
	}
	details, ok := domainErr.Details().(map[string]any)
	if !ok {
		return ""
	}
	reason, ok := details["reason"].(string)
	if !ok {
		return ""
	}
	return RejectionReason(reason)
}
