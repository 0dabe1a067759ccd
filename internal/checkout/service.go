package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aminzare2005/vlonefarsi/internal/cart"
	"github.com/aminzare2005/vlonefarsi/internal/catalog"
	"github.com/aminzare2005/vlonefarsi/internal/discounts"
	"github.com/aminzare2005/vlonefarsi/internal/orders"
	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	"github.com/aminzare2005/vlonefarsi/pkg/enums"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	"github.com/aminzare2005/vlonefarsi/pkg/metrics"
	"github.com/aminzare2005/vlonefarsi/pkg/zibal"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	submissionLockTTL = 30 * time.Second
	callbackPath      = "/api/v1/payments/callback"
)

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Locker serializes checkout submissions per user.
type Locker interface {
	AcquireCheckoutLock(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, userID string) error
}

// Gateway opens payment sessions.
type Gateway interface {
	Request(ctx context.Context, params zibal.RequestParams) (*zibal.RequestResult, error)
	StartURL(trackID int64) string
}

// ShippingInfo is the validated shipping contact attached to the order.
type ShippingInfo struct {
	ReceiverName string
	PhoneNumber  string
	Address      string
	City         string
	PostalCode   string
	Telegram     *string
}

// Result is returned to the storefront after a successful submission.
type Result struct {
	OrderID    uuid.UUID
	TrackID    string
	PaymentURL string
}

// Service orchestrates cart-to-order checkout: snapshot, discount consumption
// and payment session creation.
type Service struct {
	tx        TxRunner
	carts     cart.Repository
	catalog   catalog.Repository
	discounts *discounts.Service
	dscRepo   discounts.Repository
	orders    orders.Repository
	locker    Locker
	gateway   Gateway
	metrics   *metrics.CheckoutMetrics
	logger    *logger.Logger
	baseURL   string
}

// NewService wires the checkout orchestrator.
func NewService(
	tx TxRunner,
	carts cart.Repository,
	catalogRepo catalog.Repository,
	discountSvc *discounts.Service,
	discountRepo discounts.Repository,
	ordersRepo orders.Repository,
	locker Locker,
	gateway Gateway,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
	baseURL string,
) *Service {
	return &Service{
		tx:        tx,
		carts:     carts,
		catalog:   catalogRepo,
		discounts: discountSvc,
		dscRepo:   discountRepo,
		orders:    ordersRepo,
		locker:    locker,
		gateway:   gateway,
		metrics:   checkoutMetrics,
		logger:    logg,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// Submit converts the user's cart into a pending order and opens a payment
// session. The order, its item snapshot and the discount usage commit in one
// transaction before the gateway is contacted; a gateway failure leaves the
// order behind as pending.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, shipping ShippingInfo, discountCode string) (*Result, error) {
	acquired, err := s.locker.AcquireCheckoutLock(ctx, userID.String(), submissionLockTTL)
	if err != nil {
		s.metrics.IncSubmission("internal")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "acquiring checkout lock")
	}
	if !acquired {
		s.metrics.IncSubmission("conflict")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already in progress")
	}
	defer func() {
		if releaseErr := s.locker.ReleaseCheckoutLock(ctx, userID.String()); releaseErr != nil {
			s.logger.Warn(s.logger.WithUserID(ctx, userID.String()), "releasing checkout lock failed")
		}
	}()

	var order *models.Order
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		items, err := s.carts.WithTx(tx).ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty").
				WithDetails(map[string]any{"reason": "empty_cart"})
		}

		subtotal, orderItems, err := s.snapshotLines(items)
		if err != nil {
			return err
		}

		shippingFee, err := s.shippingFee(ctx, tx)
		if err != nil {
			return err
		}

		var (
			discountID     *uuid.UUID
			discountAmount int64
			freeShipping   bool
		)
		if strings.TrimSpace(discountCode) != "" {
			eval, err := s.discounts.Evaluate(ctx, discountCode, userID, subtotal)
			if err != nil {
				return err
			}
			discountID = &eval.Discount.ID
			discountAmount = eval.Amount
			freeShipping = eval.FreeShipping
		}
		if freeShipping {
			shippingFee = 0
		}

		total := subtotal + shippingFee - discountAmount
		if total < 0 {
			total = 0
		}

		trackID, err := orders.NewTrackID()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating track code")
		}

		order = &models.Order{
			ID:                 uuid.New(),
			UserID:             userID,
			Status:             enums.OrderStatusPending,
			PaymentStatus:      enums.PaymentStatusPending,
			TotalAmount:        total,
			DiscountID:         discountID,
			DiscountAmount:     discountAmount,
			FreeShipping:       freeShipping,
			ReceiverName:       shipping.ReceiverName,
			PhoneNumber:        strings.ReplaceAll(shipping.PhoneNumber, " ", ""),
			ShippingAddress:    shipping.Address,
			ShippingCity:       shipping.City,
			ShippingPostalCode: shipping.PostalCode,
			Telegram:           shipping.Telegram,
			TrackID:            trackID,
			Items:              orderItems,
		}
		if _, err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting order")
		}

		if discountID != nil {
			if err := s.discounts.RecordUsage(ctx, s.dscRepo.WithTx(tx), *discountID, userID, order.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		s.metrics.IncSubmission(submissionOutcome(txErr))
		return nil, txErr
	}

	ctx = s.logger.WithOrderID(s.logger.WithUserID(ctx, userID.String()), order.ID.String())
	s.logger.Info(ctx, "order created, opening payment session")

	started := time.Now()
	session, err := s.gateway.Request(ctx, zibal.RequestParams{
		AmountToman: order.TotalAmount,
		CallbackURL: s.baseURL + callbackPath,
		Description: fmt.Sprintf("order %s", order.TrackID),
		OrderID:     order.ID.String(),
	})
	s.metrics.ObserveGatewayCall("request", time.Since(started))
	if err != nil {
		// the pending order survives; the user can retry payment later
		s.metrics.IncSubmission("gateway_failed")
		s.logger.Error(ctx, "payment session request failed", err)
		if domainErr := pkgerrors.As(err); domainErr != nil {
			return nil, domainErr.WithDetails(map[string]any{"order_id": order.ID.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "opening payment session").
			WithDetails(map[string]any{"order_id": order.ID.String()})
	}

	reference := strconv.FormatInt(session.TrackID, 10)
	if err := s.orders.SetPaymentReference(ctx, order.ID, reference); err != nil {
		s.metrics.IncSubmission("internal")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "storing payment reference")
	}

	s.metrics.IncSubmission("success")
	return &Result{
		OrderID:    order.ID,
		TrackID:    order.TrackID,
		PaymentURL: s.gateway.StartURL(session.TrackID),
	}, nil
}

// snapshotLines freezes cart lines into order items at current prices and
// rejects carts containing unavailable merchandise.
func (s *Service) snapshotLines(items []models.CartItem) (int64, []models.OrderItem, error) {
	var subtotal int64
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil || item.PhoneCase == nil {
			return 0, nil, pkgerrors.New(pkgerrors.CodeValidation, "cart references missing merchandise")
		}
		if !item.Product.IsActive || !item.PhoneCase.Available {
			return 0, nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains unavailable merchandise").
				WithDetails(map[string]any{
					"product":    item.Product.Name,
					"phoneBrand": item.PhoneCase.Brand,
					"phoneModel": item.PhoneCase.Model,
				})
		}
		subtotal += item.PhoneCase.Price * int64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ID:           uuid.New(),
			ProductID:    item.ProductID,
			ProductName:  item.Product.Name,
			ProductPrice: item.PhoneCase.Price,
			Quantity:     item.Quantity,
			PhoneCaseID:  item.PhoneCaseID,
			PhoneBrand:   item.PhoneCase.Brand,
			PhoneModel:   item.PhoneCase.Model,
		})
	}
	return subtotal, orderItems, nil
}

func (s *Service) shippingFee(ctx context.Context, tx *gorm.DB) (int64, error) {
	settings, err := s.catalog.WithTx(tx).GetSettings(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shipping fee")
	}
	return settings.PostPrice, nil
}

func submissionOutcome(err error) string {
	domainErr := pkgerrors.As(err)
	if domainErr == nil {
		return "internal"
	}
	switch domainErr.Code() {
	case pkgerrors.CodeValidation:
		return "validation_failed"
	case pkgerrors.CodeConflict:
		return "conflict"
	default:
		return "internal"
	}
}
