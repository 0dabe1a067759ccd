package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aminzare2005/vlonefarsi/internal/cart"
	"github.com/aminzare2005/vlonefarsi/internal/orders"
	"github.com/aminzare2005/vlonefarsi/pkg/enums"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	"github.com/aminzare2005/vlonefarsi/pkg/metrics"
	"github.com/aminzare2005/vlonefarsi/pkg/zibal"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	successPath = "/order-success"
	failurePath = "/order-failed"
)

// Verifier confirms a payment with the gateway.
type Verifier interface {
	Verify(ctx context.Context, trackID int64) (*zibal.VerifyResult, error)
}

// CallbackInput carries the query parameters the gateway sends back.
type CallbackInput struct {
	Success string
	TrackID string
	OrderID string
}

// CallbackOutcome tells the controller where to send the customer's browser.
type CallbackOutcome struct {
	RedirectURL string
	Paid        bool
}

// Service reconciles gateway callbacks against pending orders. The callback
// is the only writer that moves an order out of pending on the happy path.
type Service struct {
	orders   orders.Repository
	carts    cart.Repository
	verifier Verifier
	metrics  *metrics.CheckoutMetrics
	logger   *logger.Logger
	baseURL  string
}

// NewService wires the payments callback service.
func NewService(
	ordersRepo orders.Repository,
	cartsRepo cart.Repository,
	verifier Verifier,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
	baseURL string,
) *Service {
	return &Service{
		orders:   ordersRepo,
		carts:    cartsRepo,
		verifier: verifier,
		metrics:  checkoutMetrics,
		logger:   logg,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// HandleCallback processes the gateway redirect. It never returns an error to
// the gateway: every path resolves to a browser redirect. Replayed callbacks
// are harmless because the status update is guarded on the pending state.
func (s *Service) HandleCallback(ctx context.Context, input CallbackInput) CallbackOutcome {
	orderID, err := uuid.Parse(strings.TrimSpace(input.OrderID))
	if err != nil {
		s.metrics.IncVerification("bad_request")
		s.logger.Warn(ctx, "payment callback with malformed order id")
		return s.failure("")
	}
	ctx = s.logger.WithOrderID(ctx, orderID.String())

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncVerification("unknown_order")
			s.logger.Warn(ctx, "payment callback for unknown order")
		} else {
			s.metrics.IncVerification("internal")
			s.logger.Error(ctx, "loading order for payment callback", err)
		}
		return s.failure("")
	}

	if input.Success != "1" {
		s.metrics.IncVerification("declined")
		s.logger.Info(ctx, "payment declined at gateway")
		return s.failure(order.ID.String())
	}

	trackID, err := strconv.ParseInt(strings.TrimSpace(input.TrackID), 10, 64)
	if err != nil {
		s.metrics.IncVerification("bad_request")
		s.logger.Warn(ctx, "payment callback with malformed track id")
		return s.failure(order.ID.String())
	}

	// the track id must resolve to the same order the query string claims;
	// both parameters come back through the customer's browser
	byReference, err := s.orders.FindByPaymentReference(ctx, strconv.FormatInt(trackID, 10))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncVerification("mismatch")
			s.logger.Warn(ctx, "payment callback track id matches no order")
		} else {
			s.metrics.IncVerification("internal")
			s.logger.Error(ctx, "resolving order by payment reference", err)
		}
		return s.failure(order.ID.String())
	}
	if byReference.ID != order.ID {
		s.metrics.IncVerification("mismatch")
		s.logger.Warn(ctx, "payment callback track id belongs to a different order")
		return s.failure(order.ID.String())
	}

	started := time.Now()
	verification, err := s.verifier.Verify(ctx, trackID)
	s.metrics.ObserveGatewayCall("verify", time.Since(started))
	if err != nil {
		s.metrics.IncVerification("gateway_error")
		s.logger.Error(ctx, "payment verification call failed", err)
		return s.failure(order.ID.String())
	}
	if !verification.Confirmed() {
		s.metrics.IncVerification("not_confirmed")
		s.logger.Info(ctx, "payment not confirmed by gateway")
		return s.failure(order.ID.String())
	}

	won, err := s.orders.UpdateStatusGuarded(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusProcessing)
	if err != nil {
		s.metrics.IncVerification("internal")
		s.logger.Error(ctx, "advancing order after payment", err)
		return s.failure(order.ID.String())
	}

	if !won {
		// replayed callback or concurrent winner: success if the order
		// already moved past pending, otherwise someone canceled it
		current, err := s.orders.FindByID(ctx, order.ID)
		if err != nil {
			s.metrics.IncVerification("internal")
			s.logger.Error(ctx, "re-reading order after lost update", err)
			return s.failure(order.ID.String())
		}
		if current.PaymentStatus == enums.PaymentStatusPaid {
			s.metrics.IncVerification("replay")
			s.logger.Info(ctx, "payment callback replay, order already paid")
			return s.success(order.ID.String())
		}
		s.metrics.IncVerification("state_conflict")
		s.logger.Warn(ctx, "payment confirmed for an order no longer payable")
		return s.failure(order.ID.String())
	}

	// the winning update clears the cart; replays never touch it
	if err := s.carts.DeleteByUser(ctx, order.UserID); err != nil {
		s.logger.Error(ctx, "clearing cart after payment", err)
	}

	s.metrics.IncVerification("confirmed")
	s.logger.Info(ctx, "payment confirmed, order moved to processing")
	return CallbackOutcome{RedirectURL: s.successURL(order.ID.String()), Paid: true}
}

func (s *Service) success(orderID string) CallbackOutcome {
	return CallbackOutcome{RedirectURL: s.successURL(orderID), Paid: true}
}

func (s *Service) failure(orderID string) CallbackOutcome {
	url := s.baseURL + failurePath
	if orderID != "" {
		url = fmt.Sprintf("%s?orderId=%s", url, orderID)
	}
	return CallbackOutcome{RedirectURL: url}
}

func (s *Service) successURL(orderID string) string {
	return fmt.Sprintf("%s%s?orderId=%s", s.baseURL, successPath, orderID)
}
