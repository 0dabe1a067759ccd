package payments

import (
	"context"
	"io"
	"testing"

	"github.com/aminzare2005/vlonefarsi/internal/cart"
	"github.com/aminzare2005/vlonefarsi/internal/orders"
	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	"github.com/aminzare2005/vlonefarsi/pkg/enums"
	pkgerrors "github.com/aminzare2005/vlonefarsi/pkg/errors"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	"github.com/aminzare2005/vlonefarsi/pkg/metrics"
	"github.com/aminzare2005/vlonefarsi/pkg/zibal"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *fakeOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *fakeOrderRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	s.orders[order.ID] = order
	return order, nil
}

func (s *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeOrderRepo) FindByIDForUser(context.Context, uuid.UUID, uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeOrderRepo) FindByTrackID(context.Context, string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeOrderRepo) FindByPaymentReference(_ context.Context, reference string) (*models.Order, error) {
	for _, order := range s.orders {
		if order.PaymentReference != nil && *order.PaymentReference == reference {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeOrderRepo) ListByUser(context.Context, uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (s *fakeOrderRepo) UpdateStatusGuarded(_ context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	order, ok := s.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	order.PaymentStatus = enums.PaymentStatusFor(to)
	return true, nil
}

func (s *fakeOrderRepo) SetPaymentReference(context.Context, uuid.UUID, string) error { return nil }

func (s *fakeOrderRepo) SetTrackPostID(context.Context, uuid.UUID, string) error { return nil }

type fakeCartRepo struct {
	cleared []uuid.UUID
}

func (s *fakeCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *fakeCartRepo) ListByUser(context.Context, uuid.UUID) ([]models.CartItem, error) {
	return nil, nil
}

func (s *fakeCartRepo) FindLine(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*models.CartItem, error) {
	return nil, nil
}

func (s *fakeCartRepo) FindByIDForUser(context.Context, uuid.UUID, uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeCartRepo) Create(_ context.Context, item *models.CartItem) (*models.CartItem, error) {
	return item, nil
}

func (s *fakeCartRepo) UpdateQuantity(context.Context, uuid.UUID, int) error { return nil }

func (s *fakeCartRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (s *fakeCartRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	s.cleared = append(s.cleared, userID)
	return nil
}

type fakeVerifier struct {
	result *zibal.VerifyResult
	err    error
	calls  int
}

func (v *fakeVerifier) Verify(context.Context, int64) (*zibal.VerifyResult, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.result, nil
}

type callbackFixture struct {
	svc      *Service
	orders   *fakeOrderRepo
	carts    *fakeCartRepo
	verifier *fakeVerifier
	order    *models.Order
}

func newCallbackFixture(t *testing.T) *callbackFixture {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})

	f := &callbackFixture{
		orders:   newFakeOrderRepo(),
		carts:    &fakeCartRepo{},
		verifier: &fakeVerifier{result: &zibal.VerifyResult{Result: zibal.ResultOK, Amount: 2950000}},
	}
	reference := "998877"
	f.order = &models.Order{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Status:           enums.OrderStatusPending,
		PaymentStatus:    enums.PaymentStatusPending,
		TotalAmount:      295000,
		PaymentReference: &reference,
		TrackID:          "AAAA1111",
	}
	f.orders.orders[f.order.ID] = f.order
	f.svc = NewService(f.orders, f.carts, f.verifier, metrics.NewCheckoutMetrics(nil), logg, "https://shop.example")
	return f
}

func (f *callbackFixture) input() CallbackInput {
	return CallbackInput{Success: "1", TrackID: "998877", OrderID: f.order.ID.String()}
}

func TestCallbackConfirmsAndClearsCart(t *testing.T) {
	f := newCallbackFixture(t)

	outcome := f.svc.HandleCallback(context.Background(), f.input())

	assert.True(t, outcome.Paid)
	assert.Equal(t, "https://shop.example/order-success?orderId="+f.order.ID.String(), outcome.RedirectURL)
	assert.Equal(t, enums.OrderStatusProcessing, f.order.Status)
	assert.Equal(t, enums.PaymentStatusPaid, f.order.PaymentStatus)
	require.Len(t, f.carts.cleared, 1)
	assert.Equal(t, f.order.UserID, f.carts.cleared[0])
}

func TestCallbackReplayIsIdempotent(t *testing.T) {
	f := newCallbackFixture(t)

	first := f.svc.HandleCallback(context.Background(), f.input())
	second := f.svc.HandleCallback(context.Background(), f.input())

	assert.True(t, first.Paid)
	assert.True(t, second.Paid)
	assert.Equal(t, first.RedirectURL, second.RedirectURL)
	// the replay must not clear the cart a second time
	assert.Len(t, f.carts.cleared, 1)
	assert.Equal(t, enums.OrderStatusProcessing, f.order.Status)
}

func TestCallbackDeclinedSkipsVerification(t *testing.T) {
	f := newCallbackFixture(t)
	input := f.input()
	input.Success = "0"

	outcome := f.svc.HandleCallback(context.Background(), input)

	assert.False(t, outcome.Paid)
	assert.Contains(t, outcome.RedirectURL, "/order-failed")
	assert.Equal(t, 0, f.verifier.calls)
	assert.Equal(t, enums.OrderStatusPending, f.order.Status)
	assert.Empty(t, f.carts.cleared)
}

func TestCallbackVerificationNotConfirmed(t *testing.T) {
	f := newCallbackFixture(t)
	f.verifier.result = &zibal.VerifyResult{Result: zibal.ResultNotPaid}

	outcome := f.svc.HandleCallback(context.Background(), f.input())

	assert.False(t, outcome.Paid)
	assert.Contains(t, outcome.RedirectURL, "/order-failed")
	assert.Equal(t, enums.OrderStatusPending, f.order.Status)
	assert.Empty(t, f.carts.cleared)
}

func TestCallbackVerificationTransportFailure(t *testing.T) {
	f := newCallbackFixture(t)
	f.verifier.err = pkgerrors.New(pkgerrors.CodeDependency, "gateway unreachable")

	outcome := f.svc.HandleCallback(context.Background(), f.input())

	assert.False(t, outcome.Paid)
	assert.Equal(t, enums.OrderStatusPending, f.order.Status)
}

func TestCallbackAlreadyVerifiedCountsAsConfirmed(t *testing.T) {
	f := newCallbackFixture(t)
	f.verifier.result = &zibal.VerifyResult{Result: zibal.ResultAlreadyVerified}

	outcome := f.svc.HandleCallback(context.Background(), f.input())

	assert.True(t, outcome.Paid)
	assert.Equal(t, enums.OrderStatusProcessing, f.order.Status)
}

func TestCallbackUnknownOrder(t *testing.T) {
	f := newCallbackFixture(t)
	input := f.input()
	input.OrderID = uuid.NewString()

	outcome := f.svc.HandleCallback(context.Background(), input)

	assert.False(t, outcome.Paid)
	assert.Equal(t, "https://shop.example/order-failed", outcome.RedirectURL)
}

func TestCallbackTrackIDForDifferentOrder(t *testing.T) {
	f := newCallbackFixture(t)
	otherRef := "555666"
	other := &models.Order{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Status:           enums.OrderStatusPending,
		PaymentStatus:    enums.PaymentStatusPending,
		PaymentReference: &otherRef,
		TrackID:          "CCCC3333",
	}
	f.orders.orders[other.ID] = other

	input := f.input()
	input.TrackID = otherRef

	outcome := f.svc.HandleCallback(context.Background(), input)

	assert.False(t, outcome.Paid)
	assert.Contains(t, outcome.RedirectURL, "/order-failed")
	assert.Equal(t, 0, f.verifier.calls)
	assert.Equal(t, enums.OrderStatusPending, f.order.Status)
	assert.Equal(t, enums.OrderStatusPending, other.Status)
	assert.Empty(t, f.carts.cleared)
}

func TestCallbackUnknownTrackID(t *testing.T) {
	f := newCallbackFixture(t)
	input := f.input()
	input.TrackID = "111222"

	outcome := f.svc.HandleCallback(context.Background(), input)

	assert.False(t, outcome.Paid)
	assert.Contains(t, outcome.RedirectURL, "/order-failed")
	assert.Equal(t, 0, f.verifier.calls)
	assert.Equal(t, enums.OrderStatusPending, f.order.Status)
}

func TestCallbackMalformedOrderID(t *testing.T) {
	f := newCallbackFixture(t)
	input := f.input()
	input.OrderID = "not-a-uuid"

	outcome := f.svc.HandleCallback(context.Background(), input)

	assert.False(t, outcome.Paid)
	assert.Equal(t, 0, f.verifier.calls)
}

func TestCallbackCanceledOrderStaysFailed(t *testing.T) {
	f := newCallbackFixture(t)
	f.order.Status = enums.OrderStatusCanceled
	f.order.PaymentStatus = enums.PaymentStatusFailed

	outcome := f.svc.HandleCallback(context.Background(), f.input())

	assert.False(t, outcome.Paid)
	assert.Contains(t, outcome.RedirectURL, "/order-failed")
	assert.Equal(t, enums.OrderStatusCanceled, f.order.Status)
	assert.Empty(t, f.carts.cleared)
}
