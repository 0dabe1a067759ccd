package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgAuth "github.com/aminzare2005/vlonefarsi/pkg/auth"
	"github.com/aminzare2005/vlonefarsi/pkg/config"
	"github.com/aminzare2005/vlonefarsi/pkg/db/models"
	"github.com/aminzare2005/vlonefarsi/pkg/enums"
	"github.com/aminzare2005/vlonefarsi/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogsvc "github.com/aminzare2005/vlonefarsi/internal/catalog"
	ordersvc "github.com/aminzare2005/vlonefarsi/internal/orders"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogRepo struct {
	products []models.Product
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) catalogsvc.Repository { return s }

func (s *stubCatalogRepo) ListProducts(context.Context) ([]models.Product, error) {
	return s.products, nil
}

func (s *stubCatalogRepo) FindProductByID(context.Context, uuid.UUID) (*models.Product, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) ListPhoneCases(context.Context) ([]models.PhoneCase, error) {
	return nil, nil
}

func (s *stubCatalogRepo) FindPhoneCaseByID(context.Context, uuid.UUID) (*models.PhoneCase, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) GetSettings(context.Context) (*models.Settings, error) {
	return nil, gorm.ErrRecordNotFound
}

type stubOrdersRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) ordersvc.Repository { return s }

func (s *stubOrdersRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrdersRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindByIDForUser(_ context.Context, id, userID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok || order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubOrdersRepo) FindByTrackID(_ context.Context, trackID string) (*models.Order, error) {
	for _, order := range s.orders {
		if order.TrackID == trackID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) FindByPaymentReference(context.Context, string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			rows = append(rows, *order)
		}
	}
	return rows, nil
}

func (s *stubOrdersRepo) UpdateStatusGuarded(_ context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	order, ok := s.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	order.PaymentStatus = enums.PaymentStatusFor(to)
	return true, nil
}

func (s *stubOrdersRepo) SetPaymentReference(context.Context, uuid.UUID, string) error { return nil }

func (s *stubOrdersRepo) SetTrackPostID(context.Context, uuid.UUID, string) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0", BaseURL: "https://shop.example"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer"},
	}
}

func newTestRouter(cfg *config.Config, ordersRepo *stubOrdersRepo) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	if ordersRepo == nil {
		ordersRepo = newStubOrdersRepo()
	}
	catalogRepo := &stubCatalogRepo{products: []models.Product{{ID: uuid.New(), Name: "sunset print", IsActive: true}}}
	return NewRouter(Deps{
		Config:  cfg,
		Logger:  logg,
		DB:      stubPinger{},
		Catalog: catalogsvc.NewService(catalogRepo, logg),
		Orders:  ordersvc.NewService(ordersRepo, logg),
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCatalogIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "sunset print") {
		t.Fatalf("expected product in response, got %s", resp.Body.String())
	}
}

func TestTrackIsPublic(t *testing.T) {
	repo := newStubOrdersRepo()
	order := &models.Order{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  enums.OrderStatusProcessing,
		TrackID: "AAAA1111",
	}
	repo.orders[order.ID] = order
	router := newTestRouter(testConfig(), repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/track/AAAA1111", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRequiresAuth(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCheckoutRequiresAuth(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestAdminStatusRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	repo := newStubOrdersRepo()
	order := &models.Order{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Status:  enums.OrderStatusProcessing,
		TrackID: "BBBB2222",
	}
	repo.orders[order.ID] = order
	router := newTestRouter(cfg, repo)

	url := "/api/v1/admin/orders/" + order.ID.String() + "/status"
	body := `{"status":"ready"}`

	customer := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if payload.Data.Status != string(enums.OrderStatusReady) {
		t.Fatalf("expected ready status got %s", payload.Data.Status)
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), time.Hour, pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
