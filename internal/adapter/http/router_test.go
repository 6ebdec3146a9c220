package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gobank/internal/adapter/http/middleware"
	"github.com/iho/gobank/internal/adapter/repository/memory"
	repopostgres "github.com/iho/gobank/internal/adapter/repository/postgres"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/usecase"
)

func TestNewAccountRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewAccountRouter(newAccountRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected JSON health response, got %q", rec.Header().Get("Content-Type"))
	}
}

func TestNewAccountRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewAccountRouter(newAccountRouterConfig(func(cfg *AccountRouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewAccountRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewAccountRouter(newAccountRouterConfig(func(cfg *AccountRouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body := `{"accountNumber":"478758","type":"DEBIT","amount":"575"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/movements/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewAccountRouter_EndToEndWithMemoryStorage(t *testing.T) {
	router := NewAccountRouter(newAccountRouterConfig())

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/api/v1/accounts/", `{"accountNumber":"478758","type":"SAVINGS","initialBalance":"2000","clientId":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected account to be created, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(http.MethodPost, "/api/v1/movements/", `{"accountNumber":"478758","type":"DEBIT","amount":"575"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected movement to be created, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"resultingBalance":"1425"`) {
		t.Fatalf("expected resulting balance 1425, got %s", rec.Body.String())
	}

	rec = do(http.MethodPost, "/api/v1/movements/", `{"accountNumber":"478758","type":"DEBIT","amount":"5000"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected insufficient funds to be rejected, got %d", rec.Code)
	}

	rec = do(http.MethodGet, "/api/v1/accounts/number/478758/reconciliation", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"reconciled":true`) {
		t.Fatalf("expected reconciled account, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(http.MethodGet, "/api/v1/accounts/number/000000", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown account, got %d", rec.Code)
	}
}

func TestNewAccountRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewAccountRouter(newAccountRouterConfig())

	expectRoutes(t, router, []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"PATCH /api/v1/accounts/{id}",
		"DELETE /api/v1/accounts/{id}",
		"GET /api/v1/accounts/number/{number}",
		"GET /api/v1/accounts/number/{number}/reconciliation",
		"GET /api/v1/accounts/client/{clientId}",
		"POST /api/v1/movements/",
		"GET /api/v1/movements/{id}",
		"PATCH /api/v1/movements/{id}",
		"DELETE /api/v1/movements/{id}",
		"GET /api/v1/movements/account/{accountNumber}",
		"GET /api/v1/reports/client/{clientId}",
		"GET /api/v1/reports/persona/{personaId}",
		"GET /api/v1/reconciliation",
	})
}

func TestNewClientRouter_RegistersKeyRoutes(t *testing.T) {
	repo := memory.NewClientRepository(memory.NewStore())
	router := NewClientRouter(ClientRouterConfig{
		CommonConfig:  CommonConfig{HealthHandler: handler.NewHealthHandler(nil), Logger: zerolog.Nop()},
		ClientHandler: handler.NewClientHandler(usecase.NewClientUseCase(repo, nil, 4)),
	})

	expectRoutes(t, router, []string{
		"GET /health",
		"POST /api/v1/clients/",
		"GET /api/v1/clients/",
		"GET /api/v1/clients/{id}",
		"PUT /api/v1/clients/{id}",
		"DELETE /api/v1/clients/{id}",
		"GET /api/v1/clients/identification/{identification}",
	})
}

func expectRoutes(t *testing.T, router http.Handler, expected []string) {
	t.Helper()

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newAccountRouterConfig(opts ...func(*AccountRouterConfig)) AccountRouterConfig {
	store := memory.NewStore()
	accountRepo := memory.NewAccountRepository(store)
	movementRepo := memory.NewMovementRepository(store)
	txManager := memory.NewTxManager(store)
	outboxRepo := memory.NewOutboxRepository(store)
	idGen := repopostgres.NewULIDGenerator()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, movementRepo, outboxRepo, idGen, m)
	movementUC := usecase.NewMovementUseCase(txManager, accountRepo, movementRepo, outboxRepo, idGen, nil, m, usecase.MovementConfig{})
	reportUC := usecase.NewReportUseCase(&stubClientDirectory{}, accountRepo, movementRepo, m)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, movementRepo, m)

	cfg := AccountRouterConfig{
		CommonConfig: CommonConfig{
			HealthHandler:  handler.NewHealthHandler(nil),
			Logger:         zerolog.Nop(),
			Metrics:        m,
			MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		},
		AccountHandler:        handler.NewAccountHandler(accountUC),
		MovementHandler:       handler.NewMovementHandler(movementUC),
		ReportHandler:         handler.NewReportHandler(reportUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubClientDirectory struct{}

func (stubClientDirectory) FetchClient(ctx context.Context, ref domain.ClientRef) (*domain.ClientIdentity, error) {
	return nil, domain.ErrClientNotFound
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
