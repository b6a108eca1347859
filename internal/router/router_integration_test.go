//go:build integration

package router

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gsagg03-cmyk/erpx/internal/config"
	"github.com/gsagg03-cmyk/erpx/internal/infra"
	"github.com/gsagg03-cmyk/erpx/internal/model"
	"github.com/gsagg03-cmyk/erpx/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, token string) *http.Response {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		buf = jsonBody(t, body)
	} else {
		buf = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, srv.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

type obj = map[string]any

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
	token  string // owner access token
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("ledger_test"),
		tcPostgres.WithUsername("ledger"),
		tcPostgres.WithPassword("ledger"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DBDriver:           "postgres",
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		DashboardCacheTTL:  30,
		AllowRegistration:  true,
		CORSOrigins:        "*",
		PDFStoragePath:     t.TempDir(),
		Timezone:           "UTC",
	}

	db, err := infra.NewDatabase(infra.DatabaseOptions{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL})
	require.NoError(t, err)
	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	svcs := NewServices(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(New(cfg, db, rdb, svcs))
	t.Cleanup(srv.Close)

	resp := do(t, srv, http.MethodPost, "/v1/auth/register", obj{
		"business_name": "E2E Traders", "name": "Owner", "username": "owner", "password": "password1",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &login)
	return &testEnv{server: srv, db: db, token: login.AccessToken}
}

func (e *testEnv) createProduct(t *testing.T, sku string, stock int) string {
	resp := do(t, e.server, http.MethodPost, "/v1/products", obj{
		"name": "Product " + sku, "sku": sku, "purchase_price": "80", "sell_price": "100", "opening_stock": stock,
	}, e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &p)
	return p.ID
}

type saleView struct {
	ID            string `json:"id"`
	VoucherNumber string `json:"voucher_number"`
	Profit        string `json:"profit"`
	PaidAmount    string `json:"paid_amount"`
	DueAmount     string `json:"due_amount"`
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_SaleAndPaymentCycle(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "E2E-1", 20)

	resp := do(t, env.server, http.MethodPost, "/v1/sales", obj{
		"product_id": productID, "quantity": 10, "customer_name": "Karim", "customer_phone": "01711",
	}, env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale saleView
	decodeJSON(t, resp, &sale)
	assert.Equal(t, "1000", sale.DueAmount)
	assert.Equal(t, "200", sale.Profit)

	var payments []string
	for _, amount := range []string{"500", "500"} {
		resp = do(t, env.server, http.MethodPost, "/v1/sales/"+sale.ID+"/payments", obj{"payment_amount": amount}, env.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var pay struct {
			Realization struct {
				ID           string `json:"id"`
				ProfitAmount string `json:"profit_amount"`
			} `json:"realization"`
		}
		decodeJSON(t, resp, &pay)
		assert.Equal(t, "100", pay.Realization.ProfitAmount)
		payments = append(payments, pay.Realization.ID)
	}

	// Overpaying a settled sale is rejected and echoes the input.
	resp = do(t, env.server, http.MethodPost, "/v1/sales/"+sale.ID+"/payments", obj{"payment_amount": "1"}, env.token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var rejected obj
	decodeJSON(t, resp, &rejected)
	assert.Equal(t, "payment_exceeds_due", rejected["code"])
	assert.NotNil(t, rejected["input"])

	resp = do(t, env.server, http.MethodGet, "/v1/payments/"+payments[0], nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var voucher struct {
		PaidToDate      string `json:"paid_to_date"`
		DueAfterPayment string `json:"due_after_payment"`
	}
	decodeJSON(t, resp, &voucher)
	assert.Equal(t, "500", voucher.PaidToDate)
	assert.Equal(t, "500", voucher.DueAfterPayment)

	resp = do(t, env.server, http.MethodGet, "/v1/payments/"+payments[1]+"/pdf", nil, env.token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/v1/reports/dashboard", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dash struct {
		Today struct {
			Sales          string `json:"sales"`
			RealizedProfit string `json:"realized_profit"`
		} `json:"today"`
		TotalDue string `json:"total_due"`
	}
	decodeJSON(t, resp, &dash)
	assert.Equal(t, "1000", dash.Today.Sales)
	assert.Equal(t, "200", dash.Today.RealizedProfit)
	assert.Equal(t, "0", dash.TotalDue)

	resp = do(t, env.server, http.MethodGet, "/v1/reports/sales/export", nil, env.token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
	resp.Body.Close()

	// Sold product cannot be deleted.
	resp = do(t, env.server, http.MethodDelete, "/v1/products/"+productID, nil, env.token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var guard struct {
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, resp, &guard)
	assert.Contains(t, guard.Fields, "has_sales")
	assert.Contains(t, guard.Fields, "has_stock")
}

func TestE2E_HealthReportsQueues(t *testing.T) {
	env := setupTestEnv(t)
	resp := do(t, env.server, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health struct {
		OK     bool                        `json:"ok"`
		Queues map[string]map[string]int64 `json:"queues"`
	}
	decodeJSON(t, resp, &health)
	assert.True(t, health.OK)
	assert.Contains(t, health.Queues, worker.QueueVoucher)
}

func TestE2E_ConcurrentSalesGetDistinctVouchers(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "E2E-2", 100)

	const n = 20
	var wg sync.WaitGroup
	vouchers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := do(t, env.server, http.MethodPost, "/v1/sales", obj{
				"product_id": productID, "quantity": 1, "customer_name": fmt.Sprintf("c%d", i),
			}, env.token)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusCreated {
				return
			}
			var s saleView
			if json.NewDecoder(resp.Body).Decode(&s) == nil {
				vouchers <- s.VoucherNumber
			}
		}(i)
	}
	wg.Wait()
	close(vouchers)

	seen := map[string]bool{}
	for v := range vouchers {
		assert.False(t, seen[v], "duplicate voucher %s", v)
		seen[v] = true
	}
	assert.Len(t, seen, n)

	resp := do(t, env.server, http.MethodGet, "/v1/products/"+productID, nil, env.token)
	var p struct {
		CurrentStock int `json:"current_stock"`
	}
	decodeJSON(t, resp, &p)
	assert.Equal(t, 100-n, p.CurrentStock)
}

func TestE2E_StockAdjustDecreaseBeyondStock(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "E2E-3", 2)

	resp := do(t, env.server, http.MethodPost, "/v1/products/"+productID+"/stock/adjust", obj{
		"direction": "decrease", "quantity": 3,
	}, env.token)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/v1/products/"+productID+"/stock", nil, env.token)
	var entries struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, resp, &entries)
	assert.EqualValues(t, 1, entries.Total) // opening stock only
}

func TestE2E_DeleteEmptiedProductKeepsLedger(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "E2E-4", 3)

	resp := do(t, env.server, http.MethodPost, "/v1/products/"+productID+"/stock/adjust", obj{
		"direction": "decrease", "quantity": 3,
	}, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodDelete, "/v1/products/"+productID, nil, env.token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/v1/products/"+productID, nil, env.token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	var entries int64
	require.NoError(t, env.db.Model(&model.StockEntry{}).Where("product_id = ?", productID).Count(&entries).Error)
	assert.EqualValues(t, 2, entries)
}
