package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"chopmate/internal/domain"
	"chopmate/internal/migrate"
	apprepo "chopmate/internal/repository/application"
	cartrepo "chopmate/internal/repository/cart"
	orderrepo "chopmate/internal/repository/order"
	vendorrepo "chopmate/internal/repository/vendor"
	cartsvc "chopmate/internal/service/cart"
	onboardingsvc "chopmate/internal/service/onboarding"
	ordersvc "chopmate/internal/service/order"
	sessionsvc "chopmate/internal/service/session"
	vendorsvc "chopmate/internal/service/vendor"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func TestStorefront_IntegrationCheckout(t *testing.T) {
	ctx := context.Background()
	pool := integrationPool(ctx, t)
	defer pool.Close()
	if _, err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE orders, cart_snapshots, customization_options, menu_items, vendors CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	vendors := vendorrepo.NewPostgres(pool, nil)
	v, err := vendors.Upsert(ctx, domain.Vendor{ID: uuid.NewString(), Name: "Mama Put", Cuisine: "Nigerian", Active: true})
	if err != nil {
		t.Fatalf("upsert vendor: %v", err)
	}
	item, err := vendors.UpsertMenuItem(ctx, domain.MenuItem{
		ID:        uuid.NewString(),
		VendorID:  v.ID,
		Name:      "Jollof Rice",
		Price:     decimal.RequireFromString("25.50"),
		Category:  "Mains",
		Available: true,
	})
	if err != nil {
		t.Fatalf("upsert item: %v", err)
	}

	carts := cartsvc.New(cartrepo.NewPostgres(pool, nil), nil)
	sessions := sessionsvc.New(0, nil)
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), Deps{
		Sessions:    sessions,
		Vendors:     vendorsvc.New(vendors, nil),
		Carts:       carts,
		Orders:      ordersvc.New(carts, orderrepo.NewPostgres(pool, nil), nil),
		Onboarding:  onboardingsvc.New(apprepo.NewPostgres(pool, nil), nil),
		Promos:      cartsvc.DefaultPromos(),
		ReadyChecks: []ReadyCheck{{Name: "postgres", Ping: pool.Ping}},
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	token, _, err := sessions.Issue(ctx)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	call := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := call(http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d", rec.Code)
	}
	if rec := call(http.MethodPost, "/cart/items", `{"vendorId":"`+v.ID+`","menuItemId":"`+item.ID+`","quantity":2}`); rec.Code != http.StatusOK {
		t.Fatalf("add item: %d %s", rec.Code, rec.Body.String())
	}
	if rec := call(http.MethodPost, "/cart/promo", `{"code":"CHOPMATE10"}`); rec.Code != http.StatusOK {
		t.Fatalf("apply promo: %d %s", rec.Code, rec.Body.String())
	}

	rec := call(http.MethodPost, "/orders", `{"deliveryAddress":"12 Allen Avenue","contactPhone":"08012345678","paymentMethod":"card"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: %d %s", rec.Code, rec.Body.String())
	}
	var order domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if !order.Total.Equal(decimal.RequireFromString("46.92")) || order.Status != domain.OrderPlaced {
		t.Fatalf("unexpected order %+v", order)
	}

	if rec := call(http.MethodGet, "/cart", ""); strings.TrimSpace(rec.Body.String()) != `{"cart":null}` {
		t.Fatalf("expected cart cleared after checkout, got %s", rec.Body.String())
	}
	if rec := call(http.MethodGet, "/orders/"+order.ID, ""); rec.Code != http.StatusOK {
		t.Fatalf("get order: %d %s", rec.Code, rec.Body.String())
	}
}

func integrationPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}
