package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"chopmate/internal/domain"
	"chopmate/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgresStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if _, err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE cart_snapshots`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	s := NewPostgres(pool, nil)
	if _, err := s.Get(ctx, "cart:pg"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.Set(ctx, "cart:pg", `{"subtotal": "49.99"}`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "cart:pg", `{"subtotal": "50.00"}`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := s.Get(ctx, "cart:pg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `{"subtotal": "50.00"}` {
		t.Fatalf("unexpected payload %s", got)
	}
	if err := s.Remove(ctx, "cart:pg"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := s.Get(ctx, "cart:pg"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after remove, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
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
