package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/shopspring/decimal"
)

type execCall struct {
	sql  string
	args []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestPostgresOrderRepository_SaveOrder(t *testing.T) {
	t.Parallel()

	db := &fakeExecer{}
	repo := newPostgresOrderRepository(db)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	err := repo.SaveOrder(context.Background(), entity.Order{
		ID:         77,
		UserID:     1001,
		OutTradeNo: "T-1",
		Amount:     decimal.RequireFromString("19.90"),
		Status:     "PAID",
	})
	if err != nil {
		t.Fatalf("SaveOrder() err = %v", err)
	}

	if len(db.calls) != 1 {
		t.Fatalf("expected 1 exec, got %d", len(db.calls))
	}
	call := db.calls[0]
	if !strings.Contains(call.sql, "INSERT INTO orders") {
		t.Fatalf("unexpected sql: %s", call.sql)
	}
	want := []any{int64(77), int64(1001), "T-1", "19.9", "PAID", fixed}
	for i, v := range want {
		if call.args[i] != v {
			t.Fatalf("arg %d = %v, want %v", i, call.args[i], v)
		}
	}
}

func TestPostgresOrderRepository_Errors(t *testing.T) {
	t.Parallel()

	db := &fakeExecer{err: errors.New("duplicate key value")}
	repo := newPostgresOrderRepository(db)

	if err := repo.EnsureSchema(context.Background()); err == nil || !strings.Contains(err.Error(), "create orders") {
		t.Fatalf("EnsureSchema() err = %v", err)
	}
	if err := repo.SaveOrder(context.Background(), entity.Order{OutTradeNo: "T-9"}); err == nil || !strings.Contains(err.Error(), "T-9") {
		t.Fatalf("SaveOrder() err = %v", err)
	}
}

func TestNewPostgresOrderRepository_EmptyDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewPostgresOrderRepository(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}
