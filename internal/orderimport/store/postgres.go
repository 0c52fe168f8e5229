package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

type pgExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOrderRepository writes orders through a pgx connection pool.
type PostgresOrderRepository struct {
	db  pgExecer
	now func() time.Time
}

// NewPostgresOrderRepository connects to dsn and returns the repository with
// a close func for cleanup.
func NewPostgresOrderRepository(ctx context.Context, dsn string) (*PostgresOrderRepository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("postgres: DSN must not be empty")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return newPostgresOrderRepository(pool), pool.Close, nil
}

func newPostgresOrderRepository(db pgExecer) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db, now: time.Now}
}

func (r *PostgresOrderRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("postgres: create %s: %w", OrdersTable, err)
	}
	return nil
}

func (r *PostgresOrderRepository) SaveOrder(ctx context.Context, order entity.Order) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO orders (id, user_id, out_trade_no, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		order.ID, order.UserID, order.OutTradeNo, order.Amount.String(), order.Status, r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("postgres: insert order %q: %w", order.OutTradeNo, err)
	}
	return nil
}
