package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/shandysiswandi/goorder/internal/orderimport/entity"

	_ "github.com/microsoft/go-mssqldb" // registers the "sqlserver" driver
	_ "modernc.org/sqlite"              // registers the "sqlite" driver
)

const (
	DriverSQLite    = "sqlite"
	DriverSQLServer = "sqlserver"
)

// SQLOrderRepository writes orders through database/sql. It understands the
// SQLite and SQL Server drivers, which differ in placeholders and DDL.
type SQLOrderRepository struct {
	db     *sql.DB
	driver string
	insert string
	schema string
	now    func() time.Time
}

// OpenSQLOrderRepository opens dsn with driver and returns the repository
// with a close func for cleanup.
func OpenSQLOrderRepository(ctx context.Context, driver, dsn string) (*SQLOrderRepository, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("%s: DSN must not be empty", driver)
	}
	if driver == DriverSQLServer {
		if _, err := msdsn.Parse(dsn); err != nil {
			return nil, nil, fmt.Errorf("sqlserver dsn: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: open: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer at a time
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("%s: ping: %w", driver, err)
	}

	repo, err := NewSQLOrderRepository(db, driver)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return repo, func() { _ = db.Close() }, nil
}

func NewSQLOrderRepository(db *sql.DB, driver string) (*SQLOrderRepository, error) {
	repo := &SQLOrderRepository{db: db, driver: driver, now: time.Now}

	switch driver {
	case DriverSQLite:
		repo.schema = sqliteSchema
		repo.insert = `INSERT INTO orders (id, user_id, out_trade_no, total_amount, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`
	case DriverSQLServer:
		repo.schema = sqlserverSchema
		repo.insert = `INSERT INTO dbo.orders (id, user_id, out_trade_no, total_amount, status, created_at)
			VALUES (@p1, @p2, @p3, @p4, @p5, @p6)`
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	return repo, nil
}

func (r *SQLOrderRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.schema); err != nil {
		return fmt.Errorf("%s: create %s: %w", r.driver, OrdersTable, err)
	}
	return nil
}

func (r *SQLOrderRepository) SaveOrder(ctx context.Context, order entity.Order) error {
	_, err := r.db.ExecContext(ctx, r.insert,
		order.ID, order.UserID, order.OutTradeNo, order.Amount.String(), order.Status, r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s: insert order %q: %w", r.driver, order.OutTradeNo, err)
	}
	return nil
}

// CountOrders returns how many rows the orders table holds.
func (r *SQLOrderRepository) CountOrders(ctx context.Context) (int64, error) {
	table := OrdersTable
	if r.driver == DriverSQLServer {
		table = "dbo." + OrdersTable
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: count %s: %w", r.driver, OrdersTable, err)
	}
	return n, nil
}
