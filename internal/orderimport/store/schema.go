package store

// OrdersTable is the table every SQL backed repository writes to.
const OrdersTable = "orders"

const postgresSchema = `CREATE TABLE IF NOT EXISTS orders (
	id           BIGINT PRIMARY KEY,
	user_id      BIGINT NOT NULL,
	out_trade_no VARCHAR(64) NOT NULL,
	total_amount NUMERIC(18, 2) NOT NULL,
	status       VARCHAR(32) NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
)`

const sqliteSchema = `CREATE TABLE IF NOT EXISTS orders (
	id           INTEGER PRIMARY KEY,
	user_id      INTEGER NOT NULL,
	out_trade_no TEXT NOT NULL,
	total_amount TEXT NOT NULL,
	status       TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL
)`

const sqlserverSchema = `IF OBJECT_ID(N'dbo.orders', N'U') IS NULL
CREATE TABLE dbo.orders (
	id           BIGINT PRIMARY KEY,
	user_id      BIGINT NOT NULL,
	out_trade_no NVARCHAR(64) NOT NULL,
	total_amount DECIMAL(18, 2) NOT NULL,
	status       NVARCHAR(32) NOT NULL,
	created_at   DATETIME2 NOT NULL
)`
