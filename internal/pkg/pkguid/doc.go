// Package pkguid provides helpers for generating unique identifiers.
//
// String IDs are time-ordered UUIDs, optionally prefixed (import jobs use
// "imp_"). Numeric IDs are Snowflake IDs and become primary keys of
// persisted orders.
package pkguid
