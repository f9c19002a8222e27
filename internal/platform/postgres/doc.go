// Package postgres provides the PostgreSQL implementation of the durable
// counter store, plus connection and embedded-migration helpers. It is
// the correctness source of truth for credit balances; the cache tier in
// internal/platform/rediscache is a latency optimization only.
package postgres
