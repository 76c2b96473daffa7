// Package storage is the durable key-value area the stores keep their
// snapshots in. Values are opaque bytes; callers own the encoding.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Keys used by the stores in this repo.
const (
	KeyItems         = "items"
	KeySearchSession = "searchSession"
	KeyPurchases     = "milkPurchases"
	KeyNames         = "namesList"
	KeyUsername      = "username"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// Open returns the backend named by driver: "memory", "sqlite" (dsn is a file
// path) or "postgres" (dsn is a connection string).
func Open(ctx context.Context, driver, dsn string) (KV, error) {
	switch driver {
	case "memory":
		return NewMemKV(), nil
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	case "postgres":
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
