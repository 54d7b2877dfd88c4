// Package storage holds the durable key/value layer behind the board store.
package storage

import (
	"context"
	"errors"
	"fmt"
)

const (
	KeyBoards      = "kanban-boards"
	KeyActiveBoard = "kanban-active-board"

	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

var ErrNotFound = errors.New("not found")

// KV stores raw JSON documents by key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Check validates a driver name.
func Check(driver string) error {
	switch driver {
	case DriverSQLite, DriverFile:
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", driver)
	}
}
