package migrate

import (
	"context"
	"testing"

	"kanban/internal/db"
)

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()
	ctx := context.Background()
	latest, err := Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	for i := 0; i < 2; i++ {
		v, err := Migrate(ctx, conn)
		if err != nil {
			t.Fatalf("migrate run %d: %v", i, err)
		}
		if v != latest {
			t.Fatalf("expected version %d, got %d", latest, v)
		}
	}
	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('kv','events')`); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected kv and events tables, got %d", n)
	}
}
