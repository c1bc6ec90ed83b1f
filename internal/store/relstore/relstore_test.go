package relstore

import (
	"context"
	"os"
	"testing"

	"github.com/angzarr-io/angzarr/internal/store"
)

// TestRelstoreConformance requires a live PostgreSQL instance, given via
// ANGZARR_TEST_PG_DSN. It is skipped in unit-test runs without one, the way
// pgx-backed integration suites in the wild gate on a reachable database.
func TestRelstoreConformance(t *testing.T) {
	dsn := os.Getenv("ANGZARR_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("ANGZARR_TEST_PG_DSN not set; skipping relstore integration test")
	}
	b, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()
	store.RunConformance(t, b)
}
