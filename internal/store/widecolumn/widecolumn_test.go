package widecolumn

import (
	"os"
	"strings"
	"testing"

	"github.com/angzarr-io/angzarr/internal/store"
)

// TestWidecolumnConformance requires a live Cassandra/ScyllaDB cluster,
// given via ANGZARR_TEST_CASSANDRA_HOSTS (comma-separated) and
// ANGZARR_TEST_CASSANDRA_KEYSPACE. Skipped without one, matching relstore's
// integration-test gating convention.
func TestWidecolumnConformance(t *testing.T) {
	hosts := os.Getenv("ANGZARR_TEST_CASSANDRA_HOSTS")
	if hosts == "" {
		t.Skip("ANGZARR_TEST_CASSANDRA_HOSTS not set; skipping widecolumn integration test")
	}
	keyspace := os.Getenv("ANGZARR_TEST_CASSANDRA_KEYSPACE")
	if keyspace == "" {
		keyspace = "angzarr_test"
	}
	b, err := Open(strings.Split(hosts, ","), keyspace)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()
	store.RunConformance(t, b)
}
