package memstore

import (
	"testing"

	"github.com/angzarr-io/angzarr/internal/store"
)

func TestMemstoreConformance(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	store.RunConformance(t, b)
}
