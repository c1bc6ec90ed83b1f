package embedstore

import (
	"path/filepath"
	"testing"

	"github.com/angzarr-io/angzarr/internal/store"
)

func TestEmbedstoreConformance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "angzarr.db")
	b, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer b.Close()
	store.RunConformance(t, b)
}
