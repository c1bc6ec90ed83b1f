package memstore

import (
	"sort"

	"github.com/google/uuid"
)

func sortEventRows(rows []*eventRow) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Sequence < rows[j].Sequence })
}

func parseRoot(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
