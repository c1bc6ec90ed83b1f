// Package memstore implements store.Backend on top of an in-memory
// go-memdb database. It is the default backend (STORE_BACKEND=mem) and the
// one used by the coordinator's own test suite and the godog features.
package memstore

import (
	"context"
	"sync"

	"github.com/hashicorp/go-memdb"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
)

const (
	tableEvents    = "events"
	tableSnapshots = "snapshots"
	tablePositions = "positions"
)

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableEvents: {
				Name: tableEvents,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:   "id",
						Unique: true,
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Domain"},
							&memdb.StringFieldIndex{Field: "Edition"},
							&memdb.StringFieldIndex{Field: "Root"},
							&memdb.UintFieldIndex{Field: "Sequence"},
						}},
					},
					"stream": {
						Name: "stream",
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Domain"},
							&memdb.StringFieldIndex{Field: "Edition"},
							&memdb.StringFieldIndex{Field: "Root"},
						}},
					},
				},
			},
			tableSnapshots: {
				Name: tableSnapshots,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:   "id",
						Unique: true,
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Domain"},
							&memdb.StringFieldIndex{Field: "Edition"},
							&memdb.StringFieldIndex{Field: "Root"},
							&memdb.UintFieldIndex{Field: "Sequence"},
						}},
					},
					"stream": {
						Name: "stream",
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Domain"},
							&memdb.StringFieldIndex{Field: "Edition"},
							&memdb.StringFieldIndex{Field: "Root"},
						}},
					},
				},
			},
			tablePositions: {
				Name: tablePositions,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:   "id",
						Unique: true,
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Handler"},
							&memdb.StringFieldIndex{Field: "Domain"},
							&memdb.StringFieldIndex{Field: "Edition"},
							&memdb.StringFieldIndex{Field: "Root"},
						}},
					},
				},
			},
		},
	}
}

// eventRow is the flattened, indexable row stored per event page.
type eventRow struct {
	Domain   string
	Edition  string
	Root     string
	Sequence uint64 // memdb's UintFieldIndex needs a fixed-width unsigned type
	Page     *pb.EventPage
}

type snapshotRow struct {
	Domain   string
	Edition  string
	Root     string
	Sequence uint64 // memdb's UintFieldIndex needs a fixed-width unsigned type
	Snap     *pb.Snapshot
}

type positionRow struct {
	Handler  string
	Domain   string
	Edition  string
	Root     string
	Position uint32
}

// Backend is a go-memdb-backed store.Backend.
type Backend struct {
	mu sync.Mutex // serializes append's read-check-write across the whole store
	db *memdb.MemDB
}

// New constructs an empty in-memory backend.
func New() (*Backend, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "memstore: schema init failed", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Events() store.EventStore       { return (*eventStore)(b) }
func (b *Backend) Snapshots() store.SnapshotStore { return (*snapshotStore)(b) }
func (b *Backend) Positions() store.PositionStore { return (*positionStore)(b) }
func (b *Backend) Close() error                   { return nil }

type eventStore Backend

func (e *eventStore) Append(ctx context.Context, key store.AggregateKey, expectedSequence uint32, pages []*pb.EventPage) error {
	b := (*Backend)(e)
	b.mu.Lock()
	defer b.mu.Unlock()

	head, err := e.headLocked(key)
	if err != nil {
		return err
	}
	if head != expectedSequence {
		return errs.SequenceConflict("memstore: aggregate sequence advanced since read")
	}

	txn := b.db.Txn(true)
	for i, page := range pages {
		row := &eventRow{
			Domain:   key.Domain,
			Edition:  key.Edition,
			Root:     key.Root.String(),
			Sequence: uint64(expectedSequence) + uint64(i),
			Page:     page,
		}
		if err := txn.Insert(tableEvents, row); err != nil {
			txn.Abort()
			return errs.Wrap(errs.KindInternal, "memstore: insert failed", err)
		}
	}
	txn.Commit()
	return nil
}

func (e *eventStore) headLocked(key store.AggregateKey) (uint32, error) {
	b := (*Backend)(e)
	txn := b.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(tableEvents, "stream", key.Domain, key.Edition, key.Root.String())
	if err != nil {
		return 0, errs.Wrap(errs.KindInternal, "memstore: lookup failed", err)
	}
	var max uint32
	found := false
	for obj := it.Next(); obj != nil; obj = it.Next() {
		row := obj.(*eventRow)
		if !found || uint32(row.Sequence) >= max {
			max = uint32(row.Sequence)
			found = true
		}
	}
	if !found {
		return 0, nil
	}
	return max + 1, nil
}

func (e *eventStore) Head(ctx context.Context, key store.AggregateKey) (uint32, error) {
	b := (*Backend)(e)
	b.mu.Lock()
	defer b.mu.Unlock()
	return e.headLocked(key)
}

func (e *eventStore) Load(ctx context.Context, key store.AggregateKey, fromSequence uint32) ([]*pb.EventPage, error) {
	b := (*Backend)(e)
	txn := b.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(tableEvents, "stream", key.Domain, key.Edition, key.Root.String())
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "memstore: lookup failed", err)
	}
	rows := make([]*eventRow, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		row := obj.(*eventRow)
		if uint32(row.Sequence) >= fromSequence {
			rows = append(rows, row)
		}
	}
	sortEventRows(rows)
	pages := make([]*pb.EventPage, len(rows))
	for i, r := range rows {
		pages[i] = r.Page
	}
	return pages, nil
}

func (e *eventStore) Roots(ctx context.Context, domain string) ([]store.AggregateKey, error) {
	b := (*Backend)(e)
	txn := b.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(tableEvents, "id")
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "memstore: scan failed", err)
	}
	seen := make(map[string]store.AggregateKey)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		row := obj.(*eventRow)
		if domain != "" && row.Domain != domain {
			continue
		}
		k := row.Domain + "/" + row.Edition + "/" + row.Root
		if _, ok := seen[k]; ok {
			continue
		}
		root, err := parseRoot(row.Root)
		if err != nil {
			continue
		}
		seen[k] = store.AggregateKey{Domain: row.Domain, Edition: row.Edition, Root: root}
	}
	roots := make([]store.AggregateKey, 0, len(seen))
	for _, v := range seen {
		roots = append(roots, v)
	}
	return roots, nil
}

func (e *eventStore) DeleteStream(ctx context.Context, key store.AggregateKey) error {
	b := (*Backend)(e)
	b.mu.Lock()
	defer b.mu.Unlock()
	txn := b.db.Txn(true)
	it, err := txn.Get(tableEvents, "stream", key.Domain, key.Edition, key.Root.String())
	if err != nil {
		txn.Abort()
		return errs.Wrap(errs.KindInternal, "memstore: delete lookup failed", err)
	}
	var toDelete []*eventRow
	for obj := it.Next(); obj != nil; obj = it.Next() {
		toDelete = append(toDelete, obj.(*eventRow))
	}
	for _, row := range toDelete {
		if err := txn.Delete(tableEvents, row); err != nil {
			txn.Abort()
			return errs.Wrap(errs.KindInternal, "memstore: delete failed", err)
		}
	}
	txn.Commit()
	return nil
}

type snapshotStore Backend

// Save persists snap. Under SnapshotStrategy_LATEST every older snapshot for
// key is pruned, keeping a single row. Under SnapshotStrategy_COMMUTATIVE
// prior snapshots are left in place and snap is inserted alongside them,
// keyed additionally by sequence — Load always resolves to the
// highest-sequence row, but the full history survives for strategies that
// want to fold across more than the latest one.
func (s *snapshotStore) Save(ctx context.Context, key store.AggregateKey, snap *pb.Snapshot) error {
	b := (*Backend)(s)
	txn := b.db.Txn(true)
	if snap.GetStrategy() != pb.SnapshotStrategy_COMMUTATIVE {
		it, err := txn.Get(tableSnapshots, "stream", key.Domain, key.Edition, key.Root.String())
		if err != nil {
			txn.Abort()
			return errs.Wrap(errs.KindInternal, "memstore: snapshot prune lookup failed", err)
		}
		var stale []*snapshotRow
		for obj := it.Next(); obj != nil; obj = it.Next() {
			stale = append(stale, obj.(*snapshotRow))
		}
		for _, row := range stale {
			if err := txn.Delete(tableSnapshots, row); err != nil {
				txn.Abort()
				return errs.Wrap(errs.KindInternal, "memstore: snapshot prune failed", err)
			}
		}
	}
	row := &snapshotRow{
		Domain:   key.Domain,
		Edition:  key.Edition,
		Root:     key.Root.String(),
		Sequence: uint64(snap.GetSequence()),
		Snap:     snap,
	}
	if err := txn.Insert(tableSnapshots, row); err != nil {
		txn.Abort()
		return errs.Wrap(errs.KindInternal, "memstore: snapshot insert failed", err)
	}
	txn.Commit()
	return nil
}

func (s *snapshotStore) Load(ctx context.Context, key store.AggregateKey) (*pb.Snapshot, error) {
	b := (*Backend)(s)
	txn := b.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(tableSnapshots, "stream", key.Domain, key.Edition, key.Root.String())
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "memstore: snapshot lookup failed", err)
	}
	var latest *snapshotRow
	for obj := it.Next(); obj != nil; obj = it.Next() {
		row := obj.(*snapshotRow)
		if latest == nil || row.Sequence > latest.Sequence {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest.Snap, nil
}

type positionStore Backend

func (p *positionStore) Commit(ctx context.Context, handler string, key store.AggregateKey, position uint32) error {
	b := (*Backend)(p)
	b.mu.Lock()
	defer b.mu.Unlock()
	txn := b.db.Txn(true)
	obj, err := txn.First(tablePositions, "id", handler, key.Domain, key.Edition, key.Root.String())
	if err != nil {
		txn.Abort()
		return errs.Wrap(errs.KindInternal, "memstore: position lookup failed", err)
	}
	if obj != nil && obj.(*positionRow).Position >= position {
		txn.Abort()
		return nil
	}
	row := &positionRow{Handler: handler, Domain: key.Domain, Edition: key.Edition, Root: key.Root.String(), Position: position}
	if err := txn.Insert(tablePositions, row); err != nil {
		txn.Abort()
		return errs.Wrap(errs.KindInternal, "memstore: position commit failed", err)
	}
	txn.Commit()
	return nil
}

func (p *positionStore) Position(ctx context.Context, handler string, key store.AggregateKey) (uint32, error) {
	b := (*Backend)(p)
	txn := b.db.Txn(false)
	defer txn.Abort()
	obj, err := txn.First(tablePositions, "id", handler, key.Domain, key.Edition, key.Root.String())
	if err != nil {
		return 0, errs.Wrap(errs.KindInternal, "memstore: position lookup failed", err)
	}
	if obj == nil {
		return 0, nil
	}
	return obj.(*positionRow).Position, nil
}
