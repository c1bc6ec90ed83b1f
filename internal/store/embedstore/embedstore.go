// Package embedstore implements store.Backend on top of a single-file
// bbolt database, grounded on the same embedded-KV pattern octoreflex uses
// for its audit ledger: one bucket per logical table, a sortable binary key
// for ordered range scans, and all writes inside bbolt's own ACID
// transactions (no extra locking needed — bbolt serializes writers itself).
package embedstore

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"google.golang.org/protobuf/proto"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
)

const (
	bucketEvents    = "events"
	bucketSnapshots = "snapshots"
	bucketPositions = "positions"

	// SchemaVersion is bumped whenever the bucket layout changes incompatibly.
	SchemaVersion = "1"
)

// Backend is a bbolt-backed store.Backend.
type Backend struct {
	db *bolt.DB
}

// Open opens (or creates) the bbolt file at path.
func Open(path string) (*Backend, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, errs.Wrap(errs.KindUnavailable, fmt.Sprintf("embedstore: open %q failed", path), err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketEvents, bucketSnapshots, bucketPositions} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(errs.KindInternal, "embedstore: bucket init failed", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Events() store.EventStore       { return (*eventStore)(b) }
func (b *Backend) Snapshots() store.SnapshotStore { return (*snapshotStore)(b) }
func (b *Backend) Positions() store.PositionStore { return (*positionStore)(b) }
func (b *Backend) Close() error                   { return b.db.Close() }

// streamPrefix is the sortable key prefix for every page of one aggregate's
// stream: domain\x00edition\x00root\x00, so a bbolt cursor's Seek/Next pair
// yields pages in sequence order without a secondary index.
func streamPrefix(key store.AggregateKey) []byte {
	return []byte(key.Domain + "\x00" + key.Edition + "\x00" + key.Root.String() + "\x00")
}

func eventKey(key store.AggregateKey, sequence uint32) []byte {
	k := streamPrefix(key)
	seqBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(seqBytes, sequence)
	return append(k, seqBytes...)
}

// snapshotKey mirrors eventKey's sortable domain\x00edition\x00root\x00<be32
// sequence> layout, so a cursor over the stream prefix yields snapshots in
// sequence order the same way it does for event pages.
func snapshotKey(key store.AggregateKey, sequence uint32) []byte {
	k := streamPrefix(key)
	seqBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(seqBytes, sequence)
	return append(k, seqBytes...)
}

func positionKey(handler string, key store.AggregateKey) []byte {
	return []byte(handler + "\x00" + key.Domain + "\x00" + key.Edition + "\x00" + key.Root.String())
}

type eventStore Backend

func (e *eventStore) headLocked(tx *bolt.Tx, key store.AggregateKey) uint32 {
	b := tx.Bucket([]byte(bucketEvents))
	c := b.Cursor()
	prefix := streamPrefix(key)
	var max uint32
	found := false
	for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
		seq := binary.BigEndian.Uint32(k[len(prefix):])
		if !found || seq >= max {
			max, found = seq, true
		}
	}
	if !found {
		return 0
	}
	return max + 1
}

func hasPrefix(k, prefix []byte) bool {
	if len(k) < len(prefix) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (e *eventStore) Append(ctx context.Context, key store.AggregateKey, expectedSequence uint32, pages []*pb.EventPage) error {
	db := (*Backend)(e).db
	return db.Update(func(tx *bolt.Tx) error {
		if head := e.headLocked(tx, key); head != expectedSequence {
			return errs.SequenceConflict("embedstore: aggregate sequence advanced since read")
		}
		b := tx.Bucket([]byte(bucketEvents))
		for i, page := range pages {
			data, err := proto.Marshal(page)
			if err != nil {
				return errs.Wrap(errs.KindInternal, "embedstore: marshal event page failed", err)
			}
			if err := b.Put(eventKey(key, expectedSequence+uint32(i)), data); err != nil {
				return errs.Wrap(errs.KindInternal, "embedstore: put failed", err)
			}
		}
		return nil
	})
}

func (e *eventStore) Head(ctx context.Context, key store.AggregateKey) (uint32, error) {
	db := (*Backend)(e).db
	var head uint32
	err := db.View(func(tx *bolt.Tx) error {
		head = e.headLocked(tx, key)
		return nil
	})
	return head, err
}

func (e *eventStore) Load(ctx context.Context, key store.AggregateKey, fromSequence uint32) ([]*pb.EventPage, error) {
	db := (*Backend)(e).db
	var pages []*pb.EventPage
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketEvents))
		c := b.Cursor()
		prefix := streamPrefix(key)
		for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
			seq := binary.BigEndian.Uint32(k[len(prefix):])
			if seq < fromSequence {
				continue
			}
			var page pb.EventPage
			if err := proto.Unmarshal(v, &page); err != nil {
				return errs.Wrap(errs.KindInternal, "embedstore: unmarshal event page failed", err)
			}
			pages = append(pages, &page)
		}
		return nil
	})
	return pages, err
}

func (e *eventStore) Roots(ctx context.Context, domain string) ([]store.AggregateKey, error) {
	db := (*Backend)(e).db
	seen := make(map[string]store.AggregateKey)
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketEvents))
		return b.ForEach(func(k, _ []byte) error {
			parts := splitKey(k, 3)
			if len(parts) < 3 {
				return nil
			}
			d, ed, rootStr := parts[0], parts[1], parts[2]
			if domain != "" && d != domain {
				return nil
			}
			cacheKey := d + "/" + ed + "/" + rootStr
			if _, ok := seen[cacheKey]; ok {
				return nil
			}
			root, err := parseUUID(rootStr)
			if err != nil {
				return nil
			}
			seen[cacheKey] = store.AggregateKey{Domain: d, Edition: ed, Root: root}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	roots := make([]store.AggregateKey, 0, len(seen))
	for _, v := range seen {
		roots = append(roots, v)
	}
	return roots, nil
}

func (e *eventStore) DeleteStream(ctx context.Context, key store.AggregateKey) error {
	db := (*Backend)(e).db
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketEvents))
		c := b.Cursor()
		prefix := streamPrefix(key)
		var toDelete [][]byte
		for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
			toDelete = append(toDelete, append([]byte(nil), k...))
		}
		for _, k := range toDelete {
			if err := b.Delete(k); err != nil {
				return errs.Wrap(errs.KindInternal, "embedstore: delete failed", err)
			}
		}
		return nil
	})
}

type snapshotStore Backend

// Save persists snap. Under SnapshotStrategy_LATEST every older key for the
// aggregate is deleted first, keeping a single row. Under
// SnapshotStrategy_COMMUTATIVE prior rows are left in place and snap is
// inserted alongside them under its own sequence-suffixed key — Load always
// resolves to the highest-sequence row, but the full history survives.
func (s *snapshotStore) Save(ctx context.Context, key store.AggregateKey, snap *pb.Snapshot) error {
	db := (*Backend)(s).db
	data, err := proto.Marshal(snap)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "embedstore: marshal snapshot failed", err)
	}
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		if snap.GetStrategy() != pb.SnapshotStrategy_COMMUTATIVE {
			c := b.Cursor()
			prefix := streamPrefix(key)
			var stale [][]byte
			for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
				stale = append(stale, append([]byte(nil), k...))
			}
			for _, k := range stale {
				if err := b.Delete(k); err != nil {
					return errs.Wrap(errs.KindInternal, "embedstore: snapshot prune failed", err)
				}
			}
		}
		return b.Put(snapshotKey(key, snap.GetSequence()), data)
	})
}

func (s *snapshotStore) Load(ctx context.Context, key store.AggregateKey) (*pb.Snapshot, error) {
	db := (*Backend)(s).db
	var snap *pb.Snapshot
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSnapshots))
		c := b.Cursor()
		prefix := streamPrefix(key)
		var latestSeq uint32
		var latestData []byte
		found := false
		for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
			seq := binary.BigEndian.Uint32(k[len(prefix):])
			if !found || seq >= latestSeq {
				latestSeq, latestData, found = seq, v, true
			}
		}
		if !found {
			return nil
		}
		var s pb.Snapshot
		if err := proto.Unmarshal(latestData, &s); err != nil {
			return errs.Wrap(errs.KindInternal, "embedstore: unmarshal snapshot failed", err)
		}
		snap = &s
		return nil
	})
	return snap, err
}

type positionStore Backend

func (p *positionStore) Commit(ctx context.Context, handler string, key store.AggregateKey, position uint32) error {
	db := (*Backend)(p).db
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPositions))
		k := positionKey(handler, key)
		if existing := b.Get(k); existing != nil && binary.BigEndian.Uint32(existing) >= position {
			return nil
		}
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, position)
		return b.Put(k, buf)
	})
}

func (p *positionStore) Position(ctx context.Context, handler string, key store.AggregateKey) (uint32, error) {
	db := (*Backend)(p).db
	var position uint32
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPositions))
		data := b.Get(positionKey(handler, key))
		if data == nil {
			return nil
		}
		position = binary.BigEndian.Uint32(data)
		return nil
	})
	return position, err
}
