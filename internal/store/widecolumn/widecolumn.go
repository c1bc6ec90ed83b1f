// Package widecolumn implements store.Backend against a Cassandra/ScyllaDB
// cluster via gocql. No wide-column example exists anywhere in the example
// pack (see DESIGN.md); the schema and access pattern below follow the
// standard gocql idiom — a lightweight-transaction (`IF`) conditional insert
// for optimistic concurrency in place of pgx's serializable transaction,
// since wide-column stores have no cross-partition ACID transactions.
package widecolumn

import (
	"context"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
)

const schemaCQL = `
CREATE TABLE IF NOT EXISTS angzarr_events (
	domain     text,
	edition    text,
	root       uuid,
	sequence   int,
	type_url   text,
	payload    blob,
	created_at timestamp,
	PRIMARY KEY ((domain, edition, root), sequence)
) WITH CLUSTERING ORDER BY (sequence ASC);

CREATE TABLE IF NOT EXISTS angzarr_snapshots (
	domain   text,
	edition  text,
	root     uuid,
	sequence int,
	type_url text,
	payload  blob,
	PRIMARY KEY ((domain, edition, root), sequence)
) WITH CLUSTERING ORDER BY (sequence DESC);

CREATE TABLE IF NOT EXISTS angzarr_positions (
	handler  text,
	domain   text,
	edition  text,
	root     uuid,
	position int,
	PRIMARY KEY ((handler, domain, edition, root))
);
`

// Backend is a gocql-backed store.Backend.
type Backend struct {
	session *gocql.Session
}

// Open connects to a Cassandra/ScyllaDB cluster through the given hosts and
// ensures the keyspace's tables exist.
func Open(hosts []string, keyspace string) (*Backend, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 10 * time.Second

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errs.Wrap(errs.KindUnavailable, "widecolumn: connect failed", err)
	}
	for _, stmt := range splitStatements(schemaCQL) {
		if err := session.Query(stmt).Exec(); err != nil {
			session.Close()
			return nil, errs.Wrap(errs.KindInternal, "widecolumn: schema migration failed", err)
		}
	}
	return &Backend{session: session}, nil
}

func (b *Backend) Events() store.EventStore       { return (*eventStore)(b) }
func (b *Backend) Snapshots() store.SnapshotStore { return (*snapshotStore)(b) }
func (b *Backend) Positions() store.PositionStore { return (*positionStore)(b) }
func (b *Backend) Close() error                   { b.session.Close(); return nil }

type eventStore Backend

func (e *eventStore) Append(ctx context.Context, key store.AggregateKey, expectedSequence uint32, pages []*pb.EventPage) error {
	session := (*Backend)(e).session

	head, err := e.Head(ctx, key)
	if err != nil {
		return err
	}
	if head != expectedSequence {
		return errs.SequenceConflict("widecolumn: aggregate sequence advanced since read")
	}

	// A lightweight transaction on the first page guards against a
	// concurrent writer that passed the Head check between our read and
	// this batch; LWT is restricted to one conditional row per batch in
	// Cassandra, so we gate on the lowest sequence only.
	if len(pages) > 0 {
		applied, err := session.Query(
			`INSERT INTO angzarr_events (domain, edition, root, sequence, type_url, payload, created_at) VALUES (?,?,?,?,?,?,?) IF NOT EXISTS`,
			key.Domain, key.Edition, key.Root, int(expectedSequence), pages[0].GetEvent().GetTypeUrl(), pages[0].GetEvent().GetValue(), pages[0].GetCreatedAt().AsTime(),
		).WithContext(ctx).MapScanCAS(map[string]interface{}{})
		if err != nil {
			return errs.Wrap(errs.KindTransient, "widecolumn: conditional insert failed", err)
		}
		if !applied {
			return errs.SequenceConflict("widecolumn: concurrent append collided on sequence")
		}
	}
	if len(pages) > 1 {
		restBatch := session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
		for i, page := range pages[1:] {
			event := page.GetEvent()
			restBatch.Query(
				`INSERT INTO angzarr_events (domain, edition, root, sequence, type_url, payload, created_at) VALUES (?,?,?,?,?,?,?)`,
				key.Domain, key.Edition, key.Root, int(expectedSequence)+i+1, event.GetTypeUrl(), event.GetValue(), page.GetCreatedAt().AsTime(),
			)
		}
		if err := session.ExecuteBatch(restBatch); err != nil {
			return errs.Wrap(errs.KindInternal, "widecolumn: batch insert failed", err)
		}
	}
	return nil
}

func (e *eventStore) Head(ctx context.Context, key store.AggregateKey) (uint32, error) {
	session := (*Backend)(e).session
	var seq int
	err := session.Query(
		`SELECT sequence FROM angzarr_events WHERE domain=? AND edition=? AND root=? ORDER BY sequence DESC LIMIT 1`,
		key.Domain, key.Edition, key.Root,
	).WithContext(ctx).Scan(&seq)
	if err == gocql.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, errs.Wrap(errs.KindInternal, "widecolumn: head query failed", err)
	}
	return uint32(seq) + 1, nil
}

func (e *eventStore) Load(ctx context.Context, key store.AggregateKey, fromSequence uint32) ([]*pb.EventPage, error) {
	session := (*Backend)(e).session
	iter := session.Query(
		`SELECT sequence, type_url, payload, created_at FROM angzarr_events WHERE domain=? AND edition=? AND root=? AND sequence>=?`,
		key.Domain, key.Edition, key.Root, int(fromSequence),
	).WithContext(ctx).Iter()

	var pages []*pb.EventPage
	var seq int
	var typeURL string
	var payload []byte
	var createdAt time.Time
	for iter.Scan(&seq, &typeURL, &payload, &createdAt) {
		pages = append(pages, &pb.EventPage{
			Sequence:  uint32(seq),
			Event:     &anypb.Any{TypeUrl: typeURL, Value: payload},
			CreatedAt: timestamppb.New(createdAt),
		})
	}
	if err := iter.Close(); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "widecolumn: load query failed", err)
	}
	return pages, nil
}

func (e *eventStore) Roots(ctx context.Context, domain string) ([]store.AggregateKey, error) {
	session := (*Backend)(e).session
	iter := session.Query(`SELECT DISTINCT domain, edition, root FROM angzarr_events`).WithContext(ctx).Iter()
	var keys []store.AggregateKey
	var d, ed string
	var root gocql.UUID
	for iter.Scan(&d, &ed, &root) {
		if domain != "" && d != domain {
			continue
		}
		u, err := uuid.Parse(root.String())
		if err != nil {
			continue
		}
		keys = append(keys, store.AggregateKey{Domain: d, Edition: ed, Root: u})
	}
	if err := iter.Close(); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "widecolumn: roots query failed", err)
	}
	return keys, nil
}

func (e *eventStore) DeleteStream(ctx context.Context, key store.AggregateKey) error {
	session := (*Backend)(e).session
	if err := session.Query(
		`DELETE FROM angzarr_events WHERE domain=? AND edition=? AND root=?`,
		key.Domain, key.Edition, key.Root,
	).WithContext(ctx).Exec(); err != nil {
		return errs.Wrap(errs.KindInternal, "widecolumn: delete stream failed", err)
	}
	return nil
}

type snapshotStore Backend

// Save persists snap. Under SnapshotStrategy_LATEST every older row in the
// (domain, edition, root) partition is deleted first, keeping a single
// clustering row. Under SnapshotStrategy_COMMUTATIVE prior rows are left in
// place and snap is inserted alongside them under its own sequence clustering
// key — Load's DESC clustering order always resolves to the highest-sequence
// row, but the full history survives in the partition.
func (s *snapshotStore) Save(ctx context.Context, key store.AggregateKey, snap *pb.Snapshot) error {
	session := (*Backend)(s).session
	if snap.GetStrategy() != pb.SnapshotStrategy_COMMUTATIVE {
		if err := session.Query(
			`DELETE FROM angzarr_snapshots WHERE domain=? AND edition=? AND root=?`,
			key.Domain, key.Edition, key.Root,
		).WithContext(ctx).Exec(); err != nil {
			return errs.Wrap(errs.KindInternal, "widecolumn: snapshot prune failed", err)
		}
	}
	state := snap.GetState()
	if err := session.Query(
		`INSERT INTO angzarr_snapshots (domain, edition, root, sequence, type_url, payload) VALUES (?,?,?,?,?,?)`,
		key.Domain, key.Edition, key.Root, int(snap.GetSequence()), state.GetTypeUrl(), state.GetValue(),
	).WithContext(ctx).Exec(); err != nil {
		return errs.Wrap(errs.KindInternal, "widecolumn: snapshot insert failed", err)
	}
	return nil
}

func (s *snapshotStore) Load(ctx context.Context, key store.AggregateKey) (*pb.Snapshot, error) {
	session := (*Backend)(s).session
	var seq int
	var typeURL string
	var payload []byte
	err := session.Query(
		`SELECT sequence, type_url, payload FROM angzarr_snapshots WHERE domain=? AND edition=? AND root=? LIMIT 1`,
		key.Domain, key.Edition, key.Root,
	).WithContext(ctx).Scan(&seq, &typeURL, &payload)
	if err == gocql.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "widecolumn: snapshot query failed", err)
	}
	return &pb.Snapshot{Sequence: uint32(seq), State: &anypb.Any{TypeUrl: typeURL, Value: payload}}, nil
}

type positionStore Backend

func (p *positionStore) Commit(ctx context.Context, handler string, key store.AggregateKey, position uint32) error {
	session := (*Backend)(p).session
	current, err := p.Position(ctx, handler, key)
	if err != nil {
		return err
	}
	if current >= position {
		return nil
	}
	if err := session.Query(
		`INSERT INTO angzarr_positions (handler, domain, edition, root, position) VALUES (?,?,?,?,?)`,
		handler, key.Domain, key.Edition, key.Root, int(position),
	).WithContext(ctx).Exec(); err != nil {
		return errs.Wrap(errs.KindInternal, "widecolumn: position upsert failed", err)
	}
	return nil
}

func (p *positionStore) Position(ctx context.Context, handler string, key store.AggregateKey) (uint32, error) {
	session := (*Backend)(p).session
	var position int
	err := session.Query(
		`SELECT position FROM angzarr_positions WHERE handler=? AND domain=? AND edition=? AND root=?`,
		handler, key.Domain, key.Edition, key.Root,
	).WithContext(ctx).Scan(&position)
	if err == gocql.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, errs.Wrap(errs.KindInternal, "widecolumn: position query failed", err)
	}
	return uint32(position), nil
}
