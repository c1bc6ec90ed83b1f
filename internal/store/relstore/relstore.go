// Package relstore implements store.Backend against PostgreSQL via pgx,
// the pattern rodolfodpk-go-crablet uses for its pgxpool-backed DCB event
// store: a single connection pool, explicit transactions for the
// check-then-append optimistic-concurrency path, and a unique index that
// makes a sequence collision a constraint violation rather than a race.
package relstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/pb"
	"github.com/angzarr-io/angzarr/internal/store"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS angzarr_events (
	domain     TEXT NOT NULL,
	edition    TEXT NOT NULL,
	root       UUID NOT NULL,
	sequence   INTEGER NOT NULL,
	type_url   TEXT NOT NULL,
	payload    BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (domain, edition, root, sequence)
);

CREATE TABLE IF NOT EXISTS angzarr_snapshots (
	domain     TEXT NOT NULL,
	edition    TEXT NOT NULL,
	root       UUID NOT NULL,
	sequence   INTEGER NOT NULL,
	type_url   TEXT NOT NULL,
	payload    BYTEA NOT NULL,
	PRIMARY KEY (domain, edition, root, sequence)
);

CREATE TABLE IF NOT EXISTS angzarr_positions (
	handler  TEXT NOT NULL,
	domain   TEXT NOT NULL,
	edition  TEXT NOT NULL,
	root     UUID NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (handler, domain, edition, root)
);
`

// Backend is a pgx-backed store.Backend.
type Backend struct {
	pool *pgxpool.Pool
}

// Open connects to PostgreSQL at dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnavailable, "relstore: connect failed", err)
	}
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		pool.Close()
		return nil, errs.Wrap(errs.KindInternal, "relstore: schema migration failed", err)
	}
	return &Backend{pool: pool}, nil
}

func (b *Backend) Events() store.EventStore       { return (*eventStore)(b) }
func (b *Backend) Snapshots() store.SnapshotStore { return (*snapshotStore)(b) }
func (b *Backend) Positions() store.PositionStore { return (*positionStore)(b) }
func (b *Backend) Close() error                   { b.pool.Close(); return nil }

type eventStore Backend

func (e *eventStore) Append(ctx context.Context, key store.AggregateKey, expectedSequence uint32, pages []*pb.EventPage) error {
	pool := (*Backend)(e).pool
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return errs.Wrap(errs.KindUnavailable, "relstore: begin tx failed", err)
	}
	defer tx.Rollback(ctx)

	var head int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sequence) + 1, 0) FROM angzarr_events WHERE domain=$1 AND edition=$2 AND root=$3`,
		key.Domain, key.Edition, key.Root,
	).Scan(&head)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "relstore: head query failed", err)
	}
	if uint32(head) != expectedSequence {
		return errs.SequenceConflict("relstore: aggregate sequence advanced since read")
	}

	for i, page := range pages {
		event := page.GetEvent()
		_, err := tx.Exec(ctx,
			`INSERT INTO angzarr_events (domain, edition, root, sequence, type_url, payload, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			key.Domain, key.Edition, key.Root, expectedSequence+uint32(i),
			event.GetTypeUrl(), event.GetValue(), page.GetCreatedAt().AsTime(),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return errs.SequenceConflict("relstore: concurrent append collided on sequence")
			}
			return errs.Wrap(errs.KindInternal, "relstore: insert failed", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return errs.Wrap(errs.KindInternal, "relstore: commit failed", err)
	}
	return nil
}

func (e *eventStore) Head(ctx context.Context, key store.AggregateKey) (uint32, error) {
	pool := (*Backend)(e).pool
	var head int
	err := pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(sequence) + 1, 0) FROM angzarr_events WHERE domain=$1 AND edition=$2 AND root=$3`,
		key.Domain, key.Edition, key.Root,
	).Scan(&head)
	if err != nil {
		return 0, errs.Wrap(errs.KindInternal, "relstore: head query failed", err)
	}
	return uint32(head), nil
}

func (e *eventStore) Load(ctx context.Context, key store.AggregateKey, fromSequence uint32) ([]*pb.EventPage, error) {
	pool := (*Backend)(e).pool
	rows, err := pool.Query(ctx,
		`SELECT sequence, type_url, payload, created_at FROM angzarr_events
		 WHERE domain=$1 AND edition=$2 AND root=$3 AND sequence >= $4
		 ORDER BY sequence ASC`,
		key.Domain, key.Edition, key.Root, fromSequence,
	)
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "relstore: load query failed", err)
	}
	defer rows.Close()

	var pages []*pb.EventPage
	for rows.Next() {
		var seq uint32
		var typeURL string
		var payload []byte
		var createdAt time.Time
		if err := rows.Scan(&seq, &typeURL, &payload, &createdAt); err != nil {
			return nil, errs.Wrap(errs.KindInternal, "relstore: scan failed", err)
		}
		pages = append(pages, &pb.EventPage{
			Sequence:  seq,
			Event:     &anypb.Any{TypeUrl: typeURL, Value: payload},
			CreatedAt: timestamppb.New(createdAt),
		})
	}
	return pages, rows.Err()
}

func (e *eventStore) Roots(ctx context.Context, domain string) ([]store.AggregateKey, error) {
	pool := (*Backend)(e).pool
	var rows pgx.Rows
	var err error
	if domain == "" {
		rows, err = pool.Query(ctx, `SELECT DISTINCT domain, edition, root FROM angzarr_events`)
	} else {
		rows, err = pool.Query(ctx, `SELECT DISTINCT domain, edition, root FROM angzarr_events WHERE domain=$1`, domain)
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "relstore: roots query failed", err)
	}
	defer rows.Close()

	var keys []store.AggregateKey
	for rows.Next() {
		var d, ed string
		var root uuid.UUID
		if err := rows.Scan(&d, &ed, &root); err != nil {
			return nil, errs.Wrap(errs.KindInternal, "relstore: scan failed", err)
		}
		keys = append(keys, store.AggregateKey{Domain: d, Edition: ed, Root: root})
	}
	return keys, rows.Err()
}

func (e *eventStore) DeleteStream(ctx context.Context, key store.AggregateKey) error {
	pool := (*Backend)(e).pool
	_, err := pool.Exec(ctx,
		`DELETE FROM angzarr_events WHERE domain=$1 AND edition=$2 AND root=$3`,
		key.Domain, key.Edition, key.Root,
	)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "relstore: delete stream failed", err)
	}
	return nil
}

type snapshotStore Backend

// Save persists snap. Under SnapshotStrategy_LATEST every older row for key
// is deleted first, keeping a single snapshot. Under
// SnapshotStrategy_COMMUTATIVE prior rows are left in place and snap is
// inserted alongside them, keyed additionally by sequence — Load always
// resolves to the highest-sequence row, but the full history survives.
func (s *snapshotStore) Save(ctx context.Context, key store.AggregateKey, snap *pb.Snapshot) error {
	pool := (*Backend)(s).pool
	tx, err := pool.Begin(ctx)
	if err != nil {
		return errs.Wrap(errs.KindUnavailable, "relstore: begin snapshot tx failed", err)
	}
	defer tx.Rollback(ctx)

	if snap.GetStrategy() != pb.SnapshotStrategy_COMMUTATIVE {
		if _, err := tx.Exec(ctx,
			`DELETE FROM angzarr_snapshots WHERE domain=$1 AND edition=$2 AND root=$3`,
			key.Domain, key.Edition, key.Root,
		); err != nil {
			return errs.Wrap(errs.KindInternal, "relstore: snapshot prune failed", err)
		}
	}

	state := snap.GetState()
	if _, err := tx.Exec(ctx,
		`INSERT INTO angzarr_snapshots (domain, edition, root, sequence, type_url, payload)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (domain, edition, root, sequence) DO UPDATE SET type_url=$5, payload=$6`,
		key.Domain, key.Edition, key.Root, snap.GetSequence(), state.GetTypeUrl(), state.GetValue(),
	); err != nil {
		return errs.Wrap(errs.KindInternal, "relstore: snapshot upsert failed", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return errs.Wrap(errs.KindInternal, "relstore: snapshot commit failed", err)
	}
	return nil
}

func (s *snapshotStore) Load(ctx context.Context, key store.AggregateKey) (*pb.Snapshot, error) {
	pool := (*Backend)(s).pool
	var seq uint32
	var typeURL string
	var payload []byte
	err := pool.QueryRow(ctx,
		`SELECT sequence, type_url, payload FROM angzarr_snapshots
		 WHERE domain=$1 AND edition=$2 AND root=$3
		 ORDER BY sequence DESC LIMIT 1`,
		key.Domain, key.Edition, key.Root,
	).Scan(&seq, &typeURL, &payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindInternal, "relstore: snapshot query failed", err)
	}
	return &pb.Snapshot{Sequence: seq, State: &anypb.Any{TypeUrl: typeURL, Value: payload}}, nil
}

type positionStore Backend

func (p *positionStore) Commit(ctx context.Context, handler string, key store.AggregateKey, position uint32) error {
	pool := (*Backend)(p).pool
	_, err := pool.Exec(ctx,
		`INSERT INTO angzarr_positions (handler, domain, edition, root, position)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (handler, domain, edition, root)
		 DO UPDATE SET position = GREATEST(angzarr_positions.position, $5)`,
		handler, key.Domain, key.Edition, key.Root, position,
	)
	if err != nil {
		return errs.Wrap(errs.KindInternal, "relstore: position upsert failed", err)
	}
	return nil
}

func (p *positionStore) Position(ctx context.Context, handler string, key store.AggregateKey) (uint32, error) {
	pool := (*Backend)(p).pool
	var position uint32
	err := pool.QueryRow(ctx,
		`SELECT position FROM angzarr_positions WHERE handler=$1 AND domain=$2 AND edition=$3 AND root=$4`,
		handler, key.Domain, key.Edition, key.Root,
	).Scan(&position)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errs.Wrap(errs.KindInternal, "relstore: position query failed", err)
	}
	return position, nil
}
