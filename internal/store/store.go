// Package store defines the durable persistence interfaces the coordinator
// depends on: EventStore (append-only per-aggregate event log with
// optimistic concurrency), SnapshotStore (periodic state compaction) and
// PositionStore (publisher checkpointing). Concrete backends live in the
// memstore, relstore, embedstore and widecolumn subpackages; each backend's
// test runs the same conformance suite, RunConformance in conformance.go.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/angzarr-io/angzarr/internal/pb"
)

// AggregateKey identifies a single aggregate's stream: domain, edition and root.
type AggregateKey struct {
	Domain  string
	Edition string
	Root    uuid.UUID
}

// EventStore is the append-only, per-aggregate event log. Implementations
// must guarantee: sequence numbers are dense, zero-based and monotonic per
// key; Append is atomic and enforces optimistic concurrency via
// expectedSequence; readers never observe a torn write.
type EventStore interface {
	// Append writes pages to key's stream. expectedSequence is the sequence
	// the caller believes the stream is currently at (i.e. the next page's
	// sequence must equal expectedSequence). Returns errs.SequenceConflict
	// if the stream has since advanced.
	Append(ctx context.Context, key AggregateKey, expectedSequence uint32, pages []*pb.EventPage) error

	// Load returns all pages for key from fromSequence (inclusive) onward.
	Load(ctx context.Context, key AggregateKey, fromSequence uint32) ([]*pb.EventPage, error)

	// Head returns the next expected sequence number for key (0 if empty).
	Head(ctx context.Context, key AggregateKey) (uint32, error)

	// Roots streams every distinct AggregateKey known to the store for domain
	// (or every domain if domain is empty), for EventQueryService.GetAggregateRoots.
	Roots(ctx context.Context, domain string) ([]AggregateKey, error)

	// DeleteStream removes every page of key's own stream. Used to discard an
	// edition fork wholesale (§3 Lifecycle); callers must never invoke this on
	// the main "angzarr" timeline.
	DeleteStream(ctx context.Context, key AggregateKey) error
}

// SnapshotStore persists periodic state compactions so replay does not
// always start from sequence zero.
type SnapshotStore interface {
	// Save stores snap as the latest snapshot for key.
	Save(ctx context.Context, key AggregateKey, snap *pb.Snapshot) error

	// Load returns the latest snapshot for key, or nil if none exists.
	Load(ctx context.Context, key AggregateKey) (*pb.Snapshot, error)
}

// PositionStore tracks, per fan-out handler, the last sequence position
// successfully delivered for each aggregate key — the publisher's
// checkpoint table (§4.7).
type PositionStore interface {
	// Commit records that handler has durably processed through position
	// (inclusive) for key.
	Commit(ctx context.Context, handler string, key AggregateKey, position uint32) error

	// Position returns the last committed position for handler/key, or 0 if
	// never committed (meaning: start from the beginning).
	Position(ctx context.Context, handler string, key AggregateKey) (uint32, error)
}

// Backend bundles the three stores a concrete storage technology provides,
// so cmd/coordinator can wire one constructor call per backend choice.
type Backend interface {
	Events() EventStore
	Snapshots() SnapshotStore
	Positions() PositionStore
	Close() error
}
