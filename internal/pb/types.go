// Package pb holds the wire types and gRPC service stubs for the Angzarr
// coordinator protocol. It is hand-authored in the shape protoc-gen-go /
// protoc-gen-go-grpc would produce from angzarr.proto, since no generated
// package exists anywhere in the example pack for this schema; the exact
// field names below are reverse engineered from the reference client's usage.
package pb

import (
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// UUID is a 16-byte opaque identifier.
type UUID struct {
	Value []byte `protobuf:"bytes,1,opt,name=value,proto3"`
}

func (x *UUID) GetValue() []byte {
	if x != nil {
		return x.Value
	}
	return nil
}

// DomainDivergence records the sequence at which a fork diverged for a domain.
type DomainDivergence struct {
	Domain   string `protobuf:"bytes,1,opt,name=domain,proto3"`
	Sequence uint32 `protobuf:"varint,2,opt,name=sequence,proto3"`
}

func (x *DomainDivergence) GetDomain() string {
	if x != nil {
		return x.Domain
	}
	return ""
}

func (x *DomainDivergence) GetSequence() uint32 {
	if x != nil {
		return x.Sequence
	}
	return 0
}

// Edition names a timeline fork; the empty/"angzarr" name is the main timeline.
type Edition struct {
	Name        string              `protobuf:"bytes,1,opt,name=name,proto3"`
	Divergences []*DomainDivergence `protobuf:"bytes,2,rep,name=divergences,proto3"`
}

func (x *Edition) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *Edition) GetDivergences() []*DomainDivergence {
	if x != nil {
		return x.Divergences
	}
	return nil
}

// Cover identifies an aggregate instance within a timeline.
type Cover struct {
	Domain        string  `protobuf:"bytes,1,opt,name=domain,proto3"`
	Edition       *Edition `protobuf:"bytes,2,opt,name=edition,proto3"`
	Root          *UUID   `protobuf:"bytes,3,opt,name=root,proto3"`
	CorrelationId string  `protobuf:"bytes,4,opt,name=correlation_id,proto3"`
	EntityId      *string `protobuf:"bytes,5,opt,name=entity_id,proto3,oneof"`
}

func (x *Cover) GetDomain() string {
	if x != nil {
		return x.Domain
	}
	return ""
}

func (x *Cover) GetEdition() *Edition {
	if x != nil {
		return x.Edition
	}
	return nil
}

func (x *Cover) GetRoot() *UUID {
	if x != nil {
		return x.Root
	}
	return nil
}

func (x *Cover) GetCorrelationId() string {
	if x != nil {
		return x.CorrelationId
	}
	return ""
}

func (x *Cover) GetEntityId() string {
	if x != nil && x.EntityId != nil {
		return *x.EntityId
	}
	return ""
}

// EventPage is one committed event at a given sequence.
type EventPage struct {
	Sequence  uint32                 `protobuf:"varint,1,opt,name=sequence,proto3"`
	Event     *anypb.Any             `protobuf:"bytes,2,opt,name=event,proto3"`
	CreatedAt *timestamppb.Timestamp `protobuf:"bytes,3,opt,name=created_at,proto3"`
}

func (x *EventPage) GetSequence() uint32 {
	if x != nil {
		return x.Sequence
	}
	return 0
}

func (x *EventPage) GetEvent() *anypb.Any {
	if x != nil {
		return x.Event
	}
	return nil
}

func (x *EventPage) GetCreatedAt() *timestamppb.Timestamp {
	if x != nil {
		return x.CreatedAt
	}
	return nil
}

// SnapshotStrategy selects retention behavior for stored snapshots.
type SnapshotStrategy int32

const (
	SnapshotStrategy_LATEST      SnapshotStrategy = 0
	SnapshotStrategy_COMMUTATIVE SnapshotStrategy = 1
)

func (s SnapshotStrategy) String() string {
	if s == SnapshotStrategy_COMMUTATIVE {
		return "COMMUTATIVE"
	}
	return "LATEST"
}

// Snapshot is cached aggregate state at a sequence; acceleration only.
type Snapshot struct {
	Cover    *Cover           `protobuf:"bytes,1,opt,name=cover,proto3"`
	Sequence uint32           `protobuf:"varint,2,opt,name=sequence,proto3"`
	State    *anypb.Any       `protobuf:"bytes,3,opt,name=state,proto3"`
	Strategy SnapshotStrategy `protobuf:"varint,4,opt,name=strategy,proto3,enum=angzarr.SnapshotStrategy"`
}

func (x *Snapshot) GetCover() *Cover {
	if x != nil {
		return x.Cover
	}
	return nil
}

func (x *Snapshot) GetSequence() uint32 {
	if x != nil {
		return x.Sequence
	}
	return 0
}

func (x *Snapshot) GetState() *anypb.Any {
	if x != nil {
		return x.State
	}
	return nil
}

func (x *Snapshot) GetStrategy() SnapshotStrategy {
	if x != nil {
		return x.Strategy
	}
	return SnapshotStrategy_LATEST
}

// EventBook is a covered, ordered batch of event pages plus an optional base snapshot.
type EventBook struct {
	Cover        *Cover       `protobuf:"bytes,1,opt,name=cover,proto3"`
	Snapshot     *Snapshot    `protobuf:"bytes,2,opt,name=snapshot,proto3"`
	Pages        []*EventPage `protobuf:"bytes,3,rep,name=pages,proto3"`
	NextSequence uint32       `protobuf:"varint,4,opt,name=next_sequence,proto3"`
}

func (x *EventBook) GetCover() *Cover {
	if x != nil {
		return x.Cover
	}
	return nil
}

func (x *EventBook) GetSnapshot() *Snapshot {
	if x != nil {
		return x.Snapshot
	}
	return nil
}

func (x *EventBook) GetPages() []*EventPage {
	if x != nil {
		return x.Pages
	}
	return nil
}

func (x *EventBook) GetNextSequence() uint32 {
	if x != nil {
		return x.NextSequence
	}
	return 0
}

// CommandPage carries one command with its expected target sequence.
type CommandPage struct {
	Sequence    uint32     `protobuf:"varint,1,opt,name=sequence,proto3"`
	Synchronous bool       `protobuf:"varint,2,opt,name=synchronous,proto3"`
	Command     *anypb.Any `protobuf:"bytes,3,opt,name=command,proto3"`
}

func (x *CommandPage) GetSequence() uint32 {
	if x != nil {
		return x.Sequence
	}
	return 0
}

func (x *CommandPage) GetSynchronous() bool {
	if x != nil {
		return x.Synchronous
	}
	return false
}

func (x *CommandPage) GetCommand() *anypb.Any {
	if x != nil {
		return x.Command
	}
	return nil
}

// CommandBook targets a single aggregate instance with one or more commands.
type CommandBook struct {
	Cover         *Cover         `protobuf:"bytes,1,opt,name=cover,proto3"`
	Pages         []*CommandPage `protobuf:"bytes,2,rep,name=pages,proto3"`
	CorrelationId string         `protobuf:"bytes,3,opt,name=correlation_id,proto3"`
}

func (x *CommandBook) GetCover() *Cover {
	if x != nil {
		return x.Cover
	}
	return nil
}

func (x *CommandBook) GetPages() []*CommandPage {
	if x != nil {
		return x.Pages
	}
	return nil
}

func (x *CommandBook) GetCorrelationId() string {
	if x != nil {
		return x.CorrelationId
	}
	return ""
}

// SyncMode selects HandleSync fan-out behavior.
type SyncMode int32

const (
	SyncMode_SIMPLE  SyncMode = 0
	SyncMode_CASCADE SyncMode = 1
)

// SyncCommandBook wraps a CommandBook with a synchronous dispatch mode.
type SyncCommandBook struct {
	Command  *CommandBook `protobuf:"bytes,1,opt,name=command,proto3"`
	SyncMode SyncMode     `protobuf:"varint,2,opt,name=sync_mode,proto3,enum=angzarr.SyncMode"`
}

func (x *SyncCommandBook) GetCommand() *CommandBook {
	if x != nil {
		return x.Command
	}
	return nil
}

func (x *SyncCommandBook) GetSyncMode() SyncMode {
	if x != nil {
		return x.SyncMode
	}
	return SyncMode_SIMPLE
}

// Projection is a read-model artifact produced by a projector.
type Projection struct {
	Cover     *Cover     `protobuf:"bytes,1,opt,name=cover,proto3"`
	Projector string     `protobuf:"bytes,2,opt,name=projector,proto3"`
	Sequence  uint32     `protobuf:"varint,3,opt,name=sequence,proto3"`
	Data      *anypb.Any `protobuf:"bytes,4,opt,name=data,proto3"`
}

func (x *Projection) GetCover() *Cover {
	if x != nil {
		return x.Cover
	}
	return nil
}

func (x *Projection) GetProjector() string {
	if x != nil {
		return x.Projector
	}
	return ""
}

func (x *Projection) GetSequence() uint32 {
	if x != nil {
		return x.Sequence
	}
	return 0
}

func (x *Projection) GetData() *anypb.Any {
	if x != nil {
		return x.Data
	}
	return nil
}

// RejectionNotification carries a failed command back up the causal chain.
type RejectionNotification struct {
	IssuerName          string       `protobuf:"bytes,1,opt,name=issuer_name,proto3"`
	IssuerType          string       `protobuf:"bytes,2,opt,name=issuer_type,proto3"`
	SourceEventSequence uint32       `protobuf:"varint,3,opt,name=source_event_sequence,proto3"`
	RejectionReason     string       `protobuf:"bytes,4,opt,name=rejection_reason,proto3"`
	RejectedCommand     *CommandBook `protobuf:"bytes,5,opt,name=rejected_command,proto3"`
	SourceAggregate     *Cover       `protobuf:"bytes,6,opt,name=source_aggregate,proto3"`
}

func (x *RejectionNotification) GetIssuerName() string {
	if x != nil {
		return x.IssuerName
	}
	return ""
}

func (x *RejectionNotification) GetIssuerType() string {
	if x != nil {
		return x.IssuerType
	}
	return ""
}

func (x *RejectionNotification) GetSourceEventSequence() uint32 {
	if x != nil {
		return x.SourceEventSequence
	}
	return 0
}

func (x *RejectionNotification) GetRejectionReason() string {
	if x != nil {
		return x.RejectionReason
	}
	return ""
}

func (x *RejectionNotification) GetRejectedCommand() *CommandBook {
	if x != nil {
		return x.RejectedCommand
	}
	return nil
}

func (x *RejectionNotification) GetSourceAggregate() *Cover {
	if x != nil {
		return x.SourceAggregate
	}
	return nil
}

// Notification wraps an arbitrary payload; RejectionNotification is the only
// variant the coordinator itself produces.
type Notification struct {
	Payload *anypb.Any `protobuf:"bytes,1,opt,name=payload,proto3"`
}

func (x *Notification) GetPayload() *anypb.Any {
	if x != nil {
		return x.Payload
	}
	return nil
}

// RevocationResponse is how a compensation handler tells the dispatcher what to do next.
type RevocationResponse struct {
	EmitSystemRevocation  bool   `protobuf:"varint,1,opt,name=emit_system_revocation,proto3"`
	SendToDeadLetterQueue bool   `protobuf:"varint,2,opt,name=send_to_dead_letter_queue,proto3"`
	Escalate              bool   `protobuf:"varint,3,opt,name=escalate,proto3"`
	Abort                 bool   `protobuf:"varint,4,opt,name=abort,proto3"`
	Reason                string `protobuf:"bytes,5,opt,name=reason,proto3"`

	// Compensation is a command to run against the issuer's own aggregate via
	// the normal §4.6 Execute path, used by a rejection handler that reacts to
	// a RejectionNotification by compensating its own prior effect.
	Compensation *CommandBook `protobuf:"bytes,6,opt,name=compensation,proto3"`

	// Upstream, set together with Escalate, is the notification to forward to
	// the issuer's own issuer — only the handler knows who that is, since the
	// coordinator itself tracks no causal-parent chain.
	Upstream *RejectionNotification `protobuf:"bytes,7,opt,name=upstream,proto3"`
}

func (x *RevocationResponse) GetCompensation() *CommandBook {
	if x != nil {
		return x.Compensation
	}
	return nil
}

func (x *RevocationResponse) GetUpstream() *RejectionNotification {
	if x != nil {
		return x.Upstream
	}
	return nil
}

// ContextualCommand bundles a command with the prior events of its target aggregate.
type ContextualCommand struct {
	Command *CommandBook `protobuf:"bytes,1,opt,name=command,proto3"`
	Events  *EventBook   `protobuf:"bytes,2,opt,name=events,proto3"`
}

func (x *ContextualCommand) GetCommand() *CommandBook {
	if x != nil {
		return x.Command
	}
	return nil
}

func (x *ContextualCommand) GetEvents() *EventBook {
	if x != nil {
		return x.Events
	}
	return nil
}

// CommandResponse is the coordinator's reply to a submitted command.
type CommandResponse struct {
	Events        *EventBook `protobuf:"bytes,1,opt,name=events,proto3"`
	CorrelationId string     `protobuf:"bytes,2,opt,name=correlation_id,proto3"`
}

func (x *CommandResponse) GetEvents() *EventBook {
	if x != nil {
		return x.Events
	}
	return nil
}

func (x *CommandResponse) GetCorrelationId() string {
	if x != nil {
		return x.CorrelationId
	}
	return ""
}

// Target names a domain and the event/command types a component declares interest in.
type Target struct {
	Domain string   `protobuf:"bytes,1,opt,name=domain,proto3"`
	Types  []string `protobuf:"bytes,2,rep,name=types,proto3"`
}

func (x *Target) GetDomain() string {
	if x != nil {
		return x.Domain
	}
	return ""
}

func (x *Target) GetTypes() []string {
	if x != nil {
		return x.Types
	}
	return nil
}

// ComponentDescriptor is self-reported by a saga/PM/projector at registration time.
type ComponentDescriptor struct {
	Name          string    `protobuf:"bytes,1,opt,name=name,proto3"`
	ComponentType string    `protobuf:"bytes,2,opt,name=component_type,proto3"`
	Inputs        []*Target `protobuf:"bytes,3,rep,name=inputs,proto3"`
	OutputDomain  string    `protobuf:"bytes,4,opt,name=output_domain,proto3"`
}

func (x *ComponentDescriptor) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *ComponentDescriptor) GetComponentType() string {
	if x != nil {
		return x.ComponentType
	}
	return ""
}

func (x *ComponentDescriptor) GetInputs() []*Target {
	if x != nil {
		return x.Inputs
	}
	return nil
}

func (x *ComponentDescriptor) GetOutputDomain() string {
	if x != nil {
		return x.OutputDomain
	}
	return ""
}

// SagaPrepareRequest/Response implement phase 1 of the two-phase saga protocol.
type SagaPrepareRequest struct {
	Source *EventBook `protobuf:"bytes,1,opt,name=source,proto3"`
}

func (x *SagaPrepareRequest) GetSource() *EventBook {
	if x != nil {
		return x.Source
	}
	return nil
}

type SagaPrepareResponse struct {
	Destinations []*Cover `protobuf:"bytes,1,rep,name=destinations,proto3"`
}

func (x *SagaPrepareResponse) GetDestinations() []*Cover {
	if x != nil {
		return x.Destinations
	}
	return nil
}

// SagaExecuteRequest/SagaResponse implement phase 2.
type SagaExecuteRequest struct {
	Source       *EventBook   `protobuf:"bytes,1,opt,name=source,proto3"`
	Destinations []*EventBook `protobuf:"bytes,2,rep,name=destinations,proto3"`
}

func (x *SagaExecuteRequest) GetSource() *EventBook {
	if x != nil {
		return x.Source
	}
	return nil
}

func (x *SagaExecuteRequest) GetDestinations() []*EventBook {
	if x != nil {
		return x.Destinations
	}
	return nil
}

type SagaResponse struct {
	Commands []*CommandBook `protobuf:"bytes,1,rep,name=commands,proto3"`
}

func (x *SagaResponse) GetCommands() []*CommandBook {
	if x != nil {
		return x.Commands
	}
	return nil
}

// ProcessManagerPrepareRequest/Response mirror the saga prepare phase with own state.
type ProcessManagerPrepareRequest struct {
	Trigger      *EventBook `protobuf:"bytes,1,opt,name=trigger,proto3"`
	ProcessState *EventBook `protobuf:"bytes,2,opt,name=process_state,proto3"`
}

func (x *ProcessManagerPrepareRequest) GetTrigger() *EventBook {
	if x != nil {
		return x.Trigger
	}
	return nil
}

func (x *ProcessManagerPrepareRequest) GetProcessState() *EventBook {
	if x != nil {
		return x.ProcessState
	}
	return nil
}

type ProcessManagerPrepareResponse struct {
	Destinations []*Cover `protobuf:"bytes,1,rep,name=destinations,proto3"`
}

func (x *ProcessManagerPrepareResponse) GetDestinations() []*Cover {
	if x != nil {
		return x.Destinations
	}
	return nil
}

type ProcessManagerHandleRequest struct {
	Trigger      *EventBook   `protobuf:"bytes,1,opt,name=trigger,proto3"`
	ProcessState *EventBook   `protobuf:"bytes,2,opt,name=process_state,proto3"`
	Destinations []*EventBook `protobuf:"bytes,3,rep,name=destinations,proto3"`
}

func (x *ProcessManagerHandleRequest) GetTrigger() *EventBook {
	if x != nil {
		return x.Trigger
	}
	return nil
}

func (x *ProcessManagerHandleRequest) GetProcessState() *EventBook {
	if x != nil {
		return x.ProcessState
	}
	return nil
}

func (x *ProcessManagerHandleRequest) GetDestinations() []*EventBook {
	if x != nil {
		return x.Destinations
	}
	return nil
}

type ProcessManagerHandleResponse struct {
	Commands      []*CommandBook `protobuf:"bytes,1,rep,name=commands,proto3"`
	ProcessEvents *EventBook     `protobuf:"bytes,2,opt,name=process_events,proto3"`
}

func (x *ProcessManagerHandleResponse) GetCommands() []*CommandBook {
	if x != nil {
		return x.Commands
	}
	return nil
}

func (x *ProcessManagerHandleResponse) GetProcessEvents() *EventBook {
	if x != nil {
		return x.ProcessEvents
	}
	return nil
}

// ReplayRequest/Response support MERGE_COMMUTATIVE conflict detection.
type ReplayRequest struct {
	Events       []*EventPage `protobuf:"bytes,1,rep,name=events,proto3"`
	BaseSnapshot *Snapshot    `protobuf:"bytes,2,opt,name=base_snapshot,proto3"`
}

func (x *ReplayRequest) GetEvents() []*EventPage {
	if x != nil {
		return x.Events
	}
	return nil
}

func (x *ReplayRequest) GetBaseSnapshot() *Snapshot {
	if x != nil {
		return x.BaseSnapshot
	}
	return nil
}

type ReplayResponse struct {
	State *anypb.Any `protobuf:"bytes,1,opt,name=state,proto3"`
}

func (x *ReplayResponse) GetState() *anypb.Any {
	if x != nil {
		return x.State
	}
	return nil
}

// SequenceRange selects a [lower, upper] window of a stream.
type SequenceRange struct {
	Lower uint32  `protobuf:"varint,1,opt,name=lower,proto3"`
	Upper *uint32 `protobuf:"varint,2,opt,name=upper,proto3,oneof"`
}

func (x *SequenceRange) GetLower() uint32 {
	if x != nil {
		return x.Lower
	}
	return 0
}

func (x *SequenceRange) GetUpper() uint32 {
	if x != nil && x.Upper != nil {
		return *x.Upper
	}
	return 0
}

// AggregateRoot names one known (domain, root) pair, used by discovery scans.
type AggregateRoot struct {
	Domain string `protobuf:"bytes,1,opt,name=domain,proto3"`
	Root   *UUID  `protobuf:"bytes,2,opt,name=root,proto3"`
}

func (x *AggregateRoot) GetDomain() string {
	if x != nil {
		return x.Domain
	}
	return ""
}

func (x *AggregateRoot) GetRoot() *UUID {
	if x != nil {
		return x.Root
	}
	return nil
}

// DryRunRequest executes a command against supplied events without persisting.
type DryRunRequest struct {
	Command *CommandBook `protobuf:"bytes,1,opt,name=command,proto3"`
	Events  *EventBook   `protobuf:"bytes,2,opt,name=events,proto3"`
}

func (x *DryRunRequest) GetCommand() *CommandBook {
	if x != nil {
		return x.Command
	}
	return nil
}

func (x *DryRunRequest) GetEvents() *EventBook {
	if x != nil {
		return x.Events
	}
	return nil
}

type SpeculateProjectorRequest struct {
	Projector string     `protobuf:"bytes,1,opt,name=projector,proto3"`
	Events    *EventBook `protobuf:"bytes,2,opt,name=events,proto3"`
}

func (x *SpeculateProjectorRequest) GetProjector() string {
	if x != nil {
		return x.Projector
	}
	return ""
}

func (x *SpeculateProjectorRequest) GetEvents() *EventBook {
	if x != nil {
		return x.Events
	}
	return nil
}

type SpeculateSagaRequest struct {
	Saga         string       `protobuf:"bytes,1,opt,name=saga,proto3"`
	Source       *EventBook   `protobuf:"bytes,2,opt,name=source,proto3"`
	Destinations []*EventBook `protobuf:"bytes,3,rep,name=destinations,proto3"`
}

func (x *SpeculateSagaRequest) GetSaga() string {
	if x != nil {
		return x.Saga
	}
	return ""
}

func (x *SpeculateSagaRequest) GetSource() *EventBook {
	if x != nil {
		return x.Source
	}
	return nil
}

func (x *SpeculateSagaRequest) GetDestinations() []*EventBook {
	if x != nil {
		return x.Destinations
	}
	return nil
}

type SpeculatePmRequest struct {
	ProcessManager string       `protobuf:"bytes,1,opt,name=process_manager,proto3"`
	Trigger        *EventBook   `protobuf:"bytes,2,opt,name=trigger,proto3"`
	ProcessState   *EventBook   `protobuf:"bytes,3,opt,name=process_state,proto3"`
	Destinations   []*EventBook `protobuf:"bytes,4,rep,name=destinations,proto3"`
}

func (x *SpeculatePmRequest) GetProcessManager() string {
	if x != nil {
		return x.ProcessManager
	}
	return ""
}

func (x *SpeculatePmRequest) GetTrigger() *EventBook {
	if x != nil {
		return x.Trigger
	}
	return nil
}

func (x *SpeculatePmRequest) GetProcessState() *EventBook {
	if x != nil {
		return x.ProcessState
	}
	return nil
}

func (x *SpeculatePmRequest) GetDestinations() []*EventBook {
	if x != nil {
		return x.Destinations
	}
	return nil
}
