package pb

import "google.golang.org/protobuf/types/known/timestamppb"

// BusinessResponse_Result is the sealed interface for the BusinessResponse oneof.
type isBusinessResponse_Result interface {
	isBusinessResponse_Result()
}

// BusinessResponse is returned by a business-logic handler: either the
// committed events, or a revocation response when handling a rejection.
type BusinessResponse struct {
	Result isBusinessResponse_Result
}

type BusinessResponse_Events struct {
	Events *EventBook
}

type BusinessResponse_Revocation struct {
	Revocation *RevocationResponse
}

func (*BusinessResponse_Events) isBusinessResponse_Result()     {}
func (*BusinessResponse_Revocation) isBusinessResponse_Result() {}

func (x *BusinessResponse) GetEvents() *EventBook {
	if x != nil {
		if e, ok := x.Result.(*BusinessResponse_Events); ok {
			return e.Events
		}
	}
	return nil
}

func (x *BusinessResponse) GetRevocation() *RevocationResponse {
	if x != nil {
		if r, ok := x.Result.(*BusinessResponse_Revocation); ok {
			return r.Revocation
		}
	}
	return nil
}

// isTemporalQuery_PointInTime is the sealed interface for TemporalQuery's oneof.
type isTemporalQuery_PointInTime interface {
	isTemporalQuery_PointInTime()
}

type TemporalQuery struct {
	PointInTime isTemporalQuery_PointInTime
}

type TemporalQuery_AsOfSequence struct {
	AsOfSequence uint32
}

type TemporalQuery_AsOfTime struct {
	AsOfTime *timestamppb.Timestamp
}

func (*TemporalQuery_AsOfSequence) isTemporalQuery_PointInTime() {}
func (*TemporalQuery_AsOfTime) isTemporalQuery_PointInTime()     {}

// isQuery_Selection is the sealed interface for Query's oneof.
type isQuery_Selection interface {
	isQuery_Selection()
}

// Query selects an event window for a Cover: either a sequence range or a
// temporal point-in-time.
type Query struct {
	Cover     *Cover
	Selection isQuery_Selection
}

type Query_Range struct {
	Range *SequenceRange
}

type Query_Temporal struct {
	Temporal *TemporalQuery
}

func (*Query_Range) isQuery_Selection()    {}
func (*Query_Temporal) isQuery_Selection() {}

func (x *Query) GetCover() *Cover {
	if x != nil {
		return x.Cover
	}
	return nil
}

func (x *Query) GetRange() *SequenceRange {
	if x != nil {
		if r, ok := x.Selection.(*Query_Range); ok {
			return r.Range
		}
	}
	return nil
}

func (x *Query) GetTemporal() *TemporalQuery {
	if x != nil {
		if t, ok := x.Selection.(*Query_Temporal); ok {
			return t.Temporal
		}
	}
	return nil
}
