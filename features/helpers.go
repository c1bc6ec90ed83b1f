package features

import (
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/angzarr-io/angzarr/internal/model"
	"github.com/angzarr-io/angzarr/internal/pb"
)

// mustAny packs an int64 payload as a protobuf Any, standing in for an
// opaque domain event/command body these scenarios never need to decode.
func mustAny(n int64) *anypb.Any {
	a, err := anypb.New(wrapperspb.Int64(n))
	if err != nil {
		panic(err)
	}
	return a
}

func newCover(domain, correlationID string) *pb.Cover {
	return model.NewCover(domain, uuid.New(), correlationID)
}

// unpackInt64 reverses mustAny, for steps that need to tell which synthetic
// source produced a given page.
func unpackInt64(a *anypb.Any) int64 {
	var w wrapperspb.Int64Value
	if err := a.UnmarshalTo(&w); err != nil {
		panic(err)
	}
	return w.Value
}
