package model

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/anypb"
)

// PackAny encodes v (a hand-authored stand-in type with no generated
// protobuf codec, e.g. *pb.RejectionNotification) into an opaque Any whose
// Value carries JSON bytes rather than the protobuf wire format a real
// protoc-gen-go message would produce. The result does leave the process:
// internal/rejection sends a packed RejectionNotification to a handler's
// RejectionService. A receiver reads the Value as JSON (as UnpackAny does);
// a protobuf wire-format decoder cannot read it.
func PackAny(packageName, typeName string, v any) (*anypb.Any, error) {
	value, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("model: pack %s.%s: %w", packageName, typeName, err)
	}
	return &anypb.Any{TypeUrl: TypeURL(packageName, typeName), Value: value}, nil
}

// UnpackAny decodes an Any produced by PackAny back into v.
func UnpackAny(a *anypb.Any, v any) error {
	if a == nil {
		return fmt.Errorf("model: unpack: nil Any")
	}
	if err := json.Unmarshal(a.GetValue(), v); err != nil {
		return fmt.Errorf("model: unpack %s: %w", a.GetTypeUrl(), err)
	}
	return nil
}
