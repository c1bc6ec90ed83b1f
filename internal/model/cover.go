// Package model implements the Identifier & Book value types (§4.1): Cover,
// Edition and UUID helpers, plus the construction/ingress invariant checks
// every book must satisfy.
package model

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angzarr-io/angzarr/internal/pb"
)

const (
	UnknownDomain          = "unknown"
	WildcardDomain         = "*"
	DefaultEdition         = "angzarr"
	MetaAngzarrDomain      = "_angzarr"
	ProjectionDomainPrefix = "projection:"
	TypeURLPrefix          = "type.googleapis.com/"
)

// CoverOf extracts the Cover from the book types that carry one.
func CoverOf(v any) *pb.Cover {
	switch t := v.(type) {
	case *pb.EventBook:
		return t.GetCover()
	case *pb.CommandBook:
		return t.GetCover()
	case *pb.Query:
		return t.GetCover()
	case *pb.Cover:
		return t
	default:
		return nil
	}
}

// Domain returns the domain of a Cover-bearing value, or UnknownDomain if missing.
func Domain(v any) string {
	c := CoverOf(v)
	if c == nil || c.Domain == "" {
		return UnknownDomain
	}
	return c.Domain
}

// Edition returns the edition name of a Cover-bearing value, defaulting to the main timeline.
func Edition(v any) string {
	c := CoverOf(v)
	if c == nil || c.GetEdition() == nil || c.GetEdition().Name == "" {
		return DefaultEdition
	}
	return c.GetEdition().Name
}

// IsMainTimeline reports whether an edition is the main ("angzarr") timeline.
func IsMainTimeline(e *pb.Edition) bool {
	return e == nil || e.Name == "" || e.Name == DefaultEdition
}

// MainTimeline returns the Edition value representing the main timeline.
func MainTimeline() *pb.Edition {
	return &pb.Edition{Name: DefaultEdition}
}

// ImplicitEdition creates an edition with a name but no recorded divergences;
// the fork's divergence point is discovered from its own writes (§4.5).
func ImplicitEdition(name string) *pb.Edition {
	return &pb.Edition{Name: name}
}

// ExplicitEdition creates an edition whose divergence points are already known.
func ExplicitEdition(name string, divergences []*pb.DomainDivergence) *pb.Edition {
	return &pb.Edition{Name: name, Divergences: divergences}
}

// DivergenceFor returns the explicit divergence sequence for domain, or -1 if unset.
func DivergenceFor(e *pb.Edition, domain string) int64 {
	if e == nil {
		return -1
	}
	for _, d := range e.GetDivergences() {
		if d.GetDomain() == domain {
			return int64(d.GetSequence())
		}
	}
	return -1
}

// RootUUID extracts the root UUID of a Cover-bearing value.
func RootUUID(v any) (uuid.UUID, bool) {
	c := CoverOf(v)
	if c == nil || c.GetRoot() == nil {
		return uuid.UUID{}, false
	}
	u, err := uuid.FromBytes(c.GetRoot().GetValue())
	if err != nil {
		return uuid.UUID{}, false
	}
	return u, true
}

// RootIDHex returns the root UUID as a hex string, or empty if missing.
func RootIDHex(v any) string {
	c := CoverOf(v)
	if c == nil || c.GetRoot() == nil {
		return ""
	}
	return hex.EncodeToString(c.GetRoot().GetValue())
}

// CacheKey computes a storage/cache key for a Cover-bearing value.
func CacheKey(v any) string {
	c := CoverOf(v)
	if c == nil {
		return fmt.Sprintf("%s:%s:%s", UnknownDomain, DefaultEdition, "")
	}
	return fmt.Sprintf("%s:%s:%s", Domain(v), Edition(v), RootIDHex(v))
}

// UUIDToProto converts a uuid.UUID to its wire representation.
func UUIDToProto(u uuid.UUID) *pb.UUID {
	value := make([]byte, 16)
	copy(value, u[:])
	return &pb.UUID{Value: value}
}

// ProtoToUUID converts a wire UUID back to uuid.UUID.
func ProtoToUUID(u *pb.UUID) (uuid.UUID, error) {
	if u == nil {
		return uuid.UUID{}, fmt.Errorf("model: nil UUID")
	}
	return uuid.FromBytes(u.GetValue())
}

// NewCover builds a Cover on the main timeline.
func NewCover(domain string, root uuid.UUID, correlationID string) *pb.Cover {
	return &pb.Cover{
		Domain:        domain,
		Root:          UUIDToProto(root),
		CorrelationId: correlationID,
	}
}

// NewCoverWithEdition builds a Cover on a named edition.
func NewCoverWithEdition(domain string, root uuid.UUID, correlationID string, edition *pb.Edition) *pb.Cover {
	c := NewCover(domain, root, correlationID)
	c.Edition = edition
	return c
}

// TypeURL constructs a full type URL from a package and message name.
func TypeURL(packageName, typeName string) string {
	return TypeURLPrefix + packageName + "." + typeName
}

// TypeNameFromURL extracts the bare message name from a type URL.
func TypeNameFromURL(typeURL string) string {
	if idx := strings.LastIndex(typeURL, "."); idx >= 0 {
		return typeURL[idx+1:]
	}
	if idx := strings.LastIndex(typeURL, "/"); idx >= 0 {
		return typeURL[idx+1:]
	}
	return typeURL
}

// TypeURLMatches reports whether a type URL ends with the given suffix.
func TypeURLMatches(typeURL, suffix string) bool {
	return strings.HasSuffix(typeURL, suffix)
}
