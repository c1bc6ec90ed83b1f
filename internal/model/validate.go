package model

import (
	"fmt"

	"github.com/angzarr-io/angzarr/internal/errs"
	"github.com/angzarr-io/angzarr/internal/pb"
)

// ValidateCover enforces §4.1's construction invariants: non-empty domain,
// well-formed root. Editions are validated separately since knowing whether
// one is "declared" requires store access.
func ValidateCover(c *pb.Cover) error {
	if c == nil {
		return errs.InvalidArgument("cover is required")
	}
	if c.GetDomain() == "" {
		return errs.InvalidArgument("cover.domain must not be empty")
	}
	if c.GetRoot() == nil || len(c.GetRoot().GetValue()) != 16 {
		return errs.InvalidArgument("cover.root must be a 16-byte UUID")
	}
	if c.GetCorrelationId() == "" {
		return errs.InvalidArgument("cover.correlation_id must not be empty")
	}
	return nil
}

// ValidateEventBookSequencing enforces the EventBook invariants from §3:
// pages ordered by ascending sequence, strictly monotonic and contiguous,
// and — when a snapshot is present — the first page continues immediately
// after it.
func ValidateEventBookSequencing(book *pb.EventBook) error {
	if book == nil {
		return errs.InvalidArgument("event book is required")
	}
	pages := book.GetPages()
	expected := uint32(0)
	if snap := book.GetSnapshot(); snap != nil {
		expected = snap.GetSequence() + 1
	}
	for i, page := range pages {
		if page.GetSequence() != expected {
			return errs.Internal(fmt.Sprintf(
				"non-contiguous event sequence at page %d: got %d, want %d",
				i, page.GetSequence(), expected))
		}
		if page.GetEvent() == nil {
			return errs.InvalidArgument(fmt.Sprintf("event page %d has no payload", i))
		}
		expected++
	}
	return nil
}

// ValidateCommandBook checks that a CommandBook is structurally sound:
// a Cover, at least one page, and non-nil command payloads.
func ValidateCommandBook(book *pb.CommandBook) error {
	if book == nil {
		return errs.InvalidArgument("command book is required")
	}
	if err := ValidateCover(book.GetCover()); err != nil {
		return err
	}
	if len(book.GetPages()) == 0 {
		return errs.InvalidArgument("command book has no pages")
	}
	for i, page := range book.GetPages() {
		if page.GetCommand() == nil {
			return errs.InvalidArgument(fmt.Sprintf("command page %d has no payload", i))
		}
	}
	return nil
}

// ValidateHandlerResponse enforces §4.6e: every returned page's sequence must
// equal expected+i, and the cover (domain, root) must match the input cover.
func ValidateHandlerResponse(input *pb.Cover, expectedNext uint32, resp *pb.EventBook) error {
	if resp == nil {
		return errs.Internal("handler returned a nil event book")
	}
	if cover := resp.GetCover(); cover != nil {
		if cover.GetDomain() != input.GetDomain() {
			return errs.Internal("handler response domain does not match request cover")
		}
		inRoot, inOK := RootUUID(input)
		outRoot, outOK := RootUUID(cover)
		if inOK && outOK && inRoot != outRoot {
			return errs.Internal("handler response root does not match request cover")
		}
	}
	for i, page := range resp.GetPages() {
		want := expectedNext + uint32(i)
		if page.GetSequence() != want {
			return errs.Internal(fmt.Sprintf(
				"handler returned non-monotonic sequence at page %d: got %d, want %d",
				i, page.GetSequence(), want))
		}
	}
	return nil
}
