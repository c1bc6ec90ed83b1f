package embedstore

import (
	"strings"

	"github.com/google/uuid"
)

// uuidStringLen is the fixed length of uuid.UUID.String()'s output.
const uuidStringLen = 36

// splitKey splits a \x00-delimited bbolt key into its domain/edition/root
// parts. The root component may be followed by the \x00 that ends the stream
// prefix and a raw 4-byte sequence number (appended by eventKey), so it is
// truncated to uuidStringLen.
func splitKey(k []byte, n int) []string {
	parts := strings.SplitN(string(k), "\x00", n)
	if len(parts) < n {
		return parts
	}
	if len(parts[n-1]) > uuidStringLen {
		parts[n-1] = parts[n-1][:uuidStringLen]
	}
	return parts
}

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}
