package identity

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Reference codes are the short human-facing identifiers staff read over the
// phone. They are derived from the entity UUID so re-running an import never
// mints a second code for the same unit.

// ListingCode returns the listing reference code, e.g. LST-8F3K2M9Q.
func ListingCode(id uuid.UUID) string {
	return "LST-" + shortCode(id)
}

// UnitCode returns the unit reference code for a listing within a project,
// e.g. UNT-8F3K2M9Q.
func UnitCode(id uuid.UUID) string {
	return "UNT-" + shortCode(id)
}

// CampaignCode returns the campaign reference code, e.g. CMP-8F3K2M9Q.
func CampaignCode(id uuid.UUID) string {
	return "CMP-" + shortCode(id)
}

// shortCode encodes the first eight bytes of the UUID in a base-32 alphabet
// without ambiguous characters (no 0/O, 1/I/L).
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

func shortCode(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}

	value := binary.BigEndian.Uint64(id[:8])
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteByte(codeAlphabet[value%uint64(len(codeAlphabet))])
		value /= uint64(len(codeAlphabet))
	}
	return b.String()
}

// FormatCode validates and normalizes a user-entered reference code.
func FormatCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	parts := strings.SplitN(code, "-", 2)
	if len(parts) != 2 || len(parts[1]) != 8 {
		return "", fmt.Errorf("identity: malformed reference code %q", raw)
	}
	switch parts[0] {
	case "LST", "UNT", "CMP":
	default:
		return "", fmt.Errorf("identity: unknown reference code prefix %q", parts[0])
	}
	for _, r := range parts[1] {
		if !strings.ContainsRune(codeAlphabet, r) {
			return "", fmt.Errorf("identity: invalid reference code character %q", r)
		}
	}
	return code, nil
}
