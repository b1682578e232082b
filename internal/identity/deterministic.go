package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ListingUUID derives a stable identifier for an imported listing keyed by its
// external reference.
func ListingUUID(externalRef string) uuid.UUID {
	return UUID("marketplace:listing:" + strings.ToLower(strings.TrimSpace(externalRef)))
}

// ProjectUUID derives a stable identifier for an imported project.
func ProjectUUID(slug string) uuid.UUID {
	return UUID("marketplace:project:" + strings.ToLower(strings.TrimSpace(slug)))
}

// CampaignUUID derives a stable identifier for an imported campaign.
func CampaignUUID(externalRef string) uuid.UUID {
	return UUID("marketplace:campaign:" + strings.ToLower(strings.TrimSpace(externalRef)))
}

// UserUUID derives a stable identifier for a user keyed by their account reference.
func UserUUID(accountRef string) uuid.UUID {
	return UUID("marketplace:user:" + strings.ToLower(strings.TrimSpace(accountRef)))
}
