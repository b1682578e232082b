package domain

import "strings"

// Status represents persisted lifecycle states for marketplace entities. It is
// the simplified column exposed to listing/search pages, kept in lockstep with
// the submission status by the workflow engine.
type Status string

const (
	// StatusDraft indicates an entity still under preparation
	StatusDraft Status = "draft"
	// StatusPublished identifies an entity available to consumers
	StatusPublished Status = "published"
	// StatusArchived marks an entity that is retained for history but not publicly visible
	StatusArchived Status = "archived"
)

// EntityKind identifies a publishable entity family routed through the
// submission workflow.
type EntityKind string

const (
	KindListing  EntityKind = "listing"
	KindProject  EntityKind = "project"
	KindCampaign EntityKind = "ad_campaign"
	KindMedia    EntityKind = "media"
)

// EntityKinds lists the entity families registered with the workflow engine.
func EntityKinds() []EntityKind {
	return []EntityKind{KindListing, KindProject, KindCampaign, KindMedia}
}

// ParseEntityKind normalizes free text into a known entity kind.
func ParseEntityKind(input string) (EntityKind, bool) {
	kind := EntityKind(strings.ToLower(strings.TrimSpace(input)))
	switch kind {
	case KindListing, KindProject, KindCampaign, KindMedia:
		return kind, true
	default:
		return "", false
	}
}
