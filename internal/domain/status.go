package domain

import "strings"

// SubmissionStatus represents the review lifecycle state of a publishable entity.
type SubmissionStatus string

const (
	// SubmissionDraft indicates the entity is still being prepared by its owner.
	SubmissionDraft SubmissionStatus = "draft"
	// SubmissionSubmitted indicates the owner handed the entity over for review.
	SubmissionSubmitted SubmissionStatus = "submitted"
	// SubmissionUnderReview indicates a reviewer picked the entity up.
	SubmissionUnderReview SubmissionStatus = "under_review"
	// SubmissionNeedsChanges indicates the reviewer sent the entity back to its owner.
	SubmissionNeedsChanges SubmissionStatus = "needs_changes"
	// SubmissionApproved indicates the entity passed review and awaits publication.
	SubmissionApproved SubmissionStatus = "approved"
	// SubmissionPublished indicates the entity is externally visible.
	SubmissionPublished SubmissionStatus = "published"
	// SubmissionArchived marks an entity retained for history only. Terminal.
	SubmissionArchived SubmissionStatus = "archived"
)

// SubmissionStatuses lists every lifecycle state in review order.
func SubmissionStatuses() []SubmissionStatus {
	return []SubmissionStatus{
		SubmissionDraft,
		SubmissionSubmitted,
		SubmissionUnderReview,
		SubmissionNeedsChanges,
		SubmissionApproved,
		SubmissionPublished,
		SubmissionArchived,
	}
}

// ParseSubmissionStatus coerces free text into a known status. The boolean is
// false for anything outside the enumerated lifecycle.
func ParseSubmissionStatus(input string) (SubmissionStatus, bool) {
	status := SubmissionStatus(strings.ToLower(strings.TrimSpace(input)))
	switch status {
	case SubmissionDraft,
		SubmissionSubmitted,
		SubmissionUnderReview,
		SubmissionNeedsChanges,
		SubmissionApproved,
		SubmissionPublished,
		SubmissionArchived:
		return status, true
	default:
		return "", false
	}
}

// Projection is the externally visible status derived from the submission state.
// Only published and archived diverge from the draft-like default.
type Projection string

const (
	ProjectionDraft     Projection = Projection(StatusDraft)
	ProjectionPublished Projection = Projection(StatusPublished)
	ProjectionArchived  Projection = Projection(StatusArchived)
)

// ProjectionFor maps a submission status onto its publish projection.
func ProjectionFor(status SubmissionStatus) Projection {
	switch status {
	case SubmissionPublished:
		return ProjectionPublished
	case SubmissionArchived:
		return ProjectionArchived
	default:
		return ProjectionDraft
	}
}
