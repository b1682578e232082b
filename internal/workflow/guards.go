package workflow

import (
	"fmt"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

// Guard rule names referenced by workflow transition definitions.
const (
	GuardSubmitter = "submitter"
	GuardReviewer  = "reviewer"
	GuardPublisher = "publisher"
	GuardArchiver  = "archiver"
)

// GuardEvaluator decides whether an actor may take a structurally valid
// transition. Structural validity is the table's job; the evaluator only
// answers the authorization question.
type GuardEvaluator struct{}

// NewGuardEvaluator constructs the default rule set.
func NewGuardEvaluator() *GuardEvaluator {
	return &GuardEvaluator{}
}

// Authorize evaluates the named guard for the actor against the loaded record.
// A nil return authorizes the transition; ErrForbidden rejects it.
func (g *GuardEvaluator) Authorize(guard string, actor interfaces.Actor, record *interfaces.SubmissionRecord) error {
	role := domain.ParseRole(actor.Role)
	kind := domain.EntityKind(record.EntityKind)

	switch guard {
	case GuardPublisher:
		if role.IsPublisher() {
			return nil
		}
		return fmt.Errorf("%w: role %s cannot publish", ErrForbidden, role)

	case GuardArchiver:
		if role.IsPublisher() {
			return nil
		}
		// Resale inventory is archived by the staff tool; portal-owned
		// entities require an admin.
		if kind == domain.KindListing && role.IsStaffside() {
			return nil
		}
		return fmt.Errorf("%w: role %s cannot archive %s", ErrForbidden, role, kind)

	case GuardSubmitter:
		if role.IsPublisher() {
			return nil
		}
		if role == domain.RoleGuest {
			return fmt.Errorf("%w: guests cannot submit", ErrForbidden)
		}
		if actor.ID != record.OwnerID {
			return fmt.Errorf("%w: only the owning actor may submit", ErrForbidden)
		}
		return nil

	case GuardReviewer:
		if !role.IsReviewer() {
			return fmt.Errorf("%w: role %s cannot review", ErrForbidden, role)
		}
		// The originating owner never reviews their own submission; admins
		// and owners short-circuit review states elsewhere, so the rule only
		// bites ops/staff reviewers.
		if actor.ID == record.OwnerID && !role.IsPublisher() {
			return fmt.Errorf("%w: owners cannot review their own submission", ErrForbidden)
		}
		return nil

	case "":
		return nil

	default:
		return fmt.Errorf("%w: unknown guard %q", ErrForbidden, guard)
	}
}

// EditableBy reports whether the actor may modify the entity's fields in its
// current state. Ownership editing is confined to draft and needs_changes;
// admins and owners are exempt so they can correct records on a user's behalf.
func EditableBy(actor interfaces.Actor, record *interfaces.SubmissionRecord) bool {
	role := domain.ParseRole(actor.Role)
	if role.IsPublisher() {
		return true
	}
	if actor.ID != record.OwnerID {
		return false
	}
	status := domain.SubmissionStatus(record.Status)
	return status == domain.SubmissionDraft || status == domain.SubmissionNeedsChanges
}
