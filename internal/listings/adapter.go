package listings

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// Adapter exposes listings to the workflow engine as submission records.
type Adapter struct {
	listings ListingRepository
}

// NewAdapter constructs the workflow adapter for listings.
func NewAdapter(listings ListingRepository) *Adapter {
	return &Adapter{listings: listings}
}

var _ interfaces.SubmissionAdapter = (*Adapter)(nil)

func (a *Adapter) Load(ctx context.Context, id uuid.UUID) (*interfaces.SubmissionRecord, error) {
	record, err := a.listings.GetByID(ctx, id)
	if err != nil {
		return nil, mapAdapterError(err, id)
	}
	return submissionRecord(record), nil
}

func (a *Adapter) ApplyTransition(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*interfaces.SubmissionRecord, error) {
	record, err := a.listings.ApplySubmission(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrSubmissionStale) {
			return nil, fmt.Errorf("%w: listing %s", workflow.ErrConflict, id)
		}
		return nil, mapAdapterError(err, id)
	}
	return submissionRecord(record), nil
}

func (a *Adapter) EditableFields(ctx context.Context, id uuid.UUID) (map[string]any, error) {
	record, err := a.listings.GetByID(ctx, id)
	if err != nil {
		return nil, mapAdapterError(err, id)
	}
	return record.EditableFieldMap(), nil
}

func mapAdapterError(err error, id uuid.UUID) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: listing %s", workflow.ErrNotFound, id)
	}
	return err
}

func submissionRecord(l *Listing) *interfaces.SubmissionRecord {
	return &interfaces.SubmissionRecord{
		EntityKind:  "listing",
		EntityID:    l.ID,
		Status:      interfaces.SubmissionStatus(l.SubmissionStatus),
		Projection:  l.Status,
		OwnerID:     l.OwnerID,
		SubmittedAt: l.SubmittedAt,
		ReviewedAt:  l.ReviewedAt,
		ApprovedAt:  l.ApprovedAt,
		PublishedAt: l.PublishedAt,
		ArchivedAt:  l.ArchivedAt,
		Payload:     l.SubmissionPayload,
	}
}
