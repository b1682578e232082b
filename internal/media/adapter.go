package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// Adapter exposes media assets to the workflow engine.
type Adapter struct {
	assets AssetRepository
}

func NewAdapter(assets AssetRepository) *Adapter {
	return &Adapter{assets: assets}
}

var _ interfaces.SubmissionAdapter = (*Adapter)(nil)

func (a *Adapter) Load(ctx context.Context, id uuid.UUID) (*interfaces.SubmissionRecord, error) {
	record, err := a.assets.GetByID(ctx, id)
	if err != nil {
		return nil, mapAdapterError(err, id)
	}
	return submissionRecord(record), nil
}

func (a *Adapter) ApplyTransition(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*interfaces.SubmissionRecord, error) {
	record, err := a.assets.ApplySubmission(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrSubmissionStale) {
			return nil, fmt.Errorf("%w: media asset %s", workflow.ErrConflict, id)
		}
		return nil, mapAdapterError(err, id)
	}
	return submissionRecord(record), nil
}

func (a *Adapter) EditableFields(ctx context.Context, id uuid.UUID) (map[string]any, error) {
	record, err := a.assets.GetByID(ctx, id)
	if err != nil {
		return nil, mapAdapterError(err, id)
	}
	return record.EditableFieldMap(), nil
}

func mapAdapterError(err error, id uuid.UUID) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: media asset %s", workflow.ErrNotFound, id)
	}
	return err
}

func submissionRecord(a *Asset) *interfaces.SubmissionRecord {
	status := domain.SubmissionStatus(a.SubmissionStatus)
	return &interfaces.SubmissionRecord{
		EntityKind:  "media",
		EntityID:    a.ID,
		Status:      interfaces.SubmissionStatus(a.SubmissionStatus),
		Projection:  string(domain.ProjectionFor(status)),
		OwnerID:     a.OwnerID,
		SubmittedAt: a.SubmittedAt,
		ReviewedAt:  a.ReviewedAt,
		ApprovedAt:  a.ApprovedAt,
		PublishedAt: a.PublishedAt,
		ArchivedAt:  a.ArchivedAt,
		Payload:     a.SubmissionPayload,
	}
}
