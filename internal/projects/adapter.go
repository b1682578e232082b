package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// Adapter exposes projects to the workflow engine. Projects have no stored
// projection column, so the projection is derived from the submission status
// on every read.
type Adapter struct {
	projects ProjectRepository
}

func NewAdapter(projects ProjectRepository) *Adapter {
	return &Adapter{projects: projects}
}

var _ interfaces.SubmissionAdapter = (*Adapter)(nil)

func (a *Adapter) Load(ctx context.Context, id uuid.UUID) (*interfaces.SubmissionRecord, error) {
	record, err := a.projects.GetByID(ctx, id)
	if err != nil {
		return nil, mapAdapterError(err, id)
	}
	return submissionRecord(record), nil
}

func (a *Adapter) ApplyTransition(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*interfaces.SubmissionRecord, error) {
	record, err := a.projects.ApplySubmission(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrSubmissionStale) {
			return nil, fmt.Errorf("%w: project %s", workflow.ErrConflict, id)
		}
		return nil, mapAdapterError(err, id)
	}
	return submissionRecord(record), nil
}

func (a *Adapter) EditableFields(ctx context.Context, id uuid.UUID) (map[string]any, error) {
	record, err := a.projects.GetByID(ctx, id)
	if err != nil {
		return nil, mapAdapterError(err, id)
	}
	return record.EditableFieldMap(), nil
}

func mapAdapterError(err error, id uuid.UUID) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: project %s", workflow.ErrNotFound, id)
	}
	return err
}

func submissionRecord(p *Project) *interfaces.SubmissionRecord {
	status := domain.SubmissionStatus(p.SubmissionStatus)
	return &interfaces.SubmissionRecord{
		EntityKind:  "project",
		EntityID:    p.ID,
		Status:      interfaces.SubmissionStatus(p.SubmissionStatus),
		Projection:  string(domain.ProjectionFor(status)),
		OwnerID:     p.OwnerID,
		SubmittedAt: p.SubmittedAt,
		ReviewedAt:  p.ReviewedAt,
		ApprovedAt:  p.ApprovedAt,
		PublishedAt: p.PublishedAt,
		ArchivedAt:  p.ArchivedAt,
		Payload:     p.SubmissionPayload,
	}
}
