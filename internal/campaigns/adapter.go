package campaigns

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// Adapter exposes campaigns to the workflow engine.
type Adapter struct {
	campaigns CampaignRepository
}

func NewAdapter(campaigns CampaignRepository) *Adapter {
	return &Adapter{campaigns: campaigns}
}

var _ interfaces.SubmissionAdapter = (*Adapter)(nil)

func (a *Adapter) Load(ctx context.Context, id uuid.UUID) (*interfaces.SubmissionRecord, error) {
	record, err := a.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, mapAdapterError(err, id)
	}
	return submissionRecord(record), nil
}

func (a *Adapter) ApplyTransition(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*interfaces.SubmissionRecord, error) {
	record, err := a.campaigns.ApplySubmission(ctx, id, update)
	if err != nil {
		if errors.Is(err, ErrSubmissionStale) {
			return nil, fmt.Errorf("%w: campaign %s", workflow.ErrConflict, id)
		}
		return nil, mapAdapterError(err, id)
	}
	return submissionRecord(record), nil
}

func (a *Adapter) EditableFields(ctx context.Context, id uuid.UUID) (map[string]any, error) {
	record, err := a.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, mapAdapterError(err, id)
	}
	return record.EditableFieldMap(), nil
}

func mapAdapterError(err error, id uuid.UUID) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: campaign %s", workflow.ErrNotFound, id)
	}
	return err
}

func submissionRecord(c *Campaign) *interfaces.SubmissionRecord {
	status := domain.SubmissionStatus(c.SubmissionStatus)
	return &interfaces.SubmissionRecord{
		EntityKind:  "ad_campaign",
		EntityID:    c.ID,
		Status:      interfaces.SubmissionStatus(c.SubmissionStatus),
		Projection:  string(domain.ProjectionFor(status)),
		OwnerID:     c.OwnerID,
		SubmittedAt: c.SubmittedAt,
		ReviewedAt:  c.ReviewedAt,
		ApprovedAt:  c.ApprovedAt,
		PublishedAt: c.PublishedAt,
		ArchivedAt:  c.ArchivedAt,
		Payload:     c.SubmissionPayload,
	}
}
