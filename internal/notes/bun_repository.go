package notes

import (
	"context"
	"fmt"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunNoteRepository struct {
	db   *bun.DB
	repo repository.Repository[*SubmissionNote]
}

func NewBunNoteRepository(db *bun.DB) *BunNoteRepository {
	return &BunNoteRepository{db: db, repo: NewSubmissionNoteRepository(db)}
}

func (r *BunNoteRepository) Create(ctx context.Context, record *SubmissionNote) (*SubmissionNote, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("submission note repository error: %w", err)
	}
	return created, nil
}

func (r *BunNoteRepository) ListForEntity(ctx context.Context, entityKind string, entityID uuid.UUID) ([]*SubmissionNote, error) {
	var records []*SubmissionNote
	err := r.db.NewSelect().
		Model(&records).
		Where("entity_kind = ?", entityKind).
		Where("entity_id = ?", entityID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("submission note repository error: %w", err)
	}
	return records, nil
}

func (r *BunNoteRepository) ListRecent(ctx context.Context, limit int) ([]*SubmissionNote, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []*SubmissionNote
	err := r.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("submission note repository error: %w", err)
	}
	return records, nil
}
