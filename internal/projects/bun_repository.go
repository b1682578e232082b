package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunProjectRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Project]
	cacheService cache.CacheService
	cachePrefix  string
	now          func() time.Time
}

const projectNamespace = "project"

func NewBunProjectRepository(db *bun.DB) *BunProjectRepository {
	return NewBunProjectRepositoryWithCache(db, nil, nil)
}

func NewBunProjectRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunProjectRepository {
	base := NewProjectRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	r := &BunProjectRepository{db: db, repo: wrapped, now: time.Now}
	if cacheService != nil && keySerializer != nil {
		r.cacheService = cacheService
		r.cachePrefix = cachePrefix(projectNamespace)
	}
	return r
}

// invalidateCache evicts every cached project entry. Raw bun writes bypass
// the repository cache decorator, so they must evict before any re-read.
func (r *BunProjectRepository) invalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func (r *BunProjectRepository) Create(ctx context.Context, record *Project) (*Project, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "project", id.String())
	}
	return result, nil
}

func (r *BunProjectRepository) GetBySlug(ctx context.Context, slugValue string) (*Project, error) {
	result, err := r.repo.GetByIdentifier(ctx, slugValue)
	if err != nil {
		return nil, mapRepositoryError(err, "project", slugValue)
	}
	return result, nil
}

func (r *BunProjectRepository) List(ctx context.Context) ([]*Project, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunProjectRepository) Update(ctx context.Context, record *Project) (*Project, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "project", record.ID.String())
	}
	return updated, nil
}

func (r *BunProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewUpdate().
		Model((*Project)(nil)).
		Set("deleted_at = ?", r.now()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("project repository error: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return &NotFoundError{Resource: "project", Key: id.String()}
	}
	if err := r.invalidateCache(ctx); err != nil {
		return fmt.Errorf("project repository error: %w", err)
	}
	return nil
}

func (r *BunProjectRepository) ApplySubmission(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Project, error) {
	query := r.db.NewUpdate().
		Model((*Project)(nil)).
		Set("submission_status = ?", string(update.Status)).
		Set("updated_at = ?", r.now()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Where("submission_status = ?", string(update.ExpectedStatus))

	if update.SubmittedAt != nil {
		query = query.Set("submitted_at = ?", update.SubmittedAt)
	}
	if update.ReviewedAt != nil {
		query = query.Set("reviewed_at = ?", update.ReviewedAt)
	}
	if update.ApprovedAt != nil {
		query = query.Set("approved_at = ?", update.ApprovedAt)
	}
	if update.PublishedAt != nil {
		query = query.Set("published_at = ?", update.PublishedAt)
	}
	if update.ArchivedAt != nil {
		query = query.Set("archived_at = ?", update.ArchivedAt)
	}
	if update.Payload != nil {
		payload, err := json.Marshal(update.Payload)
		if err != nil {
			return nil, fmt.Errorf("project repository error: %w", err)
		}
		query = query.Set("submission_payload = ?", string(payload))
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("project repository error: %w", err)
	}
	if err := r.invalidateCache(ctx); err != nil {
		return nil, fmt.Errorf("project repository error: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("project repository error: %w", err)
	}
	if rows == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSubmissionStale
	}

	return r.GetByID(ctx, id)
}

func (r *BunProjectRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `bun:"submission_status"`
		Count  int    `bun:"count"`
	}
	err := r.db.NewSelect().
		Model((*Project)(nil)).
		ColumnExpr("submission_status").
		ColumnExpr("count(*) AS count").
		Where("deleted_at IS NULL").
		Group("submission_status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("project repository error: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
