package media

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

type BunAssetRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Asset]
	cacheService cache.CacheService
	cachePrefix  string
	now          func() time.Time
}

const assetNamespace = "asset"

func NewBunAssetRepository(db *bun.DB) *BunAssetRepository {
	return NewBunAssetRepositoryWithCache(db, nil, nil)
}

func NewBunAssetRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunAssetRepository {
	base := NewAssetRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	r := &BunAssetRepository{db: db, repo: wrapped, now: time.Now}
	if cacheService != nil && keySerializer != nil {
		r.cacheService = cacheService
		r.cachePrefix = cachePrefix(assetNamespace)
	}
	return r
}

// invalidateCache evicts every cached asset entry. Raw bun writes bypass the
// repository cache decorator, so they must evict before any re-read.
func (r *BunAssetRepository) invalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func (r *BunAssetRepository) Create(ctx context.Context, record *Asset) (*Asset, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunAssetRepository) GetByID(ctx context.Context, id uuid.UUID) (*Asset, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "media asset", id.String())
	}
	return result, nil
}

func (r *BunAssetRepository) ListForEntity(ctx context.Context, entityKind string, entityID uuid.UUID) ([]*Asset, error) {
	var records []*Asset
	err := r.db.NewSelect().
		Model(&records).
		Where("entity_kind = ?", entityKind).
		Where("entity_id = ?", entityID).
		Where("deleted_at IS NULL").
		Order("position ASC", "created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("media asset repository error: %w", err)
	}
	return records, nil
}

func (r *BunAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewUpdate().
		Model((*Asset)(nil)).
		Set("deleted_at = ?", r.now()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("media asset repository error: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return &NotFoundError{Resource: "media asset", Key: id.String()}
	}
	if err := r.invalidateCache(ctx); err != nil {
		return fmt.Errorf("media asset repository error: %w", err)
	}
	return nil
}

func (r *BunAssetRepository) ApplySubmission(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Asset, error) {
	query := r.db.NewUpdate().
		Model((*Asset)(nil)).
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
			return nil, fmt.Errorf("media asset repository error: %w", err)
		}
		query = query.Set("submission_payload = ?", string(payload))
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("media asset repository error: %w", err)
	}
	if err := r.invalidateCache(ctx); err != nil {
		return nil, fmt.Errorf("media asset repository error: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("media asset repository error: %w", err)
	}
	if rows == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSubmissionStale
	}

	return r.GetByID(ctx, id)
}

func (r *BunAssetRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `bun:"submission_status"`
		Count  int    `bun:"count"`
	}
	err := r.db.NewSelect().
		Model((*Asset)(nil)).
		ColumnExpr("submission_status").
		ColumnExpr("count(*) AS count").
		Where("deleted_at IS NULL").
		Group("submission_status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("media asset repository error: %w", err)
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
