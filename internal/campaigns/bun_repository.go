package campaigns

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

type BunCampaignRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Campaign]
	cacheService cache.CacheService
	cachePrefix  string
	now          func() time.Time
}

const campaignNamespace = "campaign"

func NewBunCampaignRepository(db *bun.DB) *BunCampaignRepository {
	return NewBunCampaignRepositoryWithCache(db, nil, nil)
}

func NewBunCampaignRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunCampaignRepository {
	base := NewCampaignRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	r := &BunCampaignRepository{db: db, repo: wrapped, now: time.Now}
	if cacheService != nil && keySerializer != nil {
		r.cacheService = cacheService
		r.cachePrefix = cachePrefix(campaignNamespace)
	}
	return r
}

// invalidateCache evicts every cached campaign entry. Raw bun writes bypass
// the repository cache decorator, so they must evict before any re-read.
func (r *BunCampaignRepository) invalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func (r *BunCampaignRepository) Create(ctx context.Context, record *Campaign) (*Campaign, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunCampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "campaign", id.String())
	}
	return result, nil
}

func (r *BunCampaignRepository) List(ctx context.Context) ([]*Campaign, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunCampaignRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Campaign, error) {
	var records []*Campaign
	err := r.db.NewSelect().
		Model(&records).
		Where("owner_id = ?", ownerID).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("campaign repository error: %w", err)
	}
	return records, nil
}

func (r *BunCampaignRepository) Update(ctx context.Context, record *Campaign) (*Campaign, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "campaign", record.ID.String())
	}
	return updated, nil
}

func (r *BunCampaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewUpdate().
		Model((*Campaign)(nil)).
		Set("deleted_at = ?", r.now()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("campaign repository error: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return &NotFoundError{Resource: "campaign", Key: id.String()}
	}
	if err := r.invalidateCache(ctx); err != nil {
		return fmt.Errorf("campaign repository error: %w", err)
	}
	return nil
}

func (r *BunCampaignRepository) ApplySubmission(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Campaign, error) {
	query := r.db.NewUpdate().
		Model((*Campaign)(nil)).
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
			return nil, fmt.Errorf("campaign repository error: %w", err)
		}
		query = query.Set("submission_payload = ?", string(payload))
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("campaign repository error: %w", err)
	}
	if err := r.invalidateCache(ctx); err != nil {
		return nil, fmt.Errorf("campaign repository error: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("campaign repository error: %w", err)
	}
	if rows == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSubmissionStale
	}

	return r.GetByID(ctx, id)
}

func (r *BunCampaignRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `bun:"submission_status"`
		Count  int    `bun:"count"`
	}
	err := r.db.NewSelect().
		Model((*Campaign)(nil)).
		ColumnExpr("submission_status").
		ColumnExpr("count(*) AS count").
		Where("deleted_at IS NULL").
		Group("submission_status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("campaign repository error: %w", err)
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
