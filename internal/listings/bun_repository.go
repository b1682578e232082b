package listings

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

type BunListingRepository struct {
	db           *bun.DB
	repo         repository.Repository[*Listing]
	cacheService cache.CacheService
	cachePrefix  string
	now          func() time.Time
}

const listingNamespace = "listing"

func NewBunListingRepository(db *bun.DB) *BunListingRepository {
	return NewBunListingRepositoryWithCache(db, nil, nil)
}

func NewBunListingRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunListingRepository {
	base := NewListingRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	r := &BunListingRepository{db: db, repo: wrapped, now: time.Now}
	if cacheService != nil && keySerializer != nil {
		r.cacheService = cacheService
		r.cachePrefix = cachePrefix(listingNamespace)
	}
	return r
}

// invalidateCache evicts every cached listing entry. Raw bun writes bypass the
// repository cache decorator, so they must evict before any re-read.
func (r *BunListingRepository) invalidateCache(ctx context.Context) error {
	if r.cacheService == nil || r.cachePrefix == "" {
		return nil
	}
	return r.cacheService.DeleteByPrefix(ctx, r.cachePrefix)
}

func (r *BunListingRepository) Create(ctx context.Context, record *Listing) (*Listing, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "listing", id.String())
	}
	return result, nil
}

func (r *BunListingRepository) GetBySlug(ctx context.Context, slugValue string) (*Listing, error) {
	result, err := r.repo.GetByIdentifier(ctx, slugValue)
	if err != nil {
		return nil, mapRepositoryError(err, "listing", slugValue)
	}
	return result, nil
}

func (r *BunListingRepository) List(ctx context.Context) ([]*Listing, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunListingRepository) Update(ctx context.Context, record *Listing) (*Listing, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "listing", record.ID.String())
	}
	return updated, nil
}

func (r *BunListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	now := r.now()
	res, err := r.db.NewUpdate().
		Model((*Listing)(nil)).
		Set("deleted_at = ?", now).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("listing repository error: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return &NotFoundError{Resource: "listing", Key: id.String()}
	}
	if err := r.invalidateCache(ctx); err != nil {
		return fmt.Errorf("listing repository error: %w", err)
	}
	return nil
}

// ApplySubmission performs the single conditional write for a workflow
// transition. The status condition makes concurrent transitions lose cleanly
// instead of overwriting each other.
func (r *BunListingRepository) ApplySubmission(ctx context.Context, id uuid.UUID, update interfaces.SubmissionUpdate) (*Listing, error) {
	now := r.now()

	query := r.db.NewUpdate().
		Model((*Listing)(nil)).
		Set("submission_status = ?", string(update.Status)).
		Set("status = ?", update.Projection).
		Set("updated_at = ?", now).
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
			return nil, fmt.Errorf("listing repository error: %w", err)
		}
		query = query.Set("submission_payload = ?", string(payload))
	}

	res, err := query.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing repository error: %w", err)
	}
	if err := r.invalidateCache(ctx); err != nil {
		return nil, fmt.Errorf("listing repository error: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("listing repository error: %w", err)
	}
	if rows == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrSubmissionStale
	}

	return r.GetByID(ctx, id)
}

func (r *BunListingRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `bun:"submission_status"`
		Count  int    `bun:"count"`
	}
	err := r.db.NewSelect().
		Model((*Listing)(nil)).
		ColumnExpr("submission_status").
		ColumnExpr("count(*) AS count").
		Where("deleted_at IS NULL").
		Group("submission_status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("listing repository error: %w", err)
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
