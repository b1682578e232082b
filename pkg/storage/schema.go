package storage

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-marketplace/internal/activity"
	"github.com/goliatone/go-marketplace/internal/campaigns"
	"github.com/goliatone/go-marketplace/internal/listings"
	"github.com/goliatone/go-marketplace/internal/media"
	"github.com/goliatone/go-marketplace/internal/notes"
	"github.com/goliatone/go-marketplace/internal/projects"
)

// Models lists every bun model the marketplace persists, in creation order.
func Models() []any {
	return []any{
		(*projects.Project)(nil),
		(*listings.Listing)(nil),
		(*campaigns.Campaign)(nil),
		(*media.Asset)(nil),
		(*notes.SubmissionNote)(nil),
		(*activity.AuditLog)(nil),
	}
}

// CreateSchema creates every marketplace table when it does not already
// exist. Hosts running a real migration pipeline should use the embedded SQL
// migrations instead.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table %T: %w", model, err)
		}
	}
	return nil
}
