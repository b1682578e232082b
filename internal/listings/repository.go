package listings

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewListingRepository(db *bun.DB) repository.Repository[*Listing] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Listing]{
		NewRecord: func() *Listing { return &Listing{} },
		GetID: func(l *Listing) uuid.UUID {
			return l.ID
		},
		SetID: func(l *Listing, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(l *Listing) string {
			return l.Slug
		},
	})
}
