package campaigns

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewCampaignRepository(db *bun.DB) repository.Repository[*Campaign] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Campaign]{
		NewRecord: func() *Campaign { return &Campaign{} },
		GetID: func(c *Campaign) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Campaign, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(c *Campaign) string {
			if c == nil {
				return ""
			}
			return c.ID.String()
		},
	})
}
