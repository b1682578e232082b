package notes

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewSubmissionNoteRepository(db *bun.DB) repository.Repository[*SubmissionNote] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*SubmissionNote]{
		NewRecord: func() *SubmissionNote { return &SubmissionNote{} },
		GetID: func(n *SubmissionNote) uuid.UUID {
			return n.ID
		},
		SetID: func(n *SubmissionNote, id uuid.UUID) {
			n.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(n *SubmissionNote) string {
			if n == nil {
				return ""
			}
			return n.ID.String()
		},
	})
}
