package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// RoleResolver maps an acting identity to its marketplace role. Implementations
// typically read a profile row once per request; the resolved Actor is then
// passed explicitly through the workflow engine.
type RoleResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (Actor, error)
}
