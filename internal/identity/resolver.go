package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

// ErrUnknownActor is returned when no role is registered for a user.
var ErrUnknownActor = errors.New("identity: unknown actor")

// StaticResolver resolves roles from an in-memory assignment table. Suitable
// for tests and single-tenant deployments where roles are seeded at boot.
type StaticResolver struct {
	mu    sync.RWMutex
	roles map[uuid.UUID]domain.Role
}

var _ interfaces.RoleResolver = (*StaticResolver)(nil)

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{roles: map[uuid.UUID]domain.Role{}}
}

// Assign registers or replaces the role for a user. Unrecognized role names
// are rejected rather than silently downgraded.
func (r *StaticResolver) Assign(userID uuid.UUID, role string) error {
	if userID == uuid.Nil {
		return fmt.Errorf("identity: user id is required")
	}
	parsed := domain.ParseRole(role)
	if parsed == domain.RoleGuest && domain.Role(role) != domain.RoleGuest {
		return fmt.Errorf("identity: invalid role %q", role)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[userID] = parsed
	return nil
}

func (r *StaticResolver) Resolve(_ context.Context, userID uuid.UUID) (interfaces.Actor, error) {
	r.mu.RLock()
	role, ok := r.roles[userID]
	r.mu.RUnlock()
	if !ok {
		return interfaces.Actor{}, fmt.Errorf("%w: %s", ErrUnknownActor, userID)
	}
	return interfaces.Actor{ID: userID, Role: string(role)}, nil
}

// ProfileStore loads the stored role for a user. The campaigns and listings
// services never call this directly; the resolver caches nothing so stores
// may apply their own caching policy.
type ProfileStore interface {
	RoleFor(ctx context.Context, userID uuid.UUID) (string, error)
}

// ProfileResolver resolves roles by reading a profile store, falling back to
// a default role when the store has no assignment.
type ProfileResolver struct {
	store    ProfileStore
	fallback domain.Role
}

var _ interfaces.RoleResolver = (*ProfileResolver)(nil)

// NewProfileResolver builds a resolver over store. When fallback is empty,
// unassigned users resolve with ErrUnknownActor instead of a default role.
func NewProfileResolver(store ProfileStore, fallback string) *ProfileResolver {
	r := &ProfileResolver{store: store}
	if fallback != "" {
		r.fallback = domain.ParseRole(fallback)
	}
	return r
}

func (r *ProfileResolver) Resolve(ctx context.Context, userID uuid.UUID) (interfaces.Actor, error) {
	if userID == uuid.Nil {
		return interfaces.Actor{}, fmt.Errorf("%w: nil user id", ErrUnknownActor)
	}

	raw, err := r.store.RoleFor(ctx, userID)
	if err != nil {
		return interfaces.Actor{}, fmt.Errorf("identity: resolve role: %w", err)
	}

	role := r.fallback
	if raw != "" {
		role = domain.ParseRole(raw)
	}
	if role == "" {
		return interfaces.Actor{}, fmt.Errorf("%w: %s", ErrUnknownActor, userID)
	}
	return interfaces.Actor{ID: userID, Role: string(role)}, nil
}
