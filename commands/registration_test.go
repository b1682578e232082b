package commands

import (
	"context"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/google/uuid"

	submissioncmd "github.com/goliatone/go-marketplace/internal/commands/submissions"
	"github.com/goliatone/go-marketplace/internal/di"
	"github.com/goliatone/go-marketplace/internal/listings"
	"github.com/goliatone/go-marketplace/internal/runtimeconfig"
)

func memoryConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "memory"
	cfg.Cache.Enabled = false
	cfg.Features.AdvancedCache = false
	cfg.Logging.Provider = "noop"
	return cfg
}

type recordingRegistry struct {
	handlers []any
	err      error
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestRegisterContainerCommandsBuildsHandlers(t *testing.T) {
	container, err := di.NewContainer(memoryConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	registry := &recordingRegistry{}
	result, err := RegisterContainerCommands(container, RegistrationOptions{Registry: registry})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}

	if len(result.Handlers) != 2 {
		t.Fatalf("expected transition and note handlers, got %d", len(result.Handlers))
	}
	if len(registry.handlers) != len(result.Handlers) {
		t.Fatalf("expected registry to record all handlers, got %d of %d", len(registry.handlers), len(result.Handlers))
	}
	if len(result.Subscriptions) != 0 {
		t.Fatalf("expected no dispatcher subscriptions without auto-register, got %d", len(result.Subscriptions))
	}

	var foundTransition, foundNote bool
	for _, handler := range result.Handlers {
		switch handler.(type) {
		case *submissioncmd.TransitionSubmissionHandler:
			foundTransition = true
		case *submissioncmd.AppendSubmissionNoteHandler:
			foundNote = true
		}
	}
	if !foundTransition || !foundNote {
		t.Fatalf("expected both handler types, got transition=%v note=%v", foundTransition, foundNote)
	}
}

func TestRegisterContainerCommandsSkipsDisabledLayer(t *testing.T) {
	cfg := memoryConfig()
	cfg.Commands.Enabled = false

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) != 0 {
		t.Fatalf("expected no handlers when command layer is disabled, got %d", len(result.Handlers))
	}
}

func TestRegisterContainerCommandsSkipsNoteHandlerWithoutNotes(t *testing.T) {
	cfg := memoryConfig()
	cfg.Features.Notes = false

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	if len(result.Handlers) != 1 {
		t.Fatalf("expected only the transition handler, got %d", len(result.Handlers))
	}
	if _, ok := result.Handlers[0].(*submissioncmd.TransitionSubmissionHandler); !ok {
		t.Fatalf("expected transition handler, got %T", result.Handlers[0])
	}
}

func TestRegisterContainerCommandsAutoRegistersDispatcher(t *testing.T) {
	t.Cleanup(dispatcher.Reset)

	cfg := memoryConfig()
	cfg.Commands.AutoRegisterDispatcher = true

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := RegisterContainerCommands(container, RegistrationOptions{})
	if err != nil {
		t.Fatalf("register commands: %v", err)
	}
	t.Cleanup(result.Unsubscribe)

	if len(result.Subscriptions) != len(result.Handlers) {
		t.Fatalf("expected a subscription per handler, got %d of %d", len(result.Subscriptions), len(result.Handlers))
	}

	ctx := context.Background()
	owner := uuid.New()
	listing, err := container.ListingService().Create(ctx, listings.CreateListingRequest{
		OwnerID:      owner,
		Title:        "Dispatcher Test 3BR",
		PropertyType: "apartment",
		Purpose:      "sale",
		Price:        3_100_000,
	})
	if err != nil {
		t.Fatalf("create listing: %v", err)
	}

	err = dispatcher.Dispatch(ctx, submissioncmd.TransitionSubmissionCommand{
		EntityKind: "listing",
		EntityID:   listing.ID,
		Target:     "submitted",
		ActorID:    owner,
		ActorRole:  "developer",
	})
	if err != nil {
		t.Fatalf("dispatch transition: %v", err)
	}

	reloaded, err := container.ListingRepository().GetByID(ctx, listing.ID)
	if err != nil {
		t.Fatalf("reload listing: %v", err)
	}
	if reloaded.SubmissionStatus != "submitted" {
		t.Fatalf("expected submitted after dispatch, got %q", reloaded.SubmissionStatus)
	}
}
