// Package commands exposes the marketplace command handlers to hosts. The
// handlers wrap the workflow engine and submission note service so embedding
// applications can drive transitions from CLIs, queues, or schedulers without
// touching internal packages.
package commands

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"

	internalcmd "github.com/goliatone/go-marketplace/internal/commands"
	submissioncmd "github.com/goliatone/go-marketplace/internal/commands/submissions"
	"github.com/goliatone/go-marketplace/internal/di"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	LoggerProvider interfaces.LoggerProvider
}

// RegistrationResult captures the constructed command handlers and any
// dispatcher subscriptions opened for them.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Unsubscribe tears down every dispatcher subscription in the result.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, subscription := range r.Subscriptions {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
	r.Subscriptions = nil
}

// RegisterContainerCommands builds the command handlers backed by the provided
// container. Handlers are returned for the host to expose however it likes;
// when Commands.AutoRegisterDispatcher is set they are also subscribed to the
// go-command dispatcher so marketplace.submission.* messages dispatch directly.
// The command layer is skipped entirely when Commands.Enabled is false.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}
	if container == nil {
		return result, nil
	}

	cfg := container.Config
	if !cfg.Commands.Enabled {
		return result, nil
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}
	logger := internalcmd.CommandLogger(provider, "submissions")

	var errs error
	record := func(handler any, subscription dispatcher.Subscription) {
		result.Handlers = append(result.Handlers, handler)
		if subscription != nil {
			result.Subscriptions = append(result.Subscriptions, subscription)
		}
		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
	}

	if engine := container.WorkflowEngine(); engine != nil {
		handler := submissioncmd.NewTransitionSubmissionHandler(engine, logger)
		var subscription dispatcher.Subscription
		if cfg.Commands.AutoRegisterDispatcher {
			subscription = dispatcher.SubscribeCommand[submissioncmd.TransitionSubmissionCommand](handler)
		}
		record(handler, subscription)
	}

	if service := container.NoteService(); service != nil {
		handler := submissioncmd.NewAppendSubmissionNoteHandler(service, logger)
		var subscription dispatcher.Subscription
		if cfg.Commands.AutoRegisterDispatcher {
			subscription = dispatcher.SubscribeCommand[submissioncmd.AppendSubmissionNoteCommand](handler)
		}
		record(handler, subscription)
	}

	if len(result.Handlers) == 0 {
		if errs != nil {
			return result, errs
		}
		return result, errors.New("commands: no handlers registered; ensure the workflow engine is configured")
	}

	return result, errs
}
