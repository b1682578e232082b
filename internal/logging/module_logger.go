package logging

import (
	"context"

	"github.com/goliatone/go-marketplace/pkg/interfaces"
)

const (
	rootModule        = "marketplace"
	workflowModule    = "marketplace.workflow"
	listingsModule    = "marketplace.listings"
	projectsModule    = "marketplace.projects"
	campaignsModule   = "marketplace.campaigns"
	mediaModule       = "marketplace.media"
	notesModule       = "marketplace.notes"
	activityModule    = "marketplace.activity"
	reviewQueueModule = "marketplace.reviewqueue"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// WorkflowLogger returns the logger namespace reserved for the workflow engine.
func WorkflowLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, workflowModule)
}

// ListingsLogger returns the logger namespace reserved for listing services.
func ListingsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, listingsModule)
}

// ProjectsLogger returns the logger namespace reserved for project services.
func ProjectsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, projectsModule)
}

// CampaignsLogger returns the logger namespace reserved for ad campaign services.
func CampaignsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, campaignsModule)
}

// MediaLogger returns the logger namespace reserved for media submissions.
func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediaModule)
}

// NotesLogger returns the logger namespace reserved for submission notes.
func NotesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, notesModule)
}

// ActivityLogger returns the logger namespace reserved for the audit sink.
func ActivityLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, activityModule)
}

// ReviewQueueLogger returns the logger namespace reserved for review queue reads.
func ReviewQueueLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, reviewQueueModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
