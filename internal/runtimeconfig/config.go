package runtimeconfig

import (
	"errors"
	"strings"
	"time"
)

// ErrLoggingProviderRequired ensures a provider is named when logging is enabled.
var ErrLoggingProviderRequired = errors.New("marketplace config: logging provider is required when logging feature is enabled")

var ErrLoggingProviderUnknown = errors.New("marketplace config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("marketplace config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("marketplace config: logging format is invalid")

// ErrAdvancedCacheRequiresEnabledCache ensures advanced cache builds only when cache is enabled.
var ErrAdvancedCacheRequiresEnabledCache = errors.New("marketplace config: advanced cache feature requires cache to be enabled")

// ErrWorkflowDefinitionsRequired rejects configs that disable the built-in
// submission workflow without declaring a replacement.
var ErrWorkflowDefinitionsRequired = errors.New("marketplace config: workflow requires at least one definition")

var ErrWorkflowProviderUnknown = errors.New("marketplace config: workflow provider is invalid")

// Config aggregates feature flags and adapter bindings for the marketplace module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled  bool
	Storage  StorageConfig
	Cache    CacheConfig
	Features Features
	Logging  LoggingConfig
	Workflow WorkflowConfig
	Commands CommandsConfig
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures cache behaviour toggles for repository reads.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// Features toggles optional modules.
type Features struct {
	Notes             bool
	ReviewQueue       bool
	PayloadValidation bool
	AdvancedCache     bool
	Logger            bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// WorkflowConfig declares the submission workflow definitions compiled into
// the engine at bootstrap.
type WorkflowConfig struct {
	Provider    string
	Definitions []WorkflowDefinitionConfig
}

// WorkflowDefinitionConfig describes the state machine for one entity kind.
type WorkflowDefinitionConfig struct {
	Entity      string
	States      []WorkflowStateConfig
	Transitions []WorkflowTransitionConfig
}

// WorkflowStateConfig declares a single lifecycle state.
type WorkflowStateConfig struct {
	Name        string
	Description string
	Initial     bool
	Terminal    bool
}

// WorkflowTransitionConfig declares an allowed edge between two states. Guard
// names a rule evaluated by the guard evaluator before the edge is taken.
type WorkflowTransitionConfig struct {
	Name        string
	Description string
	From        string
	To          string
	Guard       string
}

// DefaultConfig returns the canonical configuration: the shared submission
// workflow registered for every publishable entity kind, console logging, and
// bun-backed storage.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{
			Provider: "bun",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Features: Features{
			Notes:       true,
			ReviewQueue: true,
			Logger:      true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Workflow: WorkflowConfig{
			Provider:    "table",
			Definitions: DefaultWorkflowDefinitions(),
		},
		Commands: CommandsConfig{
			Enabled: true,
		},
	}
}

// DefaultWorkflowDefinitions declares the submission lifecycle for each entity
// kind. Listings, projects and media share the same table; ad campaigns add a
// pre-draft setup state only their creation flow can leave.
func DefaultWorkflowDefinitions() []WorkflowDefinitionConfig {
	base := func(entity string) WorkflowDefinitionConfig {
		return WorkflowDefinitionConfig{
			Entity: entity,
			States: []WorkflowStateConfig{
				{Name: "draft", Description: "Being prepared by its owner", Initial: true},
				{Name: "submitted", Description: "Handed over for review"},
				{Name: "under_review", Description: "Picked up by a reviewer"},
				{Name: "needs_changes", Description: "Returned to the owner"},
				{Name: "approved", Description: "Cleared for publication"},
				{Name: "published", Description: "Externally visible"},
				{Name: "archived", Description: "Retained for history only", Terminal: true},
			},
			Transitions: []WorkflowTransitionConfig{
				{Name: "submit", From: "draft", To: "submitted", Guard: "submitter"},
				{Name: "start_review", From: "submitted", To: "under_review", Guard: "reviewer"},
				{Name: "request_changes", From: "submitted", To: "needs_changes", Guard: "reviewer"},
				{Name: "approve", From: "submitted", To: "approved", Guard: "reviewer"},
				{Name: "publish", From: "submitted", To: "published", Guard: "publisher"},
				{Name: "archive", From: "submitted", To: "archived", Guard: "archiver"},
				{Name: "request_changes", From: "under_review", To: "needs_changes", Guard: "reviewer"},
				{Name: "approve", From: "under_review", To: "approved", Guard: "reviewer"},
				{Name: "publish", From: "under_review", To: "published", Guard: "publisher"},
				{Name: "archive", From: "under_review", To: "archived", Guard: "archiver"},
				{Name: "resubmit", From: "needs_changes", To: "submitted", Guard: "submitter"},
				{Name: "archive", From: "needs_changes", To: "archived", Guard: "archiver"},
				{Name: "publish", From: "approved", To: "published", Guard: "publisher"},
				{Name: "archive", From: "approved", To: "archived", Guard: "archiver"},
				{Name: "archive", From: "published", To: "archived", Guard: "archiver"},
			},
		}
	}

	campaign := base("ad_campaign")
	campaign.States = append([]WorkflowStateConfig{
		{Name: "pending_setup", Description: "Created but not yet configured", Initial: true},
	}, campaign.States...)
	// New campaigns land in pending_setup, not draft. A table allows exactly
	// one initial state, so the shared draft flag comes off here.
	for i := range campaign.States {
		if campaign.States[i].Name == "draft" {
			campaign.States[i].Initial = false
		}
	}
	campaign.Transitions = append(campaign.Transitions, WorkflowTransitionConfig{
		Name: "activate", From: "pending_setup", To: "draft", Guard: "submitter",
	})

	return []WorkflowDefinitionConfig{
		base("listing"),
		base("project"),
		campaign,
		base("media"),
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}

	if cfg.Features.Logger {
		provider := strings.ToLower(strings.TrimSpace(cfg.Logging.Provider))
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		switch provider {
		case "console", "gologger", "noop":
		default:
			return ErrLoggingProviderUnknown
		}
		switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
		case "", "trace", "debug", "info", "warn", "error", "fatal":
		default:
			return ErrLoggingLevelInvalid
		}
		switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
		case "", "json", "console", "pretty":
		default:
			return ErrLoggingFormatInvalid
		}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Workflow.Provider)) {
	case "", "table":
	default:
		return ErrWorkflowProviderUnknown
	}
	if cfg.Enabled && len(cfg.Workflow.Definitions) == 0 {
		return ErrWorkflowDefinitionsRequired
	}

	return nil
}
