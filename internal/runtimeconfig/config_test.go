package runtimeconfig

import (
	"errors"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if len(cfg.Workflow.Definitions) != 4 {
		t.Fatalf("expected workflow definitions for all entity kinds, got %d", len(cfg.Workflow.Definitions))
	}
}

func TestValidateRejectsUnknownLoggingProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestValidateRequiresLoggingProviderWhenEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Provider = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestValidateRejectsAdvancedCacheWithoutCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.AdvancedCache = true
	cfg.Cache.Enabled = false
	if err := cfg.Validate(); !errors.Is(err, ErrAdvancedCacheRequiresEnabledCache) {
		t.Fatalf("expected ErrAdvancedCacheRequiresEnabledCache, got %v", err)
	}
}

func TestValidateRequiresWorkflowDefinitions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workflow.Definitions = nil
	if err := cfg.Validate(); !errors.Is(err, ErrWorkflowDefinitionsRequired) {
		t.Fatalf("expected ErrWorkflowDefinitionsRequired, got %v", err)
	}
}

func TestCampaignDefinitionCarriesSetupState(t *testing.T) {
	defs := DefaultWorkflowDefinitions()
	var campaign *WorkflowDefinitionConfig
	for i := range defs {
		if defs[i].Entity == "ad_campaign" {
			campaign = &defs[i]
		}
	}
	if campaign == nil {
		t.Fatalf("expected ad_campaign definition")
	}
	if campaign.States[0].Name != "pending_setup" {
		t.Fatalf("expected pending_setup to lead the campaign states, got %q", campaign.States[0].Name)
	}
	var initials []string
	for _, state := range campaign.States {
		if state.Initial {
			initials = append(initials, state.Name)
		}
	}
	if len(initials) != 1 || initials[0] != "pending_setup" {
		t.Fatalf("expected pending_setup as the sole campaign initial state, got %v", initials)
	}

	for _, def := range defs {
		if def.Entity == "ad_campaign" {
			continue
		}
		for _, state := range def.States {
			if state.Initial && state.Name != "draft" {
				t.Fatalf("%s: expected draft initial state, got %q", def.Entity, state.Name)
			}
		}
	}
}
