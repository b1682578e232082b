package workflow_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/runtimeconfig"
	"github.com/goliatone/go-marketplace/internal/workflow"
)

func TestCompileDefinitionConfigs_Success(t *testing.T) {
	configs := []runtimeconfig.WorkflowDefinitionConfig{
		{
			Entity: "listing",
			States: []runtimeconfig.WorkflowStateConfig{
				{Name: "draft", Description: "Being prepared", Initial: true},
				{Name: "submitted", Description: "Awaiting review"},
				{Name: "published", Description: "Live"},
				{Name: "archived", Description: "Hidden", Terminal: true},
			},
			Transitions: []runtimeconfig.WorkflowTransitionConfig{
				{Name: "submit", From: "draft", To: "submitted", Guard: "submitter"},
				{Name: "publish", From: "submitted", To: "published", Guard: "publisher"},
				{Name: "archive", From: "published", To: "archived", Guard: "archiver"},
			},
		},
	}

	defs, err := workflow.CompileDefinitionConfigs(configs)
	if err != nil {
		t.Fatalf("CompileDefinitionConfigs returned error: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("expected single definition, got %d", len(defs))
	}

	def := defs[0]
	if def.EntityKind != "listing" {
		t.Fatalf("expected entity 'listing', got %q", def.EntityKind)
	}
	if def.InitialState != domain.SubmissionDraft {
		t.Fatalf("expected initial state 'draft', got %q", def.InitialState)
	}
	if len(def.States) != 4 {
		t.Fatalf("expected 4 states, got %d", len(def.States))
	}
	if !def.States[3].Terminal {
		t.Fatalf("expected archived to be terminal")
	}
	if len(def.Transitions) != 3 {
		t.Fatalf("expected 3 transitions, got %d", len(def.Transitions))
	}
	if def.Transitions[0].Guard != "submitter" {
		t.Fatalf("expected guard to survive compilation, got %q", def.Transitions[0].Guard)
	}
}

func TestCompileDefinitionConfigs_DuplicateEntity(t *testing.T) {
	configs := []runtimeconfig.WorkflowDefinitionConfig{
		{Entity: "listing", States: []runtimeconfig.WorkflowStateConfig{{Name: "draft"}}},
		{Entity: "listing", States: []runtimeconfig.WorkflowStateConfig{{Name: "draft"}}},
	}

	_, err := workflow.CompileDefinitionConfigs(configs)
	if err == nil || !strings.Contains(err.Error(), "duplicate entity definition") {
		t.Fatalf("expected duplicate entity error, got %v", err)
	}
}

func TestCompileDefinitionConfigs_UnknownTransitionState(t *testing.T) {
	configs := []runtimeconfig.WorkflowDefinitionConfig{
		{
			Entity: "listing",
			States: []runtimeconfig.WorkflowStateConfig{{Name: "draft"}},
			Transitions: []runtimeconfig.WorkflowTransitionConfig{
				{Name: "publish", From: "draft", To: "published"},
			},
		},
	}

	_, err := workflow.CompileDefinitionConfigs(configs)
	if err == nil || !strings.Contains(err.Error(), "unknown state") {
		t.Fatalf("expected unknown state error, got %v", err)
	}
}

func TestCompileDefinitionConfigs_DuplicateEdge(t *testing.T) {
	configs := []runtimeconfig.WorkflowDefinitionConfig{
		{
			Entity: "listing",
			States: []runtimeconfig.WorkflowStateConfig{{Name: "draft"}, {Name: "submitted"}},
			Transitions: []runtimeconfig.WorkflowTransitionConfig{
				{Name: "submit", From: "draft", To: "submitted"},
				{Name: "resubmit", From: "draft", To: "submitted"},
			},
		},
	}

	_, err := workflow.CompileDefinitionConfigs(configs)
	if err == nil || !strings.Contains(err.Error(), "duplicate transition") {
		t.Fatalf("expected duplicate transition error, got %v", err)
	}
}

func TestDefaultDefinitionsMatchSubmissionTable(t *testing.T) {
	defs, err := workflow.CompileDefinitionConfigs(runtimeconfig.DefaultWorkflowDefinitions())
	if err != nil {
		t.Fatalf("compile default definitions: %v", err)
	}
	if len(defs) != 4 {
		t.Fatalf("expected definitions for 4 entity kinds, got %d", len(defs))
	}

	var listing *workflow.Definition
	for i := range defs {
		if defs[i].EntityKind == "listing" {
			listing = &defs[i]
		}
	}
	if listing == nil {
		t.Fatalf("expected listing definition")
	}

	table := workflow.NewTable(*listing)
	expected := map[domain.SubmissionStatus][]domain.SubmissionStatus{
		domain.SubmissionDraft:        {domain.SubmissionSubmitted},
		domain.SubmissionSubmitted:    {domain.SubmissionUnderReview, domain.SubmissionNeedsChanges, domain.SubmissionApproved, domain.SubmissionPublished, domain.SubmissionArchived},
		domain.SubmissionUnderReview:  {domain.SubmissionNeedsChanges, domain.SubmissionApproved, domain.SubmissionPublished, domain.SubmissionArchived},
		domain.SubmissionNeedsChanges: {domain.SubmissionSubmitted, domain.SubmissionArchived},
		domain.SubmissionApproved:     {domain.SubmissionPublished, domain.SubmissionArchived},
		domain.SubmissionPublished:    {domain.SubmissionArchived},
		domain.SubmissionArchived:     nil,
	}

	for current, want := range expected {
		got := table.AllowedNext(current)
		if len(got) != len(want) {
			t.Fatalf("allowedNext(%s): want %v got %v", current, want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("allowedNext(%s): want %v got %v", current, want, got)
			}
		}
	}

	if !table.Terminal(domain.SubmissionArchived) {
		t.Fatalf("expected archived to be terminal")
	}
	if table.InitialState() != domain.SubmissionDraft {
		t.Fatalf("expected initial state draft, got %q", table.InitialState())
	}
}

func TestTableRejectsSameStateResubmission(t *testing.T) {
	defs, err := workflow.CompileDefinitionConfigs(runtimeconfig.DefaultWorkflowDefinitions())
	if err != nil {
		t.Fatalf("compile default definitions: %v", err)
	}
	table := workflow.NewTable(defs[0])

	for _, status := range domain.SubmissionStatuses() {
		if _, ok := table.Lookup(status, status); ok {
			t.Fatalf("same-state edge %s -> %s must not exist", status, status)
		}
	}
}
