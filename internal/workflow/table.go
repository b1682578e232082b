package workflow

import "github.com/goliatone/go-marketplace/internal/domain"

// Table is the compiled transition lookup for one entity kind. Structural
// validity is decided here, before any role or ownership question is asked.
type Table struct {
	definition Definition
	edges      map[domain.SubmissionStatus]map[domain.SubmissionStatus]Transition
	ordered    map[domain.SubmissionStatus][]Transition
	terminal   map[domain.SubmissionStatus]bool
}

// NewTable compiles a definition into an indexed transition table.
func NewTable(definition Definition) *Table {
	table := &Table{
		definition: definition,
		edges:      make(map[domain.SubmissionStatus]map[domain.SubmissionStatus]Transition),
		ordered:    make(map[domain.SubmissionStatus][]Transition),
		terminal:   make(map[domain.SubmissionStatus]bool, len(definition.States)),
	}
	for _, state := range definition.States {
		table.terminal[state.Name] = state.Terminal
	}
	for _, transition := range definition.Transitions {
		byTarget, ok := table.edges[transition.From]
		if !ok {
			byTarget = make(map[domain.SubmissionStatus]Transition)
			table.edges[transition.From] = byTarget
		}
		byTarget[transition.To] = transition
		table.ordered[transition.From] = append(table.ordered[transition.From], transition)
	}
	return table
}

// EntityKind reports the entity kind this table was compiled for.
func (t *Table) EntityKind() string {
	return t.definition.EntityKind
}

// InitialState reports the state assigned at entity creation.
func (t *Table) InitialState() domain.SubmissionStatus {
	return t.definition.InitialState
}

// AllowedNext returns the statuses reachable from current, in declaration
// order. Terminal states return an empty set.
func (t *Table) AllowedNext(current domain.SubmissionStatus) []domain.SubmissionStatus {
	transitions := t.ordered[current]
	if len(transitions) == 0 {
		return nil
	}
	result := make([]domain.SubmissionStatus, 0, len(transitions))
	for _, transition := range transitions {
		result = append(result, transition.To)
	}
	return result
}

// Lookup resolves the edge from current to target. The boolean is false when
// the edge is not declared, which includes same-state re-submission.
func (t *Table) Lookup(current, target domain.SubmissionStatus) (Transition, bool) {
	transition, ok := t.edges[current][target]
	return transition, ok
}

// Terminal reports whether the state has no outbound transitions by design.
func (t *Table) Terminal(state domain.SubmissionStatus) bool {
	return t.terminal[state]
}
