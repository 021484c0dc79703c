package lifecycle

import (
	"fmt"
	"sort"
)

// TransitionTable validates requested status transitions against a closed set
// of (from, to) pairs. It is immutable after Build and safe for concurrent use.
type TransitionTable interface {
	// CanTransition returns true if moving from one status to another is permitted
	CanTransition(from, to Status) bool

	// PermittedTargets returns all statuses reachable from the given status, sorted
	PermittedTargets(from Status) []Status
}

// TableBuilder assembles a transition table
type TableBuilder interface {
	// Configure returns a status configuration for the given status
	Configure(status Status) StatusConfiguration

	// Build creates an immutable transition table
	Build() TransitionTable
}

// StatusConfiguration configures outgoing transitions for a specific status
type StatusConfiguration interface {
	// Permit allows a transition to the target status
	Permit(target Status) StatusConfiguration
}

type statusConfig struct {
	from    Status
	targets map[Status]bool
}

type tableBuilder struct {
	configurations map[Status]*statusConfig
}

type transitionTable struct {
	targets map[Status]map[Status]bool
}

// NewTableBuilder creates a new transition table builder
func NewTableBuilder() TableBuilder {
	return &tableBuilder{
		configurations: make(map[Status]*statusConfig),
	}
}

// Configure returns a status configuration for the given status
func (b *tableBuilder) Configure(status Status) StatusConfiguration {
	if !status.IsValid() {
		panic(fmt.Sprintf("invalid status: %s", status))
	}

	config, exists := b.configurations[status]
	if !exists {
		config = &statusConfig{
			from:    status,
			targets: make(map[Status]bool),
		}
		b.configurations[status] = config
	}

	return config
}

// Permit allows a transition to the target status
func (c *statusConfig) Permit(target Status) StatusConfiguration {
	if !target.IsValid() {
		panic(fmt.Sprintf("invalid target status: %s", target))
	}

	c.targets[target] = true
	return c
}

// Build creates an immutable transition table
func (b *tableBuilder) Build() TransitionTable {
	// Copy configurations so later builder use cannot mutate the table
	targets := make(map[Status]map[Status]bool, len(b.configurations))
	for status, config := range b.configurations {
		targetsCopy := make(map[Status]bool, len(config.targets))
		for target := range config.targets {
			targetsCopy[target] = true
		}
		targets[status] = targetsCopy
	}

	return &transitionTable{targets: targets}
}

// CanTransition returns true if moving from one status to another is permitted
func (t *transitionTable) CanTransition(from, to Status) bool {
	targets, exists := t.targets[from]
	if !exists {
		return false
	}
	return targets[to]
}

// PermittedTargets returns all statuses reachable from the given status, sorted
func (t *transitionTable) PermittedTargets(from Status) []Status {
	targets, exists := t.targets[from]
	if !exists {
		return []Status{}
	}

	out := make([]Status, 0, len(targets))
	for target := range targets {
		out = append(out, target)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
