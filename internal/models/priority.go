package models

import (
	"fmt"
	"strings"
)

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is assigned to tasks created without an explicit priority
const DefaultPriority = PriorityMedium

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePriority maps user input to a Priority, case-insensitively. Empty input
// yields DefaultPriority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return DefaultPriority, nil
	}
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority '%s' (must be: low, medium, high, urgent)", s)
	}
	return p, nil
}
