package model

import (
	"strconv"
	"strings"
)

// DefaultEffortMinutes is assumed when a task carries no effort token.
const DefaultEffortMinutes = 30

// DefaultFriction is assumed when a task carries no friction token.
const DefaultFriction = 2

// Task is one node of the outline tree. Optional metadata fields are nil when
// the source line carried no matching token. JSON field names are snake_case
// for wire compatibility with the web UI.
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	IsIdea      bool    `json:"is_idea"`
	IsCompleted bool    `json:"is_completed"`
	Category    *string `json:"category"`
	Effort      *string `json:"effort"`
	Friction    *int    `json:"friction"`
	DueDate     *string `json:"due_date"`
	CompletedAt *string `json:"completed_at"`
	Subtasks    []*Task `json:"subtasks"`
	ParentID    *string `json:"parent_id"`
}

// EffortMinutes converts the task's effort token into minutes, falling back to
// DefaultEffortMinutes when absent or malformed. A day counts as 8 working
// hours.
func (t *Task) EffortMinutes() int {
	if t.Effort == nil {
		return DefaultEffortMinutes
	}
	return EffortMinutes(*t.Effort, DefaultEffortMinutes)
}

// FrictionOrDefault returns the friction rating, defaulting when absent.
func (t *Task) FrictionOrDefault() int {
	if t.Friction == nil {
		return DefaultFriction
	}
	return *t.Friction
}

// EffortMinutes parses an effort token like "15m", "2h" or "1d". Unparseable
// input yields fallback.
func EffortMinutes(effort string, fallback int) int {
	effort = strings.TrimSpace(effort)
	if len(effort) < 2 {
		return fallback
	}
	n, err := strconv.Atoi(effort[:len(effort)-1])
	if err != nil {
		return fallback
	}
	switch effort[len(effort)-1] {
	case 'm':
		return n
	case 'h':
		return n * 60
	case 'd':
		return n * 8 * 60
	default:
		return fallback
	}
}
