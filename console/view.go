package console

import (
	"time"

	"github.com/erikmagkekse/nas-console/menu"
)

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// SlotView is a read-only snapshot of one request slot (the primary draft or an action).
type SlotView struct {
	Label        string `json:"label,omitempty"`
	Method       string `json:"method"`
	Endpoint     string `json:"endpoint"`
	Body         string `json:"body"`
	State        State  `json:"state"`
	Busy         bool   `json:"busy"`
	Output       string `json:"output,omitempty"`
	Error        string `json:"error,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
	InvocationID string `json:"invocation_id,omitempty"`
	DurationMs   int64  `json:"duration_ms,omitempty"`
}

// Failed reports whether the last run ended in an error.
func (v SlotView) Failed() bool { return v.State == StateFailed }

type ItemView struct {
	Key         string     `json:"menuKey"`
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	Description string     `json:"description"`
	APIKey      string     `json:"apiKey"`
	Features    []string   `json:"features,omitempty"`
	APIs        []menu.API `json:"apis,omitempty"`
	ActionCount int        `json:"action_count"`
}

type View struct {
	Item    *ItemView  `json:"item,omitempty"`
	Primary SlotView   `json:"primary"`
	Actions []SlotView `json:"actions"`
}

// Outcome is what a single invocation produced. Stale is set when the slot was replaced
// or re-invoked before this call finished, so the result was not stored.
type Outcome struct {
	InvocationID string        `json:"invocation_id"`
	State        State         `json:"state"`
	Output       string        `json:"output,omitempty"`
	Error        string        `json:"error,omitempty"`
	ErrorKind    string        `json:"error_kind,omitempty"`
	Duration     time.Duration `json:"-"`
	DurationMs   int64         `json:"duration_ms"`
	Stale        bool          `json:"stale,omitempty"`
}

// BuildView assembles the view-model. It has no side effects.
func BuildView(item *menu.Item, primary SlotView, actions []SlotView) View {
	v := View{Primary: primary, Actions: actions}
	if v.Actions == nil {
		v.Actions = []SlotView{}
	}
	if item != nil {
		v.Item = &ItemView{
			Key:         item.Key,
			Name:        item.Name,
			Path:        item.Path,
			Description: item.Description,
			APIKey:      item.APIKey(),
			Features:    item.Features,
			APIs:        item.APIs,
			ActionCount: len(item.Actions),
		}
	}
	return v
}
