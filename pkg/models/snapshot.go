package models

import "time"

// MemoryWindowCount is the fixed number of working-memory slots an agent exposes.
const MemoryWindowCount = 9

// MemoryWindow is one bounded working-memory slot.
type MemoryWindow struct {
	// Active is true while the slot holds content.
	Active bool `json:"active" yaml:"active"`
}

// VetoRecord describes a thought blocked before expression.
type VetoRecord struct {
	// ID is the producer-assigned identifier, if any.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
	// Timestamp is when the veto happened.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// ViolatedValue is a short label for the value the thought violated.
	// Nil means the producer did not say.
	ViolatedValue *string `json:"violated_value,omitempty" yaml:"violated_value,omitempty"`
	// Reason is free-form text explaining the veto.
	Reason string `json:"reason" yaml:"reason"`
}

// Value returns the violated value label, or "unknown" when absent.
func (v VetoRecord) Value() string {
	if v.ViolatedValue == nil || *v.ViolatedValue == "" {
		return "unknown"
	}
	return *v.ViolatedValue
}

// Thought is a single expressed thought with its salience.
type Thought struct {
	// Seq is a per-session sequence number, strictly increasing.
	Seq uint64 `json:"seq" yaml:"seq"`
	// ID is the producer-assigned identifier.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`
	// Timestamp is when the thought was produced.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// Salience is in [0,1].
	Salience float32 `json:"salience" yaml:"salience"`
	// Text is the thought content.
	Text string `json:"text" yaml:"text"`
}

// Snapshot is an immutable point-in-time view of the agent's observable state.
// A snapshot handed to the dashboard must not be mutated afterwards.
type Snapshot struct {
	SessionID            string         `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	AgentName            string         `json:"agent_name" yaml:"agent_name"`
	Uptime               time.Duration  `json:"uptime" yaml:"uptime"`
	ThoughtCount         uint64         `json:"thought_count" yaml:"thought_count"`
	LifetimeThoughtCount uint64         `json:"lifetime_thought_count" yaml:"lifetime_thought_count"`
	ThoughtsPerHour      float64        `json:"thoughts_per_hour" yaml:"thoughts_per_hour"`
	MemoryCount          uint64         `json:"memory_count" yaml:"memory_count"`
	UnconsciousCount     uint64         `json:"unconscious_count" yaml:"unconscious_count"`
	MemoryWindows        []MemoryWindow `json:"memory_windows" yaml:"memory_windows"`
	Vetoes               []VetoRecord   `json:"vetoes" yaml:"vetoes"`
	VetoCount            uint64         `json:"veto_count" yaml:"veto_count"`
	// RecentThoughts holds the most recent thoughts, oldest first.
	RecentThoughts []Thought `json:"recent_thoughts,omitempty" yaml:"recent_thoughts,omitempty"`
}

// ActiveWindows returns how many memory windows are active, capped to the slot count.
func (s *Snapshot) ActiveWindows() int {
	n := 0
	for i, w := range s.MemoryWindows {
		if i >= MemoryWindowCount {
			break
		}
		if w.Active {
			n++
		}
	}
	return n
}

// NormalizedWindows returns exactly MemoryWindowCount slots, padding with
// inactive slots or dropping extras. The bool reports whether the input
// already had the right length.
func (s *Snapshot) NormalizedWindows() ([]MemoryWindow, bool) {
	ok := len(s.MemoryWindows) == MemoryWindowCount
	out := make([]MemoryWindow, MemoryWindowCount)
	copy(out, s.MemoryWindows)
	return out, ok
}
