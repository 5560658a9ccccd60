package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// WorkflowState is the setup progress of a control node. The zero value is
// StateUnknown so any unrecognized server value lands there.
type WorkflowState int

const (
	StateUnknown WorkflowState = iota
	StateIdle
	StateDescribed
	StatePrepared
	StateReady
	StateRunning

	stateCount
)

var stateNames = [stateCount]string{
	StateUnknown:   "Unknown",
	StateIdle:      "Idle",
	StateDescribed: "Described",
	StatePrepared:  "Prepared",
	StateReady:     "Ready",
	StateRunning:   "Running",
}

// WorkflowStates lists every state, Unknown included.
func WorkflowStates() []WorkflowState {
	states := make([]WorkflowState, 0, stateCount)
	for s := StateUnknown; s < stateCount; s++ {
		states = append(states, s)
	}
	return states
}

func (s WorkflowState) valid() bool {
	return s >= StateUnknown && s < stateCount
}

func (s WorkflowState) String() string {
	if !s.valid() {
		return stateNames[StateUnknown]
	}
	return stateNames[s]
}

// ParseWorkflowState accepts the display name (any case) or the numeric
// code used by the control nodes (1 = Idle ... 5 = Running).
func ParseWorkflowState(raw string) WorkflowState {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		if s := WorkflowState(n); s.valid() {
			return s
		}
		return StateUnknown
	}
	for s := StateIdle; s < stateCount; s++ {
		if strings.EqualFold(stateNames[s], raw) {
			return s
		}
	}
	return StateUnknown
}

func (s WorkflowState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *WorkflowState) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = ParseWorkflowState(raw)
		return nil
	}
	// numbers, null and anything else go through the same parser
	*s = ParseWorkflowState(string(data))
	return nil
}

// Node is one control node as reported by the fleet API.
type Node struct {
	Name              string        `json:"name"`
	URL               string        `json:"url"`
	WorkflowState     WorkflowState `json:"workflowState"`
	IsTransitioning   bool          `json:"isTransitioning"`
	SelectedConfigRef string        `json:"selectedConfigRef"`
	IsOnline          *bool         `json:"isOnline,omitempty"`
}

// ConfigSummary names the three setup procedures selected for a node.
type ConfigSummary struct {
	DescribeStep  string `json:"describeStep"`
	PrepareStep   string `json:"prepareStep"`
	ConfigureStep string `json:"configureStep"`
}

func (c *ConfigSummary) Text() string {
	if c == nil {
		return ""
	}
	return c.DescribeStep + "/" + c.PrepareStep + "/" + c.ConfigureStep
}

// FleetEntry joins a node with the config fetched in the same cycle.
// Config is nil when the config fetch failed or returned nothing.
type FleetEntry struct {
	Node        Node           `json:"node"`
	Config      *ConfigSummary `json:"config,omitempty"`
	ConfigError string         `json:"configError,omitempty"`
}

// FleetSnapshot is the joined result of one poll cycle, in server list
// order. It is replaced as a whole and must not be modified after publish.
type FleetSnapshot struct {
	Cycle     uint64       `json:"cycle"`
	FetchedAt time.Time    `json:"fetchedAt"`
	Entries   []FleetEntry `json:"entries"`
}

func (s FleetSnapshot) Len() int {
	return len(s.Entries)
}

func (s FleetSnapshot) Nodes() []Node {
	nodes := make([]Node, len(s.Entries))
	for i, e := range s.Entries {
		nodes[i] = e.Node
	}
	return nodes
}

func (s FleetSnapshot) Find(name string) (FleetEntry, bool) {
	for _, e := range s.Entries {
		if e.Node.Name == name {
			return e, true
		}
	}
	return FleetEntry{}, false
}

// LogModalState is the single fleet-wide log viewer.
type LogModalState struct {
	Visible bool   `json:"visible"`
	Node    string `json:"node,omitempty"`
	Content string `json:"content"`
}

// OverallState is the server-computed state of the whole fleet.
type OverallState struct {
	Success bool   `json:"success"`
	Name    string `json:"overall_state_name"`
}
