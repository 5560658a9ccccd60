package model

import (
	"fmt"
	"strings"
)

// Action is a transition command accepted by a control node.
type Action int

const (
	ActionDescribe Action = iota
	ActionPrepare
	ActionConfigure
	ActionStart
	ActionStop
	ActionReset

	actionCount
)

var actionNames = [actionCount]string{
	ActionDescribe:  "describe",
	ActionPrepare:   "prepare",
	ActionConfigure: "configure",
	ActionStart:     "start",
	ActionStop:      "stop",
	ActionReset:     "reset",
}

// Actions returns the commands in button order.
func Actions() []Action {
	actions := make([]Action, 0, actionCount)
	for a := ActionDescribe; a < actionCount; a++ {
		actions = append(actions, a)
	}
	return actions
}

func (a Action) Valid() bool {
	return a >= ActionDescribe && a < actionCount
}

func (a Action) String() string {
	if !a.Valid() {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction resolves a lowercase command name such as "start".
func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a := ActionDescribe; a < actionCount; a++ {
		if actionNames[a] == name {
			return a, true
		}
	}
	return 0, false
}

func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid action %d", int(a))
	}
	return []byte(actionNames[a]), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, ok := ParseAction(string(text))
	if !ok {
		return fmt.Errorf("unknown action %q", string(text))
	}
	*a = parsed
	return nil
}
