package model

// Display identifiers are Font Awesome / stylesheet class names shared by
// the web page; the TUI maps them to glyphs and terminal colors.

type stateLabel struct {
	icon       string
	color      string
	labelClass string
}

var stateLabels = [stateCount]stateLabel{
	StateUnknown:   {icon: "fa-exclamation-triangle", color: "bg-error", labelClass: "label-error"},
	StateIdle:      {icon: "fa-power-off", color: "bg-idle", labelClass: "label-idle"},
	StateDescribed: {icon: "fa-server", color: "bg-described", labelClass: "label-described"},
	StatePrepared:  {icon: "fa-link", color: "bg-prepared", labelClass: "label-prepared"},
	StateReady:     {icon: "fa-check", color: "bg-ready", labelClass: "label-ready"},
	StateRunning:   {icon: "fa-play", color: "bg-running", labelClass: "label-running"},
}

func (s WorkflowState) label() stateLabel {
	if !s.valid() {
		return stateLabels[StateUnknown]
	}
	return stateLabels[s]
}

func (s WorkflowState) Icon() string       { return s.label().icon }
func (s WorkflowState) Color() string      { return s.label().color }
func (s WorkflowState) LabelClass() string { return s.label().labelClass }

const (
	BusyIcon           = "fa-spinner fa-pulse"
	FallbackActionIcon = "fa-question"
	FallbackButton     = "btn-default"
)

type actionLabel struct {
	icon        string
	buttonClass string
	title       string
}

var actionLabels = [actionCount]actionLabel{
	ActionDescribe:  {icon: "fa-server", buttonClass: "btn-describe", title: "Describe"},
	ActionPrepare:   {icon: "fa-link", buttonClass: "btn-prepare", title: "Prepare"},
	ActionConfigure: {icon: "fa-cog", buttonClass: "btn-configure", title: "Configure"},
	ActionStart:     {icon: "fa-play", buttonClass: "btn-start", title: "Start"},
	ActionStop:      {icon: "fa-stop", buttonClass: "btn-stop", title: "Stop"},
	ActionReset:     {icon: "fa-repeat", buttonClass: "btn-reset", title: "Reset"},
}

func (a Action) Icon() string {
	if !a.Valid() {
		return FallbackActionIcon
	}
	return actionLabels[a].icon
}

func (a Action) ButtonClass() string {
	if !a.Valid() {
		return FallbackButton
	}
	return actionLabels[a].buttonClass
}

func (a Action) Title() string {
	if !a.Valid() {
		return a.String()
	}
	return actionLabels[a].title
}

// Badge is what a status cell shows for a node.
type Badge struct {
	Icon  string `json:"icon"`
	Text  string `json:"text"`
	Class string `json:"class"`
	Color string `json:"color"`
	Busy  bool   `json:"busy"`
}

// StatusBadge renders the node's state. While the node reports a transition
// in flight the busy icon replaces the state and the text is suppressed.
func StatusBadge(n Node) Badge {
	if n.IsTransitioning {
		return Badge{Icon: BusyIcon, Busy: true}
	}
	s := n.WorkflowState
	return Badge{
		Icon:  s.Icon(),
		Text:  s.String(),
		Class: s.LabelClass(),
		Color: s.Color(),
	}
}
