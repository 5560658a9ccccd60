// Package labels maps raw names coming from the outside (URL segments,
// CLI arguments, server strings) onto the display tables in model.
package labels

import (
	"go.uber.org/zap"

	"fleet-dashboard/internal/model"
)

type Resolver struct {
	logger *zap.Logger
}

func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{logger: logger}
}

// Action resolves a raw action name. Unknown names are logged once here so
// every surface reports them the same way.
func (r *Resolver) Action(name string) (model.Action, bool) {
	action, ok := model.ParseAction(name)
	if !ok {
		r.logger.Warn("unknown action", zap.String("action", name))
	}
	return action, ok
}

// ActionIcon never fails: an unknown name gets the fallback icon and a
// diagnostic log line.
func (r *Resolver) ActionIcon(name string) string {
	action, ok := r.Action(name)
	if !ok {
		return model.FallbackActionIcon
	}
	return action.Icon()
}

func (r *Resolver) ButtonClass(name string) string {
	action, ok := r.Action(name)
	if !ok {
		return model.FallbackButton
	}
	return action.ButtonClass()
}

// StateIcon and friends accept the server's display name, e.g. "Ready".
func StateIcon(name string) string {
	return model.ParseWorkflowState(name).Icon()
}

func StateColor(name string) string {
	return model.ParseWorkflowState(name).Color()
}

func StateLabelClass(name string) string {
	return model.ParseWorkflowState(name).LabelClass()
}

// Overall renders the server computed fleet state. Names outside the
// workflow states (such as "Mixed") use the Unknown styling.
func Overall(state model.OverallState) model.OverallView {
	if !state.Success || state.Name == "" {
		s := model.StateUnknown
		return model.OverallView{Name: s.String(), Icon: s.Icon(), Color: s.Color()}
	}
	return model.OverallView{
		Name:  state.Name,
		Icon:  StateIcon(state.Name),
		Color: StateColor(state.Name),
	}
}
