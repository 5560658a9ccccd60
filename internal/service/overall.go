package service

import (
	"context"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/pkg/utils"
)

type OverallSource interface {
	FetchOverallState(ctx context.Context) (model.OverallState, error)
}

// OverallMonitor keeps the last overall fleet state reported by the
// server. The reduction itself happens server-side.
type OverallMonitor struct {
	feed feed[model.OverallState]
}

func NewOverallMonitor(source OverallSource) *OverallMonitor {
	return &OverallMonitor{feed: feed[model.OverallState]{
		fetch: source.FetchOverallState,
		wrap:  func(err error) error { return utils.NewOverallStateError(err) },
		// an unsuccessful answer keeps the last good value
		keep: func(state model.OverallState) bool { return state.Success },
	}}
}

func (m *OverallMonitor) Refresh(ctx context.Context) (model.OverallState, error) {
	return m.feed.refresh(ctx)
}

func (m *OverallMonitor) State() model.OverallState {
	return m.feed.get()
}
