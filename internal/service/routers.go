package service

import (
	"context"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/pkg/utils"
)

type RouterSource interface {
	ListDataRouters(ctx context.Context) ([]model.DataRouter, error)
}

type RecentLogSource interface {
	FetchRecentLogs(ctx context.Context) ([]model.LogEntry, error)
}

// RouterMonitor keeps the last data router list. A failed fetch leaves
// the previous list on display.
type RouterMonitor struct {
	feed feed[[]model.DataRouter]
}

func NewRouterMonitor(source RouterSource) *RouterMonitor {
	return &RouterMonitor{feed: feed[[]model.DataRouter]{
		fetch: source.ListDataRouters,
		wrap:  func(err error) error { return utils.NewRouterListError(err) },
	}}
}

func (m *RouterMonitor) Refresh(ctx context.Context) ([]model.DataRouter, error) {
	return m.feed.refresh(ctx)
}

func (m *RouterMonitor) Routers() []model.DataRouter {
	return m.feed.get()
}

func (m *RouterMonitor) Find(name string) (model.DataRouter, bool) {
	for _, r := range m.feed.get() {
		if r.Name == name {
			return r, true
		}
	}
	return model.DataRouter{}, false
}

// RecentLogMonitor keeps the server's latest log entries.
type RecentLogMonitor struct {
	feed feed[[]model.LogEntry]
}

func NewRecentLogMonitor(source RecentLogSource) *RecentLogMonitor {
	return &RecentLogMonitor{feed: feed[[]model.LogEntry]{
		fetch: source.FetchRecentLogs,
		wrap:  func(err error) error { return utils.NewRecentLogsError(err) },
	}}
}

func (m *RecentLogMonitor) Refresh(ctx context.Context) ([]model.LogEntry, error) {
	return m.feed.refresh(ctx)
}

func (m *RecentLogMonitor) Entries() []model.LogEntry {
	return m.feed.get()
}
