package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"fleet-dashboard/internal/model"
)

var errBoom = errors.New("boom")

type fakeFleet struct {
	mu sync.Mutex

	nodes     []model.Node
	listErr   error
	listCalls int
	// listGate blocks the n-th ListNodes call (1-based) until closed.
	listGate map[int]chan struct{}
	// listNodes overrides nodes for the n-th call.
	listNodes map[int][]model.Node
	// listDelay is the latency of every ListNodes call.
	listDelay time.Duration

	configs    map[string][]model.ConfigSummary
	configErrs map[string]error

	postErrs map[string]error
	posted   []string

	logs    map[string]string
	logErr  error
	logGate chan struct{}

	overall    model.OverallState
	overallErr error

	routers    []model.DataRouter
	routerErr  error
	recentLogs []model.LogEntry
	recentErr  error
}

func newFakeFleet(nodes ...model.Node) *fakeFleet {
	return &fakeFleet{
		nodes:      nodes,
		listGate:   map[int]chan struct{}{},
		listNodes:  map[int][]model.Node{},
		configs:    map[string][]model.ConfigSummary{},
		configErrs: map[string]error{},
		postErrs:   map[string]error{},
		logs:       map[string]string{},
	}
}

func (f *fakeFleet) ListNodes(ctx context.Context) ([]model.Node, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	gate := f.listGate[call]
	nodes, override := f.listNodes[call]
	if !override {
		nodes = append([]model.Node(nil), f.nodes...)
	}
	err := f.listErr
	delay := f.listDelay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func (f *fakeFleet) FetchConfig(ctx context.Context, ref string) ([]model.ConfigSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.configErrs[ref]; err != nil {
		return nil, err
	}
	return f.configs[ref], nil
}

func (f *fakeFleet) PostTransition(ctx context.Context, node model.Node, action model.Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.postErrs[node.Name]; err != nil {
		return err
	}
	f.posted = append(f.posted, node.Name+":"+action.String())
	return nil
}

func (f *fakeFleet) FetchLogFile(ctx context.Context, node model.Node) (string, error) {
	f.mu.Lock()
	gate, err, content := f.logGate, f.logErr, f.logs[node.Name]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

func (f *fakeFleet) FetchOverallState(ctx context.Context) (model.OverallState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overall, f.overallErr
}

func (f *fakeFleet) ListDataRouters(ctx context.Context) ([]model.DataRouter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.DataRouter(nil), f.routers...), f.routerErr
}

func (f *fakeFleet) FetchRecentLogs(ctx context.Context) ([]model.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.LogEntry(nil), f.recentLogs...), f.recentErr
}

func (f *fakeFleet) setListErr(err error) {
	f.mu.Lock()
	f.listErr = err
	f.mu.Unlock()
}

func (f *fakeFleet) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func (f *fakeFleet) postedCommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.posted...)
}

func node(name string, state model.WorkflowState) model.Node {
	return model.Node{
		Name:              name,
		URL:               "/nodes/" + name + "/",
		WorkflowState:     state,
		SelectedConfigRef: "/cfg/" + name,
	}
}
