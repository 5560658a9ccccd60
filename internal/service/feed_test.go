package service

import (
	"context"
	"errors"
	"testing"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/pkg/utils"
)

func TestFeedAppliesInIssueOrder(t *testing.T) {
	gates := []chan struct{}{make(chan struct{}), make(chan struct{})}
	calls := make(chan int, 2)
	var n int
	f := &feed[int]{
		wrap: func(err error) error { return err },
	}
	f.fetch = func(ctx context.Context) (int, error) {
		n++
		call := n
		calls <- call
		<-gates[call-1]
		return call * 10, nil
	}

	type result struct {
		value int
		err   error
	}
	results := make(chan result, 2)
	go func() {
		v, err := f.refresh(context.Background())
		results <- result{v, err}
	}()
	<-calls
	go func() {
		v, err := f.refresh(context.Background())
		results <- result{v, err}
	}()
	<-calls

	// the newer fetch answers first; the older one must not replace it
	close(gates[1])
	if r := <-results; r.err != nil || r.value != 20 {
		t.Fatalf("newer = %+v", r)
	}
	close(gates[0])
	if r := <-results; !errors.Is(r.err, ErrStaleCycle) || r.value != 20 {
		t.Fatalf("older = %+v", r)
	}
	if f.get() != 20 {
		t.Fatalf("value = %d", f.get())
	}
}

func TestRouterMonitorKeepsListOnFailure(t *testing.T) {
	f := newFakeFleet()
	f.routers = []model.DataRouter{{Name: "dr0", URL: "/routers/0/", IsOnline: true}}
	m := NewRouterMonitor(f)

	if routers, err := m.Refresh(context.Background()); err != nil || len(routers) != 1 {
		t.Fatalf("Refresh = %+v, %v", routers, err)
	}

	f.routerErr = errBoom
	_, err := m.Refresh(context.Background())
	var apiErr *utils.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != utils.CodeRouters {
		t.Fatalf("err = %v", err)
	}
	if got, ok := m.Find("dr0"); !ok || !got.IsOnline {
		t.Errorf("router list lost after failure: %+v", m.Routers())
	}
	if _, ok := m.Find("dr9"); ok {
		t.Error("found a router that does not exist")
	}
}

func TestRecentLogMonitorWrapsErrors(t *testing.T) {
	f := newFakeFleet()
	f.recentLogs = []model.LogEntry{{ID: 1, Level: "Info", Message: "hello"}}
	m := NewRecentLogMonitor(f)
	if _, err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.recentErr = errBoom
	_, err := m.Refresh(context.Background())
	var apiErr *utils.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != utils.CodeRecentLogs {
		t.Fatalf("err = %v", err)
	}
	if entries := m.Entries(); len(entries) != 1 || entries[0].Message != "hello" {
		t.Errorf("entries = %+v", entries)
	}
}
