package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/pkg/utils"
)

func TestPanelActivatePollsImmediately(t *testing.T) {
	f := newFakeFleet(node("node1", model.StateIdle), node("node2", model.StateReady))
	f.overall = model.OverallState{Success: true, Name: "Ready"}
	p := NewFleetPanel(f, time.Hour, nil)

	if err := p.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer p.Deactivate()
	if !p.Active() {
		t.Fatal("panel not active")
	}

	waitFor(t, "first snapshot", func() bool { return p.Snapshot().Len() == 2 })
	waitFor(t, "overall state", func() bool { return p.View().Overall.Name == "Ready" })

	select {
	case <-p.Changes():
	case <-time.After(time.Second):
		t.Fatal("no change notification")
	}

	// a second Activate is a no-op
	if err := p.Activate(context.Background()); err != nil {
		t.Fatalf("second Activate: %v", err)
	}
}

func TestPanelDeactivateDisposes(t *testing.T) {
	f := newFakeFleet(node("node1", model.StateIdle))
	p := NewFleetPanel(f, time.Hour, nil)
	if err := p.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "first snapshot", func() bool { return p.Snapshot().Len() == 1 })

	p.Deactivate()
	p.Deactivate()
	if p.Active() {
		t.Fatal("panel still active")
	}

	calls := f.calls()
	time.Sleep(20 * time.Millisecond)
	if f.calls() != calls {
		t.Fatal("polling continued after Deactivate")
	}

	if err := p.Activate(context.Background()); !errors.Is(err, ErrPanelDisposed) {
		t.Errorf("Activate = %v", err)
	}
	if err := p.Dispatch(context.Background(), "node1", model.ActionStart); !errors.Is(err, ErrPanelDisposed) {
		t.Errorf("Dispatch = %v", err)
	}
	if err := p.OpenLog(context.Background(), "node1"); !errors.Is(err, ErrPanelDisposed) {
		t.Errorf("OpenLog = %v", err)
	}
	if _, err := p.Refresh(context.Background()); !errors.Is(err, ErrPanelDisposed) {
		t.Errorf("Refresh = %v", err)
	}
}

func TestPanelDeactivateCancelsInFlightPoll(t *testing.T) {
	f := newFakeFleet(node("node1", model.StateIdle))
	f.listGate[1] = make(chan struct{})
	p := NewFleetPanel(f, time.Hour, nil)
	if err := p.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "poll in flight", func() bool { return f.calls() == 1 })

	p.Deactivate()
	if p.Snapshot().Cycle != 0 {
		t.Fatal("poll finishing after Deactivate was published")
	}
	if p.View().LastError != nil {
		t.Errorf("cancellation surfaced as error: %+v", p.View().LastError)
	}
}

func TestPanelDispatch(t *testing.T) {
	f := newFakeFleet(node("node1", model.StateIdle))
	p := NewFleetPanel(f, time.Hour, nil)
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := f.calls()

	if err := p.Dispatch(context.Background(), "node1", model.ActionDescribe); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := f.postedCommands(); len(got) != 1 || got[0] != "node1:describe" {
		t.Errorf("posted = %v", got)
	}
	if f.calls() != before+1 {
		t.Errorf("list calls = %d, want %d", f.calls(), before+1)
	}

	if err := p.Dispatch(context.Background(), "ghost", model.ActionDescribe); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("unknown node err = %v", err)
	}
}

func TestPanelRecordsAndClearsErrors(t *testing.T) {
	f := newFakeFleet(node("node1", model.StateIdle))
	p := NewFleetPanel(f, time.Hour, nil)
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.setListErr(errBoom)
	if _, err := p.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	view := p.View()
	if view.LastError == nil || view.LastError.Code != utils.CodeListFetch {
		t.Fatalf("last error = %+v", view.LastError)
	}
	if len(view.Rows) != 1 {
		t.Fatalf("rows = %d, previous snapshot lost", len(view.Rows))
	}

	f.setListErr(nil)
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.View().LastError != nil {
		t.Errorf("list error not cleared: %+v", p.View().LastError)
	}

	f.postErrs["node1"] = errBoom
	_ = p.Dispatch(context.Background(), "node1", model.ActionStart)
	if e := p.View().LastError; e == nil || e.Code != utils.CodeTransition {
		t.Fatalf("last error = %+v", e)
	}
	p.DismissError()
	if p.View().LastError != nil {
		t.Error("DismissError did not clear")
	}
}

func TestPanelDispatchAllRecordsFirstFailure(t *testing.T) {
	f := newFakeFleet(node("node1", model.StateIdle), node("node2", model.StateIdle))
	f.postErrs["node2"] = errBoom
	p := NewFleetPanel(f, time.Hour, nil)
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	results, err := p.DispatchAll(context.Background(), model.ActionPrepare)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || !results[0].Success || results[1].Success {
		t.Fatalf("results = %+v", results)
	}
	e := p.View().LastError
	if e == nil || e.Code != utils.CodeTransition || e.Message != "prepare on node2 failed" {
		t.Fatalf("last error = %+v", e)
	}
}

func TestPanelLogModal(t *testing.T) {
	f := newFakeFleet(node("node1", model.StateIdle))
	f.logs["node1"] = "hello"
	p := NewFleetPanel(f, time.Hour, nil)
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := p.OpenLog(context.Background(), "node1"); err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	if modal := p.View().Modal; !modal.Visible || modal.Content != "hello" {
		t.Fatalf("modal = %+v", modal)
	}
	p.CloseLog()
	if p.LogState().Visible {
		t.Fatal("modal still visible")
	}
}

func TestPanelDeactivateClosesModal(t *testing.T) {
	f := newFakeFleet(node("node1", model.StateIdle))
	f.logs["node1"] = "hello"
	p := NewFleetPanel(f, time.Hour, nil)
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.OpenLog(context.Background(), "node1"); err != nil {
		t.Fatal(err)
	}
	p.Deactivate()
	if p.LogState().Visible {
		t.Fatal("modal survived Deactivate")
	}
}

func TestPanelPollsRoutersAndRecentLogs(t *testing.T) {
	f := newFakeFleet(node("node1", model.StateIdle))
	f.routers = []model.DataRouter{
		{Name: "dr0", URL: "/routers/0/", IsOnline: true, StagingClean: true},
		{Name: "dr1", URL: "/routers/1/", IsOnline: false, StagingClean: true},
	}
	f.recentLogs = []model.LogEntry{
		{ID: 2, Level: "Error", Logger: "daq", Message: "node lost"},
		{ID: 1, Level: "Info", Logger: "daq", Message: "started"},
	}
	p := NewFleetPanel(f, time.Hour, nil)
	if err := p.Activate(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer p.Deactivate()

	waitFor(t, "router panel", func() bool { return len(p.View().Routers) == 2 })
	waitFor(t, "log panel", func() bool { return len(p.View().Logs) == 2 })

	view := p.View()
	if view.Routers[1].Name != "dr1" || view.Routers[1].Online.Good || !view.Routers[1].Clean.Good {
		t.Errorf("routers = %+v", view.Routers)
	}
	if view.Logs[0].Class != "danger" || view.Logs[1].Message != "started" {
		t.Errorf("logs = %+v", view.Logs)
	}
}

func TestPanelRouterFailureKeepsRowsAndRecordsError(t *testing.T) {
	f := newFakeFleet()
	f.routers = []model.DataRouter{{Name: "dr0", URL: "/routers/0/", IsOnline: true}}
	p := NewFleetPanel(f, time.Hour, nil)
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	f.mu.Lock()
	f.routerErr = errBoom
	f.mu.Unlock()
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("node refresh should still succeed: %v", err)
	}
	view := p.View()
	if len(view.Routers) != 1 || !view.Routers[0].Online.Good {
		t.Errorf("routers = %+v", view.Routers)
	}
	if view.LastError == nil || view.LastError.Code != utils.CodeRouters {
		t.Errorf("last error = %+v", view.LastError)
	}
}

func TestPanelOpenRouterLog(t *testing.T) {
	f := newFakeFleet()
	f.routers = []model.DataRouter{{Name: "dr0", URL: "/routers/0/"}}
	f.logs["dr0"] = "staging flushed"
	p := NewFleetPanel(f, time.Hour, nil)
	if _, err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := p.OpenRouterLog(context.Background(), "dr0"); err != nil {
		t.Fatalf("OpenRouterLog: %v", err)
	}
	if modal := p.LogState(); !modal.Visible || modal.Node != "dr0" || modal.Content != "staging flushed" {
		t.Fatalf("modal = %+v", modal)
	}
	if err := p.OpenRouterLog(context.Background(), "dr9"); !errors.Is(err, ErrUnknownRouter) {
		t.Errorf("unknown router err = %v", err)
	}
}
