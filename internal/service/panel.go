package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/internal/pkg/labels"
	"fleet-dashboard/internal/pkg/logger"
	"fleet-dashboard/pkg/utils"
)

var (
	ErrPanelDisposed = errors.New("panel has been deactivated")
	ErrUnknownNode   = errors.New("unknown node")
	ErrUnknownRouter = errors.New("unknown data router")
)

// FleetClient is everything the panel needs from the fleet API.
type FleetClient interface {
	NodeSource
	Commander
	LogFetcher
	OverallSource
	RouterSource
	RecentLogSource
}

// FleetPanel is the lifecycle owner of one dashboard view: the polling
// timers, the snapshot, the router and recent log panels, the log modal
// and the latest error indicator.
// Activate starts polling; Deactivate stops it for good.
type FleetPanel struct {
	aggregator   *Aggregator
	overall      *OverallMonitor
	routers      *RouterMonitor
	recentLogs   *RecentLogMonitor
	dispatcher   *Dispatcher
	modal        *LogModal
	fleetTimer   *Scheduler
	overallTimer *Scheduler
	routerTimer  *Scheduler
	logsTimer    *Scheduler
	interval     time.Duration
	logger       *logger.Logger
	now          func() time.Time

	mu       sync.Mutex
	lifetime context.Context
	cancel   context.CancelFunc
	disposed bool
	lastErr  *model.ErrorIndicator
	changes  chan struct{}
}

func NewFleetPanel(client FleetClient, interval time.Duration, log *logger.Logger) *FleetPanel {
	if log == nil {
		log = logger.NewNop()
	}
	aggregator := NewAggregator(client, log.Named("aggregator"))
	return &FleetPanel{
		aggregator:   aggregator,
		overall:      NewOverallMonitor(client),
		routers:      NewRouterMonitor(client),
		recentLogs:   NewRecentLogMonitor(client),
		dispatcher:   NewDispatcher(client, aggregator, log.Named("dispatcher")),
		modal:        NewLogModal(client, log.Named("logs")),
		fleetTimer:   NewScheduler(),
		overallTimer: NewScheduler(),
		routerTimer:  NewScheduler(),
		logsTimer:    NewScheduler(),
		interval:     interval,
		logger:       log,
		now:          time.Now,
		changes:      make(chan struct{}, 1),
	}
}

func (p *FleetPanel) Activate(ctx context.Context) error {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return ErrPanelDisposed
	}
	if p.cancel != nil {
		p.mu.Unlock()
		return nil
	}
	lifetime, cancel := context.WithCancel(ctx)
	p.lifetime, p.cancel = lifetime, cancel
	p.mu.Unlock()

	timers := []struct {
		scheduler *Scheduler
		poll      func(context.Context)
	}{
		{p.fleetTimer, p.pollFleet},
		{p.overallTimer, p.pollOverall},
		{p.routerTimer, p.pollRouters},
		{p.logsTimer, p.pollRecentLogs},
	}
	for _, t := range timers {
		if err := t.scheduler.Start(lifetime, p.interval, t.poll); err != nil {
			p.Deactivate()
			return err
		}
	}
	return nil
}

// Deactivate stops both timers and waits for in-flight polls. Results that
// arrive afterwards are dropped. Calling it again is a no-op.
func (p *FleetPanel) Deactivate() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.fleetTimer.Stop()
	p.overallTimer.Stop()
	p.routerTimer.Stop()
	p.logsTimer.Stop()
	p.modal.Close()
}

func (p *FleetPanel) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil && !p.disposed
}

func (p *FleetPanel) Changes() <-chan struct{} {
	return p.changes
}

func (p *FleetPanel) Snapshot() model.FleetSnapshot {
	return p.aggregator.Snapshot()
}

func (p *FleetPanel) Stats() AggregatorStats {
	return p.aggregator.Stats()
}

func (p *FleetPanel) Refresh(ctx context.Context) (model.FleetSnapshot, error) {
	ctx, done, err := p.scoped(ctx)
	if err != nil {
		return p.Snapshot(), err
	}
	defer done()

	snapshot, err := p.aggregator.Refresh(ctx)
	p.settle(err)
	if _, overallErr := p.overall.Refresh(ctx); overallErr != nil {
		p.record(overallErr)
	}
	if _, routerErr := p.routers.Refresh(ctx); routerErr != nil {
		p.record(routerErr)
	}
	if _, logsErr := p.recentLogs.Refresh(ctx); logsErr != nil {
		p.record(logsErr)
	}
	p.notify()
	return snapshot, err
}

func (p *FleetPanel) Dispatch(ctx context.Context, name string, action model.Action) error {
	ctx, done, err := p.scoped(ctx)
	if err != nil {
		return err
	}
	defer done()

	entry, ok := p.aggregator.Snapshot().Find(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}

	err = p.dispatcher.Dispatch(ctx, entry.Node, action)
	p.record(err)
	p.notify()
	return err
}

func (p *FleetPanel) DispatchAll(ctx context.Context, action model.Action) ([]model.DispatchResult, error) {
	ctx, done, err := p.scoped(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	results := p.dispatcher.DispatchAll(ctx, action)
	for _, r := range results {
		if !r.Success {
			p.recordIndicator(&model.ErrorIndicator{
				Code:    utils.CodeTransition,
				Message: fmt.Sprintf("%s on %s failed", r.Action, r.Node),
				Details: r.Error,
				At:      p.now(),
			})
			break
		}
	}
	p.notify()
	return results, nil
}

func (p *FleetPanel) OpenLog(ctx context.Context, name string) error {
	entry, ok := p.aggregator.Snapshot().Find(name)
	if !ok {
		if p.isDisposed() {
			return ErrPanelDisposed
		}
		return fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	return p.openLog(ctx, entry.Node)
}

// OpenRouterLog shows a data router's log file in the same modal.
func (p *FleetPanel) OpenRouterLog(ctx context.Context, name string) error {
	router, ok := p.routers.Find(name)
	if !ok {
		if p.isDisposed() {
			return ErrPanelDisposed
		}
		return fmt.Errorf("%w: %s", ErrUnknownRouter, name)
	}
	return p.openLog(ctx, model.Node{Name: router.Name, URL: router.URL})
}

func (p *FleetPanel) openLog(ctx context.Context, target model.Node) error {
	ctx, done, err := p.scoped(ctx)
	if err != nil {
		return err
	}
	defer done()

	err = p.modal.Open(ctx, target)
	if err == nil && p.isDisposed() {
		p.modal.Close()
		return ErrPanelDisposed
	}
	p.record(err)
	p.notify()
	return err
}

func (p *FleetPanel) CloseLog() {
	p.modal.Close()
	p.notify()
}

func (p *FleetPanel) LogState() model.LogModalState {
	return p.modal.State()
}

func (p *FleetPanel) DismissError() {
	p.mu.Lock()
	p.lastErr = nil
	p.mu.Unlock()
	p.notify()
}

func (p *FleetPanel) View() model.FleetView {
	snapshot := p.aggregator.Snapshot()

	p.mu.Lock()
	var lastErr *model.ErrorIndicator
	if p.lastErr != nil {
		indicator := *p.lastErr
		lastErr = &indicator
	}
	p.mu.Unlock()

	return model.FleetView{
		Cycle:     snapshot.Cycle,
		FetchedAt: snapshot.FetchedAt,
		Rows:      RenderRows(snapshot),
		Overall:   labels.Overall(p.overall.State()),
		Routers:   RenderRouters(p.routers.Routers()),
		Logs:      RenderLogs(p.recentLogs.Entries()),
		Modal:     p.modal.State(),
		LastError: lastErr,
	}
}

func (p *FleetPanel) pollFleet(ctx context.Context) {
	_, err := p.aggregator.Refresh(ctx)
	if p.isDisposed() {
		return
	}
	p.settle(err)
	p.notify()
}

func (p *FleetPanel) pollOverall(ctx context.Context) {
	_, err := p.overall.Refresh(ctx)
	p.settlePoll(err)
}

func (p *FleetPanel) pollRouters(ctx context.Context) {
	_, err := p.routers.Refresh(ctx)
	p.settlePoll(err)
}

func (p *FleetPanel) pollRecentLogs(ctx context.Context) {
	_, err := p.recentLogs.Refresh(ctx)
	p.settlePoll(err)
}

func (p *FleetPanel) settlePoll(err error) {
	if p.isDisposed() {
		return
	}
	p.record(err)
	p.notify()
}

// settle records a poll failure, or clears a stale list-fetch indicator
// once polling works again.
func (p *FleetPanel) settle(err error) {
	if err != nil {
		p.record(err)
		return
	}
	p.mu.Lock()
	if p.lastErr != nil && p.lastErr.Code == utils.CodeListFetch {
		p.lastErr = nil
	}
	p.mu.Unlock()
}

func (p *FleetPanel) record(err error) {
	if err == nil ||
		errors.Is(err, ErrStaleCycle) ||
		errors.Is(err, ErrModalSuperseded) ||
		errors.Is(err, context.Canceled) {
		return
	}
	apiErr := utils.AsAPIError(err)
	p.recordIndicator(&model.ErrorIndicator{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
		At:      p.now(),
	})
}

func (p *FleetPanel) recordIndicator(indicator *model.ErrorIndicator) {
	p.mu.Lock()
	p.lastErr = indicator
	p.mu.Unlock()
}

func (p *FleetPanel) notify() {
	select {
	case p.changes <- struct{}{}:
	default:
	}
}

func (p *FleetPanel) isDisposed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disposed
}

// scoped derives a context that is also cancelled when the panel is
// deactivated.
func (p *FleetPanel) scoped(ctx context.Context) (context.Context, context.CancelFunc, error) {
	p.mu.Lock()
	disposed, lifetime := p.disposed, p.lifetime
	p.mu.Unlock()

	if disposed {
		return nil, nil, ErrPanelDisposed
	}
	ctx, cancel := context.WithCancel(ctx)
	if lifetime == nil {
		return ctx, cancel, nil
	}
	stop := context.AfterFunc(lifetime, cancel)
	return ctx, func() {
		stop()
		cancel()
	}, nil
}
