package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/internal/pkg/logger"
	"fleet-dashboard/pkg/utils"
)

// ErrStaleCycle is returned when a newer poll cycle was published while
// this one was in flight; its result is dropped.
var ErrStaleCycle = errors.New("poll cycle superseded")

type NodeSource interface {
	ListNodes(ctx context.Context) ([]model.Node, error)
	FetchConfig(ctx context.Context, ref string) ([]model.ConfigSummary, error)
}

type AggregatorStats struct {
	Issued  uint64 `json:"issued"`
	Applied uint64 `json:"applied"`
	Stale   uint64 `json:"stale"`
	Failed  uint64 `json:"failed"`
}

// Aggregator polls the node list, fans out one config fetch per node and
// publishes the joined snapshot.
type Aggregator struct {
	source NodeSource
	logger *logger.Logger
	now    func() time.Time

	mu       sync.RWMutex
	issued   uint64
	applied  uint64
	snapshot model.FleetSnapshot
	stats    AggregatorStats
}

func NewAggregator(source NodeSource, log *logger.Logger) *Aggregator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Aggregator{
		source:   source,
		logger:   log,
		now:      time.Now,
		snapshot: model.FleetSnapshot{Entries: []model.FleetEntry{}},
	}
}

func (a *Aggregator) Snapshot() model.FleetSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

func (a *Aggregator) Stats() AggregatorStats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

func (a *Aggregator) nextCycle() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.issued++
	a.stats.Issued = a.issued
	return a.issued
}

// Refresh runs one poll cycle. On any error the previously published
// snapshot is returned unchanged along with the error.
func (a *Aggregator) Refresh(ctx context.Context) (model.FleetSnapshot, error) {
	cycle := a.nextCycle()
	started := a.now()

	nodes, err := a.source.ListNodes(ctx)
	if err != nil {
		a.mu.Lock()
		a.stats.Failed++
		a.mu.Unlock()
		a.logger.PollFailure(cycle, err)
		return a.Snapshot(), utils.NewListFetchError(err)
	}

	entries := make([]model.FleetEntry, len(nodes))
	var g errgroup.Group
	for i, node := range nodes {
		entries[i].Node = node
		if node.SelectedConfigRef == "" {
			continue
		}
		g.Go(func() error {
			configs, err := a.source.FetchConfig(ctx, node.SelectedConfigRef)
			if err != nil {
				a.logger.ConfigFetchFailed(cycle, node.Name, err)
				entries[i].ConfigError = utils.NewConfigFetchError(node.Name, err).Error()
				return nil
			}
			if len(configs) > 0 {
				config := configs[0]
				entries[i].Config = &config
			}
			return nil
		})
	}
	_ = g.Wait()

	snapshot := model.FleetSnapshot{
		Cycle:     cycle,
		FetchedAt: a.now(),
		Entries:   entries,
	}

	// cycles may finish out of order; only one newer than what is shown
	// gets published, and never once the caller has gone away
	a.mu.Lock()
	if err := ctx.Err(); err != nil {
		current := a.snapshot
		a.mu.Unlock()
		return current, err
	}
	if cycle <= a.applied {
		a.stats.Stale++
		applied, current := a.applied, a.snapshot
		a.mu.Unlock()
		a.logger.PollDiscarded(cycle, applied)
		return current, ErrStaleCycle
	}
	a.applied = cycle
	a.snapshot = snapshot
	a.stats.Applied++
	a.mu.Unlock()

	a.logger.PollCycle(cycle, len(entries), a.now().Sub(started))
	return snapshot, nil
}
