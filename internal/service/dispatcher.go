package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/internal/pkg/logger"
	"fleet-dashboard/pkg/utils"
)

type Commander interface {
	PostTransition(ctx context.Context, node model.Node, action model.Action) error
}

type Refresher interface {
	Refresh(ctx context.Context) (model.FleetSnapshot, error)
	Snapshot() model.FleetSnapshot
}

// Dispatcher sends transition commands and re-polls on success. It never
// touches the snapshot itself; the next refresh is the only way a
// transition becomes visible.
type Dispatcher struct {
	commander Commander
	refresher Refresher
	logger    *logger.Logger
}

func NewDispatcher(commander Commander, refresher Refresher, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		commander: commander,
		refresher: refresher,
		logger:    log,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, node model.Node, action model.Action) error {
	id := uuid.NewString()

	if err := d.commander.PostTransition(ctx, node, action); err != nil {
		d.logger.TransitionFailed(id, node.Name, action.String(), err)
		return utils.NewTransitionError(node.Name, action.String(), err)
	}
	d.logger.TransitionDispatched(id, node.Name, action.String())

	d.refresh(ctx)
	return nil
}

// DispatchAll sends action to every node of the current snapshot. Each
// command is independent; one refresh follows if any of them succeeded.
func (d *Dispatcher) DispatchAll(ctx context.Context, action model.Action) []model.DispatchResult {
	nodes := d.refresher.Snapshot().Nodes()
	results := make([]model.DispatchResult, len(nodes))
	id := uuid.NewString()

	var g errgroup.Group
	for i, node := range nodes {
		g.Go(func() error {
			result := model.DispatchResult{Node: node.Name, Action: action.String(), Success: true}
			if err := d.commander.PostTransition(ctx, node, action); err != nil {
				d.logger.TransitionFailed(id, node.Name, action.String(), err)
				result.Success = false
				result.Error = utils.NewTransitionError(node.Name, action.String(), err).Error()
			} else {
				d.logger.TransitionDispatched(id, node.Name, action.String())
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Success {
			d.refresh(ctx)
			break
		}
	}
	return results
}

func (d *Dispatcher) refresh(ctx context.Context) {
	if _, err := d.refresher.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleCycle) {
		d.logger.Debug("refresh after transition failed", zap.Error(err))
	}
}
