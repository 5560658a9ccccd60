package service

import (
	"context"
	"errors"
	"sync"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/internal/pkg/logger"
	"fleet-dashboard/pkg/utils"
)

var ErrModalSuperseded = errors.New("log request superseded")

type LogFetcher interface {
	FetchLogFile(ctx context.Context, node model.Node) (string, error)
}

// LogModal holds the one log viewer shown fleet-wide. It is a snapshot of
// the log at open time and never refreshes itself.
type LogModal struct {
	fetcher LogFetcher
	logger  *logger.Logger

	mu    sync.Mutex
	seq   uint64
	state model.LogModalState
}

func NewLogModal(fetcher LogFetcher, log *logger.Logger) *LogModal {
	if log == nil {
		log = logger.NewNop()
	}
	return &LogModal{fetcher: fetcher, logger: log}
}

// Open fetches the node's log and shows it, replacing any open modal. On
// failure the modal state is left as it was.
func (m *LogModal) Open(ctx context.Context, node model.Node) error {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.mu.Unlock()

	content, err := m.fetcher.FetchLogFile(ctx, node)
	if err != nil {
		return utils.NewLogFetchError(node.Name, err)
	}
	m.logger.LogFetched(node.Name, len(content))

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.seq {
		return ErrModalSuperseded
	}
	m.state = model.LogModalState{
		Visible: true,
		Node:    node.Name,
		Content: content,
	}
	return nil
}

func (m *LogModal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.state = model.LogModalState{}
}

func (m *LogModal) State() model.LogModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
