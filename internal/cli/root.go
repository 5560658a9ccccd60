// Package cli implements fleetctl, the command line client for the fleet
// API.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"fleet-dashboard/internal/config"
	"fleet-dashboard/internal/pkg/fleet"
	"fleet-dashboard/internal/pkg/logger"
	"fleet-dashboard/internal/service"
)

type options struct {
	configFile string
	baseURL    string
	verbose    bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "fleetctl",
		Short:         "Inspect and drive the DAQ control-node fleet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (default $FLEET_CONFIG_FILE)")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "fleet API base URL (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newStatusCommand(opts),
		newDispatchCommand(opts),
		newDispatchAllCommand(opts),
		newLogsCommand(opts),
		newWatchCommand(opts),
	)
	return root
}

func Execute() error {
	_ = config.LoadDotEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

type session struct {
	config *config.Config
	logger *logger.Logger
	panel  *service.FleetPanel
}

func (s *session) Close() {
	s.panel.Deactivate()
	_ = s.logger.Sync()
}

// open loads configuration and builds a panel. One-shot commands log
// warnings to stderr; watch sends everything to a file so the terminal
// stays clean.
func (o *options) open(toFile bool) (*session, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		cfg.Fleet.BaseURL = o.baseURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logging := cfg.Logging
	switch {
	case o.verbose:
		logging.Level = "debug"
	case !toFile:
		logging.Level = "warn"
	}
	logging.Format = "console"
	if toFile && logging.File == "" {
		logging.File = filepath.Join(os.TempDir(), "fleetctl.log")
	}
	log, err := logger.NewLogger(logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	client, err := newFleetClient(cfg.Fleet)
	if err != nil {
		return nil, err
	}
	return &session{
		config: cfg,
		logger: log,
		panel:  service.NewFleetPanel(client, cfg.Fleet.PollInterval(), log),
	}, nil
}

// newFleetClient builds a client for the configured fleet API. A configured
// token wins over the session cookie.
func newFleetClient(cfg config.FleetConfig) (*fleet.Client, error) {
	return fleet.NewClient(fleet.ClientConfig{
		BaseURL:     cfg.BaseURL,
		NodesPath:   cfg.NodesPath,
		OverallPath: cfg.OverallPath,
		RoutersPath: cfg.RoutersPath,
		LogsPath:    cfg.LogsPath,
		Timeout:     cfg.Timeout(),
		CSRFHeader:  cfg.CSRFHeader,
		Tokens:      fleet.StaticToken(cfg.CSRFToken),
		CSRFCookie:  cfg.CSRFCookie,
	})
}
