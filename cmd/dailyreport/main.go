// Command dailyreport drives the daily-report comparison API from a terminal:
// browse projects, upload reports, pick the final file and run anomaly
// comparisons. Working state is kept in a YAML file between runs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docreview-backend/internal/appstate"
	"docreview-backend/internal/backend"
	"docreview-backend/internal/finals"
	"docreview-backend/internal/shared/telemetry"
)

const defaultAPIURL = "http://localhost:8080/api"

// options holds the persistent flags shared by every command.
type options struct {
	apiURL    string
	statePath string
	verbose   bool
	plain     bool
	timeout   time.Duration

	logger *zap.Logger
}

// session is what a command works with once flags are parsed.
type session struct {
	client   *backend.Client
	state    *appstate.Store
	registry *finals.Registry
}

func (o *options) open() (*session, error) {
	st, err := appstate.Load(o.statePath)
	if err != nil {
		return nil, err
	}
	return &session{
		client:   backend.New(o.apiURL, nil),
		state:    st,
		registry: finals.NewRegistry(st),
	}, nil
}

// context returns a context bounded by --timeout and cancelled on SIGINT.
func (o *options) context() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func defaultStatePath() string {
	if p := os.Getenv("DAILYREPORT_STATE"); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "dailyreport", "state.yaml")
	}
	return ".dailyreport.yaml"
}

func defaultAPI() string {
	if u := os.Getenv("DAILYREPORT_API_URL"); u != "" {
		return u
	}
	return defaultAPIURL
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "dailyreport",
		Short: "Compare daily construction reports against the final document",
		Long: `dailyreport talks to the daily-report API.

Upload daily reports, mark one file per project as the final document and
run an anomaly comparison between a daily report and that final file.

Selections, final files and the last report are remembered in the state
file (--state, or DAILYREPORT_STATE).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			telemetry.SetLogger(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", defaultAPI(), "API base URL (or set DAILYREPORT_API_URL)")
	root.PersistentFlags().StringVar(&opts.statePath, "state", defaultStatePath(), "State file (or set DAILYREPORT_STATE)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().BoolVar(&opts.plain, "plain", false, "Print markdown answers without terminal rendering")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Operation timeout")

	root.AddCommand(
		newProjectsCmd(opts),
		newFilesCmd(opts),
		newUploadCmd(opts),
		newDeleteCmd(opts),
		newSelectCmd(opts),
		newFinalCmd(opts),
		newFinalizeCmd(opts),
		newCompareCmd(opts),
		newChartCmd(opts),
		newProgressCmd(opts),
		newChatCmd(opts),
		newSummaryCmd(opts),
		newContractsCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
