// Package cmd holds the riskscore CLI commands.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/bibbank/riskscore/internal/domain/service"
	"github.com/bibbank/riskscore/internal/infrastructure/config"
	"github.com/bibbank/riskscore/internal/infrastructure/messaging"
	"github.com/bibbank/riskscore/internal/infrastructure/metrics"
	"github.com/bibbank/riskscore/pkg/observability"
)

const (
	serviceName = "riskscore"
	eventTopic  = "riskscore.events"
)

// app carries the wired dependencies shared by every subcommand.
type app struct {
	cfg       *config.Config
	scoring   service.ScoringConfig
	logger    *slog.Logger
	scorer    *service.CompositeScorer
	publisher *messaging.LogPublisher
	recorder  *metrics.Recorder
	provider  *sdkmetric.MeterProvider
	registry  *prometheus.Registry
	shutdown  observability.ShutdownFunc
}

type rootOptions struct {
	cfgFile     string
	logLevel    string
	dumpMetrics bool
}

// Execute runs the root command against the process arguments.
func Execute() error {
	return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// Run builds a fresh command tree, executes it with args and releases the
// telemetry providers afterwards, whether or not the command succeeded.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	opts := &rootOptions{}
	a := &app{}

	root := newRootCmd(a, opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	defer func() {
		err = errors.Join(err, a.close(context.WithoutCancel(ctx), stderr, opts))
	}()

	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app, opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "riskscore",
		Short: "Composite risk and health scoring",
		Long: `Composite risk and health scoring.

Scores records from a snapshot export against weighted signals, classifies
each score into a tier and ranks the collection with an aggregate summary.

Commands:
    score    score a single entity
    rank     rank every entity in a snapshot`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "YAML tunables file (default $SCORING_CONFIG_FILE)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.dumpMetrics, "metrics", false, "write Prometheus metrics to stderr on exit")

	root.AddCommand(newScoreCmd(a))
	root.AddCommand(newRankCmd(a))

	return root
}

func (a *app) init(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	a.cfg = cfg

	a.logger = observability.InitLogger(observability.LogConfig{
		Output: cmd.ErrOrStderr(),
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	a.shutdown, err = observability.InitTracer(cmd.Context(), observability.TracingConfig{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.Environment == "development",
	})
	if err != nil {
		return err
	}

	a.provider, a.registry, err = observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		return err
	}
	a.recorder, err = metrics.NewRecorder(a.provider)
	if err != nil {
		return err
	}

	a.scoring, err = cfg.ScoringConfig()
	if err != nil {
		return err
	}
	a.scorer, err = service.NewCompositeScorer(a.scoring, nil)
	if err != nil {
		return err
	}
	a.publisher = messaging.NewLogPublisher(eventTopic, a.logger)

	a.logger.Debug("riskscore initialised",
		slog.String("environment", cfg.Environment),
		slog.String("config_file", cfg.ConfigFile),
		slog.Int("signals", len(a.scoring.Signals)),
	)
	return nil
}

// close dumps metrics when requested and shuts the providers down. Providers
// that were never initialised are skipped.
func (a *app) close(ctx context.Context, stderr io.Writer, opts *rootOptions) error {
	var errs []error

	if opts.dumpMetrics && a.registry != nil {
		errs = append(errs, observability.WriteMetrics(stderr, a.registry))
	}
	if a.provider != nil {
		errs = append(errs, a.provider.Shutdown(ctx))
	}
	if a.shutdown != nil {
		errs = append(errs, a.shutdown(ctx))
	}

	return errors.Join(errs...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
