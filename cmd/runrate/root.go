package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/config"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/dataset"
	apierrors "github.com/shanawarAnsari/intelliplan-sub001/internal/errors"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/infrastructure"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/services"
	"github.com/shanawarAnsari/intelliplan-sub001/pkg/contracts"
)

type rootOptions struct {
	configFile string
	baseDir    string
	datasetArg string

	// now pins the forecast clock; nil uses the wall clock.
	now func() time.Time

	cfg     *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	service *services.ForecastService
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runrate",
		Short: "Run rate shipment forecasts from the command line",
		Long: `runrate loads the configured forecast dataset, projects the current month's
shipments from the historical run rate and prints or exports the result.`,
		Version:      contracts.GetFullVersionString(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (default: search the usual locations)")
	cmd.PersistentFlags().StringVar(&opts.baseDir, "base-dir", "", "Base directory for data, reports and logs")
	cmd.PersistentFlags().StringVar(&opts.datasetArg, "dataset", "", "Dataset file; relative paths are read from the data directory")

	cmd.AddCommand(newComputeCmd(opts), newExportCmd(opts))
	return cmd
}

// setup loads configuration and the dataset shared by every subcommand.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	// One trace id per invocation ties the log lines of a run together.
	cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))

	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFrom(o.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if o.baseDir != "" {
		cfg.Paths.BaseDir = o.baseDir
	}
	if o.datasetArg != "" {
		cfg.Dataset.Path = o.datasetArg
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return err
	}

	// Logs go to stderr so stdout stays clean for JSON output.
	logger := infrastructure.NewLoggerWithWriter(cmd.ErrOrStderr(), cfg.Logging)

	source := dataset.NewFileSource(cfg.DatasetPath(paths), logger,
		dataset.WithFormat(dataset.Format(cfg.Dataset.Format)),
		dataset.WithSheet(cfg.Dataset.Sheet))

	svcOpts := []services.ForecastOption{
		services.WithForecastLogger(logger),
		services.WithForecastDefaults(cfg.Forecast),
	}
	if o.now != nil {
		svcOpts = append(svcOpts, services.WithServiceClock(o.now))
	}
	svc := services.NewForecastService(source, svcOpts...)

	if _, err := svc.Reload(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load dataset %s: %w", source.Describe(), err)
	}

	o.cfg, o.paths, o.logger, o.service = cfg, paths, logger, svc
	return nil
}

// describeError flattens validation details into one line.
func describeError(err error) error {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	details, ok := apiErr.Details.(apierrors.ValidationErrors)
	if !ok || len(details.Errors) == 0 {
		return err
	}

	parts := make([]string, 0, len(details.Errors))
	for _, e := range details.Errors {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return fmt.Errorf("%s: %s", apiErr.Message, strings.Join(parts, "; "))
}
