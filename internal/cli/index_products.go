package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Avi18971911/product-reindexer/internal/config"
	"github.com/Avi18971911/product-reindexer/internal/console"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"github.com/Avi18971911/product-reindexer/pkg/reindex/service"
	"github.com/Avi18971911/product-reindexer/pkg/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type indexProductsFlags struct {
	configPath   string
	envFile      string
	proceedOnRed bool
	batchSize    int
	reportFile   string
	debug        bool
}

func (a *App) indexProductsCommand() *cobra.Command {
	var flags indexProductsFlags
	cmd := &cobra.Command{
		Use:   "index-products",
		Short: "Drop, recreate and fill the products index from the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return withCode(ExitConfigInvalid, err)
			}
			return a.runIndexProducts(cmd.Context(), cfg, flags.debug)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	cmd.Flags().BoolVar(&flags.proceedOnRed, "proceed-on-red", false, "keep going when the cluster stays red")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", 0, "records per bulk request")
	cmd.Flags().StringVar(&flags.reportFile, "report-file", "", "write the run report as JSON to this path")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "development logging")
	return cmd
}

// loadConfig applies flags on top of file and environment settings.
func loadConfig(cmd *cobra.Command, flags indexProductsFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath, flags.envFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("proceed-on-red") {
		cfg.Pipeline.ProceedOnRed = flags.proceedOnRed
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.Pipeline.BatchSize = flags.batchSize
	}
	if cmd.Flags().Changed("report-file") {
		cfg.Report.File = flags.reportFile
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (a *App) runIndexProducts(ctx context.Context, cfg config.Config, debug bool) error {
	logger, err := a.newLogger(debug)
	if err != nil {
		return withCode(ExitFatal, fmt.Errorf("failed to create logger: %w", err))
	}
	defer logger.Sync()

	printer := console.NewPrinter(a.stdout)

	sink, err := buildSink(cfg)
	if err != nil {
		return withCode(ExitConfigInvalid, err)
	}

	ic, err := a.newIndexClient(cfg.ElasticsearchClientConfig())
	if err != nil {
		return withCode(ExitFatal, err)
	}

	src, err := a.openSource(ctx, cfg.SourceConfig(), logger)
	if err != nil {
		return withCode(ExitFatal, fmt.Errorf("failed to open record source: %w", err))
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.Warn("Failed to close record source", zap.Error(err))
		}
	}()

	pipeline, err := service.NewPipeline(
		ic,
		src,
		cfg.ServiceConfig(),
		logger,
		service.WithObserver(console.NewProgressObserver(printer)),
	)
	if err != nil {
		return withCode(ExitConfigInvalid, err)
	}

	printer.Info("rebuilding index %s", cfg.Index.Name)
	rep, runErr := pipeline.Run(ctx)
	if hasReport(rep, runErr) {
		printer.Summary(rep)
		if sink != nil {
			// a cancelled run still gets its report saved
			if err := sink.Publish(context.WithoutCancel(ctx), rep); err != nil {
				logger.Error("Failed to publish run report", zap.Error(err))
				printer.Warning("run report was not saved: %v", err)
			}
		}
	}
	if runErr != nil {
		printer.Error("%v", runErr)
		return withCode(ExitFatal, runErr)
	}
	return nil
}

// hasReport reports whether the run got as far as reading records, so its report carries counts.
func hasReport(rep model.Report, runErr error) bool {
	if runErr == nil {
		return true
	}
	if rep.Expected == 0 && rep.Attempted == 0 {
		return false
	}
	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		return true
	}
	var sourceErr *service.SourceError
	return errors.As(runErr, &sourceErr) && sourceErr.Op == service.SourceOpPage
}

func buildSink(cfg config.Config) (report.Sink, error) {
	var sinks report.MultiSink
	if cfg.Report.File != "" {
		sinks = append(sinks, report.NewFileSink(cfg.Report.File))
	}
	if objectStore, enabled := cfg.ObjectStoreConfig(); enabled {
		s3, err := report.NewObjectStoreSink(objectStore)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s3)
	}
	if len(sinks) == 0 {
		return nil, nil
	}
	return sinks, nil
}
