package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Avi18971911/product-reindexer/pkg/elasticsearch/client"
	"github.com/Avi18971911/product-reindexer/pkg/source"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	ExitSuccess       = 0
	ExitFatal         = 1
	ExitConfigInvalid = 2
)

// ClosableSource is a record source that holds a connection.
type ClosableSource interface {
	source.RecordSource
	Close() error
}

type IndexClientFactory func(cfg elasticsearch.Config) (client.IndexClient, error)

type SourceOpener func(ctx context.Context, cfg source.Config, logger *zap.Logger) (ClosableSource, error)

type LoggerFactory func(debug bool) (*zap.Logger, error)

// App wires the command line to the reindex pipeline. The factories are swappable for tests.
type App struct {
	stdout         io.Writer
	stderr         io.Writer
	newIndexClient IndexClientFactory
	openSource     SourceOpener
	newLogger      LoggerFactory
}

type AppOption func(*App)

func WithIndexClientFactory(f IndexClientFactory) AppOption {
	return func(a *App) {
		a.newIndexClient = f
	}
}

func WithSourceOpener(f SourceOpener) AppOption {
	return func(a *App) {
		a.openSource = f
	}
}

func WithLoggerFactory(f LoggerFactory) AppOption {
	return func(a *App) {
		a.newLogger = f
	}
}

func NewApp(stdout io.Writer, stderr io.Writer, opts ...AppOption) *App {
	a := &App{
		stdout:         stdout,
		stderr:         stderr,
		newIndexClient: defaultIndexClient,
		openSource:     defaultSourceOpener,
		newLogger:      defaultLogger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// exitError carries the process exit code chosen by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// Run executes the command line in args and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.code != ExitSuccess {
			fmt.Fprintln(a.stderr, exitErr.err)
		}
		return exitErr.code
	}
	fmt.Fprintln(a.stderr, err)
	return ExitFatal
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "reindexer",
		Short:         "Rebuild search indexes from the relational catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(ExitConfigInvalid, err)
	})
	root.AddCommand(a.indexProductsCommand())
	return root
}

func defaultIndexClient(cfg elasticsearch.Config) (client.IndexClient, error) {
	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return client.NewIndexClientImpl(es, client.Async), nil
}

func defaultSourceOpener(ctx context.Context, cfg source.Config, logger *zap.Logger) (ClosableSource, error) {
	return source.Open(ctx, cfg, logger)
}

func defaultLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
