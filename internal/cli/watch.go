package cli

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/fieldobs/internal/watch"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	GenerateOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{GenerateOptions: GenerateOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "watch [schema-path]",
		Short: "Regenerate whenever the schema changes",
		Long: `Generate once, then regenerate every time a schema input changes.

Bursts of writes are coalesced. Errors are logged and watching continues;
stop with Ctrl-C.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, opts, schemaPath(args), cmd)
		},
	}

	addGenerateFlags(cmd, &opts.GenerateOptions)
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")

	return cmd
}

func runWatch(ctx context.Context, opts *WatchOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()

	if opts.Out == "-" {
		return commandError(formatter, ErrCodeGeneric, "watch cannot write to stdout")
	}
	loaded, err := LoadSchema(LoadRequest{Path: path, Source: opts.Source, Output: opts.Out})
	if err != nil {
		return reportGenerateError(formatter, err)
	}

	w, err := watch.New(opts.Debounce)
	if err != nil {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}
	defer w.Close()

	output := filepath.Base(outputPath(opts.Out, loaded))
	switch {
	case loaded.Source == SourceGo:
		err = w.Dir(loaded.Dir, func(name string) bool { return isGoInput(name, output) })
	case isDir(path):
		err = w.Dir(loaded.Dir, func(name string) bool { return strings.HasSuffix(name, ".cue") })
	default:
		err = w.File(path)
	}
	if err != nil {
		return commandError(formatter, ErrCodeNotFound, err.Error())
	}

	regenerate := func() {
		res, err := generate(&opts.GenerateOptions, path, cmd)
		if err != nil {
			var vf *validationFailure
			if errors.As(err, &vf) {
				for _, ve := range vf.errs {
					log.Error("invalid schema", "code", ve.Code, "field", ve.Field, "message", ve.Message)
				}
				return
			}
			log.Error("generate failed", "err", err)
			return
		}
		if !res.Changed {
			log.Info("up to date", "output", res.Output)
		}
	}

	regenerate()
	w.OnChange = func(paths []string) error {
		log.Info("schema changed", "files", paths)
		regenerate()
		return nil
	}
	w.OnError = func(err error) {
		log.Error("watch error", "err", err)
	}

	log.Info("watching", "path", path, "source", loaded.Source)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return commandError(formatter, ErrCodeGeneric, err.Error())
	}
	return nil
}
