// Package cli contains the fastimage command tree
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"fastimage"
	"fastimage/internal/config"
	"fastimage/internal/output"
)

// ErrAnalysisFailed is returned when at least one locator could not be
// analyzed. The individual errors have already been printed.
var ErrAnalysisFailed = errors.New("one or more analyses failed")

type app struct {
	cfgFile      string
	verbose      bool
	outputFormat string
	noColor      bool

	version  string
	cfg      *config.Config
	format   output.Format
	logger   *slog.Logger
	printer  *output.Printer
	analyzer *fastimage.Analyzer
}

// NewRootCommand builds the command tree. Each call returns an independent
// tree so that flag state is never shared between invocations.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version}

	rootCmd := &cobra.Command{
		Use:   "fastimage",
		Short: "Find image sizes and types by reading as little as possible",
		Long: `fastimage reports the format and pixel dimensions of local files and
remote http(s) images. It reads only as many bytes as the image header
needs and then stops the transfer.

Example usage:
  fastimage analyze photo.jpg https://example.com/banner.png
  fastimage size https://example.com/banner.png
  fastimage type logo.svg
  fastimage analyze -o json *.webp`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .fastimage.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&a.outputFormat, "output", "o", "", "output format: table or json (default from config)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newAnalyzeCommand(a),
		newSizeCommand(a),
		newTypeCommand(a),
		newVersionCommand(a),
	)
	return rootCmd
}

// Execute runs the command tree with the given context
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCommand(version)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch fastimage.KindOf(err) {
	case fastimage.KindInvalidLocator:
		return 2
	case fastimage.KindFilesystem, fastimage.KindNetwork:
		return 3
	case fastimage.KindUnsupportedFormat, fastimage.KindTruncatedData:
		return 4
	default:
		return 1
	}
}

// init loads configuration and builds the logger, printer and analyzer.
func (a *app) init(cmd *cobra.Command) error {
	var err error

	a.cfg, err = config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a.logger = newLogger(cmd.ErrOrStderr(), a.cfg.Logging, a.verbose)

	formatName := a.cfg.Output.Format
	if a.outputFormat != "" {
		formatName = a.outputFormat
	}
	a.format, err = output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	a.printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(),
		output.ResolveColors(a.cfg.Output.Colors, a.noColor))

	opts := a.cfg.AnalyzerOptions()
	opts.Logger = a.logger
	a.analyzer = fastimage.New(opts)

	a.logger.Debug("configuration loaded",
		"max_buffer_bytes", a.cfg.Sniff.MaxBufferBytes,
		"chunk_size", a.cfg.Sniff.ChunkSize,
		"remote_timeout", a.cfg.Remote.Timeout,
		"max_redirects", a.cfg.Remote.MaxRedirects,
		"concurrency", a.cfg.Batch.Concurrency,
		"output", a.format,
	)

	return nil
}

func newLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
