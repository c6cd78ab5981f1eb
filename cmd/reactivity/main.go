package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactivity/internal/config"
	"github.com/vango-dev/reactivity/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "reactivity",
		Short: "Inspect and exercise a fine-grained reactive runtime",
		Long: `reactivity drives the dependency-tracking runtime from the command line.

  • demo      run the reference scenarios and a render walkthrough
  • serve     start the devtools server with live config reload
  • snapshot  export the dependency graph to a directory or S3
  • version   print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to reactivity.yaml or reactivity.json")
	pf.StringVar(&flags.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Override log format (text, json)")

	rootCmd.AddCommand(
		demoCmd(flags),
		serveCmd(flags),
		snapshotCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig resolves the configuration: the --config file, a config file in
// the working directory, or the defaults. Flag overrides are applied last.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case flags.configPath != "":
		c, err := config.LoadFile(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		if _, ok := config.Find("."); ok {
			c, err := config.Load(".")
			if err != nil {
				return nil, err
			}
			cfg = c
		} else {
			cfg = config.New()
		}
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. The level is read from level so it
// can change after construction.
func newLogger(w io.Writer, format string, level *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// failure prints a failure message.
func failure(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
