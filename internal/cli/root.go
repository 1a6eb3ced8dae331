// Package cli wires the insight commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sprite-ai/insight/internal/config"
	"github.com/sprite-ai/insight/internal/logger"
)

// errReported marks a failure whose message has already been printed.
var errReported = errors.New("reported")

// cfg holds the validated configuration once setup has run.
var cfg = &config.Config{}

var rootCmd = &cobra.Command{
	Use:   "insight",
	Short: "Analyze GitHub repositories for framework and methodology trends",
	Long: `insight sends a list of repository URLs to an analysis service and shows
the aggregated trends, a CrewAI/LangChain comparison and a generated summary.

Running insight with no subcommand opens the interactive console.`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runConsole,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default is ./.insight.yaml or $HOME/.insight.yaml)")
	pf.StringP("endpoint", "e", config.DefaultEndpoint, "analysis service URL")
	pf.String("log-file", logger.DefaultPath(), "debug log file")
	pf.Bool("debug", false, "log at debug level")

	rootCmd.AddCommand(consoleCmd, analyzeCmd, serveCmd, versionCmd)
}

// setup resolves configuration from every source and starts the logger.
func setup(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	v := config.NewViper(configFile)
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	c, err := config.Load(v)
	if err != nil {
		return err
	}
	*cfg = *c

	if err := logger.Init(cfg.LogFile, cfg.Debug); err != nil {
		return err
	}
	logger.Get().Debug("config resolved",
		"command", cmd.Name(),
		"config_file", v.ConfigFileUsed(),
		"endpoint", cfg.Endpoint,
		"format", cfg.Format,
	)
	return nil
}

// Execute runs the root command. Errors not yet shown are printed to stderr.
// The log file is closed on every exit path.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = logger.Close() }()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
