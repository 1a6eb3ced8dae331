package cli

import (
	"github.com/spf13/cobra"
	"github.com/sprite-ai/insight/internal/client"
	"github.com/sprite-ai/insight/internal/logger"
	"github.com/sprite-ai/insight/internal/session"
	"github.com/sprite-ai/insight/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive analysis console",
	Long: `Open a terminal console with a multi-line repository box, an optional
query and an Analyze trigger. Results replace the panels below the inputs.

Keys:
  tab / shift+tab  move between fields
  ctrl+s           analyze
  enter            analyze (from the query field or the button)
  f1               help
  esc / ctrl+c     quit`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	log := logger.Get()
	log.Info("console starting", "endpoint", cfg.Endpoint)

	ctrl := session.NewController(log)
	return tui.Run(cmd.Context(), ctrl, client.New(cfg.Endpoint))
}
