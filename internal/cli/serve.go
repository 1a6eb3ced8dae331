package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/sprite-ai/insight/internal/api"
	"github.com/sprite-ai/insight/internal/config"
	"github.com/sprite-ai/insight/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local analysis service",
	Long: `Start an HTTP server implementing the analysis service the console talks to.

Endpoints:
  GET  /health       Health check
  POST /analyze      Analyze repositories ({"repos": [...], "query": "..."})
  POST /api/analyze  Same as /analyze
  GET  /api/ws       WebSocket streaming stage progress and the result`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", config.DefaultAddr, "address to listen on")
	serveCmd.Flags().IntP("port", "p", config.DefaultPort, "port to listen on")
	serveCmd.Flags().String("allow-origin", config.DefaultAllowOrigin, `CORS origin allowed to call the service ("*" for any)`)
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := api.New(cfg.ListenAddr(), api.WithAllowOrigin(cfg.AllowOrigin))
	fmt.Fprintf(cmd.OutOrStdout(), "insight analysis service listening on http://%s\n", srv.Addr())

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}

	logger.Get().Info("shutting down analysis service")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
