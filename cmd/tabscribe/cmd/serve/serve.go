package serve

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/shared"
	"github.com/Elandig/tabscribe/internal/api/server"
)

var (
	host            string
	port            string
	shutdownTimeout time.Duration
)

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen host (default from settings)")
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default from settings)")
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "grace period for in-flight requests")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP API and resume unfinished transcriptions",
	Long: `Run the local HTTP API and resume unfinished transcriptions

- Jobs left in flight by an earlier process are resumed, or failed when older than the timeout
- The browser UI binds to /api/v1 and follows progress through /api/v1/events`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := shared.SignalContext(cmd.Context())
		defer stop()

		resumed, err := application.Manager.ResumeAll(ctx)
		if err != nil {
			return fmt.Errorf("resume transcriptions: %w", err)
		}
		application.Logger.Info("resumed transcriptions", zap.Int("polling", resumed))

		cfg := server.ConfigFrom(application)
		if host != "" {
			cfg.Host = host
		}
		if port != "" {
			cfg.Port = port
		}

		srv := server.NewServer(cfg, application)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "tabscribe listening on http://%s:%s\n", cfg.Host, cfg.Port)

		select {
		case <-ctx.Done():
		case err := <-srv.Errors():
			if err != nil {
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
