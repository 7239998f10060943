package commands

import (
	"github.com/leapstack-labs/sqlsift/internal/cli/config"
	"github.com/leapstack-labs/sqlsift/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start an HTTP server exposing extraction at POST /api/source-tables.
The endpoint accepts JSON with either raw SQL ("input") or
base64-encoded file content ("file_content").`,
		Example: `  sqlsift serve
  sqlsift serve --addr :9090`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			srvCfg := cfg.GetServerConfig()
			if addr != "" {
				srvCfg.Addr = addr
			}

			srv := server.New(server.Config{
				Addr:            srvCfg.Addr,
				MaxRequestBytes: srvCfg.MaxRequestBytes,
				DefaultDatabase: cfg.DefaultDatabase,
				Logger:          config.GetLogger(ctx),
			})
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")

	return cmd
}
