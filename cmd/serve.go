package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mzavel/fasting-cli/internal/config"
	"github.com/mzavel/fasting-cli/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference sync server",
	Long: `Run the HTTP sync server the CLI talks to. Useful for self-hosting
or local development; point the CLI at it with --server or the config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = app.config.Serve.Addr
		}

		repo, err := server.NewRepository(config.GetServerDBPath(app.config))
		if err != nil {
			return fmt.Errorf("failed to open server database: %w", err)
		}
		defer repo.Close()

		fmt.Printf("🚀 Sync server listening on %s\n", addr)
		return server.NewRouter(repo).Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: from config, e.g. :8080)")
}
