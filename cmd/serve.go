package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"forgelab.xyz/pktforge/internal/record"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the record server",
	Long: `
Listen for record clients and log each received record. The server runs
until interrupted.

Examples:
  pktforge serve                        # listen on the configured address
  pktforge serve --listen 0.0.0.0:5555
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen := cfg.Serve.Listen
		if cmd.Flags().Changed("listen") {
			listen = serveListen
		}

		ctx, stop := signal.NotifyContext(context.Background(),
			syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return record.NewServer(listen).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "127.0.0.1:9999",
		"address to listen on")
	rootCmd.AddCommand(serveCmd)
}
