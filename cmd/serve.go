package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/panecast/panecast/internal/signaling"
	"github.com/panecast/panecast/internal/ui"
	"github.com/spf13/cobra"
)

var (
	flagServeAddr    string
	flagServeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the polling rendezvous server",
	Long: `Host the rendezvous endpoint that providers and consumers use to find
each other and exchange connection-negotiation messages.

Examples:
  panecast serve
  panecast serve --addr :8787`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	server := signaling.NewServer(flagServeTimeout)

	ui.PrintInfof("Rendezvous server listening on %s", flagServeAddr)

	srv := &http.Server{
		Addr:              flagServeAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("rendezvous server: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&flagServeAddr, "addr", "a", ":8787", "Listen address")
	serveCmd.Flags().DurationVar(&flagServeTimeout, "participant-timeout", signaling.DefaultParticipantTimeout, "Evict participants that stop polling for this long")
}
