package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/panecast/panecast/internal/session"
	"github.com/panecast/panecast/internal/ui"
	"github.com/spf13/cobra"
)

var viewFlags connectionFlags

var viewCmd = &cobra.Command{
	Use:     "view",
	Aliases: []string{"v"},
	Short:   "Connect to a provider and control its shared window",
	Long: `Discover a provider through the rendezvous server, receive its window
stream, and forward local mouse, wheel, keyboard and resize events back to it.

Examples:
  panecast view
  panecast view --domain localhost:8787
  panecast view --relay`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView()
	},
}

func runView() error {
	cfg, err := LoadConfig(&viewFlags)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopSpinner := ui.RunConnectionSpinner("Preparing connection...")
	iceServers := session.ICEServers(ctx, cfg)
	stopSpinner()

	renderer := session.NewHeadlessRenderer()
	defer renderer.Close()

	consumer := session.NewConsumer(cfg, iceServers, renderer)
	machine := session.NewMachine(cfg, consumer)

	done := make(chan error, 1)
	go func() {
		done <- machine.Run(ctx)
	}()

	if err := ui.RunStatus("view", machine.Events(), done); err != nil {
		if errors.Is(err, session.ErrNoRemoteFound) {
			return fmt.Errorf("no provider is signed in: start 'panecast share' on the remote machine first")
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(viewCmd)
	registerConnectionFlags(viewCmd, &viewFlags)
}
