package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/panecast/panecast/internal/capture"
	"github.com/panecast/panecast/internal/input"
	"github.com/panecast/panecast/internal/session"
	"github.com/panecast/panecast/internal/ui"
	"github.com/spf13/cobra"
)

var (
	shareFlags      connectionFlags
	flagShareDevice string
	flagShareTarget string
)

var shareCmd = &cobra.Command{
	Use:     "share",
	Aliases: []string{"s"},
	Short:   "Share a captured window and accept remote input",
	Long: `Expose a capture source as an outbound window stream and replay the
consumer's input events against the designated target surface.

Examples:
  panecast share
  panecast share --device null:0
  panecast share --target-surface 0x4a0002b`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShare()
	},
}

func runShare() error {
	cfg, err := LoadConfig(&shareFlags)
	if err != nil {
		return err
	}

	// The capture stream is acquired before the first sign-in; the
	// session machinery only ever sees the resulting track.
	svc := capture.NewNullService()
	device, err := pickDevice(svc, flagShareDevice)
	if err != nil {
		return err
	}

	stream, err := svc.CreateStream(device)
	if err != nil {
		return session.NewError("create capture stream", err)
	}
	defer stream.Close()
	ui.PrintSuccessf("Capturing %s", device.Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopSpinner := ui.RunConnectionSpinner("Preparing connection...")
	iceServers := session.ICEServers(ctx, cfg)
	stopSpinner()

	target := flagShareTarget
	if target == "" {
		target = device.ID
	}
	translator := input.NewTranslator(input.NewLogSurface(target))

	provider := session.NewProvider(cfg, iceServers, stream, translator)
	machine := session.NewMachine(cfg, provider)

	done := make(chan error, 1)
	go func() {
		done <- machine.Run(ctx)
	}()

	if err := ui.RunStatus("share", machine.Events(), done); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

func pickDevice(svc capture.Service, wanted string) (capture.Device, error) {
	devices, err := svc.Devices()
	if err != nil {
		return capture.Device{}, session.NewError("enumerate capture sources", err)
	}
	if len(devices) == 0 {
		return capture.Device{}, fmt.Errorf("no capture sources available")
	}

	if wanted == "" {
		return devices[0], nil
	}

	for _, d := range devices {
		if d.ID == wanted {
			return d, nil
		}
	}
	return capture.Device{}, fmt.Errorf("unknown capture source %q", wanted)
}

func init() {
	rootCmd.AddCommand(shareCmd)
	registerConnectionFlags(shareCmd, &shareFlags)
	shareCmd.Flags().StringVarP(&flagShareDevice, "device", "d", "", "Capture source id to share")
	shareCmd.Flags().StringVar(&flagShareTarget, "target-surface", "", "Opaque surface id input is replayed against")
}
