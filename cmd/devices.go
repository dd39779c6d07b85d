package cmd

import (
	"github.com/panecast/panecast/internal/capture"
	"github.com/panecast/panecast/internal/session"
	"github.com/panecast/panecast/internal/ui"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:     "devices",
	Aliases: []string{"d", "ls"},
	Short:   "List enumerable capture sources",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := capture.NewNullService()

		devices, err := svc.Devices()
		if err != nil {
			return session.NewError("enumerate capture sources", err)
		}

		ui.RenderDeviceTable(devices)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
