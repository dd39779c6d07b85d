package cmd

import (
	"os"
	"os/signal"

	"github.com/panecast/panecast/internal/ui"
	"github.com/panecast/panecast/internal/version"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "panecast",
	Short:   "Stream a captured window peer-to-peer and control it remotely",
	Long:    `Panecast turns a local application window into a remotely-controllable surface. A provider streams a captured window over a WebRTC media channel; a consumer renders it and sends mouse, wheel, keyboard and resize events back over the session's data channel. Peers find each other through a small polling rendezvous server that panecast can also host itself.`,
	Version: version.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		os.Exit(0)
	}()

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
