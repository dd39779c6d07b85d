package cmd

import (
	"fmt"
	"time"

	"github.com/panecast/panecast/internal/config"
	"github.com/panecast/panecast/internal/session"
	"github.com/spf13/cobra"
)

// connectionFlags are the configuration overrides shared by the view
// and share commands.
type connectionFlags struct {
	domain       string
	pollInterval time.Duration
	name         string
	stun         string
	turn         string
	turnUser     string
	turnPass     string
	relay        bool
	credURL      string
	credKey      string
	bareShape    bool
}

func registerConnectionFlags(cmd *cobra.Command, flags *connectionFlags) {
	cmd.Flags().StringVar(&flags.domain, "domain", "", "Rendezvous server domain")
	cmd.Flags().DurationVar(&flags.pollInterval, "poll-interval", 0, "Roster poll interval")
	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "Display-name prefix for sign-in")
	cmd.Flags().StringVarP(&flags.stun, "stun", "s", "", "Custom STUN server")
	cmd.Flags().StringVarP(&flags.turn, "turn", "t", "", "Custom TURN server")
	cmd.Flags().StringVar(&flags.turnUser, "turn-user", "", "TURN username")
	cmd.Flags().StringVar(&flags.turnPass, "turn-pass", "", "TURN password")
	cmd.Flags().BoolVarP(&flags.relay, "relay", "r", false, "Force relay mode")
	cmd.Flags().StringVar(&flags.credURL, "credential-url", "", "Relay credential provisioning endpoint")
	cmd.Flags().StringVar(&flags.credKey, "credential-key", "", "Relay credential provisioning key")
	cmd.Flags().BoolVar(&flags.bareShape, "bare-candidates", false, "Send ICE candidates as bare fields instead of the wrapped shape")
}

// LoadConfig resolves configuration from flags, environment and
// defaults, and validates the relay combination.
func LoadConfig(flags *connectionFlags) (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		Domain:        flags.domain,
		PollInterval:  flags.pollInterval,
		NameBase:      flags.name,
		STUNServer:    flags.stun,
		TURNServer:    flags.turn,
		TURNUser:      flags.turnUser,
		TURNPass:      flags.turnPass,
		ForceRelay:    flags.relay,
		CredentialURL: flags.credURL,
		CredentialKey: flags.credKey,
		BareShape:     flags.bareShape,
	})
	if err != nil {
		return nil, session.NewError("load config", err)
	}

	if cfg.ForceRelay && cfg.GetTURNServers() == nil && cfg.CredentialURL == "" {
		return nil, fmt.Errorf("cannot force relay mode without a TURN server configured")
	}

	return cfg, nil
}
