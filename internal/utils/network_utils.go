package utils

import (
	"net"
	"strings"
)

// ShouldForceRelay checks if the system is likely behind a restrictive VPN or CGNAT
// and returns true if we should force TURN usage.
func ShouldForceRelay() bool {
	interfaces, err := net.Interfaces()
	if err != nil {
		return false
	}

	// CGNAT range (100.64.0.0/10). Cloudflare WARP, Tailscale, and
	// carrier-grade NATs use this; direct P2P from inside it usually
	// needs a relay anyway.
	_, cgnatBlock, _ := net.ParseCIDR("100.64.0.0/10")

	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		name := strings.ToLower(iface.Name)
		if strings.Contains(name, "tun") || // Standard VPNs (OpenVPN, etc)
			strings.Contains(name, "tap") || // Virtual adapters
			strings.Contains(name, "wg") || // WireGuard
			strings.Contains(name, "ppp") || // Point-to-Point
			strings.Contains(name, "warp") { // Explicit WARP
			return true
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			if cgnatBlock.Contains(ip) {
				return true
			}
		}
	}

	return false
}
