package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/siadrive/siadrive-ui/internal/version"
)

// Host represents a SiaDrive host advertising its bridge on the network
type Host struct {
	// Instance is the mDNS instance name (e.g., "SiaDrive on studio")
	Instance string

	// Hostname is the mDNS hostname (e.g., "studio.local.")
	Hostname string

	// IP is the address to dial, IPv4 when one was advertised
	IP string

	// Port is the bridge port
	Port int

	// Path is the websocket path from the "path" TXT record
	Path string

	// Version is the host daemon version from the "version" TXT record
	Version string

	// Metadata contains every TXT record
	Metadata map[string]string

	// DiscoveredAt is when the host was seen
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the host
func (h *Host) String() string {
	return fmt.Sprintf("SiaDrive host %q (%s) at %s", h.Instance, h.Hostname, net.JoinHostPort(h.IP, strconv.Itoa(h.Port)))
}

// URL returns the websocket URL of the host's bridge. Hosts serving TLS
// advertise scheme=wss.
func (h *Host) URL() string {
	scheme := "ws"
	if h.GetMetadata("scheme") == "wss" {
		scheme = "wss"
	}
	path := h.Path
	if path == "" {
		path = DefaultPath
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return scheme + "://" + net.JoinHostPort(h.IP, strconv.Itoa(h.Port)) + path
}

// Compatible reports whether this UI can drive the host's version. Hosts
// that do not advertise a version are assumed compatible.
func (h *Host) Compatible() bool {
	if h.Version == "" {
		return true
	}
	return version.CompatibleHost(h.Version)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (h *Host) GetMetadata(key string) string {
	if h.Metadata == nil {
		return ""
	}
	return h.Metadata[key]
}
