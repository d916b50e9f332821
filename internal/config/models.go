package config

import (
	"sort"
	"time"
)

// CurrentVersion is the only config schema version this build reads.
const CurrentVersion = 1

// Registry represents the entire preferences file.
type Registry struct {
	Version     int              `yaml:"version"`
	Hosts       map[string]*Host `yaml:"hosts,omitempty"` // Keyed by bridge URL
	Preferences *Preferences     `yaml:"preferences,omitempty"`

	path string
}

// Host is a bridge endpoint the UI has connected to or discovered.
type Host struct {
	Nickname      string    `yaml:"nickname,omitempty"`
	ServerVersion string    `yaml:"server_version,omitempty"`
	LastSeen      time.Time `yaml:"last_seen,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	BridgeURL       string `yaml:"bridge_url,omitempty"` // Empty means discover
	DiscoverTimeout int    `yaml:"discover_timeout"`     // mDNS timeout in seconds
	LastDrive       string `yaml:"last_drive,omitempty"` // Preselected in the drive selector
	LogLevel        string `yaml:"log_level,omitempty"`
	LogFile         string `yaml:"log_file,omitempty"`
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: CurrentVersion,
		Hosts:   make(map[string]*Host),
		Preferences: &Preferences{
			DiscoverTimeout: 5,
		},
	}
}

// EnsureHost returns the entry for url, creating it if needed.
func (r *Registry) EnsureHost(url string) *Host {
	if r.Hosts == nil {
		r.Hosts = make(map[string]*Host)
	}
	h, ok := r.Hosts[url]
	if !ok {
		h = &Host{}
		r.Hosts[url] = h
	}
	return h
}

// TouchHost records that url answered, with the version it reported.
func (r *Registry) TouchHost(url string, serverVersion string, now time.Time) {
	h := r.EnsureHost(url)
	h.LastSeen = now
	if serverVersion != "" {
		h.ServerVersion = serverVersion
	}
}

// RecentHost returns the most recently seen host URL, or "" if none.
func (r *Registry) RecentHost() string {
	urls := make([]string, 0, len(r.Hosts))
	for u := range r.Hosts {
		urls = append(urls, u)
	}
	sort.Slice(urls, func(i, j int) bool {
		hi, hj := r.Hosts[urls[i]], r.Hosts[urls[j]]
		if hi.LastSeen.Equal(hj.LastSeen) {
			return urls[i] < urls[j]
		}
		return hi.LastSeen.After(hj.LastSeen)
	})
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// ResolveBridgeURL picks the bridge to connect to: an explicit flag wins,
// then the configured URL, then the most recently seen host.
func (r *Registry) ResolveBridgeURL(flag string) string {
	if flag != "" {
		return flag
	}
	if r.Preferences != nil && r.Preferences.BridgeURL != "" {
		return r.Preferences.BridgeURL
	}
	return r.RecentHost()
}
