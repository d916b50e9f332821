package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/siadrive/siadrive-ui/internal/logging"
)

const (
	// ServiceType is the mDNS service type SiaDrive hosts advertise
	ServiceType = "_siadrive._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for host discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the bridge port when the advertisement omits one
	DefaultPort = 9981

	// DefaultPath is the bridge path when no "path" TXT record is present
	DefaultPath = "/bridge"
)

// Scanner handles mDNS host discovery
type Scanner struct {
	// Timeout is the maximum time to wait for hosts
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers every SiaDrive host that answers within the timeout
func (s *Scanner) Scan(ctx context.Context) ([]*Host, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu    sync.Mutex
		hosts []*Host
		seen  = make(map[string]bool)
		done  = make(chan struct{})
	)

	go func() {
		defer close(done)
		for entry := range entries {
			host := parseServiceEntry(entry)
			if host == nil {
				continue
			}
			key := host.URL()
			mu.Lock()
			if !seen[key] {
				seen[key] = true
				hosts = append(hosts, host)
				logging.Debug("Discovered host", zap.String("host", host.String()))
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]*Host(nil), hosts...), nil
}

// First returns the first compatible host found within the timeout
func (s *Scanner) First(ctx context.Context) (*Host, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Host, 1)

	go func() {
		for entry := range entries {
			host := parseServiceEntry(entry)
			if host == nil {
				continue
			}
			if !host.Compatible() {
				logging.Warn("Skipping incompatible host",
					zap.String("host", host.String()),
					zap.String("version", host.Version))
				continue
			}
			select {
			case found <- host:
				cancel()
			default:
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case host := <-found:
		return host, nil
	case <-ctx.Done():
		select {
		case host := <-found:
			return host, nil
		default:
		}
		return nil, fmt.Errorf("no SiaDrive host found within %s", s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Host
// Returns nil if the entry has no usable address
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Host {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// Prefer IPv4
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	path := metadata["path"]
	if path == "" {
		path = DefaultPath
	}

	return &Host{
		Instance:     unescapeInstance(entry.Instance),
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         path,
		Version:      metadata["version"],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// unescapeInstance undoes DNS-SD escaping of spaces and dots in instance names
func unescapeInstance(name string) string {
	return strings.NewReplacer(`\ `, " ", `\.`, ".").Replace(name)
}

// DiscoverHosts is a convenience function that scans with the given timeout
func DiscoverHosts(ctx context.Context, timeout time.Duration) ([]*Host, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}

// FindHost returns the first compatible host within the given timeout
func FindHost(ctx context.Context, timeout time.Duration) (*Host, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.First(ctx)
}
