// Package discovery locates SiaDrive hosts on the local network over mDNS.
//
// Hosts started with advertising enabled register a "_siadrive._tcp"
// service. The TXT records carry the bridge path and the host version:
//
//	path=/bridge
//	version=1.1.2
//
// # Usage Example
//
//	hosts, err := discovery.DiscoverHosts(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, h := range hosts {
//	    fmt.Println(h.Instance, h.URL())
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Hosts must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
