// Package discovery provides mDNS-based discovery of self-hosted cellar servers.
//
// This package implements multicast DNS (mDNS) service discovery to automatically
// locate cellar servers on the local network. Servers advertise themselves
// using the "_cellarly._tcp" service type.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for service advertisements from cellar servers
//  3. Collects server information (instance name, hostname, IP, port, TXT metadata)
//  4. Returns a list of discovered servers after the timeout period
//
// # Usage Example
//
//	// Discover servers with 10-second timeout
//	servers, err := discovery.ScanForServers(10 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Print discovered servers
//	for _, server := range servers {
//	    fmt.Printf("Found: %s at %s\n", server.Name, server.BaseURL())
//	}
//
// # Server Information
//
// Each discovered server includes:
//   - Name: Advertised instance name (e.g., "Surf Shack Cellar")
//   - Hostname: Server's network hostname (e.g., "cellar.local")
//   - IP: IPv4 address (IPv6 as a fallback)
//   - Port: HTTP port
//   - Secure: Whether the server advertised TLS in its TXT records
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can run
// simultaneously without interference.
package discovery
