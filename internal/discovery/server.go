package discovery

import (
	"fmt"
	"time"
)

// Server represents a discovered cellar server on the network
type Server struct {
	// Name is the advertised instance name (e.g., "Surf Shack Cellar")
	Name string

	// Hostname is the mDNS hostname (e.g., "cellar.local")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.1.42")
	IP string

	// Port is the HTTP port
	Port int

	// Secure reports whether the server advertised TLS in its TXT records
	Secure bool

	// Metadata contains additional mDNS TXT record data
	// Common fields: "path=/", "version=1.4.2"
	Metadata map[string]string

	// DiscoveredAt is when the server was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the server
func (s *Server) String() string {
	return fmt.Sprintf("Cellar server %q (%s) at %s:%d", s.Name, s.Hostname, s.IP, s.Port)
}

// BaseURL returns the HTTP base URL for the server
func (s *Server) BaseURL() string {
	scheme := "http"
	if s.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, s.IP, s.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
