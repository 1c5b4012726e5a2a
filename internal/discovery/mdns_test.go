package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name       string
		entry      *zeroconf.ServiceEntry
		wantNil    bool
		wantName   string
		wantIP     string
		wantPort   int
		wantSecure bool
	}{
		{
			name: "valid server with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Surf Shack Cellar"},
				HostName:      "cellar.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.42")},
				Text:          []string{"path=/", "version=1.4.2"},
			},
			wantNil:  false,
			wantName: "Surf Shack Cellar",
			wantIP:   "192.168.1.42",
			wantPort: 8080,
		},
		{
			name: "TLS advertised in TXT records",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Home Cellar"},
				HostName:      "cellar.local",
				Port:          443,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
				Text:          []string{"tls=1"},
			},
			wantNil:    false,
			wantName:   "Home Cellar",
			wantIP:     "10.0.0.5",
			wantPort:   443,
			wantSecure: true,
		},
		{
			name: "no port specified (should default)",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Home Cellar"},
				HostName:      "cellar.local",
				Port:          0,
				AddrIPv4:      []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantNil:  false,
			wantName: "Home Cellar",
			wantIP:   "172.16.0.1",
			wantPort: DefaultPort,
		},
		{
			name: "empty instance name",
			entry: &zeroconf.ServiceEntry{
				HostName: "cellar.local",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Home Cellar"},
				HostName:      "cellar.local",
				Port:          8080,
				AddrIPv4:      []net.IP{},
				AddrIPv6:      []net.IP{},
			},
			wantNil: true,
		},
		{
			name: "IPv6 only server",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Home Cellar"},
				HostName:      "cellar.local",
				Port:          8080,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantNil:  false,
			wantName: "Home Cellar",
			wantIP:   "fe80::1",
			wantPort: 8080,
		},
		{
			name: "both IPv4 and IPv6 (should prefer IPv4)",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Home Cellar"},
				HostName:      "cellar.local",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantNil:  false,
			wantName: "Home Cellar",
			wantIP:   "192.168.1.50",
			wantPort: 8080,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if server != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", server)
				}
				return
			}

			if server == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil server")
			}

			if server.Name != tt.wantName {
				t.Errorf("server.Name = %v, want %v", server.Name, tt.wantName)
			}

			if server.IP != tt.wantIP {
				t.Errorf("server.IP = %v, want %v", server.IP, tt.wantIP)
			}

			if server.Port != tt.wantPort {
				t.Errorf("server.Port = %v, want %v", server.Port, tt.wantPort)
			}

			if server.Secure != tt.wantSecure {
				t.Errorf("server.Secure = %v, want %v", server.Secure, tt.wantSecure)
			}

			if server.Hostname != tt.entry.HostName {
				t.Errorf("server.Hostname = %v, want %v", server.Hostname, tt.entry.HostName)
			}

			// Check that DiscoveredAt is recent (within last second)
			if time.Since(server.DiscoveredAt) > time.Second {
				t.Errorf("server.DiscoveredAt is not recent: %v", server.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "Surf Shack Cellar"},
		HostName:      "cellar.local",
		Port:          8080,
		AddrIPv4:      []net.IP{net.ParseIP("192.168.1.42")},
		Text:          []string{"path=/", "flag", "version=1.4.2"},
	}

	server := scanner.parseServiceEntry(entry)
	if server == nil {
		t.Fatal("parseServiceEntry() = nil, want server")
	}

	// Check metadata parsing
	expectedMetadata := map[string]string{
		"path":    "/",
		"flag":    "", // Key without value
		"version": "1.4.2",
	}

	if len(server.Metadata) != len(expectedMetadata) {
		t.Errorf("server.Metadata has %d entries, want %d", len(server.Metadata), len(expectedMetadata))
	}

	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := server.Metadata[key]; !ok {
			t.Errorf("server.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("server.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}
}

func TestScanner_matchEntry(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "Surf Shack Cellar"},
		HostName:      "cellar.local",
		Port:          8080,
		AddrIPv4:      []net.IP{net.ParseIP("192.168.1.42")},
	}

	server := scanner.matchEntry(entry, "Surf Shack Cellar")
	if server == nil {
		t.Fatal("matchEntry() = nil for matching name, want server")
	}
	if server.Name != "Surf Shack Cellar" {
		t.Errorf("server.Name = %q, want %q", server.Name, "Surf Shack Cellar")
	}

	if server := scanner.matchEntry(entry, "Home Cellar"); server != nil {
		t.Errorf("matchEntry() = %v for non-matching name, want nil", server)
	}

	// Unusable entries never match, regardless of name
	bare := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "Surf Shack Cellar"},
		HostName:      "cellar.local",
		Port:          8080,
	}
	if server := scanner.matchEntry(bare, "Surf Shack Cellar"); server != nil {
		t.Errorf("matchEntry() = %v for entry without addresses, want nil", server)
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

// Note: Integration tests with live mDNS discovery require network access and
// should be run manually with:
// go test -tags=integration ./internal/discovery/
