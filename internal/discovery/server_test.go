package discovery

import (
	"testing"
	"time"
)

func TestServer_String(t *testing.T) {
	server := &Server{
		Name:     "Surf Shack Cellar",
		Hostname: "cellar.local",
		IP:       "192.168.1.42",
		Port:     8080,
	}

	expected := `Cellar server "Surf Shack Cellar" (cellar.local) at 192.168.1.42:8080`
	if server.String() != expected {
		t.Errorf("Server.String() = %v, want %v", server.String(), expected)
	}
}

func TestServer_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		server   *Server
		expected string
	}{
		{
			name: "plain HTTP",
			server: &Server{
				IP:   "192.168.1.42",
				Port: 8080,
			},
			expected: "http://192.168.1.42:8080",
		},
		{
			name: "TLS advertised",
			server: &Server{
				IP:     "10.0.0.5",
				Port:   443,
				Secure: true,
			},
			expected: "https://10.0.0.5:443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.server.BaseURL(); got != tt.expected {
				t.Errorf("Server.BaseURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestServer_GetMetadata(t *testing.T) {
	server := &Server{
		Metadata: map[string]string{
			"path":    "/",
			"version": "1.4.2",
		},
	}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "existing key",
			key:      "path",
			expected: "/",
		},
		{
			name:     "another existing key",
			key:      "version",
			expected: "1.4.2",
		},
		{
			name:     "non-existent key",
			key:      "missing",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := server.GetMetadata(tt.key); got != tt.expected {
				t.Errorf("Server.GetMetadata(%v) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestServer_GetMetadata_NilMap(t *testing.T) {
	server := &Server{
		Metadata: nil,
	}

	if got := server.GetMetadata("anything"); got != "" {
		t.Errorf("Server.GetMetadata() with nil map = %v, want empty string", got)
	}
}

func TestServer_DiscoveredAt(t *testing.T) {
	now := time.Now()
	server := &Server{
		Name:         "Surf Shack Cellar",
		DiscoveredAt: now,
	}

	if server.DiscoveredAt != now {
		t.Errorf("Server.DiscoveredAt = %v, want %v", server.DiscoveredAt, now)
	}
}
