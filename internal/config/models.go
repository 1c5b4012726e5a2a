package config

import "time"

// Registry represents the entire user configuration file.
// This stores the cellar server connection and application preferences.
type Registry struct {
	Version             int          `yaml:"version"`
	Server              string       `yaml:"server,omitempty"` // Cellar server base URL
	Token               string       `yaml:"token,omitempty"`  // API bearer token
	DefaultLocationID   string       `yaml:"default_location_id,omitempty"`
	PreferredRecipients []string     `yaml:"preferred_recipients,omitempty"` // Preselected in the share wizard
	LastConnected       time.Time    `yaml:"last_connected,omitempty"`
	Preferences         *Preferences `yaml:"preferences,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AutoDiscover    bool `yaml:"auto_discover"`    // Enable automatic mDNS discovery when no server is configured
	DiscoverTimeout int  `yaml:"discover_timeout"` // mDNS discovery timeout in seconds
	DefaultQuantity int  `yaml:"default_quantity"` // Quantity prefilled in the intake dialog
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Preferences: &Preferences{
			AutoDiscover:    true,
			DiscoverTimeout: 10,
			DefaultQuantity: 1,
		},
	}
}

// SetServer records the cellar server base URL.
func (r *Registry) SetServer(url string) {
	r.Server = url
}

// SetToken records the API bearer token.
func (r *Registry) SetToken(token string) {
	r.Token = token
}

// TouchConnected updates the last successful connection timestamp.
func (r *Registry) TouchConnected() {
	r.LastConnected = time.Now()
}

// AddPreferredRecipient records a recipient to preselect in the share
// wizard. Duplicates are ignored.
func (r *Registry) AddPreferredRecipient(userID string) {
	for _, id := range r.PreferredRecipients {
		if id == userID {
			return
		}
	}
	r.PreferredRecipients = append(r.PreferredRecipients, userID)
}

// RemovePreferredRecipient drops a recipient from the preselection list.
func (r *Registry) RemovePreferredRecipient(userID string) {
	kept := r.PreferredRecipients[:0]
	for _, id := range r.PreferredRecipients {
		if id != userID {
			kept = append(kept, id)
		}
	}
	r.PreferredRecipients = kept
}
