// Package config provides user configuration management for cellarctl.
//
// This package manages a YAML-based configuration file that stores the cellar
// server connection, the API token, and application preferences. The
// configuration follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/cellarctl/config.yaml or $HOME/.config/cellarctl/config.yaml
//   - macOS: $HOME/.config/cellarctl/config.yaml
//   - Windows: %LOCALAPPDATA%\cellarctl\config.yaml
//
// # Security
//
// The API token is stored in this file so that commands work without
// prompting. The file is written with user-only permissions (0600).
//
// # Usage Example
//
//	// Load the global registry
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Point the tool at a cellar server
//	registry.SetServer("https://cellar.example.com")
//	registry.SetToken("s3cret")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
