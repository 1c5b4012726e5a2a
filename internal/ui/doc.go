// Package ui provides terminal UI components for the cellarctl CLI.
//
// This package uses Lipgloss to render polished terminal output for one-shot
// commands. Unlike the interactive TUI wizard, these components follow a
// "run once and exit" pattern - they render output compellingly but don't
// require user interaction.
//
// # Architecture
//
// The UI package provides three main component types:
//
//   - Header: Command banner showing operation name and parameters
//   - Result: Success/failure boxes with styled information
//   - Confirm: A warning box with a y/N prompt
//
// # Usage Pattern
//
// Commands use this package by rendering a header before work begins and a
// result box when it ends:
//
//	fmt.Println(ui.RenderCommandHeader(ui.HeaderConfig{
//	    Title:   "Share Bottles",
//	    Command: "cellarctl share",
//	    Params:  map[string]string{"Server": serverURL},
//	}))
//
//	// ... run the wizard ...
//
//	fmt.Println(ui.RenderSuccess("Wine share complete", map[string]string{
//	    "Bottles":    "3",
//	    "Recipients": "2",
//	}))
//
// # Logging Integration
//
// This package expects logging to be controlled via the CELLARCTL_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly. Set CELLARCTL_LOG_LEVEL to
// "debug", "info", "warn", or "error" to enable logging output.
package ui
