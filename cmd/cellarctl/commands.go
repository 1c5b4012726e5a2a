package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cellarly/cellarctl/internal/api"
	"github.com/cellarly/cellarctl/internal/config"
	"github.com/cellarly/cellarctl/internal/discovery"
	"github.com/cellarly/cellarctl/internal/tui"
	"github.com/cellarly/cellarctl/internal/ui"
	"github.com/cellarly/cellarctl/internal/urls"
)

// Command flags
var (
	serverURL    string
	authToken    string
	outputFormat string
	scanTimeout  int
	showAll      bool
	shareWith    []string
	silent       bool
	byName       bool
)

func init() {
	// Common flags for server commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Cellar server URL (skips discovery)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "API token (overrides the stored one)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	// Add subcommands directly to root
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(bottlesCmd)
	rootCmd.AddCommand(recipientsCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// shareCmd launches the interactive share wizard
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Launch the interactive share wizard",
	Long: `Launch an interactive TUI wizard for sharing bottles.

The wizard walks through three steps:
- Pick existing unshared bottles from your cellar
- Optionally add new bottles (wine search, vintage, quantity, location)
- Pick the recipients and submit everything as one share

This is the recommended way to share bottles for most users.`,
	Example: `  # Launch the wizard
  cellarctl share
  # Or simply (share is default):
  cellarctl

  # Launch against a specific server
  cellarctl share --server https://cellar.example.com

  # Preselect recipients
  cellarctl share --to user-42 --to user-17`,
	RunE: runShare,
}

func init() {
	shareCmd.Flags().StringArrayVar(&shareWith, "to", nil, "Recipient user id to preselect (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&silent, "silent", false, "Suppress result boxes, report via exit code only")
}

func runShare(cmd *cobra.Command, args []string) error {
	client, reg, err := resolveClient()
	if err != nil {
		return err
	}

	// Flag recipients are added on top of the configured favourites.
	preselected := append([]string{}, reg.PreferredRecipients...)
	preselected = append(preselected, shareWith...)

	defaultQuantity := 1
	if reg.Preferences != nil && reg.Preferences.DefaultQuantity > 0 {
		defaultQuantity = reg.Preferences.DefaultQuantity
	}

	model := tui.NewAppModel(client, preselected, defaultQuantity)

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard error: %w", err)
	}

	app, ok := final.(tui.AppModel)
	if !ok {
		return nil
	}

	result := app.Result()
	if result == nil || !result.Settled() {
		// The user quit mid-wizard; nothing was submitted.
		return nil
	}
	if err := result.Err(); err != nil {
		if silent {
			return fmt.Errorf("share not completed")
		}
		fmt.Println(ui.RenderFailure("Wine share not completed", err, []string{
			"Check that the server is reachable",
			"Verify your token with 'cellarctl config show'",
			"Run again with CELLARCTL_LOG_LEVEL=debug for details",
			"Wizard guide: " + urls.ShareWizardGuide,
			"See " + urls.TroubleshootingGuide,
		}))
		return fmt.Errorf("share not completed")
	}

	if !silent {
		details := map[string]string{"Server": client.BaseURL}
		if resp := result.Response(); resp != nil {
			if n := len(resp.SharedBottleIDs); n > 0 {
				details["Bottles"] = fmt.Sprintf("%d", n)
			}
			if n := len(resp.RecipientUserIDs); n > 0 {
				details["Recipients"] = fmt.Sprintf("%d", n)
			}
		}
		fmt.Println(ui.RenderSuccess("Wine share complete", details))
	}

	reg.TouchConnected()
	if err := reg.Save(); err != nil {
		// Not worth failing the share over.
		fmt.Printf("Warning: could not save config: %v\n", err)
	}
	return nil
}

// bottlesCmd lists the bottles in the cellar
var bottlesCmd = &cobra.Command{
	Use:   "bottles",
	Short: "List bottles in your cellar",
	Long: `Display the bottles in your cellar.

By default only unshared bottles are shown, matching what the share
wizard offers. Use --all to include bottles that were already shared.`,
	Example: `  # List unshared bottles
  cellarctl bottles

  # Include shared bottles
  cellarctl bottles --all

  # Compact output format
  cellarctl bottles --format compact

  # JSON output for scripting
  cellarctl bottles --format json`,
	RunE: runBottles,
}

func init() {
	bottlesCmd.Flags().BoolVar(&showAll, "all", false, "Include bottles that were already shared")
}

func runBottles(cmd *cobra.Command, args []string) error {
	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	if outputFormat != "json" {
		fmt.Println(ui.RenderCommandHeader(ui.HeaderConfig{
			Title:   "LIST BOTTLES",
			Command: "cellarctl bottles",
			Params:  map[string]string{"Server": client.BaseURL},
		}))
		fmt.Println()
	}

	ctx := context.Background()
	var bottles []api.Bottle
	if showAll {
		bottles, err = client.ListBottles(ctx)
	} else {
		bottles, err = client.ListUnsharedBottles(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list bottles: %w", err)
	}

	if len(bottles) == 0 {
		fmt.Println("No bottles found.")
		return nil
	}

	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(bottles, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	default:
		fmt.Print(api.FormatBottles(bottles, outputFormat))
	}

	return nil
}

// recipientsCmd lists the users bottles can be shared with
var recipientsCmd = &cobra.Command{
	Use:   "recipients",
	Short: "List users you can share bottles with",
	Example: `  # List recipients
  cellarctl recipients

  # JSON output for scripting
  cellarctl recipients --format json`,
	RunE: runRecipients,
}

func runRecipients(cmd *cobra.Command, args []string) error {
	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	recipients, err := client.ListRecipients(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list recipients: %w", err)
	}

	if len(recipients) == 0 {
		fmt.Println("Nobody to share with yet.")
		return nil
	}

	switch outputFormat {
	case "json":
		data, err := json.MarshalIndent(recipients, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	default:
		fmt.Print(api.FormatRecipients(recipients))
	}

	return nil
}

// discoverCmd scans the local network for cellar servers
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan for cellar servers on the network",
	Long: `Scan for Cellarly servers using mDNS/DNS-SD discovery.

This command listens for mDNS broadcasts from cellar servers and displays
all discovered servers with their addresses and metadata.`,
	Example: `  # Scan for 10 seconds (default)
  cellarctl discover

  # Quick 3-second scan
  cellarctl discover --timeout 3`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.RenderCommandHeader(ui.HeaderConfig{
		Title:   "DISCOVER SERVERS",
		Command: "cellarctl discover",
		Params:  map[string]string{"Timeout": fmt.Sprintf("%ds", scanTimeout)},
	}))
	fmt.Println()

	fmt.Println("Scanning for cellar servers...")
	fmt.Println()

	servers, err := discovery.ScanForServers(time.Duration(scanTimeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Println("No servers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the server is running on this network")
		fmt.Println("  - Check that mDNS traffic is not blocked by your firewall")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Println("  - Use --server flag to specify the URL manually")
		fmt.Printf("\nSee %s for server setup.\n", urls.ServerSetup)
		return nil
	}

	fmt.Printf("Found %d server(s):\n\n", len(servers))

	for i, server := range servers {
		fmt.Printf("%d. %s\n", i+1, server.Name)
		fmt.Printf("   URL:      %s\n", server.BaseURL())
		fmt.Printf("   Address:  %s:%d\n", server.IP, server.Port)
		if len(server.Metadata) > 0 {
			fmt.Printf("   Metadata: %v\n", server.Metadata)
		}
		fmt.Println()
	}

	fmt.Println("Use 'cellarctl config set-server <url>' to make one the default")
	fmt.Println("Use 'cellarctl share --server <url>' to share right away")

	return nil
}

// watchCmd follows the server's event feed
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the server's cellar-event feed",
	Long: `Follow the server's event feed over a websocket connection.

Events are printed as they arrive until the connection closes or the
command is interrupted. Useful for seeing shares land in real time.`,
	Example: `  # Watch events
  cellarctl watch

  # JSON output for scripting
  cellarctl watch --format json`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	stream, err := client.OpenStream(context.Background())
	if err != nil {
		return fmt.Errorf("failed to open event stream: %w", err)
	}
	defer stream.Close()

	if outputFormat != "json" {
		fmt.Println(ui.RenderCommandHeader(ui.HeaderConfig{
			Title:   "WATCH EVENTS",
			Command: "cellarctl watch",
			Params:  map[string]string{"Server": client.BaseURL},
		}))
		fmt.Println()
		fmt.Println("Watching events (ctrl+c to stop)...")
		fmt.Println()
	}

	for {
		event, err := stream.Next()
		if err != nil {
			return fmt.Errorf("event stream ended: %w", err)
		}

		if outputFormat == "json" {
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Println(string(data))
			continue
		}

		if len(event.Payload) > 0 {
			fmt.Printf("%s  %s  %s\n", time.Now().Format("15:04:05"), event.Type, string(event.Payload))
		} else {
			fmt.Printf("%s  %s\n", time.Now().Format("15:04:05"), event.Type)
		}
	}
}

// configCmd groups the local configuration commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage local configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.GetGlobalRegistry()
		if err != nil {
			return err
		}

		path, _ := config.GetConfigPath()
		fmt.Printf("Config file: %s\n\n", path)
		fmt.Printf("Server:  %s\n", valueOrUnset(reg.Server))
		fmt.Printf("Token:   %s\n", maskToken(reg.Token))
		if len(reg.PreferredRecipients) > 0 {
			fmt.Printf("Preferred recipients: %v\n", reg.PreferredRecipients)
		}
		if !reg.LastConnected.IsZero() {
			fmt.Printf("Last connected: %s\n", reg.LastConnected.Format(time.RFC3339))
		}
		return nil
	},
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server <url|name>",
	Short: "Store the default server URL",
	Long: `Store the default cellar server URL.

With --discover the argument is treated as an mDNS instance name instead
of a URL; the server is looked up on the local network and its address
is stored.`,
	Example: `  # Store a URL directly
  cellarctl config set-server https://cellar.example.com

  # Resolve an advertised server by name
  cellarctl config set-server "Surf Shack Cellar" --discover`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.GetGlobalRegistry()
		if err != nil {
			return err
		}

		url := args[0]
		if byName {
			fmt.Printf("Looking for %q on the network...\n", args[0])
			server, err := discovery.FindServer(args[0])
			if err != nil {
				return err
			}
			url = server.BaseURL()
			fmt.Printf("Found %s\n", server)
		}

		if reg.Server != "" && reg.Server != url {
			ok := ui.Confirm("Replace configured server?", []string{
				fmt.Sprintf("Current server: %s", reg.Server),
				fmt.Sprintf("New server:     %s", url),
				"The stored token may not be valid for the new server",
			})
			if !ok {
				return nil
			}
		}
		reg.SetServer(url)
		if err := config.SaveGlobal(); err != nil {
			return err
		}
		fmt.Printf("Server set to %s\n", url)
		return nil
	},
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store the API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.GetGlobalRegistry()
		if err != nil {
			return err
		}
		reg.SetToken(args[0])
		if err := config.SaveGlobal(); err != nil {
			return err
		}
		fmt.Println("Token stored.")
		return nil
	},
}

// configAddRecipientCmd stores a recipient id preselected by the wizard
var configAddRecipientCmd = &cobra.Command{
	Use:   "add-recipient <user-id>",
	Short: "Add a recipient preselected in the share wizard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.GetGlobalRegistry()
		if err != nil {
			return err
		}
		reg.AddPreferredRecipient(args[0])
		if err := config.SaveGlobal(); err != nil {
			return err
		}
		fmt.Printf("Preferred recipients: %v\n", reg.PreferredRecipients)
		return nil
	},
}

var configRemoveRecipientCmd = &cobra.Command{
	Use:   "remove-recipient <user-id>",
	Short: "Remove a recipient from the wizard preselection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.GetGlobalRegistry()
		if err != nil {
			return err
		}
		reg.RemovePreferredRecipient(args[0])
		if err := config.SaveGlobal(); err != nil {
			return err
		}
		if len(reg.PreferredRecipients) == 0 {
			fmt.Println("No preferred recipients left.")
			return nil
		}
		fmt.Printf("Preferred recipients: %v\n", reg.PreferredRecipients)
		return nil
	},
}

func init() {
	configSetServerCmd.Flags().BoolVar(&byName, "discover", false, "Treat the argument as an mDNS instance name and look it up")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetServerCmd)
	configCmd.AddCommand(configSetTokenCmd)
	configCmd.AddCommand(configAddRecipientCmd)
	configCmd.AddCommand(configRemoveRecipientCmd)
}

// resolveClient builds an API client from flags, stored configuration and,
// as a last resort, mDNS discovery. It also verifies the server is
// reachable before handing the client back.
func resolveClient() (*api.Client, *config.Registry, error) {
	reg, err := config.GetGlobalRegistry()
	if err != nil {
		return nil, nil, err
	}

	url := serverURL
	if url == "" {
		url = reg.Server
	}
	if url == "" && (reg.Preferences == nil || reg.Preferences.AutoDiscover) {
		fmt.Println("No server configured, attempting auto-discovery...")
		servers, err := discovery.QuickScan()
		if err != nil {
			return nil, nil, fmt.Errorf("discovery failed: %w", err)
		}
		switch len(servers) {
		case 0:
			return nil, nil, fmt.Errorf("no servers found. Use --server or 'cellarctl config set-server' (see %s)", urls.GettingStarted)
		case 1:
			url = servers[0].BaseURL()
			fmt.Printf("Found server: %s\n\n", servers[0])
		default:
			details := make(map[string]string, len(servers))
			for i, server := range servers {
				details[fmt.Sprintf("%d", i+1)] = server.String()
			}
			fmt.Println(ui.RenderWarning("Multiple servers found", details))
			return nil, nil, fmt.Errorf("multiple servers found. Use --server to pick one")
		}
	}
	if url == "" {
		return nil, nil, fmt.Errorf("no server configured. Use --server or 'cellarctl config set-server' (see %s)", urls.GettingStarted)
	}

	token := authToken
	if token == "" {
		token = reg.Token
	}

	client := api.NewClient(url, token)
	if err := client.Ping(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("failed to reach server at %s: %w", url, err)
	}

	return client, reg, nil
}

func valueOrUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
