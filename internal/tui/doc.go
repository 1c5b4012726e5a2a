// Package tui implements the terminal user interface for the Cellarly share wizard.
//
// This package provides an interactive, full-screen TUI for sharing cellar
// bottles with other users. Built using the Bubble Tea framework, it follows
// the Elm architecture with immutable state updates and a clean
// Model-Update-View pattern.
//
// # Architecture
//
// The TUI is organized into three dialog screens plus two result screens:
//   - Bottles: Multi-select over the unshared bottles in the cellar
//   - Intake: Add a new bottle (wine search, vintage, quantity, location)
//   - Recipients: Multi-select over recipients plus the share submission
//   - Done/Aborted: Display the session outcome
//
// The screens do not talk to each other. The AppModel hosts a share
// orchestrator and adapts its collaborator dialogs onto bubbletea screens:
// each screen reports its outcome via flags (Confirmed, Reported, Submitted,
// Dismissed), the AppModel feeds those into the orchestrator's callbacks,
// and the orchestrator's open requests decide which screen comes next. The
// intake screen reopens after every added bottle until the user is done.
//
// All screens use a unified container pattern (RenderApplicationContainer)
// for consistent layout with header, content area and context-sensitive
// footer.
//
// # Framework Components
//
// The TUI leverages Bubble Tea framework components throughout:
//   - bubbles/list: Bottle and recipient lists with filtering
//   - bubbles/textinput: Wine search, vintage and quantity entry
//   - bubbles/key: Declarative key bindings per screen
//   - bubbles/help: Context-aware help system
//   - lipgloss: Styling and layout
//
// # Usage Example
//
//	app := tui.NewAppModel(client, nil, 1)
//	program := tea.NewProgram(app, tea.WithAltScreen())
//
//	final, err := program.Run()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	outcome := final.(tui.AppModel).Result()
//
// # Key Bindings
//
// Each screen has context-aware key bindings:
//   - Bottles: ↑/↓ navigate, space toggle, / filter, enter continue, s skip, esc cancel
//   - Intake: enter search/select/add, ctrl+n new wine, tab next field, esc back, ctrl+d done
//   - Recipients: ↑/↓ navigate, space toggle, / filter, enter share, esc cancel
//   - Done/Aborted: any key exits
//
// # Error Handling
//
// A failed submission keeps the recipient screen open with the server's
// message shown inline so the user can adjust and retry. Failures that make
// the wizard unusable (the cellar or recipient list cannot be loaded, the
// intake dialog errors out) cancel the session and land on the aborted
// screen.
//
// # Thread Safety
//
// The Bubble Tea framework ensures thread safety through message passing.
// All model updates, including the orchestrator callbacks, occur in a single
// goroutine.
package tui
