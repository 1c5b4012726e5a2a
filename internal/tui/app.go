package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cellarly/cellarctl/internal/api"
	"github.com/cellarly/cellarctl/internal/logging"
	"github.com/cellarly/cellarctl/internal/share"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenBottles    Screen = "bottles"
	ScreenIntake     Screen = "intake"
	ScreenRecipients Screen = "recipients"
	ScreenDone       Screen = "done"
	ScreenAborted    Screen = "aborted"
)

// flow carries signals between the orchestrator's collaborator adapters and
// the app coordinator. The orchestrator asks for dialogs to open and reports
// terminal outcomes; the coordinator consumes those requests after each
// interaction and switches screens. No locking: everything runs on the
// bubbletea update goroutine.
type flow struct {
	pendingBottles    *share.BottlePickerOptions
	pendingIntake     *share.InventoryIntakeOptions
	pendingRecipients *share.RecipientPickerOptions

	successMsg string
	errorMsg   string
}

// bottleAdapter satisfies share.BottlePicker by recording the open request.
type bottleAdapter struct{ f *flow }

func (a *bottleAdapter) Open(opts share.BottlePickerOptions) error {
	a.f.pendingBottles = &opts
	return nil
}

// intakeAdapter satisfies share.InventoryIntake by recording the open request.
type intakeAdapter struct{ f *flow }

func (a *intakeAdapter) Open(opts share.InventoryIntakeOptions) error {
	a.f.pendingIntake = &opts
	return nil
}

// recipientAdapter satisfies share.RecipientPicker.
type recipientAdapter struct{ f *flow }

func (a *recipientAdapter) Open(opts share.RecipientPickerOptions) error {
	a.f.pendingRecipients = &opts
	return nil
}

func (a *recipientAdapter) Close(reason share.CloseReason) {
	// The coordinator tears the screen down when it consumes the outcome;
	// nothing to do here.
}

// flowNotifier surfaces orchestrator notifications on the final screens
// instead of printing them.
type flowNotifier struct{ f *flow }

func (n *flowNotifier) Success(msg string) { n.f.successMsg = msg }
func (n *flowNotifier) Error(msg string)   { n.f.errorMsg = msg }

// submitControl satisfies share.SubmitControl. The synchronous submission
// means the disabled state is never rendered, but the contract is honored.
type submitControl struct{ disabled bool }

func (c *submitControl) Disable() { c.disabled = true }
func (c *submitControl) Enable()  { c.disabled = false }

// AppModel is the top-level coordinator model. It hosts the share
// orchestrator, adapts its collaborator dialogs onto bubbletea screens, and
// manages transitions between them.
type AppModel struct {
	client *api.Client
	orch   *share.Orchestrator
	flow   *flow
	result *share.Result

	// Collaborator options captured from the orchestrator's open requests
	bottleOpts    share.BottlePickerOptions
	intakeOpts    share.InventoryIntakeOptions
	recipientOpts share.RecipientPickerOptions

	// Fetched once, reused across intake reopenings
	locations       []api.Location
	locationsLoaded bool
	defaultQuantity int
	added           int

	// Current screen state
	CurrentScreen Screen

	// Screen models
	BottleModel    BottlePickerModel
	IntakeModel    IntakeModel
	RecipientModel RecipientPickerModel

	// Result state for the final screens
	FinalMessage string
	Failed       bool

	// UI state
	Width  int
	Height int
}

// NewAppModel creates the wizard application and starts a share session.
// The first screen is ready when the model is returned.
func NewAppModel(client *api.Client, preselected []string, defaultQuantity int) AppModel {
	f := &flow{}

	orch := share.New(share.Deps{
		Bottles:    &bottleAdapter{f: f},
		Intake:     &intakeAdapter{f: f},
		Recipients: &recipientAdapter{f: f},
		Transport:  client,
		Notifier:   &flowNotifier{f: f},
		Logger:     logging.GetLogger(),
	})

	m := AppModel{
		client:          client,
		orch:            orch,
		flow:            f,
		defaultQuantity: defaultQuantity,
		Width:           80,
		Height:          24,
	}

	result, err := orch.Start(share.Options{
		PreselectedRecipients: preselected,
	})
	if err != nil {
		// Cannot happen with a fresh orchestrator, but keep the screen sane.
		m.FinalMessage = err.Error()
		m.Failed = true
		m.CurrentScreen = ScreenAborted
		return m
	}
	m.result = result

	return m.consumeFlow()
}

// Result returns the session result for the caller to inspect after the
// program exits.
func (m AppModel) Result() *share.Result {
	return m.result
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenBottles:
		return m.BottleModel.Init()
	case ScreenIntake:
		return m.IntakeModel.Init()
	case ScreenRecipients:
		return m.RecipientModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to all screens
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.BottleModel, cmd = m.BottleModel.Update(msg)
		cmds = append(cmds, cmd)
		m.IntakeModel, cmd = m.IntakeModel.Update(msg)
		cmds = append(cmds, cmd)
		m.RecipientModel, cmd = m.RecipientModel.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		// Global abort handler
		if msg.String() == "ctrl+c" {
			m.orch.Cancel(share.DefaultCancelReason)
			return m, tea.Quit
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen and
// feeds dialog outcomes back into the orchestrator.
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenBottles:
		m.BottleModel, cmd = m.BottleModel.Update(msg)

		if m.BottleModel.Confirmed {
			m.BottleModel.Confirmed = false
			m.bottleOpts.OnSelected(m.BottleModel.Selection())
			return m.consumeFlow(), cmd
		}
		if m.BottleModel.Dismissed {
			m.BottleModel.Dismissed = false
			// Dismissal still advances; new bottles can carry the share.
			m.bottleOpts.OnClosed(share.CloseDismissed)
			return m.consumeFlow(), cmd
		}

	case ScreenIntake:
		m.IntakeModel, cmd = m.IntakeModel.Update(msg)

		if m.IntakeModel.Reported {
			sel := m.IntakeModel.Selection
			m.IntakeModel.Reported = false
			if strings.TrimSpace(sel.WineID) != "" {
				if _, ok := share.ParseVintage(sel.Vintage); ok {
					m.added++
				}
			}
			// One report per dialog pass; the orchestrator reopens it.
			m.intakeOpts.OnWizardSelection(sel)
			m.intakeOpts.OnClosed(share.CloseWizard)
			return m.consumeFlow(), cmd
		}
		if m.IntakeModel.Dismissed {
			m.IntakeModel.Dismissed = false
			m.intakeOpts.OnClosed(share.CloseDismissed)
			return m.consumeFlow(), cmd
		}

	case ScreenRecipients:
		m.RecipientModel, cmd = m.RecipientModel.Update(msg)

		if m.RecipientModel.Submitted {
			m.RecipientModel.Submitted = false
			m.RecipientModel.Submitting = true
			m.RecipientModel.ErrMsg = ""

			ctrl := &submitControl{}
			m.recipientOpts.OnSubmit(m.RecipientModel.Selection(), ctrl)
			m.RecipientModel.Submitting = false

			if m.orch.IsActive() {
				// Vetoed or failed; surface the reason and stay put so the
				// user can adjust and retry.
				if m.flow.errorMsg != "" {
					m.RecipientModel.ErrMsg = m.flow.errorMsg
					m.flow.errorMsg = ""
				}
				return m, cmd
			}
			return m.consumeFlow(), cmd
		}
		if m.RecipientModel.Dismissed {
			m.RecipientModel.Dismissed = false
			m.recipientOpts.OnClosed(share.CloseCancel)
			return m.consumeFlow(), cmd
		}

	case ScreenDone, ScreenAborted:
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	return m, cmd
}

// consumeFlow applies the orchestrator's pending open requests and terminal
// outcomes to the screen state. Fetches the data the next dialog needs
// before switching to it; a failed fetch cancels the session and falls
// through to the aborted screen.
func (m AppModel) consumeFlow() AppModel {
	f := m.flow
	for {
		switch {
		case f.successMsg != "":
			m.FinalMessage = f.successMsg
			f.successMsg = ""
			m.CurrentScreen = ScreenDone
			return m

		case f.pendingBottles != nil:
			opts := *f.pendingBottles
			f.pendingBottles = nil

			bottles, err := m.client.ListUnsharedBottles(context.Background())
			if err != nil {
				m.orch.Cancel("Could not load your cellar: " + api.Message(err))
				continue
			}
			m.bottleOpts = opts
			m.BottleModel = NewBottlePickerModel(bottles, m.Width, m.Height)
			m.CurrentScreen = ScreenBottles
			return m

		case f.pendingIntake != nil:
			opts := *f.pendingIntake
			f.pendingIntake = nil

			if !m.locationsLoaded {
				// Locations are optional; a failed fetch just means none
				// are offered.
				if locations, err := m.client.ListLocations(context.Background()); err == nil {
					m.locations = locations
				}
				m.locationsLoaded = true
			}
			m.intakeOpts = opts
			m.IntakeModel = NewIntakeModel(m.client, m.locations, m.defaultQuantity, m.added, m.Width, m.Height)
			m.CurrentScreen = ScreenIntake
			return m

		case f.pendingRecipients != nil:
			opts := *f.pendingRecipients
			f.pendingRecipients = nil

			recipients, err := m.client.ListRecipients(context.Background())
			if err != nil {
				m.orch.Cancel("Could not load recipients: " + api.Message(err))
				continue
			}
			m.recipientOpts = opts
			m.RecipientModel = NewRecipientPickerModel(recipients, opts.Preselected, m.Width, m.Height)
			m.CurrentScreen = ScreenRecipients
			return m

		case f.errorMsg != "":
			m.FinalMessage = f.errorMsg
			f.errorMsg = ""
			m.Failed = true
			m.CurrentScreen = ScreenAborted
			return m

		default:
			return m
		}
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenBottles:
		return m.BottleModel.View()
	case ScreenIntake:
		return m.IntakeModel.View()
	case ScreenRecipients:
		return m.RecipientModel.View()
	case ScreenDone:
		return m.renderDoneScreen()
	case ScreenAborted:
		return m.renderAbortedScreen()
	default:
		return "Unknown screen"
	}
}

// renderDoneScreen renders the success result screen
func (m AppModel) renderDoneScreen() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✓ Bottles shared!"))
	b.WriteString("\n\n")
	b.WriteString(SuccessBoxStyle.Render("  " + m.FinalMessage))
	b.WriteString("\n\n")
	b.WriteString(MenuItemStyle.Render("Press any key to exit."))
	b.WriteString("\n")

	return RenderApplicationContainer(b.String(), "any key: exit", m.Width, m.Height)
}

// renderAbortedScreen renders the cancellation/failure screen
func (m AppModel) renderAbortedScreen() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Share not completed"))
	b.WriteString("\n\n")
	b.WriteString(ErrorBoxStyle.Render(m.FinalMessage))
	b.WriteString("\n\n")
	b.WriteString(MenuItemStyle.Render("Press any key to exit."))
	b.WriteString("\n")

	return RenderApplicationContainer(b.String(), "any key: exit", m.Width, m.Height)
}
