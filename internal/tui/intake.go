package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cellarly/cellarctl/internal/api"
	"github.com/cellarly/cellarctl/internal/share"
)

// intakePhase tracks which part of the intake dialog is active
type intakePhase int

const (
	phaseSearch intakePhase = iota
	phaseResults
	phaseDetails
)

// Maximum wine search results requested per query
const searchLimit = 20

// intakeKeyMap defines key bindings for the intake dialog
type intakeKeyMap struct {
	Search  key.Binding
	Select  key.Binding
	NewWine key.Binding
	Next    key.Binding
	Add     key.Binding
	Back    key.Binding
	Done    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k intakeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Select, k.NewWine, k.Add, k.Done}
}

// FullHelp returns keybindings for the expanded help view
func (k intakeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Select, k.NewWine},
		{k.Next, k.Add, k.Back, k.Done},
	}
}

// IntakeModel is the inventory intake dialog: search the wine catalog, pick
// or create a wine, then fill in vintage, quantity and storage location. One
// completed pass reports a single new-bottle selection; the coordinator
// reopens the dialog for the next bottle.
type IntakeModel struct {
	client    *api.Client
	locations []api.Location

	phase intakePhase

	// Search state
	SearchInput textinput.Model
	Results     []api.Wine
	ResultIdx   int

	// Details state
	ChosenWine    api.Wine
	VintageInput  textinput.Model
	QuantityInput textinput.Model
	LocationIdx   int // index into locations; len(locations) means "no location"
	focusIdx      int // 0 vintage, 1 quantity, 2 location

	// Inline error from the last API call
	ErrMsg string

	// Terminal outcome flags, read by the app coordinator after Update.
	Reported  bool
	Selection share.IntakeSelection
	Dismissed bool

	// Number of bottles already added this session, shown as context
	AddedSoFar int

	// UI state
	Width  int
	Height int
	Help   help.Model
	Keys   intakeKeyMap
}

// NewIntakeModel creates a fresh intake dialog.
func NewIntakeModel(client *api.Client, locations []api.Location, defaultQuantity int, addedSoFar, width, height int) IntakeModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "chablis, barolo, ..."
	searchInput.CharLimit = 80
	searchInput.Width = 40
	searchInput.Focus()

	vintageInput := textinput.New()
	vintageInput.Placeholder = "2019"
	vintageInput.CharLimit = 4
	vintageInput.Width = 10

	if defaultQuantity < share.MinQuantity || defaultQuantity > share.MaxQuantity {
		defaultQuantity = share.MinQuantity
	}
	quantityInput := textinput.New()
	quantityInput.SetValue(fmt.Sprintf("%d", defaultQuantity))
	quantityInput.CharLimit = 2
	quantityInput.Width = 10

	keys := intakeKeyMap{
		Search: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select wine"),
		),
		NewWine: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "create wine from query"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Add: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add bottle"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Done: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "done adding"),
		),
	}

	return IntakeModel{
		client:        client,
		locations:     locations,
		phase:         phaseSearch,
		SearchInput:   searchInput,
		VintageInput:  vintageInput,
		QuantityInput: quantityInput,
		LocationIdx:   len(locations), // default "no location"
		AddedSoFar:    addedSoFar,
		Width:         width,
		Height:        height,
		Help:          help.New(),
		Keys:          keys,
	}
}

// Init implements tea.Model
func (m IntakeModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key input for the intake dialog
func (m IntakeModel) Update(msg tea.Msg) (IntakeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.phase {
		case phaseSearch:
			return m.updateSearch(msg)
		case phaseResults:
			return m.updateResults(msg)
		case phaseDetails:
			return m.updateDetails(msg)
		}
	}

	return m.updateInputs(msg)
}

func (m IntakeModel) updateSearch(msg tea.KeyMsg) (IntakeModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+d":
		// Done adding bottles (or never started).
		m.Dismissed = true
		return m, nil

	case "enter":
		query := strings.TrimSpace(m.SearchInput.Value())
		wines, err := m.client.SearchWines(context.Background(), query, searchLimit)
		if err != nil {
			m.ErrMsg = api.Message(err)
			return m, nil
		}
		m.ErrMsg = ""
		m.Results = wines
		m.ResultIdx = 0
		m.phase = phaseResults
		return m, nil

	case "ctrl+n":
		return m.createWineFromQuery()
	}

	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	return m, cmd
}

func (m IntakeModel) updateResults(msg tea.KeyMsg) (IntakeModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.phase = phaseSearch
		m.SearchInput.Focus()
		return m, nil

	case "up", "k":
		if m.ResultIdx > 0 {
			m.ResultIdx--
		}
		return m, nil

	case "down", "j":
		if m.ResultIdx < len(m.Results)-1 {
			m.ResultIdx++
		}
		return m, nil

	case "ctrl+n":
		return m.createWineFromQuery()

	case "enter":
		if len(m.Results) == 0 {
			return m, nil
		}
		m.ChosenWine = m.Results[m.ResultIdx]
		m.enterDetails()
		return m, nil

	case "ctrl+d":
		m.Dismissed = true
		return m, nil
	}

	return m, nil
}

func (m IntakeModel) updateDetails(msg tea.KeyMsg) (IntakeModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.phase = phaseResults
		return m, nil

	case "tab", "shift+tab", "up", "down":
		// up/down only move focus when the location row is not focused;
		// on the location row they cycle through locations below.
		if m.focusIdx == 2 && (msg.String() == "up" || msg.String() == "down") {
			return m.cycleLocation(msg.String() == "down"), nil
		}
		if msg.String() == "shift+tab" || msg.String() == "up" {
			m.focusIdx--
		} else {
			m.focusIdx++
		}
		if m.focusIdx < 0 {
			m.focusIdx = 2
		}
		if m.focusIdx > 2 {
			m.focusIdx = 0
		}
		m.syncFocus()
		return m, nil

	case "left", "right":
		if m.focusIdx == 2 {
			return m.cycleLocation(msg.String() == "right"), nil
		}

	case "enter":
		m.report()
		return m, nil

	case "ctrl+d":
		m.Dismissed = true
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m IntakeModel) updateInputs(msg tea.Msg) (IntakeModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.VintageInput, cmd = m.VintageInput.Update(msg)
	cmds = append(cmds, cmd)
	m.QuantityInput, cmd = m.QuantityInput.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m IntakeModel) createWineFromQuery() (IntakeModel, tea.Cmd) {
	name := strings.TrimSpace(m.SearchInput.Value())
	if name == "" {
		m.ErrMsg = "Type a wine name to create it."
		return m, nil
	}

	wine, err := m.client.CreateWine(context.Background(), api.CreateWineRequest{Name: name})
	if err != nil {
		m.ErrMsg = api.Message(err)
		return m, nil
	}

	m.ErrMsg = ""
	m.ChosenWine = *wine
	m.enterDetails()
	return m, nil
}

func (m *IntakeModel) enterDetails() {
	m.phase = phaseDetails
	m.focusIdx = 0
	m.syncFocus()
}

func (m *IntakeModel) syncFocus() {
	m.VintageInput.Blur()
	m.QuantityInput.Blur()
	switch m.focusIdx {
	case 0:
		m.VintageInput.Focus()
	case 1:
		m.QuantityInput.Focus()
	}
}

func (m IntakeModel) cycleLocation(forward bool) IntakeModel {
	// LocationIdx ranges over 0..len(locations); the last slot is "none".
	max := len(m.locations)
	if forward {
		m.LocationIdx++
		if m.LocationIdx > max {
			m.LocationIdx = 0
		}
	} else {
		m.LocationIdx--
		if m.LocationIdx < 0 {
			m.LocationIdx = max
		}
	}
	return m
}

// report marks the dialog complete for one bottle. Validation is the
// coordinator's concern; the dialog reports what was typed.
func (m *IntakeModel) report() {
	locationID := ""
	if m.LocationIdx < len(m.locations) {
		locationID = m.locations[m.LocationIdx].ID
	}

	m.Selection = share.IntakeSelection{
		WineID:           m.ChosenWine.ID,
		Vintage:          strings.TrimSpace(m.VintageInput.Value()),
		Quantity:         strings.TrimSpace(m.QuantityInput.Value()),
		BottleLocationID: locationID,
	}
	m.Reported = true
}

// View renders the intake dialog
func (m IntakeModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Add new bottles"))
	b.WriteString("\n")
	if m.AddedSoFar > 0 {
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  %d bottle(s) added so far", m.AddedSoFar)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.phase {
	case phaseSearch:
		b.WriteString(MenuItemStyle.Render("Search the wine catalog:"))
		b.WriteString("\n\n")
		b.WriteString("    " + m.SearchInput.View())
		b.WriteString("\n")

	case phaseResults:
		b.WriteString(MenuItemStyle.Render(fmt.Sprintf("Results for %q:", strings.TrimSpace(m.SearchInput.Value()))))
		b.WriteString("\n\n")
		if len(m.Results) == 0 {
			b.WriteString(SubtitleStyle.Render("    No matches. Press ctrl+n to create this wine, esc to search again."))
			b.WriteString("\n")
		}
		for i, wine := range m.Results {
			label := wine.Name
			if wine.Producer != "" {
				label += " · " + wine.Producer
			}
			if wine.Region != "" {
				label += " (" + wine.Region + ")"
			}
			if i == m.ResultIdx {
				b.WriteString(SelectedMenuItemStyle.Render("→ " + label))
			} else {
				b.WriteString(MenuItemStyle.Render(label))
			}
			b.WriteString("\n")
		}

	case phaseDetails:
		b.WriteString(MenuItemStyle.Render("Wine: " + m.ChosenWine.Name))
		b.WriteString("\n\n")

		b.WriteString(m.renderField(0, "Vintage ", m.VintageInput.View()))
		b.WriteString(m.renderField(1, "Quantity", m.QuantityInput.View()))
		b.WriteString(m.renderField(2, "Location", m.locationLabel()))
	}

	if m.ErrMsg != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(m.ErrMsg))
		b.WriteString("\n")
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}

func (m IntakeModel) renderField(idx int, label, value string) string {
	style := BlurredInputStyle
	prefix := "    "
	if idx == m.focusIdx {
		style = FocusedInputStyle
		prefix = "  → "
	}
	return prefix + style.Render(label) + "  " + value + "\n"
}

func (m IntakeModel) locationLabel() string {
	if m.LocationIdx >= len(m.locations) {
		return lipgloss.NewStyle().Foreground(SubtleColor).Render("‹ none ›")
	}
	return "‹ " + m.locations[m.LocationIdx].Name + " ›"
}
