package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cellarly/cellarctl/internal/api"
)

// recipientKeyMap defines key bindings for the recipient picker screen
type recipientKeyMap struct {
	Toggle key.Binding
	Share  key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k recipientKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Share, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k recipientKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Share, k.Quit},
	}
}

// recipientItem wraps a Recipient for use with bubbles/list
type recipientItem struct {
	recipient api.Recipient
	selected  func(id string) bool
}

// FilterValue implements list.Item. Filter by name or email.
func (r recipientItem) FilterValue() string {
	return r.recipient.Name + " " + r.recipient.Email
}

// recipientDelegate renders one recipient per row with a checkbox marker.
type recipientDelegate struct{}

func (d recipientDelegate) Height() int { return 1 }

func (d recipientDelegate) Spacing() int { return 0 }

func (d recipientDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d recipientDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(recipientItem)
	if !ok {
		return
	}

	r := ri.recipient
	cursor := index == m.Index()

	marker := Checkbox(ri.selected(r.ID))
	label := r.Name
	if r.Email != "" {
		label += "  " + lipgloss.NewStyle().Foreground(SubtleColor).Render("<"+r.Email+">")
	}

	if cursor {
		fmt.Fprint(w, SelectedMenuItemStyle.Render("→ "+marker+" "+label))
		return
	}
	fmt.Fprint(w, "  "+marker+" "+label)
}

// RecipientPickerModel is the wizard's final screen: a filterable multi-select
// over the users bottles can be shared with, plus the share submission.
type RecipientPickerModel struct {
	List        list.Model
	SelectedIDs map[string]struct{}

	// Submitting disables the share key while a request is in flight.
	Submitting bool

	// Inline error from a vetoed or failed submission
	ErrMsg string

	// Terminal outcome flags, read by the app coordinator after Update.
	Submitted bool
	Dismissed bool

	// UI state
	Width  int
	Height int
	Help   help.Model
	Keys   recipientKeyMap
}

// NewRecipientPickerModel creates the recipient picker. Ids in preselected
// that match a known recipient start out checked.
func NewRecipientPickerModel(recipients []api.Recipient, preselected []string, width, height int) RecipientPickerModel {
	selected := make(map[string]struct{})

	known := make(map[string]struct{}, len(recipients))
	for _, r := range recipients {
		known[r.ID] = struct{}{}
	}
	for _, id := range preselected {
		if _, ok := known[id]; ok {
			selected[id] = struct{}{}
		}
	}

	isSelected := func(id string) bool {
		_, ok := selected[id]
		return ok
	}

	items := make([]list.Item, len(recipients))
	for i, r := range recipients {
		items[i] = recipientItem{recipient: r, selected: isSelected}
	}

	l := list.New(items, recipientDelegate{}, 0, 0)
	l.Title = "Share with fellow surfers"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = TitleStyle
	l.SetSize(width-6, height-12)

	keys := recipientKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Share: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "share"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return RecipientPickerModel{
		List:        l,
		SelectedIDs: selected,
		Width:       width,
		Height:      height,
		Help:        help.New(),
		Keys:        keys,
	}
}

// Init implements tea.Model
func (m RecipientPickerModel) Init() tea.Cmd {
	return nil
}

// Update handles key input for the recipient picker
func (m RecipientPickerModel) Update(msg tea.Msg) (RecipientPickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.List.SetSize(msg.Width-6, msg.Height-12)
		return m, nil

	case tea.KeyMsg:
		if m.List.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.Keys.Toggle):
			if m.Submitting {
				return m, nil
			}
			if item, ok := m.List.SelectedItem().(recipientItem); ok {
				id := item.recipient.ID
				if _, on := m.SelectedIDs[id]; on {
					delete(m.SelectedIDs, id)
				} else {
					m.SelectedIDs[id] = struct{}{}
				}
			}
			return m, nil

		case key.Matches(msg, m.Keys.Share):
			if m.Submitting {
				return m, nil
			}
			m.Submitted = true
			return m, nil

		case key.Matches(msg, m.Keys.Quit):
			if m.Submitting {
				return m, nil
			}
			m.Dismissed = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// Selection returns the chosen recipient ids in list order.
func (m RecipientPickerModel) Selection() []string {
	var ids []string
	for _, item := range m.List.Items() {
		if ri, ok := item.(recipientItem); ok {
			if _, on := m.SelectedIDs[ri.recipient.ID]; on {
				ids = append(ids, ri.recipient.ID)
			}
		}
	}
	return ids
}

// View renders the recipient picker screen
func (m RecipientPickerModel) View() string {
	var b strings.Builder

	if len(m.List.Items()) == 0 {
		b.WriteString(RenderTitle("Share with fellow surfers"))
		b.WriteString("\n\n")
		b.WriteString(SubtitleStyle.Render("  Nobody to share with yet."))
		b.WriteString("\n\n")
		b.WriteString(MenuItemStyle.Render("Press esc to cancel."))
	} else {
		b.WriteString(m.List.View())
		b.WriteString("\n")
		if m.Submitting {
			b.WriteString(SubtitleStyle.Render("  Sharing..."))
		} else {
			b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  %d recipient(s) selected", len(m.SelectedIDs))))
		}
	}

	if m.ErrMsg != "" {
		b.WriteString("\n")
		b.WriteString(RenderError(m.ErrMsg))
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
