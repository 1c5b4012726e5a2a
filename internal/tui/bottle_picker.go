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

// bottlePickerKeyMap defines key bindings for the bottle picker screen
type bottlePickerKeyMap struct {
	Toggle  key.Binding
	Confirm key.Binding
	Skip    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k bottlePickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Confirm, k.Skip, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k bottlePickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Confirm, k.Skip, k.Quit},
	}
}

// bottleItem wraps a Bottle for use with bubbles/list
type bottleItem struct {
	bottle   api.Bottle
	selected func(id string) bool
}

// FilterValue implements list.Item. Filter by wine name, producer or location.
func (b bottleItem) FilterValue() string {
	return b.bottle.WineName + " " + b.bottle.Producer + " " + b.bottle.LocationName
}

// bottleDelegate is a custom list delegate rendering one bottle per row with
// a checkbox marker.
type bottleDelegate struct {
	width int
}

func (d bottleDelegate) Height() int { return 2 }

func (d bottleDelegate) Spacing() int { return 0 }

func (d bottleDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d bottleDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	bi, ok := item.(bottleItem)
	if !ok {
		return
	}

	bottle := bi.bottle
	cursor := index == m.Index()

	marker := Checkbox(bi.selected(bottle.ID))
	label := bottle.Label()
	if bottle.Quantity > 1 {
		label = fmt.Sprintf("%s ×%d", label, bottle.Quantity)
	}

	var line string
	if cursor {
		line = SelectedMenuItemStyle.Render("→ "+marker+" "+label)
	} else {
		line = "  " + marker + " " + label
	}

	detail := bottle.Producer
	if bottle.LocationName != "" {
		if detail != "" {
			detail += " · "
		}
		detail += bottle.LocationName
	}
	if detail == "" {
		detail = "-"
	}
	detailLine := lipgloss.NewStyle().Foreground(SubtleColor).PaddingLeft(8).Render(detail)

	fmt.Fprint(w, line+"\n"+detailLine)
}

// BottlePickerModel is the wizard's first screen: a multi-select list of the
// user's unshared bottles.
type BottlePickerModel struct {
	List        list.Model
	SelectedIDs map[string]struct{}

	// Terminal outcome flags, read by the app coordinator after Update.
	Confirmed bool
	Dismissed bool

	// UI state
	Width  int
	Height int
	Help   help.Model
	Keys   bottlePickerKeyMap
}

// NewBottlePickerModel creates the bottle picker over the given bottles.
func NewBottlePickerModel(bottles []api.Bottle, width, height int) BottlePickerModel {
	selected := make(map[string]struct{})

	isSelected := func(id string) bool {
		_, ok := selected[id]
		return ok
	}

	items := make([]list.Item, len(bottles))
	for i, b := range bottles {
		items[i] = bottleItem{bottle: b, selected: isSelected}
	}

	delegate := bottleDelegate{width: width}
	l := list.New(items, delegate, 0, 0)
	l.Title = "Pick bottles to share"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = TitleStyle
	l.SetSize(width-6, height-12)

	keys := bottlePickerKeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip to new bottles"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return BottlePickerModel{
		List:        l,
		SelectedIDs: selected,
		Width:       width,
		Height:      height,
		Help:        help.New(),
		Keys:        keys,
	}
}

// Init implements tea.Model
func (m BottlePickerModel) Init() tea.Cmd {
	return nil
}

// Update handles key input for the bottle picker
func (m BottlePickerModel) Update(msg tea.Msg) (BottlePickerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.List.SetSize(msg.Width-6, msg.Height-12)
		return m, nil

	case tea.KeyMsg:
		// While the list's filter input is active, keys belong to the list.
		if m.List.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.Keys.Toggle):
			if item, ok := m.List.SelectedItem().(bottleItem); ok {
				id := item.bottle.ID
				if _, on := m.SelectedIDs[id]; on {
					delete(m.SelectedIDs, id)
				} else {
					m.SelectedIDs[id] = struct{}{}
				}
			}
			return m, nil

		case key.Matches(msg, m.Keys.Confirm):
			m.Confirmed = true
			return m, nil

		case key.Matches(msg, m.Keys.Skip):
			// Continue with nothing selected; the intake dialog is next.
			// Clear in place, the list items share this map.
			for id := range m.SelectedIDs {
				delete(m.SelectedIDs, id)
			}
			m.Confirmed = true
			return m, nil

		case key.Matches(msg, m.Keys.Quit):
			m.Dismissed = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}

// Selection returns the chosen bottle ids in list order.
func (m BottlePickerModel) Selection() []string {
	var ids []string
	for _, item := range m.List.Items() {
		if bi, ok := item.(bottleItem); ok {
			if _, on := m.SelectedIDs[bi.bottle.ID]; on {
				ids = append(ids, bi.bottle.ID)
			}
		}
	}
	return ids
}

// View renders the bottle picker screen
func (m BottlePickerModel) View() string {
	var b strings.Builder

	if len(m.List.Items()) == 0 {
		b.WriteString(RenderTitle("Pick bottles to share"))
		b.WriteString("\n\n")
		b.WriteString(SubtitleStyle.Render("  No unshared bottles in your cellar."))
		b.WriteString("\n\n")
		b.WriteString(MenuItemStyle.Render("Press enter to add new bottles instead, or esc to cancel."))
	} else {
		b.WriteString(m.List.View())
		b.WriteString("\n")
		count := len(m.SelectedIDs)
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("  %d bottle(s) selected", count)))
	}

	helpText := m.Help.View(m.Keys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
