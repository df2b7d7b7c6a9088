package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styling
var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0a84ff")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#30d158")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#ff453a")).
			Padding(0, 1)
)

// Model defines the application state
type Model struct {
	mainMenu      list.Model
	locationTable table.Model
	inputField    textinput.Model
	spinner       spinner.Model
	client        *ApiClient
	loading       bool
	currentView   string
	pendingAction string
	status        string
	error         string
}

// item represents a list item
type item struct {
	title, desc string
}

// FilterValue implements list.Item interface
func (i item) FilterValue() string { return i.title }

// Title implements list.Item interface
func (i item) Title() string { return i.title }

// Description implements list.Item interface
func (i item) Description() string { return i.desc }

// Messages
type locationsMsg struct {
	items []Location
	count int
}

type actionMsg struct {
	summary string
}

type errMsg struct {
	err error
}

// Initialize the model
func initialModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	items := []list.Item{
		item{title: "All Locations", desc: "List the location catalogue"},
		item{title: "Free Locations", desc: "List locations with status FREE"},
		item{title: "Reserve", desc: "Reserve locations: <reservation-id> <loc-id> [loc-id...]"},
		item{title: "Occupy", desc: "Occupy a location: <loc-id> [pallet-ref]"},
		item{title: "Free", desc: "Release a location: <loc-id>"},
		item{title: "Move", desc: "Move a pallet: <from-id> <to-id> [pallet-ref]"},
		item{title: "Exit", desc: "Exit the application"},
	}

	mainMenu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "Warespace CLI"

	columns := []table.Column{
		{Title: "ID", Width: 20},
		{Title: "Area", Width: 10},
		{Title: "Type", Width: 8},
		{Title: "Status", Width: 10},
		{Title: "LxWxH (mm)", Width: 16},
		{Title: "Max kg", Width: 8},
	}
	locationTable := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)

	input := textinput.New()
	input.Placeholder = "arguments..."
	input.CharLimit = 128

	return Model{
		mainMenu:      mainMenu,
		locationTable: locationTable,
		inputField:    input,
		spinner:       s,
		client:        NewApiClient(),
		currentView:   "menu",
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.mainMenu.SetSize(msg.Width-h, msg.Height-v)
		m.locationTable.SetHeight(msg.Height - v - 4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.currentView != "menu" {
				m.currentView = "menu"
				m.error = ""
				return m, nil
			}
		case "enter":
			switch m.currentView {
			case "menu":
				return m.handleMenuSelect()
			case "input":
				return m.handleInputSubmit()
			}
		}

	case locationsMsg:
		m.loading = false
		m.error = ""
		m.status = fmt.Sprintf("%d locations", msg.count)
		rows := make([]table.Row, 0, len(msg.items))
		for _, loc := range msg.items {
			rows = append(rows, table.Row{
				loc.ID, loc.AreaID, loc.AreaType, loc.Status,
				fmt.Sprintf("%dx%dx%d", loc.LengthMM, loc.WidthMM, loc.HeightMM),
				fmt.Sprintf("%d", loc.MaxWeightKG),
			})
		}
		m.locationTable.SetRows(rows)
		m.currentView = "locations"
		return m, nil

	case actionMsg:
		m.loading = false
		m.error = ""
		m.status = msg.summary
		m.currentView = "menu"
		return m, nil

	case errMsg:
		m.loading = false
		m.error = msg.err.Error()
		m.currentView = "menu"
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.currentView {
	case "menu":
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case "locations":
		m.locationTable, cmd = m.locationTable.Update(msg)
	case "input":
		m.inputField, cmd = m.inputField.Update(msg)
	}
	return m, cmd
}

func (m Model) handleMenuSelect() (tea.Model, tea.Cmd) {
	selected, ok := m.mainMenu.SelectedItem().(item)
	if !ok {
		return m, nil
	}

	switch selected.title {
	case "All Locations":
		m.loading = true
		return m, m.fetchLocations(url.Values{})
	case "Free Locations":
		m.loading = true
		params := url.Values{}
		params.Set("status", "FREE")
		return m, m.fetchLocations(params)
	case "Reserve", "Occupy", "Free", "Move":
		m.pendingAction = selected.title
		m.inputField.SetValue("")
		m.inputField.Focus()
		m.currentView = "input"
		return m, textinput.Blink
	case "Exit":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleInputSubmit() (tea.Model, tea.Cmd) {
	args := strings.Fields(m.inputField.Value())
	m.loading = true
	m.currentView = "menu"

	action := m.pendingAction
	client := m.client
	return m, func() tea.Msg {
		switch action {
		case "Reserve":
			if len(args) < 2 {
				return errMsg{fmt.Errorf("usage: <reservation-id> <loc-id> [loc-id...]")}
			}
			res, err := client.Reserve(args[0], args[1:], "")
			if err != nil {
				return errMsg{err}
			}
			return actionMsg{fmt.Sprintf("reserved %d location(s) under %s", len(res.LocationIDs), res.ID)}
		case "Occupy":
			if len(args) < 1 {
				return errMsg{fmt.Errorf("usage: <loc-id> [pallet-ref]")}
			}
			palletRef := ""
			if len(args) > 1 {
				palletRef = args[1]
			}
			loc, err := client.Occupy(args[0], palletRef)
			if err != nil {
				return errMsg{err}
			}
			return actionMsg{fmt.Sprintf("%s is now %s", loc.ID, loc.Status)}
		case "Free":
			if len(args) < 1 {
				return errMsg{fmt.Errorf("usage: <loc-id>")}
			}
			loc, err := client.Free(args[0])
			if err != nil {
				return errMsg{err}
			}
			return actionMsg{fmt.Sprintf("%s is now %s", loc.ID, loc.Status)}
		case "Move":
			if len(args) < 2 {
				return errMsg{fmt.Errorf("usage: <from-id> <to-id> [pallet-ref]")}
			}
			palletRef := ""
			if len(args) > 2 {
				palletRef = args[2]
			}
			from, to, err := client.Move(args[0], args[1], palletRef)
			if err != nil {
				return errMsg{err}
			}
			return actionMsg{fmt.Sprintf("moved: %s -> %s, %s -> %s", from.ID, from.Status, to.ID, to.Status)}
		}
		return errMsg{fmt.Errorf("unknown action %s", action)}
	}
}

func (m Model) fetchLocations(params url.Values) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		items, count, err := client.GetLocations(params)
		if err != nil {
			return errMsg{err}
		}
		return locationsMsg{items: items, count: count}
	}
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	switch m.currentView {
	case "locations":
		b.WriteString(titleStyle.Render("Locations"))
		b.WriteString("\n\n")
		b.WriteString(m.locationTable.View())
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(m.status))
		b.WriteString("  esc: back")
	case "input":
		b.WriteString(titleStyle.Render(m.pendingAction))
		b.WriteString("\n\n")
		b.WriteString(m.inputField.View())
		b.WriteString("\n\nenter: submit  esc: cancel")
	default:
		if m.loading {
			b.WriteString(m.spinner.View())
			b.WriteString(" loading...\n")
		}
		b.WriteString(m.mainMenu.View())
	}

	if m.error != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.error))
	} else if m.status != "" && m.currentView == "menu" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(m.status))
	}

	return docStyle.Render(b.String())
}

func main() {
	client := NewApiClient()
	if count, err := client.CheckHealth(); err != nil {
		fmt.Printf("Warning: API server at %s is not available: %v\n", client.BaseURL, err)
	} else {
		fmt.Printf("Connected to %s (%d locations)\n", client.BaseURL, count)
	}

	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
