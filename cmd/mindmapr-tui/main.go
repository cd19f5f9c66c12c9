package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/mindmapr/pkg/mindmap"
	"github.com/dd0wney/mindmapr/pkg/search"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	outlineBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	mapsView
	outlineView
	searchView
	viewCount
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open/search"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	store       *mindmap.FileStore
	ownerID     string
	currentView view
	searchInput textinput.Model
	mapTable    table.Model
	index       *search.Index
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time
	metas       []*mindmap.MapMeta
	current     *mindmap.Map
	results     []search.Result
	stats       mindmap.Stats
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(store *mindmap.FileStore, ownerID string) model {
	ti := textinput.New()
	ti.Placeholder = "search node text..."
	ti.CharLimit = 200
	ti.Width = 60

	columns := []table.Column{
		{Title: "Title", Width: 30},
		{Title: "Nodes", Width: 8},
		{Title: "Edges", Width: 8},
		{Title: "Updated", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		store:       store,
		ownerID:     ownerID,
		currentView: dashboardView,
		searchInput: ti,
		mapTable:    t,
		index:       search.NewIndex(),
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
	}
	m.refresh()
	return m
}

func (m *model) refresh() {
	ctx := context.Background()

	stats, err := m.store.Stats(ctx)
	if err == nil {
		m.stats = stats
	}

	metas, err := m.store.ListMaps(ctx, m.ownerID)
	if err != nil {
		m.message = fmt.Sprintf("Failed to list maps: %v", err)
		m.messageErr = true
		return
	}
	m.metas = metas

	rows := make([]table.Row, 0, len(metas))
	for _, meta := range metas {
		rows = append(rows, table.Row{
			meta.Title,
			fmt.Sprintf("%d", meta.NodeCount),
			fmt.Sprintf("%d", meta.EdgeCount),
			meta.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	m.mapTable.SetRows(rows)

	for _, meta := range metas {
		if mp, err := m.store.GetMap(ctx, m.ownerID, meta.ID); err == nil {
			m.index.IndexMap(m.ownerID, mp)
		}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.refresh()
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.currentView == searchView && m.searchInput.Focused() && msg.String() == "q" {
				break
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount
			m.focusForView()

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}
			m.focusForView()

		case key.Matches(msg, m.keys.Enter):
			switch m.currentView {
			case mapsView:
				m.openSelectedMap()
			case searchView:
				m.runSearch()
			}
		}
	}

	switch m.currentView {
	case searchView:
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	case mapsView:
		m.mapTable, cmd = m.mapTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) focusForView() {
	if m.currentView == searchView {
		m.searchInput.Focus()
	} else {
		m.searchInput.Blur()
	}
}

func (m *model) openSelectedMap() {
	cursor := m.mapTable.Cursor()
	if cursor < 0 || cursor >= len(m.metas) {
		m.message = "No map selected"
		m.messageErr = true
		return
	}

	mp, err := m.store.GetMap(context.Background(), m.ownerID, m.metas[cursor].ID)
	if err != nil {
		m.message = fmt.Sprintf("Failed to open map: %v", err)
		m.messageErr = true
		return
	}

	m.current = mp
	m.currentView = outlineView
	m.message = fmt.Sprintf("Opened %q", mp.Title)
	m.messageErr = false
}

func (m *model) runSearch() {
	query := m.searchInput.Value()
	if query == "" {
		m.message = "Search query cannot be empty"
		m.messageErr = true
		return
	}

	start := time.Now()
	m.results = m.index.Search(m.ownerID, query, 20)
	m.message = fmt.Sprintf("Found %d matches in %s", len(m.results),
		time.Since(start).Round(time.Microsecond))
	m.messageErr = false
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("MindMapr - Map Browser"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case mapsView:
		s.WriteString(m.renderMaps())
	case outlineView:
		s.WriteString(m.renderOutline())
	case searchView:
		s.WriteString(m.renderSearch())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("x " + m.message))
		} else {
			s.WriteString(successStyle.Render("* " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Maps", "Outline", "Search"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	uptime := time.Since(m.startTime).Round(time.Second)

	statsContent := fmt.Sprintf(`Statistics
---------------
Maps:      %d
Nodes:     %d
Edges:     %d
Indexed:   %d
Uptime:    %s`,
		m.stats.Maps,
		m.stats.Nodes,
		m.stats.Edges,
		m.index.DocumentCount(m.ownerID),
		uptime,
	)

	quickActions := `Quick Actions
---------------
[Tab]       Navigate views
[Enter]     Open map / search
[q]         Quit

Views
---------------
- Map browser
- Node outline
- Full-text search`

	statsBox := statsBoxStyle.Render(statsContent)
	actionsBox := statsBoxStyle.Render(quickActions)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, statsBox, actionsBox),
	)
}

func (m model) renderMaps() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Map Browser"))
	s.WriteString("\n\n")

	if len(m.metas) == 0 {
		s.WriteString(helpStyle.Render("No maps yet for this owner"))
	} else {
		s.WriteString(m.mapTable.View())
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Navigate with up/down, Enter to open"))

	return contentStyle.Render(s.String())
}

func (m model) renderOutline() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Node Outline"))
	s.WriteString("\n\n")

	if m.current == nil {
		s.WriteString(helpStyle.Render("Open a map from the Maps view first"))
		return contentStyle.Render(s.String())
	}

	s.WriteString(outlineBoxStyle.Render(m.generateOutline()))
	return contentStyle.Render(s.String())
}

// generateOutline renders the map as an indented text tree rooted at
// the best-connected node, mirroring the tree layout's root choice
func (m model) generateOutline() string {
	mp := m.current
	if len(mp.Nodes) == 0 {
		return fmt.Sprintf("%q has no nodes yet", mp.Title)
	}

	neighbors := make(map[string][]string, len(mp.Nodes))
	for _, e := range mp.Edges {
		neighbors[e.A] = append(neighbors[e.A], e.B)
		neighbors[e.B] = append(neighbors[e.B], e.A)
	}

	ids := make([]string, 0, len(mp.Nodes))
	for id := range mp.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	root := ids[0]
	for _, id := range ids {
		if len(neighbors[id]) > len(neighbors[root]) {
			root = id
		}
	}

	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s (%d nodes, %d edges)\n\n",
		mp.Title, len(mp.Nodes), len(mp.Edges)))

	visited := make(map[string]bool, len(mp.Nodes))
	m.writeSubtree(&s, mp, neighbors, root, 0, visited)

	// Disconnected nodes follow the tree
	for _, id := range ids {
		if !visited[id] {
			m.writeSubtree(&s, mp, neighbors, id, 0, visited)
		}
	}

	return s.String()
}

func (m model) writeSubtree(s *strings.Builder, mp *mindmap.Map, neighbors map[string][]string, id string, depth int, visited map[string]bool) {
	if visited[id] || depth > 6 {
		return
	}
	visited[id] = true

	node := mp.Nodes[id]
	if node == nil {
		return
	}

	indent := strings.Repeat("  ", depth)
	marker := "o"
	if depth == 0 {
		marker = "@"
	}
	s.WriteString(fmt.Sprintf("%s%s %s\n", indent, marker, node.Text))

	children := append([]string(nil), neighbors[id]...)
	sort.Strings(children)
	for _, child := range children {
		m.writeSubtree(s, mp, neighbors, child, depth+1, visited)
	}
}

func (m model) renderSearch() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Search"))
	s.WriteString("\n\n")

	s.WriteString("Search across all node text:\n\n")
	s.WriteString(m.searchInput.View())
	s.WriteString("\n\n")

	if len(m.results) > 0 {
		for i, res := range m.results {
			if i >= 10 {
				s.WriteString(helpStyle.Render(
					fmt.Sprintf("... and %d more\n", len(m.results)-10)))
				break
			}
			s.WriteString(fmt.Sprintf("  %-24s %s\n",
				truncate(res.MapTitle, 24), truncate(res.Text, 50)))
		}
	} else {
		s.WriteString(helpStyle.Render("Matches single-character typos too"))
	}

	return contentStyle.Render(s.String())
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func main() {
	dataDir := flag.String("data", "./data/mindmapr", "Data directory")
	ownerID := flag.String("owner", "local", "Owner whose maps to browse")
	flag.Parse()

	store, err := mindmap.NewFileStore(*dataDir)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	p := tea.NewProgram(initialModel(store, *ownerID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
