// Package tui provides the terminal browser over archived analyses.
// Operators use it to review past root-cause analyses without touching
// the MCP or broker surfaces.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"patrol-agent/src/contracts"
)

// Model is the Bubble Tea model for the analysis browser. Split view:
// the left panel lists analyses newest first, the right panel shows the
// selected analysis in full.
type Model struct {
	list    list.Model
	detail  viewport.Model
	styles  *StyleConfig
	items   []Item
	focused bool // detail panel has focus
	width   int
	height  int
	ready   bool
}

// NewModel creates a browser over the given analyses, assumed to be
// sorted newest first.
func NewModel(analyses []contracts.AnalysisResult) Model {
	items := make([]Item, len(analyses))
	listItems := make([]list.Item, len(analyses))
	for i, a := range analyses {
		items[i] = Item{Analysis: a}
		listItems[i] = items[i]
	}

	delegate := NewDelegate()
	l := list.New(listItems, delegate, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return Model{
		list:   l,
		detail: viewport.New(0, 0),
		styles: DefaultStyles(),
		items:  items,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.focused = !m.focused
			return m, nil
		}

		var cmd tea.Cmd
		if m.focused {
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		m.list, cmd = m.list.Update(msg)
		m.refreshDetail()
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if len(m.items) == 0 {
		return "No archived analyses.\n\nPress q to quit.\n"
	}

	title := m.styles.TitleStyle().Render("Patrol - Error Analysis Browser")
	help := m.styles.HelpStyle().Render("↑/↓ navigate · tab switch panel · q quit")

	listWidth, detailWidth, panelHeight := m.panelSizes()

	listBorder := m.styles.BorderColor
	detailBorder := m.styles.BorderColor
	if m.focused {
		detailBorder = m.styles.AccentBlue
	} else {
		listBorder = m.styles.AccentBlue
	}

	listPanel := m.styles.PanelStyle().
		BorderForeground(listBorder).
		Width(listWidth).
		Height(panelHeight).
		Render(m.list.View())

	detailPanel := m.styles.PanelStyle().
		BorderForeground(detailBorder).
		Width(detailWidth).
		Height(panelHeight).
		Render(m.detail.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	return lipgloss.JoinVertical(lipgloss.Left, title, body, help)
}

// panelSizes splits the terminal: roughly 40% list, 60% detail.
func (m Model) panelSizes() (listWidth, detailWidth, panelHeight int) {
	listWidth = m.width * 2 / 5
	if listWidth < 30 {
		listWidth = 30
	}
	detailWidth = m.width - listWidth - 4
	if detailWidth < 20 {
		detailWidth = 20
	}
	panelHeight = m.height - 4
	if panelHeight < 6 {
		panelHeight = 6
	}
	return listWidth, detailWidth, panelHeight
}

func (m *Model) resize() {
	listWidth, detailWidth, panelHeight := m.panelSizes()
	m.list.SetSize(listWidth-2, panelHeight)
	m.detail.Width = detailWidth - 2
	m.detail.Height = panelHeight
}

// refreshDetail rebuilds the detail viewport for the selected analysis.
func (m *Model) refreshDetail() {
	selected, ok := m.selectedItem()
	if !ok {
		m.detail.SetContent("")
		return
	}
	m.detail.SetContent(m.renderDetail(selected, m.detail.Width-2))
	m.detail.GotoTop()
}

func (m Model) selectedItem() (Item, bool) {
	if len(m.list.Items()) == 0 {
		return Item{}, false
	}
	item, ok := m.list.SelectedItem().(Item)
	return item, ok
}

// renderDetail lays out one analysis: header, root cause, suggested
// fix, and provenance.
func (m Model) renderDetail(item Item, maxWidth int) string {
	a := item.Analysis
	var content strings.Builder

	header := lipgloss.NewStyle().
		Foreground(m.styles.PrimaryBlue).
		Bold(true).
		Render(fmt.Sprintf("Fingerprint: %s", item.ShortFingerprint()))
	fmt.Fprintf(&content, "%s\n\n", header)

	confStyle := lipgloss.NewStyle().
		Foreground(m.styles.ConfidenceColor(a.ConfidenceScore)).
		Bold(true)
	fmt.Fprintf(&content, "%s\n\n", confStyle.Render(fmt.Sprintf("Confidence: %d%%", a.ConfidenceScore)))

	sectionStyle := lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Bold(true)
	fmt.Fprintln(&content, sectionStyle.Render("Root Cause:"))
	fmt.Fprintf(&content, "%s\n\n", Wrap(a.RootCause, maxWidth))

	fmt.Fprintln(&content, sectionStyle.Render("Suggested Fix:"))
	fmt.Fprintf(&content, "%s\n\n", Wrap(a.SuggestedFix, maxWidth))

	meta := lipgloss.NewStyle().Foreground(m.styles.TextSecondary).Faint(true)
	analyzedAt := time.UnixMilli(a.AnalyzedAt).Format(time.RFC3339)
	fmt.Fprintln(&content, meta.Render(fmt.Sprintf("Event %s · analyzed %s", a.EventID, analyzedAt)))

	return content.String()
}

// Run starts the browser and blocks until the user quits.
func Run(analyses []contracts.AnalysisResult) error {
	p := tea.NewProgram(NewModel(analyses), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
