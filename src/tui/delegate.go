package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// listRenderingOverhead accounts for padding added by bubbles/list
	// and the panel border around it.
	listRenderingOverhead = 10

	confidenceWidth  = 4
	fingerprintWidth = 8
)

// Delegate renders analyses as single-line table rows.
type Delegate struct {
	styles *StyleConfig
}

// NewDelegate creates a row delegate with default styles.
func NewDelegate() Delegate {
	return Delegate{styles: DefaultStyles()}
}

// Height returns the height of a list item.
func (d Delegate) Height() int { return 1 }

// Spacing returns spacing between items.
func (d Delegate) Spacing() int { return 0 }

// Update handles item updates.
func (d Delegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

// Render renders one analysis row: confidence, fingerprint prefix, and
// as much of the root cause as fits.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(Item)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	confCol := fmt.Sprintf("%*d%%", confidenceWidth-1, entry.Analysis.ConfidenceScore)
	fpCol := TruncateAndPad(entry.ShortFingerprint(), fingerprintWidth, false)

	fixedWidth := confidenceWidth + fingerprintWidth + 6
	availableWidth := m.Width() - fixedWidth - listRenderingOverhead

	var snippet string
	if availableWidth > 0 {
		snippet = TruncateAndPad(CleanLogText(entry.Analysis.RootCause), availableWidth, true)
	}

	line := fmt.Sprintf("%s │ %s │ %s", confCol, fpCol, snippet)

	style := lipgloss.NewStyle().Foreground(d.styles.TextSecondary)
	if isSelected {
		style = style.Bold(true).Foreground(d.styles.PrimaryBlue).Background(d.styles.SelectedColor)
	}

	fmt.Fprint(w, style.Render(line))
}
