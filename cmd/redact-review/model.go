package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prismshield/redact/internal/audit"
)

// model is the whole review screen: a cursor over the audit records, the
// optional verification summary, and a scrollable viewport for the
// detail/verification panel so output wider than the terminal doesn't
// get clipped.
type model struct {
	records      []audit.Record
	verification *audit.VerificationBundle
	cursor       int
	detail       viewport.Model
	ready        bool
}

func newModel(bundle audit.Bundle, verification *audit.VerificationBundle) model {
	return model{records: bundle.Records, verification: verification}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.listView())
		detailHeight := msg.Height - headerHeight - 2
		if !m.ready {
			m.detail = viewport.New(msg.Width, max(detailHeight, 3))
			m.ready = true
		} else {
			m.detail.Width = msg.Width
			m.detail.Height = max(detailHeight, 3)
		}
		m.syncDetail()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.syncDetail()
			}
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
				m.syncDetail()
			}
		case "g":
			m.cursor = 0
			m.syncDetail()
		case "G":
			m.cursor = len(m.records) - 1
			m.syncDetail()
		}
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// syncDetail refreshes the viewport's content for the currently selected
// record; called whenever the cursor or window size changes.
func (m *model) syncDetail() {
	if !m.ready || len(m.records) == 0 {
		return
	}
	content := renderDetail(m.records[m.cursor])
	if m.verification != nil {
		content += "\n" + renderVerification(*m.verification)
	}
	m.detail.SetContent(content)
}

func (m model) listView() string {
	var list strings.Builder
	list.WriteString(headerStyle.Render(fmt.Sprintf("Replacements (%d)", len(m.records))))
	list.WriteString("\n")
	for i, r := range m.records {
		line := fmt.Sprintf("%-14s %s → %s", r.Label, truncate(r.Original, 18), truncate(r.Replacement, 18))
		if i == m.cursor {
			list.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			list.WriteString(dimStyle.Render("  " + line))
		}
		list.WriteString("\n")
	}
	return list.String()
}

func (m model) View() string {
	if len(m.records) == 0 {
		return "no audit records to review — press q to quit\n"
	}
	if !m.ready {
		return "loading…\n"
	}

	body := panelStyle.Render(m.listView()) + "\n" + panelStyle.Render(m.detail.View())
	body += "\n" + dimStyle.Render("↑/↓ or j/k to move · g/G first/last · q to quit")
	return body
}

func renderDetail(r audit.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "label:       %s\n", r.Label)
	fmt.Fprintf(&b, "original:    %s\n", r.Original)
	fmt.Fprintf(&b, "replacement: %s\n", r.Replacement)
	fmt.Fprintf(&b, "offsets:     orig[%d:%d)  norm[%d:%d)\n", r.StartOrig, r.EndOrig, r.StartNorm, r.EndNorm)
	fmt.Fprintf(&b, "cluster:     %d\n", r.ClusterID)
	fmt.Fprintf(&b, "confidence:  %.2f   detector: %s   retries: %d\n", r.Confidence, r.Detector, r.Retries)
	if r.Reason != "" {
		fmt.Fprintf(&b, "reason:      %s\n", unsafeStyle.Render(r.Reason))
	}
	return b.String()
}

func renderVerification(v audit.VerificationBundle) string {
	var b strings.Builder
	status := okStyle.Render("no residual PII detected")
	if len(v.Residuals) > 0 {
		status = unsafeStyle.Render(fmt.Sprintf("%d residual span(s) detected", len(v.Residuals)))
	}
	fmt.Fprintf(&b, "verification: %s\n", status)
	fmt.Fprintf(&b, "leakage_score: %d   seed_present: %v\n", v.LeakageScore, v.SeedPresent)
	for label, count := range v.CountsByLabel {
		fmt.Fprintf(&b, "  %-14s %d\n", label, count)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
