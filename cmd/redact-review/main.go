// Command redact-review is a terminal UI for reviewing a redaction run's
// Audit and Verification JSON without re-running the pipeline: a list of
// every replacement on top, and below it a scrollable panel with the
// selected entry's detail (original, replacement, offsets, retries,
// reason) followed by the verification summary when one was given.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prismshield/redact/internal/audit"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: redact-review <audit.json> [verification.json]")
		os.Exit(3)
	}

	bundle, err := loadAudit(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "redact-review: %v\n", err)
		os.Exit(3)
	}

	var verification *audit.VerificationBundle
	if len(os.Args) > 2 {
		v, err := loadVerification(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "redact-review: %v\n", err)
			os.Exit(3)
		}
		verification = &v
	}

	m := newModel(bundle, verification)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "redact-review: %v\n", err)
		os.Exit(5)
	}
}

func loadAudit(path string) (audit.Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return audit.Bundle{}, err
	}
	var b audit.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return audit.Bundle{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return b, nil
}

func loadVerification(path string) (audit.VerificationBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return audit.VerificationBundle{}, err
	}
	var v audit.VerificationBundle
	if err := json.Unmarshal(data, &v); err != nil {
		return audit.VerificationBundle{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")).MarginBottom(1)
	unsafeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
