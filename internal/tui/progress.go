// Package tui shows live batch progress in the terminal: a spinner and
// progress bar while cards render, failure lines as they happen, and the run
// summary at the end.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cardforge/card-engine/internal/batch"
)

const maxFailureLines = 8

type eventMsg batch.Event
type eventsClosedMsg struct{}
type summaryMsg batch.Summary

// Model is the Bubble Tea model for one batch run. Events arrive on the
// events channel while the runner works; the summary channel delivers the
// final report after the events channel closes.
type Model struct {
	spinner spinner.Model
	bar     progress.Model

	events  <-chan batch.Event
	summary <-chan batch.Summary

	total    int
	done     int
	failed   int
	current  string
	failures []string

	result   *batch.Summary
	quitting bool
}

// New creates a progress model for a run of total records.
func New(total int, events <-chan batch.Event, summary <-chan batch.Summary) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return Model{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
		events:  events,
		summary: summary,
		total:   total,
	}
}

// Init starts the spinner and the event listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func waitForEvent(events <-chan batch.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func waitForSummary(summary <-chan batch.Summary) tea.Cmd {
	return func() tea.Msg {
		return summaryMsg(<-summary)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	case eventMsg:
		m.done++
		m.current = msg.Name
		if msg.Err != nil {
			m.failed++
			m.failures = append(m.failures, msg.Err.Error())
			if len(m.failures) > maxFailureLines {
				m.failures = m.failures[len(m.failures)-maxFailureLines:]
			}
		}
		cmds := []tea.Cmd{waitForEvent(m.events)}
		if m.total > 0 {
			cmds = append(cmds, m.bar.SetPercent(float64(m.done)/float64(m.total)))
		}
		return m, tea.Batch(cmds...)

	case eventsClosedMsg:
		return m, waitForSummary(m.summary)

	case summaryMsg:
		s := batch.Summary(msg)
		m.result = &s
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting && m.result == nil {
		return TextMuted.Render("Cancelled.") + "\n"
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Card Generator"))
	b.WriteString("\n\n")

	if m.result == nil {
		b.WriteString(fmt.Sprintf("%s Rendering %d/%d", m.spinner.View(), m.done, m.total))
		if m.current != "" {
			b.WriteString(TextMuted.Render("  " + m.current))
		}
		b.WriteString("\n")
		b.WriteString(m.bar.View())
		b.WriteString("\n")
	} else {
		status := SuccessStyle.Render("All cards generated")
		if !m.result.AllSucceeded() {
			status = ErrorStyle.Render(fmt.Sprintf("%d of %d cards failed", m.result.Failed, m.result.Total))
		}
		b.WriteString(SummaryBoxStyle.Render(fmt.Sprintf(
			"%s\nTotal: %d  Success: %d  Failed: %d",
			status, m.result.Total, m.result.Succeeded, m.result.Failed)))
		b.WriteString("\n")
	}

	if len(m.failures) > 0 {
		b.WriteString("\n")
		for _, f := range m.failures {
			b.WriteString(ErrorStyle.Render("✗ ") + TextNormal.Render(f) + "\n")
		}
	}

	return b.String()
}

// Summary returns the final report once the run has finished.
func (m Model) Summary() *batch.Summary { return m.result }

// Run blocks until the batch finishes or the user quits, returning the final
// summary when the run completed.
func Run(total int, events <-chan batch.Event, summary <-chan batch.Summary) (*batch.Summary, error) {
	final, err := tea.NewProgram(New(total, events, summary)).Run()
	if err != nil {
		return nil, fmt.Errorf("tui failed: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	return model.Summary(), nil
}
