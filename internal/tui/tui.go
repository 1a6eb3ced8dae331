// Package tui implements the Bubble Tea analysis console.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sprite-ai/insight/internal/logger"
	"github.com/sprite-ai/insight/internal/model"
	"github.com/sprite-ai/insight/internal/session"
)

// focus identifies the active control.
type focus int

const (
	focusRepos focus = iota
	focusQuery
	focusButton
	focusCount
)

// analysisDoneMsg carries the outcome of the outbound call.
type analysisDoneMsg struct {
	result model.AnalysisResult
	err    error
}

// Model is the top-level Bubble Tea model for the console.
type Model struct {
	ctx        context.Context
	controller *session.Controller
	analyzer   session.Analyzer

	repos   textarea.Model
	query   textinput.Model
	spinner spinner.Model
	bar     progress.Model
	help    help.Model

	focus focus

	// UI state
	width    int
	height   int
	showHelp bool
}

// New creates a console bound to ctrl, dispatching requests through a.
func New(ctx context.Context, ctrl *session.Controller, a session.Analyzer) Model {
	repos := textarea.New()
	repos.Placeholder = "https://github.com/org/repo\nhttps://github.com/org/other"
	repos.ShowLineNumbers = false
	repos.CharLimit = 0
	repos.MaxHeight = 0
	repos.SetHeight(5)
	repos.SetWidth(60)
	repos.Focus()

	query := textinput.New()
	query.Placeholder = "e.g. Which agent frameworks are most used?"
	query.CharLimit = 0
	query.Width = 58

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = analyzingStyle

	bar := progress.New(
		progress.WithSolidFill(string(colorPurple)),
		progress.WithoutPercentage(),
		progress.WithWidth(30),
	)

	return Model{
		ctx:        ctx,
		controller: ctrl,
		analyzer:   a,
		repos:      repos,
		query:      query,
		spinner:    sp,
		bar:        bar,
		help:       help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case analysisDoneMsg:
		m.controller.Settle(msg.result, msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.controller.Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case m.showHelp:
			// Any other key closes the help screen.
			m.showHelp = false
			return m, nil

		case key.Matches(msg, keys.NextField):
			return m, m.setFocus((m.focus + 1) % focusCount)

		case key.Matches(msg, keys.PrevField):
			return m, m.setFocus((m.focus + focusCount - 1) % focusCount)

		case key.Matches(msg, keys.Analyze):
			return m.submit()

		case key.Matches(msg, keys.Press) && m.focus != focusRepos:
			return m.submit()
		}
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusRepos:
		m.repos, cmd = m.repos.Update(msg)
	case focusQuery:
		m.query, cmd = m.query.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.repos.Blur()
	m.query.Blur()
	switch f {
	case focusRepos:
		return m.repos.Focus()
	case focusQuery:
		return m.query.Focus()
	}
	return nil
}

func (m *Model) resize() {
	w := m.width - 6
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	m.repos.SetWidth(w)
	m.query.Width = w - 2
	m.bar.Width = max(w/3, 10)
}

// canSubmit reports whether the trigger is enabled.
func (m Model) canSubmit() bool {
	return m.controller.CanSubmit(m.repos.Value())
}

// submit starts an analysis when allowed; otherwise the key is ignored.
func (m Model) submit() (tea.Model, tea.Cmd) {
	req, ok := m.controller.Submit(m.repos.Value(), m.query.Value())
	if !ok {
		return m, nil
	}
	return m, tea.Batch(m.spinner.Tick, analyzeCmd(m.ctx, m.analyzer, req))
}

func analyzeCmd(ctx context.Context, a session.Analyzer, req model.AnalysisRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := a.Analyze(ctx, req)
		if err != nil {
			logger.Get().Debug("analysis call returned error", "error", err)
		}
		return analysisDoneMsg{result: result, err: err}
	}
}

// Run starts the console.
func Run(ctx context.Context, ctrl *session.Controller, a session.Analyzer) error {
	p := tea.NewProgram(New(ctx, ctrl, a), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
