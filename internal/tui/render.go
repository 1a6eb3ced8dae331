package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/insight/internal/present"
	"github.com/sprite-ai/insight/internal/repolist"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	v := present.Present(m.controller.State())

	sections := []string{
		titleStyle.Render("Repository Insight Console"),
		m.renderInputs(),
		m.renderButton(),
		"",
	}
	sections = append(sections, m.renderResult(v)...)
	sections = append(sections, "", m.help.View(keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderInputs() string {
	reposBox := inputStyle
	if m.focus == focusRepos {
		reposBox = inputFocusedStyle
	}
	queryBox := inputStyle
	if m.focus == focusQuery {
		queryBox = inputFocusedStyle
	}

	n := len(repolist.Normalize(m.repos.Value()))

	return lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Repositories (one URL per line)"),
		reposBox.Render(m.repos.View()),
		detectedStyle.Render(repolist.DetectedLabel(n)),
		"",
		labelStyle.Render("Query (optional)"),
		queryBox.Render(m.query.View()),
		"",
	)
}

func (m Model) renderButton() string {
	label := present.SubmitLabel(m.controller.Pending())
	switch {
	case !m.canSubmit():
		return buttonDisabledStyle.Render(label)
	case m.focus == focusButton:
		return buttonFocusedStyle.Render(label)
	default:
		return buttonStyle.Render(label)
	}
}

func (m Model) renderResult(v present.View) []string {
	switch v.Mode {
	case present.ModeAnalyzing:
		return []string{m.spinner.View() + " " + analyzingStyle.Render(v.Analyzing)}
	case present.ModeError:
		return []string{errorStyle.Render(v.Error)}
	}

	return []string{
		m.renderSummary(v),
		m.renderTrends(v),
		m.renderComparison(v),
	}
}

func (m Model) panelWidth() int {
	return min(max(m.width-2, 24), 104)
}

func (m Model) renderSummary(v present.View) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Summary"))
	b.WriteByte('\n')
	b.WriteString(summaryStyle.Render(v.Summary))
	if v.LowConfidence {
		b.WriteByte('\n')
		b.WriteString(advisoryStyle.Render(present.LowConfidenceText))
	}
	return panelStyle.Width(m.panelWidth()).Render(b.String())
}

func (m Model) renderTrends(v present.View) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Aggregated Trends"))
	b.WriteByte('\n')

	if v.Notice != "" {
		b.WriteString(noticeStyle.Render(v.Notice))
		return panelStyle.Width(m.panelWidth()).Render(b.String())
	}

	labelWidth := 0
	for _, bar := range v.Bars {
		labelWidth = max(labelWidth, lipgloss.Width(bar.Label))
	}

	for i, bar := range v.Bars {
		line := fmt.Sprintf("%s  %s  %s",
			trendLabelStyle.Width(labelWidth).Render(bar.Label),
			m.bar.ViewAs(barFraction(bar.Percentage)),
			trendValueStyle.Render(fmt.Sprintf("%s (%d)", bar.PercentLabel(), bar.Count)),
		)
		b.WriteString(line)
		if i < len(v.Bars)-1 {
			b.WriteByte('\n')
		}
	}
	return panelStyle.Width(m.panelWidth()).Render(b.String())
}

// barFraction converts a delivered percentage into the drawn fraction. Out of
// range values only bound the drawing; the label keeps the raw number.
func barFraction(pct float64) float64 {
	return min(max(pct/100, 0), 1)
}

func (m Model) renderComparison(v present.View) string {
	c := v.Comparison

	diffStyle := diffFlatStyle
	switch {
	case strings.HasPrefix(c.Difference, "+"):
		diffStyle = diffUpStyle
	case strings.HasPrefix(c.Difference, "-"):
		diffStyle = diffDownStyle
	}

	rows := []string{
		panelTitleStyle.Render("Comparison"),
		"CrewAI projects     " + trendValueStyle.Render(strconv.Itoa(c.CrewAIProjects)),
		"LangChain projects  " + trendValueStyle.Render(strconv.Itoa(c.LangChainProjects)),
		"Difference          " + diffStyle.Render(c.Difference),
	}
	return panelStyle.Width(m.panelWidth()).Render(strings.Join(rows, "\n"))
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(helpHeaderStyle.Render("insight console: Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, group := range keys.FullHelp() {
		for _, k := range group {
			h := k.Help()
			b.WriteString(fmt.Sprintf("  %s  %s\n",
				helpKeyStyle.Width(12).Render(h.Key),
				h.Desc,
			))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press any key to close help"))

	return b.String()
}
