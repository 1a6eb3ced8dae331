// Package present derives display values from a session snapshot. Nothing
// here mutates session state.
package present

import (
	"strconv"

	"github.com/sprite-ai/insight/internal/model"
	"github.com/sprite-ai/insight/internal/session"
)

// Display text.
const (
	AnalyzingText     = "Analyzing repositories, extracting signals, and generating insights…"
	NoRepoText        = "No repository is selected"
	NoTrendsText      = "No aggregated trends"
	LowConfidenceText = "Insights generated, but confidence is limited due to sparse data."
	SubmitIdleText    = "Analyze Projects"
	SubmitBusyText    = "Analyzing…"
)

// Mode selects which panels are rendered.
type Mode int

const (
	ModeResult Mode = iota
	ModeAnalyzing
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeResult:
		return "result"
	case ModeAnalyzing:
		return "analyzing"
	case ModeError:
		return "error"
	default:
		return "unknown"
	}
}

// Bar is one aggregate row. Percentage is passed through as delivered.
type Bar struct {
	Label      string
	Count      int
	Percentage float64
}

// PercentLabel returns the percentage followed by "%".
func (b Bar) PercentLabel() string {
	return FormatPercent(b.Percentage) + "%"
}

// Comparison is the comparison block with the difference already signed.
type Comparison struct {
	CrewAIProjects    int
	LangChainProjects int
	Difference        string
}

// View is everything a renderer needs for one frame.
type View struct {
	Mode Mode

	// ModeAnalyzing
	Analyzing string

	// ModeError
	Error string

	// ModeResult
	Summary       string
	LowConfidence bool
	Notice        string // replaces the bars when non-empty
	Bars          []Bar
	Comparison    Comparison
}

// ShowResult reports whether the result panels are visible.
func (v View) ShowResult() bool {
	return v.Mode == ModeResult
}

// Present maps a session snapshot onto a View.
func Present(s session.State) View {
	switch s.Phase {
	case session.PhasePending:
		return View{Mode: ModeAnalyzing, Analyzing: AnalyzingText}
	case session.PhaseFailed:
		return View{Mode: ModeError, Error: s.Err}
	default:
		return presentResult(s.Result)
	}
}

func presentResult(r model.AnalysisResult) View {
	v := View{
		Mode:    ModeResult,
		Summary: r.Summary,
		Comparison: Comparison{
			CrewAIProjects:    r.Comparison.CrewAIProjects,
			LangChainProjects: r.Comparison.LangChainProjects,
			Difference:        FormatDifference(r.Comparison.Difference),
		},
	}

	switch {
	case r.IsPlaceholder():
		v.Notice = NoRepoText
	case len(r.Aggregate) == 0:
		v.Notice = NoTrendsText
	default:
		v.Bars = make([]Bar, 0, len(r.Aggregate))
		for _, e := range r.Aggregate {
			v.Bars = append(v.Bars, Bar{Label: e.Label, Count: e.Count, Percentage: e.Percentage})
		}
	}

	v.LowConfidence = !r.Verified && !r.IsPlaceholder()
	return v
}

// FormatDifference prefixes strictly positive values with "+".
func FormatDifference(d int) string {
	if d > 0 {
		return "+" + strconv.Itoa(d)
	}
	return strconv.Itoa(d)
}

// FormatPercent renders p in its shortest decimal form: 50, 66.67, 140.5.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// SubmitLabel is the trigger's caption.
func SubmitLabel(pending bool) string {
	if pending {
		return SubmitBusyText
	}
	return SubmitIdleText
}
