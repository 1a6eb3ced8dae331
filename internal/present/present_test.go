package present

import (
	"context"
	"errors"
	"testing"

	"github.com/sprite-ai/insight/internal/model"
	"github.com/sprite-ai/insight/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalyzer struct {
	result model.AnalysisResult
	err    error
}

func (s stubAnalyzer) Analyze(context.Context, model.AnalysisRequest) (model.AnalysisResult, error) {
	return s.result, s.err
}

func settle(t *testing.T, body string) View {
	t.Helper()
	r, err := model.DecodeResult([]byte(body))
	require.NoError(t, err)

	c := session.NewController(nil)
	s, ok := c.Run(context.Background(), stubAnalyzer{result: r}, "https://github.com/a/a", "")
	require.True(t, ok)
	return Present(s)
}

func TestPresentIdle(t *testing.T) {
	v := Present(session.NewController(nil).State())

	assert.Equal(t, ModeResult, v.Mode)
	assert.True(t, v.ShowResult())
	assert.Equal(t, NoRepoText, v.Notice)
	assert.Empty(t, v.Bars)
	assert.False(t, v.LowConfidence, "placeholder never shows the advisory")
	assert.Equal(t, "Empty", v.Summary)
	assert.Equal(t, Comparison{Difference: "0"}, v.Comparison)
}

func TestPresentPending(t *testing.T) {
	c := session.NewController(nil)
	_, ok := c.Submit("https://github.com/a/a", "")
	require.True(t, ok)

	v := Present(c.State())
	assert.Equal(t, ModeAnalyzing, v.Mode)
	assert.Equal(t, AnalyzingText, v.Analyzing)
	assert.False(t, v.ShowResult())
	assert.Empty(t, v.Error)
}

func TestPresentEmptyAggregate(t *testing.T) {
	v := settle(t, `{"aggregate": {}, "comparison": {"CrewAI_projects":3,"LangChain_projects":5,"difference":-2}, "summary":"ok", "verified":true}`)

	assert.Equal(t, ModeResult, v.Mode)
	assert.Equal(t, NoTrendsText, v.Notice)
	assert.Empty(t, v.Bars)
	assert.Equal(t, "-2", v.Comparison.Difference)
	assert.Equal(t, 3, v.Comparison.CrewAIProjects)
	assert.Equal(t, 5, v.Comparison.LangChainProjects)
	assert.False(t, v.LowConfidence)
}

func TestPresentLowConfidence(t *testing.T) {
	v := settle(t, `{"aggregate": {"rag": {"count": 1, "percentage": 100}}, "comparison": {"CrewAI_projects":0,"LangChain_projects":0,"difference":0}, "summary":"partial", "verified":false}`)

	assert.True(t, v.LowConfidence)
	assert.Equal(t, "partial", v.Summary)
	assert.Empty(t, v.Notice)
	require.Len(t, v.Bars, 1)
}

func TestPresentBars(t *testing.T) {
	v := settle(t, `{"aggregate": {
			"langgraph": {"count": 2, "percentage": 66.67},
			"crewai": {"count": 1, "percentage": 33.33},
			"evaluation": {"count": 4, "percentage": 133.3}
		}, "comparison": {"CrewAI_projects":1,"LangChain_projects":0,"difference":1}, "summary":"done", "verified":true}`)

	require.Len(t, v.Bars, 3)
	assert.Equal(t, []Bar{
		{Label: "langgraph", Count: 2, Percentage: 66.67},
		{Label: "crewai", Count: 1, Percentage: 33.33},
		{Label: "evaluation", Count: 4, Percentage: 133.3},
	}, v.Bars, "bars follow delivered order and are not clamped")
	assert.Equal(t, "66.67%", v.Bars[0].PercentLabel())
	assert.Equal(t, "+1", v.Comparison.Difference)
	assert.Empty(t, v.Notice)
}

func TestPresentServerEmptySummary(t *testing.T) {
	// A delivered summary of "Empty" is indistinguishable from the placeholder.
	v := settle(t, `{"aggregate": {"rag": {"count": 1, "percentage": 100}}, "comparison": {"CrewAI_projects":0,"LangChain_projects":0,"difference":0}, "summary":"Empty", "verified":false}`)

	assert.Equal(t, NoRepoText, v.Notice)
	assert.Empty(t, v.Bars)
	assert.False(t, v.LowConfidence)
}

func TestPresentFailed(t *testing.T) {
	c := session.NewController(nil)
	s, ok := c.Run(context.Background(), stubAnalyzer{err: errors.New("Failed to analyze repositories")}, "https://github.com/a/a", "")
	require.True(t, ok)

	v := Present(s)
	assert.Equal(t, ModeError, v.Mode)
	assert.Equal(t, "Failed to analyze repositories", v.Error)
	assert.False(t, v.ShowResult())
	assert.Empty(t, v.Summary)
	assert.Empty(t, v.Bars)
}

func TestFormatDifference(t *testing.T) {
	tests := []struct {
		d    int
		want string
	}{
		{3, "+3"},
		{1, "+1"},
		{0, "0"},
		{-1, "-1"},
		{-42, "-42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDifference(tt.d))
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "50", FormatPercent(50))
	assert.Equal(t, "66.67", FormatPercent(66.67))
	assert.Equal(t, "0", FormatPercent(0))
	assert.Equal(t, "-5.5", FormatPercent(-5.5))
}

func TestSubmitLabel(t *testing.T) {
	assert.Equal(t, "Analyze Projects", SubmitLabel(false))
	assert.Equal(t, "Analyzing…", SubmitLabel(true))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "result", ModeResult.String())
	assert.Equal(t, "analyzing", ModeAnalyzing.String())
	assert.Equal(t, "error", ModeError.String())
	assert.Equal(t, "unknown", Mode(7).String())
}
