package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/sprite-ai/insight/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStub(t *testing.T) {
	p := FetchStub("https://github.com/acme/rag-kit/")
	assert.Equal(t, "rag-kit", p.Name)
	assert.Equal(t, "Repository fetched from https://github.com/acme/rag-kit/", p.Readme)
	assert.Empty(t, p.Tags)
}

func TestExtractKeywords(t *testing.T) {
	assert.Equal(t, []string{"crewai", "rag"}, ExtractKeywords("A CrewAI agent with RAG"))
	assert.Equal(t, []string{"vector database"}, ExtractKeywords("uses a Vector Database"))
	assert.Empty(t, ExtractKeywords("nothing relevant"))
	assert.NotNil(t, ExtractKeywords(""))
}

func TestRunAggregatesAndCompares(t *testing.T) {
	repos := []string{
		"https://github.com/a/crewai-demo",
		"https://github.com/b/langchain-rag",
		"https://github.com/c/plain",
	}

	s, err := Run(context.Background(), repos, "", Options{})
	require.NoError(t, err)

	require.Len(t, s.Signals, 3)
	assert.Equal(t, []string{"crewai"}, s.Signals[0].Keywords)
	assert.Equal(t, []string{"langchain", "rag"}, s.Signals[1].Keywords)
	assert.Empty(t, s.Signals[2].Keywords)

	assert.Equal(t, model.Aggregate{
		{Label: "crewai", Count: 1, Percentage: 33.33},
		{Label: "langchain", Count: 1, Percentage: 33.33},
		{Label: "rag", Count: 1, Percentage: 33.33},
	}, s.Aggregate)
	assert.Equal(t, model.Comparison{CrewAIProjects: 1, LangChainProjects: 1, Difference: 0}, s.Comparison)
	assert.Contains(t, s.Summary, DefaultQuery)
	assert.True(t, s.Verified)
}

func TestRunPercentRounding(t *testing.T) {
	repos := []string{
		"https://github.com/a/crewai-one",
		"https://github.com/a/crewai-two",
		"https://github.com/a/other",
	}

	s, err := Run(context.Background(), repos, "frameworks?", Options{})
	require.NoError(t, err)

	e, ok := s.Aggregate.Lookup("crewai")
	require.True(t, ok)
	assert.Equal(t, 2, e.Count)
	assert.Equal(t, 66.67, e.Percentage)
	assert.Equal(t, 2, s.Comparison.Difference)
	assert.Contains(t, s.Summary, "frameworks?")
}

func TestRunNoSignalsIsUnverified(t *testing.T) {
	s, err := Run(context.Background(), []string{"https://github.com/c/plain"}, "", Options{})
	require.NoError(t, err)

	assert.Empty(t, s.Aggregate)
	assert.Equal(t, model.Comparison{}, s.Comparison)
	assert.False(t, s.Verified)

	r := s.Result()
	assert.NotNil(t, r.Aggregate)
	assert.NotEmpty(t, r.Summary)
}

func TestRunObserverSeesEveryStage(t *testing.T) {
	var seen []string
	_, err := Run(context.Background(), []string{"https://github.com/a/rag"}, "", Options{
		Observer: func(stage string, _ *State) { seen = append(seen, stage) },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"analyzer", "aggregator", "comparator", "summarizer", "fact_checker"}, seen)
	assert.Equal(t, seen, StageNames())
}

func TestRunCustomSummarizer(t *testing.T) {
	sum := SummarizerFunc(func(_ context.Context, s *State) (string, error) {
		return "  nothing to report  ", nil
	})

	s, err := Run(context.Background(), []string{"https://github.com/a/langchain"}, "", Options{Summarizer: sum})
	require.NoError(t, err)
	assert.Equal(t, "nothing to report", s.Summary)
	assert.False(t, s.Verified)
}

func TestRunSummarizerError(t *testing.T) {
	boom := errors.New("model unavailable")
	sum := SummarizerFunc(func(context.Context, *State) (string, error) { return "", boom })

	_, err := Run(context.Background(), []string{"https://github.com/a/b"}, "", Options{Summarizer: sum})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stage summarizer")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []string{"https://github.com/a/b"}, "", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFactCheck(t *testing.T) {
	tests := []struct {
		summary string
		want    bool
	}{
		{"Most PROJECTS use it", true},
		{"crewai dominates", true},
		{"LangChain is common", true},
		{"40 percentage points", true},
		{"one project only", false},
		{"", false},
	}
	for _, tt := range tests {
		s := &State{Summary: tt.summary}
		require.NoError(t, factCheck(context.Background(), s))
		assert.Equal(t, tt.want, s.Verified, tt.summary)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 50.0, Round2(50))
	assert.Equal(t, 14.29, Round2(100.0/7))
}
