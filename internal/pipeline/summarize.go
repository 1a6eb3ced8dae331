package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// Summarizer writes the summary for a run from its aggregate and comparison.
type Summarizer interface {
	Summarize(ctx context.Context, s *State) (string, error)
}

// SummarizerFunc adapts a function to Summarizer.
type SummarizerFunc func(ctx context.Context, s *State) (string, error)

func (f SummarizerFunc) Summarize(ctx context.Context, s *State) (string, error) {
	return f(ctx, s)
}

// TemplateSummarizer produces a deterministic summary grounded only in the
// computed aggregate and comparison.
type TemplateSummarizer struct{}

func (TemplateSummarizer) Summarize(_ context.Context, s *State) (string, error) {
	query := strings.TrimSpace(s.Query)
	if query == "" {
		query = DefaultQuery
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: analyzed %s.", query, plural(len(s.Signals), "project", "projects"))

	if len(s.Aggregate) == 0 {
		b.WriteString(" No framework or methodology keywords were detected.")
		return b.String(), nil
	}

	parts := make([]string, 0, len(s.Aggregate))
	for _, e := range s.Aggregate {
		parts = append(parts, fmt.Sprintf("%s in %s (%g percentage)", e.Label, plural(e.Count, "project", "projects"), e.Percentage))
	}
	fmt.Fprintf(&b, " Trends: %s.", strings.Join(parts, ", "))

	c := s.Comparison
	if c.CrewAIProjects > 0 || c.LangChainProjects > 0 {
		fmt.Fprintf(&b, " CrewAI appears in %d and LangChain in %d, a difference of %d.",
			c.CrewAIProjects, c.LangChainProjects, c.Difference)
	}
	return b.String(), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
