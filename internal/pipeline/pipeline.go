// Package pipeline implements the reference analysis run behind the local
// service: per-project keyword extraction, trend aggregation, a two-way
// framework comparison, a summary and a fact check over that summary.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sprite-ai/insight/internal/logger"
	"github.com/sprite-ai/insight/internal/model"
	"github.com/sprite-ai/insight/internal/repolist"
)

// Keywords are the framework and methodology signals looked for in each
// project, in reporting order.
var Keywords = []string{
	"langgraph",
	"crewai",
	"langchain",
	"vector database",
	"rag",
	"evaluation",
}

// verifyTerms must appear in a summary for it to count as grounded.
var verifyTerms = []string{"crewai", "langchain", "percentage", "projects"}

// DefaultQuery stands in for an empty query when summarizing.
const DefaultQuery = "General analysis of repositories"

// Project is the fetched description of one repository.
type Project struct {
	Name   string
	Readme string
	Tags   []string
}

// Signal is what the analyzer extracted from one project.
type Signal struct {
	Name     string
	Keywords []string
	Tags     []string
}

// State flows through every stage.
type State struct {
	Projects   []Project
	Query      string
	Signals    []Signal
	Aggregate  model.Aggregate
	Comparison model.Comparison
	Summary    string
	Verified   bool
}

// Result converts the final state into the wire result.
func (s *State) Result() model.AnalysisResult {
	agg := s.Aggregate
	if agg == nil {
		agg = model.Aggregate{}
	}
	return model.AnalysisResult{
		Aggregate:  agg,
		Comparison: s.Comparison,
		Summary:    s.Summary,
		Verified:   s.Verified,
	}
}

// Stage is one named step of the run.
type Stage struct {
	Name string
	Run  func(ctx context.Context, s *State) error
}

// Observer is called after each stage completes.
type Observer func(stage string, s *State)

// Options configures Run.
type Options struct {
	Summarizer Summarizer // nil uses TemplateSummarizer
	Observer   Observer
}

// Stages returns the ordered stage list using sum for the summary step.
func Stages(sum Summarizer) []Stage {
	return []Stage{
		{Name: "analyzer", Run: analyzeProjects},
		{Name: "aggregator", Run: aggregateTrends},
		{Name: "comparator", Run: compareFrameworks},
		{Name: "summarizer", Run: func(ctx context.Context, s *State) error {
			text, err := sum.Summarize(ctx, s)
			if err != nil {
				return err
			}
			s.Summary = strings.TrimSpace(text)
			return nil
		}},
		{Name: "fact_checker", Run: factCheck},
	}
}

// StageNames lists the stage names in execution order.
func StageNames() []string {
	stages := Stages(TemplateSummarizer{})
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = st.Name
	}
	return names
}

// Run fetches a stub project for every repository URL and executes all
// stages in order. It stops at the first stage error or when ctx is done.
func Run(ctx context.Context, repos []string, query string, opts Options) (*State, error) {
	sum := opts.Summarizer
	if sum == nil {
		sum = TemplateSummarizer{}
	}

	s := &State{Query: query}
	for _, url := range repos {
		s.Projects = append(s.Projects, FetchStub(url))
	}

	log := logger.Get()
	for _, st := range Stages(sum) {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		if err := st.Run(ctx, s); err != nil {
			return s, fmt.Errorf("stage %s: %w", st.Name, err)
		}
		log.Debug("pipeline stage done", "stage", st.Name, "projects", len(s.Projects))
		if opts.Observer != nil {
			opts.Observer(st.Name, s)
		}
	}
	return s, nil
}

// FetchStub builds a placeholder project for url without any network access.
func FetchStub(url string) Project {
	return Project{
		Name:   repolist.Name(url),
		Readme: "Repository fetched from " + url,
	}
}

// Render returns the plain-text view of p that keywords are matched against.
func Render(p Project) string {
	return fmt.Sprintf("Repository: %s\nREADME:\n%s\nTags: %s\n", p.Name, p.Readme, strings.Join(p.Tags, ", "))
}

// ExtractKeywords returns the Keywords found in text, case-insensitively.
func ExtractKeywords(text string) []string {
	text = strings.ToLower(text)
	found := []string{}
	for _, k := range Keywords {
		if strings.Contains(text, k) {
			found = append(found, k)
		}
	}
	return found
}

func analyzeProjects(_ context.Context, s *State) error {
	s.Signals = make([]Signal, 0, len(s.Projects))
	for _, p := range s.Projects {
		s.Signals = append(s.Signals, Signal{
			Name:     p.Name,
			Keywords: ExtractKeywords(Render(p)),
			Tags:     p.Tags,
		})
	}
	return nil
}

func aggregateTrends(_ context.Context, s *State) error {
	counts := make(map[string]int)
	var order []string
	for _, sig := range s.Signals {
		for _, k := range sig.Keywords {
			if _, seen := counts[k]; !seen {
				order = append(order, k)
			}
			counts[k]++
		}
	}

	total := max(len(s.Signals), 1)
	s.Aggregate = make(model.Aggregate, 0, len(order))
	for _, k := range order {
		s.Aggregate = append(s.Aggregate, model.TrendEntry{
			Label:      k,
			Count:      counts[k],
			Percentage: Round2(float64(counts[k]) / float64(total) * 100),
		})
	}
	return nil
}

func compareFrameworks(_ context.Context, s *State) error {
	var crewai, langchain int
	for _, sig := range s.Signals {
		if hasKeyword(sig, "crewai") {
			crewai++
		}
		if hasKeyword(sig, "langchain") {
			langchain++
		}
	}
	s.Comparison = model.Comparison{
		CrewAIProjects:    crewai,
		LangChainProjects: langchain,
		Difference:        crewai - langchain,
	}
	return nil
}

func factCheck(_ context.Context, s *State) error {
	summary := strings.ToLower(s.Summary)
	s.Verified = false
	for _, term := range verifyTerms {
		if strings.Contains(summary, term) {
			s.Verified = true
			break
		}
	}
	return nil
}

func hasKeyword(sig Signal, k string) bool {
	for _, kw := range sig.Keywords {
		if kw == k {
			return true
		}
	}
	return false
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
