// Package model defines the core data types shared across insight.
package model

// EmptySummary marks the placeholder result shown before the first request.
const EmptySummary = "Empty"

// AnalysisRequest is the body sent to the analysis service.
type AnalysisRequest struct {
	Repos []string `json:"repos"`
	Query string   `json:"query"`
}

// TrendEntry is one labeled row of the aggregate mapping.
type TrendEntry struct {
	Label      string
	Count      int
	Percentage float64 // 0-100 as delivered; never clamped
}

// Aggregate maps trend labels to their counts, in the order the service sent them.
type Aggregate []TrendEntry

// Lookup returns the entry for label.
func (a Aggregate) Lookup(label string) (TrendEntry, bool) {
	for _, e := range a {
		if e.Label == label {
			return e, true
		}
	}
	return TrendEntry{}, false
}

// Comparison is the two-way framework comparison delivered by the service.
// Difference is trusted as sent; it is not checked against the two counts.
type Comparison struct {
	CrewAIProjects    int `json:"CrewAI_projects"`
	LangChainProjects int `json:"LangChain_projects"`
	Difference        int `json:"difference"`
}

// AnalysisResult is the sole unit of result state.
type AnalysisResult struct {
	Aggregate  Aggregate  `json:"aggregate"`
	Comparison Comparison `json:"comparison"`
	Summary    string     `json:"summary"`
	Verified   bool       `json:"verified"`
}

// IsPlaceholder reports whether r is the idle sentinel.
func (r AnalysisResult) IsPlaceholder() bool {
	return r.Summary == EmptySummary
}

// Placeholder returns the result displayed before any request is made.
func Placeholder() AnalysisResult {
	return AnalysisResult{
		Aggregate: Aggregate{},
		Summary:   EmptySummary,
	}
}
