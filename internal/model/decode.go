package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Errors returned by DecodeResult.
var (
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
)

type wireEntry struct {
	Count      *int     `json:"count"`
	Percentage *float64 `json:"percentage"`
}

type wireComparison struct {
	CrewAIProjects    *int `json:"CrewAI_projects"`
	LangChainProjects *int `json:"LangChain_projects"`
	Difference        *int `json:"difference"`
}

type wireResult struct {
	Aggregate  *Aggregate      `json:"aggregate"`
	Comparison *wireComparison `json:"comparison"`
	Summary    *string         `json:"summary"`
	Verified   *bool           `json:"verified"`
}

// DecodeResult parses a service response body into an AnalysisResult.
// Every field must be present with the right type; unknown fields are ignored.
func DecodeResult(data []byte) (AnalysisResult, error) {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return AnalysisResult{}, fmt.Errorf("decoding analysis result: %w", err)
	}

	switch {
	case w.Aggregate == nil:
		return AnalysisResult{}, fmt.Errorf("%w: aggregate", ErrMissingField)
	case w.Comparison == nil:
		return AnalysisResult{}, fmt.Errorf("%w: comparison", ErrMissingField)
	case w.Summary == nil:
		return AnalysisResult{}, fmt.Errorf("%w: summary", ErrMissingField)
	case w.Verified == nil:
		return AnalysisResult{}, fmt.Errorf("%w: verified", ErrMissingField)
	}

	cmp, err := w.Comparison.validate()
	if err != nil {
		return AnalysisResult{}, err
	}

	return AnalysisResult{
		Aggregate:  *w.Aggregate,
		Comparison: cmp,
		Summary:    *w.Summary,
		Verified:   *w.Verified,
	}, nil
}

func (c *wireComparison) validate() (Comparison, error) {
	fields := []struct {
		name string
		v    *int
	}{
		{"comparison.CrewAI_projects", c.CrewAIProjects},
		{"comparison.LangChain_projects", c.LangChainProjects},
		{"comparison.difference", c.Difference},
	}
	for _, f := range fields {
		if f.v == nil {
			return Comparison{}, fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	if *c.CrewAIProjects < 0 {
		return Comparison{}, fmt.Errorf("%w: comparison.CrewAI_projects is negative", ErrInvalidField)
	}
	if *c.LangChainProjects < 0 {
		return Comparison{}, fmt.Errorf("%w: comparison.LangChain_projects is negative", ErrInvalidField)
	}
	return Comparison{
		CrewAIProjects:    *c.CrewAIProjects,
		LangChainProjects: *c.LangChainProjects,
		Difference:        *c.Difference,
	}, nil
}

// UnmarshalJSON decodes a JSON object of label -> {count, percentage},
// keeping the object's key order.
func (a *Aggregate) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: aggregate must be an object", ErrInvalidField)
	}

	out := Aggregate{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("aggregate: %w", err)
		}
		label, _ := tok.(string)

		var w wireEntry
		if err := dec.Decode(&w); err != nil {
			return fmt.Errorf("aggregate %q: %w", label, err)
		}
		if w.Count == nil {
			return fmt.Errorf("%w: aggregate %q count", ErrMissingField, label)
		}
		if w.Percentage == nil {
			return fmt.Errorf("%w: aggregate %q percentage", ErrMissingField, label)
		}
		if *w.Count < 0 {
			return fmt.Errorf("%w: aggregate %q count is negative", ErrInvalidField, label)
		}

		entry := TrendEntry{Label: label, Count: *w.Count, Percentage: *w.Percentage}
		if i, seen := index[label]; seen {
			out[i] = entry
			continue
		}
		index[label] = len(out)
		out = append(out, entry)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	*a = out
	return nil
}

// MarshalJSON encodes the aggregate as a JSON object in stored order.
func (a Aggregate) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, e := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteString(`:{"count":`)
		b.WriteString(strconv.Itoa(e.Count))
		b.WriteString(`,"percentage":`)
		b.WriteString(strconv.FormatFloat(e.Percentage, 'f', -1, 64))
		b.WriteByte('}')
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
