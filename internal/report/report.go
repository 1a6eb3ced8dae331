// Package report renders a finished analysis for non-interactive output.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sprite-ai/insight/internal/model"
	"github.com/sprite-ai/insight/internal/present"
	"github.com/sprite-ai/insight/internal/repolist"
	"github.com/sprite-ai/insight/internal/session"
)

// Output formats.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Formats lists the accepted format names.
var Formats = []string{FormatText, FormatJSON, FormatMarkdown}

// Options tunes rendering.
type Options struct {
	Color     bool // ANSI colors in text output
	Highlight bool // syntax-highlight JSON output
}

// Input is one rendered run.
type Input struct {
	Repos  []string
	Query  string
	Result model.AnalysisResult
}

// Write renders in to w using format.
func Write(w io.Writer, format string, in Input, opts Options) error {
	switch format {
	case FormatJSON:
		if err := writeJSON(w, in.Result, opts.Highlight); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
		return nil
	case FormatMarkdown:
		return writeMarkdown(w, in)
	case FormatText, "":
		return writeText(w, in, opts.Color)
	default:
		return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

func view(in Input) present.View {
	return present.Present(session.State{Phase: session.PhaseSettled, Result: in.Result})
}

func detected(in Input) string {
	return repolist.DetectedLabel(len(in.Repos))
}
