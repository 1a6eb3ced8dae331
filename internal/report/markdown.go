package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sprite-ai/insight/internal/present"
)

func writeMarkdown(w io.Writer, in Input) error {
	v := view(in)

	fmt.Fprintf(w, "## Repository Insights\n\n")
	fmt.Fprintf(w, "**%s**", detected(in))
	if in.Query != "" {
		fmt.Fprintf(w, " | **Query:** %s", mdEscape(in.Query))
	}
	fmt.Fprintf(w, "\n\n")

	fmt.Fprintf(w, "### Summary\n\n%s\n\n", v.Summary)
	if v.LowConfidence {
		fmt.Fprintf(w, "> %s\n\n", present.LowConfidenceText)
	}

	fmt.Fprintf(w, "### Aggregated Trends\n\n")
	if v.Notice != "" {
		fmt.Fprintf(w, "%s\n\n", v.Notice)
	} else {
		fmt.Fprintln(w, "| Trend | Count | Share |")
		fmt.Fprintln(w, "|-------|------:|------:|")
		for _, b := range v.Bars {
			fmt.Fprintf(w, "| %s | %d | %s |\n", mdEscape(b.Label), b.Count, b.PercentLabel())
		}
		fmt.Fprintln(w)
	}

	c := v.Comparison
	fmt.Fprintf(w, "### Comparison\n\n")
	fmt.Fprintln(w, "| CrewAI projects | LangChain projects | Difference |")
	fmt.Fprintln(w, "|----------------:|-------------------:|-----------:|")
	fmt.Fprintf(w, "| %d | %d | %s |\n", c.CrewAIProjects, c.LangChainProjects, c.Difference)
	return nil
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
