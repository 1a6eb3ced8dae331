package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/sprite-ai/insight/internal/present"
)

type palette struct {
	title, dim, warn, up, down, flat func(...any) string
}

func newPalette(enabled bool) palette {
	if !enabled {
		return palette{fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint}
	}
	mk := func(attrs ...color.Attribute) func(...any) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintFunc()
	}
	return palette{
		title: mk(color.FgMagenta, color.Bold),
		dim:   mk(color.FgHiBlack),
		warn:  mk(color.FgYellow),
		up:    mk(color.FgGreen),
		down:  mk(color.FgRed),
		flat:  mk(color.FgYellow),
	}
}

func writeText(w io.Writer, in Input, useColor bool) error {
	v := view(in)
	p := newPalette(useColor)

	fmt.Fprintln(w, p.dim(detected(in)))
	if in.Query != "" {
		fmt.Fprintf(w, "%s %s\n", p.dim("Query:"), in.Query)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, p.title("Summary"))
	fmt.Fprintf(w, "  %s\n", v.Summary)
	if v.LowConfidence {
		fmt.Fprintf(w, "  %s\n", p.warn(present.LowConfidenceText))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, p.title("Aggregated Trends"))
	if v.Notice != "" {
		fmt.Fprintf(w, "  %s\n", v.Notice)
	} else if err := writeTrendTable(w, v.Bars); err != nil {
		return err
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, p.title("Comparison"))
	c := v.Comparison
	fmt.Fprintf(w, "  CrewAI projects:    %d\n", c.CrewAIProjects)
	fmt.Fprintf(w, "  LangChain projects: %d\n", c.LangChainProjects)
	fmt.Fprintf(w, "  Difference:         %s\n", colorDifference(p, in.Result.Comparison.Difference, c.Difference))
	return nil
}

func writeTrendTable(w io.Writer, bars []present.Bar) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Trend", "Count", "Share"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(bars))
	for _, b := range bars {
		data = append(data, []string{b.Label, strconv.Itoa(b.Count), b.PercentLabel()})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func colorDifference(p palette, d int, s string) string {
	switch {
	case d > 0:
		return p.up(s)
	case d < 0:
		return p.down(s)
	default:
		return p.flat(s)
	}
}
