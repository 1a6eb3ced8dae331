package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/sprite-ai/insight/internal/model"
)

func writeJSON(w io.Writer, r model.AnalysisResult, highlight bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return err
	}
	if !highlight {
		_, err := w.Write(buf.Bytes())
		return err
	}
	return Highlight(w, buf.String(), "json")
}

// Highlight writes source to w with ANSI syntax colors for the named
// language. Unknown languages are written unchanged.
func Highlight(w io.Writer, source, language string) error {
	lexer := lexers.Get(language)
	if lexer == nil {
		_, err := io.WriteString(w, source)
		return err
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		_, err = io.WriteString(w, source)
		return err
	}
	return formatter.Format(w, style, iterator)
}
