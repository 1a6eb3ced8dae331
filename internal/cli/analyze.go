package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sprite-ai/insight/internal/client"
	"github.com/sprite-ai/insight/internal/config"
	"github.com/sprite-ai/insight/internal/logger"
	"github.com/sprite-ai/insight/internal/report"
	"github.com/sprite-ai/insight/internal/repolist"
	"github.com/sprite-ai/insight/internal/session"
	"golang.org/x/term"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-url...]",
	Short: "Analyze repositories and print a report (non-interactive)",
	Long: `Send the given repository URLs to the analysis service and print the
result. URLs can also be read from a file, one per line, with --repos-file
("-" reads standard input). Lines that do not start with "http" are ignored.

Exit codes:
  0  analysis completed
  1  no repositories, or the analysis failed`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("query", "q", "", "question to focus the summary on")
	analyzeCmd.Flags().StringP("repos-file", "r", "", `file with one repository URL per line ("-" for stdin)`)
	analyzeCmd.Flags().StringP("format", "f", config.DefaultFormat, "output format: text, json, markdown")
	analyzeCmd.Flags().String("color", config.DefaultColor, "colorize output: auto, yes, no")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	input, err := reposInput(cmd, args)
	if err != nil {
		return err
	}
	query, _ := cmd.Flags().GetString("query")

	ctrl := session.NewController(logger.Get())
	state, ok := ctrl.Run(cmd.Context(), client.New(cfg.Endpoint), input, query)
	if !ok {
		return errors.New("no repositories detected: pass URLs starting with http")
	}

	if state.Phase == session.PhaseFailed {
		fmt.Fprintln(cmd.ErrOrStderr(), state.Err)
		return errReported
	}

	out := cmd.OutOrStdout()
	color := useColor(cfg.Color, out)
	return report.Write(out, cfg.Format, report.Input{
		Repos:  repolist.Normalize(input),
		Query:  query,
		Result: state.Result,
	}, report.Options{Color: color, Highlight: color})
}

// reposInput joins positional URLs and the optional repos file into the raw
// multi-line input the session normalizes.
func reposInput(cmd *cobra.Command, args []string) (string, error) {
	lines := append([]string{}, args...)

	path, _ := cmd.Flags().GetString("repos-file")
	switch path {
	case "":
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		lines = append(lines, string(data))
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading repos file: %w", err)
		}
		lines = append(lines, string(data))
	}
	return strings.Join(lines, "\n"), nil
}

// useColor resolves a color mode against the output stream.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case config.ColorYes:
		return true
	case config.ColorNo:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
