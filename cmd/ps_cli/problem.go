package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rhseung/ps-cli-sub001/internal/scraping"
	"github.com/rhseung/ps-cli-sub001/internal/types"
)

var problemCmd = &cobra.Command{
	Use:   "problem <id>",
	Short: "Show a problem statement with its samples",
	Long:  "Fetch a problem page from the judge site, convert it to Markdown and show it together with its solved.ac tier and tags.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProblem,
}

var problemUseBrowser bool

func init() {
	problemCmd.Flags().BoolVar(&problemUseBrowser, "browser", false, "Retry with a headless browser when the page cannot be parsed")

	rootCmd.AddCommand(problemCmd)
}

func parseID(kind, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q: must be a positive integer", kind, s)
	}
	return id, nil
}

func runProblem(cmd *cobra.Command, args []string) error {
	problemID, err := parseID("problem", args[0])
	if err != nil {
		return err
	}

	rt, err := newRuntime(cmd.OutOrStdout(), problemUseBrowser)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	problem, err := loadProblem(ctx, rt, problemID)
	if err != nil {
		return fmt.Errorf("failed to load problem %d: %w", problemID, err)
	}

	meta, err := rt.solvedac.GetProblem(ctx, problemID)
	if err != nil {
		slog.Warn("solved.ac lookup failed", "problem_id", problemID, "err", err)
		meta = nil
	}

	rt.printer.PrintProblem(problem, meta)
	return nil
}

// loadProblem scrapes a problem page. When a renderer is configured and the
// plain page could not be extracted, the page is rendered once in a headless
// browser and parsed again.
func loadProblem(ctx context.Context, rt *runtime, problemID int) (*types.ScrapedProblem, error) {
	problem, err := rt.scraper.Problem(ctx, problemID)
	var extractErr *scraping.ExtractionError
	if err == nil || rt.render == nil || !errors.As(err, &extractErr) {
		return problem, err
	}

	pageURL := rt.scraper.ProblemURL(problemID)
	slog.DebugContext(ctx, "retrying problem extraction on rendered page", "problem_id", problemID, "err", err)
	rendered, renderErr := rt.render(ctx, pageURL)
	if renderErr != nil {
		slog.WarnContext(ctx, "rendering problem page failed", "problem_id", problemID, "err", renderErr)
		return nil, err
	}

	problem, err = scraping.ParseProblem(rendered, problemID, rt.scraper.JudgeURL())
	if err != nil {
		return nil, err
	}
	problem.URL = pageURL
	return problem, nil
}
