package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rhseung/ps-cli-sub001/internal/progress"
	"github.com/rhseung/ps-cli-sub001/internal/selection"
	"github.com/rhseung/ps-cli-sub001/internal/types"
)

var workbookCmd = &cobra.Command{
	Use:   "workbook",
	Short: "Work through a judge workbook and track progress",
}

var workbookShowCmd = &cobra.Command{
	Use:   "show <workbook-id>",
	Short: "List a workbook's problems with tiers and your progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkbookShow,
}

var workbookNextCmd = &cobra.Command{
	Use:   "next <workbook-id>",
	Short: "Pick the next problem to solve",
	Long:  "Pick the next problem according to a selection mode: sequential and unsolved walk unsolved problems in workbook order, failed revisits the most recently failed problem.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkbookNext,
}

var workbookMarkCmd = &cobra.Command{
	Use:   "mark <workbook-id> <problem-id> <unsolved|solved|failed>",
	Short: "Record the status of a workbook problem",
	Args:  cobra.ExactArgs(3),
	RunE:  runWorkbookMark,
}

var workbookResetCmd = &cobra.Command{
	Use:   "reset <workbook-id>",
	Short: "Discard all recorded progress of a workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkbookReset,
}

var workbookProgressCmd = &cobra.Command{
	Use:   "progress <workbook-id>",
	Short: "Show the recorded progress file of a workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkbookProgress,
}

var (
	workbookNoEnrich bool
	workbookMode     string
)

func init() {
	workbookShowCmd.Flags().BoolVar(&workbookNoEnrich, "no-enrich", false, "Skip solved.ac tier lookups")
	workbookNextCmd.Flags().StringVarP(&workbookMode, "mode", "m", "", "Selection mode: sequential, unsolved or failed (default from config)")

	workbookCmd.AddCommand(workbookShowCmd, workbookNextCmd, workbookMarkCmd, workbookResetCmd, workbookProgressCmd)
	rootCmd.AddCommand(workbookCmd)
}

// loadWorkbook scrapes a workbook together with its stored progress.
func loadWorkbook(ctx context.Context, rt *runtime, workbookID int) (*types.Workbook, *types.WorkbookProgress, error) {
	wb, err := rt.scraper.Workbook(ctx, workbookID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load workbook %d: %w", workbookID, err)
	}
	prog, err := rt.store.Load(workbookID)
	if err != nil {
		return nil, nil, err
	}
	return wb, prog, nil
}

func runWorkbookShow(cmd *cobra.Command, args []string) error {
	workbookID, err := parseID("workbook", args[0])
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.OutOrStdout(), false)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	wb, prog, err := loadWorkbook(ctx, rt, workbookID)
	if err != nil {
		return err
	}
	if !workbookNoEnrich {
		wb.Problems = rt.enricher().Enrich(ctx, wb.Problems)
	}

	rt.printer.PrintWorkbook(wb, prog)
	rt.printer.PrintWorkbookSummary(wb, progress.Summarize(wb, prog))
	return nil
}

func runWorkbookNext(cmd *cobra.Command, args []string) error {
	workbookID, err := parseID("workbook", args[0])
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.OutOrStdout(), false)
	if err != nil {
		return err
	}

	modeName := workbookMode
	if modeName == "" {
		modeName = rt.cfg.DefaultMode
	}
	mode, err := selection.ParseMode(modeName)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	wb, prog, err := loadWorkbook(ctx, rt, workbookID)
	if err != nil {
		return err
	}

	next := selection.Next(wb, prog, mode)
	if next != nil {
		enriched := rt.enricher().Enrich(ctx, []types.WorkbookProblem{*next})
		next = &enriched[0]
	}
	rt.printer.PrintNext(wb, next, string(mode))
	return nil
}

func runWorkbookMark(cmd *cobra.Command, args []string) error {
	workbookID, err := parseID("workbook", args[0])
	if err != nil {
		return err
	}
	problemID, err := parseID("problem", args[1])
	if err != nil {
		return err
	}
	status, err := types.ParseStatus(args[2])
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.OutOrStdout(), false)
	if err != nil {
		return err
	}

	prog, err := rt.store.UpdateStatus(workbookID, problemID, status)
	if err != nil {
		return err
	}

	entry := prog.Problems[problemID]
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked problem %d in workbook %d as %s (attempts: %d)\n",
		problemID, workbookID, entry.Status, entry.AttemptCount)
	return nil
}

func runWorkbookReset(cmd *cobra.Command, args []string) error {
	workbookID, err := parseID("workbook", args[0])
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.OutOrStdout(), false)
	if err != nil {
		return err
	}

	if _, err := rt.store.Reset(workbookID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reset progress of workbook %d\n", workbookID)
	return nil
}

func runWorkbookProgress(cmd *cobra.Command, args []string) error {
	workbookID, err := parseID("workbook", args[0])
	if err != nil {
		return err
	}
	rt, err := newRuntime(cmd.OutOrStdout(), false)
	if err != nil {
		return err
	}

	prog, err := rt.store.Load(workbookID)
	if err != nil {
		return err
	}
	rt.printer.PrintProgress(prog)
	return nil
}
