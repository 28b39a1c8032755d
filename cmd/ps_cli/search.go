package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search problems on solved.ac",
	Long:  "Search solved.ac with its query syntax (e.g. \"tier:s5 tag:dp\") and list one page of results.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var searchPage int

func init() {
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "Result page to show")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchPage < 1 {
		return fmt.Errorf("--page must be at least 1")
	}

	rt, err := newRuntime(cmd.OutOrStdout(), false)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results, err := rt.scraper.Search(cmd.Context(), query, searchPage)
	if err != nil {
		return fmt.Errorf("search %q failed: %w", query, err)
	}

	rt.printer.PrintSearchResults(results)
	return nil
}
