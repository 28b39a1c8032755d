package observability

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/rhseung/ps-cli-sub001/internal/types"
)

// NewTable returns a rounded table writer that renders to out.
func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// PrintSearchResults renders one page of search results.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSearchResults(results *types.SearchResults) {
	if results == nil || len(results.Results) == 0 {
		fmt.Fprintln(p.out, "No problems found.")
		return
	}

	t := NewTable(p.out)
	t.AppendHeader(table.Row{"ID", "Title", "Tier", "Solved", "Avg. Tries"})
	for _, r := range results.Results {
		solved := "-"
		if r.SolvedCount != nil {
			solved = strconv.Itoa(*r.SolvedCount)
		}
		tries := "-"
		if r.AverageTries != nil {
			tries = strconv.FormatFloat(*r.AverageTries, 'f', 2, 64)
		}
		t.AppendRow(table.Row{r.ProblemID, r.Title, levelLabel(r.Level), solved, tries})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("page %d / %d", results.CurrentPage, results.TotalPages)})
	t.Render()
}

// PrintWorkbook renders a workbook's problems with their recorded status.
// progress may be nil.
func (p *Printer) PrintWorkbook(wb *types.Workbook, progress *types.WorkbookProgress) {
	if wb == nil {
		return
	}

	t := NewTable(p.out)
	t.SetTitle(fmt.Sprintf("%d. %s", wb.ID, wb.Title))
	t.AppendHeader(table.Row{"#", "ID", "Title", "Tier", "Status", "Attempts"})
	for _, problem := range wb.Problems {
		attempts := 0
		if progress != nil {
			if entry := progress.Problems[problem.ProblemID]; entry != nil {
				attempts = entry.AttemptCount
			}
		}
		t.AppendRow(table.Row{
			problem.Order,
			problem.ProblemID,
			problem.Title,
			levelLabel(problem.Level),
			progress.StatusOf(problem.ProblemID),
			attempts,
		})
	}
	t.Render()
}

// PrintProgress renders the recorded entries of a progress file, ordered by
// problem id.
func (p *Printer) PrintProgress(progress *types.WorkbookProgress) {
	if progress == nil {
		return
	}

	ids := make([]int, 0, len(progress.Problems))
	for id := range progress.Problems {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	t := NewTable(p.out)
	t.SetTitle(fmt.Sprintf("workbook %d (updated %s)", progress.WorkbookID, progress.UpdatedAt.Local().Format(time.DateTime)))
	t.AppendHeader(table.Row{"ID", "Status", "Attempts", "Last Attempt"})
	for _, id := range ids {
		entry := progress.Problems[id]
		if entry == nil {
			continue
		}
		last := "-"
		if entry.LastAttemptedAt != nil {
			last = entry.LastAttemptedAt.Local().Format(time.DateTime)
		}
		t.AppendRow(table.Row{id, entry.Status, entry.AttemptCount, last})
	}
	t.Render()
}
