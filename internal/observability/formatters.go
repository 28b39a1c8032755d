// Package observability renders problems, search results and workbook
// progress for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rhseung/ps-cli-sub001/internal/progress"
	"github.com/rhseung/ps-cli-sub001/internal/solvedac"
	"github.com/rhseung/ps-cli-sub001/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxTagsToShow is the number of solved.ac tags listed in the dashboard
	maxTagsToShow = 5
)

// Printer handles formatted terminal output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, boxWidth-4), boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

var tierNames = []string{"Bronze", "Silver", "Gold", "Platinum", "Diamond", "Ruby"}
var tierNumerals = []string{"V", "IV", "III", "II", "I"}

// LevelName returns the solved.ac tier name of a difficulty level.
func LevelName(level int) string {
	switch {
	case level == 0:
		return "Unrated"
	case level == types.MaxLevel:
		return "Master"
	case level > 0 && level < types.MaxLevel:
		idx := level - 1
		return tierNames[idx/5] + " " + tierNumerals[idx%5]
	default:
		return "Unknown"
	}
}

func levelLabel(level *int) string {
	if level == nil {
		return "-"
	}
	return LevelName(*level)
}

// PrintProblem outputs the problem dashboard: a summary box followed by the
// Markdown sections and sample cases. meta may be nil.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProblem(problem *types.ScrapedProblem, meta *solvedac.Problem) {
	if problem == nil {
		return
	}

	var sb strings.Builder
	if problem.URL != "" {
		sb.WriteString(fmt.Sprintf("URL:      %s\n", problem.URL))
	}
	if meta != nil {
		sb.WriteString(fmt.Sprintf("Tier:     %s\n", LevelName(meta.Level)))
		if len(meta.Tags) > 0 {
			keys := make([]string, 0, len(meta.Tags))
			for _, tag := range meta.Tags {
				keys = append(keys, tag.Key)
			}
			count := min(len(keys), maxTagsToShow)
			tags := strings.Join(keys[:count], ", ")
			if len(keys) > maxTagsToShow {
				tags += fmt.Sprintf(" (+%d)", len(keys)-maxTagsToShow)
			}
			sb.WriteString(fmt.Sprintf("Tags:     %s\n", tags))
		}
	}
	for _, field := range []struct {
		label string
		value string
	}{
		{"Time", problem.TimeLimit},
		{"Memory", problem.MemoryLimit},
		{"Submits", problem.SubmissionCount},
		{"Accepted", problem.AcceptedCount},
		{"Solvers", problem.AcceptedUserCount},
		{"Ratio", problem.AcceptedRate},
	} {
		if field.value != "" {
			sb.WriteString(fmt.Sprintf("%-9s %s\n", field.label+":", field.value))
		}
	}

	p.printBox(fmt.Sprintf("%d. %s", problem.ProblemID, problem.Title), strings.TrimSuffix(sb.String(), "\n"))

	for _, section := range []struct {
		heading string
		body    string
	}{
		{"Description", problem.Description},
		{"Input", problem.InputFormat},
		{"Output", problem.OutputFormat},
	} {
		if section.body == "" {
			continue
		}
		fmt.Fprintf(p.out, "\n## %s\n\n%s\n", section.heading, section.body)
	}

	for i, tc := range problem.TestCases {
		fmt.Fprintf(p.out, "\n### Sample Input %d\n\n```\n%s\n```\n", i+1, tc.Input)
		fmt.Fprintf(p.out, "\n### Sample Output %d\n\n```\n%s\n```\n", i+1, tc.Output)
	}
}

// PrintNext outputs the problem chosen by a selection mode.
func (p *Printer) PrintNext(wb *types.Workbook, next *types.WorkbookProblem, mode string) {
	if wb == nil {
		return
	}
	if next == nil {
		p.printBox(fmt.Sprintf("NEXT (%s)", mode), fmt.Sprintf("No %s problems left in %q.", mode, wb.Title))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#%d  %d. %s\n", next.Order, next.ProblemID, next.Title))
	sb.WriteString(fmt.Sprintf("Tier: %s", levelLabel(next.Level)))
	p.printBox(fmt.Sprintf("NEXT (%s) - %s", mode, wb.Title), sb.String())
}

// PrintWorkbookSummary outputs status counts for a workbook.
func (p *Printer) PrintWorkbookSummary(wb *types.Workbook, summary progress.Summary) {
	if wb == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Problems: %d\n", summary.Total))
	sb.WriteString(fmt.Sprintf("Solved:   %d\n", summary.Solved))
	sb.WriteString(fmt.Sprintf("Failed:   %d\n", summary.Failed))
	sb.WriteString(fmt.Sprintf("Unsolved: %d\n", summary.Unsolved))
	sb.WriteString(fmt.Sprintf("Attempts: %d", summary.Attempts))
	if summary.Total > 0 {
		sb.WriteString(fmt.Sprintf("\n\n%s %d%%", progressBar(summary.Solved, summary.Total, 30), summary.Solved*100/summary.Total))
	}

	p.printBox(fmt.Sprintf("WORKBOOK %d: %s", wb.ID, wb.Title), sb.String())
}

func progressBar(done, total, width int) string {
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
