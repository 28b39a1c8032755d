package progress

import "github.com/rhseung/ps-cli-sub001/internal/types"

// Summary counts statuses across a workbook's problems.
type Summary struct {
	Total    int
	Solved   int
	Failed   int
	Unsolved int
	Attempts int
}

// Summarize counts each workbook problem once, treating unrecorded problems
// as unsolved. Progress entries for problems no longer in the workbook are ignored.
func Summarize(wb *types.Workbook, p *types.WorkbookProgress) Summary {
	var s Summary
	if wb == nil {
		return s
	}
	for _, problem := range wb.Problems {
		s.Total++
		switch p.StatusOf(problem.ProblemID) {
		case types.StatusSolved:
			s.Solved++
		case types.StatusFailed:
			s.Failed++
		default:
			s.Unsolved++
		}
		if p != nil {
			if entry := p.Problems[problem.ProblemID]; entry != nil {
				s.Attempts += entry.AttemptCount
			}
		}
	}
	return s
}
