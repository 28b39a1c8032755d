package selection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rhseung/ps-cli-sub001/internal/types"
)

// Mode names a policy for choosing the next problem.
type Mode string

const (
	// ModeSequential walks not-yet-solved problems in workbook order.
	ModeSequential Mode = "sequential"
	// ModeUnsolved selects exactly like ModeSequential.
	ModeUnsolved Mode = "unsolved"
	// ModeFailed revisits failed problems, most recently attempted first.
	ModeFailed Mode = "failed"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeSequential, ModeUnsolved, ModeFailed}

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	normalized := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range Modes {
		if m == normalized {
			return m, nil
		}
	}
	return "", &Error{Message: fmt.Sprintf("unknown selection mode %q (want sequential, unsolved or failed)", s)}
}

// Next returns the problem to present next under mode, or nil when no problem
// qualifies. It does not modify its inputs.
func Next(wb *types.Workbook, progress *types.WorkbookProgress, mode Mode) *types.WorkbookProblem {
	if wb == nil {
		return nil
	}

	switch mode {
	case ModeFailed:
		return nextFailed(wb.Problems, progress)
	case ModeSequential, ModeUnsolved:
		return nextUnsolved(wb.Problems, progress)
	default:
		return nil
	}
}

func nextUnsolved(problems []types.WorkbookProblem, progress *types.WorkbookProgress) *types.WorkbookProblem {
	var best *types.WorkbookProblem
	for i := range problems {
		p := &problems[i]
		if progress.StatusOf(p.ProblemID) != types.StatusUnsolved {
			continue
		}
		if best == nil || p.Order < best.Order {
			best = p
		}
	}
	return copyProblem(best)
}

func nextFailed(problems []types.WorkbookProblem, progress *types.WorkbookProgress) *types.WorkbookProblem {
	type candidate struct {
		problem *types.WorkbookProblem
		entry   *types.ProblemProgress
	}

	candidates := make([]candidate, 0)
	for i := range problems {
		p := &problems[i]
		if progress.StatusOf(p.ProblemID) != types.StatusFailed {
			continue
		}
		candidates = append(candidates, candidate{problem: p, entry: progress.Problems[p.ProblemID]})
	}
	if len(candidates) == 0 {
		return nil
	}

	// Newest attempt first; problems without a timestamp keep input order at the end.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].entry.LastAttemptedAt, candidates[j].entry.LastAttemptedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return copyProblem(candidates[0].problem)
}

func copyProblem(p *types.WorkbookProblem) *types.WorkbookProblem {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}
