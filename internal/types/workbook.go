package types

import "time"

// WorkbookProblem is a problem entry within a workbook.
// Order defines the canonical position of the problem and is unique per workbook.
type WorkbookProblem struct {
	ProblemID int    `json:"problemId"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	Level     *int   `json:"level,omitempty"`
}

// Workbook is a curated, ordered list of problems.
type Workbook struct {
	ID        int               `json:"id"`
	Title     string            `json:"title"`
	Problems  []WorkbookProblem `json:"problems"`
	CreatedAt time.Time         `json:"createdAt"`
}
