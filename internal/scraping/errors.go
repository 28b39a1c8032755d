// Package scraping extracts problems, search results and workbooks from the
// judge and metadata sites.
package scraping

import "fmt"

const structureHint = "the page structure may have changed or access may be restricted"

// ExtractionError is returned when required content is missing after every
// fallback has been tried.
type ExtractionError struct {
	ProblemID  int
	WorkbookID int
	Field      string
	Message    string
}

func (e *ExtractionError) Error() string {
	subject := "page"
	switch {
	case e.ProblemID > 0:
		subject = fmt.Sprintf("problem %d", e.ProblemID)
	case e.WorkbookID > 0:
		subject = fmt.Sprintf("workbook %d", e.WorkbookID)
	}
	if e.Field != "" {
		return fmt.Sprintf("extraction error for %s: %s: %s (%s)", subject, e.Field, e.Message, structureHint)
	}
	return fmt.Sprintf("extraction error for %s: %s (%s)", subject, e.Message, structureHint)
}
