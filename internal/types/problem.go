// Package types provides type definitions for structured data used throughout ps-cli.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

// TestCase is one sample input/output pair from a problem page.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// ScrapedProblem represents a problem page extracted from the judge site.
// Limit and statistics fields are display strings copied verbatim from the page.
type ScrapedProblem struct {
	ProblemID    int        `json:"problemId" validate:"gt=0"`
	URL          string     `json:"url,omitempty"`
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description" validate:"required_without_all=InputFormat OutputFormat"`
	InputFormat  string     `json:"inputFormat"`
	OutputFormat string     `json:"outputFormat"`
	TestCases    []TestCase `json:"testCases"`

	TimeLimit         string `json:"timeLimit,omitempty"`
	MemoryLimit       string `json:"memoryLimit,omitempty"`
	SubmissionCount   string `json:"submissionCount,omitempty"`
	AcceptedCount     string `json:"acceptedCount,omitempty"`
	AcceptedUserCount string `json:"acceptedUserCount,omitempty"`
	AcceptedRate      string `json:"acceptedRate,omitempty"`
}

// Validate checks the mandatory content of a scraped problem: a title and at
// least one of description, input format and output format.
func (p *ScrapedProblem) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
