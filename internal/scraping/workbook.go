package scraping

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/rhseung/ps-cli-sub001/internal/types"
)

var workbookTitleSelectors = []string{".page-header h1", "h1", "title"}

// Workbook fetches a workbook page from the judge site and returns its
// problems in workbook order.
func (s *Scraper) Workbook(ctx context.Context, workbookID int) (*types.Workbook, error) {
	pageURL := fmt.Sprintf("%s/workbook/view/%d", s.judgeURL, workbookID)
	page, err := s.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ParseWorkbook(page, workbookID, time.Now().UTC())
}

// ParseWorkbook extracts a Workbook from a workbook page. Order is the 1-based
// row position of each problem.
func ParseWorkbook(page string, workbookID int, createdAt time.Time) (*types.Workbook, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, &ExtractionError{WorkbookID: workbookID, Field: "html", Message: fmt.Sprintf("failed to parse HTML: %v", err)}
	}

	title := plainText(firstMatch(doc.Selection, workbookTitleSelectors))
	if title == "" {
		title = fmt.Sprintf("Workbook %d", workbookID)
	}

	problems := make([]types.WorkbookProblem, 0)
	seen := make(map[int]bool)
	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		problemID := workbookProblemID(cells.Eq(0))
		if problemID <= 0 || seen[problemID] {
			return
		}
		seen[problemID] = true
		problems = append(problems, types.WorkbookProblem{
			ProblemID: problemID,
			Title:     extractTitle(cells.Eq(1), problemID),
			Order:     len(problems) + 1,
		})
	})

	if len(problems) == 0 {
		return nil, &ExtractionError{WorkbookID: workbookID, Field: "problems", Message: "no problem rows found"}
	}

	return &types.Workbook{
		ID:        workbookID,
		Title:     title,
		Problems:  problems,
		CreatedAt: createdAt,
	}, nil
}

func workbookProblemID(cell *goquery.Selection) int {
	if link := cell.Find("a").First(); link.Length() > 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(link.Text())); err == nil {
			return n
		}
	}
	return extractProblemID(cell.Text())
}
