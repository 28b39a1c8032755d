package scraping

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rhseung/ps-cli-sub001/internal/types"
)

var (
	// Problem ids are rarely shorter than four digits; preferring the longest
	// such run skips decorative numerals in the same cell.
	longDigitRun = regexp.MustCompile(`\d{4,}`)
	digitRun     = regexp.MustCompile(`\d+`)
	tierImage    = regexp.MustCompile(`tier_small/(\d+)\.svg`)
	tierKeywords = regexp.MustCompile(`(?i)\b(unrated|bronze|silver|gold|platinum|diamond|ruby|master)(\s+(iv|v|i{1,3}|[1-5]))?\b`)
)

// badgeSelectors are stripped from a title cell before its text is used.
// Plain spans stay: titles are often wrapped in one.
const badgeSelectors = "svg, style, script, .badge, [class*='badge'], [class*='tier']"

// Search fetches one page of metadata-site search results for query.
func (s *Scraper) Search(ctx context.Context, query string, page int) (*types.SearchResults, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	pageURL := fmt.Sprintf("%s/problems?%s", s.metadataURL, params.Encode())

	body, err := s.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ParseSearchResults(body, page)
}

// ParseSearchResults extracts result rows and pagination from a search page.
// Rows that cannot be interpreted are skipped.
func ParseSearchResults(page string, currentPage int) (*types.SearchResults, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, &ExtractionError{Field: "html", Message: fmt.Sprintf("failed to parse HTML: %v", err)}
	}
	if currentPage < 1 {
		currentPage = 1
	}

	results := make([]types.SearchResult, 0)
	seen := make(map[int]bool)
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		result, ok := parseSearchRow(cells)
		if !ok || seen[result.ProblemID] {
			return
		}
		seen[result.ProblemID] = true
		results = append(results, result)
	})

	totalPages := maxPageLink(doc.Selection)
	if totalPages == 0 && len(results) > 0 {
		totalPages = 1
	}

	return &types.SearchResults{
		Results:     results,
		CurrentPage: currentPage,
		TotalPages:  totalPages,
	}, nil
}

func parseSearchRow(cells *goquery.Selection) (types.SearchResult, bool) {
	idCell := cells.Eq(0)
	problemID := extractProblemID(idCell.Text())
	if problemID <= 0 {
		return types.SearchResult{}, false
	}

	result := types.SearchResult{
		ProblemID: problemID,
		Title:     extractTitle(cells.Eq(1), problemID),
		Level:     extractLevel(idCell),
	}
	if cells.Length() > 2 {
		raw := strings.ReplaceAll(strings.TrimSpace(cells.Eq(2).Text()), ",", "")
		if n, err := strconv.Atoi(raw); err == nil {
			result.SolvedCount = &n
		}
	}
	if cells.Length() > 3 {
		if f, err := strconv.ParseFloat(strings.TrimSpace(cells.Eq(3).Text()), 64); err == nil {
			result.AverageTries = &f
		}
	}
	return result, true
}

// extractProblemID prefers the longest run of four or more digits, then the
// first digit run, then the whole cell parsed as an integer.
func extractProblemID(text string) int {
	if runs := longDigitRun.FindAllString(text, -1); len(runs) > 0 {
		longest := runs[0]
		for _, run := range runs[1:] {
			if len(run) > len(longest) {
				longest = run
			}
		}
		if n, err := strconv.Atoi(longest); err == nil {
			return n
		}
	}
	if run := digitRun.FindString(text); run != "" {
		if n, err := strconv.Atoi(run); err == nil {
			return n
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return n
}

func extractLevel(cell *goquery.Selection) *int {
	var level *int
	cell.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		m := tierImage.FindStringSubmatch(src)
		if m == nil {
			return true
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || !types.ValidLevel(n) {
			return true
		}
		level = &n
		return false
	})
	return level
}

func extractTitle(cell *goquery.Selection, problemID int) string {
	if title := strings.TrimSpace(cell.Find("a").First().Text()); title != "" {
		return title
	}

	stripped := cell.Clone()
	stripped.Find(badgeSelectors).Remove()
	text := tierKeywords.ReplaceAllString(stripped.Text(), " ")
	if title := strings.Join(strings.Fields(text), " "); title != "" {
		return title
	}
	return fmt.Sprintf("Problem %d", problemID)
}

// maxPageLink returns the largest page number referenced by a link, or 0.
func maxPageLink(root *goquery.Selection) int {
	maxPage := 0
	root.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		n, err := strconv.Atoi(u.Query().Get("page"))
		if err == nil && n > maxPage {
			maxPage = n
		}
	})
	return maxPage
}
