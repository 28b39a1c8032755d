package scraping

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
	"golang.org/x/net/html"

	"github.com/rhseung/ps-cli-sub001/internal/markdown"
	"github.com/rhseung/ps-cli-sub001/internal/types"
)

// Selector chains are tried in order; the first selector that matches wins.
var (
	titleSelectors       = []string{"#problem_title"}
	descriptionSelectors = []string{"#problem_description", "div[id*='description']"}
	inputSelectors       = []string{"#problem_input", "div[id*='input']:not([id*='sample'])"}
	outputSelectors      = []string{"#problem_output", "div[id*='output']:not([id*='sample'])"}
	infoTableSelectors   = []string{"#problem-info", "table"}
)

// infoField maps accepted header synonyms of the problem info table onto a
// ScrapedProblem field. Keys are compared case-insensitively; the first key
// present in the table wins.
type infoField struct {
	keys []string
	set  func(p *types.ScrapedProblem, value string)
}

var infoFields = []infoField{
	{
		keys: []string{"시간 제한", "Time Limit"},
		set:  func(p *types.ScrapedProblem, v string) { p.TimeLimit = v },
	},
	{
		keys: []string{"메모리 제한", "Memory Limit"},
		set:  func(p *types.ScrapedProblem, v string) { p.MemoryLimit = v },
	},
	{
		keys: []string{"제출", "Submissions", "Submit"},
		set:  func(p *types.ScrapedProblem, v string) { p.SubmissionCount = v },
	},
	{
		keys: []string{"정답", "Accepted"},
		set:  func(p *types.ScrapedProblem, v string) { p.AcceptedCount = v },
	},
	{
		keys: []string{"맞힌 사람", "Solved", "Accepted Users"},
		set:  func(p *types.ScrapedProblem, v string) { p.AcceptedUserCount = v },
	},
	{
		keys: []string{"정답 비율", "Ratio", "Accepted Rate"},
		set:  func(p *types.ScrapedProblem, v string) { p.AcceptedRate = v },
	},
}

var (
	sampleInputID = regexp.MustCompile(`^sample-input-(\d+)$`)
	inputLabel    = regexp.MustCompile(`(?i)input|입력`)
)

// Problem fetches and extracts a problem page from the judge site. The page
// is fetched exactly once; callers that want a rendered retry use ParseProblem
// on their own copy of the page.
func (s *Scraper) Problem(ctx context.Context, problemID int) (*types.ScrapedProblem, error) {
	pageURL := s.ProblemURL(problemID)
	page, err := s.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	problem, err := ParseProblem(page, problemID, s.judgeURL)
	if err != nil {
		return nil, err
	}
	problem.URL = pageURL
	return problem, nil
}

// ProblemURL returns the judge page URL of a problem.
func (s *Scraper) ProblemURL(problemID int) string {
	return fmt.Sprintf("%s/problem/%d", s.judgeURL, problemID)
}

// ParseProblem extracts a ScrapedProblem from a problem page.
func ParseProblem(page string, problemID int, baseURL string) (*types.ScrapedProblem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, &ExtractionError{
			ProblemID: problemID,
			Field:     "html",
			Message:   fmt.Sprintf("failed to parse HTML: %v", err),
		}
	}

	problem := &types.ScrapedProblem{
		ProblemID:    problemID,
		Title:        plainText(firstMatch(doc.Selection, titleSelectors)),
		Description:  sectionText(doc.Selection, baseURL, descriptionSelectors),
		InputFormat:  sectionText(doc.Selection, baseURL, inputSelectors),
		OutputFormat: sectionText(doc.Selection, baseURL, outputSelectors),
		TestCases:    parseTestCases(doc.Selection),
	}

	info := parseInfoTable(doc.Selection)
	for _, field := range infoFields {
		if value, ok := lookupInfo(info, field.keys); ok {
			field.set(problem, value)
		}
	}

	if err := problem.Validate(); err != nil {
		return nil, validationError(problemID, err)
	}
	return problem, nil
}

func validationError(problemID int, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ExtractionError{ProblemID: problemID, Message: err.Error()}
	}
	switch verrs[0].Field() {
	case "Title":
		return &ExtractionError{ProblemID: problemID, Field: "title", Message: "title element not found or empty"}
	case "Description":
		return &ExtractionError{ProblemID: problemID, Field: "content", Message: "description, input format and output format are all empty"}
	default:
		return &ExtractionError{
			ProblemID: problemID,
			Field:     strings.ToLower(verrs[0].Field()),
			Message:   fmt.Sprintf("failed %q check", verrs[0].Tag()),
		}
	}
}

// firstMatch returns the first element matched by the earliest selector in the chain.
func firstMatch(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if sel := root.Find(selector); sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}

// textStrategy turns a matched element into text; strategies are tried in order.
type textStrategy func(sel *goquery.Selection) string

func sectionText(root *goquery.Selection, baseURL string, selectors []string) string {
	sel := firstMatch(root, selectors)
	if sel == nil {
		return ""
	}
	strategies := []textStrategy{
		func(s *goquery.Selection) string { return markdown.Convert(s, baseURL) },
		plainText,
	}
	for _, strategy := range strategies {
		if text := strategy(sel); text != "" {
			return text
		}
	}
	return ""
}

func plainText(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return strings.TrimSpace(sel.Text())
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// parseInfoTable zips the header row (th cells only) with the first data row
// after it. Tables without that shape are read row-wise as key/value pairs.
func parseInfoTable(root *goquery.Selection) map[string]string {
	info := make(map[string]string)
	table := firstMatch(root, infoTableSelectors)
	if table == nil {
		return info
	}

	rows := table.Find("tr")
	var headers, data *goquery.Selection
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		switch {
		case headers == nil && row.Find("th").Length() > 0 && row.Find("td").Length() == 0:
			headers = row.Find("th")
		case headers != nil && row.Find("td").Length() > 0:
			data = row.Find("td")
			return false
		}
		return true
	})

	if headers != nil && data != nil {
		n := min(headers.Length(), data.Length())
		for i := 0; i < n; i++ {
			key := normalizeKey(headers.Eq(i).Text())
			if key != "" {
				info[key] = strings.TrimSpace(data.Eq(i).Text())
			}
		}
		return info
	}

	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		key := normalizeKey(cells.Eq(0).Text())
		if key == "" {
			return
		}
		if _, exists := info[key]; !exists {
			info[key] = strings.TrimSpace(cells.Eq(1).Text())
		}
	})
	return info
}

func lookupInfo(info map[string]string, keys []string) (string, bool) {
	for _, key := range keys {
		if value, ok := info[normalizeKey(key)]; ok {
			return value, true
		}
	}
	return "", false
}

func parseTestCases(root *goquery.Selection) []types.TestCase {
	if cases := samplesByID(root); len(cases) > 0 {
		return cases
	}
	return samplesByLabel(root)
}

// samplesByID pairs sample-input-N with sample-output-N.
func samplesByID(root *goquery.Selection) []types.TestCase {
	type indexed struct {
		n    int
		test types.TestCase
	}
	var found []indexed

	root.Find("[id^='sample-input-']").Each(func(_ int, in *goquery.Selection) {
		id, _ := in.Attr("id")
		m := sampleInputID.FindStringSubmatch(id)
		if m == nil {
			return
		}
		out := root.Find("#sample-output-" + m[1])
		if out.Length() == 0 {
			return
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return
		}
		found = append(found, indexed{
			n: n,
			test: types.TestCase{
				Input:  strings.TrimSpace(in.Text()),
				Output: strings.TrimSpace(out.First().Text()),
			},
		})
	})

	sort.SliceStable(found, func(i, j int) bool { return found[i].n < found[j].n })
	cases := make([]types.TestCase, 0, len(found))
	for _, f := range found {
		cases = append(cases, f.test)
	}
	return cases
}

// samplesByLabel pairs each <pre> whose preceding sibling mentions "input"
// with the next <pre> sibling.
func samplesByLabel(root *goquery.Selection) []types.TestCase {
	var cases []types.TestCase
	consumed := make(map[*html.Node]bool)

	root.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		if consumed[pre.Get(0)] {
			return
		}
		if !inputLabel.MatchString(pre.Prev().Text()) {
			return
		}
		out := pre.NextAllFiltered("pre").First()
		if out.Length() == 0 {
			return
		}
		consumed[out.Get(0)] = true
		cases = append(cases, types.TestCase{
			Input:  strings.TrimSpace(pre.Text()),
			Output: strings.TrimSpace(out.Text()),
		})
	})
	return cases
}
