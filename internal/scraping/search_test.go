package scraping

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhseung/ps-cli-sub001/internal/fetch"
)

const searchPage = `<html><body>
<table>
  <thead><tr><th>#</th><th>제목</th><th>해결</th><th>평균 시도</th></tr></thead>
  <tbody>
    <tr>
      <td><a href="/problem/1000"><img src="https://static.solved.ac/tier_small/1.svg"> 1000</a></td>
      <td><a href="https://www.acmicpc.net/problem/1000">A+B</a></td>
      <td>301,223</td>
      <td>2.54</td>
    </tr>
    <tr>
      <td>Lv 3 — 11726</td>
      <td><span class="badge">Silver III</span> 2×n 타일링 Silver III</td>
      <td>n/a</td>
    </tr>
    <tr><td>no digits here</td><td>Broken</td></tr>
    <tr><td>only one cell</td></tr>
    <tr>
      <td><img src="https://static.solved.ac/tier_small/40.svg">1001</td>
      <td><span>Gold V</span></td>
    </tr>
    <tr><td>1000</td><td>Duplicate</td></tr>
  </tbody>
</table>
<div class="pagination">
  <a href="?query=a&page=1">1</a>
  <a href="?query=a&page=2">2</a>
  <a href="/problems?query=a&page=12">12</a>
  <a href="/about">about</a>
</div>
</body></html>`

func TestParseSearchResults(t *testing.T) {
	results, err := ParseSearchResults(searchPage, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, results.CurrentPage)
	assert.Equal(t, 12, results.TotalPages)
	require.Len(t, results.Results, 3)

	first := results.Results[0]
	assert.Equal(t, 1000, first.ProblemID)
	assert.Equal(t, "A+B", first.Title)
	require.NotNil(t, first.Level)
	assert.Equal(t, 1, *first.Level)
	require.NotNil(t, first.SolvedCount)
	assert.Equal(t, 301223, *first.SolvedCount)
	require.NotNil(t, first.AverageTries)
	assert.InDelta(t, 2.54, *first.AverageTries, 1e-9)

	second := results.Results[1]
	assert.Equal(t, 11726, second.ProblemID)
	assert.Equal(t, "2×n 타일링", second.Title)
	assert.Nil(t, second.Level)
	assert.Nil(t, second.SolvedCount)
	assert.Nil(t, second.AverageTries)

	third := results.Results[2]
	assert.Equal(t, 1001, third.ProblemID)
	assert.Equal(t, "Problem 1001", third.Title)
	assert.Nil(t, third.Level, "tier 40 is out of range")
}

func TestParseSearchResults_MinimalRow(t *testing.T) {
	page := `<table><tr><td>1000</td><td>A+B</td></tr></table>`
	results, err := ParseSearchResults(page, 1)
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	assert.Equal(t, 1000, results.Results[0].ProblemID)
	assert.Equal(t, "A+B", results.Results[0].Title)
	assert.Equal(t, 1, results.TotalPages)
}

func TestParseSearchResults_Empty(t *testing.T) {
	results, err := ParseSearchResults(`<html><body><p>No results</p></body></html>`, 1)
	require.NoError(t, err)
	assert.Empty(t, results.Results)
	assert.Equal(t, 0, results.TotalPages)
	assert.Equal(t, 1, results.CurrentPage)
}

func TestExtractProblemID(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"1000", 1000},
		{"#3 of 5 — 15649", 15649},
		{"12 345678 9999", 345678},
		{"id 42", 42},
		{"  7  ", 7},
		{"none", 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, extractProblemID(tt.text))
		})
	}
}

func TestScraper_Search(t *testing.T) {
	var gotQuery, gotPage, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/problems", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotPage = r.URL.Query().Get("page")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(searchPage))
	}))
	defer server.Close()

	s := New(Options{MetadataURL: server.URL})
	results, err := s.Search(context.Background(), "tier:b5 dp", 0)
	require.NoError(t, err)
	assert.Equal(t, "tier:b5 dp", gotQuery)
	assert.Equal(t, "1", gotPage)
	assert.Equal(t, fetch.DefaultUserAgent, gotUA)
	assert.Equal(t, 1, results.CurrentPage)
	assert.Len(t, results.Results, 3)
}

func TestScraper_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := New(Options{MetadataURL: server.URL})
	_, err := s.Search(context.Background(), "a", 1)
	var fetchErr *fetch.Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
}

func TestParseSearchResults_PlainSpanTitle(t *testing.T) {
	page := `<table><tbody>
  <tr><td><img src="https://static.solved.ac/tier_small/5.svg">1001</td><td><span>A-B</span></td></tr>
  <tr><td>1002</td><td><span class="tier-badge">Bronze I</span><span>A×B</span> Bronze I</td></tr>
</tbody></table>`
	results, err := ParseSearchResults(page, 1)
	require.NoError(t, err)
	require.Len(t, results.Results, 2)

	assert.Equal(t, 1001, results.Results[0].ProblemID)
	assert.Equal(t, "A-B", results.Results[0].Title)
	require.NotNil(t, results.Results[0].Level)
	assert.Equal(t, 5, *results.Results[0].Level)

	assert.Equal(t, "A×B", results.Results[1].Title)
}
