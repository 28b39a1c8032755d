package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhseung/ps-cli-sub001/internal/progress"
	"github.com/rhseung/ps-cli-sub001/internal/scraping"
)

const testWorkbookPage = `<html><body>
<div class="page-header"><h1>Basics</h1></div>
<table><tbody>
  <tr><td><a href="/problem/2557">2557</a></td><td><a href="/problem/2557">Hello World</a></td></tr>
  <tr><td><a href="/problem/1000">1000</a></td><td><a href="/problem/1000">A+B</a></td></tr>
</tbody></table></body></html>`

const testProblemPage = `<html><body>
<span id="problem_title">A+B</span>
<div id="problem_description"><p>Print <strong>A+B</strong>.</p></div>
<div id="problem_input"><p>Two integers.</p></div>
<div id="problem_output"><p>Their sum.</p></div>
<pre id="sample-input-1">1 2</pre>
<pre id="sample-output-1">3</pre>
</body></html>`

const testSearchPage = `<html><body><table><tbody>
  <tr><td>1000</td><td><a href="/problem/1000">A+B</a></td><td>1,000</td><td>2.50</td></tr>
</tbody></table></body></html>`

// newTestSites serves the judge pages, the search page and the metadata API
// from one server and points the CLI at it.
func newTestSites(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/workbook/view/7", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testWorkbookPage))
	})
	mux.HandleFunc("/problem/1000", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testProblemPage))
	})
	mux.HandleFunc("/problem/2000", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="app"></div></body></html>`))
	})
	mux.HandleFunc("/problems", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testSearchPage))
	})
	mux.HandleFunc("/api/v3/problem/show", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"problemId": %s, "titleKo": "A+B", "level": 3, "tags": [{"key": "math"}]}`, r.URL.Query().Get("problemId"))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Setenv("PS_CLI_JUDGE_URL", server.URL)
	t.Setenv("PS_CLI_SOLVEDAC_URL", server.URL)
	t.Setenv("PS_CLI_SOLVEDAC_API_URL", server.URL+"/api/v3")
	return server
}

func resetFlags() {
	verbose = false
	problemUseBrowser = false
	searchPage = 1
	workbookNoEnrich = false
	workbookMode = ""
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// newProject initializes a project in a temp dir and makes it the working directory.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	_, err := execute(t, "init")
	require.NoError(t, err)
	return dir
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized ps-cli project")
	assert.FileExists(t, filepath.Join(dir, ".ps-cli", "config.json"))

	out, err = execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already initialized")
}

func TestWorkbookMark_CountsAttempts(t *testing.T) {
	newProject(t)

	out, err := execute(t, "workbook", "mark", "7", "1000", "failed")
	require.NoError(t, err)
	assert.Contains(t, out, "as failed (attempts: 1)")

	out, err = execute(t, "workbook", "mark", "7", "1000", "failed")
	require.NoError(t, err)
	assert.Contains(t, out, "(attempts: 1)")

	out, err = execute(t, "workbook", "mark", "7", "1000", "Solved")
	require.NoError(t, err)
	assert.Contains(t, out, "as solved (attempts: 2)")

	out, err = execute(t, "workbook", "progress", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "1000")
	assert.Contains(t, out, "solved")
}

func TestWorkbookMark_InvalidArguments(t *testing.T) {
	newProject(t)

	_, err := execute(t, "workbook", "mark", "7", "1000", "skipped")
	assert.ErrorContains(t, err, "unknown status")

	_, err = execute(t, "workbook", "mark", "seven", "1000", "solved")
	assert.ErrorContains(t, err, "invalid workbook id")
}

func TestWorkbookMark_WithoutProject(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "workbook", "mark", "7", "1000", "solved")
	var storageErr *progress.StorageError
	assert.ErrorAs(t, err, &storageErr)
}

func TestWorkbookReset(t *testing.T) {
	dir := newProject(t)

	_, err := execute(t, "workbook", "mark", "7", "1000", "solved")
	require.NoError(t, err)

	out, err := execute(t, "workbook", "reset", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Reset progress of workbook 7")

	data, err := os.ReadFile(filepath.Join(dir, ".ps-cli", "progress", "7.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"problems": {}`)
}

func TestWorkbookNext(t *testing.T) {
	newTestSites(t)
	newProject(t)

	out, err := execute(t, "workbook", "next", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "2557. Hello World")
	assert.Contains(t, out, "Bronze III")

	_, err = execute(t, "workbook", "mark", "7", "2557", "solved")
	require.NoError(t, err)

	out, err = execute(t, "workbook", "next", "7", "--mode", "unsolved")
	require.NoError(t, err)
	assert.Contains(t, out, "1000. A+B")

	out, err = execute(t, "workbook", "next", "7", "--mode", "failed")
	require.NoError(t, err)
	assert.Contains(t, out, "No failed problems left")

	_, err = execute(t, "workbook", "next", "7", "--mode", "random")
	assert.ErrorContains(t, err, "unknown selection mode")
}

func TestWorkbookShow(t *testing.T) {
	newTestSites(t)
	newProject(t)

	_, err := execute(t, "workbook", "mark", "7", "1000", "failed")
	require.NoError(t, err)

	out, err := execute(t, "workbook", "show", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello World")
	assert.Contains(t, out, "Bronze III")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "Failed:   1")

	out, err = execute(t, "workbook", "show", "7", "--no-enrich")
	require.NoError(t, err)
	assert.NotContains(t, out, "Bronze III")
}

func TestProblem(t *testing.T) {
	newTestSites(t)
	t.Chdir(t.TempDir())

	out, err := execute(t, "problem", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "1000. A+B")
	assert.Contains(t, out, "Print **A+B**.")
	assert.Contains(t, out, "Bronze III")
	assert.Contains(t, out, "### Sample Input 1")

	_, err = execute(t, "problem", "0")
	assert.ErrorContains(t, err, "invalid problem id")
}

func TestSearch(t *testing.T) {
	newTestSites(t)
	t.Chdir(t.TempDir())

	out, err := execute(t, "search", "a+b")
	require.NoError(t, err)
	assert.Contains(t, out, "A+B")
	assert.Contains(t, out, "1000")

	_, err = execute(t, "search", "a+b", "--page", "0")
	assert.ErrorContains(t, err, "--page must be at least 1")
}

func TestLoadProblem_RendersOnExtractionFailure(t *testing.T) {
	server := newTestSites(t)
	t.Chdir(t.TempDir())

	rt, err := newRuntime(&bytes.Buffer{}, false)
	require.NoError(t, err)

	var rendered []string
	rt.render = func(_ context.Context, url string) (string, error) {
		rendered = append(rendered, url)
		return testProblemPage, nil
	}

	problem, err := loadProblem(context.Background(), rt, 2000)
	require.NoError(t, err)
	assert.Equal(t, []string{server.URL + "/problem/2000"}, rendered)
	assert.Equal(t, "A+B", problem.Title)
	assert.Equal(t, server.URL+"/problem/2000", problem.URL)
}

func TestLoadProblem_RenderFailureKeepsExtractionError(t *testing.T) {
	newTestSites(t)
	t.Chdir(t.TempDir())

	rt, err := newRuntime(&bytes.Buffer{}, false)
	require.NoError(t, err)
	rt.render = func(context.Context, string) (string, error) {
		return "", errors.New("chrome not installed")
	}

	_, err = loadProblem(context.Background(), rt, 2000)
	var extractErr *scraping.ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.NotContains(t, err.Error(), "chrome")
}

func TestLoadProblem_WithoutRendererReturnsExtractionError(t *testing.T) {
	newTestSites(t)
	t.Chdir(t.TempDir())

	rt, err := newRuntime(&bytes.Buffer{}, false)
	require.NoError(t, err)
	require.Nil(t, rt.render)

	_, err = loadProblem(context.Background(), rt, 2000)
	var extractErr *scraping.ExtractionError
	assert.ErrorAs(t, err, &extractErr)
}
