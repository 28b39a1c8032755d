// Package solvedac is a small client for the solved.ac problem metadata API.
package solvedac

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rhseung/ps-cli-sub001/internal/fetch"
)

// DefaultBaseURL is the public solved.ac API root.
const DefaultBaseURL = "https://solved.ac/api/v3"

// Tag is a problem classification tag.
type Tag struct {
	Key string `json:"key"`
}

// Problem is the subset of the solved.ac problem record ps-cli uses.
type Problem struct {
	ProblemID         int     `json:"problemId"`
	TitleKo           string  `json:"titleKo"`
	Level             int     `json:"level"`
	AcceptedUserCount int     `json:"acceptedUserCount"`
	AverageTries      float64 `json:"averageTries"`
	Tags              []Tag   `json:"tags"`
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client looks up problem metadata.
type Client struct {
	http *resty.Client
}

// NewClient creates a Client. Zero-valued options use the public API.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = fetch.DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = fetch.DefaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetHeader("accept", "application/json")
	client.SetTimeout(opts.Timeout)
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}
	return &Client{http: client}
}

// GetProblem fetches metadata for one problem.
func (c *Client) GetProblem(ctx context.Context, problemID int) (*Problem, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("problemId", strconv.Itoa(problemID)).
		SetResult(&Problem{}).
		Get("/problem/show")
	if err != nil {
		return nil, &fetch.Error{
			URL:     c.http.BaseURL + "/problem/show",
			Message: fmt.Sprintf("problem %d lookup failed", problemID),
			Cause:   err,
		}
	}
	if res.IsError() {
		return nil, &fetch.Error{
			URL:        res.Request.URL,
			StatusCode: res.StatusCode(),
			Message:    fmt.Sprintf("problem %d lookup: HTTP status %d", problemID, res.StatusCode()),
		}
	}

	problem, ok := res.Result().(*Problem)
	if !ok || problem == nil || problem.ProblemID == 0 {
		return nil, &fetch.Error{
			URL:        res.Request.URL,
			StatusCode: res.StatusCode(),
			Message:    fmt.Sprintf("problem %d lookup: unexpected response body", problemID),
		}
	}
	return problem, nil
}
