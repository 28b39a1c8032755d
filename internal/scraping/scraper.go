package scraping

import (
	"context"
	"strings"

	"github.com/rhseung/ps-cli-sub001/internal/fetch"
)

const (
	// DefaultJudgeURL is the origin of the judge site.
	DefaultJudgeURL = "https://www.acmicpc.net"
	// DefaultMetadataURL is the origin of the metadata site.
	DefaultMetadataURL = "https://solved.ac"
)

// Options configures a Scraper.
type Options struct {
	JudgeURL    string
	MetadataURL string
	Fetch       *fetch.Options
}

// Scraper fetches and parses pages from the judge and metadata sites.
type Scraper struct {
	judgeURL    string
	metadataURL string
	fetchOpts   *fetch.Options
}

// New creates a Scraper. Zero-valued options fall back to the public sites.
func New(opts Options) *Scraper {
	if opts.JudgeURL == "" {
		opts.JudgeURL = DefaultJudgeURL
	}
	if opts.MetadataURL == "" {
		opts.MetadataURL = DefaultMetadataURL
	}
	if opts.Fetch == nil {
		opts.Fetch = fetch.DefaultOptions()
	}
	return &Scraper{
		judgeURL:    strings.TrimRight(opts.JudgeURL, "/"),
		metadataURL: strings.TrimRight(opts.MetadataURL, "/"),
		fetchOpts:   opts.Fetch,
	}
}

// JudgeURL returns the judge site origin the scraper targets.
func (s *Scraper) JudgeURL() string {
	return s.judgeURL
}

func (s *Scraper) get(ctx context.Context, urlStr string) (string, error) {
	result, err := fetch.URL(ctx, urlStr, s.fetchOpts)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}
