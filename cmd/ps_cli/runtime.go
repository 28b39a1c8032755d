package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rhseung/ps-cli-sub001/internal/config"
	"github.com/rhseung/ps-cli-sub001/internal/enrichment"
	"github.com/rhseung/ps-cli-sub001/internal/fetch"
	"github.com/rhseung/ps-cli-sub001/internal/observability"
	"github.com/rhseung/ps-cli-sub001/internal/progress"
	"github.com/rhseung/ps-cli-sub001/internal/project"
	"github.com/rhseung/ps-cli-sub001/internal/scraping"
	"github.com/rhseung/ps-cli-sub001/internal/solvedac"
)

// runtime bundles the collaborators every command is built from.
type runtime struct {
	cfg      *config.Config
	scraper  *scraping.Scraper
	render   fetch.Renderer // nil unless use_browser is set
	solvedac *solvedac.Client
	store    *progress.Store
	printer  *observability.Printer
}

// newRuntime loads configuration from the enclosing project, if any, and
// wires the scraper, metadata client and progress store.
func newRuntime(out io.Writer, useBrowser bool) (*runtime, error) {
	locator := project.Locator{}

	configPath := ""
	root, err := locator.Root()
	switch {
	case err == nil:
		configPath = project.ConfigPath(root)
	case errors.Is(err, project.ErrNotFound):
		slog.Debug("no project directory, using default configuration")
	default:
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if useBrowser {
		cfg.UseBrowser = true
	}

	transport := fetch.NewTransport(cfg.BypassCloudflare)
	fetchOpts := &fetch.Options{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.UserAgent,
		Transport: transport,
	}

	var render fetch.Renderer
	if cfg.UseBrowser {
		render = fetch.BrowserRenderer(cfg.Timeout(), cfg.UserAgent)
	}

	scraper := scraping.New(scraping.Options{
		JudgeURL:    cfg.JudgeURL,
		MetadataURL: cfg.SolvedacURL,
		Fetch:       fetchOpts,
	})
	client := solvedac.NewClient(solvedac.Options{
		BaseURL:   cfg.SolvedacAPIURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout(),
		Transport: transport,
	})

	return &runtime{
		cfg:      cfg,
		scraper:  scraper,
		render:   render,
		solvedac: client,
		store:    progress.NewStore(locator),
		printer:  observability.NewPrinter(out),
	}, nil
}

func (r *runtime) enricher() *enrichment.Pipeline {
	return enrichment.New(r.solvedac,
		enrichment.WithBatchSize(r.cfg.EnrichBatchSize),
		enrichment.WithDelay(r.cfg.EnrichDelay()),
		enrichment.WithLogger(slog.Default()),
	)
}
