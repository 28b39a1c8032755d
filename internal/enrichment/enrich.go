// Package enrichment merges difficulty metadata from the metadata API into
// workbook problems.
package enrichment

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rhseung/ps-cli-sub001/internal/solvedac"
	"github.com/rhseung/ps-cli-sub001/internal/types"
)

const (
	// DefaultBatchSize is the number of lookups in flight at once.
	DefaultBatchSize = 10
	// DefaultBatchDelay is the pause between consecutive batches.
	DefaultBatchDelay = 200 * time.Millisecond
)

// ProblemLookup fetches metadata for one problem. *solvedac.Client implements it.
type ProblemLookup interface {
	GetProblem(ctx context.Context, problemID int) (*solvedac.Problem, error)
}

// Pipeline enriches problems in fixed-size concurrent batches.
type Pipeline struct {
	lookup    ProblemLookup
	batchSize int
	delay     time.Duration
	sleep     func(time.Duration)
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBatchSize sets how many lookups run concurrently.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithDelay sets the pause between batches.
func WithDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		if d >= 0 {
			p.delay = d
		}
	}
}

// WithLogger sets the logger used for lookup warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func withSleep(sleep func(time.Duration)) Option {
	return func(p *Pipeline) { p.sleep = sleep }
}

// New creates a Pipeline backed by lookup.
func New(lookup ProblemLookup, opts ...Option) *Pipeline {
	p := &Pipeline{
		lookup:    lookup,
		batchSize: DefaultBatchSize,
		delay:     DefaultBatchDelay,
		sleep:     time.Sleep,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enrich returns a copy of problems with Level filled from the metadata API.
// Failed lookups are logged and leave the problem unchanged; output order and
// length always match the input.
func (p *Pipeline) Enrich(ctx context.Context, problems []types.WorkbookProblem) []types.WorkbookProblem {
	out := make([]types.WorkbookProblem, len(problems))
	copy(out, problems)

	for start := 0; start < len(out); start += p.batchSize {
		if start > 0 && p.delay > 0 {
			p.sleep(p.delay)
		}
		end := min(start+p.batchSize, len(out))
		p.logger.DebugContext(ctx, "enriching batch", "from", start, "to", end, "total", len(out))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				p.enrichOne(ctx, &out[i])
				return nil
			})
		}
		_ = g.Wait()
	}
	return out
}

func (p *Pipeline) enrichOne(ctx context.Context, problem *types.WorkbookProblem) {
	meta, err := p.lookup.GetProblem(ctx, problem.ProblemID)
	if err != nil {
		p.logger.WarnContext(ctx, "problem metadata lookup failed", "problem_id", problem.ProblemID, "err", err)
		return
	}
	if !types.ValidLevel(meta.Level) {
		p.logger.WarnContext(ctx, "ignoring out-of-range level", "problem_id", problem.ProblemID, "level", meta.Level)
		return
	}
	level := meta.Level
	problem.Level = &level
}
