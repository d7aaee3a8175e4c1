package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"absubmit/internal/acousticbrainz"
	"absubmit/internal/eligibility"
	"absubmit/internal/extractor"
	"absubmit/internal/logging"
	"absubmit/internal/services"
)

// CatalogItem is the read view of a catalog entry the pipeline consumes.
type CatalogItem interface {
	eligibility.Candidate
	FilePath() string
	ItemID() int64
}

// Analyzer produces a report for one file.
type Analyzer interface {
	Run(ctx context.Context, filePath string) (extractor.Report, error)
}

// Submitter sends a report keyed by MusicBrainz id.
type Submitter interface {
	Submit(ctx context.Context, mbid string, report any) acousticbrainz.Outcome
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets how many items are processed concurrently. Values below
// one are treated as one.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 1 {
			p.workers = n
		}
	}
}

// Pipeline composes eligibility, analysis and submission.
type Pipeline struct {
	analyzer  Analyzer
	submitter Submitter
	logger    *slog.Logger
	workers   int
}

// New constructs a pipeline. A nil logger discards output.
func New(analyzer Analyzer, submitter Submitter, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		analyzer:  analyzer,
		submitter: submitter,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		workers:   1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessAll runs every item through the pipeline. Per-item failures are
// logged and counted, never returned. The returned error is ctx.Err() when
// the run was interrupted between items, or the configuration error that
// stopped it.
func (p *Pipeline) ProcessAll(ctx context.Context, items []CatalogItem, force bool) (Summary, error) {
	t := newTally()
	var err error
	if p.workers <= 1 {
		err = p.processSequential(ctx, items, force, t)
	} else {
		err = p.processConcurrent(ctx, items, force, t)
	}
	summary := t.snapshot()
	p.logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("total", summary.Total),
		logging.Int("submitted", summary.Submitted),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, err
}

func (p *Pipeline) processSequential(ctx context.Context, items []CatalogItem, force bool, t *tally) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			p.logger.Info("run interrupted", logging.Int("remaining", len(items)-t.snapshot().Total))
			return err
		}
		if err := p.processItem(ctx, item, force, t); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) processConcurrent(ctx context.Context, items []CatalogItem, force bool, t *tally) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, item := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			return p.processItem(gctx, item, force, t)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// processItem handles one item. It returns an error only when the run must
// stop.
func (p *Pipeline) processItem(ctx context.Context, item CatalogItem, force bool, t *tally) error {
	itemCtx := services.WithItemID(ctx, item.ItemID())
	itemCtx = services.WithItemPath(itemCtx, item.FilePath())
	itemCtx = services.WithRequestID(itemCtx, uuid.NewString())
	logger := logging.WithContext(itemCtx, p.logger)
	// Work on an item is not interrupted once it has begun.
	workCtx := context.WithoutCancel(itemCtx)

	decision := eligibility.Check(item, force)
	if !decision.Analyze {
		logger.Info("item skipped", logging.Args(logging.DecisionAttrs("eligibility", "skip", string(decision.Reason))...)...)
		t.skip(decision.Reason)
		return nil
	}

	report, err := p.analyzer.Run(workCtx, item.FilePath())
	if err != nil {
		if errors.Is(err, extractor.ErrExtractorUnavailable) {
			logging.ErrorWithContext(logger, "extractor unavailable", "extractor_unavailable",
				logging.String(logging.FieldErrorHint, "reinstall the extractor or fix extractor.path"),
				logging.Error(err),
			)
			t.fail()
			return err
		}
		logging.ErrorWithContext(logger, "analysis failed", "analysis_failed",
			logging.String(logging.FieldErrorHint, "check that the file decodes and the extractor output is valid"),
			logging.Error(err),
		)
		t.fail()
		return nil
	}

	outcome := p.submitter.Submit(workCtx, item.Identifier(), report)
	if !outcome.Success() {
		attrs := []logging.Attr{
			logging.String("outcome", outcome.Kind.String()),
			logging.Int("status_code", outcome.StatusCode),
			logging.String("message", outcome.Message),
			logging.Error(outcome.AsError()),
		}
		if outcome.Kind == acousticbrainz.OutcomeUnreachable {
			attrs = append(attrs, logging.String(logging.FieldErrorHint, "check network access to AcousticBrainz"))
		} else {
			attrs = append(attrs, logging.String(logging.FieldErrorHint, "verify the MusicBrainz id"))
		}
		logging.ErrorWithContext(logger, "submission failed", "submission_failed", attrs...)
		t.fail()
		return nil
	}

	logger.Info("analysis submitted",
		logging.String(logging.FieldEventType, "submitted"),
		logging.String("mbid", item.Identifier()),
		logging.Int("status_code", outcome.StatusCode),
	)
	t.submit()
	return nil
}

type tally struct {
	mu      sync.Mutex
	summary Summary
}

func newTally() *tally {
	return &tally{summary: Summary{Skips: make(map[eligibility.Reason]int)}}
}

func (t *tally) skip(reason eligibility.Reason) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.Total++
	t.summary.Skipped++
	t.summary.Skips[reason]++
}

func (t *tally) fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.Total++
	t.summary.Failed++
}

func (t *tally) submit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.Total++
	t.summary.Submitted++
}

func (t *tally) snapshot() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.summary
	out.Skips = maps.Clone(t.summary.Skips)
	return out
}
