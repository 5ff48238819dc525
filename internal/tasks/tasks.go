// package tasks implements the vocabulary sync pipeline.
//
// The core abstraction is SyncEngine, which extracts candidate words, subtracts the words already in the target,
// enriches the rest one at a time and appends them. Progress is reported through a synchronous callback.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/services"
	"github.com/desertthunder/vocx/internal/shared"
	"github.com/desertthunder/vocx/internal/words"
)

// DefaultProgressEvery is how often a milestone progress update is flagged.
const DefaultProgressEvery = 10

// Options is the immutable configuration of a [SyncEngine].
type Options struct {
	Ranges        []models.CellRange // source ranges, scanned in order
	Headers       []string           // header row written to an empty target
	Pacing        time.Duration      // delay between consecutive lookups
	ProgressEvery int                // milestone interval, defaults to [DefaultProgressEvery]
	Filter        words.Filter       // candidate word rule
}

// SyncEngine orchestrates a sync between a source spreadsheet, a dictionary and a target store.
type SyncEngine struct {
	source    services.RangeReader
	target    services.TargetStore
	dict      services.Dictionary
	opts      Options
	pacer     Pacer
	logger    *log.Logger
	extractor *Extractor
	state     *StateReader
}

// NewEngine creates a SyncEngine. A nil pacer sleeps for real; a nil logger discards output.
func NewEngine(source services.RangeReader, target services.TargetStore, dict services.Dictionary, opts Options, pacer Pacer, logger *log.Logger) *SyncEngine {
	if pacer == nil {
		pacer = SleepPacer{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	logger = shared.WithLogger(logger, "component", "sync")

	return &SyncEngine{
		source:    source,
		target:    target,
		dict:      dict,
		opts:      opts,
		pacer:     pacer,
		logger:    logger,
		extractor: NewExtractor(source, opts.Ranges, opts.Filter, logger),
		state:     NewStateReader(target, logger),
	}
}

// EnsureHeader writes the configured header row when the target is empty, i.e. row 1 is missing or its first cell is blank.
// An existing header is never overwritten. It reports whether the header was written.
func (e *SyncEngine) EnsureHeader(ctx context.Context, progress ProgressFunc) (bool, error) {
	header, err := e.target.ReadHeader(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read header row: %w", err)
	}

	if len(header) > 0 && header[0] != "" {
		emit(progress, headerUpdate(false))
		return false, nil
	}

	if err := e.target.Clear(ctx); err != nil {
		return false, fmt.Errorf("failed to clear target: %w", err)
	}
	if err := e.target.InsertRow(ctx, 1, e.opts.Headers); err != nil {
		return false, fmt.Errorf("failed to write header row: %w", err)
	}

	e.logger.Info("headers added to target", "headers", e.opts.Headers)
	emit(progress, headerUpdate(true))
	return true, nil
}

// Extract scans the source ranges.
func (e *SyncEngine) Extract(ctx context.Context, progress ProgressFunc) *Extraction {
	return e.extractor.Extract(ctx, progress)
}

// Existing reads the words already in the target.
func (e *SyncEngine) Existing(ctx context.Context, progress ProgressFunc) map[string]struct{} {
	existing := e.state.Existing(ctx)
	emit(progress, existingUpdate(len(existing)))
	return existing
}

// Plan extracts candidates and computes the worklist without looking anything up.
//
// It returns the partial plan together with [shared.ErrNoCandidates] when no range produced a word.
func (e *SyncEngine) Plan(ctx context.Context, progress ProgressFunc) (*models.Plan, error) {
	extraction := e.Extract(ctx, progress)
	plan := &models.Plan{Candidates: extraction.Words, Ranges: extraction.Ranges}

	if len(plan.Candidates) == 0 {
		return plan, shared.ErrNoCandidates
	}

	e.logger.Info("extracted candidates", "count", len(plan.Candidates), "failed_ranges", extraction.FailedRanges())
	e.fillWorklist(ctx, plan, progress)
	return plan, nil
}

// PlanWords builds a plan from an explicit list instead of the source ranges.
// Entries are filtered and normalized the same way cells are.
func (e *SyncEngine) PlanWords(ctx context.Context, list []string, progress ProgressFunc) (*models.Plan, error) {
	var candidates []string
	for _, w := range list {
		if !e.opts.Filter.IsCandidate(w) {
			e.logger.Warn("ignoring word that is not a candidate", "word", w)
			continue
		}
		candidates = append(candidates, shared.NormalizeWord(w))
	}

	plan := &models.Plan{Candidates: words.Dedupe(candidates)}
	if len(plan.Candidates) == 0 {
		return plan, shared.ErrNoCandidates
	}

	e.fillWorklist(ctx, plan, progress)
	return plan, nil
}

func (e *SyncEngine) fillWorklist(ctx context.Context, plan *models.Plan, progress ProgressFunc) {
	plan.Existing = e.Existing(ctx, progress)
	plan.Worklist = words.Subtract(plan.Candidates, plan.Existing)
	e.logger.Info("computed worklist", "existing", len(plan.Existing), "new", len(plan.Worklist))
}

// Run looks up and appends every word of the plan's worklist, in order.
//
// Lookup and write failures are recorded on the report and never abort the run. The pacing delay is observed
// between consecutive words. A canceled context stops the run early; the partial report is returned with the context error.
func (e *SyncEngine) Run(ctx context.Context, plan *models.Plan, progress ProgressFunc) (*models.RunReport, error) {
	report := &models.RunReport{
		RunID:      shared.GenerateID(),
		StartedAt:  time.Now(),
		Candidates: len(plan.Candidates),
		Existing:   len(plan.Existing),
		Worklist:   len(plan.Worklist),
		Failures:   []models.FailedWord{},
	}

	seen := make(map[string]struct{}, len(plan.Existing)+len(plan.Worklist))
	for w := range plan.Existing {
		seen[w] = struct{}{}
	}

	total := len(plan.Worklist)
	if total == 0 {
		e.logger.Info("all words are already processed")
	}

	for i, word := range plan.Worklist {
		if err := ctx.Err(); err != nil {
			return e.finish(report, progress, err)
		}

		step := i + 1
		key := shared.NormalizeWord(word)
		if _, ok := seen[key]; ok {
			e.logger.Debug("skipping word already in target", "word", word)
			continue
		}

		emit(progress, fetchingWordUpdate(step, total, word))
		outcome := e.processWord(ctx, step, word)
		report.Processed++

		if outcome.Failure == nil {
			report.Succeeded++
			seen[key] = struct{}{}
		} else {
			report.Failed++
			report.Failures = append(report.Failures, *outcome.Failure)
		}

		update := wordDoneUpdate(step, total, report, outcome, e.opts.ProgressEvery)
		if update.Milestone {
			e.logger.Info("progress", "processed", step, "total", total, "succeeded", report.Succeeded, "failed", report.Failed)
		}
		emit(progress, update)

		if step < total {
			if err := e.pacer.Wait(ctx, e.opts.Pacing); err != nil {
				return e.finish(report, progress, err)
			}
		}
	}

	return e.finish(report, progress, nil)
}

func (e *SyncEngine) processWord(ctx context.Context, step int, word string) WordOutcome {
	outcome := WordOutcome{Word: word}

	record, err := e.dict.Lookup(ctx, word)
	if err != nil {
		reason := models.ReasonLookupFailed
		if errors.Is(err, shared.ErrWordNotFound) {
			reason = models.ReasonNotFound
		}
		e.logger.Warn("skipped word", "word", word, "reason", reason, "error", err)
		outcome.Failure = &models.FailedWord{Position: step, Word: word, Reason: reason, Detail: err.Error()}
		return outcome
	}

	if err := e.target.AppendRow(ctx, record.Row()); err != nil {
		err = fmt.Errorf("%w: %w", shared.ErrAppendFailed, err)
		e.logger.Error("error writing word to target", "word", word, "error", err)
		outcome.Failure = &models.FailedWord{Position: step, Word: word, Reason: models.ReasonAppendFailed, Detail: err.Error()}
		return outcome
	}

	e.logger.Debug("added word to target", "word", word)
	outcome.Record = record
	return outcome
}

func (e *SyncEngine) finish(report *models.RunReport, progress ProgressFunc, err error) (*models.RunReport, error) {
	report.FinishedAt = time.Now()
	if err != nil {
		report.Canceled = true
		e.logger.Warn("sync interrupted", "processed", report.Processed, "error", err)
		emit(progress, completeUpdate(report))
		return report, fmt.Errorf("sync interrupted: %w", err)
	}

	e.logger.Info("processing complete", "succeeded", report.Succeeded, "failed", report.Failed, "total", report.Worklist)
	emit(progress, completeUpdate(report))
	return report, nil
}
