package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vocx/internal/formatter"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/repositories"
	"github.com/desertthunder/vocx/internal/shared"
	"github.com/desertthunder/vocx/internal/tasks"
	"github.com/desertthunder/vocx/internal/words"
	"github.com/urfave/cli/v3"
)

// recordedSync runs the engine, writing the header first and recording each run in history when available.
type recordedSync struct {
	engine      *tasks.SyncEngine
	runs        *repositories.RunRepository
	kind        string
	words       []string
	writeHeader bool
	logger      *log.Logger
}

// Plan extracts from the source ranges, or uses the explicit word list when one was given.
//
// When writes are allowed the header row is ensured first, so the existing words are read from the
// target as it will be written to. Header failures are logged, not returned.
func (s *recordedSync) Plan(ctx context.Context, progress tasks.ProgressFunc) (*models.Plan, error) {
	if s.writeHeader {
		if _, err := s.engine.EnsureHeader(ctx, progress); err != nil {
			s.logger.Warn("could not set up target headers, continuing", "error", err)
		}
	}

	if len(s.words) > 0 {
		return s.engine.PlanWords(ctx, s.words, progress)
	}
	return s.engine.Plan(ctx, progress)
}

// Run processes the worklist. History failures are logged, not returned.
func (s *recordedSync) Run(ctx context.Context, plan *models.Plan, progress tasks.ProgressFunc) (*models.RunReport, error) {
	run := &models.SyncRun{
		TargetKind: s.kind,
		Candidates: len(plan.Candidates),
		Existing:   len(plan.Existing),
		Worklist:   len(plan.Worklist),
	}
	recording := s.runs != nil
	if recording {
		if err := s.runs.Start(run); err != nil {
			s.logger.Warn("failed to record run start", "error", err)
			recording = false
		}
	}

	report, err := s.engine.Run(ctx, plan, progress)
	if !recording {
		return report, err
	}

	report.RunID = run.ID
	if err != nil {
		if herr := s.runs.Fail(run.ID, err, report); herr != nil {
			s.logger.Warn("failed to record run", "run", run.ID, "error", herr)
		}
	} else if herr := s.runs.Complete(run.ID, report); herr != nil {
		s.logger.Warn("failed to record run", "run", run.ID, "error", herr)
	}

	return report, err
}

// newSync builds the engine and attaches run history when the database can be opened.
// writeHeader is false for runs that must leave the target untouched.
func (r *Runner) newSync(ctx context.Context, list []string, writeHeader bool) (*recordedSync, error) {
	engine, err := r.newEngine(ctx)
	if err != nil {
		return nil, err
	}

	runs, err := r.history()
	if err != nil {
		r.logger.Warn("run history unavailable", "error", err)
	}

	return &recordedSync{
		engine:      engine,
		runs:        runs,
		kind:        r.config.Target.Kind,
		words:       list,
		writeHeader: writeHeader,
		logger:      r.logger,
	}, nil
}

// SyncRun extracts new words from the source, looks each one up and appends it to the target.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	defer r.Close()

	format, err := formatter.ParseFormat(cmd.String("report-format"))
	if err != nil {
		return err
	}
	reportFile := cmd.String("report-file")
	if reportFile != "" && !cmd.IsSet("report-format") {
		format = formatter.FormatFromPath(reportFile)
	}

	syncer, err := r.newSync(ctx, words.Split(cmd.String("words")), !cmd.Bool("dry-run"))
	if err != nil {
		return err
	}

	r.writePlainHeader("Vocabulary Sync")
	plan, err := syncer.Plan(ctx, r.printProgress)
	if err != nil {
		if errors.Is(err, shared.ErrNoCandidates) {
			return fmt.Errorf("%w: check the source ranges in your config", err)
		}
		return err
	}

	r.writePlain("\nFound %d unique words\n", len(plan.Candidates))
	r.writePlain("Words already in target: %d\n", len(plan.Existing))
	r.writePlain("New words to add: %d\n", len(plan.Worklist))

	if len(plan.Worklist) == 0 {
		r.writePlain("\nAll words are already in the target!\n")
		return nil
	}

	if cmd.Bool("dry-run") {
		r.writePlainln("Dry run, nothing was looked up or written. New words:")
		for i, w := range plan.Worklist {
			r.writePlain("%3d. %s\n", i+1, w)
		}
		return nil
	}

	r.writePlain("\nProcessing %d new words...\n", len(plan.Worklist))
	report, runErr := syncer.Run(ctx, plan, r.printProgress)
	if report == nil {
		return runErr
	}

	targetURL := r.config.TargetURL()
	summary, err := formatter.ReportToText(report, targetURL)
	if err != nil {
		return err
	}
	r.writePlainln("%s", summary)

	if reportFile != "" {
		if err := formatter.WriteReport(report, format, reportFile, targetURL); err != nil {
			r.logger.Error("failed to write report", "path", reportFile, "error", err)
		} else {
			r.writePlain("Report written to %s\n", reportFile)
		}
	}

	if cmd.Bool("open") && targetURL != "" {
		if err := shared.OpenBrowser(targetURL); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	}

	return runErr
}

// SyncPlan prints the worklist a sync would process, without lookups or writes.
func (r *Runner) SyncPlan(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	defer r.Close()

	engine, err := r.newEngine(ctx)
	if err != nil {
		return err
	}

	var plan *models.Plan
	if list := words.Split(cmd.String("words")); len(list) > 0 {
		plan, err = engine.PlanWords(ctx, list, nil)
	} else {
		plan, err = engine.Plan(ctx, nil)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(plan, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Sync Plan")
	for i, stat := range plan.Ranges {
		if stat.Failed() {
			r.writePlain("Range %d (%s): failed: %v\n", i+1, stat.Range.A1(), stat.Err)
			continue
		}
		r.writePlain("Range %d (%s): %d cells, %d words\n", i+1, stat.Range.A1(), stat.CellsScanned, stat.WordsFound)
	}
	r.writePlain("Candidates: %d\n", len(plan.Candidates))
	r.writePlain("Already in target: %d\n", len(plan.Existing))
	r.writePlain("New words: %d\n", len(plan.Worklist))

	if len(plan.Worklist) > 0 {
		r.writePlain("\n")
		for i, w := range plan.Worklist {
			r.writePlain("%3d. %s\n", i+1, w)
		}
	}

	return nil
}

// printProgress writes engine progress to the console, with a summary line at every milestone.
func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.Complete:
		return
	case tasks.LookupWords:
		r.writePlain("%s\n", update.Message)
		if update.Milestone {
			r.writePlain("Progress: %d/%d processed, %d successful, %d errors\n",
				update.Step, update.Total, update.Succeeded, update.Failed)
		}
	default:
		r.writePlain("%s\n", update.Message)
	}
}
