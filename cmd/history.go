package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vocx/internal/server"
	"github.com/desertthunder/vocx/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList lists recent sync runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	defer r.Close()

	runs, err := r.history()
	if err != nil {
		return err
	}

	list, err := runs.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, cmd.Bool("pretty"))
	}

	if len(list) == 0 {
		return r.writePlain("No sync runs recorded yet\n")
	}

	r.writePlain("%-8s  %-9s  %-6s  %-19s  %s\n", "ID", "STATUS", "TARGET", "STARTED", "RESULT")
	for _, run := range list {
		r.writePlain("%-8s  %-9s  %-6s  %-19s  %d/%d ok, %d failed\n",
			shortID(run.ID), run.Status, run.TargetKind, run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Succeeded, run.Worklist, run.Failed)
	}
	return nil
}

// HistoryShow prints one run with its failed words. The ID may be a unique prefix.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	defer r.Close()

	runs, err := r.history()
	if err != nil {
		return err
	}

	run, err := runs.Get(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(run, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Run %s", run.ID))
	r.writePlain("Status: %s\n", run.Status)
	r.writePlain("Target: %s\n", run.TargetKind)
	r.writePlain("Started: %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		r.writePlain("Duration: %s\n", shared.FormatDuration(run.FinishedAt.Sub(run.StartedAt)))
	}
	if run.Error != "" {
		r.writePlain("Error: %s\n", run.Error)
	}
	r.writePlain("Candidates: %d, already in target: %d, new: %d\n", run.Candidates, run.Existing, run.Worklist)
	r.writePlain("Processed: %d (%d successful, %d errors)\n", run.Processed, run.Succeeded, run.Failed)

	if len(run.Failures) > 0 {
		r.writePlainln("Failed Words (%d):", len(run.Failures))
		for i, f := range run.Failures {
			r.writePlain("%2d. %s (%s)\n", i+1, f.Word, f.Reason)
		}
	}
	return nil
}

// HistoryFailed prints the failed words of a run, one per line, ready for `sync run --words`.
func (r *Runner) HistoryFailed(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	defer r.Close()

	runs, err := r.history()
	if err != nil {
		return err
	}

	run, err := runs.Get(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	for _, f := range run.Failures {
		r.writePlain("%s\n", f.Word)
	}
	return nil
}

// HistoryServe serves run history as a read-only JSON API until interrupted.
func (r *Runner) HistoryServe(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	defer r.Close()

	runs, err := r.history()
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	return server.Serve(ctx, cmd.String("addr"), server.NewHistoryRouter(runs, logger), logger)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
