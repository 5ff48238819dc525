package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vocx/internal/shared"
	"github.com/desertthunder/vocx/internal/ui"
	"github.com/desertthunder/vocx/internal/words"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive sync dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	defer r.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	syncer, err := r.newSync(ctx, words.Split(cmd.String("words")), true)
	if err != nil {
		return err
	}

	return ui.Run(ctx, syncer, r.config.TargetURL())
}
