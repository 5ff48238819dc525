package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/desertthunder/vocx/internal/formatter"
	"github.com/desertthunder/vocx/internal/shared"
	"github.com/desertthunder/vocx/internal/tasks"
	"github.com/desertthunder/vocx/internal/words"
	"github.com/urfave/cli/v3"
)

// WordsExtract prints the candidate words found in the source ranges.
func (r *Runner) WordsExtract(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	source, err := r.sourceReader(ctx)
	if err != nil {
		return err
	}

	opts := r.engineOptions()
	extraction := tasks.NewExtractor(source, opts.Ranges, opts.Filter, r.logger).Extract(ctx, nil)

	if cmd.Bool("json") {
		return r.writeJSON(extraction, cmd.Bool("pretty"))
	}

	for i, stat := range extraction.Ranges {
		if stat.Failed() {
			r.writePlain("Range %d (%s): failed: %v\n", i+1, stat.Range.A1(), stat.Err)
			continue
		}
		r.writePlain("Range %d (%s): %d words\n", i+1, stat.Range.A1(), stat.WordsFound)
	}
	r.writePlainln("%d unique words", len(extraction.Words))
	for _, w := range extraction.Words {
		r.writePlain("%s\n", w)
	}

	if len(extraction.Words) == 0 {
		return shared.ErrNoCandidates
	}
	return nil
}

// WordsExisting prints the words already present in the target, sorted.
func (r *Runner) WordsExisting(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}
	defer r.Close()

	target, err := r.targetStore(ctx)
	if err != nil {
		return err
	}

	existing := slices.Sorted(maps.Keys(tasks.NewStateReader(target, r.logger).Existing(ctx)))

	if cmd.Bool("json") {
		return r.writeJSON(existing, cmd.Bool("pretty"))
	}

	r.writePlain("%d words in target\n", len(existing))
	for _, w := range existing {
		r.writePlain("%s\n", w)
	}
	return nil
}

// Lookup fetches a single word from the dictionary without writing anything.
func (r *Runner) Lookup(ctx context.Context, cmd *cli.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	word := strings.TrimSpace(cmd.StringArg("word"))
	if word == "" {
		return fmt.Errorf("%w: word", shared.ErrMissingArgument)
	}
	filter := words.Filter{ASCIIOnly: r.config.Sync.ASCIIOnly}
	if !filter.IsCandidate(word) {
		r.logger.Warn("word would not be picked up from the source", "word", word)
	}

	record, err := r.dictionaryService().Lookup(ctx, word)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(record, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.RecordToText(record))
}
