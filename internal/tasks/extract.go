package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/services"
	"github.com/desertthunder/vocx/internal/shared"
	"github.com/desertthunder/vocx/internal/words"
)

// Extraction is the result of scanning every configured source range.
type Extraction struct {
	Words  []string           `json:"words"`  // unique candidates in first-seen order
	Ranges []models.RangeStat `json:"ranges"` // one entry per configured range, in order
}

// FailedRanges returns the number of ranges that could not be read.
func (x *Extraction) FailedRanges() int {
	n := 0
	for _, r := range x.Ranges {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Extractor collects candidate words from bounded ranges of a source spreadsheet.
type Extractor struct {
	source services.RangeReader
	ranges []models.CellRange
	filter words.Filter
	logger *log.Logger
}

// NewExtractor creates an Extractor over ranges, scanned in the given order.
func NewExtractor(source services.RangeReader, ranges []models.CellRange, filter words.Filter, logger *log.Logger) *Extractor {
	return &Extractor{source: source, ranges: ranges, filter: filter, logger: logger}
}

// Extract reads every range and returns the deduplicated candidates.
//
// A range that fails to read is logged and contributes no words; the remaining ranges are still read.
func (x *Extractor) Extract(ctx context.Context, progress ProgressFunc) *Extraction {
	result := &Extraction{Ranges: make([]models.RangeStat, 0, len(x.ranges))}
	var all []string
	total := len(x.ranges)

	for i, r := range x.ranges {
		emit(progress, extractRangeUpdate(i+1, total, r))
		stat := models.RangeStat{Range: r}

		rows, err := x.source.ReadRange(ctx, r)
		if err != nil {
			stat.Err = fmt.Errorf("%w: %s: %w", shared.ErrRangeRead, r.A1(), err)
			x.logger.Warn("range read failed", "range", r.A1(), "error", err)
			result.Ranges = append(result.Ranges, stat)
			emit(progress, rangeDoneUpdate(i+1, total, stat))
			continue
		}

		for _, row := range rows {
			for _, cell := range row {
				stat.CellsScanned++
				if !x.filter.IsCandidate(cell) {
					continue
				}
				all = append(all, shared.NormalizeWord(cell))
				stat.WordsFound++
			}
		}

		x.logger.Debug("range processed", "range", r.A1(), "cells", stat.CellsScanned, "words", stat.WordsFound)
		result.Ranges = append(result.Ranges, stat)
		emit(progress, rangeDoneUpdate(i+1, total, stat))
	}

	result.Words = words.Dedupe(all)
	return result
}
