package tasks

import (
	"fmt"

	"github.com/desertthunder/vocx/internal/models"
)

// ProgressUpdate represents a progress event during a sync.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase     Phase  // Operation phase
	Step      int    // Current step number within phase
	Total     int    // Total steps in this phase
	Message   string // Human-readable message for display
	Succeeded int    // Words written so far (Lookup phase)
	Failed    int    // Words failed so far (Lookup phase)
	Milestone bool   // Set every Options.ProgressEvery processed words
	Data      any    // Optional phase-specific data for advanced UIs
}

// ProgressFunc receives progress updates synchronously. It must not block for long.
type ProgressFunc func(ProgressUpdate)

// WordOutcome is attached to Lookup phase updates.
type WordOutcome struct {
	Word    string
	Record  *models.Record
	Failure *models.FailedWord
}

// Operation phase enumeration
type Phase int

const (
	ExtractRanges Phase = iota
	ReadExisting
	EnsureHeaders
	LookupWords
	Complete
)

func (p Phase) String() string {
	switch p {
	case ExtractRanges:
		return "extract_ranges"
	case ReadExisting:
		return "read_existing"
	case EnsureHeaders:
		return "ensure_headers"
	case LookupWords:
		return "lookup_words"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func emit(progress ProgressFunc, update ProgressUpdate) {
	if progress != nil {
		progress(update)
	}
}

func extractRangeUpdate(step, total int, r models.CellRange) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractRanges,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Processing range %d: %s", step, r.A1()),
	}
}

func rangeDoneUpdate(step, total int, stat models.RangeStat) ProgressUpdate {
	msg := fmt.Sprintf("Range %d processed (%d words)", step, stat.WordsFound)
	if stat.Err != nil {
		msg = fmt.Sprintf("Range %d failed: %v", step, stat.Err)
	}
	return ProgressUpdate{
		Phase:   ExtractRanges,
		Step:    step,
		Total:   total,
		Message: msg,
		Data:    stat,
	}
}

func existingUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ReadExisting,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Words already in target: %d", count),
	}
}

func headerUpdate(written bool) ProgressUpdate {
	msg := "Target already has headers"
	if written {
		msg = "Headers added to target"
	}
	return ProgressUpdate{Phase: EnsureHeaders, Step: 1, Total: 1, Message: msg}
}

func fetchingWordUpdate(step, total int, word string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LookupWords,
		Step:    step - 1,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching: %s", step, total, word),
	}
}

func wordDoneUpdate(step, total int, report *models.RunReport, outcome WordOutcome, every int) ProgressUpdate {
	var msg string
	switch {
	case outcome.Failure == nil:
		msg = fmt.Sprintf("[%d/%d] ✓ %s", step, total, outcome.Word)
	case outcome.Failure.Reason == models.ReasonAppendFailed:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: write failed", step, total, outcome.Word)
	default:
		msg = fmt.Sprintf("[%d/%d] ✗ %s: skipped (%s)", step, total, outcome.Word, outcome.Failure.Reason)
	}

	return ProgressUpdate{
		Phase:     LookupWords,
		Step:      step,
		Total:     total,
		Message:   msg,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
		Milestone: every > 0 && step%every == 0,
		Data:      outcome,
	}
}

func completeUpdate(report *models.RunReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:     Complete,
		Step:      report.Processed,
		Total:     report.Worklist,
		Message:   fmt.Sprintf("%d successful, %d errors out of %d words", report.Succeeded, report.Failed, report.Worklist),
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
		Data:      report,
	}
}
