package models

import (
	"fmt"
	"strings"
	"time"
)

// Record is one enriched vocabulary entry. Only Word is required; missing fields are empty strings.
type Record struct {
	Word         string `json:"word"`
	PartOfSpeech string `json:"pos"`
	Meaning      string `json:"meaning"`
	Example      string `json:"example"`
	Synonyms     string `json:"similar_word"`
}

// Row returns the record as target cells in header order: word, pos, meaning, example, similar word.
func (r Record) Row() []string {
	return []string{r.Word, r.PartOfSpeech, r.Meaning, r.Example, r.Synonyms}
}

// RecordFromRow is the inverse of [Record.Row]. Missing cells become empty strings.
func RecordFromRow(row []string) Record {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Record{Word: cell(0), PartOfSpeech: cell(1), Meaning: cell(2), Example: cell(3), Synonyms: cell(4)}
}

// CellRange is an inclusive rectangle of cells with 1-based rows and columns.
type CellRange struct {
	StartRow int `json:"start_row"`
	EndRow   int `json:"end_row"`
	StartCol int `json:"start_col"`
	EndCol   int `json:"end_col"`
}

// A1 renders the range in A1 notation, e.g. "A4:S33".
func (c CellRange) A1() string {
	return fmt.Sprintf("%s%d:%s%d", ColumnName(c.StartCol), c.StartRow, ColumnName(c.EndCol), c.EndRow)
}

// Rows returns the number of rows covered by the range.
func (c CellRange) Rows() int { return c.EndRow - c.StartRow + 1 }

// Cols returns the number of columns covered by the range.
func (c CellRange) Cols() int { return c.EndCol - c.StartCol + 1 }

func (c CellRange) String() string { return c.A1() }

// ColumnName converts a 1-based column index to its letter name (1 → A, 27 → AA).
func ColumnName(col int) string {
	if col < 1 {
		return ""
	}
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

// QualifiedRange prefixes an A1 range with a sheet name when one is set.
func QualifiedRange(sheet, a1 string) string {
	if sheet == "" {
		return a1
	}
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), a1)
}

// RangeStat records what one source range contributed to an extraction.
type RangeStat struct {
	Range        CellRange `json:"range"`
	CellsScanned int       `json:"cells_scanned"`
	WordsFound   int       `json:"words_found"`
	Err          error     `json:"-"`
}

// Failed reports whether the range could not be read.
func (s RangeStat) Failed() bool { return s.Err != nil }

// Plan is the result of the read-only half of a sync: what would be looked up and why.
type Plan struct {
	Candidates []string            `json:"candidates"`
	Existing   map[string]struct{} `json:"-"`
	Worklist   []string            `json:"worklist"`
	Ranges     []RangeStat         `json:"ranges"`
}

// Failure reasons recorded on [FailedWord].
const (
	ReasonNotFound     = "not_found"
	ReasonLookupFailed = "lookup_failed"
	ReasonAppendFailed = "append_failed"
)

// FailedWord is a worklist entry that did not produce a written record.
type FailedWord struct {
	Position int    `json:"position"` // 1-based index in the worklist
	Word     string `json:"word"`
	Reason   string `json:"reason"`
	Detail   string `json:"detail,omitempty"`
}

// RunReport summarizes a sync run.
type RunReport struct {
	RunID      string       `json:"run_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Candidates int          `json:"candidates"`
	Existing   int          `json:"existing"`
	Worklist   int          `json:"worklist"`
	Processed  int          `json:"processed"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Failures   []FailedWord `json:"failures"`
	Canceled   bool         `json:"canceled,omitempty"`
}

// TotalInTarget is the number of words the target holds after the run.
func (r *RunReport) TotalInTarget() int {
	return r.Existing + r.Succeeded
}

// Duration returns how long the run took, or zero if it has not finished.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FailedWords lists the words that failed, in worklist order.
func (r *RunReport) FailedWords() []string {
	out := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		out[i] = f.Word
	}
	return out
}

// Run status values stored in the history database.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// SyncRun is a persisted sync run.
type SyncRun struct {
	ID         string       `json:"id"`
	Status     string       `json:"status"`
	TargetKind string       `json:"target_kind"`
	Candidates int          `json:"candidates"`
	Existing   int          `json:"existing"`
	Worklist   int          `json:"worklist"`
	Processed  int          `json:"processed"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
	Failures   []FailedWord `json:"failures,omitempty"`
}

// Validate checks that the run can be stored.
func (r *SyncRun) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("run id is required")
	}
	switch r.Status {
	case RunRunning, RunCompleted, RunFailed:
	default:
		return fmt.Errorf("unknown run status %q", r.Status)
	}
	return nil
}
