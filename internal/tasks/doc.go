// Package tasks orchestrates a vocabulary sync with real-time progress reporting.
//
// # Pipeline
//
// A run has two halves. The read-only half builds a [models.Plan]:
//
//  1. [Extractor] : reads each configured source range, keeps cells accepted by the word filter,
//     lowercases them and removes duplicates in first-seen order. A failing range is logged and skipped.
//  2. [StateReader] : reads column 1 of the target below the header. A failure yields an empty set.
//  3. The worklist is the candidates minus the existing words, order preserved.
//
// The write half, [SyncEngine.Run], walks the worklist sequentially:
//   - each word is looked up once; a missing or failed lookup is recorded as a failure
//   - a record is appended to the target; a failed append is recorded as a failure
//   - the [Pacer] waits the configured interval before the next word
//
// [SyncEngine.EnsureHeader] writes the header row into an empty target and never overwrites one.
//
// # Progress Reporting
//
// Operations accept a [ProgressFunc] called synchronously with [ProgressUpdate] values. Lookup phase updates
// carry a [WordOutcome] and flag a milestone every Options.ProgressEvery words.
package tasks
