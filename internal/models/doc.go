// Package models defines the entities that flow through a vocabulary sync.
//
// Transient values:
//   - [Record] : an enriched word ready to be written as one target row
//   - [CellRange] : a 1-based rectangle of source cells, rendered in A1 notation
//   - [RangeStat] : the outcome of reading a single source range
//   - [Plan] : the candidates, existing words and worklist computed before a run
//
// Persisted values:
//   - [RunReport] : counters and failed words for one sync run
//   - [FailedWord] : a word that produced no record, with its reason
//   - [SyncRun] : a run as stored in the history database
package models
