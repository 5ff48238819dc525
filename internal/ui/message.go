package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlanReady MsgKind = iota
	MsgProgressUpdate
	MsgSyncComplete
)

type planResult struct {
	plan *models.Plan
	err  error
}

type syncResult struct {
	report *models.RunReport
	err    error
}

// planReadyMsg is the constructor for [MsgPlanReady]
func planReadyMsg(plan *models.Plan, err error) Msg {
	return Msg{kind: MsgPlanReady, data: planResult{plan: plan, err: err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// syncCompleteMsg is the constructor for [MsgSyncComplete]
func syncCompleteMsg(report *models.RunReport, err error) Msg {
	return Msg{kind: MsgSyncComplete, data: syncResult{report: report, err: err}}
}
