package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vocx/internal/formatter"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/shared"
	"github.com/desertthunder/vocx/internal/tasks"
)

// maxRecent is the number of word outcomes shown while syncing.
const maxRecent = 6

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlanningView ViewState = iota
	PlanView
	ConfirmView
	SyncView
	ResultView
)

// Syncer plans and runs a sync. [tasks.SyncEngine] satisfies it.
type Syncer interface {
	Plan(ctx context.Context, progress tasks.ProgressFunc) (*models.Plan, error)
	Run(ctx context.Context, plan *models.Plan, progress tasks.ProgressFunc) (*models.RunReport, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	cancel    context.CancelFunc
	view      ViewState
	syncer    Syncer
	targetURL string
	width     int
	height    int
	wordList  list.Model
	plan      *models.Plan
	events    chan Msg
	progress  tasks.ProgressUpdate
	recent    []string
	spinner   spinner.Model
	bar       progress.Model
	report    *models.RunReport
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model. targetURL is shown on the result view when non-empty.
func NewModel(ctx context.Context, syncer Syncer, targetURL string) *Model {
	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.spinner

	return &Model{
		ctx:       ctx,
		cancel:    cancel,
		view:      PlanningView,
		syncer:    syncer,
		targetURL: targetURL,
		spinner:   s,
		bar:       progress.New(progress.WithDefaultGradient()),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, syncer Syncer, targetURL string) error {
	m := NewModel(ctx, syncer, targetURL)
	defer m.cancel()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}

// Init starts planning.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchPlan())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-8, 10)
		if m.plan != nil {
			m.wordList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case spinner.TickMsg:
		if m.view != PlanningView && m.view != SyncView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.view {
		case PlanningView, SyncView:
			if key.Matches(msg, m.keys.quit) {
				m.cancel()
				return m, tea.Quit
			}
			return m, nil
		case PlanView:
			return m.handlePlanKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlanReady:
		res := msg.data.(planResult)
		m.plan = res.plan
		m.err = res.err
		if res.err != nil {
			m.view = ResultView
			return m, nil
		}
		m.wordList = list.New(worklistItems(res.plan.Worklist), list.NewDefaultDelegate(), m.width-4, m.height-8)
		m.wordList.Title = fmt.Sprintf("%d new words (%d candidates, %d already in target)",
			len(res.plan.Worklist), len(res.plan.Candidates), len(res.plan.Existing))
		m.view = PlanView
		return m, nil

	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		m.progress = update
		if _, ok := update.Data.(tasks.WordOutcome); ok {
			m.recent = append(m.recent, update.Message)
			if len(m.recent) > maxRecent {
				m.recent = m.recent[len(m.recent)-maxRecent:]
			}
		}
		return m, m.waitForEvent()

	case MsgSyncComplete:
		res := msg.data.(syncResult)
		m.report = res.report
		m.err = res.err
		m.events = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PlanningView:
		return fmt.Sprintf("%s Reading source ranges and target words...\n\n%s",
			m.spinner.View(), m.helpView())
	case PlanView:
		return m.renderPlan()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlanKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.wordList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.wordList, cmd = m.wordList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		return m, m.replan()
	case key.Matches(msg, m.keys.sync):
		if len(m.plan.Worklist) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.wordList, cmd = m.wordList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = PlanView
		return m, nil
	case key.Matches(msg, m.keys.yes):
		m.view = SyncView
		return m, tea.Batch(m.spinner.Tick, m.startSync())
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		return m, m.replan()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != PlanView {
		return m, nil
	}
	var cmd tea.Cmd
	m.wordList, cmd = m.wordList.Update(msg)
	return m, cmd
}

func (m *Model) replan() tea.Cmd {
	m.view = PlanningView
	m.plan = nil
	m.report = nil
	m.err = nil
	m.recent = nil
	m.progress = tasks.ProgressUpdate{}
	return tea.Batch(m.spinner.Tick, m.fetchPlan())
}

func (m *Model) fetchPlan() tea.Cmd {
	ctx, syncer := m.ctx, m.syncer
	return func() tea.Msg {
		plan, err := syncer.Plan(ctx, nil)
		return planReadyMsg(plan, err)
	}
}

// startSync runs the engine in the background; its progress callback feeds m.events.
// The final message is always a [MsgSyncComplete] and the channel is closed after it.
func (m *Model) startSync() tea.Cmd {
	events := make(chan Msg, 50)
	m.events = events
	ctx, syncer, plan := m.ctx, m.syncer, m.plan

	go func() {
		defer close(events)
		report, err := syncer.Run(ctx, plan, func(u tasks.ProgressUpdate) {
			select {
			case events <- progressUpdateMsg(u):
			case <-ctx.Done():
			}
		})
		select {
		case events <- syncCompleteMsg(report, err):
		case <-ctx.Done():
			// The program may already be gone; deliver only if there is room.
			select {
			case events <- syncCompleteMsg(report, err):
			default:
			}
		}
	}()

	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) renderPlan() string {
	if len(m.plan.Worklist) == 0 {
		msg := styles.added.Render("✓ Target is up to date, no new words to sync.")
		return fmt.Sprintf("%s\n\n%s", msg, m.helpView())
	}

	var warn string
	if failed := failedRanges(m.plan); failed > 0 {
		warn = "\n" + styles.warn.Render(fmt.Sprintf("%d source range(s) could not be read", failed))
	}
	return fmt.Sprintf("%s%s\n\n%s", m.wordList.View(), warn, m.helpView())
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Sync %d new words to the target?", len(m.plan.Worklist)))
	info := fmt.Sprintf("Candidates: %d\nAlready in target: %d\nNew words: %d\n",
		len(m.plan.Candidates), len(m.plan.Existing), len(m.plan.Worklist))

	return fmt.Sprintf("%s\n%s\n%s", title, info, m.helpView())
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Vocabulary")

	var phase string
	switch m.progress.Phase {
	case tasks.LookupWords:
		phase = fmt.Sprintf("Looking up words (%d/%d) · %d successful, %d errors",
			m.progress.Step, m.progress.Total, m.progress.Succeeded, m.progress.Failed)
	default:
		phase = "Starting..."
	}

	var pct float64
	if m.progress.Total > 0 {
		pct = float64(m.progress.Step) / float64(m.progress.Total)
	}

	var b strings.Builder
	for _, line := range m.recent {
		b.WriteString("\n  " + styles.outcome(line))
	}

	return fmt.Sprintf("%s\n%s %s\n\n%s\n%s\n\n%s",
		title, m.spinner.View(), styles.dim.Render(phase), m.bar.ViewAs(pct), b.String(), m.helpView())
}

func (m *Model) renderResult() string {
	helpView := m.helpView()

	if m.report == nil {
		if errors.Is(m.err, shared.ErrNoCandidates) {
			return styles.failed.Render("No candidate words found in the source ranges.") + "\n\n" + helpView
		}
		return styles.failed.Render(fmt.Sprintf("Sync failed: %v", m.err)) + "\n\n" + helpView
	}

	title := styles.added.Render("✓ Sync Complete!")
	if m.report.Canceled {
		title = styles.warn.Render("Sync interrupted")
	} else if m.report.Failed > 0 {
		title = styles.warn.Render(fmt.Sprintf("Sync finished with %d errors", m.report.Failed))
	}

	summary, err := formatter.ReportToText(m.report, m.targetURL)
	if err != nil {
		return styles.failed.Render(err.Error()) + "\n\n" + helpView
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, summary, helpView)
}

func (m *Model) helpView() string {
	var worklist int
	if m.plan != nil {
		worklist = len(m.plan.Worklist)
	}
	return m.help.ShortHelpView(m.keys.bindings(m.view, worklist))
}

func failedRanges(plan *models.Plan) int {
	var n int
	for _, r := range plan.Ranges {
		if r.Failed() {
			n++
		}
	}
	return n
}
