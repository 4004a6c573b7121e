// Package tui renders the interactive timer screen for a single habit.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/timer"
	"github.com/julianstephens/tally/internal/tracker"
)

// Session is what the timer screen drives. *timer.Timer implements it.
type Session interface {
	Start(habit *models.Habit, day *time.Time)
	StartCountdown(habit *models.Habit, day *time.Time)
	Resume()
	Stop()
	Reset()
	Save() (models.Completion, bool)
	SaveAndRestart() (models.Completion, bool)
	Snapshot() timer.Snapshot
}

type Notifier interface {
	Notify(text string) error
}

type Options struct {
	Session   Session
	Habit     models.Habit
	Day       *time.Time
	Countdown bool
	// Finished receives the habit when a countdown completes.
	Finished <-chan models.Habit
	// Outcome drains rewards earned by saved sessions.
	Outcome  func() tracker.Outcome
	Notifier Notifier
}

type Model struct {
	opts     Options
	keys     KeyMap
	help     help.Model
	progress progress.Model

	snapshot timer.Snapshot
	status   string
	warning  string
	saved    []models.Completion
	quitting bool
}

type tickMsg time.Time

type finishedMsg models.Habit

type notifyErrMsg struct{ err error }

func NewModel(opts Options) Model {
	return Model{
		opts:     opts,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// Saved returns the completions recorded during the session.
func (m Model) Saved() []models.Completion {
	return m.saved
}

func (m Model) Init() tea.Cmd {
	m.begin()
	return tea.Batch(tick(), m.waitForFinish())
}

func (m Model) begin() {
	h := m.opts.Habit
	if m.opts.Countdown {
		m.opts.Session.StartCountdown(&h, m.opts.Day)
	} else {
		m.opts.Session.Start(&h, m.opts.Day)
	}
}

func tick() tea.Cmd {
	return tea.Tick(constants.TimerTickInterval/4, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForFinish() tea.Cmd {
	if m.opts.Finished == nil {
		return nil
	}
	ch := m.opts.Finished
	return func() tea.Msg {
		h, ok := <-ch
		if !ok {
			return nil
		}
		return finishedMsg(h)
	}
}

func (m Model) notify(text string) tea.Cmd {
	if m.opts.Notifier == nil {
		return nil
	}
	n := m.opts.Notifier
	return func() tea.Msg {
		if err := n.Notify(text); err != nil {
			return notifyErrMsg{err: err}
		}
		return nil
	}
}
