package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snapshot = m.opts.Session.Snapshot()
		return m, tick()

	case finishedMsg:
		m.snapshot = m.opts.Session.Snapshot()
		m.status = fmt.Sprintf("%s finished!", msg.Name)
		return m, tea.Batch(m.notify(fmt.Sprintf("%s timer finished", msg.Name)), m.waitForFinish())

	case notifyErrMsg:
		logger.Debug("Timer notification not delivered", "error", msg.err)
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.progress.Width = min(msg.Width-4, 60)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.warning = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.opts.Session.Stop()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Toggle):
		snap := m.opts.Session.Snapshot()
		switch {
		case snap.Running:
			m.opts.Session.Stop()
			m.status = "Paused"
		case snap.Countdown && snap.Elapsed >= snap.Target:
			m.begin()
			m.status = "Restarted"
		default:
			m.opts.Session.Resume()
			m.status = "Running"
		}

	case key.Matches(msg, m.keys.Save):
		wasRunning := m.opts.Session.Snapshot().Running
		c, ok := m.opts.Session.Save()
		if !ok {
			if wasRunning {
				m.opts.Session.Resume()
			}
			m.warning = "Nothing to save yet"
			break
		}
		m.opts.Session.Reset()
		m.recordSaved(c)
		m.begin()
		m.opts.Session.Stop()

	case key.Matches(msg, m.keys.SaveRestart):
		if m.opts.Session.Snapshot().Elapsed <= 0 {
			m.warning = "Nothing to save yet"
			break
		}
		c, ok := m.opts.Session.SaveAndRestart()
		if !ok {
			break
		}
		m.recordSaved(c)

	case key.Matches(msg, m.keys.Reset):
		m.opts.Session.Reset()
		m.begin()
		m.opts.Session.Stop()
		m.status = "Reset"
	}

	m.snapshot = m.opts.Session.Snapshot()
	return m, nil
}

func (m *Model) recordSaved(c models.Completion) {
	m.saved = append(m.saved, c)
	m.status = fmt.Sprintf("Saved %s: %d points, %d minutes", c.Habit.Name, c.Habit.Points, c.Habit.Quantity.Value)
	if m.opts.Outcome == nil {
		return
	}
	out := m.opts.Outcome()
	for _, a := range out.Unlocked {
		m.status += " · 🏆 " + a.Title
	}
	if out.GemsAwarded > 0 {
		m.status += fmt.Sprintf(" · 💎 +%d", out.GemsAwarded)
	}
}
