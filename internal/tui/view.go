package tui

import (
	"fmt"
	"strings"
	"time"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.snapshot

	var b strings.Builder
	mode := "Stopwatch"
	if snap.Countdown {
		mode = "Countdown"
	}
	title := fmt.Sprintf("%s · %s", m.opts.Habit.Name, mode)
	if m.opts.Day != nil {
		title += " · " + m.opts.Day.Format("Mon Jan 2")
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if snap.Countdown {
		b.WriteString(clockStyle.Render(FormatDuration(snap.Remaining())))
		b.WriteString("\n")
		b.WriteString(m.progress.ViewAs(snap.Fraction()))
		b.WriteString("\n")
	} else {
		b.WriteString(clockStyle.Render(FormatDuration(snap.Elapsed)))
		b.WriteString("\n")
	}

	state := "paused"
	if snap.Running {
		state = "running"
	}
	if snap.Alarming {
		state = "finished"
	}
	b.WriteString(mutedStyle.Render(state))
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.warning != "" {
		b.WriteString(warningStyle.Render(m.warning))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return docStyle.Render(b.String())
}

// FormatDuration renders d as MM:SS, or H:MM:SS from one hour up.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
