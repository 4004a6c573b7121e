package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/kv"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/notifier"
	"github.com/julianstephens/tally/internal/reminders"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/tracker"
)

type Context struct {
	Store     storage.Provider
	Kind      storage.Kind
	Clock     clock.Clock
	ConfigDir string
	Out       io.Writer

	tracker *tracker.Tracker
}

// Tracker loads the store and opens the session on first use.
func (c *Context) Tracker() (*tracker.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	if err := c.Store.Load(); err != nil {
		return nil, err
	}
	seedPath := filepath.Join(c.ConfigDir, constants.DefaultHabitsFileName)
	c.tracker = tracker.New(c.Store, c.Clock, func() []models.Habit {
		return config.LoadTemplates(seedPath)
	})
	return c.tracker, nil
}

// Reminders builds a reminder manager delivering through the tray app.
func (c *Context) Reminders() (*reminders.Manager, error) {
	t, err := c.Tracker()
	if err != nil {
		return nil, err
	}
	return reminders.NewManager(kv.New(c.Store), t.Service(), notifier.New(), c.Clock), nil
}

// PerformAutomaticBackup snapshots sqlite stores and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if c.Kind != storage.KindSQLite {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// ReportOutcome prints any achievements and gems a mutation earned.
func (c *Context) ReportOutcome(out tracker.Outcome) {
	for _, a := range out.Unlocked {
		c.Println(AchievementStyle.Render("🏆 Achievement unlocked: " + a.Title))
	}
	if out.GemsAwarded > 0 {
		c.Println(AchievementStyle.Render(fmt.Sprintf("💎 +%d gem%s", out.GemsAwarded, plural(out.GemsAwarded))))
	}
}

// ParseDay parses a YYYY-MM-DD date as the start of that day on c. An empty
// string means today.
func ParseDay(c clock.Clock, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return clock.Today(c), nil
	}
	loc := c.Now().Location()
	t, err := time.ParseInLocation(constants.DateFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return c.StartOfDay(t), nil
}

// FormatPoints renders a signed point value.
func FormatPoints(points int) string {
	if points > 0 {
		return PositiveStyle.Render(fmt.Sprintf("+%d", points))
	}
	if points < 0 {
		return NegativeStyle.Render(fmt.Sprintf("%d", points))
	}
	return MutedStyle.Render("0")
}

// FormatQuantity renders a quantity like "30 minutes", or "" when unset.
func FormatQuantity(q models.Quantity) string {
	if q.IsZero() {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", q.Value, q.Unit))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
