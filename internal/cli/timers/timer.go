package timers

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/notifier"
	"github.com/julianstephens/tally/internal/timer"
	"github.com/julianstephens/tally/internal/tui"
)

type TimerCmd struct {
	Name      string `arg:"" help:"Habit to time."`
	Countdown bool   `short:"c" help:"Count down from the habit's quantity instead of counting up."`
	Date      string `help:"Record saved sessions on this day (YYYY-MM-DD)." default:""`
}

func (c *TimerCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	habit, err := t.Service().FindTemplate(c.Name)
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	if c.Countdown && habit.Quantity.Seconds() <= 0 {
		ctx.Println(cli.WarningStyle.Render(habit.Name + " has no quantity; starting a stopwatch instead."))
	}

	opts := tui.Options{
		Habit:     habit,
		Countdown: c.Countdown,
		Outcome:   t.TakeOutcome,
		Notifier:  notifier.New(),
	}
	if c.Date != "" {
		day, err := cli.ParseDay(ctx.Clock, c.Date)
		if err != nil {
			return err
		}
		opts.Day = &day
	}

	finished := make(chan models.Habit, 1)
	scheduler := timer.TickerScheduler{}
	session := timer.New(timer.Config{
		Clock:     ctx.Clock,
		Recorder:  t,
		Scheduler: scheduler,
		Alarm: timer.NewRepeatingAlarm(scheduler, constants.AlarmRingInterval, func() {
			fmt.Fprint(os.Stderr, "\a")
		}),
		OnFinished: func(h models.Habit) {
			select {
			case finished <- h:
			default:
			}
		},
	})
	defer session.Reset()
	opts.Session = session
	opts.Finished = finished

	final, err := tea.NewProgram(tui.NewModel(opts)).Run()
	if err != nil {
		return fmt.Errorf("timer screen failed: %w", err)
	}

	saved := final.(tui.Model).Saved()
	total := 0
	for _, s := range saved {
		total += s.Habit.Points
	}
	if len(saved) > 0 {
		ctx.Printf("Saved %d session(s) of %s for %s points\n", len(saved), habit.Name, cli.FormatPoints(total))
	}
	ctx.ReportOutcome(t.TakeOutcome())
	return nil
}
