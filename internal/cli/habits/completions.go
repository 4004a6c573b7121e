package habits

import (
	"fmt"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/clock"
	apperrors "github.com/julianstephens/tally/internal/errors"
)

type DoneCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, err := t.Service().FindTemplate(c.Name)
	if err != nil {
		return err
	}
	day, err := cli.ParseDay(ctx.Clock, c.Date)
	if err != nil {
		return err
	}

	t.CompleteAt(h, clock.OnDay(ctx.Clock, day, ctx.Clock.Now()))
	ctx.Printf("%s %s %s\n", cli.SuccessStyle.Render("✓"), h.Name, cli.FormatPoints(h.Points))
	ctx.Printf("Today: %d / %d points\n", t.Service().TotalPointsToday(), t.Service().DailyTarget())
	ctx.ReportOutcome(t.TakeOutcome())
	return nil
}

type UndoneCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *UndoneCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	// Timer sessions record habits under fresh ids, so match by name and
	// take the newest.
	completions := t.Service().CompletionsNamed(c.Name)
	if len(completions) == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrCompletionAbsent, c.Name)
	}
	removed, err := t.Remove(completions[0].Habit)
	if err != nil {
		return err
	}
	ctx.Printf("Removed completion of %s from %s. Run 'tally undo' to restore it.\n",
		removed.Habit.Name, removed.At.Format("2006-01-02 15:04"))
	return nil
}

type UndoCmd struct{}

func (c *UndoCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	restored, err := t.Undo()
	if err != nil {
		return err
	}
	ctx.Printf("Restored %s at %s\n", restored.Habit.Name, restored.At.Format("2006-01-02 15:04"))
	ctx.ReportOutcome(t.TakeOutcome())
	return nil
}
