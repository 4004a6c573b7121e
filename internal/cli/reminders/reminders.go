package reminders

import (
	"github.com/julianstephens/tally/internal/cli"
)

type RemindCmd struct {
	Set   RemindSetCmd   `cmd:"" help:"Set a daily reminder for a habit."`
	Clear RemindClearCmd `cmd:"" help:"Remove a habit's reminder."`
	List  RemindListCmd  `cmd:"" help:"List reminders." default:"1"`
	Run   RemindRunCmd   `cmd:"" help:"Send notifications for reminders that are due."`
}

type RemindSetCmd struct {
	Name string `arg:"" help:"Habit name."`
	Time string `arg:"" help:"Time of day (HH:MM)."`
}

func (c *RemindSetCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, err := t.Service().FindTemplate(c.Name)
	if err != nil {
		return err
	}
	mgr, err := ctx.Reminders()
	if err != nil {
		return err
	}
	if err := mgr.Set(h.ID, c.Time); err != nil {
		return err
	}
	ctx.Printf("Reminder for %s set at %s\n", h.Name, c.Time)
	return nil
}

type RemindClearCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *RemindClearCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, err := t.Service().FindTemplate(c.Name)
	if err != nil {
		return err
	}
	mgr, err := ctx.Reminders()
	if err != nil {
		return err
	}
	if err := mgr.Clear(h.ID); err != nil {
		return err
	}
	ctx.Printf("Reminder for %s cleared\n", h.Name)
	return nil
}

type RemindListCmd struct{}

func (c *RemindListCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.Reminders()
	if err != nil {
		return err
	}
	list := mgr.List()
	if len(list) == 0 {
		ctx.Println("No reminders set.")
		return nil
	}
	for _, r := range list {
		fired := ""
		if r.FiredOn != "" {
			fired = cli.MutedStyle.Render(" last sent " + r.FiredOn)
		}
		ctx.Printf("  %s  %s%s\n", r.Time, r.Habit.Name, fired)
	}
	return nil
}

// RemindRunCmd is meant to be run periodically, e.g. from cron.
type RemindRunCmd struct{}

func (c *RemindRunCmd) Run(ctx *cli.Context) error {
	mgr, err := ctx.Reminders()
	if err != nil {
		return err
	}
	for _, r := range mgr.Fire(ctx.Clock.Now()) {
		ctx.Printf("Reminded: %s\n", r.Habit.Name)
	}
	return nil
}
