package system

import (
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/notifier"
)

// NotifyCmd sends a one-off notification through the tray app.
type NotifyCmd struct {
	Text string `arg:"" help:"Notification text."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	return notifier.New().Notify(c.Text)
}
