package profile

import (
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/tui/forms"
)

type ProfileCmd struct {
	Register bool   `help:"Register or update your name and email."`
	Name     string `help:"Name to register (skips the form when set with --email)."`
	Email    string `help:"Email to register."`
}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	if c.Register || c.Name != "" || c.Email != "" {
		fields := forms.RegistrationFields{Name: c.Name, Email: c.Email}
		if fields.Name == "" || fields.Email == "" {
			current := t.Profile()
			if fields.Name == "" {
				fields.Name = current.Name
			}
			if fields.Email == "" {
				fields.Email = current.Email
			}
			if err := forms.NewRegistrationForm(&fields).Run(); err != nil {
				return err
			}
		}
		if err := t.Register(fields.Name, fields.Email); err != nil {
			return err
		}
		ctx.Println(cli.SuccessStyle.Render("✓ Registered " + fields.Name))
	}

	p := t.Profile()
	ctx.Println(cli.TitleStyle.Render("Profile"))
	if p.Registered() {
		ctx.Printf("  Name:   %s\n  Email:  %s\n", p.Name, p.Email)
	} else {
		ctx.Println(cli.WarningStyle.Render("  Not registered. Run 'tally profile --register'."))
	}
	ctx.Printf("  Gems:   %d\n  Level:  %d\n", p.Gems, p.MilestoneLevel)
	ctx.Printf("  Points: %d all-time\n", t.Service().TotalPointsAllTime())
	return nil
}
