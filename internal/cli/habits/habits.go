package habits

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/constants"
	apperrors "github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/tui/forms"
)

type HabitCmd struct {
	Add        HabitAddCmd        `cmd:"" help:"Add a habit template."`
	Edit       HabitEditCmd       `cmd:"" help:"Edit a habit template."`
	List       HabitListCmd       `cmd:"" help:"List habit templates." default:"1"`
	Delete     HabitDeleteCmd     `cmd:"" help:"Delete a habit template and its completion."`
	Categories HabitCategoriesCmd `cmd:"" help:"List habit categories."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name. Omit to fill in a form."`
	Points      string `help:"Points earned (negative for detrimental habits)." default:"1"`
	Category    string `help:"Category." default:"General"`
	Quantity    string `help:"Optional quantity, e.g. 30."`
	Unit        string `help:"Unit for the quantity, e.g. minutes."`
	Interactive bool   `short:"i" help:"Enter the habit in a form."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}

	fields := forms.TemplateFields{
		Name:     c.Name,
		Points:   c.Points,
		Category: c.Category,
		Quantity: c.Quantity,
		Unit:     c.Unit,
	}
	if c.Interactive || c.Name == "" {
		if err := forms.NewTemplateForm(&fields).Run(); err != nil {
			return err
		}
	}

	habit, err := fields.Habit(uuid.New().String())
	if err != nil {
		return err
	}
	if err := t.AddTemplate(habit); err != nil {
		return err
	}
	ctx.Printf("Added habit: %s (%s, %s)\n", habit.Name, cli.FormatPoints(habit.Points), habit.Category)
	ctx.ReportOutcome(t.TakeOutcome())
	return nil
}

type HabitEditCmd struct {
	Name        string `arg:"" help:"Habit to edit."`
	NewName     string `name:"name" help:"New name."`
	Points      string `help:"New point value."`
	Category    string `help:"New category."`
	Quantity    string `help:"New quantity (0 removes it)."`
	Unit        string `help:"New unit."`
	Interactive bool   `short:"i" help:"Edit the habit in a form."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	existing, err := t.Service().FindTemplate(c.Name)
	if err != nil {
		return err
	}

	fields := forms.FieldsFor(existing)
	if c.NewName != "" {
		fields.Name = c.NewName
	}
	if c.Points != "" {
		fields.Points = c.Points
	}
	if c.Category != "" {
		fields.Category = c.Category
	}
	if c.Quantity != "" {
		fields.Quantity = c.Quantity
		if n, err := strconv.Atoi(c.Quantity); err == nil && n == 0 {
			fields.Quantity, fields.Unit = "", ""
		}
	}
	if c.Unit != "" {
		fields.Unit = c.Unit
	}
	if c.Interactive {
		if err := forms.NewTemplateForm(&fields).Run(); err != nil {
			return err
		}
	}

	updated, err := fields.Habit(existing.ID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(updated.Name, existing.Name) {
		if _, err := t.Service().FindTemplate(updated.Name); err == nil {
			return fmt.Errorf("%w: %q", apperrors.ErrHabitExists, updated.Name)
		}
	}
	if updated == existing {
		ctx.Println("No changes.")
		return nil
	}
	if err := t.UpdateTemplate(updated); err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s\n", updated.Name)
	return nil
}

type HabitListCmd struct {
	Category string `help:"Only show habits in this category." default:"All"`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	templates := t.Service().TemplatesInCategory(c.Category)
	if len(templates) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	ctx.Println(cli.TitleStyle.Render("Habits"))
	for _, h := range templates {
		line := fmt.Sprintf("  %-20s %6s  %s", h.Name, cli.FormatPoints(h.Points), cli.MutedStyle.Render(h.Category))
		if q := cli.FormatQuantity(h.Quantity); q != "" {
			line += cli.MutedStyle.Render(" · " + q)
		}
		if h.Kind == models.HabitKindDetrimental {
			line += cli.WarningStyle.Render(" (avoid)")
		}
		ctx.Println(line)
	}
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	h, err := t.Service().FindTemplate(c.Name)
	if err != nil {
		return err
	}
	if err := t.RemoveTemplate(h.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", h.Name)
	return nil
}

type HabitCategoriesCmd struct{}

func (c *HabitCategoriesCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	for _, category := range t.Service().Categories() {
		if category == constants.CategoryAll {
			continue
		}
		ctx.Printf("  %s (%d)\n", category, len(t.Service().TemplatesInCategory(category)))
	}
	return nil
}
