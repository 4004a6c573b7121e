package progress

import (
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/tally/internal/analytics"
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/clock"
	"github.com/julianstephens/tally/internal/constants"
	apperrors "github.com/julianstephens/tally/internal/errors"
)

const barWidth = 30

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	svc := t.Service()
	today := clock.Today(ctx.Clock)

	ctx.Println(cli.TitleStyle.Render(today.Format("Monday, January 2")))
	ctx.Printf("%s %3.0f%%  %d / %d points\n",
		cli.Bar(svc.DailyProgress(), barWidth), svc.DailyProgress()*100, svc.TotalPointsToday(), svc.DailyTarget())

	done := make(map[string]time.Time)
	for h, at := range svc.Completions() {
		if clock.SameDay(ctx.Clock, at, today) {
			done[h.Name] = at
		}
	}

	ctx.Println()
	for _, category := range svc.Categories() {
		if category == constants.CategoryAll {
			continue
		}
		ctx.Println(cli.HeaderStyle.Render(category))
		for _, h := range svc.TemplatesInCategory(category) {
			mark := cli.MutedStyle.Render("○")
			suffix := ""
			if at, ok := done[h.Name]; ok {
				mark = cli.SuccessStyle.Render("●")
				suffix = cli.MutedStyle.Render(" " + at.Format(constants.TimeFormat))
			}
			ctx.Printf("  %s %-20s %s%s\n", mark, h.Name, cli.FormatPoints(h.Points), suffix)
		}
	}
	ctx.ReportOutcome(t.TakeOutcome())
	return nil
}

type HistoryCmd struct {
	Days int `help:"Number of days with completions to show." default:"7"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive")
	}
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	history := t.Service().DailyHistory()
	if len(history) == 0 {
		ctx.Println("No completions yet.")
		return nil
	}
	if len(history) > c.Days {
		history = history[:c.Days]
	}
	for _, day := range history {
		ctx.Printf("%s  %s\n", cli.HeaderStyle.Render(day.Day.Format(constants.DateFormat)), cli.FormatPoints(day.Points()))
		for _, h := range day.Habits {
			line := fmt.Sprintf("    %-20s %s", h.Name, cli.FormatPoints(h.Points))
			if q := cli.FormatQuantity(h.Quantity); q != "" {
				line += cli.MutedStyle.Render(" · " + q)
			}
			ctx.Println(line)
		}
	}
	return nil
}

type InsightsCmd struct{}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	history := t.Service().DailyHistory()
	target := t.Service().DailyTarget()

	ctx.Println(cli.TitleStyle.Render("Insights"))
	ctx.Printf("  All-time points:   %d\n", t.Service().TotalPointsAllTime())
	ctx.Printf("  Average per day:   %.1f\n", analytics.AveragePointsPerDay(history))
	ctx.Printf("  Current streak:    %d days\n", analytics.CurrentStreak(history, ctx.Clock))
	ctx.Printf("  Longest streak:    %d days\n", analytics.LongestStreak(history, ctx.Clock))
	if best, ok := analytics.BestDay(history); ok {
		ctx.Printf("  Best day:          %s (%d)\n", best.Day.Format(constants.DateFormat), best.Points)
	}
	if worst, ok := analytics.WorstDay(history); ok {
		ctx.Printf("  Worst day:         %s (%d)\n", worst.Day.Format(constants.DateFormat), worst.Points)
	}

	series := analytics.PointsLast30Days(history, ctx.Clock)
	averages := make(map[time.Time]float64)
	for _, a := range analytics.Rolling7DayAverage(series) {
		averages[a.Day] = a.Average
	}
	ctx.Println()
	ctx.Println(cli.HeaderStyle.Render("Last 7 days"))
	progress := analytics.ProgressHistory(history, ctx.Clock, target)
	byDay := make(map[time.Time]float64, len(progress))
	for _, p := range progress {
		byDay[p.Day] = p.Progress
	}
	for i := len(series) - constants.RollingAverageDays; i < len(series); i++ {
		p := series[i]
		ctx.Printf("  %s %s %4d  avg %.1f\n", p.Day.Format("Mon 01-02"), cli.Bar(byDay[p.Day], 20), p.Points, averages[p.Day])
	}

	ctx.Println()
	ctx.Println(cli.HeaderStyle.Render("Monthly totals"))
	for _, m := range analytics.MonthlyTotals(history, ctx.Clock) {
		ctx.Printf("  %s %6d\n", m.Month.Format("Jan 2006"), m.Points)
	}

	ctx.Println()
	ctx.Println(cli.HeaderStyle.Render("Completions per week"))
	for _, w := range analytics.WeeklyCompletionCounts(history, ctx.Clock) {
		ctx.Printf("  week of %s %4d\n", w.WeekStart.Format("01-02"), w.Count)
	}
	return nil
}

type AchievementsCmd struct{}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	ctx.ReportOutcome(t.TakeOutcome())
	for _, a := range t.Achievements() {
		if a.Unlocked() {
			ctx.Printf("%s %s  %s\n", cli.AchievementStyle.Render("🏆"), cli.AchievementStyle.Render(a.Title),
				cli.MutedStyle.Render("unlocked "+a.UnlockedAt.Format(constants.DateFormat)))
		} else {
			ctx.Printf("%s %s\n", cli.MutedStyle.Render("🔒"), a.Title)
		}
		ctx.Printf("   %s\n", cli.MutedStyle.Render(a.Description))
	}
	p := t.Profile()
	ctx.Printf("\n💎 %d gems · milestone level %d\n", p.Gems, p.MilestoneLevel)
	return nil
}

type TargetCmd struct {
	Points string `arg:"" optional:"" help:"New daily target. Omit to show the current one."`
}

func (c *TargetCmd) Run(ctx *cli.Context) error {
	t, err := ctx.Tracker()
	if err != nil {
		return err
	}
	if c.Points == "" {
		ctx.Printf("Daily target: %d points\n", t.Service().DailyTarget())
		return nil
	}
	n, err := strconv.Atoi(c.Points)
	if err != nil {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidTarget, c.Points)
	}
	if err := t.UpdateDailyTarget(n); err != nil {
		return err
	}
	ctx.Printf("Daily target set to %d points\n", n)
	return nil
}
