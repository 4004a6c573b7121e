package constants

const (
	// Analytics windows
	RecentDaysWindow    = 30
	RollingAverageDays  = 7
	MonthlyTotalsMonths = 6
	WeeklyCountsWeeks   = 8
)
