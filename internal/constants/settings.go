package constants

const (
	// Key-value settings
	SettingDailyTarget    = "daily_target"
	SettingMilestoneLevel = "milestone_level"
	SettingGems           = "gems"
	SettingUserName       = "user_name"
	SettingUserEmail      = "user_email"
	SettingLastDeletion   = "last_deletion"

	// Per-entity setting prefixes, joined with an ID
	SettingReminderPrefix      = "reminder."
	SettingReminderFiredPrefix = "reminder_fired."
	SettingAchievementPrefix   = "achievement."

	// Default values
	DefaultDailyTarget = 100

	// MilestoneInterval is the all-time point interval that earns one gem
	MilestoneInterval = 100

	// AchievementProgressTarget is the fixed daily target used by progress-streak
	// achievements. It does not follow the user's adjustable daily target.
	AchievementProgressTarget = 100.0

	// GemsPerAchievement is awarded once per unlocked achievement
	GemsPerAchievement = 1
)
