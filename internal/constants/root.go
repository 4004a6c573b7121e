package constants

import "time"

const (
	AppName            = "tally"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tally/tally.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Environment
	EnvDBConnection = "TALLY_DB_CONNECTION"
	EnvDebug        = "TALLY_DEBUG"
	EnvFileName     = ".env"

	// Bootstrap
	DefaultHabitsFileName = "initial_habits.json"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tally-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "tally-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.tally"
	TrayAppExecutable      = "tally-tray"
	TraySecretHeader       = "X-Tally-Secret"
	NotifyTimeout          = 3 * time.Second

	// Timer constants
	TimerTickInterval  = time.Second
	AlarmRingInterval  = 2 * time.Second
	SyntheticUnitLabel = "minutes"

	// Categories
	CategoryAll = "All"
)
