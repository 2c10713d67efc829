package constants

import "time"

const (
	AppName            = "circles"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/circles/circles.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is the wire format for instants: ISO-8601, UTC, millisecond precision.
	TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

	// Storage keys
	StorageKeyPrefix      = "@circles/"
	StorageKeyBehaviors   = StorageKeyPrefix + "behaviors"
	StorageKeyEvents      = StorageKeyPrefix + "events"
	StorageKeyPreferences = StorageKeyPrefix + "preferences"

	// MemoryConfigPath selects the in-process backend
	MemoryConfigPath = ":memory:"

	// KeyringConfigPath selects the PostgreSQL connection string stored in the OS keyring
	KeyringConfigPath = "keyring"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "circles-"
	BackupFileSuffix = ".db"

	// Watcher constants
	WatchDebounce = 250 * time.Millisecond

	// Preference defaults
	DefaultShowDaysSinceInner     = true
	DefaultHasCompletedOnboarding = false

	// Stats windows used by the tracker views
	ShortPeriodDays = 7
	LongPeriodDays  = 30

	// UnknownBehaviorLabel is shown for events whose behavior has been deleted
	UnknownBehaviorLabel = "Unknown behavior"
)

// StorageKeys lists every key the data store reads and writes.
var StorageKeys = []string{StorageKeyBehaviors, StorageKeyEvents, StorageKeyPreferences}
