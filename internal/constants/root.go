package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "tachoplan"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/tachoplan/tachoplan.db"
	Version            = "v0.3.0"

	// Environment variables
	EnvConfig           = "TACHOPLAN_CONFIG"
	EnvDebug            = "TACHOPLAN_DEBUG"
	EnvDBConnection     = "TACHOPLAN_DB_CONNECTION"
	EnvServeAddr        = "TACHOPLAN_ADDR"
	DefaultServeAddr    = ":8080"
	ServerReadTimeout   = 5 * time.Second
	ServerWriteTimeout  = 10 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	ServerMaxBodyBytes  = 1 << 20
	ServerShutdownGrace = 5 * time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "tachoplan-"
	BackupFileSuffix = ".db"

	// Delay modes. Only "auto" is supported: delay is off-duty by default and
	// pulled on-duty only to fill the remaining duty-cap headroom.
	DelayModeAuto = "auto"
)

// Session States
const (
	StateForm SessionState = iota
	StateResult
	StateSettings
	StateEditSettings
	StateConfirmReset
)
