// ABOUTME: Centralized configuration defaults for curator
// ABOUTME: Contains magic numbers and hardcoded values for display and storage

package config

// Identity and network settings
const (
	DefaultUserID     = "local"
	DefaultListenAddr = ":8484"
)

// Display settings
const (
	DefaultListLimit = 20
	DisplayIDLength  = 8
	SeparatorWidth   = 60
	DateFormatShort  = "02 Jan 06 15:04 MST"
)

// Storage settings
const (
	DefaultDirPerms = 0755

	// defaultDBFilename is the SQLite database filename inside DataDir.
	defaultDBFilename = "curator.db"
)
