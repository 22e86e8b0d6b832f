// Package config contains compile-time defaults for the sample data generator.
// Any of them can be overridden from sampledata.yaml, SAMPLEDATA_* environment
// variables, or command-line flags.
package config

import "time"

// =============================================================================
// GENERATION DEFAULTS
// =============================================================================

const (
	// DefaultYear of 0 means the current calendar year
	DefaultYear = 0

	// DefaultSeed of 0 means a random seed
	DefaultSeed = 0

	// DefaultWorkers of 0 means one worker per CPU
	DefaultWorkers = 0

	// DefaultBankReferences controls random numeric bank references
	DefaultBankReferences = false
)

// =============================================================================
// OUTPUT DEFAULTS
// =============================================================================

const (
	// DefaultOutput is a CSV directory; a path ending in .db writes SQLite instead
	DefaultOutput = "./output"

	// DefaultCompress writes sheets as .csv.xz
	DefaultCompress = false

	// DefaultXZPreset is the xz compression level (0-9)
	DefaultXZPreset = 6
)

// =============================================================================
// DATABASE DEFAULTS
// =============================================================================

const (
	// DBMaxOpenConns is maximum open connections in the pool
	DBMaxOpenConns = 10

	// DBMaxIdleConns is maximum idle connections in the pool
	DBMaxIdleConns = 5

	// DBConnMaxLifetime is how long a connection can be reused
	DBConnMaxLifetime = 5 * time.Minute
)

// =============================================================================
// LOGGING
// =============================================================================

const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)
