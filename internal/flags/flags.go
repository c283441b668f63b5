package flags

// Centralized definitions for CLI flags used across the application

const (
	// Dir flags select the project directory explicitly instead of the ambient working directory
	Dir      = "dir"
	DirShort = "C"

	// DryRun flags pass --dryrun through to the aws CLI so nothing is transferred or deleted
	DryRun      = "dryrun"
	DryRunShort = "d"

	// Debug flags are used to enable verbose logging
	Debug = "debug"
)
