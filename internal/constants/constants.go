// Package constants provides named defaults used throughout polisim.
package constants

// Simulation defaults, matching the CLI flag defaults.
const (
	// DefaultRounds is the number of social-influence rounds per run.
	DefaultRounds = 5

	// DefaultThreshold is the half-width of the abstention band around 0.
	// Scores strictly above it vote yes, strictly below its negation vote no.
	DefaultThreshold = 0.1

	// DefaultProposalRange bounds the entries of a randomly drawn proposal.
	DefaultProposalRange = 1.0

	// DefaultRule is the majority rule used when none is given.
	DefaultRule = "simple"
)

// Tool identity.
const (
	// AppName is used for the MCP implementation name and the settings directory.
	AppName = "polisim"

	// SettingsDirName is the per-user settings directory under $HOME.
	SettingsDirName = ".polisim"

	// SettingsFileName is the settings file inside SettingsDirName.
	SettingsFileName = "config.yaml"

	// RoundTraceFileName is the JSONL file written by the round logger.
	RoundTraceFileName = "rounds.jsonl"

	// AuditFileName is the JSONL file written by the MCP audit logger.
	AuditFileName = "audit.jsonl"
)
