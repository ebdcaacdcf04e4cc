package meta

const (
	// CLIName is the short name of this CLI, used for binary naming,
	// configuration directories and environment variable prefixes.
	CLIName = "govctl"

	// ProductName is the display name used in help text.
	ProductName = "News Analyzer govctl"
)
