package constants

const (
	// LineField is the synthetic field injected into every record carrying
	// its 1-based input line number.
	LineField = "line"

	// StdoutTarget is the output path value that selects standard output.
	StdoutTarget = "stdout"

	// LogDirKey is the config key holding the folder for rotated log files.
	LogDirKey = "log_dir"

	// LogLevelKey is the config key holding the logging level.
	LogLevelKey = "log_level"

	// EnvPrefix namespaces the environment variables read by the config layer.
	EnvPrefix = "JSONL"
)
