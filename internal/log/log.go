package log

import "log/slog"

type Key struct{}

var LoggerKey = Key{}

// LevelTrace sits one step below slog.LevelDebug and carries the
// request/response bodies logged by the HTTP client.
const LevelTrace = slog.LevelDebug - 4

// ConfigLevelStringToSlogLevel maps a configured level name to its slog
// level. Unrecognized names fall back to error so a typo in a config file
// never floods the log.
func ConfigLevelStringToSlogLevel(level string) slog.Level {
	switch level {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
