package i18n

// Placeholder for message catalogs; command help text routes through here so
// translations can land without touching every command.
// import "github.com/nicksnyder/go-i18n/v2/i18n"

// T translates a message key, returning defaultValue when no catalog entry
// exists for it.
func T(_ string, defaultValue string) string {
	return defaultValue
}
