// Package capability carries the caller's permission set through
// context so interactive surfaces can gate administrative entries.
package capability

import "context"

// Capabilities describes what the current session is allowed to do.
type Capabilities struct {
	Admin bool
}

type capabilityKey struct{}

// WithCapabilities returns a context carrying caps.
func WithCapabilities(ctx context.Context, caps Capabilities) context.Context {
	return context.WithValue(ctx, capabilityKey{}, caps)
}

// FromContext extracts the session capabilities. Absent capabilities
// mean no administrative access.
func FromContext(ctx context.Context) Capabilities {
	if ctx == nil {
		return Capabilities{}
	}
	caps, _ := ctx.Value(capabilityKey{}).(Capabilities)
	return caps
}

// IsAdmin reports whether the session may see administrative entries.
func IsAdmin(ctx context.Context) bool {
	return FromContext(ctx).Admin
}

// Resolver determines the session's capabilities at startup.
type Resolver interface {
	Resolve(ctx context.Context) (Capabilities, error)
}

// StaticResolver returns fixed capabilities, typically sourced from
// configuration.
type StaticResolver struct {
	Capabilities Capabilities
}

func (r StaticResolver) Resolve(context.Context) (Capabilities, error) {
	return r.Capabilities, nil
}
