package cmd

import (
	"fmt"
)

// FlagEnum is a pflag.Value restricted to a fixed set of strings, used for
// flags like --output where only known formats are valid.
type FlagEnum struct {
	Allowed []string
	Value   string
}

func NewEnum(allowed []string, d string) *FlagEnum {
	return &FlagEnum{
		Allowed: allowed,
		Value:   d,
	}
}

func (a FlagEnum) String() string {
	return a.Value
}

func (a *FlagEnum) Set(p string) error {
	for _, opt := range a.Allowed {
		if opt == p {
			a.Value = p
			return nil
		}
	}
	return fmt.Errorf("invalid value %q, must be one of %v", p, a.Allowed)
}

func (a *FlagEnum) Type() string {
	return "string"
}
