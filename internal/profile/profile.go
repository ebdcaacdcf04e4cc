package profile

import (
	"errors"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultProfile = "default"
)

var (
	errorProfileExists       = errors.New("profile already exists")
	errorProfileNameEmpty    = errors.New("invalid profile name (empty)")
	errorProfileDoesNotExist = errors.New("profile does not exist")
)

type Manager interface {
	GetProfiles() []string
	GetProfile(name string) (map[string]any, error)
	CreateProfile(name string) error
	DeleteProfile(name string) error
}

type profileManager struct {
	config *viper.Viper
}

// Key supports storing the Manager in a Context
type Key struct{}

var ProfileManagerKey = Key{}

// GetProfiles lists the profile names in the loaded configuration. Each
// top-level key in the config file is a profile.
func (v *profileManager) GetProfiles() []string {
	seen := make(map[string]bool)
	for _, key := range v.config.AllKeys() {
		topLevelKey := strings.Split(key, ".")[0]
		seen[topLevelKey] = true
	}

	names := make([]string, 0, len(seen))
	for key := range seen {
		names = append(names, key)
	}
	sort.Strings(names)

	return names
}

func (v *profileManager) CreateProfile(profileName string) error {
	if profileName == "" {
		return errorProfileNameEmpty
	}

	if v.config.IsSet(profileName) {
		return errorProfileExists
	}

	v.config.Set(profileName, map[string]any{})

	return nil
}

// DeleteProfile clears a profile's settings. Viper cannot remove a key
// outright, so the profile is emptied instead.
func (v *profileManager) DeleteProfile(name string) error {
	if !v.config.IsSet(name) {
		return errorProfileDoesNotExist
	}

	v.config.Set(name, map[string]any{})

	return nil
}

func (v *profileManager) GetProfile(name string) (map[string]any, error) {
	return v.config.GetStringMap(name), nil
}

func NewManager(config *viper.Viper) Manager {
	return &profileManager{
		config: config,
	}
}
