package viper

import "testing"

func TestNewViperEnvKeyReplacer(t *testing.T) {
	t.Setenv("GOVCTL_LOG_LEVEL", "debug")
	t.Setenv("GOVCTL_API_BASE_URL", "http://localhost:8080")

	v := NewViper("nonexistent.yaml")

	if got := v.GetString("log-level"); got != "debug" {
		t.Fatalf("expected log-level to be %q, got %q", "debug", got)
	}
	if got := v.GetString("api.base-url"); got != "http://localhost:8080" {
		t.Fatalf("expected api.base-url to be %q, got %q", "http://localhost:8080", got)
	}
}

func TestNewViperEnvKeyReplacerProfileWithDashes(t *testing.T) {
	t.Setenv("GOVCTL_TEAM_A_B_C_API_BASE_URL", "http://stage:8080")

	v := NewViper("nonexistent.yaml")
	v.Set("team-a-b-c", map[string]any{})

	profile := v.Sub("team-a-b-c")
	if profile == nil {
		t.Fatal("expected profile viper, got nil")
	}

	if got := profile.GetString("api.base-url"); got != "http://stage:8080" {
		t.Fatalf("expected api.base-url to be %q, got %q", "http://stage:8080", got)
	}
}
