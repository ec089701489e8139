// ABOUTME: Tests for root command configuration
// ABOUTME: Verifies API URL resolution order across flag, env, and default

package cmd

import (
	"testing"
)

func TestGetAPIURL_Default(t *testing.T) {
	apiURL = ""
	t.Setenv("TASKDECK_API_URL", "")

	if got := GetAPIURL(); got != "http://localhost:8000" {
		t.Errorf("expected default URL, got %s", got)
	}
}

func TestGetAPIURL_EnvOverridesDefault(t *testing.T) {
	apiURL = ""
	t.Setenv("TASKDECK_API_URL", "http://env.example:9000")

	if got := GetAPIURL(); got != "http://env.example:9000" {
		t.Errorf("expected env URL, got %s", got)
	}
}

func TestGetAPIURL_FlagOverridesEnv(t *testing.T) {
	apiURL = "http://flag.example:7000"
	defer func() { apiURL = "" }()
	t.Setenv("TASKDECK_API_URL", "http://env.example:9000")

	if got := GetAPIURL(); got != "http://flag.example:7000" {
		t.Errorf("expected flag URL, got %s", got)
	}
}
