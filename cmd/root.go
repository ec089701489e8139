// ABOUTME: Root command for the taskdeck CLI
// ABOUTME: Handles global flags, environment, and client construction

package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/client"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/tui"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:8000"

// rootCmd is the base command. Bare invocation launches the interactive TUI.
var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Terminal client for the taskdeck task manager",
	Long: `taskdeck is a terminal client for the taskdeck task-management backend.

Run without a subcommand to open the interactive TUI, or use the
subcommands for scripting and quick one-off operations.

Environment Variables:
  TASKDECK_API_URL     Backend API URL (default: http://localhost:8000)
  TASKDECK_CONFIG_DIR  Session/config directory (default: XDG config dir)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(newClient(), newSessionStore())
	},
}

// Execute runs the root command
func Execute() error {
	// A .env next to the binary mirrors the backend's config loading; it is
	// optional and quietly skipped when absent.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides TASKDECK_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("TASKDECK_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

func newSessionStore() *session.Store {
	return session.New(session.DefaultConfigDir())
}

func newClient() *client.Client {
	return client.New(GetAPIURL(), newSessionStore())
}
