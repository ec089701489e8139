// ABOUTME: Authentication commands for the taskdeck CLI
// ABOUTME: login, register, logout, and whoami session management

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/client"
)

var (
	authEmail    string
	authName     string
	authPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session",
	Long: `Log in to the taskdeck backend and persist the session locally.

Missing credentials are prompted for interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and persist the session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRegister(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the persisted session",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runLogout(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runWhoami(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (prompted when omitted)")
	}
	registerCmd.Flags().StringVar(&authName, "name", "", "Display name")
}

// promptCredentials fills in any credentials not provided via flags
func promptCredentials(needName bool) error {
	var fields []huh.Field
	if authEmail == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&authEmail))
	}
	if needName && authName == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(&authName))
	}
	if authPassword == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&authPassword))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

// runLogin executes the login flow and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	if err := promptCredentials(false); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	c := newClient()
	resp, err := c.Login(ctx, authEmail, authPassword)
	if err != nil {
		return reportAuthError(w, err)
	}

	fmt.Fprintf(w, "Logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
	return 0
}

// runRegister executes the registration flow and returns exit code
func runRegister(ctx context.Context, w io.Writer) int {
	if err := promptCredentials(true); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	c := newClient()
	resp, err := c.Register(ctx, authEmail, authName, authPassword)
	if err != nil {
		return reportAuthError(w, err)
	}

	fmt.Fprintf(w, "Registered and logged in as %s <%s>\n", resp.User.Name, resp.User.Email)
	return 0
}

// runLogout clears the session and returns exit code
func runLogout(w io.Writer) int {
	c := newClient()
	if err := c.Logout(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	fmt.Fprintln(w, "Logged out")
	return 0
}

// runWhoami prints the persisted identity and returns exit code
func runWhoami(w io.Writer) int {
	sess, err := newSessionStore().Load()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	if sess == nil {
		fmt.Fprintln(w, "Not logged in")
		return 1
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(sess.User, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintf(w, "%s <%s>\n", sess.User.Name, sess.User.Email)
	}
	return 0
}

// reportAuthError maps auth flow failures to messages and exit codes
func reportAuthError(w io.Writer, err error) int {
	var valErr *client.ValidationError
	if errors.As(err, &valErr) {
		fmt.Fprintf(w, "Error: %v\n", valErr)
		return 2
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %s\n", apiErr.Message)
		return 1
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	return 2
}
