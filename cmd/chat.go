// ABOUTME: Chat command for the taskdeck CLI
// ABOUTME: One-shot conversation turn with the AI assistant

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/client"
)

var chatConversationID string

var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Ask the AI assistant to manage your tasks",
	Long: `Send a message to the AI assistant. The assistant can create, update,
complete, and delete tasks on your behalf.

Pass --conversation to continue an earlier conversation.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runChat(ctx, os.Stdout, strings.Join(args, " "))
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatConversationID, "conversation", "", "Conversation ID from a previous reply")
}

// runChat executes one chat turn and returns exit code
func runChat(ctx context.Context, w io.Writer, message string) int {
	c := newClient()
	resp, err := c.Chat(ctx, message, chatConversationID)
	if err != nil {
		if errors.Is(err, client.ErrUnauthenticated) {
			fmt.Fprintln(w, "Not logged in. Run 'taskdeck login' first.")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, resp.Response)
		fmt.Fprintf(w, "\n(conversation: %s)\n", resp.ConversationID)
	}
	return 0
}
