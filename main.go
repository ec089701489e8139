// ABOUTME: Entry point for the taskdeck CLI
// ABOUTME: Terminal client for the taskdeck task-management backend

package main

import (
	"fmt"
	"os"

	"github.com/taskdeck/taskdeck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
