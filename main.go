// main is the entry point of the burnrate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/burnrate-dev/burnrate/cmd"
	"github.com/burnrate-dev/burnrate/internal/history"
)

func main() {
	cmd.SetHistoryManager(history.Manager)

	err := cmd.Execute()
	history.CloseHistory()
	if perr := cmd.StopProfiling(); perr != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Warning:", perr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
