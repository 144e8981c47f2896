// Package cmd builds the xv6sched CLI's cobra command tree: a root command,
// an init() that registers every flag, and small run* handlers that collect
// options and delegate to the packages that do the real work (kernel,
// workload, tracedir, host).
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const defaultTickPeriod = 10 * time.Millisecond

var rootCmd = &cobra.Command{
	Use:   "xv6sched",
	Short: "Drive and inspect a hybrid MLFQ/Stride process-and-thread scheduler core.",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// SetupCommands wires every subcommand into the root command and returns it.
func SetupCommands() *cobra.Command {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(psCmd)
	psCmd.AddCommand(psTreeCmd)
	rootCmd.AddCommand(workloadCmd)
	workloadCmd.AddCommand(historyCmd)
	workloadCmd.AddCommand(revisionsCmd)
	workloadCmd.AddCommand(fetchCmd)

	return rootCmd
}

func output(s string) {
	fmt.Print(s)
}

func outputErrorAndFail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
