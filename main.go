package main

import (
	"fmt"
	"os"

	"github.com/arctir/xv6sched/cmd"
)

func main() {
	rootCmd := cmd.SetupCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
