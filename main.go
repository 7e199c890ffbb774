package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhabedank/activity-parser/cmd"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:          "activity-parser",
		Short:        "Parse, generate and grade reading-discussion activities",
		Version:      version,
		SilenceUsage: true,
	}
	cmd.Register(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
