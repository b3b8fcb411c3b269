package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd serves HTTP when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:          "siteapi",
	Short:        "Site backend: users, blogs, banner images, OTP and reels",
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bootstrapCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
