// Package main provides the declic command line: analyze a résumé and export results offline.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "declic",
	Short: "DAP Déclic Pro command line",
	Long:  "Runs the résumé analysis pipeline from the terminal and renders saved results as PDF.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
