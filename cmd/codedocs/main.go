// Package main provides the entry point for the codebase onboarding
// documentation service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codedocs",
	Short: "AI codebase onboarding documentation generator",
	Long:  "codedocs clones a public repository, generates a Markdown explanation for every analyzable source file, and packages the result plus a synthesized project overview into a downloadable archive.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
