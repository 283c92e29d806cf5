package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gobank-cli",
		Short:         "GoBank CLI tool",
		Long:          `A command line interface for interacting with the GoBank API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", envOr("GOBANK_URL", "http://localhost:8080"), "Base URL of the GoBank API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("GOBANK_TOKEN"), "Bearer access token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(clientsCmd(), comptesCmd(), authCmd(), hashPasswordCmd())

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
