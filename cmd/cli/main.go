package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL        string
	clientURL      string
	timeout        time.Duration
	idempotencyKey string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "gobank-cli",
		Short:         "GoBank CLI tool",
		Long:          `A command line interface for interacting with the GoBank account and client services.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the account service")
	rootCmd.PersistentFlags().StringVar(&opts.clientURL, "client-url", "http://localhost:8081", "Base URL of the client service")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		accountsCmd(opts),
		movementsCmd(opts),
		reportsCmd(opts),
		reconcileCmd(opts),
		clientsCmd(opts),
	)

	return rootCmd
}
