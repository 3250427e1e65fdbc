package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnwards/professionals/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "professionals",
		Short: "Professionals directory frontend and development API",
		Long: `professionals serves a two-screen directory of professionals backed by a
remote REST API, and ships a SQLite stub of that API for local development.`,
		SilenceUsage: true,
	}
	cli.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.StubAPICmd())

	// Terminal client
	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.AddCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
