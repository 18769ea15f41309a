package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "solitaire",
		Short: "CLI tool for the solitaire server API",
		Long: `solitaire is a CLI tool for the solitaire account and stats server.

It registers accounts, binds them to this machine's address, reports wins
and losses, and stores or fetches recorded games.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SOLITAIRE_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Username, "user", "u", cfg.Username, "Account username (env: SOLITAIRE_USER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newAutoConnectCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newResultCmd("win", "Record a win for the bound account"))
	rootCmd.AddCommand(newResultCmd("loss", "Record a loss for the bound account"))
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
