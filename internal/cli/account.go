package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := cfg.RequireUsername()
			if err != nil {
				return err
			}

			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result Account

			if err := client.Post("/api/v1/accounts/register", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and bind the account to this machine's address",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := cfg.RequireUsername()
			if err != nil {
				return err
			}

			req := map[string]string{
				"username": user,
				"password": pass,
			}
			var result Stats

			if err := client.Post("/api/v1/accounts/login", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newAutoConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "autoconnect",
		Short: "Show the account bound to this machine's address",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AccountSummary

			if err := client.Post("/api/v1/accounts/autoconnect", nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the account's address binding",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := cfg.RequireUsername()
			if err != nil {
				return err
			}

			var result OKResult
			if err := client.Post("/api/v1/accounts/logout", map[string]string{"username": user}, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage(fmt.Sprintf("Logged out %s", user))
			return nil
		},
	}
}

// newResultCmd builds the win and loss commands, which differ only in path
func newResultCmd(result, short string) *cobra.Command {
	return &cobra.Command{
		Use:   result,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := cfg.RequireUsername()
			if err != nil {
				return err
			}

			var summary AccountSummary
			if err := client.Post("/api/v1/stats/"+result, map[string]string{"username": user}, &summary); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(summary)
			return nil
		},
	}
}
