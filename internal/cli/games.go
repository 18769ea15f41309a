package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Recorded game commands",
	}

	cmd.AddCommand(newGamesRecordCmd())
	cmd.AddCommand(newGamesRandomCmd())

	return cmd
}

func newGamesRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <file>",
		Short: "Upload a recorded game (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if !json.Valid(data) {
				return fmt.Errorf("%s does not contain valid JSON", args[0])
			}

			var result GameSaved
			if err := client.Post("/api/v1/games", json.RawMessage(data), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGamesRandomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Fetch a random recorded game",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameRecord

			if err := client.Get("/api/v1/games/random", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
