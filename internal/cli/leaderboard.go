package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/colormatch/internal/api/response"
)

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show leaderboards",
	}

	global := &cobra.Command{
		Use:   "global",
		Short: "Show the global leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/leaderboard"
			if limit > 0 {
				path += fmt.Sprintf("?limit=%d", limit)
			}

			var result response.Leaderboard
			if err := client.Get(path, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
	global.Flags().IntVar(&limit, "limit", 0, "Number of entries (server default when 0)")

	friends := &cobra.Command{
		Use:   "friends",
		Short: "Show the leaderboard of you and your friends",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Leaderboard
			if err := client.Get("/api/v1/leaderboard/friends", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.AddCommand(global, friends)
	return cmd
}
