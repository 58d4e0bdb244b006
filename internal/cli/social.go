package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/colormatch/internal/api/request"
	"github.com/mcoot/colormatch/internal/api/response"
	"github.com/mcoot/colormatch/internal/model"
)

func newSocialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "social",
		Short: "Friends, sharing, challenges and achievements",
	}

	cmd.AddCommand(newSocialFriendsCmd())
	cmd.AddCommand(newSocialAddFriendCmd())
	cmd.AddCommand(newSocialShareCmd())
	cmd.AddCommand(newSocialInviteCmd())
	cmd.AddCommand(newSocialChallengeCmd())
	cmd.AddCommand(newSocialChallengesCmd())
	cmd.AddCommand(newSocialAchievementsCmd())
	cmd.AddCommand(newSocialStatsCmd())

	return cmd
}

func newSocialFriendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "friends",
		Short: "List your friends",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayerList
			if err := client.Get("/api/v1/social/friends", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSocialAddFriendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-friend <player-id>",
		Short: "Add a player as a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/social/friends", request.AddFriendRequest{FriendID: args[0]}, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Friend added")
			return nil
		},
	}
}

func newSocialShareCmd() *cobra.Command {
	var (
		sessionID    string
		score, level int
	)

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share a score to the leaderboard",
		Long: `Share a score to the leaderboard. With --session the session's current
score and level are shared; otherwise --score and --level are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" && score == 0 {
				return fmt.Errorf("--session or --score is required")
			}

			req := request.ShareScoreRequest{SessionID: sessionID, Score: score, Level: level}
			if err := client.Post("/api/v1/social/share", req, nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Score shared")
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Share this session's score")
	cmd.Flags().IntVar(&score, "score", 0, "Score to share")
	cmd.Flags().IntVar(&level, "level", 0, "Level reached")

	return cmd
}

func newSocialInviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invite",
		Short: "Invite your friends to play",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.CountResponse
			if err := client.Post("/api/v1/social/invite", nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Invited %d friends", result.Count))
			return nil
		},
	}
}

func newSocialChallengeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge <score>",
		Short: "Challenge your friends to beat a score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("score must be a number: %w", err)
			}

			var result response.CountResponse
			if err := client.Post("/api/v1/social/challenge", request.ChallengeRequest{Score: score}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Challenged %d friends", result.Count))
			return nil
		},
	}
}

func newSocialChallengesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenges",
		Short: "List challenges sent to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ChallengeList
			if err := client.Get("/api/v1/social/challenges", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSocialAchievementsCmd() *cobra.Command {
	var unlock string

	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "List achievements, or unlock one with --unlock",
		RunE: func(cmd *cobra.Command, args []string) error {
			if unlock != "" {
				var result response.UnlockResponse
				if err := client.Post("/api/v1/social/achievements/"+unlock, nil, &result); err != nil {
					return err
				}
				msg := "Already unlocked"
				if result.Unlocked {
					msg = "Unlocked " + unlock
				}
				NewOutput(cfg.Output).PrintMessage(msg)
				return nil
			}

			var result response.AchievementList
			if err := client.Get("/api/v1/social/achievements", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&unlock, "unlock", "", "Achievement id to unlock")

	return cmd
}

func newSocialStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your lifetime stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.PlayerStats
			if err := client.Get("/api/v1/social/stats", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
