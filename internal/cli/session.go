package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/colormatch/internal/api/request"
	"github.com/mcoot/colormatch/internal/api/response"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Game session commands",
	}

	cmd.AddCommand(newSessionNewCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionDeleteCmd())
	cmd.AddCommand(newSessionActivateCmd())
	cmd.AddCommand(newSessionArmCmd())
	cmd.AddCommand(newSessionContinueCmd())
	cmd.AddCommand(newSessionHintCmd())
	cmd.AddCommand(newSessionAutoplayCmd())

	// Transitions without a body all answer with the new snapshot
	for _, t := range []struct{ use, short, path string }{
		{"start <id>", "Start the current level", "start"},
		{"pause <id>", "Pause a running level", "pause"},
		{"resume <id>", "Resume a paused level", "resume"},
		{"next <id>", "Advance to the next level", "next-level"},
		{"restart <id>", "Replay the current level from scratch", "restart"},
	} {
		cmd.AddCommand(newSessionTransitionCmd(t.use, t.short, t.path))
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "disarm <id>",
		Short: "Disarm the armed booster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Delete(sessionPath(args[0], "booster"), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	})

	return cmd
}

func sessionPath(id, action string) string {
	path := "/api/v1/sessions/" + id
	if action != "" {
		path += "/" + action
	}
	return path
}

func newSessionNewCmd() *cobra.Command {
	var start bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new game session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Post("/api/v1/sessions", nil, &result); err != nil {
				return err
			}

			if start {
				if err := client.Post(sessionPath(string(result.ID), "start"), nil, &result); err != nil {
					return err
				}
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&start, "start", true, "Start level 1 immediately")

	return cmd
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.SessionList
			if err := client.Get("/api/v1/sessions", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a session and its board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Get(sessionPath(args[0], ""), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Abandon a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(sessionPath(args[0], ""), nil); err != nil {
				return err
			}
			NewOutput(cfg.Output).PrintMessage("Session deleted")
			return nil
		},
	}
}

func newSessionTransitionCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Post(sessionPath(args[0], action), nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id> <row> <col>",
		Short: "Activate a cell (select, swap or aim a booster)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("row must be a number: %w", err)
			}
			col, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("col must be a number: %w", err)
			}

			var result response.ActivateResponse
			if err := client.Post(sessionPath(args[0], "activate"), request.ActivateRequest{Row: &row, Col: &col}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionArmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "arm <id> <booster>",
		Short: "Arm a booster (lightning, hammer, target, star, bomb)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ArmBoosterResponse
			if err := client.Post(sessionPath(args[0], "booster"), request.ArmBoosterRequest{Booster: args[1]}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionContinueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "continue <id> <ad|share>",
		Short: "Earn extra moves after running out",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Session
			if err := client.Post(sessionPath(args[0], "continue"), request.ContinueRequest{Reason: args[1]}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newSessionHintCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "hint <id>",
		Short: "Ask the bot for a move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.HintResponse
			if err := client.Post(sessionPath(args[0], "hint"), request.BotRequest{Strategy: strategy}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", cfg.Strategy, "Bot strategy: random, greedy (env: CMFGAME_STRATEGY)")

	return cmd
}

func newSessionAutoplayCmd() *cobra.Command {
	var (
		strategy string
		moves    int
	)

	cmd := &cobra.Command{
		Use:   "autoplay <id>",
		Short: "Let the bot play several moves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.AutoplayResponse
			req := request.BotRequest{Strategy: strategy, MaxMoves: moves}
			if err := client.Post(sessionPath(args[0], "autoplay"), req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", cfg.Strategy, "Bot strategy: random, greedy (env: CMFGAME_STRATEGY)")
	cmd.Flags().IntVar(&moves, "moves", 0, "Maximum moves to play (server default when 0)")

	return cmd
}
