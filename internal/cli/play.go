package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mcoot/colormatch/internal/factory"
	"github.com/mcoot/colormatch/internal/tui"
)

func newPlayCmd() *cobra.Command {
	var name, rulesPath string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a local game in the terminal",
		Long: `Play Color Match Frenzy in the terminal without a server.

Arrows move the cursor, space selects and swaps, 1-5 arm boosters,
p pauses, n moves to the next level, r restarts, c continues after
running out of moves and q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return playLocal(cmd.Context(), name, rulesPath)
		},
	}

	cmd.Flags().StringVar(&name, "name", "Player", "Display name")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "Path to a YAML rules file")

	return cmd
}

func playLocal(ctx context.Context, name, rulesPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if cfg.Verbose {
		logger = slog.Default()
	}

	app, err := factory.New(factory.Config{
		RulesPath:   rulesPath,
		Logger:      logger,
		StorageType: factory.StorageTypeMemory,
	})
	if err != nil {
		return err
	}

	login, err := app.AuthService.CreateGuestPlayer(ctx, name)
	if err != nil {
		return err
	}
	sess, err := app.Sessions.Create(ctx, login.Player.ID)
	if err != nil {
		return err
	}

	if _, err := tea.NewProgram(tui.New(sess, app.Rules), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	snap := sess.Snapshot()
	fmt.Printf("Final score: %d (level %d)\n", snap.Score, snap.Level)

	stats, err := app.Social.Stats(ctx, login.Player.ID)
	if err == nil && stats.LevelsCompleted > 0 {
		fmt.Printf("Levels completed: %d\n", stats.LevelsCompleted)
	}
	return nil
}
