// Package cli implements cmfgame, the command-line client for Color Match
// Frenzy. Most commands call a running server; play runs a game locally.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

const (
	groupServer = "server"
	groupLocal  = "local"
)

func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	root := &cobra.Command{
		Use:   "cmfgame",
		Short: "Play and manage Color Match Frenzy games",
		Long: `cmfgame drives a Color Match Frenzy server from the terminal: players,
game sessions and boosters, leaderboards, friends and live session events.

"cmfgame play" needs no server and runs a game in the terminal.

Settings can also live in ~/.cmfgame/env as KEY=value lines.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.LoadToken(); err != nil {
				return err
			}
			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: CMFGAME_SERVER)")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "Login token (env: CMFGAME_TOKEN)")
	flags.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Where login saves the token (env: CMFGAME_TOKEN_FILE)")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: CMFGAME_OUTPUT)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	root.AddGroup(
		&cobra.Group{ID: groupServer, Title: "Server commands:"},
		&cobra.Group{ID: groupLocal, Title: "Local commands:"},
	)
	for _, cmd := range []*cobra.Command{
		newPlayerCmd(),
		newSessionCmd(),
		newLeaderboardCmd(),
		newSocialCmd(),
		newEventsCmd(),
		newHealthCmd(),
	} {
		cmd.GroupID = groupServer
		root.AddCommand(cmd)
	}
	play := newPlayCmd()
	play.GroupID = groupLocal
	root.AddCommand(play)

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
