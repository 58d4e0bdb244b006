package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/colormatch/internal/api/response"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server is up and count its live game sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var health response.Health
			if err := client.Get("/api/v1/health", &health); err != nil {
				return fmt.Errorf("server unreachable at %s: %w", cfg.ServerURL, err)
			}
			NewOutput(cfg.Output).Print(health)
			if health.Status != "ok" {
				return fmt.Errorf("server reports status %q", health.Status)
			}
			return nil
		},
	}
}
