package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"easteregg/internal/config"
	"easteregg/internal/engine"
	"easteregg/internal/input"
	"easteregg/internal/replay"
)

// NewFollowCommand tails a capture file that another process is still
// writing, feeding events through the engine as they land. Discoveries
// print as they happen. Stops on interrupt.
func NewFollowCommand(root *RootOptions) *cobra.Command {
	var storeOverride string

	cmd := &cobra.Command{
		Use:   "follow <capture.jsonl>",
		Short: "Follow a live capture and report discoveries as they occur",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.ConfigPath)
			if err != nil {
				return err
			}
			if storeOverride != "" {
				cfg.Storage.Backend = storeOverride
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)

			pipe := input.NewPipe()
			eng, err := engine.NewFromConfig(cfg, pipe, engine.Options{
				OnDiscovery: func(d engine.Discovery) {
					if root.Format == "json" {
						enc.Encode(d)
						return
					}
					fmt.Fprintf(out, "discovery  %-16s %s @ %dms\n", d.PatternID, d.Category, d.TimestampMs)
				},
				OnAchievementUnlock: func(a engine.Achievement) {
					if root.Format == "json" {
						enc.Encode(a)
						return
					}
					fmt.Fprintf(out, "achievement %-15s %s\n", a.ID, a.Name)
				},
			})
			if err != nil {
				return err
			}
			defer eng.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = replay.Follow(ctx, args[0], func(ev input.Event) error {
				pipe.Emit(ev)
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&storeOverride, "store", "", "override the storage backend (e.g. memory for a dry run)")
	return cmd
}
