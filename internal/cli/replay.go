package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"easteregg/internal/config"
	"easteregg/internal/engine"
	"easteregg/internal/input"
	"easteregg/internal/replay"
)

// replayResult summarizes one capture run for output.
type replayResult struct {
	Session      string               `json:"session"`
	Events       int                  `json:"events"`
	Discoveries  []engine.Discovery   `json:"discoveries"`
	Achievements []engine.Achievement `json:"achievements"`
}

// NewReplayCommand feeds a recorded capture through a fresh engine.
func NewReplayCommand(root *RootOptions) *cobra.Command {
	var storeOverride string

	cmd := &cobra.Command{
		Use:   "replay <capture.jsonl>",
		Short: "Replay a capture file through the engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.ConfigPath)
			if err != nil {
				return err
			}
			if storeOverride != "" {
				cfg.Storage.Backend = storeOverride
			}

			var result replayResult
			pipe := input.NewPipe()
			eng, err := engine.NewFromConfig(cfg, pipe, engine.Options{
				OnDiscovery: func(d engine.Discovery) {
					result.Discoveries = append(result.Discoveries, d)
				},
				OnAchievementUnlock: func(a engine.Achievement) {
					result.Achievements = append(result.Achievements, a)
				},
			})
			if err != nil {
				return err
			}
			defer eng.Close()

			h, n, err := replay.ReadFile(args[0], func(ev input.Event) error {
				pipe.Emit(ev)
				return nil
			})
			if err != nil {
				return err
			}
			result.Session = h.Session
			result.Events = n

			return printResult(cmd, root, result)
		},
	}

	cmd.Flags().StringVar(&storeOverride, "store", "", "override the storage backend (e.g. memory for a dry run)")
	return cmd
}

func printResult(cmd *cobra.Command, root *RootOptions, result replayResult) error {
	out := cmd.OutOrStdout()
	if root.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(out, "session %s: %d events, %d discoveries, %d achievements\n",
		result.Session, result.Events, len(result.Discoveries), len(result.Achievements))
	for _, d := range result.Discoveries {
		fmt.Fprintf(out, "  discovery  %-16s %s @ %dms\n", d.PatternID, d.Category, d.TimestampMs)
	}
	for _, a := range result.Achievements {
		fmt.Fprintf(out, "  achievement %-15s %s\n", a.ID, a.Name)
	}
	return nil
}
