package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"easteregg/internal/config"
	"easteregg/internal/ledger"
	"easteregg/internal/logging"
	"easteregg/internal/store"
)

// NewLedgerCommand inspects or resets the persisted progress ledger.
func NewLedgerCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or reset persisted discovery progress",
	}
	cmd.AddCommand(newLedgerShowCommand(root))
	cmd.AddCommand(newLedgerResetCommand(root))
	return cmd
}

func newLedgerShowCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print discovered patterns and unlocked achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			led, st, err := openLedger(root)
			if err != nil {
				return err
			}
			defer st.Close()

			p := led.Progress()
			out := cmd.OutOrStdout()
			if root.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}

			fmt.Fprintf(out, "discovered patterns (%d):\n", len(p.DiscoveredPatternIDs))
			for _, id := range p.DiscoveredPatternIDs {
				fmt.Fprintf(out, "  %s\n", id)
			}
			fmt.Fprintf(out, "unlocked achievements (%d):\n", len(p.UnlockedAchievementIDs))
			for _, id := range p.UnlockedAchievementIDs {
				fmt.Fprintf(out, "  %s\n", id)
			}
			return nil
		},
	}
}

func newLedgerResetCommand(root *RootOptions) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all persisted progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to erase progress without --yes")
			}
			led, st, err := openLedger(root)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := led.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "progress cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the reset")
	return cmd
}

func openLedger(root *RootOptions) (*ledger.Ledger, store.Store, error) {
	cfg, err := config.Load(root.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	led, err := ledger.Open(st, logging.Discard())
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return led, st, nil
}
