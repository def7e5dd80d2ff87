package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"easteregg/internal/difficulty"
	"easteregg/internal/pattern"
)

// NewPatternsCommand validates pattern manifests before a host ships
// them.
func NewPatternsCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Work with pattern manifests",
	}
	cmd.AddCommand(newPatternsLintCommand(root))
	return cmd
}

type lintSummary struct {
	Path      string `json:"path"`
	Sequences int    `json:"sequences"`
	Gestures  int    `json:"gestures"`
	Rhythms   int    `json:"rhythms"`
}

func newPatternsLintCommand(root *RootOptions) *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:   "lint <manifest.yaml>",
		Short: "Parse and validate a pattern manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			m, err := pattern.ParseManifest(data)
			if err != nil {
				return err
			}
			lv := difficulty.Level(level)
			if !lv.Valid() {
				return fmt.Errorf("difficulty %d out of range [%d,%d]", level, difficulty.Min, difficulty.Max)
			}
			if _, err := m.Registry(lv); err != nil {
				return err
			}

			sum := lintSummary{
				Path:      args[0],
				Sequences: len(m.Sequences),
				Gestures:  len(m.Gestures),
				Rhythms:   len(m.Rhythms),
			}
			out := cmd.OutOrStdout()
			if root.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			fmt.Fprintf(out, "%s: ok (%d sequences, %d gestures, %d rhythms)\n",
				sum.Path, sum.Sequences, sum.Gestures, sum.Rhythms)
			return nil
		},
	}

	cmd.Flags().IntVar(&level, "difficulty", int(difficulty.Default), "difficulty level to validate against")
	return cmd
}
