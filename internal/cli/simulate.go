package cli

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"easteregg/internal/input"
	"easteregg/internal/pattern"
	"easteregg/internal/replay"
)

// scenarios maps a name to a generator producing the event stream
// that triggers the matching built-in pattern. Useful for smoke
// testing a deployment: simulate a scenario, then replay it.
var scenarios = map[string]func(startMs int64) []input.Event{
	pattern.IDKonami:       simulateKonami,
	pattern.IDCircle:       simulateCircle,
	pattern.IDZigzag:       simulateZigzag,
	pattern.IDRapidYoYo:    simulateRapidYoYo,
	pattern.IDPacedCadence: simulateCadence,
}

// NewSimulateCommand writes a synthetic capture file for a named
// scenario.
func NewSimulateCommand(root *RootOptions) *cobra.Command {
	var outPath string
	var startMs int64

	cmd := &cobra.Command{
		Use:       "simulate <scenario>",
		Short:     "Write a capture file that triggers a built-in pattern",
		Args:      cobra.ExactArgs(1),
		ValidArgs: scenarioNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := scenarios[args[0]]
			if !ok {
				return fmt.Errorf("unknown scenario %q: choose one of %v", args[0], scenarioNames())
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()

			w, err := replay.NewWriter(f)
			if err != nil {
				return err
			}
			events := gen(startMs)
			for _, ev := range events {
				if err := w.Write(ev); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d events for %s to %s (session %s)\n",
				len(events), args[0], outPath, w.Header().Session)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "capture.jsonl", "capture file to write")
	cmd.Flags().Int64Var(&startMs, "start-ms", 1000, "timestamp of the first event")
	return cmd
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func simulateKonami(t int64) []input.Event {
	tokens := []string{
		"ArrowUp", "ArrowUp", "ArrowDown", "ArrowDown",
		"ArrowLeft", "ArrowRight", "ArrowLeft", "ArrowRight",
		"b", "a",
	}
	events := make([]input.Event, 0, len(tokens))
	for _, tok := range tokens {
		events = append(events, input.Event{Kind: input.KindKey, Key: tok, TimestampMs: t})
		t += 200
	}
	return events
}

func simulateCircle(t int64) []input.Event {
	const (
		cx, cy, r = 300.0, 300.0, 80.0
		steps     = 24
	)
	events := make([]input.Event, 0, steps+2)
	events = append(events, input.Event{
		Kind: input.KindPointerDown, X: cx + r, Y: cy, TimestampMs: t,
	})
	for i := 1; i <= steps; i++ {
		t += 30
		a := 2 * math.Pi * float64(i) / steps
		events = append(events, input.Event{
			Kind:        input.KindPointerMove,
			X:           cx + r*math.Cos(a),
			Y:           cy + r*math.Sin(a),
			TimestampMs: t,
		})
	}
	t += 30
	events = append(events, input.Event{Kind: input.KindPointerUp, X: cx + r, Y: cy, TimestampMs: t})
	return events
}

func simulateZigzag(t int64) []input.Event {
	events := []input.Event{{Kind: input.KindPointerDown, X: 100, Y: 300, TimestampMs: t}}
	x, dir := 100.0, 1.0
	for i := 0; i < 12; i++ {
		t += 40
		x += dir * 60
		dir = -dir
		events = append(events, input.Event{
			Kind: input.KindPointerMove, X: x, Y: 300 + float64(i%2)*20, TimestampMs: t,
		})
	}
	t += 40
	events = append(events, input.Event{Kind: input.KindPointerUp, X: x, Y: 300, TimestampMs: t})
	return events
}

func simulateRapidYoYo(t int64) []input.Event {
	var events []input.Event
	for i := 0; i < 8; i++ {
		events = append(events, input.Event{Kind: input.KindWheel, DeltaY: 120, TimestampMs: t})
		t += 60
	}
	for i := 0; i < 8; i++ {
		events = append(events, input.Event{Kind: input.KindWheel, DeltaY: -120, TimestampMs: t})
		t += 60
	}
	return events
}

func simulateCadence(t int64) []input.Event {
	var events []input.Event
	for i := 0; i < 10; i++ {
		events = append(events, input.Event{Kind: input.KindWheel, DeltaY: 100, TimestampMs: t})
		t += 500
	}
	return events
}
