package tournament

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/cuteataxx/arbiter/pkg/engine"
	"github.com/cuteataxx/arbiter/pkg/match"
)

// TestMain lets this binary re-exec itself as a fake engine that always
// plays the forced pass "0000". The test starts every game on a board
// full of Black pieces, so the rule engine's eradication check ends it
// before either engine is asked for a move.
func TestMain(m *testing.M) {
	if os.Getenv("ENGINE_TEST_HELPER") == "1" {
		runFakeEngine()
		return
	}
	os.Exit(m.Run())
}

func runFakeEngine() {
	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		switch {
		case strings.TrimSpace(line) == "uai":
			fmt.Println("uaiok")
		case strings.TrimSpace(line) == "isready":
			fmt.Println("readyok")
		case strings.HasPrefix(strings.TrimSpace(line), "go"):
			fmt.Println("bestmove 0000")
		case strings.TrimSpace(line) == "quit":
			return
		}
	}
}

// fixedGenerator always returns the same kind of GameInfo, enough to
// exercise the worker pool's spawn/play/aggregate wiring without
// depending on RoundRobinGenerator's own scheduling logic.
type fixedGenerator struct{ n int }

func (f *fixedGenerator) Next() GameInfo {
	id := f.n
	f.n++
	return GameInfo{ID: id, Player1: 0, Player2: 1, OpeningIndex: 0}
}

func TestWorkerPoolRunsScheduledGames(t *testing.T) {
	ref := engine.Ref{ID: "fake", Name: "fake", Path: os.Args[0]}
	t.Setenv("ENGINE_TEST_HELPER", "1")

	book, err := NewBook("")
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}
	// Override the book's single entry with an already-decided board so
	// the fake engines are never actually asked to find a move.
	book.entries[0] = "xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx x 0 1"

	agg := NewResultsAggregator()
	pool := &WorkerPool{
		Concurrency: 2,
		Players:     []engine.Ref{ref, ref},
		Book:        book,
		Seed:        match.SearchSettings{Mode: match.ModeMovetime, Movetime: 1000},
		Aggregator:  agg,
	}

	gen := &fixedGenerator{}
	if err := pool.Run(context.Background(), gen, 3); err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap := agg.Snapshot()
	total := snap.Totals[0].Wins + snap.Totals[0].Draws + snap.Totals[0].Losses
	if total != 3 {
		t.Errorf("player 0 played in %d games, want 3", total)
	}
	if snap.Totals[0].Wins != 3 {
		t.Errorf("player 0 wins = %d, want 3 (Black wins a board with no White pieces by eradication)", snap.Totals[0].Wins)
	}
}
