package tournament

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cuteataxx/arbiter/pkg/engine"
	"github.com/cuteataxx/arbiter/pkg/match"
	"github.com/cuteataxx/arbiter/pkg/pgn"
)

// WorkerPool runs a fixed number of concurrent game workers pulling
// GameInfo entries off a Generator, resolving each to a GameSettings,
// spawning a fresh pair of engine processes, and playing it out with
// pkg/match.Play. It is the supervised replacement for the teacher's
// raw "go tour.Thread()" loop: a worker's error (most commonly a
// failure to spawn an engine binary) cancels every other worker and is
// returned from Run, instead of being logged and silently dropped.
type WorkerPool struct {
	Concurrency int

	Players []engine.Ref // indexed by the Player1/Player2 fields of a GameInfo
	Book    *Book

	Seed         match.SearchSettings
	Adjudication match.AdjudicationSettings

	Aggregator *ResultsAggregator
	Callbacks  match.Callbacks
	PGN        *pgn.Sink
}

// Generator is the subset of RoundRobinGenerator's surface the pool
// needs, so a test can substitute a simpler stub.
type Generator interface {
	Next() GameInfo
}

// Run plays exactly totalGames games, respecting ctx cancellation. The
// first worker to return an error stops the feeder and every other
// worker via the errgroup's shared context.
func (wp *WorkerPool) Run(ctx context.Context, generator Generator, totalGames int) error {
	games := make(chan GameInfo)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(games)
		for i := 0; i < totalGames; i++ {
			info := generator.Next()
			select {
			case games <- info:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	concurrency := wp.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	for w := 0; w < concurrency; w++ {
		g.Go(func() error {
			for info := range games {
				if err := wp.runGame(gctx, info); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

func (wp *WorkerPool) runGame(ctx context.Context, info GameInfo) error {
	if info.Player1 < 0 || info.Player1 >= len(wp.Players) || info.Player2 < 0 || info.Player2 >= len(wp.Players) {
		return fmt.Errorf("tournament: game %d references unknown player (%d, %d)", info.ID, info.Player1, info.Player2)
	}

	ref1 := wp.Players[info.Player1]
	ref2 := wp.Players[info.Player2]

	e1, err := engine.Start(ref1)
	if err != nil {
		return fmt.Errorf("tournament: game %d: start %s: %w", info.ID, ref1.ID, err)
	}
	defer func() { _ = e1.Quit() }()

	e2, err := engine.Start(ref2)
	if err != nil {
		return fmt.Errorf("tournament: game %d: start %s: %w", info.ID, ref2.ID, err)
	}
	defer func() { _ = e2.Quit() }()

	settings := match.GameSettings{
		FEN:     wp.Book.At(info.OpeningIndex),
		Engine1: ref1,
		Engine2: ref2,
	}

	outcome := match.Play(wp.Adjudication, wp.Seed, settings, e1, e2, wp.Callbacks)

	if wp.Aggregator != nil {
		wp.Aggregator.Add(info, outcome)
	}
	if wp.PGN != nil {
		if err := wp.PGN.Record(ref1, ref2, outcome); err != nil {
			return fmt.Errorf("tournament: game %d: write pgn: %w", info.ID, err)
		}
	}
	if wp.Callbacks.OnResultsUpdate != nil {
		wp.Callbacks.OnResultsUpdate()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
