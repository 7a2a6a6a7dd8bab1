package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cuteataxx/arbiter/pkg/engine"
	"github.com/cuteataxx/arbiter/pkg/match"
	"github.com/cuteataxx/arbiter/pkg/pgn"
	"github.com/cuteataxx/arbiter/pkg/stats"
	"github.com/cuteataxx/arbiter/pkg/tournament"
)

// Run runs a tournament described by a config file end to end: load,
// spawn engines, play every scheduled game, report.
func Run() *cobra.Command {
	var checkpointPath string

	cmd := &cobra.Command{
		Use:   "run config-file",
		Short: "Run a tournament between registered engines",
		Long: heredoc.Doc(`run plays out a tournament as described by the given yaml
			config file: the engines taking part, how pairings and openings
			are scheduled, the search and adjudication settings, and
			optionally an SPRT hypothesis pair whose verdict is logged as
			results come in (the run still plays every scheduled game).

			Pass --checkpoint to save the running tallies after every game,
			for a human to inspect with "restart" if the run is interrupted.
			This does not replay or continue the game schedule itself —
			restarting a crashed tournament mid-schedule is out of scope.`),
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := tournament.LoadConfig(args[0])
			if err != nil {
				return err
			}

			spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			spin.Suffix = " loading opening book..."
			spin.Start()

			book, err := tournament.NewBook(cfg.Openings.File)
			if err != nil {
				spin.Stop()
				return fmt.Errorf("open opening book: %w", err)
			}

			scheduler, err := tournament.NewScheduler(cfg.Scheduler)
			if err != nil {
				spin.Stop()
				return err
			}

			numOpenings := book.Len()
			generator := tournament.NewGeneratorWithScheduler(
				scheduler, len(cfg.Engines), cfg.GamesPerPairing, numOpenings, cfg.Openings.Repeat)

			aggregator := tournament.NewResultsAggregator()

			var sink *pgn.Sink
			if cfg.PGNOut != "" {
				sink, err = pgn.NewFileSink(cfg.PGNOut, pgn.Config{Event: cfg.Event})
				if err != nil {
					spin.Stop()
					return fmt.Errorf("open pgn output: %w", err)
				}
			}

			spin.Suffix = " spawning engines..."

			var spinOnce sync.Once
			stopSpinner := func() { spinOnce.Do(spin.Stop) }

			pool := &tournament.WorkerPool{
				Concurrency:  cfg.Concurrency,
				Players:      cfg.Engines,
				Book:         book,
				Seed:         cfg.Search,
				Adjudication: cfg.Adjudication,
				Aggregator:   aggregator,
				PGN:          sink,
			}

			var monitor *tournament.SprtMonitor
			if cfg.Sprt != nil {
				monitor = &tournament.SprtMonitor{
					Elo0: cfg.Sprt.Elo0, Elo1: cfg.Sprt.Elo1,
					Alpha: cfg.Sprt.Alpha, Beta: cfg.Sprt.Beta,
				}
			}

			pool.Callbacks.OnEngineStart = func(ref engine.Ref) {
				stopSpinner()
			}

			pool.Callbacks.OnGameStarted = func(settings match.GameSettings) {
				logrus.Infof("\x1b[33mStarting\x1b[0m %s vs %s", settings.Engine1.Name, settings.Engine2.Name)
			}

			pool.Callbacks.OnGameFinished = func(outcome match.GameOutcome) {
				logrus.Infof("\x1b[32mFinished\x1b[0m %s (%s)", outcome.Result, outcome.Reason)
			}

			count := 0
			pool.Callbacks.OnResultsUpdate = func() {
				count++
				if count%5 == 0 {
					report(cfg, aggregator.Snapshot())
				}
				if monitor != nil {
					if verdict, llr := monitor.Check(aggregator.Snapshot()); verdict != tournament.VerdictContinue {
						logrus.Infof("sprt verdict reached: verdict=%v llr=%.3f", verdict, llr)
					}
				}
				if checkpointPath != "" {
					checkpoint := tournament.NewCheckpoint(generator, aggregator)
					if err := tournament.SaveCheckpoint(checkpointPath, checkpoint); err != nil {
						logrus.Errorf("save checkpoint: %v", err)
					}
				}
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			total := generator.Expected()
			runErr := pool.Run(ctx, generator, total)
			stopSpinner() // covers the zero-games-played case

			report(cfg, aggregator.Snapshot())
			return runErr
		},
	}

	cmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "Path to save the running tallies to, for later inspection with restart")
	return cmd
}

func report(cfg *tournament.Config, snap tournament.Snapshot) {
	fmt.Println("╔══════════════════════════════════════════════════════════╗")
	fmt.Println("║    Name               Elo Error   Wins Loss Draw   Total ║")
	fmt.Println("╠══════════════════════════════════════════════════════════╣")
	for i, e := range cfg.Engines {
		totals := snap.Totals[i]
		lower, elo, upper := stats.Elo(totals.Wins, totals.Draws, totals.Losses)

		format := "║ %2d. %-15s   %+4.0f %4.0f   %4d %4d %4d   %5d ║\n"
		if cfg.Scheduler == "gauntlet" && i == 0 {
			if elo >= 0 {
				format = "║ \x1b[32m%2d. %-15s   %+4.0f %4.0f   %4d %4d %4d   %5d\x1b[0m ║\n"
			} else {
				format = "║ \x1b[31m%2d. %-15s   %+4.0f %4.0f   %4d %4d %4d   %5d\x1b[0m ║\n"
			}
		}

		fmt.Printf(format,
			i+1, e.Name,
			elo, math.Abs(math.Max(upper-elo, elo-lower)),
			totals.Wins, totals.Losses, totals.Draws,
			totals.Wins+totals.Losses+totals.Draws)
	}
	fmt.Println("╚══════════════════════════════════════════════════════════╝")
}
