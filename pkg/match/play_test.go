package match

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cuteataxx/arbiter/pkg/ataxx"
	"github.com/cuteataxx/arbiter/pkg/engine"
)

// TestMain lets this binary re-exec itself as a scripted fake engine,
// configured entirely through environment variables so each spawned
// instance in a test can behave differently.
func TestMain(m *testing.M) {
	if os.Getenv("ENGINE_TEST_HELPER") == "1" {
		runFakeEngine()
		return
	}
	os.Exit(m.Run())
}

func runFakeEngine() {
	moves := splitNonEmpty(os.Getenv("FAKE_MOVES"))
	delays := splitNonEmpty(os.Getenv("FAKE_DELAY_MS"))

	goCount := 0
	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "uai":
			fmt.Println("uaiok")
		case line == "isready":
			fmt.Println("readyok")
		case strings.HasPrefix(line, "go"):
			if goCount < len(delays) {
				if ms, err := strconv.Atoi(delays[goCount]); err == nil {
					time.Sleep(time.Duration(ms) * time.Millisecond)
				}
			}
			move := "a1"
			if goCount < len(moves) {
				move = moves[goCount]
			}
			goCount++
			fmt.Println("bestmove " + move)
		case line == "quit":
			return
		}
	}
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func startFakeEngineEnv(t *testing.T, moves, delaysMs string) *engine.Engine {
	t.Helper()
	env := append(os.Environ(), "ENGINE_TEST_HELPER=1", "FAKE_MOVES="+moves, "FAKE_DELAY_MS="+delaysMs)
	e, err := engine.StartWithEnv(engine.Ref{ID: "fake", Name: "fake", Path: os.Args[0]}, env)
	if err != nil {
		t.Fatalf("engine.StartWithEnv: %v", err)
	}
	t.Cleanup(func() { _ = e.Quit() })
	return e
}

func TestPlayMovetimeWithinBudgetContinues(t *testing.T) {
	e1 := startFakeEngineEnv(t, "a6,b6", "10,10")
	e2 := startFakeEngineEnv(t, "a2,b2", "10,10")

	outcome := Play(
		AdjudicationSettings{TimeoutBufferMs: 50},
		SearchSettings{Mode: ModeMovetime, Movetime: 100},
		GameSettings{FEN: ataxx.StartFEN},
		e1, e2, Callbacks{},
	)

	if outcome.Reason == ReasonOutOfTime {
		t.Errorf("Play: unexpected OutOfTime with moves well inside the budget")
	}
}

func TestPlayMovetimeOverBudgetForfeits(t *testing.T) {
	e1 := startFakeEngineEnv(t, "a6", "160")
	e2 := startFakeEngineEnv(t, "a2", "0")

	outcome := Play(
		AdjudicationSettings{TimeoutBufferMs: 50},
		SearchSettings{Mode: ModeMovetime, Movetime: 100},
		GameSettings{FEN: ataxx.StartFEN},
		e1, e2, Callbacks{},
	)

	if outcome.Reason != ReasonOutOfTime {
		t.Fatalf("Play: reason = %v, want OutOfTime", outcome.Reason)
	}
	if outcome.Result != ataxx.WhiteWin {
		t.Errorf("Play: result = %v, want WhiteWin (Black overran the clock)", outcome.Result)
	}
}

func TestPlayIllegalMoveForfeits(t *testing.T) {
	e1 := startFakeEngineEnv(t, "not a move", "0")
	e2 := startFakeEngineEnv(t, "g7", "0")

	outcome := Play(
		AdjudicationSettings{},
		SearchSettings{Mode: ModeMovetime, Movetime: 1000},
		GameSettings{FEN: ataxx.StartFEN},
		e1, e2, Callbacks{},
	)

	if outcome.Reason != ReasonIllegalMove {
		t.Fatalf("Play: reason = %v, want IllegalMove", outcome.Reason)
	}
	if outcome.Result != ataxx.WhiteWin {
		t.Errorf("Play: result = %v, want WhiteWin", outcome.Result)
	}
	if len(outcome.History) != 0 {
		t.Errorf("Play: history length = %d, want 0 (the illegal attempt is not recorded)", len(outcome.History))
	}
	if outcome.EndFEN != outcome.StartFEN {
		t.Errorf("Play: position mutated despite the illegal-move termination")
	}
}

func TestPlayTimeModeAppliesIncrementAfterSubtraction(t *testing.T) {
	e1 := startFakeEngineEnv(t, "a6", "30")
	e2 := startFakeEngineEnv(t, "not a move", "0")

	clock := NewGameClock(SearchSettings{Mode: ModeTime, BTime: 100, WTime: 100, BInc: 10, WInc: 10}, 0)
	clock.AfterMove(ataxx.Black, 30)
	if got := clock.BTime(); got != 70 {
		t.Fatalf("after subtraction, BTime = %d, want 70", got)
	}
	if expiry := clock.Expired(ataxx.Black, 30); expiry != ExpiryNone {
		t.Fatalf("Expired fired early at BTime=70: %v", expiry)
	}
	clock.Increment(ataxx.Black)
	if got := clock.BTime(); got != 80 {
		t.Errorf("after increment, BTime = %d, want 80", got)
	}

	outcome := Play(
		AdjudicationSettings{},
		SearchSettings{Mode: ModeTime, BTime: 100, WTime: 100, BInc: 10, WInc: 10},
		GameSettings{FEN: ataxx.StartFEN},
		e1, e2, Callbacks{},
	)
	if outcome.Reason != ReasonIllegalMove {
		t.Fatalf("Play: reason = %v, want IllegalMove (White's reply)", outcome.Reason)
	}
}

func TestPlayStopsAtRuleEngineTerminalState(t *testing.T) {
	e1 := startFakeEngineEnv(t, "", "")
	e2 := startFakeEngineEnv(t, "", "")

	outcome := Play(
		AdjudicationSettings{},
		SearchSettings{Mode: ModeMovetime, Movetime: 1000},
		GameSettings{FEN: "xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx x 0 1"},
		e1, e2, Callbacks{},
	)

	if outcome.Reason != ReasonNormal {
		t.Fatalf("Play: reason = %v, want Normal (fully populated board)", outcome.Reason)
	}
	if outcome.Result != ataxx.BlackWin {
		t.Errorf("Play: result = %v, want BlackWin (eradication: White has no pieces)", outcome.Result)
	}
}
