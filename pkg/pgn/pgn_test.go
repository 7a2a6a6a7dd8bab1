package pgn

import (
	"strings"
	"testing"

	"github.com/cuteataxx/arbiter/pkg/ataxx"
	"github.com/cuteataxx/arbiter/pkg/engine"
	"github.com/cuteataxx/arbiter/pkg/match"
)

func TestFormatHeadersAndResult(t *testing.T) {
	black := engine.Ref{ID: "a", Name: "AlphaBot"}
	white := engine.Ref{ID: "b", Name: "BetaBot"}

	outcome := match.GameOutcome{
		Result:   ataxx.BlackWin,
		Reason:   match.ReasonMaterialImbalance,
		StartFEN: ataxx.StartFEN,
		EndFEN:   "xxxxxxx/xxxxxxx/7/7/7/ooooooo/ooooooo o 4 5",
		History: []match.MoveRecord{
			{Move: mustMove("a6")},
			{Move: mustMove("a2")},
		},
	}

	sink := NewSink(nil, Config{Event: "Test Event"})
	text := sink.Format(black, white, outcome)

	for _, want := range []string{
		`[Event "Test Event"]`,
		`[Black "AlphaBot"]`,
		`[White "BetaBot"]`,
		`[Result "1-0"]`,
		`[Winner "AlphaBot"]`,
		`[Loser "BetaBot"]`,
		`[Adjudicated "Material imbalance"]`,
		`[PlyCount "2"]`,
		`1. a6 a2`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Format output missing %q:\n%s", want, text)
		}
	}
}

func TestFormatDrawHasNoWinnerHeader(t *testing.T) {
	black := engine.Ref{Name: "A"}
	white := engine.Ref{Name: "B"}
	outcome := match.GameOutcome{Result: ataxx.Draw, StartFEN: ataxx.StartFEN, EndFEN: ataxx.StartFEN}

	sink := NewSink(nil, Config{})
	text := sink.Format(black, white, outcome)

	if strings.Contains(text, "Winner") {
		t.Errorf("draw record should not carry a Winner header:\n%s", text)
	}
	if !strings.Contains(text, `[Result "1/2-1/2"]`) {
		t.Errorf("missing draw result header:\n%s", text)
	}
}

func TestFormatIllegalMoveAdjudicatedAfterLegalPlies(t *testing.T) {
	black := engine.Ref{Name: "A"}
	white := engine.Ref{Name: "B"}

	outcome := match.GameOutcome{
		Result:   ataxx.WhiteWin,
		Reason:   match.ReasonIllegalMove,
		StartFEN: ataxx.StartFEN,
		EndFEN:   "xxxxxxx/xxxxxxx/7/7/7/ooooooo/ooooooo o 4 5",
		History: []match.MoveRecord{
			{Move: mustMove("a6")},
			{Move: mustMove("a2")},
		},
	}

	sink := NewSink(nil, Config{})
	text := sink.Format(black, white, outcome)

	if !strings.Contains(text, `[Adjudicated "Illegal move"]`) {
		t.Errorf("Format output missing Adjudicated header for an illegal move after legal plies:\n%s", text)
	}
}

func TestFormatEngineCrashIsAdjudicated(t *testing.T) {
	black := engine.Ref{Name: "A"}
	white := engine.Ref{Name: "B"}

	outcome := match.GameOutcome{
		Result:   ataxx.BlackWin,
		Reason:   match.ReasonEngineCrash,
		StartFEN: ataxx.StartFEN,
		EndFEN:   ataxx.StartFEN,
	}

	sink := NewSink(nil, Config{})
	text := sink.Format(black, white, outcome)

	if !strings.Contains(text, `[Adjudicated "Engine crash"]`) {
		t.Errorf("Format output missing Adjudicated header for an engine crash:\n%s", text)
	}
}

func mustMove(s string) ataxx.Move {
	m, err := ataxx.ParseMove(s)
	if err != nil {
		panic(err)
	}
	return m
}
