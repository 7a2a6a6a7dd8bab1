package ataxx

import "testing"

func TestSetFENGetFENRoundTrip(t *testing.T) {
	cases := []string{
		StartFEN,
		"x5o/7/2-1-2/7/2-1-2/7/o5x o 3 2",
		"xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx/ooooooo/ooooooo/ooooooo x 0 1",
	}
	for _, fen := range cases {
		t.Run(fen, func(t *testing.T) {
			pos, err := NewPosition(fen)
			if err != nil {
				t.Fatalf("SetFEN(%q): %v", fen, err)
			}
			if got := pos.GetFEN(); got != fen {
				t.Errorf("round-trip: got %q, want %q", got, fen)
			}
		})
	}
}

func TestSetFENRejectsMalformed(t *testing.T) {
	_, err := NewPosition("xxxxxxq/7/7/7/7/7/7 x 0 1")
	if err == nil {
		t.Fatalf("expected error for malformed piece placement")
	}
}

func TestStartposTurnAndPly(t *testing.T) {
	pos, err := NewPosition(StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	if pos.Turn() != Black {
		t.Errorf("Turn() = %v, want Black", pos.Turn())
	}
	if pos.Ply() != 0 {
		t.Errorf("Ply() = %d, want 0", pos.Ply())
	}
}

func TestMakeMoveSingleAddsPiece(t *testing.T) {
	pos, err := NewPosition("x5o/7/7/7/7/7/o5x x 0 1")
	if err != nil {
		t.Fatal(err)
	}
	move, err := ParseMove("a6")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.IsLegalMove(move) {
		t.Fatalf("a6 should be legal, duplicating from Black's a7")
	}
	if err := pos.MakeMove(move); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if pos.Turn() != White {
		t.Errorf("turn should flip to White after Black's move")
	}
	if pos.Count(Black) != 3 {
		t.Errorf("Black piece count = %d, want 3", pos.Count(Black))
	}
}

func TestMakeMoveDoubleDoesNotResetHalfmoveClock(t *testing.T) {
	pos, err := NewPosition("x5o/7/7/7/7/7/o5x x 0 1")
	if err != nil {
		t.Fatal(err)
	}
	move, err := ParseMove("a7a5")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.IsLegalMove(move) {
		t.Fatalf("a7a5 should be a legal jump")
	}
	if err := pos.MakeMove(move); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if pos.Ply() != 1 {
		t.Errorf("halfmove clock after a jump = %d, want 1", pos.Ply())
	}
}

func TestMakeMoveRejectsIllegalMove(t *testing.T) {
	pos, err := NewPosition(StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	move, err := ParseMove("d4")
	if err != nil {
		t.Fatal(err)
	}
	before := pos.GetFEN()
	if pos.IsLegalMove(move) {
		t.Fatalf("d4 should not be reachable from the startpos")
	}
	if err := pos.MakeMove(move); err == nil {
		t.Fatalf("expected MakeMove to reject an illegal move")
	}
	if after := pos.GetFEN(); after != before {
		t.Errorf("position mutated by a rejected move: %q -> %q", before, after)
	}
}

func TestPassLegalOnlyWithoutMoves(t *testing.T) {
	pos, err := NewPosition(StartFEN)
	if err != nil {
		t.Fatal(err)
	}
	if pos.IsLegalMove(NullMove) {
		t.Errorf("pass should be illegal when moves are available")
	}

	blocked, err := NewPosition("xxxxxxx/xxxxxxx/xxxxxxx/xxxxxxx/ooooooo/ooooooo/oooooox o 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if blocked.HasMoves() {
		t.Skip("fixture has moves available, not exercising the pass path")
	}
	if !blocked.IsLegalMove(NullMove) {
		t.Errorf("pass should be legal with no other moves")
	}
}

func TestGetResultEradication(t *testing.T) {
	pos, err := NewPosition("ooooooo/ooooooo/ooooooo/ooooooo/ooooooo/ooooooo/oooooo1 x 0 1")
	if err != nil {
		t.Fatal(err)
	}
	result, reason := pos.GetResult()
	if result != WhiteWin || reason != "eradication" {
		t.Errorf("GetResult() = (%v, %q), want (WhiteWin, eradication)", result, reason)
	}
}

func TestGetResultFiftyMoveRule(t *testing.T) {
	pos, err := NewPosition("x5o/7/7/7/7/7/o5x x 100 60")
	if err != nil {
		t.Fatal(err)
	}
	result, reason := pos.GetResult()
	if result != Draw || reason != "50-move rule" {
		t.Errorf("GetResult() = (%v, %q), want (Draw, 50-move rule)", result, reason)
	}
}

func TestMoveStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0000", "a1", "g7", "a1b3", "c4e6"} {
		m, err := ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		if got := m.String(); got != s {
			t.Errorf("round-trip %q: got %q", s, got)
		}
	}
}

func TestParseMoveRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "z9", "a1a", "not a move"} {
		if _, err := ParseMove(s); err == nil {
			t.Errorf("ParseMove(%q): expected error", s)
		}
	}
}
