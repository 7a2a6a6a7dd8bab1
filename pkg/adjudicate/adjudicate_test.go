package adjudicate

import (
	"testing"

	"github.com/cuteataxx/arbiter/pkg/ataxx"
)

func mustPosition(t *testing.T, fen string) *ataxx.Position {
	t.Helper()
	pos, err := ataxx.NewPosition(fen)
	if err != nil {
		t.Fatalf("NewPosition(%q): %v", fen, err)
	}
	return pos
}

func TestMaterialFiresOnImbalanceAfterMinPlies(t *testing.T) {
	pos := mustPosition(t, "xxxxxxx/xxxxxxx/xxxxxxx/7/7/ooo1ooo/ooo1ooo x 10 6")
	settings := MaterialSettings{Score: 4, MinPlies: 5}
	if !Material(pos, settings) {
		t.Errorf("Material: expected imbalance to fire")
	}
}

func TestMaterialWithholdsBeforeMinPlies(t *testing.T) {
	pos := mustPosition(t, "xxxxxxx/xxxxxxx/xxxxxxx/7/7/ooo1ooo/ooo1ooo x 4 3")
	settings := MaterialSettings{Score: 4, MinPlies: 5}
	if Material(pos, settings) {
		t.Errorf("Material: should not fire before MinPlies")
	}
}

func TestMaterialWithholdsBelowScore(t *testing.T) {
	pos := mustPosition(t, "x5o/7/7/7/7/7/o5x x 10 6")
	settings := MaterialSettings{Score: 4, MinPlies: 0}
	if Material(pos, settings) {
		t.Errorf("Material: balanced position should not fire")
	}
}

func TestGamelength(t *testing.T) {
	pos := mustPosition(t, "x5o/7/7/7/7/7/o5x x 40 21")
	if Gamelength(pos, 50) {
		t.Errorf("Gamelength: should not fire below max plies")
	}
	if !Gamelength(pos, 40) {
		t.Errorf("Gamelength: should fire at max plies")
	}
}

func TestEasyFillDoesNotFireWithMovesAvailable(t *testing.T) {
	pos := mustPosition(t, ataxx.StartFEN)
	if EasyFill(pos) {
		t.Errorf("EasyFill: should not fire while the mover still has moves")
	}
}
