// Package adjudicate implements the early-termination rules a tournament
// may apply before a position reaches the rule engine's own terminal
// state: material imbalance, an unwinnable "easy fill", and a maximum
// game length. Each predicate is pure and takes no side effects.
package adjudicate

import "github.com/cuteataxx/arbiter/pkg/ataxx"

// MaterialSettings caps a material-imbalance adjudication: it fires once
// the position has been played at least MinPlies and the piece-count gap
// reaches Score.
type MaterialSettings struct {
	Score    int
	MinPlies int
}

// Material reports whether the game should be adjudicated on material
// imbalance. The winner, when true, is always the side to move — a large
// enough lead for the side on move is treated as decisive.
func Material(pos *ataxx.Position, settings MaterialSettings) bool {
	if pos.Ply() < settings.MinPlies {
		return false
	}
	diff := pos.Count(ataxx.Black) - pos.Count(ataxx.White)
	if diff < 0 {
		diff = -diff
	}
	return diff >= settings.Score
}

// EasyFill reports whether the side to move is forced to pass while the
// opponent can single-handedly reach every remaining empty square — the
// mover can never contest another square, so the game is a foregone win
// for the side not to move.
func EasyFill(pos *ataxx.Position) bool {
	if pos.HasMoves() {
		return false
	}

	them := pos.Them()
	reach := them.Singles() | them.Doubles()
	return pos.Empty()&^reach == 0
}

// Gamelength reports whether the position has reached maxPlies without
// a natural conclusion. The result, when true, is always a draw.
func Gamelength(pos *ataxx.Position, maxPlies int) bool {
	return pos.Ply() >= maxPlies
}
