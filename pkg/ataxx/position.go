package ataxx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Side identifies a player. Black (x) always moves first.
type Side uint8

const (
	Black Side = iota
	White
)

// Other returns the opposing side.
func (s Side) Other() Side { return 1 - s }

func (s Side) String() string {
	if s == Black {
		return "x"
	}
	return "o"
}

// Result is the terminal outcome of a finished game, from a neutral
// frame of reference.
type Result uint8

const (
	Ongoing Result = iota
	BlackWin
	WhiteWin
	Draw
)

func (r Result) String() string {
	switch r {
	case BlackWin:
		return "1-0"
	case WhiteWin:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// StartFEN is the standard Ataxx starting position: corners owned, center
// gap, Black to move.
const StartFEN = "x5o/7/7/7/7/7/o5x x 0 1"

// Position is a 7x7 Ataxx board together with side-to-move and move
// counters. The zero value is not a valid position; use SetFEN.
type Position struct {
	pieces    [2]Bitboard
	gaps      Bitboard
	turn      Side
	halfmoves int
	fullmoves int
}

// NewPosition parses fen and returns the resulting position.
func NewPosition(fen string) (*Position, error) {
	pos := new(Position)
	if err := pos.SetFEN(fen); err != nil {
		return nil, err
	}
	return pos, nil
}

func (pos *Position) Turn() Side { return pos.turn }
func (pos *Position) Ply() int   { return pos.halfmoves }

// Us returns the moving side's pieces, Them the opponent's.
func (pos *Position) Us() Bitboard   { return pos.pieces[pos.turn] }
func (pos *Position) Them() Bitboard { return pos.pieces[pos.turn.Other()] }

func (pos *Position) Count(side Side) int { return pos.pieces[side].Count() }

// square contents, used by SetFEN/GetFEN/Get.
const (
	pieceBlack = iota
	pieceWhite
	pieceGap
	pieceEmpty
)

func (pos *Position) set(sq Square, piece int) {
	switch piece {
	case pieceBlack:
		pos.pieces[Black] = pos.pieces[Black].Set(sq)
		pos.pieces[White] = pos.pieces[White].Unset(sq)
		pos.gaps = pos.gaps.Unset(sq)
	case pieceWhite:
		pos.pieces[Black] = pos.pieces[Black].Unset(sq)
		pos.pieces[White] = pos.pieces[White].Set(sq)
		pos.gaps = pos.gaps.Unset(sq)
	case pieceGap:
		pos.pieces[Black] = pos.pieces[Black].Unset(sq)
		pos.pieces[White] = pos.pieces[White].Unset(sq)
		pos.gaps = pos.gaps.Set(sq)
	default:
		pos.pieces[Black] = pos.pieces[Black].Unset(sq)
		pos.pieces[White] = pos.pieces[White].Unset(sq)
		pos.gaps = pos.gaps.Unset(sq)
	}
}

// Get returns the contents of sq: pieceBlack, pieceWhite, pieceGap or
// pieceEmpty.
func (pos *Position) Get(sq Square) int {
	switch {
	case pos.pieces[Black].Get(sq):
		return pieceBlack
	case pos.pieces[White].Get(sq):
		return pieceWhite
	case pos.gaps.Get(sq):
		return pieceGap
	default:
		return pieceEmpty
	}
}

// ErrBadFEN is returned by SetFEN when the position field can't be parsed.
var ErrBadFEN = errors.New("ataxx: malformed fen")

// SetFEN replaces the position's state with the one encoded by fen.
func (pos *Position) SetFEN(fen string) error {
	fields := strings.Split(strings.TrimSpace(fen), " ")
	if len(fields) < 1 {
		return fmt.Errorf("%w: %q", ErrBadFEN, fen)
	}

	pos.pieces[Black] = 0
	pos.pieces[White] = 0
	pos.gaps = 0
	pos.turn = Black
	pos.halfmoves = 0
	pos.fullmoves = 1

	sq := 42
	for _, c := range fields[0] {
		switch {
		case c == 'x':
			pos.set(Square(sq), pieceBlack)
			sq++
		case c == 'o':
			pos.set(Square(sq), pieceWhite)
			sq++
		case c == '-':
			pos.set(Square(sq), pieceGap)
			sq++
		case c >= '1' && c <= '7':
			sq += int(c - '0')
		case c == '/':
			sq -= 14
		default:
			return fmt.Errorf("%w: unexpected %q in %q", ErrBadFEN, c, fen)
		}
	}

	if len(fields) >= 2 {
		if fields[1] == "o" {
			pos.turn = White
		} else {
			pos.turn = Black
		}
	}
	if len(fields) >= 3 {
		n, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("%w: bad halfmove clock in %q", ErrBadFEN, fen)
		}
		pos.halfmoves = n
	}
	if len(fields) >= 4 {
		n, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("%w: bad fullmove counter in %q", ErrBadFEN, fen)
		}
		pos.fullmoves = n
	}

	return nil
}

// GetFEN serializes the position to its FEN string.
func (pos *Position) GetFEN() string {
	var b strings.Builder

	gaps := 0
	flush := func() {
		if gaps > 0 {
			b.WriteString(strconv.Itoa(gaps))
			gaps = 0
		}
	}

	for sq := 42; sq >= 0; sq++ {
		switch pos.Get(Square(sq)) {
		case pieceBlack:
			flush()
			b.WriteByte('x')
		case pieceWhite:
			flush()
			b.WriteByte('o')
		case pieceGap:
			flush()
			b.WriteByte('-')
		default:
			gaps++
		}

		if sq%7 == 6 {
			sq -= 14
			flush()
			if sq >= -1 {
				b.WriteByte('/')
			}
		}
	}

	fmt.Fprintf(&b, " %s %d %d", pos.turn, pos.halfmoves, pos.fullmoves)
	return b.String()
}

// doublesFrom returns every empty square a jump from sq can reach.
func (pos *Position) doublesFrom(sq Square) Bitboard {
	return Bitboard(0).Set(sq).Doubles() &^ (pos.pieces[Black] | pos.pieces[White] | pos.gaps)
}

// empty returns every square with neither a piece nor a gap on it.
func (pos *Position) empty() Bitboard {
	return Bitboard(all) &^ (pos.pieces[Black] | pos.pieces[White] | pos.gaps)
}

// Empty returns every square with neither a piece nor a gap on it.
func (pos *Position) Empty() Bitboard { return pos.empty() }

// HasMoves reports whether the side to move has any legal non-pass move.
func (pos *Position) HasMoves() bool {
	us := pos.Us()
	empty := pos.empty()
	return us.Singles()&empty != 0 || us.Doubles()&empty != 0
}

// IsLegalMove reports whether m is legal for the side to move in pos. A
// single-square move's From and To are both the destination (a
// duplication move has no real origin — it clones an adjacent piece);
// a two-square move's From is a real origin whose piece relocates.
func (pos *Position) IsLegalMove(m Move) bool {
	if m.IsPass() {
		return !pos.HasMoves()
	}
	if !pos.empty().Get(m.To) {
		return false
	}
	if m.IsSingle() {
		return pos.Us().Singles().Get(m.To)
	}
	if !pos.pieces[pos.turn].Get(m.From) {
		return false
	}
	return pos.doublesFrom(m.From).Get(m.To)
}

// LegalMoves enumerates every legal move for the side to move, including
// the pass move when the mover has no other option.
func (pos *Position) LegalMoves() []Move {
	if !pos.HasMoves() {
		return []Move{NullMove}
	}

	var moves []Move
	empty := pos.empty()
	us := pos.Us()

	for to := us.Singles() & empty; !to.Empty(); {
		dst := to.LSB()
		to = to.Unset(dst)
		moves = append(moves, Move{dst, dst})
	}

	for from := us; !from.Empty(); {
		sq := from.LSB()
		from = from.Unset(sq)

		for to := pos.doublesFrom(sq) & empty; !to.Empty(); {
			dst := to.LSB()
			to = to.Unset(dst)
			moves = append(moves, Move{sq, dst})
		}
	}
	return moves
}

// ErrIllegalMove is returned by MakeMove when m is not legal in pos.
var ErrIllegalMove = errors.New("ataxx: illegal move")

// MakeMove applies m to pos, which must be legal (checked with
// IsLegalMove by the caller — the play loop always validates first).
func (pos *Position) MakeMove(m Move) error {
	if !pos.IsLegalMove(m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	if m.IsPass() {
		pos.turn = pos.turn.Other()
		return nil
	}

	bbTo := Bitboard(0).Set(m.To)
	bbFrom := Bitboard(0).Set(m.From)
	neighbours := bbTo.Singles()

	pos.pieces[pos.turn] ^= bbTo | bbFrom

	captured := pos.pieces[pos.turn.Other()] & neighbours
	pos.pieces[pos.turn] ^= captured
	pos.pieces[pos.turn.Other()] ^= captured

	pos.halfmoves++
	if captured != 0 || m.IsSingle() {
		pos.halfmoves = 0
	}

	pos.turn = pos.turn.Other()
	if pos.turn == Black {
		pos.fullmoves++
	}

	return nil
}

// IsGameOver reports whether the rule engine's own terminal conditions
// (eradication, no legal moves for either side, or the 100-halfmove
// clock) have been reached.
func (pos *Position) IsGameOver() bool {
	result, _ := pos.GetResult()
	return result != Ongoing
}

// GetResult evaluates the rule engine's terminal state and a short,
// human-readable reason. Callers should check IsGameOver (or the
// Ongoing sentinel) before trusting the result.
func (pos *Position) GetResult() (Result, string) {
	stm, xtm := pos.turn, pos.turn.Other()

	if pos.halfmoves >= 100 {
		return Draw, "50-move rule"
	}

	if pos.pieces[stm].Empty() {
		return winFor(xtm), "eradication"
	}
	if pos.pieces[xtm].Empty() {
		return winFor(stm), "eradication"
	}

	both := pos.pieces[Black] | pos.pieces[White]
	if (both.Singles()|both.Doubles())&pos.empty() == 0 {
		stmN, xtmN := pos.pieces[stm].Count(), pos.pieces[xtm].Count()
		switch {
		case stmN > xtmN:
			return winFor(stm), "population count"
		case xtmN > stmN:
			return winFor(xtm), "population count"
		default:
			return Draw, "population count"
		}
	}

	return Ongoing, ""
}

func winFor(side Side) Result {
	if side == Black {
		return BlackWin
	}
	return WhiteWin
}
