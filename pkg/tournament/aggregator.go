package tournament

import (
	"sync"

	"github.com/cuteataxx/arbiter/pkg/ataxx"
	"github.com/cuteataxx/arbiter/pkg/match"
)

// PairKey identifies an unordered pair of players, canonicalized so A < B
// regardless of which one played Black in any given game.
type PairKey struct {
	A, B int
}

func canonicalPair(player1, player2 int) (key PairKey, swapped bool) {
	if player1 <= player2 {
		return PairKey{A: player1, B: player2}, false
	}
	return PairKey{A: player2, B: player1}, true
}

// PairTally holds the head-to-head record between A and B, plus the
// pentanomial pair-count used for SPRT: each time A and B play the same
// opening with colors swapped, the two outcomes fold into one of the
// five WW/WD/DD/DL/LL buckets from A's perspective.
type PairTally struct {
	AWins, BWins, Draws int

	// Color breakdown across every game between A and B, independent of
	// which of the two played which color in any single game.
	WinsBlack, WinsWhite, LossesBlack, LossesWhite int

	WinWin, WinDraw, DrawDraw, DrawLoss, LossLoss int
}

// EngineTotals is one engine's aggregate record across every pairing.
type EngineTotals struct {
	Wins, Draws, Losses int

	// Color breakdown: how many of Wins/Losses were played as Black vs
	// White. WinsBlack+WinsWhite == Wins, LossesBlack+LossesWhite == Losses.
	WinsBlack, WinsWhite, LossesBlack, LossesWhite int
}

type pendingPair struct {
	have   bool
	aScore int // +1/0/-1 from A's perspective in the first game of the pair
}

// ResultsAggregator folds finished games into running per-pair and
// per-engine tallies. It is safe for concurrent use by the worker pool's
// goroutines; callers read a point-in-time Snapshot for reporting.
type ResultsAggregator struct {
	mu      sync.Mutex
	pairs   map[PairKey]*PairTally
	totals  map[int]*EngineTotals
	pending map[pendingKey]int // openingIndex+pair -> A's signed score, awaiting its mirror
}

type pendingKey struct {
	pair         PairKey
	openingIndex int
}

// NewResultsAggregator returns an aggregator with no recorded games.
func NewResultsAggregator() *ResultsAggregator {
	return &ResultsAggregator{
		pairs:   make(map[PairKey]*PairTally),
		totals:  make(map[int]*EngineTotals),
		pending: make(map[pendingKey]int),
	}
}

// Add records one finished game's outcome.
func (r *ResultsAggregator) Add(info GameInfo, outcome match.GameOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p1, p2 := info.Player1, info.Player2 // p1 = Black, p2 = White

	t1 := r.totalsFor(p1)
	t2 := r.totalsFor(p2)

	key, swapped := canonicalPair(p1, p2)
	pair := r.pairFor(key)

	var score1 int // +1 win, 0 draw, -1 loss, from p1's perspective
	switch outcome.Result {
	case ataxx.BlackWin: // p1 played Black
		score1 = 1
		t1.Wins++
		t1.WinsBlack++
		t2.Losses++
		t2.LossesWhite++
		pair.WinsBlack++
		pair.LossesWhite++
	case ataxx.WhiteWin: // p2 played White
		score1 = -1
		t1.Losses++
		t1.LossesBlack++
		t2.Wins++
		t2.WinsWhite++
		pair.WinsWhite++
		pair.LossesBlack++
	default:
		score1 = 0
		t1.Draws++
		t2.Draws++
	}

	aScore := score1
	if swapped {
		aScore = -score1
	}
	switch {
	case aScore > 0:
		pair.AWins++
	case aScore < 0:
		pair.BWins++
	default:
		pair.Draws++
	}

	r.foldPenta(key, info.OpeningIndex, aScore, pair)
}

func (r *ResultsAggregator) totalsFor(player int) *EngineTotals {
	t, ok := r.totals[player]
	if !ok {
		t = &EngineTotals{}
		r.totals[player] = t
	}
	return t
}

func (r *ResultsAggregator) pairFor(key PairKey) *PairTally {
	p, ok := r.pairs[key]
	if !ok {
		p = &PairTally{}
		r.pairs[key] = p
	}
	return p
}

// foldPenta pairs up the two colour-reversed games played at the same
// opening into one of the five pentanomial buckets, from A's
// perspective. The first game of a pair is buffered in r.pending; the
// second consumes and clears it.
func (r *ResultsAggregator) foldPenta(key PairKey, openingIndex int, aScore int, pair *PairTally) {
	pk := pendingKey{pair: key, openingIndex: openingIndex}
	first, ok := r.pending[pk]
	if !ok {
		r.pending[pk] = aScore
		return
	}
	delete(r.pending, pk)

	switch first + aScore {
	case 2:
		pair.WinWin++
	case 1:
		pair.WinDraw++
	case 0:
		pair.DrawDraw++
	case -1:
		pair.DrawLoss++
	case -2:
		pair.LossLoss++
	}
}

// Snapshot returns a deep copy of the current tallies, safe to read
// without holding the aggregator's lock.
type Snapshot struct {
	Pairs  map[PairKey]PairTally
	Totals map[int]EngineTotals
}

// restoreFrom overwrites the aggregator's tallies with previously
// checkpointed ones. Used only at startup, before any worker is running.
func (r *ResultsAggregator) restoreFrom(pairs map[PairKey]PairTally, totals map[int]EngineTotals) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pairs = make(map[PairKey]*PairTally, len(pairs))
	for k, v := range pairs {
		tally := v
		r.pairs[k] = &tally
	}

	r.totals = make(map[int]*EngineTotals, len(totals))
	for k, v := range totals {
		total := v
		r.totals[k] = &total
	}
}

func (r *ResultsAggregator) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		Pairs:  make(map[PairKey]PairTally, len(r.pairs)),
		Totals: make(map[int]EngineTotals, len(r.totals)),
	}
	for k, v := range r.pairs {
		snap.Pairs[k] = *v
	}
	for k, v := range r.totals {
		snap.Totals[k] = *v
	}
	return snap
}
