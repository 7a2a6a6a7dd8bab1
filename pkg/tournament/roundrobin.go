package tournament

import "sync"

// RoundRobinGenerator turns a Scheduler's stream of player-pair
// encounters into a stream of concrete GameInfo entries, applying the
// color-alternation and opening-cycling rules that sit on top of pair
// selection. It is safe for concurrent use by multiple worker
// goroutines pulling from the same tournament.
//
// With Repeat set, each encounter is played GamesPerPairing times,
// colors alternating every game and the opening advancing every other
// game (so each opening is played once with each color). Without
// Repeat, GamesPerPairing is ignored: each encounter is played once per
// opening in the book, colors fixed, one game per opening.
//
// The underlying Scheduler wraps back to its first encounter once
// exhausted, and the generator keeps producing games indefinitely; it
// is the caller's responsibility to stop pulling once it has the
// number of games it wants (see Expected).
type RoundRobinGenerator struct {
	mu sync.Mutex

	scheduler       Scheduler
	numPlayers      int
	gamesPerPairing int
	numOpenings     int
	repeat          bool

	nextID         int
	curA, curB     int
	blockIndex     int
	encounterIndex int
}

// NewRoundRobinGenerator builds a generator over every distinct pair of
// numPlayers players (via the default round-robin Scheduler).
func NewRoundRobinGenerator(numPlayers, gamesPerPairing, numOpenings int, repeat bool) *RoundRobinGenerator {
	return NewGeneratorWithScheduler(&roundRobinPairs{}, numPlayers, gamesPerPairing, numOpenings, repeat)
}

// NewGeneratorWithScheduler builds a generator whose pair sequence
// comes from an arbitrary Scheduler (e.g. a Gauntlet).
func NewGeneratorWithScheduler(scheduler Scheduler, numPlayers, gamesPerPairing, numOpenings int, repeat bool) *RoundRobinGenerator {
	g := &RoundRobinGenerator{
		scheduler:       scheduler,
		numPlayers:      numPlayers,
		gamesPerPairing: gamesPerPairing,
		numOpenings:     numOpenings,
		repeat:          repeat,
	}
	g.scheduler.Initialize(numPlayers)
	g.curA, g.curB = g.scheduler.NextEncounter()
	return g
}

// Expected returns the total number of games a full cycle of the
// schedule produces: one block per encounter, block size
// GamesPerPairing (Repeat) or NumOpenings (not Repeat).
func (g *RoundRobinGenerator) Expected() int {
	total := g.scheduler.TotalEncounters()
	return total * g.blockSize()
}

func (g *RoundRobinGenerator) blockSize() int {
	if g.repeat {
		return g.gamesPerPairing
	}
	return g.numOpenings
}

// Next produces the next GameInfo in schedule order.
func (g *RoundRobinGenerator) Next() GameInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	info := GameInfo{ID: g.nextID}
	g.nextID++

	k := g.blockIndex
	if g.repeat {
		opening := (k / 2) % g.numOpenings
		if k%2 == 0 {
			info.Player1, info.Player2 = g.curA, g.curB
		} else {
			info.Player1, info.Player2 = g.curB, g.curA
		}
		info.OpeningIndex = opening
	} else {
		info.Player1, info.Player2 = g.curA, g.curB
		info.OpeningIndex = k % g.numOpenings
	}

	g.blockIndex++
	if g.blockIndex >= g.blockSize() {
		g.blockIndex = 0
		g.encounterIndex++
		if g.encounterIndex >= g.scheduler.TotalEncounters() {
			g.encounterIndex = 0
			g.scheduler.Initialize(g.numPlayers)
		}
		g.curA, g.curB = g.scheduler.NextEncounter()
	}

	return info
}
