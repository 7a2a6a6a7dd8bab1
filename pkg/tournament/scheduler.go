package tournament

import "fmt"

// Scheduler supplies the sequence of (a, b) player-index encounters a
// tournament plays, independent of how many games and which openings
// are then played for each encounter. Adapted from the teacher's
// schedule.Scheduler interface.
type Scheduler interface {
	Initialize(numPlayers int)
	NextEncounter() (a, b int)
	TotalEncounters() int
}

// NewScheduler resolves a scheduler by name: "round-robin" (every
// distinct pair, lexicographically) or "gauntlet" (player 0 against
// every other player).
func NewScheduler(name string) (Scheduler, error) {
	switch name {
	case "round-robin", "":
		return &roundRobinPairs{}, nil
	case "gauntlet":
		return &Gauntlet{}, nil
	default:
		return nil, fmt.Errorf("tournament: unknown scheduler %q", name)
	}
}

// roundRobinPairs enumerates every unordered pair (a, b) with a < b in
// lexicographic order: (0,1), (0,2), ..., (0,p-1), (1,2), ..., (p-2,p-1).
type roundRobinPairs struct {
	p       int
	a, b    int
	started bool
}

func (s *roundRobinPairs) Initialize(n int) {
	s.p = n
	s.a, s.b = 0, 1
	s.started = false
}

func (s *roundRobinPairs) NextEncounter() (int, int) {
	if !s.started {
		s.started = true
		return s.a, s.b
	}
	s.b++
	if s.b >= s.p {
		s.a++
		s.b = s.a + 1
	}
	return s.a, s.b
}

func (s *roundRobinPairs) TotalEncounters() int { return s.p * (s.p - 1) / 2 }

// Gauntlet pits player 0 against every other player, never pairing the
// other players against each other. Adapted from
// pkg/eve/tournament/schedule/gauntlet.go.
type Gauntlet struct {
	playerCount int
	game        int
}

func (g *Gauntlet) Initialize(n int) {
	g.playerCount = n
	g.game = 0
}

func (g *Gauntlet) NextEncounter() (int, int) {
	g.game++
	return 0, g.game
}

func (g *Gauntlet) TotalEncounters() int { return g.playerCount - 1 }
