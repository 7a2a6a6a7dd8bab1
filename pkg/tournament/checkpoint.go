package tournament

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GeneratorState is RoundRobinGenerator's resumable cursor: which
// encounter and which slot within its game-block come next.
type GeneratorState struct {
	NextID         int `yaml:"next-id"`
	CurA           int `yaml:"cur-a"`
	CurB           int `yaml:"cur-b"`
	BlockIndex     int `yaml:"block-index"`
	EncounterIndex int `yaml:"encounter-index"`
}

// State snapshots the generator's cursor for checkpointing.
func (g *RoundRobinGenerator) State() GeneratorState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GeneratorState{
		NextID:         g.nextID,
		CurA:           g.curA,
		CurB:           g.curB,
		BlockIndex:     g.blockIndex,
		EncounterIndex: g.encounterIndex,
	}
}

// Restore resumes the generator's cursor from a previously saved State.
// The scheduler itself is not part of the saved state; Restore assumes
// the caller constructed the generator with the same scheduler kind and
// player count it was checkpointed with.
func (g *RoundRobinGenerator) Restore(s GeneratorState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID = s.NextID
	g.curA = s.CurA
	g.curB = s.CurB
	g.blockIndex = s.BlockIndex
	g.encounterIndex = s.EncounterIndex

	// Replay the scheduler up to the saved encounter so the encounters
	// after it come out in the same order as in the checkpointed run.
	g.scheduler.Initialize(g.numPlayers)
	for i := 0; i <= s.EncounterIndex; i++ {
		g.scheduler.NextEncounter()
	}
}

// PairEntry is one (PairKey, PairTally) record, used in place of a
// map[PairKey]PairTally in the checkpoint file: PairKey is a struct,
// and yaml mappings need scalar keys.
type PairEntry struct {
	Player1          int       `yaml:"player1"`
	Player2          int       `yaml:"player2"`
	Tally            PairTally `yaml:"tally"`
}

// TotalEntry is the equivalent flattening for per-engine totals.
type TotalEntry struct {
	Player int          `yaml:"player"`
	Totals EngineTotals `yaml:"totals"`
}

// Checkpoint is the full resumable state of a running tournament:
// enough to pick the schedule back up and keep accumulating into the
// same tallies, without replaying any already-finished game.
type Checkpoint struct {
	Generator GeneratorState `yaml:"generator"`
	Pairs     []PairEntry    `yaml:"pairs"`
	Totals    []TotalEntry   `yaml:"totals"`
}

// NewCheckpoint captures the generator's cursor and the aggregator's
// current tallies.
func NewCheckpoint(gen *RoundRobinGenerator, agg *ResultsAggregator) Checkpoint {
	snap := agg.Snapshot()

	c := Checkpoint{Generator: gen.State()}
	for key, tally := range snap.Pairs {
		c.Pairs = append(c.Pairs, PairEntry{Player1: key.A, Player2: key.B, Tally: tally})
	}
	for player, totals := range snap.Totals {
		c.Totals = append(c.Totals, TotalEntry{Player: player, Totals: totals})
	}
	return c
}

// SaveCheckpoint writes c to path as yaml, overwriting any existing file.
func SaveCheckpoint(path string, c Checkpoint) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("tournament: marshal checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("tournament: write checkpoint %s: %w", path, err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint previously written by SaveCheckpoint.
func LoadCheckpoint(path string) (Checkpoint, error) {
	var c Checkpoint
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("tournament: read checkpoint %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("tournament: parse checkpoint %s: %w", path, err)
	}
	return c, nil
}

// Resume rehydrates gen's cursor and agg's tallies from c. The
// aggregator's in-flight pentanomial pairing buffer (games whose
// colour-reversed mirror has not yet been played) is not part of a
// Checkpoint and is simply lost at a restart boundary: the next game
// at that opening starts a fresh pairing instead of completing the old
// one, so each game left waiting for its mirror at the restart costs
// one pentanomial pair.
func Resume(gen *RoundRobinGenerator, agg *ResultsAggregator, c Checkpoint) {
	gen.Restore(c.Generator)

	pairs := make(map[PairKey]PairTally, len(c.Pairs))
	for _, e := range c.Pairs {
		pairs[PairKey{A: e.Player1, B: e.Player2}] = e.Tally
	}
	totals := make(map[int]EngineTotals, len(c.Totals))
	for _, e := range c.Totals {
		totals[e.Player] = e.Totals
	}
	agg.restoreFrom(pairs, totals)
}
