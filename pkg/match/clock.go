package match

import (
	"fmt"

	"github.com/cuteataxx/arbiter/pkg/ataxx"
	"github.com/cuteataxx/arbiter/pkg/engine"
)

// ExpiryKind names which side's clock has expired, if any.
type ExpiryKind uint8

const (
	ExpiryNone ExpiryKind = iota
	ExpiredBlack
	ExpiredWhite
)

// GameClock is the mutable per-game clock seeded from a SearchSettings.
// In ModeTime it tracks remaining time per side; in every other mode it
// is stateless and Expired/AfterMove are no-ops except for the
// Movetime comparison, which takes the ply's elapsed time directly.
type GameClock struct {
	settings      SearchSettings
	timeoutBuffer int
}

// NewGameClock seeds a clock from the tournament's initial search
// settings. timeoutBufferMs comes from AdjudicationSettings and is
// applied only in Movetime mode; in Time mode a side forfeits as soon as
// its clock reaches zero or below, with no buffer.
func NewGameClock(seed SearchSettings, timeoutBufferMs int) *GameClock {
	return &GameClock{settings: seed, timeoutBuffer: timeoutBufferMs}
}

// AfterMove subtracts elapsedMs from the moving side's remaining time.
// A no-op outside ModeTime. Must be called before Expired, and Increment
// must follow Expired — see the exact ordering required by the play loop.
func (c *GameClock) AfterMove(side ataxx.Side, elapsedMs int) {
	if c.settings.Mode != ModeTime {
		return
	}
	if side == ataxx.Black {
		c.settings.BTime -= elapsedMs
	} else {
		c.settings.WTime -= elapsedMs
	}
}

// Expired reports whether the ply just played by mover (with the given
// elapsed time) blew the clock. ExpiredBlack/ExpiredWhite name the side
// whose time ran out — that side loses. In ModeTime it inspects
// remaining time after AfterMove's subtraction and before Increment. In
// ModeMovetime it compares elapsedMs directly against movetime+buffer,
// and only the mover's clock can expire.
func (c *GameClock) Expired(mover ataxx.Side, elapsedMs int) ExpiryKind {
	switch c.settings.Mode {
	case ModeTime:
		switch {
		case c.settings.BTime <= 0:
			return ExpiredBlack
		case c.settings.WTime <= 0:
			return ExpiredWhite
		default:
			return ExpiryNone
		}
	case ModeMovetime:
		if elapsedMs > c.settings.Movetime+c.timeoutBuffer {
			if mover == ataxx.Black {
				return ExpiredBlack
			}
			return ExpiredWhite
		}
		return ExpiryNone
	default:
		return ExpiryNone
	}
}

// Increment adds the moving side's increment to its remaining time. A
// no-op outside ModeTime.
func (c *GameClock) Increment(side ataxx.Side) {
	if c.settings.Mode != ModeTime {
		return
	}
	if side == ataxx.Black {
		c.settings.BTime += c.settings.BInc
	} else {
		c.settings.WTime += c.settings.WInc
	}
}

func (c *GameClock) BTime() int { return c.settings.BTime }
func (c *GameClock) WTime() int { return c.settings.WTime }

// GoArgs formats the "go" command arguments for the current clock state,
// per the mode-to-argument mapping of the engine subprocess protocol.
func (c *GameClock) GoArgs() engine.GoArgs {
	s := c.settings
	switch s.Mode {
	case ModeTime:
		return engine.GoArgs(fmt.Sprintf("btime %d wtime %d binc %d winc %d", s.BTime, s.WTime, s.BInc, s.WInc))
	case ModeMovetime:
		return engine.GoArgs(fmt.Sprintf("movetime %d", s.Movetime))
	case ModeDepth:
		return engine.GoArgs(fmt.Sprintf("depth %d", s.Depth))
	case ModeNodes:
		return engine.GoArgs(fmt.Sprintf("nodes %d", s.Nodes))
	default:
		return engine.GoArgs("infinite")
	}
}
