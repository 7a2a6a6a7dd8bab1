// Package match drives a single Ataxx game between two already-spawned
// engine processes: it alternates engines by side to move, enforces the
// clock, parses and legality-checks replies, runs the configured
// adjudicators, and classifies the final result.
package match

import (
	"github.com/cuteataxx/arbiter/pkg/ataxx"
	"github.com/cuteataxx/arbiter/pkg/engine"
)

// Mode selects which clock semantics a SearchSettings carries.
type Mode uint8

const (
	ModeTime Mode = iota
	ModeMovetime
	ModeDepth
	ModeNodes
	ModeInfinite
)

// SearchSettings is the tagged variant used both to seed a game's clock
// and to describe a fixed-depth/nodes/infinite search with no clock
// enforcement.
type SearchSettings struct {
	Mode Mode `yaml:"mode"`

	BTime int `yaml:"btime,omitempty"` // ms, ModeTime
	WTime int `yaml:"wtime,omitempty"` // ms, ModeTime
	BInc  int `yaml:"binc,omitempty"`  // ms, ModeTime
	WInc  int `yaml:"winc,omitempty"`  // ms, ModeTime

	Movetime int `yaml:"movetime,omitempty"` // ms, ModeMovetime

	Depth int `yaml:"depth,omitempty"` // ModeDepth
	Nodes int `yaml:"nodes,omitempty"` // ModeNodes
}

// GameSettings is the materialized view of a GameInfo: the opening FEN
// and the two engine descriptors, resolved just before play and
// discarded after.
type GameSettings struct {
	FEN     string
	Engine1 engine.Ref // plays Black
	Engine2 engine.Ref // plays White
}

// AdjudicationSettings configures the optional early-termination
// predicates. A nil Material/Gamelength disables that predicate.
type AdjudicationSettings struct {
	Material      *MaterialAdjudication `yaml:"material,omitempty"`
	EasyFill      bool                  `yaml:"easyfill,omitempty"`
	GamelengthMax *int                  `yaml:"gamelength-max,omitempty"`

	TimeoutBufferMs int `yaml:"timeout-buffer-ms,omitempty"`
}

// MaterialAdjudication mirrors adjudicate.MaterialSettings without
// importing pkg/adjudicate's package path into the data model — kept as
// a plain value type here and converted at the call site.
type MaterialAdjudication struct {
	Score    int `yaml:"score"`
	MinPlies int `yaml:"min-plies"`
}

// MoveRecord is one played ply.
type MoveRecord struct {
	Move      ataxx.Move
	ElapsedMs int
}

// Reason classifies why a GameOutcome ended.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonNormal
	ReasonMaterialImbalance
	ReasonEasyFill
	ReasonGamelength
	ReasonIllegalMove
	ReasonEngineCrash
	ReasonOutOfTime
)

func (r Reason) String() string {
	switch r {
	case ReasonNormal:
		return "normal"
	case ReasonMaterialImbalance:
		return "material imbalance"
	case ReasonEasyFill:
		return "easyfill"
	case ReasonGamelength:
		return "gamelength"
	case ReasonIllegalMove:
		return "illegal move"
	case ReasonEngineCrash:
		return "engine crash"
	case ReasonOutOfTime:
		return "out of time"
	default:
		return "none"
	}
}

// GameOutcome is the terminal record of one played game.
type GameOutcome struct {
	Result   ataxx.Result
	Reason   Reason
	StartFEN string
	EndFEN   string
	History  []MoveRecord
}

// Callbacks are one-way outbound notifications a Play invocation emits.
// Every field is optional; a nil field is simply not invoked.
type Callbacks struct {
	OnEngineStart   func(ref engine.Ref)
	OnGameStarted   func(settings GameSettings)
	OnGameFinished  func(outcome GameOutcome)
	OnResultsUpdate func()
	OnInfoSend      func(engineID, line string)
	OnInfoRecv      func(engineID, line string)
	OnMove          func(side ataxx.Side, move ataxx.Move)
}

func (cb Callbacks) engineStart(ref engine.Ref) {
	if cb.OnEngineStart != nil {
		cb.OnEngineStart(ref)
	}
}

func (cb Callbacks) gameStarted(s GameSettings) {
	if cb.OnGameStarted != nil {
		cb.OnGameStarted(s)
	}
}

func (cb Callbacks) gameFinished(o GameOutcome) {
	if cb.OnGameFinished != nil {
		cb.OnGameFinished(o)
	}
}

func (cb Callbacks) infoSend(id, line string) {
	if cb.OnInfoSend != nil {
		cb.OnInfoSend(id, line)
	}
}

func (cb Callbacks) infoRecv(id, line string) {
	if cb.OnInfoRecv != nil {
		cb.OnInfoRecv(id, line)
	}
}

func (cb Callbacks) move(side ataxx.Side, m ataxx.Move) {
	if cb.OnMove != nil {
		cb.OnMove(side, m)
	}
}
