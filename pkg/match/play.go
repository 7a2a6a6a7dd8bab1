package match

import (
	"time"

	"github.com/cuteataxx/arbiter/pkg/adjudicate"
	"github.com/cuteataxx/arbiter/pkg/ataxx"
	"github.com/cuteataxx/arbiter/pkg/engine"
)

// Play drives settings.Engine1 (Black) and settings.Engine2 (White)
// through one game, from the opening FEN to a terminal GameOutcome. The
// two engine handles must already be spawned; Play performs the
// newgame/isready handshake itself. Play never panics or returns an
// error across its boundary — every in-game failure is folded into the
// returned outcome's Reason, per the caller-facing contract of the
// per-ply state machine this implements.
func Play(adjudication AdjudicationSettings, seed SearchSettings, settings GameSettings, e1, e2 *engine.Engine, cb Callbacks) GameOutcome {
	pos, err := ataxx.NewPosition(settings.FEN)
	if err != nil {
		return GameOutcome{Result: ataxx.Draw, Reason: ReasonNone, StartFEN: settings.FEN, EndFEN: settings.FEN}
	}

	outcome := GameOutcome{StartFEN: settings.FEN}
	clock := NewGameClock(seed, adjudication.TimeoutBufferMs)

	engines := [2]*engine.Engine{e1, e2}
	refs := [2]engine.Ref{settings.Engine1, settings.Engine2}

	for i, e := range engines {
		if err := e.NewGame(); err != nil {
			return crash(pos)
		}
		cb.engineStart(refs[i])
	}

	cb.gameStarted(settings)

	for {
		if pos.IsGameOver() {
			result, _ := pos.GetResult()
			outcome.Result = result
			outcome.Reason = ReasonNormal
			break
		}

		if fired, result, reason := adjudicateOnce(pos, adjudication); fired {
			outcome.Result = result
			outcome.Reason = reason
			break
		}

		turn := pos.Turn()
		mover := engines[engineIndex(turn)]
		ref := refs[engineIndex(turn)]

		if err := mover.Position(pos.GetFEN()); err != nil {
			outcome.Result = winFor(turn.Other())
			outcome.Reason = ReasonEngineCrash
			break
		}
		cb.infoSend(ref.ID, "position fen "+pos.GetFEN())

		if err := mover.IsReady(); err != nil {
			outcome.Result = winFor(turn.Other())
			outcome.Reason = ReasonEngineCrash
			break
		}

		goArgs := clock.GoArgs()
		cb.infoSend(ref.ID, "go "+string(goArgs))

		t0 := time.Now()
		moveStr, err := mover.Go(goArgs, func(line string) { cb.infoRecv(ref.ID, line) })
		elapsed := int(time.Since(t0).Milliseconds())
		if err != nil {
			outcome.Result = winFor(turn.Other())
			outcome.Reason = ReasonEngineCrash
			break
		}

		move, parseErr := ataxx.ParseMove(moveStr)
		if parseErr != nil || !pos.IsLegalMove(move) {
			outcome.Result = winFor(turn.Other())
			outcome.Reason = ReasonIllegalMove
			break
		}

		outcome.History = append(outcome.History, MoveRecord{Move: move, ElapsedMs: elapsed})
		cb.move(turn, move)

		clock.AfterMove(turn, elapsed)

		if expiry := clock.Expired(turn, elapsed); expiry != ExpiryNone {
			if expiry == ExpiredBlack {
				outcome.Result = ataxx.WhiteWin
			} else {
				outcome.Result = ataxx.BlackWin
			}
			outcome.Reason = ReasonOutOfTime
			break
		}

		clock.Increment(turn)

		if err := pos.MakeMove(move); err != nil {
			// IsLegalMove already accepted this move; MakeMove can only
			// fail by disagreeing with IsLegalMove, which would be a
			// bug in pkg/ataxx, not a game-ending condition. Treat it
			// the same as any other engine-facing fault.
			outcome.Result = winFor(turn.Other())
			outcome.Reason = ReasonEngineCrash
			break
		}
	}

	outcome.EndFEN = pos.GetFEN()
	cb.gameFinished(outcome)
	return outcome
}

func crash(pos *ataxx.Position) GameOutcome {
	return GameOutcome{
		Result:   winFor(pos.Turn().Other()),
		Reason:   ReasonEngineCrash,
		StartFEN: pos.GetFEN(),
		EndFEN:   pos.GetFEN(),
	}
}

func engineIndex(side ataxx.Side) int {
	if side == ataxx.Black {
		return 0
	}
	return 1
}

func winFor(side ataxx.Side) ataxx.Result {
	if side == ataxx.Black {
		return ataxx.BlackWin
	}
	return ataxx.WhiteWin
}

// adjudicateOnce runs the enabled adjudicators in Material -> EasyFill ->
// Gamelength order, returning the first one that fires.
func adjudicateOnce(pos *ataxx.Position, settings AdjudicationSettings) (fired bool, result ataxx.Result, reason Reason) {
	if settings.Material != nil {
		ms := adjudicate.MaterialSettings{Score: settings.Material.Score, MinPlies: settings.Material.MinPlies}
		if adjudicate.Material(pos, ms) {
			return true, winFor(pos.Turn()), ReasonMaterialImbalance
		}
	}
	if settings.EasyFill && adjudicate.EasyFill(pos) {
		return true, winFor(pos.Turn().Other()), ReasonEasyFill
	}
	if settings.GamelengthMax != nil && adjudicate.Gamelength(pos, *settings.GamelengthMax) {
		return true, ataxx.Draw, ReasonGamelength
	}
	return false, ataxx.Ongoing, ReasonNone
}
