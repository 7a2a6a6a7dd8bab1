// Package pgn renders a finished match.GameOutcome as a PGN game
// record, field-for-field matching the header set the original CLI's
// play routine produces.
package pgn

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cuteataxx/arbiter/pkg/ataxx"
	"github.com/cuteataxx/arbiter/pkg/engine"
	"github.com/cuteataxx/arbiter/pkg/match"
)

// Config names the PGN's static headers and the tag used for each
// color, matching settings.pgn_event/colour1/colour2.
type Config struct {
	Event       string
	BlackHeader string // default "Black"
	WhiteHeader string // default "White"
}

func (c Config) blackHeader() string {
	if c.BlackHeader != "" {
		return c.BlackHeader
	}
	return "Black"
}

func (c Config) whiteHeader() string {
	if c.WhiteHeader != "" {
		return c.WhiteHeader
	}
	return "White"
}

// Sink writes one PGN game per Record call to an underlying writer. It
// is safe for concurrent use: games from parallel workers interleave
// only between, never within, a single Record call.
type Sink struct {
	mu  sync.Mutex
	out io.Writer
	cfg Config
}

// NewFileSink opens (creating if necessary, appending otherwise) the
// PGN output file at path.
func NewFileSink(path string, cfg Config) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("pgn: open %s: %w", path, err)
	}
	return NewSink(f, cfg), nil
}

// NewSink wraps an arbitrary writer, useful for tests.
func NewSink(out io.Writer, cfg Config) *Sink {
	return &Sink{out: out, cfg: cfg}
}

// Record formats and writes one finished game.
func (s *Sink) Record(black, white engine.Ref, outcome match.GameOutcome) error {
	text := s.Format(black, white, outcome)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.out, text)
	return err
}

// Format renders outcome as a PGN game record without writing it.
func (s *Sink) Format(black, white engine.Ref, outcome match.GameOutcome) string {
	var b strings.Builder

	header := func(key, value string) {
		fmt.Fprintf(&b, "[%s \"%s\"]\n", key, value)
	}

	header("Event", s.cfg.Event)
	header(s.cfg.blackHeader(), black.Name)
	header(s.cfg.whiteHeader(), white.Name)
	header("FEN", outcome.StartFEN)

	resultTag, winner, loser := resultHeaders(outcome.Result, black.Name, white.Name)
	header("Result", resultTag)
	if winner != "" {
		header("Winner", winner)
		header("Loser", loser)
	}

	if adjudicated := adjudicationLabel(outcome); adjudicated != "" {
		header("Adjudicated", adjudicated)
	}

	header("PlyCount", fmt.Sprintf("%d", len(outcome.History)))
	header("Final FEN", outcome.EndFEN)
	header("Material", materialDifference(outcome.EndFEN))

	b.WriteByte('\n')
	writeMoveText(&b, outcome)
	b.WriteString(resultTag)
	b.WriteString("\n\n")

	return b.String()
}

func resultHeaders(result ataxx.Result, blackName, whiteName string) (tag, winner, loser string) {
	switch result {
	case ataxx.BlackWin:
		return "1-0", blackName, whiteName
	case ataxx.WhiteWin:
		return "0-1", whiteName, blackName
	case ataxx.Draw:
		return "1/2-1/2", "", ""
	default:
		return "*", "", ""
	}
}

func adjudicationLabel(outcome match.GameOutcome) string {
	switch outcome.Reason {
	case match.ReasonOutOfTime:
		return "Out of time"
	case match.ReasonMaterialImbalance:
		return "Material imbalance"
	case match.ReasonEasyFill:
		return "Easy fill"
	case match.ReasonGamelength:
		return "Max game length reached"
	case match.ReasonIllegalMove:
		return "Illegal move"
	case match.ReasonEngineCrash:
		return "Engine crash"
	default:
		return ""
	}
}

func materialDifference(finalFEN string) string {
	pos, err := ataxx.NewPosition(finalFEN)
	if err != nil {
		return "+0"
	}
	diff := pos.Count(ataxx.Black) - pos.Count(ataxx.White)
	if diff >= 0 {
		return fmt.Sprintf("+%d", diff)
	}
	return fmt.Sprintf("%d", diff)
}

func writeMoveText(b *strings.Builder, outcome match.GameOutcome) {
	for i, rec := range outcome.History {
		if i%2 == 0 {
			fmt.Fprintf(b, "%d. ", i/2+1)
		}
		b.WriteString(rec.Move.String())
		b.WriteByte(' ')
	}
}
