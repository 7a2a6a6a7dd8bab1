// Package engine spawns and drives an Ataxx engine subprocess over the
// UAI-like newline-delimited text protocol: isready/readyok and
// go/bestmove as synchronous request-reply pairs.
package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Ref is the startup recipe for an engine subprocess.
type Ref struct {
	ID      string            `yaml:"id"`
	Name    string            `yaml:"name"`
	Path    string            `yaml:"path"`
	Args    []string          `yaml:"args,omitempty"`
	Options map[string]string `yaml:"options,omitempty"`
}

// Engine is a running engine subprocess and its line-buffered pipes.
// The zero value is not usable; construct one with Start.
type Engine struct {
	ref Ref

	cmd *exec.Cmd

	stdin  io.WriteCloser
	writer *bufio.Writer
	reader *bufio.Reader

	lines chan string
	err   error
}

// ErrReadTimeout is returned by Await when no matching line arrives
// within the deadline.
var ErrReadTimeout = errors.New("engine: read i/o timeout")

const readyTimeout = 5 * time.Second

// Start spawns the engine binary named by ref, wires its stdio through
// line-buffered pipes, and performs the one-time "uai" protocol
// handshake. The caller is responsible for calling NewGame before the
// first position of each game, and Quit to release the process.
func Start(ref Ref) (*Engine, error) {
	return StartWithEnv(ref, nil)
}

// StartWithEnv is Start with an explicit process environment (nil means
// inherit the current process's environment, matching exec.Command's own
// default). Exists mainly so tests can spawn multiple differently
// configured instances of the same fake-engine test binary.
func StartWithEnv(ref Ref, env []string) (*Engine, error) {
	e := &Engine{ref: ref}

	cmd := exec.Command(ref.Path, ref.Args...)
	cmd.Env = env
	e.cmd = cmd

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("engine %s: stdin pipe: %w", ref.ID, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("engine %s: stdout pipe: %w", ref.ID, err)
	}

	e.stdin = stdin
	e.writer = bufio.NewWriter(stdin)
	e.reader = bufio.NewReader(stdout)
	e.lines = make(chan string)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("engine %s: start: %w", ref.ID, err)
	}

	go e.readLoop()

	for name, value := range ref.Options {
		if err := e.SetOption(name, value); err != nil {
			return nil, err
		}
	}

	if err := e.Init(); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Engine) readLoop() {
	for {
		line, err := e.reader.ReadString('\n')
		if err != nil {
			e.err = err
			close(e.lines)
			return
		}
		line = strings.Trim(line, " \t\r\n")
		logrus.Debugf("(" + e.ref.Name + ")> " + line)
		e.lines <- line
	}
}

// Init performs the "uai" / "uaiok" startup handshake.
func (e *Engine) Init() error {
	if err := e.send("uai"); err != nil {
		return err
	}
	_, err := e.Await("^uaiok$", readyTimeout)
	return err
}

// NewGame tells the engine a fresh game is starting and synchronizes
// with it via isready/readyok.
func (e *Engine) NewGame() error {
	if err := e.send("uainewgame"); err != nil {
		return err
	}
	return e.IsReady()
}

// IsReady blocks until the engine acknowledges readiness.
func (e *Engine) IsReady() error {
	if err := e.send("isready"); err != nil {
		return err
	}
	_, err := e.Await("^readyok$", readyTimeout)
	return err
}

// Position sends the current board as a FEN, with moves always supplied
// fresh (the loop always sends the full position rather than an
// incremental move list).
func (e *Engine) Position(fen string) error {
	return e.send("position fen %s", fen)
}

// SetOption sends a named engine option.
func (e *Engine) SetOption(name, value string) error {
	return e.send("setoption name %s value %s", name, value)
}

// GoArgs is the already-formatted "go" command argument string, built by
// the caller from a SearchSettings variant (see pkg/match).
type GoArgs string

// Go sends "go <args>" and blocks for the "bestmove <move>" reply,
// returning the move token. Any unrelated "info ..." line seen while
// waiting is delivered to onInfo, matching the loop's obligation to
// surface (but not parse) engine info lines.
func (e *Engine) Go(args GoArgs, onInfo func(line string)) (string, error) {
	if err := e.send("go %s", string(args)); err != nil {
		return "", err
	}

	regex := regexp.MustCompile("^bestmove ")
	for line := range e.lines {
		if regex.MatchString(line) {
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return "", fmt.Errorf("engine %s: malformed bestmove line %q", e.ref.ID, line)
			}
			return fields[1], nil
		}
		if onInfo != nil {
			onInfo(line)
		}
	}

	if e.err != nil {
		return "", e.err
	}
	return "", ErrReadTimeout
}

// Stop asks a searching engine to return its best move immediately.
func (e *Engine) Stop() error { return e.send("stop") }

// Quit asks the engine to exit, closes its stdin so an engine that
// waits on EOF rather than the literal "quit" text also sees the
// request, then reaps the process. Wait always runs even if the engine
// ignored both — after a bounded grace period the process is killed
// outright, so Quit never leaves a zombie behind.
func (e *Engine) Quit() error {
	_ = e.send("quit")
	_ = e.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- e.cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		if e.cmd.Process != nil {
			_ = e.cmd.Process.Kill()
		}
		return <-done
	}
}

// Await blocks until a line matching pattern arrives or timeout elapses.
func (e *Engine) Await(pattern string, timeout time.Duration) (string, error) {
	regex := regexp.MustCompile(pattern)
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			if e.err != nil {
				return "", e.err
			}
			return "", ErrReadTimeout

		case line, ok := <-e.lines:
			if !ok {
				if e.err != nil {
					return "", e.err
				}
				return "", ErrReadTimeout
			}
			if regex.MatchString(line) {
				return line, nil
			}
		}
	}
}

func (e *Engine) send(format string, a ...any) error {
	logrus.Debugf("("+e.ref.Name+")< "+format, a...)

	if _, err := fmt.Fprintf(e.writer, format+"\n", a...); err != nil {
		return err
	}
	return e.writer.Flush()
}
