package tournament

import (
	"os"
	"strings"

	"github.com/cuteataxx/arbiter/pkg/ataxx"
)

// Book is a flat list of starting FENs, indexed directly by the
// OpeningIndex a GameInfo carries (so unlike the teacher's stateful
// Book.Next/Current, lookups here are position-addressable, matching
// the way RoundRobinGenerator computes an opening index up front rather
// than advancing a cursor as games complete).
type Book struct {
	entries []string
}

// NewBook reads one FEN per non-empty line from path. An empty path
// yields a single-entry book holding the standard starting position.
func NewBook(path string) (*Book, error) {
	if path == "" {
		return &Book{entries: []string{ataxx.StartFEN}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.Trim(line, "\r\t ")
		if line != "" {
			entries = append(entries, line)
		}
	}
	if len(entries) == 0 {
		entries = []string{ataxx.StartFEN}
	}

	return &Book{entries: entries}, nil
}

// Len returns the number of openings in the book.
func (b *Book) Len() int { return len(b.entries) }

// At returns the opening at index, wrapping if the generator's opening
// count exceeds the book's length.
func (b *Book) At(index int) string { return b.entries[index%len(b.entries)] }
