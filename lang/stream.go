package lang

import (
	"bufio"
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/klauspost/readahead"
)

// Line is one expression read by [Lines].
type Line struct {
	Number int    // 1-based line number in the input
	Text   string // trimmed expression text
}

// CommentPrefix starts a line that [Lines] skips.
const CommentPrefix = "#"

// Lines returns a sequence of the expressions in r, one per line. Blank
// lines and lines starting with [CommentPrefix] are skipped. The sequence
// ends after yielding a read error or when ctx is done.
func Lines(ctx context.Context, r io.Reader) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		// Wrap reader with async read-ahead for concurrent I/O.
		// This allows data to be pre-fetched while we process previous lines.
		ra := readahead.NewReader(r)
		defer ra.Close()

		sc := bufio.NewScanner(ra)
		number := 0

		for sc.Scan() {
			if err := context.Cause(ctx); err != nil {
				yield(Line{}, ErrReadInput.Wrap(err).
					With(slog.Int("line", number+1)))

				return
			}

			number++

			text := strings.TrimSpace(sc.Text())
			if text == "" || strings.HasPrefix(text, CommentPrefix) {
				continue
			}

			if !yield(Line{Number: number, Text: text}, nil) {
				return
			}
		}

		if err := sc.Err(); err != nil {
			yield(Line{}, ErrReadInput.Wrap(err).
				With(slog.Int("line", number+1)))
		}
	}
}
