package repl

import "strings"

// defaultHistoryLimit bounds the number of remembered lines.
const defaultHistoryLimit = 500

// History is the in-memory list of submitted lines, oldest first.
// Submitting a line again moves it to the end instead of duplicating it.
type History struct {
	entries []string
	limit   int
}

// NewHistory returns an empty History that remembers at most limit lines.
// A limit below one selects the default.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = defaultHistoryLimit
	}

	return &History{limit: limit}
}

// Add appends line, ignoring blank lines.
func (h *History) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	for i, entry := range h.entries {
		if entry == line {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)

			break
		}
	}

	h.entries = append(h.entries, line)

	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = h.entries[over:]
	}
}

// At returns the line at index i, where 0 is the oldest.
func (h *History) At(i int) (string, error) {
	if i < 0 || i >= len(h.entries) {
		return "", ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of remembered lines.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of the remembered lines, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
