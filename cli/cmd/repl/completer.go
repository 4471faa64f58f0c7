package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/calc/lang"
)

// isWordRune reports whether r can appear in an identifier.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier surrounding cursor and its byte
// boundaries within input. A leading colon is part of the word so session
// commands complete like identifiers.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			if r == ':' && start == size {
				start -= size
			}

			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the names that may complete word: session commands
// for a word starting with a colon, otherwise builtin functions and bound
// variables.
func candidates(session *Session, word string) []string {
	if strings.HasPrefix(word, ":") {
		return commandNames()
	}

	var names []string
	for fn := range lang.Builtins() {
		names = append(names, fn.Name)
	}

	return append(names, session.Names()...)
}

// completion is the fuzzy match state for the word at the cursor.
type completion struct {
	matches fuzzy.Matches
	start   int
	end     int
}

// complete ranks the candidates for the word at cursor, best first.
// An empty word has no matches.
func complete(session *Session, input string, cursor int) completion {
	word, start, end := wordBounds(input, cursor)

	c := completion{start: start, end: end}
	if word == "" {
		return c
	}

	if word == ":" {
		names := commandNames()

		c.matches = make(fuzzy.Matches, len(names))
		for i, name := range names {
			c.matches[i] = fuzzy.Match{Str: name, Index: i}
		}

		return c
	}

	c.matches = fuzzy.Find(word, candidates(session, word))

	return c
}

// isFunction reports whether name is a builtin function.
func isFunction(name string) bool {
	_, ok := lang.LookupBuiltin(name)

	return ok
}

// renderCandidateBar renders the matches on one line, ellipsized to fit
// within width. The selected candidate is highlighted while tab-cycling.
func renderCandidateBar(matches fuzzy.Matches, selected int, tabActive bool, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == selected)

		need := lipgloss.Width(rendered)
		if i > 0 {
			need += len(sep)
		}

		if i > 0 && used+need+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += need
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// emphasized. Functions are shown with trailing parentheses.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, emphasis := suggestionStyle, matchStyle
	if selected {
		base, emphasis = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(emphasis.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}
