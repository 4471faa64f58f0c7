package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles are bound to the
// handler's writer, so output to a file or pipe carries no escape codes.
type palette struct {
	key    lipgloss.Style
	time   lipgloss.Style
	source lipgloss.Style
	str    lipgloss.Style
	num    lipgloss.Style
	yes    lipgloss.Style
	no     lipgloss.Style
	other  lipgloss.Style
	levels map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)

	return &palette{
		key:    r.NewStyle().Foreground(lipgloss.Color("8")),
		time:   r.NewStyle().Faint(true),
		source: r.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		str:    r.NewStyle().Foreground(lipgloss.Color("6")),
		num:    r.NewStyle().Foreground(lipgloss.Color("3")),
		yes:    r.NewStyle().Foreground(lipgloss.Color("2")),
		no:     r.NewStyle().Foreground(lipgloss.Color("1")),
		other:  r.NewStyle().Foreground(lipgloss.Color("5")),
		levels: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): r.NewStyle().Foreground(lipgloss.Color("8")),
			slog.LevelDebug:        r.NewStyle().Foreground(lipgloss.Color("4")),
			slog.LevelInfo:         r.NewStyle().Foreground(lipgloss.Color("2")),
			slog.LevelWarn:         r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
			slog.LevelError:        r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

// level returns the style of the nearest named level at or below l.
func (p *palette) level(l slog.Level) lipgloss.Style {
	best, found := slog.Level(LevelTrace), false

	for named := range p.levels {
		if named <= l && (!found || named > best) {
			best, found = named, true
		}
	}

	return p.levels[best]
}

// prettyHandler writes one colorized line per record:
//
//	TIME LEVEL message key=value ...
type prettyHandler struct {
	opts    slog.HandlerOptions
	mu      *sync.Mutex
	w       io.Writer
	colors  *palette
	prefix  string // group prefix for keys added after WithGroup
	preface []byte // attributes from WithAttrs, already rendered
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		colors: newPalette(w),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); !a.Equal(slog.Attr{}) {
			buf.WriteString(h.colors.time.Render(a.Value.String()))
		}
	}

	lvl := h.replace(slog.Any(slog.LevelKey, r.Level))
	h.space(&buf)
	buf.WriteString(h.colors.level(r.Level).Render(fmt.Sprintf("%-5s", lvl.Value.String())))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			h.space(&buf)
			buf.WriteString(h.colors.source.Render(src.File + ":" + strconv.Itoa(src.Line)))
		}
	}

	h.space(&buf)
	buf.WriteString(r.Message)

	buf.Write(h.preface)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	var buf bytes.Buffer
	for _, a := range attrs {
		h.appendAttr(&buf, h.prefix, a)
	}

	clone := *h
	clone.preface = append(slices.Clip(h.preface), buf.Bytes()...)

	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.prefix = h.prefix + name + "."

	return &clone
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (*prettyHandler) space(buf *bytes.Buffer) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
}

func (h *prettyHandler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range group {
			h.appendAttr(buf, prefix, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.colors.key.Render(prefix + a.Key))
	buf.WriteByte('=')
	buf.WriteString(h.value(a.Value))
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuote(s) {
			s = strconv.Quote(s)
		}

		return h.colors.str.Render(s)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.colors.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.colors.yes.Render("true")
		}

		return h.colors.no.Render("false")

	default:
		return h.colors.other.Render(v.String())
	}
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}

	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' || r > '~' {
			return true
		}
	}

	return false
}
