package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

const prompt = "➜ "

// Styles.
var (
	promptStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	inputStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// model is the Bubble Tea model of an interactive session.
type model struct {
	ctx     func() context.Context
	logger  log.Logger
	session *Session
	history *History
	input   textinput.Model

	historyIdx int // history.Len() when not browsing

	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	selected     int
	tabActive    bool
	preTabText   string
	preTabCursor int

	width    int
	quitting bool
}

// Run reads lines from the terminal and executes them in session until the
// user quits or ctx is done.
func Run(ctx context.Context, session *Session, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start", slog.Any("session", session))

	p := tea.NewProgram(newModel(ctx, session, logger), tea.WithContext(ctx))

	_, err = p.Run()

	logger.TraceContext(ctx, "repl stop", slog.Any("session", session))

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, session *Session, logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	history := NewHistory(0)

	return model{
		ctx:        func() context.Context { return ctx },
		logger:     logger,
		session:    session,
		history:    history,
		input:      ti,
		historyIdx: history.Len(),
		selected:   -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(prompt)-2, 1)

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint renders the line below the input.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		return hintStyle.Render(fmt.Sprintf("history %d/%d", m.historyIdx+1, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		return hintStyle.Render("Type an expression, name = expr, or :help")
	}

	if len(m.matches) > 0 && (m.tabActive || m.wordEnd > m.wordStart) {
		return renderCandidateBar(m.matches, m.selected, m.tabActive, m.width)
	}

	if call := detectFunctionCall(input, m.input.Position()); call.inCall {
		if fn, ok := lang.LookupBuiltin(call.name); ok {
			return renderSignatureHint(fn, call.argIndex)
		}
	}

	return ""
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx(), "repl keypress", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		m.input.SetValue("")
		m.resetBrowsing()

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive {
			m.tabActive = false
			m.refresh()

			return m, nil
		}

		return m.execute()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1), nil

	case tea.KeyDown:
		return m.browse(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refresh()
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh()

	return m, cmd
}

// execute submits the input line to the session.
func (m model) execute() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())

	m.input.SetValue("")
	m.resetBrowsing()

	if line == "" {
		return m, nil
	}

	m.history.Add(line)
	m.historyIdx = m.history.Len()

	reply := m.session.Exec(m.ctx(), line)

	m.logger.TraceContext(m.ctx(), "repl exec",
		slog.String("input", line),
		slog.Bool("ok", reply.Err == nil),
	)

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(line))

	switch {
	case reply.Quit:
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case reply.Clear:
		return m, tea.ClearScreen

	case reply.Err != nil:
		return m, tea.Sequence(echo, tea.Println(errorStyle.Render("error: "+reply.Err.Error())))

	case reply.Text != "":
		return m, tea.Sequence(echo, tea.Println(resultStyle.Render(reply.Text)))

	default:
		return m, echo
	}
}

// cycle moves the completion selection by step, completing the word at the
// cursor. A single match completes immediately.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.matches = nil
		m.selected = -1

		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		if step > 0 {
			m.selected = 0
		} else {
			m.selected = len(m.matches) - 1
		}
	} else {
		m.selected = (m.selected + step + len(m.matches)) % len(m.matches)
	}

	m.replaceWord(m.matches[m.selected].Str)

	return m
}

// browse moves through history by step; moving past the newest entry
// restores an empty line.
func (m model) browse(step int) model {
	idx := m.historyIdx + step
	if idx < 0 {
		return m
	}

	m.tabActive = false
	m.matches = nil

	if idx >= m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")

		return m
	}

	line, err := m.history.At(idx)
	if err != nil {
		return m
	}

	m.historyIdx = idx
	m.input.SetValue(line)
	m.input.SetCursor(len(line))

	return m
}

func (m *model) replaceWord(word string) {
	input := m.input.Value()
	cursor := m.wordStart + len(word)

	m.input.SetValue(input[:m.wordStart] + word + input[m.wordEnd:])
	m.input.SetCursor(cursor)
	m.wordEnd = cursor
}

func (m *model) refresh() {
	c := complete(m.session, m.input.Value(), m.input.Position())

	m.matches, m.wordStart, m.wordEnd = c.matches, c.start, c.end
	if !m.tabActive {
		m.selected = -1
	}
}

func (m *model) resetBrowsing() {
	m.tabActive = false
	m.matches = nil
	m.selected = -1
	m.historyIdx = m.history.Len()
}
