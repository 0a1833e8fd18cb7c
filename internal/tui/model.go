package tui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"driveqa/internal/domain"
	"driveqa/internal/session"
)

// SessionPort is the TUI-facing subset of a session.
type SessionPort interface {
	Open(ctx context.Context) (session.Response, error)
	Handle(ctx context.Context, in session.Input) (session.Response, error)
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeAsk
)

func (m mode) String() string {
	switch m {
	case modeSearch:
		return "search"
	case modeAsk:
		return "ask"
	}
	return "browse"
}

func (m mode) placeholder() string {
	switch m {
	case modeSearch:
		return "File name to search for"
	case modeAsk:
		return "Ask a question about your files"
	}
	return "Item number (e.g. 2.3), next, prev, back"
}

// responseMsg carries the result of a session call back into Update.
type responseMsg struct {
	resp session.Response
	err  error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx      context.Context
	session  SessionPort
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	mode     mode
	listing  *session.View
	content  string
	status   string
	query    string
	busy     bool
	ready    bool
}

// New creates a new TUI model instance.
func New(ctx context.Context, s SessionPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = modeBrowse.placeholder()
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:      ctx,
		session:  s,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		busy:     true,
		status:   "Loading root folder...",
	}
}

// Init opens the root listing.
func (m Model) Init() tea.Cmd {
	open := func() tea.Msg {
		resp, err := m.session.Open(m.ctx)
		return responseMsg{resp: resp, err: err}
	}
	return tea.Batch(textinput.Blink, m.spinner.Tick, open)
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header and mode line, status, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.render())
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case responseMsg:
		m.busy = false
		m.apply(msg)
		m.viewport.SetContent(m.render())
		m.viewport.GotoTop()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey maps key presses to session inputs. It reports false for keys the text
// input should receive.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab":
		m.mode = (m.mode + 1) % 3
		m.input.Placeholder = m.mode.placeholder()
		m.status = "Mode: " + m.mode.String()
		return nil, true
	case "ctrl+n", "pgdown":
		return m.submit(session.CommandInput(session.CmdNextPage)), true
	case "ctrl+p", "pgup":
		return m.submit(session.CommandInput(session.CmdPrevPage)), true
	case "ctrl+b":
		if m.content != "" {
			m.closeAnswer()
			return nil, true
		}
		return m.submit(session.CommandInput(session.CmdBack)), true
	case "ctrl+r":
		return m.submit(session.CommandInput(session.CmdRefresh)), true
	case "ctrl+l":
		return m.submit(session.CommandInput(session.CmdClear)), true
	case "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd, true
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.busy {
			return nil, true
		}
		in, err := inputFor(m.mode, text)
		if err != nil {
			m.status = err.Error()
			return nil, true
		}
		m.input.SetValue("")
		if in.Kind == session.Question {
			m.query = in.Text
		}
		return m.submit(in), true
	}
	return nil, false
}

// closeAnswer drops the shown answer and puts the last listing back.
func (m *Model) closeAnswer() {
	m.content = ""
	m.status = ""
	if m.listing != nil {
		m.status = m.listing.Summary()
	}
	m.viewport.SetContent(m.render())
	m.viewport.GotoTop()
}

func (m *Model) submit(in session.Input) tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	m.status = "Working..."
	ctx, port := m.ctx, m.session
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		resp, err := port.Handle(ctx, in)
		return responseMsg{resp: resp, err: err}
	})
}

// inputFor turns typed text into a tagged input for the current mode.
func inputFor(md mode, text string) (session.Input, error) {
	switch md {
	case modeSearch:
		return session.SearchInput(text), nil
	case modeAsk:
		return session.QuestionInput(text), nil
	}
	if name, ok := session.ParseCommand(text); ok {
		return session.CommandInput(name), nil
	}
	num, err := domain.ParseNumberPath(text)
	if err != nil {
		return session.Input{}, fmt.Errorf("%q is not an item number; press tab to search or ask", text)
	}
	return session.SelectInput(num), nil
}

func (m *Model) apply(msg responseMsg) {
	if msg.err != nil {
		m.status = describeError(msg.err)
		return
	}
	r := msg.resp
	m.status = r.Message
	switch r.Kind {
	case session.KindListing:
		m.listing = r.Listing
		m.content = ""
		if m.status == "" && r.Listing != nil {
			m.status = r.Listing.Summary()
		}
	case session.KindAnswer:
		m.content = r.Answer
		if m.status == "" {
			m.status = "Answer ready. ctrl+b returns to the listing."
		}
	}
}

// describeError turns a session error into a status line.
func describeError(err error) string {
	switch {
	case domain.IsTimeout(err):
		return "The file store did not answer in time. Try again."
	case errors.Is(err, domain.ErrFetchFailed):
		return "Could not reach the file store: " + err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return "No such item in the current listing."
	case errors.Is(err, domain.ErrWrongKind):
		return "That item cannot be opened that way."
	}
	return "Error: " + err.Error()
}

// View renders the TUI layout and current content.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Drive Q&A")
	modeLine := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"mode: " + m.mode.String() + "  (tab: switch mode, ctrl+n/p: page, ctrl+b: back, ctrl+l: clear)")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + modeLine + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) render() string {
	if m.content != "" {
		return highlightAnswer(m.content, m.query)
	}
	if m.listing == nil {
		return "Nothing listed yet."
	}
	return renderListing(m.listing)
}

func renderListing(v *session.View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title()))
	b.WriteString("\n\n")
	if v.Empty {
		b.WriteString(v.Summary())
		return b.String()
	}
	for _, n := range v.Nodes {
		b.WriteString(strings.Repeat("  ", n.Depth()-1))
		if n.IsFolder() {
			b.WriteString(folderStyle.Render(n.DisplayLabel))
		} else {
			b.WriteString(n.DisplayLabel)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.Summary())
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	folderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
)

// highlightAnswer styles the source labels and the words shared with the question.
func highlightAnswer(text, query string) string {
	qTokens := toTokenSet(query)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "Source: ") {
			lines[i] = sourceStyle.Render(line)
			continue
		}
		if len(qTokens) == 0 {
			continue
		}
		lines[i] = unicodeWordRe.ReplaceAllStringFunc(line, func(w string) string {
			if _, ok := qTokens[strings.ToLower(w)]; ok {
				return highlightStyle.Render(w)
			}
			return w
		})
	}
	return strings.Join(lines, "\n")
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}
