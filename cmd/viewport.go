package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/activebook/fitbot/data"
	"github.com/activebook/fitbot/internal/ui"
	"github.com/activebook/fitbot/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
)

const (
	inputHeight = 3
	timeLayout  = "15:04"
	typingLabel = "Typing..."
)

var (
	titleStyle = func() lipgloss.Style {
		b := lipgloss.RoundedBorder()
		b.Right = "├"
		return lipgloss.NewStyle().BorderStyle(b).Padding(0, 1)
	}()

	infoStyle = func() lipgloss.Style {
		b := lipgloss.RoundedBorder()
		b.Left = "┤"
		return lipgloss.NewStyle().BorderStyle(b).Padding(0, 1)
	}()
)

// streamMsg carries one assembler notification into the update loop.
type streamMsg service.StreamNotify

// submitDoneMsg arrives when Submit returns.
type submitDoneMsg struct {
	turn service.Turn
	err  error
}

// ChatModel is the bubbletea chat view. It renders the conversation owned by
// the assembler and never mutates it directly.
type ChatModel struct {
	ctx       context.Context
	cancel    context.CancelFunc
	assembler *service.Assembler
	updates   chan service.StreamNotify
	endpoint  string

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	markdown *glamour.TermRenderer
	rendered map[string]string // completed assistant turns by ID

	width   int
	height  int
	ready   bool
	sending bool // Submit called but not yet returned
	status  string
}

// NewChatModel wires the view to the assembler's observer.
func NewChatModel(ctx context.Context, assembler *service.Assembler, endpoint string) *ChatModel {
	ctx, cancel := context.WithCancel(ctx)
	m := &ChatModel{
		ctx:       ctx,
		cancel:    cancel,
		assembler: assembler,
		updates:   make(chan service.StreamNotify),
		endpoint:  endpoint,
		rendered:  make(map[string]string),
	}
	// The observer blocks until the view takes the update, so the assembler
	// reads the next chunk only after the previous one is on screen.
	assembler.SetObserver(func(n service.StreamNotify) {
		select {
		case m.updates <- n:
		case <-m.ctx.Done():
		}
	})

	ta := textarea.New()
	ta.Placeholder = "Ask me anything about fitness..."
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 4000
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = ui.GetNewLineKeyBinding()
	ta.Focus()
	m.input = ta

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(data.SpinnerHex))
	m.spinner = sp
	return m
}

// Close cancels any reply still streaming.
func (m *ChatModel) Close() {
	m.cancel()
}

func (m *ChatModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-m.updates:
			return streamMsg(n)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *ChatModel) submit(text string) tea.Cmd {
	return func() tea.Msg {
		turn, err := m.assembler.Submit(m.ctx, text)
		return submitDoneMsg{turn: turn, err: err}
	}
}

func (m *ChatModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForUpdate())
}

func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		case "enter":
			return m, m.send(m.input.Value())
		case "1", "2", "3":
			if m.quickQuestionsVisible() && strings.TrimSpace(m.input.Value()) == "" {
				m.input.SetValue(service.QuickQuestions[int(msg.String()[0]-'1')])
				m.input.CursorEnd()
				return m, nil
			}
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(msg.Width)
		m.markdown = ui.NewMarkdownRenderer(max(20, msg.Width-4), false)
		m.rendered = make(map[string]string)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, 1)
			m.viewport.KeyMap = viewportKeys()
			m.ready = true
		}
		m.layout()

	case streamMsg:
		switch msg.Status {
		case service.StatusStarted:
			m.status = ""
		case service.StatusFinished, service.StatusError:
			m.input.Focus()
			cmds = append(cmds, textarea.Blink)
			if msg.Status == service.StatusError {
				service.Debugf("Reply failed: %s", msg.Data)
			}
		}
		m.layout()
		cmds = append(cmds, m.waitForUpdate())
		return m, tea.Batch(cmds...)

	case submitDoneMsg:
		m.sending = false
		if msg.err != nil && !errors.Is(msg.err, service.ErrEmptyInput) {
			m.status = msg.err.Error()
		}
		m.input.Focus()
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.layout()
		return m, cmd
	}

	if !m.busy() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// send starts a reply unless one is already streaming. The input is blurred
// until the reply reaches a terminal state.
func (m *ChatModel) send(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" || m.busy() {
		return nil
	}
	m.sending = true
	m.input.Reset()
	m.input.Blur()
	m.status = ""
	m.layout()
	return tea.Batch(m.submit(text), m.spinner.Tick)
}

func (m *ChatModel) busy() bool {
	return m.sending || m.assembler.Busy()
}

func (m *ChatModel) quickQuestionsVisible() bool {
	return service.ShowQuickQuestions(m.assembler.Conversation()) && !m.busy()
}

func viewportKeys() viewport.KeyMap {
	km := viewport.DefaultKeyMap()
	// Letters belong to the input.
	km.Up = key.NewBinding(key.WithKeys("up"))
	km.Down = key.NewBinding(key.WithKeys("down"))
	km.PageUp = key.NewBinding(key.WithKeys("pgup"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	km.HalfPageUp = key.NewBinding(key.WithDisabled())
	km.HalfPageDown = key.NewBinding(key.WithDisabled())
	km.Left = key.NewBinding(key.WithDisabled())
	km.Right = key.NewBinding(key.WithDisabled())
	return km
}

// layout resizes the viewport around the chrome and refreshes its content,
// following the newest message.
func (m *ChatModel) layout() {
	if !m.ready {
		return
	}
	chrome := lipgloss.Height(m.headerView()) + lipgloss.Height(m.footerView()) + inputHeight + 1
	if extra := m.quickQuestionsView(); extra != "" {
		chrome += lipgloss.Height(extra)
	}
	if m.status != "" {
		chrome++
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(1, m.height-chrome)
	m.viewport.SetContent(m.conversationView())
	m.viewport.GotoBottom()
}

func (m *ChatModel) conversationView() string {
	var sb strings.Builder
	userStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(data.UserHex)).Bold(true)
	botStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(data.AssistantHex)).Bold(true)
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(data.DetailHex))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(data.ErrorHex))

	turns := m.assembler.Conversation().Turns()
	for _, t := range turns {
		stamp := timeStyle.Render(t.CreatedAt.Format(timeLayout))
		if t.Role == service.RoleUser {
			// User turns hug the right edge.
			block := lipgloss.JoinVertical(lipgloss.Right,
				stamp+" "+userStyle.Render("You"),
				wrapWithIndentation(t.Content, m.width*3/4))
			sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block) + "\n\n")
			continue
		}

		sb.WriteString(botStyle.Render("FitBot") + " " + stamp + "\n")
		switch t.State {
		case service.TurnPending:
			if t.Content == "" {
				sb.WriteString(m.spinner.View() + " " + typingLabel + "\n\n")
			} else {
				sb.WriteString(wrapWithIndentation(t.Content, m.width-2) + " " + m.spinner.View() + "\n\n")
			}
		case service.TurnFailed:
			sb.WriteString(errStyle.Render(wrapWithIndentation(t.Content, m.width-2)) + "\n\n")
		default:
			sb.WriteString(m.renderMarkdown(t) + "\n\n")
		}
	}
	// Waiting for the reply to open: no placeholder turn exists yet.
	if m.busy() && len(turns) > 0 && turns[len(turns)-1].Role == service.RoleUser {
		sb.WriteString(botStyle.Render("FitBot") + "\n" + m.spinner.View() + " " + typingLabel + "\n\n")
	}
	return sb.String()
}

// renderMarkdown caches glamour output per completed turn.
func (m *ChatModel) renderMarkdown(t service.Turn) string {
	if out, ok := m.rendered[t.ID]; ok {
		return out
	}
	out := ui.RenderMarkdown(m.markdown, t.Content)
	m.rendered[t.ID] = out
	return out
}

func wrapWithIndentation(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	var wrappedLines []string
	for _, line := range lines {
		if lipgloss.Width(line) <= width {
			wrappedLines = append(wrappedLines, line)
			continue
		}

		var indent string
		for _, r := range line {
			if r == ' ' || r == '\t' {
				indent += string(r)
			} else {
				break
			}
		}

		indentWidth := lipgloss.Width(indent)
		if indentWidth >= width-10 {
			wrappedLines = append(wrappedLines, wrap.String(line, width))
			continue
		}

		content := line[len(indent):]
		for _, cl := range strings.Split(wrap.String(content, width-indentWidth), "\n") {
			wrappedLines = append(wrappedLines, indent+cl)
		}
	}
	return strings.Join(wrappedLines, "\n")
}

func (m *ChatModel) quickQuestionsView() string {
	if !m.quickQuestionsVisible() {
		return ""
	}
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(data.KeyHex)).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(data.LabelHex))
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(data.SectionHex)).Render("Quick questions:"))
	for i, q := range service.QuickQuestions {
		sb.WriteString("\n  " + keyStyle.Render(fmt.Sprintf("%d", i+1)) + " " + labelStyle.Render(q))
	}
	return sb.String()
}

func (m *ChatModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	parts := []string{m.headerView(), m.viewport.View()}
	if qq := m.quickQuestionsView(); qq != "" {
		parts = append(parts, qq)
	}
	if m.status != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(data.ErrorHex)).Render(m.status))
	}
	parts = append(parts, m.input.View(), m.footerView())
	return strings.Join(parts, "\n")
}

func (m *ChatModel) headerView() string {
	title := titleStyle.Render("FitBot Coach")
	info := fmt.Sprintf("── [%s] ──", m.endpoint)
	line := strings.Repeat("─", max(0, m.width-lipgloss.Width(title)-lipgloss.Width(info)))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, line, info)
}

func (m *ChatModel) footerView() string {
	state := "ready"
	if m.busy() {
		state = "replying"
	}
	info := infoStyle.Render(state)
	tips := "─ enter: Send • ctrl+j: Newline • pgup/pgdown: Scroll • esc: Quit ─"
	line := strings.Repeat("─", max(0, m.width-lipgloss.Width(info)-lipgloss.Width(tips)))
	return lipgloss.JoinHorizontal(lipgloss.Center, line, tips, info)
}
