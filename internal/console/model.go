// Package console is the interactive shell: a single-line input with cycling
// completion, command execution and history.
package console

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/tabc/internal/catalog"
	"github.com/oakwood-commons/tabc/internal/completion"
	"github.com/oakwood-commons/tabc/internal/exec"
	"github.com/oakwood-commons/tabc/internal/formatter"
)

// maxOutputLines bounds the scrollback kept in memory.
const maxOutputLines = 500

// ReloadMsg asks the console to rebuild the catalog. The watcher sends it from
// its own goroutine through Program.Send so the rebuild runs in Update.
type ReloadMsg struct{}

// Reloader builds a fresh catalog, for example by reading the definition file
// again.
type Reloader func() (*catalog.Catalog, error)

// Options configures a Model.
type Options struct {
	Prompt       string
	// HistorySize caps the recalled commands; 0 disables history.
	HistorySize  int
	PreviewLimit int
	NoColor      bool
	Mode         completion.Mode
	Logger       logr.Logger
	// Reload handles ReloadMsg; nil ignores it.
	Reload Reloader
	// Rebind runs after a successful reload, typically Harvester.Reharvest.
	Rebind func() error
}

// Model is the Bubble Tea model of the console.
type Model struct {
	input   textinput.Model
	buf     *inputBuffer
	engine  *completion.Engine
	exec    exec.Executor
	cat     *catalog.Catalog
	history *History
	styles  Styles
	opts    Options
	log     logr.Logger
	session string
	ctx     context.Context

	output  []string
	preview []string
	current string
	width   int
	height  int
}

// New creates a console completing against cat and running commands with ex.
func New(ctx context.Context, cat *catalog.Catalog, ex exec.Executor, opts Options) *Model {
	if opts.Prompt == "" {
		opts.Prompt = "> "
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	session := uuid.NewString()
	log := opts.Logger.WithValues("session", session)

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "type an expression, tab to complete"
	ti.SetWidth(80)
	ti.Focus()

	m := &Model{
		input:   ti,
		exec:    ex,
		cat:     cat,
		history: NewHistory(opts.HistorySize),
		styles:  DefaultStyles(opts.NoColor),
		opts:    opts,
		log:     log,
		session: session,
		ctx:     ctx,
	}
	m.buf = &inputBuffer{input: &m.input}
	m.engine = completion.NewEngine(cat, completion.WithMode(opts.Mode), completion.WithLogger(log))
	log.V(1).Info("console started", "mode", opts.Mode.String(), "symbols", cat.Len())
	return m
}

// Session returns the id attached to this console's log lines.
func (m *Model) Session() string { return m.session }

// Value returns the current input.
func (m *Model) Value() string { return m.input.Value() }

// Output returns the scrollback lines.
func (m *Model) Output() []string { return append([]string(nil), m.output...) }

// Preview returns the candidates shown under the input.
func (m *Model) Preview() []string { return append([]string(nil), m.preview...) }

// History returns the command history.
func (m *Model) History() *History { return m.history }

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.refreshPreview()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(max(msg.Width-runewidth.StringWidth(m.opts.Prompt)-1, 10))
		return m, nil

	case ReloadMsg:
		m.reload()
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+d":
			if m.input.Value() == "" {
				return m, tea.Quit
			}
		case "tab":
			m.engine.Complete(m.buf, true)
			return m, nil
		case "shift+tab":
			m.engine.Complete(m.buf, false)
			return m, nil
		case "enter":
			m.submit()
			return m, nil
		case "up":
			if v, ok := m.history.Prev(m.input.Value()); ok {
				m.buf.set(v)
			}
			return m, nil
		case "down":
			if v, ok := m.history.Next(); ok {
				m.buf.set(v)
			}
			return m, nil
		case "esc":
			m.buf.set("")
			return m, nil
		}
	}

	before, caret := m.input.Value(), m.input.Position()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before || m.input.Position() != caret {
		m.buf.ClearAnchor()
	}
	return m, cmd
}

// submit runs the current input and records it.
func (m *Model) submit() {
	command := strings.TrimSpace(m.input.Value())
	m.buf.set("")
	if command == "" {
		return
	}
	m.history.Add(command)
	m.print(m.styles.Echo.Render(m.opts.Prompt + command))

	res, err := m.exec.Execute(m.ctx, command)
	if err != nil {
		m.log.V(1).Info("command failed", "command", command, "error", err.Error())
		m.print(m.styles.Error.Render("error: " + err.Error()))
		return
	}
	if res.Assigned != "" {
		m.log.V(1).Info("assigned", "name", res.Assigned)
	}
	if res.Value != nil {
		m.print(m.styles.Result.Render(formatter.Stringify(res.Value)))
	}
}

func (m *Model) reload() {
	if m.opts.Reload == nil {
		return
	}
	next, err := m.opts.Reload()
	if err != nil {
		m.log.Error(err, "catalog reload failed")
		m.print(m.styles.Error.Render("reload: " + err.Error()))
		return
	}
	m.cat.Reset(next)
	if m.opts.Rebind != nil {
		if err := m.opts.Rebind(); err != nil {
			m.log.V(1).Info("rebind conflicts", "error", err.Error())
		}
	}
	m.buf.ClearAnchor()
	m.log.Info("catalog reloaded", "symbols", m.cat.Len())
	m.print(m.styles.Info.Render(fmt.Sprintf("catalog reloaded (%d symbols)", m.cat.Len())))
}

func (m *Model) print(line string) {
	m.output = append(m.output, line)
	if over := len(m.output) - maxOutputLines; over > 0 {
		m.output = append([]string(nil), m.output[over:]...)
	}
}

// refreshPreview recomputes the candidates matching the token at the caret.
func (m *Model) refreshPreview() {
	m.preview, m.current = nil, ""
	if m.opts.PreviewLimit == 0 {
		return
	}
	a, ok := m.engine.Analyze(m.buf.Value(), m.buf.Caret())
	if !ok {
		return
	}
	prefix := a.Context.Token
	if anchor, set := m.buf.Anchor(); set {
		prefix = anchor
		m.current = a.Context.Token
	}
	for _, c := range a.Candidates {
		if !strings.HasPrefix(c, prefix) {
			continue
		}
		if len(m.preview) == m.opts.PreviewLimit {
			m.preview = append(m.preview, "…")
			break
		}
		m.preview = append(m.preview, c)
	}
}

func (m *Model) View() tea.View {
	var b strings.Builder
	lines := m.output
	if m.height > 0 {
		if room := m.height - 2; room < len(lines) {
			lines = lines[max(len(lines)-room, 0):]
		}
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.Prompt.Render(m.opts.Prompt))
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(m.previewLine())
	return tea.NewView(b.String())
}

// previewLine renders the candidates, truncated to the window width before
// styling so escape sequences are never cut.
func (m *Model) previewLine() string {
	var b strings.Builder
	used := 0
	for i, c := range m.preview {
		if i > 0 {
			b.WriteByte(' ')
			used++
		}
		if w := runewidth.StringWidth(c); m.width > 0 && used+w > m.width {
			c = runewidth.Truncate(c, max(m.width-used, 0), "…")
			b.WriteString(m.styles.Candidate.Render(c))
			break
		}
		used += runewidth.StringWidth(c)
		if c == m.current {
			b.WriteString(m.styles.Current.Render(c))
			continue
		}
		b.WriteString(m.styles.Candidate.Render(c))
	}
	return b.String()
}
