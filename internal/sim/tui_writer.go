package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"gridwatch-sim/internal/alert"
	"gridwatch-sim/internal/config"
	"gridwatch-sim/internal/grid"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// readingMsg updates the metric table.
type readingMsg struct{ grid.Reading }

// alertMsg carries an alert log line.
type alertMsg struct {
	line  string
	entry alert.Entry
}

// adminMsg reports admin UI status.
type adminMsg struct{ active bool }

type setChaosMsg struct{ fn func() bool }

const (
	maxLogLines         = 1000
	maxSectionHeightPct = 0.25
)

// TUIWriter renders readings using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.GridConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		// quitting the TUI stops the whole simulation
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

func formatReadingLine(r grid.Reading) string {
	return fmt.Sprintf("%s[%s]%s %s%s%s %s%.3f%s%s %s%+.3f %s%s %s%s%s",
		colorGray, r.Timestamp.Format(time.RFC3339), colorReset,
		colorWhite, r.Metric, colorReset,
		colorCyan, r.Value, r.Unit, colorReset,
		colorGray, r.Delta, trendArrow(r.Trend), colorReset,
		statusColor(r.Status), r.Status, colorReset)
}

// Write implements ReadingWriter.
func (w *TUIWriter) Write(r grid.Reading) error {
	w.program.Send(logMsg{line: formatReadingLine(r)})
	w.program.Send(readingMsg{r})
	return nil
}

// WriteBatch outputs multiple readings.
func (w *TUIWriter) WriteBatch(rows []grid.Reading) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteAlert implements AlertWriter.
func (w *TUIWriter) WriteAlert(e alert.Entry) error {
	line := fmt.Sprintf("%s[%s]%s %sALERT%s %s",
		colorGray, e.Reading.Timestamp.Format(time.RFC3339), colorReset,
		statusColor(e.Reading.Status), colorReset, e.Message)
	w.program.Send(alertMsg{line: line, entry: e})
	return nil
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// SetChaosToggler registers the callback bound to the chaos key.
func (w *TUIWriter) SetChaosToggler(fn func() bool) {
	w.program.Send(setChaosMsg{fn: fn})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg          *config.GridConfig
	table        table.Model
	vp           viewport.Model
	alertVP      viewport.Model
	logs         []string
	alertLogs    []string
	order        []string
	latest       map[string]grid.Reading
	alertCount   map[grid.Status]int
	admin        bool
	chaos        bool
	toggleChaos  func() bool
	wrap         bool
	autoscroll   bool
	help         bool
	header       string
	headerHeight int
	height       int
}

func newTUIModel(cfg *config.GridConfig) tuiModel {
	cols := []table.Column{
		{Title: "Metric", Width: 20},
		{Title: "Value", Width: 12},
		{Title: "Unit", Width: 5},
		{Title: "Trend", Width: 5},
		{Title: "Status", Width: 9},
	}
	var order []string
	if cfg != nil {
		for _, m := range cfg.Metrics {
			order = append(order, m.Name)
		}
	}
	m := tuiModel{
		cfg:        cfg,
		vp:         viewport.New(0, 0),
		alertVP:    viewport.New(0, 0),
		order:      order,
		latest:     make(map[string]grid.Reading),
		alertCount: make(map[grid.Status]int),
		autoscroll: true,
	}
	m.table = table.New(table.WithColumns(cols), table.WithRows(m.tableRows()), table.WithHeight(len(order)+1))
	return m
}

func (m tuiModel) tableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.order))
	for _, name := range m.order {
		label := name
		if m.cfg != nil {
			if mc, ok := m.cfg.Metric(name); ok && mc.Label != "" {
				label = mc.Label
			}
		}
		r, ok := m.latest[name]
		if !ok {
			rows = append(rows, table.Row{label, "-", "", "", ""})
			continue
		}
		rows = append(rows, table.Row{label, fmt.Sprintf("%.3f", r.Value), r.Unit, trendArrow(r.Trend), string(r.Status)})
	}
	return rows
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.alertVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshAlerts()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			m.refreshAlerts()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.alertVP.GotoBottom()
			}
			return m, nil
		case "c":
			if m.toggleChaos != nil {
				m.chaos = m.toggleChaos()
			}
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case readingMsg:
		if !m.known(msg.Metric) {
			m.order = append(m.order, msg.Metric)
			m.table.SetHeight(len(m.order) + 1)
		}
		m.latest[msg.Metric] = msg.Reading
		m.table.SetRows(m.tableRows())
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
	case alertMsg:
		m.alertLogs = append(m.alertLogs, msg.line)
		if len(m.alertLogs) > maxLogLines {
			m.alertLogs = m.alertLogs[len(m.alertLogs)-maxLogLines:]
		}
		m.alertCount[msg.entry.Reading.Status]++
		m.updateViewportHeight()
		m.refreshAlerts()
		m.refreshViewport()
	case adminMsg:
		m.admin = msg.active
	case setChaosMsg:
		m.toggleChaos = msg.fn
	}
	return m, nil
}

func (m tuiModel) known(metric string) bool {
	for _, name := range m.order {
		if name == metric {
			return true
		}
	}
	return false
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())

	alertLines := len(m.alertLogs)
	if alertLines == 0 {
		alertLines = 1
	}
	if maxLines := m.maxSectionLines(); alertLines > maxLines {
		alertLines = maxLines
	}
	m.alertVP.Height = alertLines

	h := m.height - m.headerHeight - bottomHeight - (1 + m.alertVP.Height) - 3
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.alertVP.GotoBottom()
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) wrapLines(src []string, width int) string {
	lines := make([]string, 0, len(src))
	for _, l := range src {
		if m.wrap && width > 0 {
			lines = append(lines, wordwrap.String(l, width))
		} else {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *tuiModel) refreshViewport() {
	m.vp.SetContent(m.wrapLines(m.logs, m.vp.Width))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshAlerts() {
	m.alertVP.SetContent(m.wrapLines(m.alertLogs, m.alertVP.Width))
	if m.autoscroll {
		m.alertVP.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		"Alerts:",
		m.alertVP.View(),
		divider,
		m.renderBottom(),
	}
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	title := "Grid"
	if m.cfg != nil {
		title = fmt.Sprintf("Grid %s", m.cfg.GridID)
	}
	titleView := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render(title)
	return lipgloss.JoinVertical(lipgloss.Left, titleView, m.table.View())
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	counts := fmt.Sprintf("%sALERTS%s %swarning=%d%s %scritical=%d%s",
		colorBlue, colorReset,
		colorYellow, m.alertCount[grid.StatusWarning], colorReset,
		colorRed, m.alertCount[grid.StatusCritical], colorReset)
	return fmt.Sprintf("%s | Admin UI %s | Chaos %s | Wrap %s | Scroll %s | Help %s",
		counts, indicator(m.admin), indicator(m.chaos), indicator(m.wrap), indicator(m.autoscroll), indicator(m.help))
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle wrap for log lines",
		" s  toggle auto-scroll",
		" c  toggle chaos mode",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
