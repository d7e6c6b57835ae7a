// Package ui renders live scan progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sigtype/internal/driver"
)

// maxVisible: сколько строк файлов показываем; остальное сворачивается в счётчик.
const maxVisible = 12

// rowState is the lifecycle of one file row.
type rowState uint8

const (
	rowQueued rowState = iota
	rowLoading
	rowParsing
	rowDone
	rowCached
	rowFailed
)

var rowLabels = [...]string{
	rowQueued:  "queued",
	rowLoading: "loading",
	rowParsing: "parsing",
	rowDone:    "done",
	rowCached:  "cached",
	rowFailed:  "error",
}

func (s rowState) String() string { return rowLabels[s] }

func (s rowState) final() bool { return s >= rowDone }

func (s rowState) busy() bool { return s == rowLoading || s == rowParsing || s == rowFailed }

// weight is the share of a file's work counted towards the progress bar.
func (s rowState) weight() float64 {
	switch {
	case s.final():
		return 1
	case s == rowParsing:
		return 0.5
	case s == rowLoading:
		return 0.1
	}
	return 0
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	rowStyles   = [...]lipgloss.Style{
		rowQueued:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		rowLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		rowParsing: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		rowDone:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		rowCached:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		rowFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// stateOf переводит событие драйвера в состояние строки; ok=false: событие не меняет строку.
func stateOf(ev driver.Event) (rowState, bool) {
	switch ev.Status {
	case driver.StatusQueued:
		return rowQueued, true
	case driver.StatusDone:
		return rowDone, true
	case driver.StatusCached:
		return rowCached, true
	case driver.StatusError:
		return rowFailed, true
	case driver.StatusWorking:
		switch ev.Stage {
		case driver.StageLoad:
			return rowLoading, true
		case driver.StageParse:
			return rowParsing, true
		}
	}
	return rowQueued, false
}

type fileRow struct {
	path  string
	state rowState
	sigs  int
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model

	rows       []fileRow
	byPath     map[string]int
	signatures int
	width      int
	done       bool
}

type (
	eventMsg  driver.Event
	closedMsg struct{}
)

// NewProgressModel returns a Bubble Tea model that renders scan progress.
// files may be nil, rows are added as events arrive. The model quits when
// events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = rowStyles[rowLoading]

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for _, f := range files {
		m.row(f)
	}
	return m
}

// row возвращает индекс строки файла, создавая её при первом упоминании.
func (m *progressModel) row(path string) int {
	idx, ok := m.byPath[path]
	if !ok {
		idx = len(m.rows)
		m.rows = append(m.rows, fileRow{path: path})
		m.byPath[path] = idx
	}
	return idx
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next)
}

// next blocks on the event channel; it runs as a tea.Cmd.
func (m *progressModel) next() tea.Msg {
	ev, ok := <-m.events
	if !ok {
		return closedMsg{}
	}
	return eventMsg(ev)
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next)
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	r := &m.rows[m.row(ev.File)]
	if st, ok := stateOf(ev); ok {
		r.state = st
	}
	if r.state == rowDone || r.state == rowCached {
		m.signatures += ev.Signatures - r.sigs
		r.sigs = ev.Signatures
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.state.weight()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) finished() int {
	n := 0
	for _, r := range m.rows {
		if r.state.final() {
			n++
		}
	}
	return n
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s %d/%d files, %d signatures", m.title, m.finished(), len(m.rows), m.signatures)
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-24, 20)
	shown := m.visibleRows()
	for _, r := range shown {
		label := rowStyles[r.state].Render(fmt.Sprintf("%12s", r.state))
		fmt.Fprintf(&b, "  %s %s", label, truncate(r.path, nameWidth))
		if r.sigs > 0 {
			fmt.Fprintf(&b, " (%d)", r.sigs)
		}
		b.WriteByte('\n')
	}
	if hidden := len(m.rows) - len(shown); hidden > 0 {
		fmt.Fprintf(&b, "  %12s %d more\n", "", hidden)
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

// visibleRows ставит вперёд файлы в работе и ошибки, затем очередь;
// завершённые показываются, только если всё помещается.
func (m *progressModel) visibleRows() []fileRow {
	if len(m.rows) <= maxVisible {
		return m.rows
	}
	out := make([]fileRow, 0, maxVisible)
	pick := func(keep func(rowState) bool) {
		for _, r := range m.rows {
			if len(out) < maxVisible && keep(r.state) {
				out = append(out, r)
			}
		}
	}
	pick(rowState.busy)
	pick(func(s rowState) bool { return s == rowQueued })
	return out
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
