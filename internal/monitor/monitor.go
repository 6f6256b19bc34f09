// Package monitor implements the serial monitor TUI using BubbleTea: a
// fixed-period consumer tick drains the hand-off queues into the text
// view and the rolling sample buffer, and redraws the live plot.
package monitor

import (
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/serialscope/internal/capture"
	"github.com/luki/serialscope/internal/chart"
	"github.com/luki/serialscope/internal/config"
	"github.com/luki/serialscope/internal/device"
	"github.com/luki/serialscope/internal/history"
	"github.com/luki/serialscope/internal/ingest"
	"github.com/luki/serialscope/internal/session"
)

// ── Messages ─────────────────────────────────────────────────────────

// tickMsg carries the tick-chain generation it was scheduled under, so
// a tick left pending across a reconnect cannot fork a second chain.
type tickMsg struct {
	gen int
}

type portsMsg []string

// ── Timestamp policy cell ────────────────────────────────────────────

// stampCell shares the timestamp policy between the UI (writer) and the
// ingestion producer goroutine (reader on every chunk).
type stampCell struct {
	v atomic.Int32
}

func (c *stampCell) mode() ingest.StampMode { return ingest.StampMode(c.v.Load()) }

func (c *stampCell) set(m ingest.StampMode) { c.v.Store(int32(m)) }

func (c *stampCell) cycle() ingest.StampMode {
	next := (c.mode() + 1) % 3
	c.set(next)
	return next
}

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the serial monitor.
type Model struct {
	cfg    *config.Config
	log    *slog.Logger
	keys   KeyMap
	lister func() ([]string, error)

	sess  *session.Session
	buf   *history.Buffer
	stamp *stampCell
	cap   *capture.Writer

	padX, padY int
	tickGen    int

	vp      viewport.Model
	input   textinput.Model
	content string

	chartView string

	ports   []string
	portIdx int
	baudIdx int

	lineEnd    ingest.LineEnding
	liveTyping bool
	paused     bool

	width, height int
	vpReady       bool

	rx, tx int
	err    error
	note   string
}

// New creates the initial model. opener acquires the device; lister
// enumerates port names (nil means real serial ports).
func New(cfg *config.Config, opener device.Opener, lister func() ([]string, error), log *slog.Logger) Model {
	if log == nil {
		log = slog.Default()
	}
	if lister == nil {
		lister = device.List
	}

	stamp := &stampCell{}
	stamp.set(config.ParseStampMode(cfg.Timestamps))

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type and press enter to send"
	ti.Focus()

	m := Model{
		cfg:        cfg,
		log:        log,
		keys:       DefaultKeyMap(),
		lister:     lister,
		sess:       session.New(opener, stamp.mode, log),
		buf:        history.New(cfg.BufferSize),
		stamp:      stamp,
		input:      ti,
		lineEnd:    config.ParseLineEnding(cfg.LineEnding),
		liveTyping: cfg.LiveTyping,
		baudIdx:    baudIndex(cfg.Baud),
	}
	m.padX, m.padY = chart.CellMargins(cfg.ChartPadding)

	if ports, err := lister(); err == nil {
		m.ports = ports
	}
	if cfg.Port != "" {
		m.ports = ensurePort(m.ports, cfg.Port)
		for i, p := range m.ports {
			if p == cfg.Port {
				m.portIdx = i
			}
		}
	}

	return m
}

func baudIndex(baud int) int {
	for i, b := range device.BaudRates {
		if b == baud {
			return i
		}
	}
	return baudIndex(device.DefaultBaud)
}

func ensurePort(ports []string, name string) []string {
	for _, p := range ports {
		if p == name {
			return ports
		}
	}
	return append(ports, name)
}

func (m Model) selectedPort() string {
	if len(m.ports) == 0 {
		return ""
	}
	return m.ports[m.portIdx]
}

func (m Model) currentBaud() int {
	return device.BaudRates[m.baudIdx]
}

// ── Commands ─────────────────────────────────────────────────────────

func (m Model) tickCmd() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(time.Duration(m.cfg.TickInterval), func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m Model) listPortsCmd() tea.Cmd {
	lister := m.lister
	return func() tea.Msg {
		ports, err := lister()
		if err != nil {
			return portsMsg(nil)
		}
		return portsMsg(ports)
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpH := m.height - m.chartHeight() - 5
		if vpH < 3 {
			vpH = 3
		}
		if !m.vpReady {
			m.vp = viewport.New(m.width, vpH)
			m.vp.SetContent(m.content)
			m.vpReady = true
		} else {
			m.vp.Width = m.width
			m.vp.Height = vpH
		}
		m.input.Width = m.width - 4

	case tickMsg:
		return m.consume(msg)

	case portsMsg:
		if len(msg) > 0 {
			m.ports = msg
			if m.portIdx >= len(m.ports) {
				m.portIdx = 0
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// consume is one consumer tick: drain both queues, append text, feed
// the rolling buffer, and redraw the chart only when new samples landed
// this tick. The tick chain stops when the session closes or when the
// tick belongs to a superseded chain.
func (m Model) consume(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.tickGen || !m.sess.IsOpen() {
		return m, nil
	}
	m.rx = int(m.sess.RxBytes())

	if chunks := m.sess.Text.Drain(); len(chunks) > 0 {
		text := strings.Join(chunks, "")
		if text != "" {
			m.content += text
			if m.vpReady {
				m.vp.SetContent(m.content)
				m.vp.GotoBottom()
			}
			if m.cap.Active() {
				if err := m.cap.Write(text); err != nil {
					m.log.Warn("capture write failed", "err", err)
				}
			}
		}
	}

	samples := m.sess.Samples.Drain()
	for _, v := range samples {
		m.buf.Push(v)
	}

	if len(samples) > 0 && m.chartWidth() > 0 && m.buf.Len() >= 2 && !m.paused {
		f := chart.RenderRect(m.buf.Values(), m.chartWidth(), m.chartHeight(), m.padX, m.padY)
		m.chartView = chart.Draw(f)
	}

	return m, m.tickCmd()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sess.Disconnect()
		m.cap.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Connect):
		return m.toggleConnect()

	case key.Matches(msg, m.keys.CyclePort):
		if m.sess.IsOpen() {
			return m, nil
		}
		if len(m.ports) > 0 {
			m.portIdx = (m.portIdx + 1) % len(m.ports)
		}
		return m, m.listPortsCmd()

	case key.Matches(msg, m.keys.CycleBaud):
		if !m.sess.IsOpen() {
			m.baudIdx = (m.baudIdx + 1) % len(device.BaudRates)
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleEnd):
		m.lineEnd = (m.lineEnd + 1) % 4
		return m, nil

	case key.Matches(msg, m.keys.CycleStamp):
		m.stamp.cycle()
		return m, nil

	case key.Matches(msg, m.keys.LiveTyping):
		m.liveTyping = !m.liveTyping
		return m, nil

	case key.Matches(msg, m.keys.Capture):
		return m.toggleCapture()

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m, nil
	}

	if m.liveTyping && m.sess.IsOpen() {
		if b := liveBytes(msg, m.lineEnd); b != nil {
			if err := m.sess.SendBytes(b); err != nil {
				m.log.Warn("live write failed", "err", err)
				m.note = "write failed"
			} else {
				m.tx += len(b)
			}
			return m, nil
		}
	}

	if key.Matches(msg, m.keys.Send) {
		return m.send()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) toggleConnect() (tea.Model, tea.Cmd) {
	wasOpen := m.sess.IsOpen()
	if err := m.sess.Connect(m.selectedPort(), m.currentBaud()); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil

	if wasOpen {
		// Toggled off.
		m.note = "disconnected"
		return m, nil
	}

	// Fresh session: the previous session's plot is gone, its queued
	// leftovers were discarded on disconnect. Bumping the generation
	// orphans any tick still pending from the previous chain.
	m.tickGen++
	m.buf.Clear()
	m.chartView = ""
	m.note = ""
	if m.cap.Active() {
		if _, err := m.cap.Start(m.sess.StartedAt()); err != nil {
			m.log.Warn("capture restart failed", "err", err)
		}
	}
	return m, m.tickCmd()
}

func (m Model) toggleCapture() (tea.Model, tea.Cmd) {
	if m.cap.Active() {
		m.cap.Close()
		m.note = "capture stopped"
		return m, nil
	}
	if m.cap == nil {
		w, err := capture.New(m.cfg.CaptureDir)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.cap = w
	}
	path, err := m.cap.Start(time.Now())
	if err != nil {
		m.err = err
		return m, nil
	}
	m.note = "capturing to " + path
	return m, nil
}

func (m Model) send() (tea.Model, tea.Cmd) {
	payload := m.input.Value()
	if payload == "" && m.lineEnd == ingest.EndNone {
		return m, nil
	}
	if err := m.sess.Send(payload, m.lineEnd); err != nil {
		m.log.Warn("send failed", "err", err, "bytes", len(payload))
		m.note = "send failed: not connected or write error"
		return m, nil
	}
	m.tx += len(payload) + len(m.lineEnd.Suffix())
	m.input.Reset()
	return m, nil
}

// liveBytes maps a keypress to the bytes forwarded in live-typing mode.
// Arrow keys become ANSI cursor-movement escape triplets; enter sends
// the configured line ending. Unmapped keys return nil and fall through
// to normal handling.
func liveBytes(msg tea.KeyMsg, end ingest.LineEnding) []byte {
	switch msg.Type {
	case tea.KeyRunes:
		return []byte(string(msg.Runes))
	case tea.KeySpace:
		return []byte{' '}
	case tea.KeyBackspace:
		return []byte{0x08}
	case tea.KeyTab:
		return []byte{'\t'}
	case tea.KeyDelete:
		return []byte{0x7f}
	case tea.KeyUp:
		return []byte("\x1b[A")
	case tea.KeyDown:
		return []byte("\x1b[B")
	case tea.KeyRight:
		return []byte("\x1b[C")
	case tea.KeyLeft:
		return []byte("\x1b[D")
	case tea.KeyEnter:
		return []byte(end.Suffix())
	}
	return nil
}

func (m Model) chartWidth() int {
	w := m.width - 2
	if w < 0 {
		return 0
	}
	return w
}

func (m Model) chartHeight() int {
	h := m.height / 3
	if h < 10 {
		h = 10
	}
	if h > 20 {
		h = 20
	}
	return h
}
