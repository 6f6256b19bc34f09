package monitor

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luki/serialscope/internal/config"
	"github.com/luki/serialscope/internal/device"
	"github.com/luki/serialscope/internal/ingest"
)

// idlePort blocks reads until closed.
type idlePort struct {
	closed  chan struct{}
	written []byte
}

func newIdlePort() *idlePort { return &idlePort{closed: make(chan struct{})} }

func (p *idlePort) Read(buf []byte) (int, error) {
	<-p.closed
	return 0, io.EOF
}

func (p *idlePort) Write(buf []byte) (int, error) {
	p.written = append(p.written, buf...)
	return len(buf), nil
}

func (p *idlePort) Close() error {
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
	return nil
}

// chunkPort yields one chunk, then blocks until closed.
type chunkPort struct {
	*idlePort
	payload string
	sent    bool
}

func newChunkPort(payload string) *chunkPort {
	return &chunkPort{idlePort: newIdlePort(), payload: payload}
}

func (p *chunkPort) Read(buf []byte) (int, error) {
	if !p.sent {
		p.sent = true
		return copy(buf, p.payload), nil
	}
	return p.idlePort.Read(buf)
}

func testModel(t *testing.T, port device.Port) Model {
	t.Helper()
	cfg := config.Default()
	cfg.Port = "/dev/ttyTEST"
	opener := func(name string, baud int) (device.Port, error) { return port, nil }
	lister := func() ([]string, error) { return []string{"/dev/ttyTEST"}, nil }

	m := New(cfg, opener, lister, nil)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return mm.(Model)
}

func TestConsumeDrainsQueuesIntoBufferAndText(t *testing.T) {
	port := newIdlePort()
	m := testModel(t, port)
	defer port.Close()

	if err := m.sess.Connect("/dev/ttyTEST", 115200); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	m.sess.Text.Push("12\n13\n")
	m.sess.Samples.Push(12)
	m.sess.Samples.Push(13)

	mm, cmd := m.consume(tickMsg{gen: m.tickGen})
	m = mm.(Model)

	if cmd == nil {
		t.Error("open session must reschedule the tick")
	}
	if !strings.Contains(m.content, "12\n13\n") {
		t.Errorf("text not appended: %q", m.content)
	}
	if m.buf.Len() != 2 {
		t.Errorf("buffer: got %d samples, want 2", m.buf.Len())
	}
	if m.chartView == "" {
		t.Error("chart should redraw when samples arrived")
	}

	m.sess.Disconnect()
}

func TestConsumeStopsWhenClosed(t *testing.T) {
	m := testModel(t, newIdlePort())

	_, cmd := m.consume(tickMsg{gen: m.tickGen})
	if cmd != nil {
		t.Error("closed session must not reschedule the tick")
	}
}

func TestConsumeSkipsRedrawWithoutNewSamples(t *testing.T) {
	port := newIdlePort()
	m := testModel(t, port)
	defer port.Close()

	if err := m.sess.Connect("/dev/ttyTEST", 115200); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	m.sess.Samples.Push(1)
	m.sess.Samples.Push(2)
	mm, _ := m.consume(tickMsg{gen: m.tickGen})
	m = mm.(Model)
	before := m.chartView

	// Text only, no numeric samples: the canvas stays untouched.
	m.sess.Text.Push("hello\n")
	mm, _ = m.consume(tickMsg{gen: m.tickGen})
	m = mm.(Model)

	if m.chartView != before {
		t.Error("chart must not redraw on a tick without new samples")
	}

	m.sess.Disconnect()
}

func TestConnectClearsPreviousPlot(t *testing.T) {
	port := newIdlePort()
	m := testModel(t, port)
	defer port.Close()

	m.buf.Push(1)
	m.buf.Push(2)
	m.chartView = "stale"

	mm, cmd := m.toggleConnect()
	m = mm.(Model)

	if !m.sess.IsOpen() {
		t.Fatalf("connect failed: %v", m.err)
	}
	if m.buf.Len() != 0 {
		t.Error("rolling buffer must be cleared on a successful open")
	}
	if m.chartView != "" {
		t.Error("previous session's chart must be cleared")
	}
	if cmd == nil {
		t.Error("connect should start the consumer tick")
	}

	m.sess.Disconnect()
}

func TestConnectFailureKeepsPlot(t *testing.T) {
	cfg := config.Default()
	opener := func(name string, baud int) (device.Port, error) {
		return nil, io.ErrUnexpectedEOF
	}
	lister := func() ([]string, error) { return []string{"/dev/ttyTEST"}, nil }
	m := New(cfg, opener, lister, nil)

	m.buf.Push(1)
	m.chartView = "previous"

	mm, _ := m.toggleConnect()
	m = mm.(Model)

	if m.err == nil {
		t.Fatal("expected connect error")
	}
	if m.buf.Len() != 1 || m.chartView != "previous" {
		t.Error("failed open must not wipe the previous session's chart")
	}
}

func TestLiveBytes(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}, "a"},
		{tea.KeyMsg{Type: tea.KeySpace}, " "},
		{tea.KeyMsg{Type: tea.KeyBackspace}, "\x08"},
		{tea.KeyMsg{Type: tea.KeyTab}, "\t"},
		{tea.KeyMsg{Type: tea.KeyDelete}, "\x7f"},
		{tea.KeyMsg{Type: tea.KeyUp}, "\x1b[A"},
		{tea.KeyMsg{Type: tea.KeyDown}, "\x1b[B"},
		{tea.KeyMsg{Type: tea.KeyRight}, "\x1b[C"},
		{tea.KeyMsg{Type: tea.KeyLeft}, "\x1b[D"},
		{tea.KeyMsg{Type: tea.KeyEnter}, "\r\n"},
	}
	for _, tt := range tests {
		got := liveBytes(tt.msg, ingest.EndCRLF)
		if string(got) != tt.want {
			t.Errorf("liveBytes(%v): got %q, want %q", tt.msg, got, tt.want)
		}
	}

	if liveBytes(tea.KeyMsg{Type: tea.KeyCtrlA}, ingest.EndLF) != nil {
		t.Error("unmapped keys must return nil")
	}
}

func TestSendAppendsLineEnding(t *testing.T) {
	port := newIdlePort()
	m := testModel(t, port)
	defer port.Close()

	if err := m.sess.Connect("/dev/ttyTEST", 115200); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	m.lineEnd = ingest.EndCRLF
	m.input.SetValue("hello")

	mm, _ := m.send()
	m = mm.(Model)

	if string(port.written) != "hello\r\n" {
		t.Errorf("written: got %q, want %q", port.written, "hello\r\n")
	}
	if m.input.Value() != "" {
		t.Error("input should reset after send")
	}
	if m.tx != 7 {
		t.Errorf("tx counter: got %d, want 7", m.tx)
	}

	m.sess.Disconnect()
}

func TestStampCellCycle(t *testing.T) {
	c := &stampCell{}
	if c.mode() != ingest.StampOff {
		t.Fatal("initial mode should be off")
	}
	if c.cycle() != ingest.StampAbsolute {
		t.Error("off -> absolute")
	}
	if c.cycle() != ingest.StampRelative {
		t.Error("absolute -> relative")
	}
	if c.cycle() != ingest.StampOff {
		t.Error("relative -> off")
	}
}

func TestStaleTickDoesNotFork(t *testing.T) {
	port := newIdlePort()
	m := testModel(t, port)
	defer port.Close()

	mm, _ := m.toggleConnect()
	m = mm.(Model)
	stale := tickMsg{gen: m.tickGen}

	// Disconnect and reconnect before the pending tick fires.
	mm, _ = m.toggleConnect()
	m = mm.(Model)
	mm, _ = m.toggleConnect()
	m = mm.(Model)

	if _, cmd := m.consume(stale); cmd != nil {
		t.Error("a tick scheduled before a reconnect must not reschedule")
	}
	if _, cmd := m.consume(tickMsg{gen: m.tickGen}); cmd == nil {
		t.Error("the current generation keeps the chain alive")
	}

	m.sess.Disconnect()
}

func TestRxCountsRawBytes(t *testing.T) {
	port := newChunkPort("12\n")
	m := testModel(t, port)
	defer port.Close()
	m.stamp.set(ingest.StampRelative)

	if err := m.sess.Connect("/dev/ttyTEST", 115200); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for m.sess.RxBytes() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	mm, _ := m.consume(tickMsg{gen: m.tickGen})
	m = mm.(Model)

	if !strings.Contains(m.content, "[") {
		t.Fatalf("expected timestamp decoration in %q", m.content)
	}
	if m.rx != 3 {
		t.Errorf("rx: got %d, want raw chunk length 3", m.rx)
	}

	m.sess.Disconnect()
}

func TestChartPaddingConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.ChartPadding = 200
	lister := func() ([]string, error) { return nil, nil }
	m := New(cfg, nil, lister, nil)

	if m.padX != 50 || m.padY != 10 {
		t.Errorf("margins: got (%d,%d), want (50,10)", m.padX, m.padY)
	}
}

func TestTickIntervalDefault(t *testing.T) {
	cfg := config.Default()
	if time.Duration(cfg.TickInterval) != 10*time.Millisecond {
		t.Errorf("tick interval: got %v, want 10ms", time.Duration(cfg.TickInterval))
	}
}
