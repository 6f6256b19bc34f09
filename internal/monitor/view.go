package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/serialscope/internal/ingest"
)

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorErr      = lipgloss.Color("196")
	colorPaused   = lipgloss.Color("196")
	colorRec      = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderTitleBar(m.width))

	if m.err != nil {
		errBox := lipgloss.NewStyle().
			Foreground(colorErr).
			Bold(true).
			Width(m.width).
			Padding(0, 1).
			Render(fmt.Sprintf("ERROR: %v", m.err))
		sections = append(sections, errBox)
	}

	sections = append(sections, m.renderChartPanel())
	if m.vpReady {
		sections = append(sections, m.vp.View())
	}
	sections = append(sections, m.input.View())
	sections = append(sections, m.renderFooter(m.width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("SERIALSCOPE")

	var statusParts []string

	if m.sess.IsOpen() {
		conn := lipgloss.NewStyle().Foreground(colorOk).Render("OPEN") +
			lipgloss.NewStyle().Foreground(colorLabel).
				Render(fmt.Sprintf(" %s @ %d", m.sess.PortName(), m.sess.Baud()))
		statusParts = append(statusParts, conn)

		up := lipgloss.NewStyle().
			Foreground(colorDim).
			Render("up " + ingest.FormatElapsed(time.Since(m.sess.StartedAt())))
		statusParts = append(statusParts, up)
	} else {
		conn := lipgloss.NewStyle().Foreground(colorDim).Render("CLOSED") +
			lipgloss.NewStyle().Foreground(colorLabel).
				Render(fmt.Sprintf(" %s @ %d", m.portLabel(), m.currentBaud()))
		statusParts = append(statusParts, conn)
	}

	if m.paused {
		statusParts = append(statusParts,
			lipgloss.NewStyle().Foreground(colorPaused).Bold(true).Render("PAUSED"))
	}

	if m.cap.Active() {
		rec := lipgloss.NewStyle().Foreground(colorRec).Render("REC") +
			lipgloss.NewStyle().Foreground(colorDim).Render(" "+m.cap.Path())
		statusParts = append(statusParts, rec)
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) portLabel() string {
	if p := m.selectedPort(); p != "" {
		return p
	}
	return "(no port)"
}

func (m Model) renderChartPanel() string {
	inner := m.chartView
	if inner == "" {
		inner = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(m.chartWidth()).
			Height(m.chartHeight()).
			Align(lipgloss.Center, lipgloss.Center).
			Render("waiting for samples...")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Render(inner)
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	var stats string
	if m.buf.Len() > 0 {
		stats = dimS.Render("last") + valS.Render(fmt.Sprintf("%8.2f", m.buf.Last())) +
			dimS.Render("  min") + valS.Render(fmt.Sprintf("%8.2f", m.buf.Min())) +
			dimS.Render("  max") + valS.Render(fmt.Sprintf("%8.2f", m.buf.Max())) +
			dimS.Render("  avg") + valS.Render(fmt.Sprintf("%8.2f", m.buf.Avg())) +
			dimS.Render(fmt.Sprintf("  n=%d", m.buf.Len()))
	} else if m.note != "" {
		stats = dimS.Render(m.note)
	}

	modes := dimS.Render("eol ") + valS.Render(m.lineEnd.String()) +
		dimS.Render("  ts ") + valS.Render(m.stamp.mode().String()) +
		dimS.Render(fmt.Sprintf("  rx %d tx %d", m.rx, m.tx))
	if m.liveTyping {
		modes += "  " + lipgloss.NewStyle().Foreground(colorOk).Render("LIVE")
	}

	keys := dimS.Render("^o") + lipgloss.NewStyle().Foreground(colorLabel).Render(":conn") +
		dimS.Render(" ^p") + lipgloss.NewStyle().Foreground(colorLabel).Render(":port") +
		dimS.Render(" ^b") + lipgloss.NewStyle().Foreground(colorLabel).Render(":baud") +
		dimS.Render(" ^e") + lipgloss.NewStyle().Foreground(colorLabel).Render(":eol") +
		dimS.Render(" ^t") + lipgloss.NewStyle().Foreground(colorLabel).Render(":ts") +
		dimS.Render(" ^l") + lipgloss.NewStyle().Foreground(colorLabel).Render(":live") +
		dimS.Render(" ^g") + lipgloss.NewStyle().Foreground(colorLabel).Render(":rec") +
		dimS.Render(" ^r") + lipgloss.NewStyle().Foreground(colorLabel).Render(":pause") +
		dimS.Render(" ^c") + lipgloss.NewStyle().Foreground(colorLabel).Render(":quit")

	left := stats
	if left != "" {
		left += dimS.Render("  │  ")
	}
	left += modes

	gap := width - lipgloss.Width(left) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + keys)
}
