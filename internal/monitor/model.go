// Package monitor renders the live vitals view: ECG trace, ICP trace, and
// the audio spectrogram, redrawn on a fixed tick.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/vitalscope/internal/buffer"
	"github.com/san-kum/vitalscope/internal/config"
	"github.com/san-kum/vitalscope/internal/dsp"
	"github.com/san-kum/vitalscope/internal/playback"
	"github.com/san-kum/vitalscope/internal/signal"
)

const (
	chartWidth  = 90
	chartHeight = 7
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	trackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	panelStyle  = lipgloss.NewStyle().Padding(0, 1)
	ecgStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	icpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model holds the trace buffers and the last computed spectrogram. It is
// the sole consumer of the driver's chunk feed and the only owner of the
// audio ring.
type Model struct {
	cfg    *config.Config
	ecg    *signal.ECG
	icp    *signal.ICP
	driver *playback.Driver
	feed   <-chan playback.Chunk
	cancel context.CancelFunc

	ecgTrace *buffer.Rolling
	icpTrace *buffer.Rolling
	audio    *buffer.Rolling
	spec     *dsp.Spectro

	running bool
	ticks   int
	notice  string
}

func New(cfg *config.Config, driver *playback.Driver, cancel context.CancelFunc) Model {
	return Model{
		cfg:      cfg,
		ecg:      signal.NewECG(),
		icp:      signal.NewICP(cfg.Seed),
		driver:   driver,
		feed:     driver.Feed(),
		cancel:   cancel,
		ecgTrace: buffer.NewRolling(cfg.TraceLen),
		icpTrace: buffer.NewRolling(cfg.TraceLen),
		audio:    buffer.NewRolling(cfg.AudioBufferLen()),
		running:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Tick(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "n":
			m.driver.Skip()
		}
	case TickMsg:
		m.drainNotices()
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances every trace by one sample and recomputes the spectrogram
// over the whole audio ring.
func (m *Model) step() {
	m.ecgTrace.Push(m.ecg.Next())
	m.icpTrace.Push(m.icp.Next())
	m.ticks++

	for {
		select {
		case chunk := <-m.feed:
			m.audio.PushAll(chunk)
		default:
			sp, err := dsp.Spectrogram(m.audio.Values(), float64(m.cfg.SampleRate), m.cfg.Spectro.Segment, m.cfg.Spectro.Overlap)
			if err == nil {
				m.spec = sp.LimitFreq(m.cfg.Spectro.MaxFreq)
			}
			return
		}
	}
}

// drainNotices keeps the latest playback message for the status line, even
// while paused.
func (m *Model) drainNotices() {
	for {
		select {
		case n := <-m.driver.Notices():
			m.notice = n
		default:
			return
		}
	}
}

func (m *Model) reset() {
	m.ecg.Reset()
	m.ecgTrace.Reset()
	m.icpTrace.Reset()
	m.audio.Reset()
	m.spec = nil
	m.ticks = 0
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("VITALSCOPE") + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	elapsed := float64(m.ticks) * m.cfg.Tick().Seconds()
	s.WriteString(statusStyle.Render(fmt.Sprintf("%s  %.1fs", status, elapsed)))
	if track := m.driver.Current(); track != "" {
		s.WriteString("  " + trackStyle.Render("playing "+track))
	}
	if m.notice != "" {
		s.WriteString("  " + noticeStyle.Render(m.notice))
	}
	s.WriteString("\n\n")

	ecgChart := asciigraph.Plot(m.ecgTrace.Values(),
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.LowerBound(-1),
		asciigraph.UpperBound(3),
		asciigraph.Caption("ecg waveform"),
	)
	s.WriteString(panelStyle.Render(ecgStyle.Render(ecgChart)) + "\n\n")

	icpChart := asciigraph.Plot(m.icpTrace.Values(),
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(30),
		asciigraph.Caption("icp pressure (simulated)"),
	)
	s.WriteString(panelStyle.Render(icpStyle.Render(icpChart)) + "\n\n")

	s.WriteString(panelStyle.Render(renderSpectrogram(m.spec, specRows, specCols)) + "\n")

	s.WriteString(helpStyle.Render("SP:pause  R:reset  N:next track  Q:quit"))
	return s.String()
}
