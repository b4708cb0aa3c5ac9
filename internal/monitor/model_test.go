package monitor

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/vitalscope/internal/config"
	"github.com/san-kum/vitalscope/internal/dsp"
	"github.com/san-kum/vitalscope/internal/playback"
	"github.com/san-kum/vitalscope/internal/signal"
)

func newTestModel(t *testing.T) (Model, context.CancelFunc) {
	t.Helper()
	cfg := config.DefaultConfig()
	// keep the spectrogram cheap in tests
	cfg.SampleRate = 8000
	cfg.Spectro.Segment = 256
	cfg.Spectro.Overlap = 128

	filter, err := dsp.NewLowPass(cfg.Filter.Order, cfg.Filter.Cutoff, float64(cfg.SampleRate))
	if err != nil {
		t.Fatal(err)
	}
	driver := playback.NewDriver("", nil, playback.PortAudioSink{}, signal.NewProxy(cfg.SampleRate, 1), filter, cfg.Tick())

	_, cancel := context.WithCancel(context.Background())
	return New(cfg, driver, cancel), cancel
}

func TestStepAdvancesTraces(t *testing.T) {
	m, cancel := newTestModel(t)
	defer cancel()

	for i := 0; i < 3; i++ {
		m.step()
	}

	if m.ticks != 3 {
		t.Errorf("expected 3 ticks, got %d", m.ticks)
	}
	vals := m.ecgTrace.Values()
	if vals[len(vals)-1] == vals[len(vals)-2] && vals[len(vals)-2] == vals[len(vals)-3] {
		t.Error("ecg trace did not advance")
	}
	if m.spec == nil {
		t.Error("expected a spectrogram after stepping")
	}
}

func TestICPTraceStaysInBounds(t *testing.T) {
	m, cancel := newTestModel(t)
	defer cancel()

	for i := 0; i < 50; i++ {
		m.step()
	}

	vals := m.icpTrace.Values()
	for _, v := range vals[len(vals)-50:] {
		if v < 5 || v > 25 {
			t.Fatalf("icp sample out of bounds: %f", v)
		}
	}
}

func TestQuitCancelsDriver(t *testing.T) {
	cfgDone := false
	m, cancel := newTestModel(t)
	defer cancel()
	m.cancel = func() { cfgDone = true }

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !cfgDone {
		t.Error("expected quit to cancel the driver context")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestPauseToggle(t *testing.T) {
	m, cancel := newTestModel(t)
	defer cancel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(Model)
	if m.running {
		t.Error("expected paused after space")
	}

	before := m.ticks
	updated, _ = m.Update(TickMsg(time.Now()))
	m = updated.(Model)
	if m.ticks != before {
		t.Error("paused model should not advance on tick")
	}
}

func TestResetClearsTraces(t *testing.T) {
	m, cancel := newTestModel(t)
	defer cancel()

	for i := 0; i < 5; i++ {
		m.step()
	}
	m.reset()

	if m.ticks != 0 {
		t.Errorf("expected 0 ticks after reset, got %d", m.ticks)
	}
	for _, v := range m.icpTrace.Values() {
		if v != 0 {
			t.Fatal("icp trace not cleared by reset")
		}
	}
}

func TestViewShowsPlaybackNotice(t *testing.T) {
	m, cancel := newTestModel(t)
	defer cancel()

	m.notice = "skipping broken.mp3: decode failed"
	if !strings.Contains(m.View(), "skipping broken.mp3") {
		t.Error("view missing playback notice")
	}
}

func TestViewRendersPanels(t *testing.T) {
	m, cancel := newTestModel(t)
	defer cancel()

	m.step()
	view := m.View()

	for _, want := range []string{"VITALSCOPE", "ecg waveform", "icp pressure", "spectrogram"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
