// Package playback iterates the discovered track list, plays each track on
// an audio sink, and emits filtered proxy audio chunks for the monitor's
// spectrogram while playback runs.
package playback

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/san-kum/vitalscope/internal/dsp"
	"github.com/san-kum/vitalscope/internal/signal"
)

// ErrNoTracks indicates the track list is empty; no playback happens.
var ErrNoTracks = errors.New("playback: no tracks found")

// Chunk is an immutable snapshot of filtered proxy audio. Chunks cross a
// bounded channel from the driver (single producer) to the render loop
// (single consumer), which owns the audio ring.
type Chunk []float64

type Driver struct {
	dir      string
	tracks   []string
	sink     Sink
	proxy    *signal.Proxy
	filter   *dsp.LowPass
	interval time.Duration
	feed     chan Chunk
	skip     chan struct{}
	notes    chan string
	decode   func(ctx context.Context, path string, rate int) ([]int16, error)

	mu      sync.Mutex
	current string
}

func NewDriver(dir string, names []string, sink Sink, proxy *signal.Proxy, filter *dsp.LowPass, interval time.Duration) *Driver {
	return &Driver{
		dir:      dir,
		tracks:   names,
		sink:     sink,
		proxy:    proxy,
		filter:   filter,
		interval: interval,
		feed:     make(chan Chunk, 8),
		skip:     make(chan struct{}, 1),
		notes:    make(chan string, 4),
		decode:   DecodeFile,
	}
}

// Feed returns the channel of outgoing audio chunks.
func (d *Driver) Feed() <-chan Chunk {
	return d.feed
}

// Notices returns playback status messages (skipped tracks, sink errors).
// The driver never writes to the terminal directly; the render loop owns
// it and displays these instead.
func (d *Driver) Notices() <-chan string {
	return d.notes
}

func (d *Driver) notify(format string, args ...any) {
	select {
	case d.notes <- fmt.Sprintf(format, args...):
	default:
	}
}

// Skip interrupts the current track.
func (d *Driver) Skip() {
	select {
	case d.skip <- struct{}{}:
	default:
	}
}

// Current returns the name of the playing track, or "" between tracks.
func (d *Driver) Current() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *Driver) setCurrent(name string) {
	d.mu.Lock()
	d.current = name
	d.mu.Unlock()
}

// Run walks the track list once. A track that fails to decode or play is
// reported and skipped; there are no retries. Returns ErrNoTracks when the
// list is empty.
func (d *Driver) Run(ctx context.Context) error {
	if len(d.tracks) == 0 {
		return ErrNoTracks
	}

	for _, name := range d.tracks {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		samples, err := d.decode(ctx, filepath.Join(d.dir, name), d.proxy.Rate())
		if err != nil {
			d.notify("skipping %s: %v", name, err)
			continue
		}

		if err := d.playTrack(ctx, name, samples); err != nil {
			return err
		}
	}

	return nil
}

// playTrack starts the sink and emits one proxy chunk per interval until
// the track ends, is skipped, or the context is canceled.
func (d *Driver) playTrack(ctx context.Context, name string, samples []int16) error {
	d.setCurrent(name)
	defer d.setCurrent("")

	playCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- d.sink.Play(playCtx, samples, d.proxy.Rate())
	}()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cancel()
			<-done
			return ctx.Err()
		case <-d.skip:
			cancel()
			<-done
			return nil
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				d.notify("skipping %s: %v", name, err)
			}
			return nil
		case <-ticker.C:
			d.emit()
		}
	}
}

// emit sends one filtered proxy chunk; when the feed is full the oldest
// chunk is dropped rather than blocking the playback loop.
func (d *Driver) emit() {
	chunk := Chunk(d.filter.Apply(d.proxy.Chunk(d.interval)))
	for {
		select {
		case d.feed <- chunk:
			return
		default:
		}
		select {
		case <-d.feed:
		default:
		}
	}
}
