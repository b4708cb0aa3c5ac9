package playback

import (
	"context"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 1024

// Sink plays decoded PCM to completion or cancellation.
type Sink interface {
	Play(ctx context.Context, samples []int16, sampleRate int) error
}

// PortAudioSink drives the default output device through portaudio.
type PortAudioSink struct{}

func (PortAudioSink) Play(ctx context.Context, samples []int16, sampleRate int) error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	defer portaudio.Terminate()

	pos := 0
	done := make(chan struct{})
	var closed bool

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), framesPerBuffer, func(out []int16) {
		n := copy(out, samples[pos:])
		pos += n
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
		if pos >= len(samples) && !closed {
			closed = true
			close(done)
		}
	})
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}
