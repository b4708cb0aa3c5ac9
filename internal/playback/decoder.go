package playback

import (
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"
)

// DecodeFile runs FFmpeg to decode an audio file to raw mono PCM int16
// samples at the given rate. The decoded samples feed the output device
// only; the spectrogram pipeline never sees them.
func DecodeFile(ctx context.Context, path string, sampleRate int) ([]int16, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", "1",
		"-loglevel", "error",
		"pipe:1",
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}

	// Ensure even byte count for int16 alignment
	if len(out)%2 != 0 {
		out = out[:len(out)-1]
	}

	samples := make([]int16, len(out)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(out[i*2 : i*2+2]))
	}

	return samples, nil
}
