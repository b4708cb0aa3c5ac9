package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSampleRate    = 44100
	DefaultWindowSeconds = 2.0
	DefaultTraceLen      = 1000
	DefaultTickMillis    = 50
	DefaultCutoff        = 1000.0
	DefaultFilterOrder   = 6
	DefaultSegment       = 1024
	DefaultOverlap       = 768
	DefaultMaxFreq       = 1000.0
	DefaultRepoURL       = "https://github.com/catalyst-cloud/ccloud-client.git"
)

type Config struct {
	MusicDir   string        `yaml:"music_dir"`
	SampleRate int           `yaml:"sample_rate"`
	WindowSec  float64       `yaml:"window_seconds"`
	TraceLen   int           `yaml:"trace_len"`
	TickMillis int           `yaml:"tick_ms"`
	Seed       int64         `yaml:"seed"`
	Filter     FilterConfig  `yaml:"filter"`
	Spectro    SpectroConfig `yaml:"spectrogram"`
	Repo       RepoConfig    `yaml:"repo"`
}

type FilterConfig struct {
	Order  int     `yaml:"order"`
	Cutoff float64 `yaml:"cutoff_hz"`
}

type SpectroConfig struct {
	Segment int     `yaml:"segment"`
	Overlap int     `yaml:"overlap"`
	MaxFreq float64 `yaml:"max_freq_hz"`
}

type RepoConfig struct {
	URL string `yaml:"url"`
	Dir string `yaml:"dir"`
}

func DefaultConfig() *Config {
	return &Config{
		MusicDir:   "music",
		SampleRate: DefaultSampleRate,
		WindowSec:  DefaultWindowSeconds,
		TraceLen:   DefaultTraceLen,
		TickMillis: DefaultTickMillis,
		Filter: FilterConfig{
			Order:  DefaultFilterOrder,
			Cutoff: DefaultCutoff,
		},
		Spectro: SpectroConfig{
			Segment: DefaultSegment,
			Overlap: DefaultOverlap,
			MaxFreq: DefaultMaxFreq,
		},
		Repo: RepoConfig{
			URL: DefaultRepoURL,
			Dir: "ccloud-client",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.WindowSec <= 0 {
		return fmt.Errorf("window_seconds must be positive, got %f", c.WindowSec)
	}
	if c.TraceLen <= 0 {
		return fmt.Errorf("trace_len must be positive, got %d", c.TraceLen)
	}
	if c.TickMillis <= 0 {
		return fmt.Errorf("tick_ms must be positive, got %d", c.TickMillis)
	}
	if c.Filter.Order < 1 {
		return fmt.Errorf("filter order must be at least 1, got %d", c.Filter.Order)
	}
	if c.Filter.Cutoff <= 0 || c.Filter.Cutoff >= float64(c.SampleRate)/2 {
		return fmt.Errorf("filter cutoff must lie in (0, nyquist), got %f", c.Filter.Cutoff)
	}
	if c.Spectro.Segment <= 0 {
		return fmt.Errorf("spectrogram segment must be positive, got %d", c.Spectro.Segment)
	}
	if c.Spectro.Overlap < 0 || c.Spectro.Overlap >= c.Spectro.Segment {
		return fmt.Errorf("spectrogram overlap must lie in [0, segment), got %d", c.Spectro.Overlap)
	}
	return nil
}

// Tick returns the render interval.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.TickMillis) * time.Millisecond
}

// AudioBufferLen returns the audio ring length in samples.
func (c *Config) AudioBufferLen() int {
	return int(float64(c.SampleRate) * c.WindowSec)
}
