package config

func preset(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"wideband": preset(func(c *Config) {
		c.Filter.Cutoff = 4000
		c.Spectro.MaxFreq = 4000
	}),
	"subbass": preset(func(c *Config) {
		c.Filter.Cutoff = 250
		c.Spectro.MaxFreq = 250
		c.Spectro.Segment = 4096
		c.Spectro.Overlap = 3072
	}),
	"slow": preset(func(c *Config) {
		c.TickMillis = 100
		c.WindowSec = 4.0
	}),
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
