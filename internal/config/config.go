package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"pni/internal/analyzer"
)

type Config struct {
	Paths         []string      `toml:"paths"`
	Exclude       Exclude       `toml:"exclude"`
	Skip          Skip          `toml:"skip"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

// Skip mirrors the analyzer's suppression surface. The three lists accept
// comma-separated strings as well as literal TOML lists.
type Skip struct {
	Names                []string `toml:"names"`
	Modules              []string `toml:"modules"`
	NamesFromModules     []string `toml:"names_from_modules"`
	Local                bool     `toml:"local"`
	Relative             bool     `toml:"relative"`
	DontSkipTest         bool     `toml:"dont_skip_test"`
	DontSkipTypeChecking bool     `toml:"dont_skip_type_checking"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRescansPerSecond caps how often changed files are re-analyzed.
	MaxRescansPerSecond float64 `toml:"max_rescans_per_second"`
}

type Output struct {
	SARIF string `toml:"sarif"`
	JSON  string `toml:"json"`
}

type History struct {
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Observability struct {
	Addr          string `toml:"addr"`
	TraceEndpoint string `toml:"trace_endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if len(c.Paths) == 0 {
		c.Paths = []string{"."}
	}
	if len(c.Exclude.Dirs) == 0 {
		c.Exclude.Dirs = []string{".git", ".venv", "venv", "__pycache__", "node_modules"}
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	if c.Watch.MaxRescansPerSecond == 0 {
		c.Watch.MaxRescansPerSecond = 4
	}
	if c.History.ProjectKey == "" {
		c.History.ProjectKey = "default"
	}
}

// SkipOptions converts the skip section into the analyzer's raw option form.
func (c *Config) SkipOptions() analyzer.Options {
	return analyzer.Options{
		SkipNames:            c.Skip.Names,
		SkipModules:          c.Skip.Modules,
		SkipNamesFromModules: c.Skip.NamesFromModules,
		SkipLocal:            c.Skip.Local,
		SkipRelative:         c.Skip.Relative,
		DontSkipTest:         c.Skip.DontSkipTest,
		DontSkipTypeChecking: c.Skip.DontSkipTypeChecking,
	}
}
