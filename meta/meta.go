// meta/meta.go
package meta

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DEFAULT_CONFIG is the file looked up when no --config flag is given.
const DEFAULT_CONFIG = "chomp.yaml"

// DEFAULT_WORKERS defines the number of games played concurrently in experiments.
const DEFAULT_WORKERS = 8

// DEFAULT_GAMES defines the number of games per match-up and board.
const DEFAULT_GAMES = 30

type Config struct {
	LogLevel    string            `yaml:"log_level"`
	Solver      SolverConfig      `yaml:"solver"`
	Render      RenderConfig      `yaml:"render"`
	Experiments ExperimentsConfig `yaml:"experiments"`
	Server      ServerConfig      `yaml:"server"`
}

type SolverConfig struct {
	Memoize bool `yaml:"memoize"`
	// Tablebase is a BadgerDB directory. Empty keeps the table in memory.
	Tablebase string `yaml:"tablebase"`
}

type RenderConfig struct {
	Present string `yaml:"present"`
	Absent  string `yaml:"absent"`
}

type ExperimentsConfig struct {
	Games     int      `yaml:"games"`
	Workers   int      `yaml:"workers"`
	Seed      uint64   `yaml:"seed"`
	OutputDir string   `yaml:"output_dir"`
	Boards    []string `yaml:"boards"` // "<rows>x<cols>"
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func Default() Config {
	return Config{
		LogLevel: "warn",
		Solver:   SolverConfig{Memoize: true},
		Render:   RenderConfig{Present: "#", Absent: "."},
		Experiments: ExperimentsConfig{
			Games:     DEFAULT_GAMES,
			Workers:   DEFAULT_WORKERS,
			Seed:      1,
			OutputDir: "results",
			Boards:    []string{"3x3", "4x5", "6x7"},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads a YAML config on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	config := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if len([]rune(c.Render.Present)) != 1 || len([]rune(c.Render.Absent)) != 1 {
		return fmt.Errorf("render: present and absent must be single characters")
	}
	if c.Experiments.Games < 1 {
		return fmt.Errorf("experiments.games must be positive, got %d", c.Experiments.Games)
	}
	if c.Experiments.Workers < 1 {
		return fmt.Errorf("experiments.workers must be positive, got %d", c.Experiments.Workers)
	}
	for _, board := range c.Experiments.Boards {
		if _, _, err := ParseBoard(board); err != nil {
			return fmt.Errorf("experiments.boards: %w", err)
		}
	}
	return nil
}

// Runes returns the render characters.
func (r RenderConfig) Runes() (present, absent rune) {
	return []rune(r.Present)[0], []rune(r.Absent)[0]
}

// ParseBoard parses "<rows>x<cols>". Sizes are checked by the game package.
func ParseBoard(s string) (rows, cols int, err error) {
	bad := fmt.Errorf("bad board %q, want <rows>x<cols>", s)
	r, c, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		return 0, 0, bad
	}
	if rows, err = strconv.Atoi(r); err != nil {
		return 0, 0, bad
	}
	if cols, err = strconv.Atoi(c); err != nil {
		return 0, 0, bad
	}
	return rows, cols, nil
}

// SetupLogging points the global logger at w with the given level.
func SetupLogging(level string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly})
	return nil
}
