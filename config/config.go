// Package config loads dicemath settings from an optional YAML file and
// DICEMATH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"dicemath/meta"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	Game     Game   `yaml:"game" envPrefix:"GAME_"`
	Server   Server `yaml:"server" envPrefix:"SERVER_"`
	Survey   Survey `yaml:"survey" envPrefix:"SURVEY_"`
}

type Game struct {
	DieFaces        int     `yaml:"die_faces" env:"DIE_FACES" validate:"gte=1"`
	MinTarget       int     `yaml:"min_target" env:"MIN_TARGET"`
	MaxTarget       int     `yaml:"max_target" env:"MAX_TARGET" validate:"gtefield=MinTarget"`
	DefaultTarget   int     `yaml:"default_target" env:"DEFAULT_TARGET"`
	MaxAttempts     int     `yaml:"max_attempts" env:"MAX_ATTEMPTS" validate:"gte=1"`
	AnswerTolerance float64 `yaml:"answer_tolerance" env:"ANSWER_TOLERANCE" validate:"gt=0"`
}

type Server struct {
	Address      string        `yaml:"address" env:"ADDRESS" validate:"required"`
	SolveTimeout time.Duration `yaml:"solve_timeout" env:"SOLVE_TIMEOUT" validate:"gt=0"`
	SessionTTL   time.Duration `yaml:"session_ttl" env:"SESSION_TTL" validate:"gt=0"`
	MaxSessions  int           `yaml:"max_sessions" env:"MAX_SESSIONS" validate:"gte=1"`
}

type Survey struct {
	Goroutines int    `yaml:"goroutines" env:"GOROUTINES" validate:"gte=1"`
	OutputDir  string `yaml:"output_dir" env:"OUTPUT_DIR" validate:"required"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Game: Game{
			DieFaces:        meta.DIE_FACES,
			MinTarget:       meta.MIN_TARGET,
			MaxTarget:       meta.MAX_TARGET,
			DefaultTarget:   meta.DEFAULT_TARGET,
			MaxAttempts:     meta.MAX_ATTEMPTS,
			AnswerTolerance: meta.ANSWER_TOLERANCE,
		},
		Server: Server{
			Address:      ":8080",
			SolveTimeout: meta.SOLVE_TIMEOUT,
			SessionTTL:   meta.SESSION_TTL,
			MaxSessions:  meta.MAX_SESSIONS,
		},
		Survey: Survey{
			Goroutines: meta.GO_ROUTINES,
			OutputDir:  "surveys",
		},
	}
}

var validate = validator.New()

// Load starts from Default, applies the YAML file at path if it exists, then
// environment overrides, and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "DICEMATH_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
