// Package config loads and validates engine configuration.
//
// Configuration files are CUE (or plain JSON, which is valid CUE). They are
// unified with the embedded #Config schema, so constraints and defaults live
// in one place and violations carry file positions.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/classroom/internal/validate"
)

//go:embed schema.cue
var schemaCUE string

// Config is the decoded, validated configuration.
type Config struct {
	Database      string  `json:"database"`
	LogLevel      string  `json:"log_level"`
	NameMaxLength int     `json:"name_max_length"`
	FinalScore    Range   `json:"final_score"`
	Weights       Weights `json:"weights"`
	TxTimeout     string  `json:"tx_timeout"`
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Weights are the coefficients of the weighted final grade.
// Homework applies to the sum of both homework scores.
type Weights struct {
	Midterm  float64 `json:"midterm"`
	Final    float64 `json:"final"`
	Homework float64 `json:"homework"`
}

// Error is a configuration error with its source position when known.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: config: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("config: %s", e.Message)
}

// Default returns the configuration an empty file produces.
func Default() Config {
	cfg, err := Parse(nil, "default")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema is invalid: %v", err))
	}
	return cfg
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, path)
}

// Parse validates src against the schema and decodes it. filename is used in
// error positions only.
func Parse(src []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue")).
		LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	file := ctx.CompileBytes(src, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	v := schema.Unify(file)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(err)
	}

	if _, err := time.ParseDuration(cfg.TxTimeout); err != nil {
		return Config{}, &Error{Message: fmt.Sprintf("tx_timeout: %v", err)}
	}

	return cfg, nil
}

// Timeout is the per-request transaction timeout.
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.TxTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// FinalBounds is the accepted final score interval.
func (c Config) FinalBounds() validate.Bounds {
	return validate.Bounds{Min: c.FinalScore.Min, Max: c.FinalScore.Max}
}

// Level maps log_level to a slog level.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}

	// Report the first error with a position.
	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &Error{Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Message: first.Error()}
}
