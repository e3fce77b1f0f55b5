// Package config handles meshflat configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/philipparndt/meshflat/internal/logger"
	"github.com/philipparndt/meshflat/pkg/flatten"
	"github.com/philipparndt/meshflat/pkg/sparse"
	"go.uber.org/zap"
)

// Config holds all settings of the CLI.
type Config struct {
	Flatten FlattenConfig `yaml:"flatten"`
	Solver  SolverConfig  `yaml:"solver"`
	Output  OutputConfig  `yaml:"output"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// FlattenConfig holds the parameterization settings.
type FlattenConfig struct {
	UseABF        bool `yaml:"use_abf"`
	MaxIterations int  `yaml:"max_iterations"`
}

// SolverConfig holds the linear solver settings.
type SolverConfig struct {
	// Method is auto, direct or iterative.
	Method    string  `yaml:"method"`
	Tolerance float64 `yaml:"tolerance"`

	// MaxIterations of the Krylov solvers; 0 selects ten times the unknowns.
	MaxIterations int `yaml:"max_iterations"`
	DenseLimit    int `yaml:"dense_limit"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	// Format is ply, obj or stl. Empty derives it from the file name.
	Format string `yaml:"format"`
	Report bool   `yaml:"report"`

	// Preview is a PNG file receiving a rendering of the UV layout
	Preview     string `yaml:"preview"`
	PreviewSize int    `yaml:"preview_size"`
}

// WatchConfig holds settings of the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a Config with the default values.
func Default() *Config {
	solver := sparse.DefaultOptions()
	return &Config{
		Flatten: FlattenConfig{
			UseABF:        true,
			MaxIterations: flatten.DefaultMaxIterations,
		},
		Solver: SolverConfig{
			Method:     string(solver.Method),
			Tolerance:  solver.Tolerance,
			DenseLimit: solver.DenseLimit,
		},
		Output: OutputConfig{
			PreviewSize: 1024,
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Flatten.MaxIterations < 0 {
		return fmt.Errorf("flatten.max_iterations must not be negative, got %d", c.Flatten.MaxIterations)
	}
	if _, err := sparse.ParseMethod(c.Solver.Method); err != nil {
		return fmt.Errorf("solver.method: %w", err)
	}
	if c.Solver.Tolerance < 0 {
		return fmt.Errorf("solver.tolerance must not be negative, got %g", c.Solver.Tolerance)
	}
	if c.Solver.MaxIterations < 0 {
		return fmt.Errorf("solver.max_iterations must not be negative, got %d", c.Solver.MaxIterations)
	}
	switch c.Output.Format {
	case "", "ply", "obj", "stl":
	default:
		return fmt.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if c.Output.PreviewSize < 64 {
		return fmt.Errorf("output.preview_size must be at least 64, got %d", c.Output.PreviewSize)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// SolverOptions converts the solver section to sparse.Options.
func (c *Config) SolverOptions() (sparse.Options, error) {
	method, err := sparse.ParseMethod(c.Solver.Method)
	if err != nil {
		return sparse.Options{}, err
	}
	return sparse.Options{
		Method:        method,
		Tolerance:     c.Solver.Tolerance,
		MaxIterations: c.Solver.MaxIterations,
		DenseLimit:    c.Solver.DenseLimit,
	}, nil
}

// FlattenOptions builds the options of a flatten.Flattener.
func (c *Config) FlattenOptions(log *zap.Logger) (flatten.Options, error) {
	solver, err := c.SolverOptions()
	if err != nil {
		return flatten.Options{}, err
	}
	return flatten.Options{
		UseABF:        c.Flatten.UseABF,
		MaxIterations: c.Flatten.MaxIterations,
		Systems:       sparse.New(solver),
		Logger:        log,
	}, nil
}
