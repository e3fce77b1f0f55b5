package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flag names shared by the commands.
const (
	FlagConfig     = "config"
	FlagLogLevel   = "log-level"
	FlagLogFile    = "log-file"
	FlagNoABF      = "no-abf"
	FlagIterations = "iterations"
	FlagSolver     = "solver"
	FlagTolerance  = "tolerance"
	FlagFormat     = "format"
	FlagReport     = "report"
	FlagPreview    = "preview"
	FlagDebounce   = "debounce"
)

// BindGlobal registers the persistent flags of the root command.
func BindGlobal(fs *pflag.FlagSet) {
	def := Default()
	fs.String(FlagConfig, "", "Path to config file")
	fs.String(FlagLogLevel, def.Logging.Level, "Log level (debug, info, warn, error)")
	fs.String(FlagLogFile, "", "Write logs to this file as well")
}

// BindFlatten registers the flags controlling a flatten run.
func BindFlatten(fs *pflag.FlagSet) {
	def := Default()
	fs.Bool(FlagNoABF, false, "Skip angle based flattening and run LSCM on the input angles")
	fs.Int(FlagIterations, def.Flatten.MaxIterations, "Maximum ABF iterations")
	fs.String(FlagSolver, def.Solver.Method, "Linear solver (auto, direct, iterative)")
	fs.Float64(FlagTolerance, def.Solver.Tolerance, "Iterative solver tolerance")
	fs.String(FlagFormat, "", "Output format (ply, obj, stl); default from the output file extension")
	fs.Bool(FlagReport, false, "Print a distortion report")
	fs.String(FlagPreview, "", "Render the UV layout to this PNG file")
}

// BindWatch registers the flags of the watch command.
func BindWatch(fs *pflag.FlagSet) {
	fs.Duration(FlagDebounce, Default().Watch.Debounce, "Delay before re-flattening after a change")
}

// applyFlags applies explicitly set flags to the config. Flags that are
// not registered in fs are ignored.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	str(FlagLogLevel, &cfg.Logging.Level)
	str(FlagLogFile, &cfg.Logging.File)
	str(FlagSolver, &cfg.Solver.Method)
	str(FlagFormat, &cfg.Output.Format)
	str(FlagPreview, &cfg.Output.Preview)

	if err == nil && fs.Changed(FlagNoABF) {
		var skip bool
		skip, err = fs.GetBool(FlagNoABF)
		cfg.Flatten.UseABF = !skip
	}
	if err == nil && fs.Changed(FlagIterations) {
		cfg.Flatten.MaxIterations, err = fs.GetInt(FlagIterations)
	}
	if err == nil && fs.Changed(FlagTolerance) {
		cfg.Solver.Tolerance, err = fs.GetFloat64(FlagTolerance)
	}
	if err == nil && fs.Changed(FlagReport) {
		cfg.Output.Report, err = fs.GetBool(FlagReport)
	}
	if err == nil && fs.Changed(FlagDebounce) {
		var d time.Duration
		d, err = fs.GetDuration(FlagDebounce)
		cfg.Watch.Debounce = d
	}
	return err
}
