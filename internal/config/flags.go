package config

import "github.com/spf13/pflag"

// Flags holds CLI overrides registered on a pflag.FlagSet.
type Flags struct {
	fs *pflag.FlagSet

	Config    string
	Debug     bool
	Workers   int
	DType     string
	Precision int
	Format    string
	LogLevel  string
	LogFile   string
}

// BindFlags registers the config flags on fs and returns their holder.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.Config, "config", "c", "", "path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.IntVarP(&f.Workers, "workers", "w", 0, "worker goroutines per operation (0 = one per CPU)")
	fs.StringVar(&f.DType, "dtype", "", "default element type for job inputs")
	fs.IntVarP(&f.Precision, "precision", "p", -1, "significant digits in output (-1 = shortest exact)")
	fs.StringVarP(&f.Format, "format", "f", "", "output format: yaml or json")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.LogFile, "log-file", "", "also write JSON logs to this rotating file")
	return f
}

// ConfigPath returns the explicit config path given with --config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.Config
}

// changed reports whether the user set the named flag.
func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// applyFlags applies CLI flag overrides to the config. Only flags the user
// set take effect, so file values survive unset flags.
func applyFlags(cfg *Config, f *Flags) {
	if f == nil {
		return
	}
	if f.changed("workers") {
		cfg.Compute.Workers = f.Workers
	}
	if f.changed("dtype") {
		cfg.Compute.DType = f.DType
	}
	if f.changed("precision") {
		cfg.Output.Precision = f.Precision
	}
	if f.changed("format") {
		cfg.Output.Format = f.Format
	}
	if f.changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}
	if f.changed("log-file") {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
}
