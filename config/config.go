// Package config resolves the engine's runtime settings from a YAML file
// or command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Input is the path of the CSV transaction stream. Required.
	Input string
	// Output is the path of the balances report. Empty means stdout.
	Output string
	// JournalDir enables the WAL audit journal when non-empty.
	JournalDir string
	// ServeAddr enables the balance HTTP API when non-empty, e.g. ":8080".
	ServeAddr string
	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string
}

type configYaml struct {
	Input      string `yaml:"input"`
	Output     string `yaml:"output,omitempty"`
	JournalDir string `yaml:"journal_dir,omitempty"`
	ServeAddr  string `yaml:"serve_addr,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

// Get parses flags and, when --config is given, overlays the YAML file.
// The first positional argument names the input file, matching the plain
// "payproc transactions.csv" invocation.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	input := flag.String("input", "", "path to the input transactions CSV")
	output := flag.String("output", "", "path for the balances CSV, stdout if empty")
	journalDir := flag.String("journal-dir", "", "directory for the audit WAL, disabled if empty")
	serveAddr := flag.String("serve", "", "address for the balance HTTP API, disabled if empty")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")

	flag.Parse()

	cfg := Config{
		Input:      *input,
		Output:     *output,
		JournalDir: *journalDir,
		ServeAddr:  *serveAddr,
		LogLevel:   *logLevel,
	}

	if *configPath != "" {
		fromFile, err := getYaml(*configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fromFile)
	}

	if args := flag.Args(); len(args) > 0 && cfg.Input == "" {
		cfg.Input = args[0]
	}

	if cfg.Input == "" {
		return Config{}, fmt.Errorf("no input file provided, pass it as an argument or via --input")
	}

	return cfg, nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var tmp configYaml
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return Config{
		Input:      tmp.Input,
		Output:     tmp.Output,
		JournalDir: tmp.JournalDir,
		ServeAddr:  tmp.ServeAddr,
		LogLevel:   tmp.LogLevel,
	}, nil
}

// merge keeps flag values and fills the gaps from the YAML file.
func merge(flags, file Config) Config {
	if flags.Input == "" {
		flags.Input = file.Input
	}
	if flags.Output == "" {
		flags.Output = file.Output
	}
	if flags.JournalDir == "" {
		flags.JournalDir = file.JournalDir
	}
	if flags.ServeAddr == "" {
		flags.ServeAddr = file.ServeAddr
	}
	if flags.LogLevel == "" || flags.LogLevel == "info" {
		if file.LogLevel != "" {
			flags.LogLevel = file.LogLevel
		}
	}
	return flags
}
