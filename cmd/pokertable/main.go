package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/pokertable/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config    string `short:"c" default:"pokertable.hcl" type:"path" help:"HCL configuration file"`
	LogLevel  string `help:"Log level (debug, info, warn, error), overrides the config file"`
	LogFormat string `help:"Log format (text, json, logfmt), overrides the config file"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Simulate SimulateCmd      `cmd:"" help:"Play hands on simulated tables with bots"`
	Eval     EvalCmd          `cmd:"" help:"Evaluate and rank poker hands"`
	Cfg      ConfigCmd        `cmd:"" name:"config" help:"Work with configuration files"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokertable"),
		kong.Description("Poker table rules engine tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// loadConfig reads the configuration file and validates it
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Log.Format = g.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", g.Config, err)
	}
	return cfg, nil
}

// newLogger builds the process logger from validated log settings
func newLogger(w io.Writer, s *config.LogSettings) (*log.Logger, error) {
	level, err := log.ParseLevel(s.Level)
	if err != nil {
		return nil, err
	}
	formatter := log.TextFormatter
	switch s.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
	}), nil
}

func stderrLogger(cfg *config.Config) (*log.Logger, error) {
	return newLogger(os.Stderr, cfg.Log)
}
