package main

import (
	"fmt"

	"github.com/lox/pokertable/internal/config"
)

// ConfigCmd is the root command for configuration utilities
type ConfigCmd struct {
	Validate ConfigValidateCmd `cmd:"" help:"Validate an HCL configuration file"`
}

// ConfigValidateCmd checks a configuration file and lists its tables
type ConfigValidateCmd struct {
	File string `arg:"" type:"existingfile" help:"Path to the configuration file"`
}

func (c *ConfigValidateCmd) Run() error {
	cfg, err := config.Load(c.File)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(errorStyle.Render("✗ " + err.Error()))
		return err
	}
	fmt.Println(renderConfig(c.File, cfg))
	return nil
}

func renderConfig(file string, cfg *config.Config) string {
	rows := make([][2]string, 0, len(cfg.Tables))
	for _, t := range cfg.Tables {
		kind := "cash"
		if t.Tournament {
			kind = "tournament"
		}
		rows = append(rows, row(t.Name, "%s %d/%d %s, %d seats (%s)",
			t.Variant, t.SmallBlind, t.BigBlind, t.BetStrategy, t.Seats, kind))
	}
	return section(winStyle.Render("✓ ")+file, rows)
}
