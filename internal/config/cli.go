// Package config defines the joymouse command line.
package config

import "github.com/joymouse/joymouse/internal/cmd"

// Log configures the slog logger and the raw record log.
type Log struct {
	Level   string `help:"Log level" enum:"trace,debug,info,warn,error" default:"info" env:"JOYMOUSE_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"JOYMOUSE_LOG_FILE"`
	RawFile string `help:"Write a hex dump of every raw record and report to this file" env:"JOYMOUSE_LOG_RAW_FILE"`
}

// CLI is the root command. Config files are located before parsing, so
// Config is only declared here for --help and validation.
type CLI struct {
	Config string `help:"Path to a JSON, YAML or TOML config file" type:"path" env:"JOYMOUSE_CONFIG"`
	Log    Log    `embed:"" prefix:"log."`

	Run      cmd.Run           `cmd:"" default:"withargs" help:"Move the pointer from transmitter records"`
	Ports    cmd.Ports         `cmd:"" help:"List serial ports"`
	Simulate cmd.Simulate      `cmd:"" help:"Write synthetic transmitter records"`
	Cfg      cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration helpers"`
}
