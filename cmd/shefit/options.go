package main

import (
	"github.com/go-playground/validator/v10"
	"github.com/urfave/cli/v2"
)

// cliOptions mirrors the subset of §6.1's flags that carry cross-flag
// constraints; it exists only to give validator/v10 a struct to check,
// the way the teacher pack validates a decoded struct with one package
// level *validator.Validate instance.
type cliOptions struct {
	Format      int    `validate:"oneof=1 2"`
	LogLevel    string `validate:"oneof=DEBUG INFO WARNING ERROR CRITICAL"`
	ShefparmSet bool
	Defaults    bool `validate:"excluded_with=ShefparmSet"`
}

var validate *validator.Validate

// validateFlags checks the cross-flag constraints of §6.1 (format in {1,2},
// loglevel in the closed set, --shefparm/--defaults mutually exclusive)
// before a subcommand acts on them.
func validateFlags(c *cli.Context) error {
	opts := cliOptions{
		Format:      c.Int("format"),
		LogLevel:    normalizeLogLevel(c.String("loglevel")),
		ShefparmSet: c.String("shefparm") != "",
		Defaults:    c.Bool("defaults"),
	}
	if validate == nil {
		validate = validator.New()
	}
	if err := validate.Struct(opts); err != nil {
		return fail(exitConfigError, "invalid flags: %w", err)
	}
	return nil
}

func normalizeLogLevel(s string) string {
	switch s {
	case "debug", "Debug":
		return "DEBUG"
	case "warning", "Warning", "warn", "WARN":
		return "WARNING"
	case "error", "Error":
		return "ERROR"
	case "critical", "Critical":
		return "CRITICAL"
	case "":
		return "INFO"
	default:
		return s
	}
}
