package shef

import "fmt"

// ErrKind is the closed set of error kinds from spec §7.
type ErrKind int

const (
	// SyntaxError: a token doesn't match the grammar at the current cursor.
	SyntaxError ErrKind = iota
	// RegistryMissError: a PE/duration/TS/extremum/qualifier code was not found in the registry.
	RegistryMissError
	// NumericError: a value token failed numeric parse and was not a recognized sentinel.
	NumericError
	// TimeError: a date/time triplet was invalid, or ambiguous across a zone transition.
	TimeError
	// ContextError: a required inherited default was missing (e.g. .E body with no DI).
	ContextError
	// IOError: reading input or writing output failed. Always fatal.
	IOError
	// ConfigError: contradictory flags or an invalid SHEFPARM override. Always fatal.
	ConfigError
)

func (k ErrKind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case RegistryMissError:
		return "RegistryMissError"
	case NumericError:
		return "NumericError"
	case TimeError:
		return "TimeError"
	case ContextError:
		return "ContextError"
	case IOError:
		return "IOError"
	case ConfigError:
		return "ConfigError"
	default:
		return "UnknownError"
	}
}

// Recoverable reports whether an error of this kind may be skipped past in
// permissive mode rather than aborting the run.
func (k ErrKind) Recoverable() bool {
	switch k {
	case IOError, ConfigError:
		return false
	default:
		return true
	}
}

// Diagnostic is one decode-time error or warning, carrying enough context
// for a host to log or filter on: source position, the PE code in play (if
// any), and the offending text.
type Diagnostic struct {
	Kind    ErrKind
	File    string
	Line    int
	PE      string
	Text    string
	Message string
}

func (d *Diagnostic) Error() string {
	loc := d.File
	if loc == "" {
		loc = "<input>"
	}
	if d.PE != "" {
		return fmt.Sprintf("%s:%d: %s: PE=%s %q: %s", loc, d.Line, d.Kind, d.PE, d.Text, d.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %q: %s", loc, d.Line, d.Kind, d.Text, d.Message)
}

// ErrMaxErrors is returned when the decoder's recoverable error count
// exceeds ParamRegistry.MaxErrors. It is a clean terminal transition, not a
// crash: complete, error-free ShefValues already buffered are flushed first.
var ErrMaxErrors = fmt.Errorf("shef: max_errors exceeded")

// ErrNoHeader is returned when a message record has no parseable header line.
var ErrNoHeader = fmt.Errorf("shef: no header")
