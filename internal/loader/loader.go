// Package loader implements the §6.4 plug-in contract: a registration table
// of named factories, populated at program start, so the decoder depends
// only on the Loader trait and never on a concrete loader's identity.
package loader

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/HydrologicEngineeringCenter/SHEF-processing/pkg/shef"
)

// Loader is the trait a `--loader NAME[opt]…` plug-in must satisfy.
// SetShefValue is called once per decoded value, in document order.
// LoadTimeSeries is called whenever TimeSeriesName changes from the value
// most recently passed to SetShefValue, signalling a series boundary.
// Done is called exactly once, after the last value of the run.
type Loader interface {
	SetShefValue(v shef.ShefValue) error
	LoadTimeSeries() error
	TimeSeriesName(v shef.ShefValue) string
	Done() error

	// CanUnload reports whether Unload is implemented. A loader that
	// answers false must reject --unload with exit code 1 (§6.4).
	CanUnload() bool
	Unload() ([]shef.ShefValue, error)
}

// Factory constructs a Loader bound to a logger, an output sink, the
// --format emit format, an append flag, and the loader-specific argument
// list parsed from the command line's bracketed `[opt1][opt2]…` suffix.
type Factory func(logger zerolog.Logger, out io.Writer, format shef.Format, appendMode bool, args []string) (Loader, error)

var registry = map[string]Factory{}

// Register adds a named Factory to the table. Call from an init() func in
// the package implementing the loader, per §9's "registration table of
// factories" design note.
func Register(name string, f Factory) {
	registry[name] = f
}

// Lookup resolves a loader by name, as named on the command line.
func Lookup(name string) (Factory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown loader %q", name)
	}
	return f, nil
}

// Names lists the registered loader names, for --help output.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
