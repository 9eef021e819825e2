package loader

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/HydrologicEngineeringCenter/SHEF-processing/pkg/shef"
)

func init() {
	Register("print", newPrintLoader)
}

// printLoader writes each value through the Format1/Format2 emitter to the
// output sink as it arrives. It is the default loader when --loader is
// omitted from the command line.
type printLoader struct {
	logger zerolog.Logger
	out    io.Writer
	format shef.Format
	lastTS string
}

func newPrintLoader(logger zerolog.Logger, out io.Writer, format shef.Format, appendMode bool, args []string) (Loader, error) {
	// args may still force format2 explicitly (e.g. print[format2] with
	// --format left at its default); an explicit bracket arg wins over the
	// command line's --format so a loader spec is self-contained.
	for _, a := range args {
		if a == "format2" {
			format = shef.Format2
		}
	}
	return &printLoader{logger: logger, out: out, format: format}, nil
}

func (l *printLoader) SetShefValue(v shef.ShefValue) error {
	l.lastTS = l.TimeSeriesName(v)
	_, err := fmt.Fprintln(l.out, shef.Emit(v, l.format))
	return err
}

func (l *printLoader) LoadTimeSeries() error {
	l.logger.Debug().Str("series", l.lastTS).Msg("end of series")
	return nil
}

func (l *printLoader) TimeSeriesName(v shef.ShefValue) string {
	return v.Location + ":" + v.ParameterCode
}

func (l *printLoader) Done() error {
	return nil
}

func (l *printLoader) CanUnload() bool {
	return false
}

func (l *printLoader) Unload() ([]shef.ShefValue, error) {
	return nil, fmt.Errorf("loader %q cannot unload", "print")
}
