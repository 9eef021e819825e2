package loader

import (
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/HydrologicEngineeringCenter/SHEF-processing/pkg/shef"
)

func init() {
	Register("memory", newMemoryLoader)
}

// memoryLoader accumulates values and series boundaries in process memory.
// CanUnload is true: it exists primarily to exercise --unload and the
// round-trip path from ShefValue back to SHEF text via the composer.
type memoryLoader struct {
	logger zerolog.Logger

	mu     sync.Mutex
	values []shef.ShefValue
	bounds []int
}

func newMemoryLoader(logger zerolog.Logger, out io.Writer, format shef.Format, appendMode bool, args []string) (Loader, error) {
	return &memoryLoader{logger: logger}, nil
}

func (l *memoryLoader) SetShefValue(v shef.ShefValue) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values = append(l.values, v)
	return nil
}

func (l *memoryLoader) LoadTimeSeries() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bounds = append(l.bounds, len(l.values))
	return nil
}

func (l *memoryLoader) TimeSeriesName(v shef.ShefValue) string {
	return v.Location + ":" + v.ParameterCode
}

func (l *memoryLoader) Done() error {
	return nil
}

func (l *memoryLoader) CanUnload() bool {
	return true
}

// Unload returns every accumulated value in the order it was received;
// §6.4's --unload path hands this slice to the composer.
func (l *memoryLoader) Unload() ([]shef.ShefValue, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]shef.ShefValue, len(l.values))
	copy(out, l.values)
	return out, nil
}
