package shef

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func valueAt(loc, code string, t time.Time, value float64) ShefValue {
	return ShefValue{
		Location:      loc,
		ObsTime:       t,
		ParameterCode: code,
		DurationValue: DurationVariable,
		Value:         value,
	}
}

func TestCompose_UniformIntervalProducesE(t *testing.T) {
	assert := assert.New(t)
	base := time.Date(2025, 11, 7, 14, 0, 0, 0, time.UTC)
	values := []ShefValue{
		valueAt("KEYO2", "HTIRZZ", base, 637.74),
		valueAt("KEYO2", "HTIRZZ", base.Add(time.Hour), 637.73),
		valueAt("KEYO2", "HTIRZZ", base.Add(2*time.Hour), 638.00),
	}
	out := Compose(values)
	assert.True(strings.HasPrefix(out, ".E KEYO2 20251107 Z DH140000/HTIRZZ/DIH01"))
	assert.Contains(out, "637.74/637.73/638")
}

func TestCompose_NonUniformProducesA(t *testing.T) {
	assert := assert.New(t)
	base := time.Date(2025, 11, 7, 14, 0, 0, 0, time.UTC)
	values := []ShefValue{
		valueAt("KEYO2", "HTIRZZ", base, 1.0),
		valueAt("KEYO2", "HTIRZZ", base.Add(37*time.Minute), 2.0),
	}
	out := Compose(values)
	assert.True(strings.HasPrefix(out, ".A KEYO2 20251107 Z DH140000"))
}

func TestCompose_SharedObsTimeGroupedIntoOneMessage(t *testing.T) {
	assert := assert.New(t)
	obs := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	values := []ShefValue{
		valueAt("TNSO2", "PCRZZZ", obs, 0.0),
		valueAt("TNSO2", "TARZZZ", obs, 78.5),
	}
	out := Compose(values)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(lines, 1, "both values share location+obs_time, so one .A message covers both")
	assert.Contains(lines[0], "PCRZZZ")
	assert.Contains(lines[0], "TARZZZ")
}

func TestCompose_MissingValuePreservesPositionInEStream(t *testing.T) {
	assert := assert.New(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	v1 := valueAt("ABCD1", "HGIRZZ", base, 1.0)
	v2 := valueAt("ABCD1", "HGIRZZ", base.Add(time.Hour), 0)
	v2.Missing = true
	v2.Value = Missing
	v3 := valueAt("ABCD1", "HGIRZZ", base.Add(2*time.Hour), 3.0)

	out := Compose([]ShefValue{v1, v2, v3})
	assert.Contains(out, "1/M/3")
}

func TestCompose_EmptyInput(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("", Compose(nil))
}
