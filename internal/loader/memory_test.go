package loader

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/HydrologicEngineeringCenter/SHEF-processing/pkg/shef"
)

func TestMemoryLoader_UnloadReturnsReceivedOrder(t *testing.T) {
	assert := assert.New(t)
	ld, err := newMemoryLoader(zerolog.Nop(), nil, shef.Format1, false, nil)
	assert.NoError(err)
	assert.True(ld.CanUnload())

	v1 := shef.ShefValue{Location: "A", ObsTime: time.Unix(0, 0), ParameterCode: "HTIRZZ"}
	v2 := shef.ShefValue{Location: "A", ObsTime: time.Unix(3600, 0), ParameterCode: "HTIRZZ"}

	assert.NoError(ld.SetShefValue(v1))
	assert.NoError(ld.SetShefValue(v2))
	assert.NoError(ld.LoadTimeSeries())
	assert.NoError(ld.Done())

	out, err := ld.Unload()
	assert.NoError(err)
	if assert.Len(out, 2) {
		assert.True(out[0].ObsTime.Equal(v1.ObsTime))
		assert.True(out[1].ObsTime.Equal(v2.ObsTime))
	}
}

func TestMemoryLoader_TimeSeriesNameIsLocationAndParam(t *testing.T) {
	assert := assert.New(t)
	ld, _ := newMemoryLoader(zerolog.Nop(), nil, shef.Format1, false, nil)
	v := shef.ShefValue{Location: "KEYO2", ParameterCode: "HTIRZZ"}
	assert.Equal("KEYO2:HTIRZZ", ld.TimeSeriesName(v))
}

func TestPrintLoader_CannotUnload(t *testing.T) {
	assert := assert.New(t)
	ld, err := newPrintLoader(zerolog.Nop(), nil, shef.Format1, false, nil)
	assert.NoError(err)
	assert.False(ld.CanUnload())
	_, err = ld.Unload()
	assert.Error(err)
}

func TestPrintLoader_Format2Option(t *testing.T) {
	assert := assert.New(t)
	ld, err := newPrintLoader(zerolog.Nop(), nil, shef.Format1, false, []string{"format2"})
	assert.NoError(err)
	pl, ok := ld.(*printLoader)
	assert.True(ok)
	assert.Equal(shef.Format2, pl.format)
}

func TestPrintLoader_FormatFollowsCLIFlag(t *testing.T) {
	assert := assert.New(t)
	ld, err := newPrintLoader(zerolog.Nop(), nil, shef.Format2, false, nil)
	assert.NoError(err)
	pl, ok := ld.(*printLoader)
	assert.True(ok)
	assert.Equal(shef.Format2, pl.format, "--format should drive the default print loader's emit format")
}

func TestRegistry_LookupAndNames(t *testing.T) {
	assert := assert.New(t)
	_, err := Lookup("print")
	assert.NoError(err)
	_, err = Lookup("memory")
	assert.NoError(err)
	_, err = Lookup("nonexistent")
	assert.Error(err)

	names := Names()
	assert.Contains(names, "print")
	assert.Contains(names, "memory")
}
