package shef

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleValue() ShefValue {
	return ShefValue{
		Location:       "KEYO2",
		ObsTime:        time.Date(2025, 11, 7, 14, 0, 0, 0, time.UTC),
		CreationTime:   time.Date(2025, 11, 7, 15, 30, 0, 0, time.UTC),
		ParameterCode:  "HTIRZZ",
		DurationCode:   'Z',
		DurationValue:  DurationVariable,
		Value:          637.74,
		Probability:    0,
		Revised:        false,
		Comment:        "gauge reading",
		TimeSeriesCode: 1,
	}
}

func TestFormat1_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	v := sampleValue()
	line := EmitFormat1(v)
	got, err := ParseFormat1(line)
	assert.NoError(err)

	assert.Equal(v.Location, got.Location)
	assert.True(v.ObsTime.Equal(got.ObsTime))
	assert.True(v.CreationTime.Equal(got.CreationTime))
	assert.Equal(v.ParameterCode, got.ParameterCode)
	assert.Equal(v.Value, got.Value)
	assert.Equal(v.DurationValue, got.DurationValue)
	assert.Equal(v.Comment, got.Comment)
	assert.Equal(v.TimeSeriesCode, got.TimeSeriesCode)
}

func TestFormat1_MissingValueRoundTrip(t *testing.T) {
	assert := assert.New(t)
	v := sampleValue()
	v.Missing = true
	v.Value = Missing
	v.Comment = ""

	line := EmitFormat1(v)
	got, err := ParseFormat1(line)
	assert.NoError(err)
	assert.True(got.Missing)
	assert.Equal(Missing, got.Value)
	assert.Empty(got.Comment)
}

func TestFormat1_NoCreationTimeRendersZeroDateTime(t *testing.T) {
	assert := assert.New(t)
	v := sampleValue()
	v.CreationTime = time.Time{}

	line := EmitFormat1(v)
	assert.Contains(line, zeroDateTime)
	got, err := ParseFormat1(line)
	assert.NoError(err)
	assert.False(got.HasCreationTime())
}

func TestFormat2_RoundTrip(t *testing.T) {
	assert := assert.New(t)
	v := sampleValue()
	v.CreationTime = time.Time{}
	line := EmitFormat2(v)
	got, err := ParseFormat2(line)
	assert.NoError(err)

	assert.Equal(v.Location, got.Location)
	assert.True(v.ObsTime.Equal(got.ObsTime))
	assert.Equal(v.ParameterCode, got.ParameterCode)
	assert.Equal(v.Value, got.Value)
	assert.Equal(v.Comment, got.Comment)
	assert.Equal(v.TimeSeriesCode, got.TimeSeriesCode)
}

func TestFormat2_CommentTruncatedAt66Chars(t *testing.T) {
	assert := assert.New(t)
	v := sampleValue()
	v.CreationTime = time.Time{}
	long := ""
	for i := 0; i < 100; i++ {
		long += "x"
	}
	v.Comment = long

	line := EmitFormat2(v)
	got, err := ParseFormat2(line)
	assert.NoError(err)
	assert.Len(got.Comment, 66, "format2 comments are lossily truncated to 66 chars")
}

func TestEmitParse_DispatchByFormat(t *testing.T) {
	assert := assert.New(t)
	v := sampleValue()
	v.CreationTime = time.Time{}

	l1 := Emit(v, Format1)
	got1, err := Parse(l1, Format1)
	assert.NoError(err)
	assert.Equal(v.ParameterCode, got1.ParameterCode)

	l2 := Emit(v, Format2)
	got2, err := Parse(l2, Format2)
	assert.NoError(err)
	assert.Equal(v.ParameterCode, got2.ParameterCode)
}
