package shef

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func decodeAll(t *testing.T, input string, mode Mode) ([]ShefValue, []*Diagnostic) {
	t.Helper()
	tok := NewTokenizer(strings.NewReader(input))
	dec := NewDecoder(NewDefaultRegistry(), mode, ModernTime)

	var values []ShefValue
	var diags []*Diagnostic
	for {
		rec, ok := tok.Next()
		if !ok {
			break
		}
		vs, ds, fatal := dec.Decode(rec)
		values = append(values, vs...)
		diags = append(diags, ds...)
		if fatal != nil {
			break
		}
	}
	return values, diags
}

// S1: a single .E header line with two inline values under an hourly DI.
func TestDecode_S1_SingleLineE(t *testing.T) {
	assert := assert.New(t)
	values, diags := decodeAll(t, ".E KEYO2 20251107 Z DH1400/HT/DIH01/637.74/637.73\n", Permissive)
	assert.Empty(diags)
	if assert.Len(values, 2) {
		assert.Equal("KEYO2", values[0].Location)
		assert.Equal("HTIRZZ", values[0].ParameterCode)
		assert.Equal(time.Date(2025, 11, 7, 14, 0, 0, 0, time.UTC), values[0].ObsTime)
		assert.Equal(637.74, values[0].Value)
		assert.EqualValues(DurationVariable, values[0].DurationValue)

		assert.Equal(time.Date(2025, 11, 7, 15, 0, 0, 0, time.UTC), values[1].ObsTime)
		assert.Equal(637.73, values[1].Value)
	}
}

// S2: S1's header plus a .E01 continuation line extends the same series.
func TestDecode_S2_ContinuationE(t *testing.T) {
	assert := assert.New(t)
	input := ".E KEYO2 20251107 Z DH1400/HT/DIH01/637.74/637.73\n.E01 638.00/638.01\n"
	values, diags := decodeAll(t, input, Permissive)
	assert.Empty(diags)
	if assert.Len(values, 4) {
		for i := 1; i < len(values); i++ {
			gap := values[i].ObsTime.Sub(values[i-1].ObsTime)
			assert.Equal(time.Hour, gap, "values must be strictly monotonic, one hour apart")
		}
		assert.Equal(638.00, values[2].Value)
		assert.Equal(638.01, values[3].Value)
	}
}

// A mid-body DI re-specification continues from the last emitted obs_time
// under the new interval rather than restarting or doubling the offset.
func TestDecode_E_MidBodyDIRespecification(t *testing.T) {
	assert := assert.New(t)
	input := ".E KEYO2 20251107 Z DH1400/HT/DIH01/637.74/637.73/DIN30/638.00/638.10\n"
	values, diags := decodeAll(t, input, Permissive)
	assert.Empty(diags)
	if assert.Len(values, 4) {
		assert.Equal(time.Date(2025, 11, 7, 14, 0, 0, 0, time.UTC), values[0].ObsTime)
		assert.Equal(time.Date(2025, 11, 7, 15, 0, 0, 0, time.UTC), values[1].ObsTime)
		// DIN30 re-specifies the interval to 30 minutes after the second
		// value; the third value continues 30 minutes past it, not 30*index
		// minutes past the header time.
		assert.Equal(time.Date(2025, 11, 7, 15, 30, 0, 0, time.UTC), values[2].ObsTime)
		assert.Equal(time.Date(2025, 11, 7, 16, 0, 0, 0, time.UTC), values[3].ObsTime)
	}
}

// S3: a retained comment on the first .A field propagates to later fields
// sharing the same obs_time within the message.
func TestDecode_S3_CommentPropagation(t *testing.T) {
	assert := assert.New(t)
	input := `.A TNSO2 20240630 DH0000/PC 0.00"15:OKMN"/TA 78.5` + "\n"
	values, diags := decodeAll(t, input, Permissive)
	assert.Empty(diags)
	if assert.Len(values, 2) {
		assert.Equal(values[0].ObsTime, values[1].ObsTime)
		assert.Equal("15:OKMN", values[0].Comment)
		assert.Equal("15:OKMN", values[1].Comment)
	}
}

// S4: a missing value token decodes to the Missing sentinel.
func TestDecode_S4_MissingValue(t *testing.T) {
	assert := assert.New(t)
	input := ".A ABCD1 20250101 Z DH12/PC M\n"
	values, diags := decodeAll(t, input, Permissive)
	assert.Empty(diags)
	if assert.Len(values, 1) {
		assert.True(values[0].Missing)
		assert.Equal(Missing, values[0].Value)
		assert.Equal(-9999.0, values[0].Value)
	}
}

// S5: permissive mode recovers from one unknown PE and keeps the other
// values from the same message, surfacing a RegistryMissError diagnostic.
func TestDecode_S5_PermissiveRecovery(t *testing.T) {
	assert := assert.New(t)
	input := ".A ABCD1 20250101 Z DH12/HG 5.0/XX bad/TA 72\n"
	values, diags := decodeAll(t, input, Permissive)
	if assert.Len(values, 2) {
		assert.Equal("HGRZZZ", values[0].ParameterCode)
		assert.Equal("TARZZZ", values[1].ParameterCode)
	}
	found := false
	for _, d := range diags {
		if d.Kind == RegistryMissError {
			found = true
		}
	}
	assert.True(found, "expected a RegistryMissError diagnostic for the unknown PE")
}

// S6: strict mode invalidates the whole message on any recoverable error.
func TestDecode_S6_StrictInvalidatesMessage(t *testing.T) {
	assert := assert.New(t)
	input := ".A ABCD1 20250101 Z DH12/HG 5.0/XX bad/TA 72\n"
	values, _ := decodeAll(t, input, Strict)
	assert.Empty(values)
}

// .B bodies declare columns in the header and fill them row-major, with an
// optional leading location token overriding the header's default per row.
func TestDecode_BTabularBody(t *testing.T) {
	assert := assert.New(t)
	input := ".B KEYO2 20251107 Z DH1200/PC/TA\nKEYO2/1.0/70\nOTHRO2/2.5/68\n.END\n"
	values, diags := decodeAll(t, input, Permissive)
	assert.Empty(diags)
	if assert.Len(values, 4) {
		assert.Equal("KEYO2", values[0].Location)
		assert.Equal("PCRZZZ", values[0].ParameterCode)
		assert.Equal(1.0, values[0].Value)
		assert.Equal("KEYO2", values[1].Location)
		assert.Equal("TARZZZ", values[1].ParameterCode)
		assert.Equal(70.0, values[1].Value)

		assert.Equal("OTHRO2", values[2].Location, "a row's leading token overrides the header's default location")
		assert.Equal(2.5, values[2].Value)
		assert.Equal("OTHRO2", values[3].Location)
		assert.Equal(68.0, values[3].Value)
	}
}

func TestDecode_TimeSeriesCodeAssignment(t *testing.T) {
	assert := assert.New(t)
	input := ".E KEYO2 20251107 Z DH1400/HT/DIH01/637.74/637.73\n"
	values, _ := decodeAll(t, input, Permissive)
	if assert.Len(values, 2) {
		assert.Equal(1, values[0].TimeSeriesCode)
		assert.Equal(2, values[1].TimeSeriesCode)
	}
}
