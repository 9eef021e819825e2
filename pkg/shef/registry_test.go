package shef

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultRegistry_LooksUpSeededCodes(t *testing.T) {
	assert := assert.New(t)
	r := NewDefaultRegistry()

	_, ok := r.LookupPE("HT")
	assert.True(ok, "HT should be seeded")
	assert.True(r.LookupTypeSource("RZ"))
	assert.True(r.LookupExtremum('Z'))
	_, ok = r.LookupProbability('Z')
	assert.True(ok)
	assert.True(r.LookupQualifier('Z'))
	assert.EqualValues(10, r.MaxErrors())
}

func TestMergeSHEFPARM_OverridesMaxErrors(t *testing.T) {
	assert := assert.New(t)
	r := NewDefaultRegistry()

	text := "" +
		sectionMaxErrors + "\n" +
		"25\n"
	diags := r.MergeSHEFPARM(text)
	for _, d := range diags {
		assert.NotEqual("WARNING", d.Level, d.String())
	}
	assert.EqualValues(25, r.MaxErrors())
}

func TestMergeSHEFPARM_IllegalLineIsWarningNotAbort(t *testing.T) {
	assert := assert.New(t)
	r := NewDefaultRegistry()

	text := sectionPE + "\nnot a valid PE line\n"
	diags := r.MergeSHEFPARM(text)
	assert.NotEmpty(diags)
	assert.Equal("WARNING", diags[len(diags)-1].Level)
	// A PE lookup for an untouched code still works: the bad line was
	// skipped, not treated as fatal.
	_, ok := r.LookupPE("HT")
	assert.True(ok)
}

func TestEmitSHEFPARM_RoundTrips(t *testing.T) {
	assert := assert.New(t)
	r := NewDefaultRegistry()
	text := r.EmitSHEFPARM()
	assert.True(strings.Contains(text, sectionPE))

	r2 := NewDefaultRegistry()
	r2.MergeSHEFPARM(text)
	_, ok1 := r.LookupPE("HT")
	_, ok2 := r2.LookupPE("HT")
	assert.Equal(ok1, ok2)
	assert.Equal(r.MaxErrors(), r2.MaxErrors())
}
