package shef

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizer_SingleLineA(t *testing.T) {
	assert := assert.New(t)
	tok := NewTokenizer(strings.NewReader(`.A TNSO2 20240630 DH0000/PC 0.00"15:OKMN"/TA 78.5`))

	rec, ok := tok.Next()
	assert.True(ok)
	assert.False(rec.IsUnrecognized())
	assert.EqualValues('A', rec.Type)
	assert.Equal("TNSO2", strings.Fields(rec.HeaderLine)[1])

	_, ok = tok.Next()
	assert.False(ok)
	assert.NoError(tok.Err())
}

func TestTokenizer_EWithContinuation(t *testing.T) {
	assert := assert.New(t)
	input := ".E KEYO2 20251107 Z DH1400/HT/DIH01/637.74/637.73\n.E01 638.00/638.01\n"
	tok := NewTokenizer(strings.NewReader(input))

	rec, ok := tok.Next()
	assert.True(ok)
	assert.EqualValues('E', rec.Type)
	assert.Len(rec.BodyLines, 1)
	assert.Equal("638.00/638.01", rec.BodyLines[0])
}

func TestTokenizer_BTerminatedByEND(t *testing.T) {
	assert := assert.New(t)
	input := ".B KEYO2 20251107 Z DH1200/PC/TA\nKEYO2/1.0/70\n.END\n.A NEXTO2 20251107 Z DH1200/PC 2.0\n"
	tok := NewTokenizer(strings.NewReader(input))

	rec, ok := tok.Next()
	assert.True(ok)
	assert.EqualValues('B', rec.Type)
	assert.Len(rec.BodyLines, 1)

	rec2, ok := tok.Next()
	assert.True(ok)
	assert.EqualValues('A', rec2.Type)
}

func TestTokenizer_ThrowawayCommentStripped(t *testing.T) {
	assert := assert.New(t)
	tok := NewTokenizer(strings.NewReader(`.A ABCD1 20250101 Z DH12 :this is thrown away:/PC M`))
	rec, ok := tok.Next()
	assert.True(ok)
	assert.NotContains(rec.HeaderLine, "thrown away")
}

func TestTokenizer_UnrecognizedLine(t *testing.T) {
	assert := assert.New(t)
	tok := NewTokenizer(strings.NewReader("this is not a SHEF message\n"))
	rec, ok := tok.Next()
	assert.True(ok)
	assert.True(rec.IsUnrecognized())
}
