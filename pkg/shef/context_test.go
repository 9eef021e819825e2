package shef

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDirective_DH(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	assert.NoError(ctx.applyDirective("DH1430"))
	assert.Equal(14, ctx.Hour)
	assert.Equal(30, ctx.Minute)
	assert.Equal(0, ctx.Sec)
}

func TestApplyDirective_DM(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	assert.NoError(ctx.applyDirective("DM070425"))
	assert.Equal(7, ctx.Month)
	assert.Equal(4, ctx.Day)
	assert.Equal(2025, ctx.Year)
}

func TestApplyDirective_DD(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	ctx.Day = 1
	assert.NoError(ctx.applyDirective("DD15"))
	assert.Equal(15, ctx.Day)
	assert.Error(ctx.applyDirective("DD32"))
}

func TestApplyDirective_DC(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	assert.NoError(ctx.applyDirective("DC2507041230"))
	assert.True(ctx.HasCreation)
	assert.Equal(2025, ctx.CYear)
	assert.Equal(7, ctx.CMonth)
	assert.Equal(4, ctx.CDay)
	assert.Equal(12, ctx.CHour)
	assert.Equal(30, ctx.CMinute)
}

func TestApplyDirective_DI(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	assert.NoError(ctx.applyDirective("DIH06"))
	assert.True(ctx.IntervalSet)
	assert.EqualValues('H', ctx.IntervalUnit)
	assert.Equal(6, ctx.IntervalAmount)
}

func TestApplyDirective_DU(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	assert.NoError(ctx.applyDirective("DUS"))
	assert.EqualValues('S', ctx.UnitsSystem)
	assert.Error(ctx.applyDirective("DUX"))
}

func TestApplyDirective_DV(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	assert.NoError(ctx.applyDirective("DVH02"))
	assert.Equal(120, ctx.DurationOverride)
}

func TestApplyDirective_DQ(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	assert.NoError(ctx.applyDirective("DQR"))
	assert.EqualValues('R', ctx.Qualifier)
	assert.Error(ctx.applyDirective("DQRR"))
}

func TestApplyDirective_DR(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	assert.NoError(ctx.applyDirective("DRD-1"))
	assert.True(ctx.HasRelative)
	assert.EqualValues('D', ctx.RelUnit)
	assert.Equal(-1, ctx.RelAmount)
}

func TestApplyDirective_DT(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	assert.NoError(ctx.applyDirective("DT0600"))
	assert.True(ctx.HasCreation)
	assert.Equal(6, ctx.CHour)
	assert.Equal(0, ctx.CMinute)
}

func TestApplyDirective_Unknown(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	assert.Error(ctx.applyDirective("DZ99"))
	assert.Error(ctx.applyDirective("XH12"))
}

// Cloning a headerContext is a plain value copy: mutating the clone must
// never affect the original (§3's segment-boundary "inherited default
// locality" invariant).
func TestHeaderContext_CloneIsIndependent(t *testing.T) {
	assert := assert.New(t)
	ctx := newHeaderContext()
	ctx.Hour = 8

	clone := ctx.clone()
	clone.Hour = 20

	assert.Equal(8, ctx.Hour)
	assert.Equal(20, clone.Hour)
}
