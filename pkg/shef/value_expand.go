package shef

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// collectSegments flattens a header's trailing body text plus its
// continuation lines into the "/"-delimited segment list §4.3.2 describes,
// dropping the empty segments produced by leading/trailing slashes.
func collectSegments(bodyText string, bodyLines []string) []string {
	var segs []string
	appendSplit := func(s string) {
		for _, part := range strings.Split(s, "/") {
			part = strings.TrimSpace(part)
			if part != "" {
				segs = append(segs, part)
			}
		}
	}
	appendSplit(bodyText)
	for _, line := range bodyLines {
		appendSplit(line)
	}
	return segs
}

// directiveKeys is the set of recognized D* directive letters (§4.3.1).
var directiveKeys = map[byte]bool{
	'H': true, 'M': true, 'D': true, 'C': true, 'I': true,
	'U': true, 'V': true, 'Q': true, 'R': true, 'T': true,
}

// isDirectiveToken reports whether a body segment is a bare D* directive
// rather than a "<paramcode> <value>…" field.
func isDirectiveToken(seg string) bool {
	if len(seg) < 2 || seg[0] != 'D' {
		return false
	}
	return directiveKeys[seg[1]]
}

// parseValueText splits a value field's remainder (after the paramcode
// token) into its numeric-or-sentinel body, an optional trailing qualifier
// letter, and an optional retained comment, per §4.3.2/§4.3.3 step 7-8.
func parseValueText(text string) (valueBody string, qualifier byte, hasQualifier bool, comment string, hasComment bool) {
	if i := strings.IndexByte(text, '"'); i >= 0 {
		if j := strings.IndexByte(text[i+1:], '"'); j >= 0 {
			comment = text[i+1 : i+1+j]
			hasComment = true
			text = text[:i] + text[i+1+j+1:]
		}
	}
	text = strings.TrimSpace(text)
	valueBody, qualifier, hasQualifier = splitValueQualifier(text)
	return
}

func splitValueQualifier(text string) (base string, qualifier byte, hasQualifier bool) {
	if text == "" {
		return text, 0, false
	}
	last := text[len(text)-1]
	if last < 'A' || last > 'Z' {
		return text, 0, false
	}
	candidate := text[:len(text)-1]
	if candidate != "" && isNumericOrSentinel(candidate) {
		return candidate, last, true
	}
	return text, 0, false
}

func isNumericOrSentinel(s string) bool {
	switch s {
	case "M", "MSG", "T", "+":
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// resolveNumeric implements §4.3.3 step 7's token taxonomy.
func resolveNumeric(valueBody string) (value float64, missing, trace, null bool, err error) {
	switch valueBody {
	case "M", "MSG":
		return Missing, true, false, false, nil
	case "T":
		return Trace, false, true, false, nil
	case "+":
		return 0, false, false, true, nil
	default:
		f, e := strconv.ParseFloat(valueBody, 64)
		if e != nil {
			return 0, false, false, false, fmt.Errorf("invalid numeric value %q", valueBody)
		}
		return f, false, false, false, nil
	}
}

// composeParamCode builds the 6-char parameter_code from a paramcode token
// (2-6 chars: PE, optional TypeSrc, optional Extremum, optional Prob) and
// the running context's defaults, per §4.3.3 step 6.
func composeParamCode(registry *ParamRegistry, defaultTS string, ctx *headerContext, paramTok string) (string, error) {
	tok := strings.ToUpper(paramTok)
	if len(tok) < 2 {
		return "", fmt.Errorf("parameter code %q shorter than PE", paramTok)
	}
	pe := tok[:2]
	if _, ok := registry.LookupPE(pe); !ok {
		return "", fmt.Errorf("unknown PE code %q", pe)
	}
	rest := tok[2:]

	ts := defaultTS
	if len(rest) >= 2 {
		ts = rest[:2]
		rest = rest[2:]
	}
	if !registry.LookupTypeSource(ts) {
		return "", fmt.Errorf("unknown type/source code %q", ts)
	}

	ext := ctx.Extremum
	if len(rest) >= 1 {
		ext = rest[0]
		rest = rest[1:]
	}
	if !registry.LookupExtremum(ext) {
		return "", fmt.Errorf("unknown extremum code %q", string(ext))
	}

	prob := ctx.ProbCode
	if len(rest) >= 1 {
		prob = rest[0]
		rest = rest[1:]
	}
	if _, ok := registry.LookupProbability(prob); !ok {
		return "", fmt.Errorf("unknown probability code %q", string(prob))
	}

	ctx.PE = pe
	return pe + ts + string(ext) + string(prob), nil
}

// resolveDuration implements §4.3.3 step 6's duration resolution. A DV
// override always wins and carries no distinct letter of its own here, so
// the code stays 'Z'. Absent an override the duration is unspecified: the
// DI interval that spaces a .E series is a distinct concept from the
// per-value duration, so it is never used to fill this in (see DESIGN.md,
// grounded in spec §8 scenario S1, whose worked output shows duration
// "-1.000" for a .E value decoded under a DIH01 interval).
func resolveDuration(ctx headerContext) (code byte, minutes int) {
	if ctx.DurationOverride != unsetDuration {
		return 'Z', ctx.DurationOverride
	}
	return 'Z', DurationVariable
}

// applyUnitConversion converts value into the units system requested by
// ctx.UnitsSystem, per §4.3.3 step 7. Sentinel values are never converted.
func applyUnitConversion(registry *ParamRegistry, ctx headerContext, pe string, value float64, missing, trace, null bool) float64 {
	if missing || trace || null {
		return value
	}
	entry, ok := registry.LookupPE(pe)
	if !ok || entry.EnglishFactor == 0 {
		return value
	}
	if ctx.UnitsSystem == 'S' {
		return value * (entry.MetricFactor / entry.EnglishFactor)
	}
	return value
}

// buildObsTime resolves ctx's calendar fields (applying any DR relative
// offset) to a UTC instant via the decoder's time model, per §4.3.3 steps
// 3-4.
func (d *Decoder) buildObsTime(ctx headerContext) (timeUTC time.Time, err error) {
	return d.resolveCalendar(ctx.Year, ctx.Month, ctx.Day, ctx.Hour, ctx.Minute, ctx.Sec, ctx.Zone, ctx.HasRelative, ctx.RelUnit, ctx.RelAmount)
}

// buildCreationTime resolves ctx's creation-date fields to UTC, if present.
func (d *Decoder) buildCreationTime(ctx headerContext) (timeUTC time.Time, present bool, err error) {
	if !ctx.HasCreation {
		return time.Time{}, false, nil
	}
	year, month, day := ctx.CYear, ctx.CMonth, ctx.CDay
	if year == 0 {
		year, month, day = ctx.Year, ctx.Month, ctx.Day
	}
	tv, err := d.resolveCalendar(year, month, day, ctx.CHour, ctx.CMinute, ctx.CSec, ctx.Zone, false, 0, 0)
	return tv, true, err
}

// buildValueFromField implements §4.3.3 steps 6-9 for one "<paramcode>
// <value>[<qualifier>][<comment>]" field, given an obs_time already
// resolved by the caller (direct for .A/.B, index-expanded for .E).
func (d *Decoder) buildValueFromField(ctx *headerContext, defaultTS string, paramTok, rest string, obsUTC time.Time, creationUTC time.Time, hasCreation bool) (ShefValue, error) {
	valueBody, qualifier, hasQualifier, comment, hasComment := parseValueText(rest)
	if hasComment {
		ctx.Comment = comment
	}

	code, err := composeParamCode(d.Registry, defaultTS, ctx, paramTok)
	if err != nil {
		return ShefValue{}, err
	}

	value, missing, trace, null, err := resolveNumeric(valueBody)
	if err != nil {
		return ShefValue{}, err
	}
	if null {
		return ShefValue{}, errNullValue
	}

	value = applyUnitConversion(d.Registry, *ctx, ctx.PE, value, missing, trace, null)

	q := ctx.Qualifier
	if hasQualifier {
		if !d.Registry.LookupQualifier(qualifier) {
			return ShefValue{}, fmt.Errorf("unknown qualifier code %q", string(qualifier))
		}
		q = qualifier
	}

	prob, _ := d.Registry.LookupProbability(code[5])
	durCode, durMinutes := resolveDuration(*ctx)

	v := ShefValue{
		Location:      ctx.Location,
		ObsTime:       obsUTC,
		ParameterCode: code,
		DurationCode:  durCode,
		DurationValue: durMinutes,
		Value:         value,
		Missing:       missing,
		Trace:         trace,
		Qualifier:     q,
		Probability:   prob,
		Revised:       ctx.Revised,
		Comment:       ctx.Comment,
	}
	if hasCreation {
		v.CreationTime = creationUTC
	}
	return v, nil
}

// errNullValue signals a "+" token: the field is silently suppressed, not
// an error (§9 design notes: "null (+) suppresses emission entirely").
var errNullValue = fmt.Errorf("null value token, suppressed")
