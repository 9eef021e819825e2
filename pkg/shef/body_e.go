package shef

import "time"

// decodeE implements the §4.3.2 ".E" body grammar: a single parameter, a
// "/"-separated value list; the i-th value's obs_time is anchor + i*DI
// (§4.3.2, §3 invariant: "consecutive values... spaced by exactly
// duration_value minutes unless a body segment re-specified DI"). anchor
// starts at the header obs_time; a mid-body DI re-specification re-anchors
// to the last emitted obs_time plus the new interval and restarts i at 0,
// so the new spacing takes effect from that point without disturbing the
// values already produced under the old interval.
func (d *Decoder) decodeE(rec MessageRecord, ctx headerContext, bodyText string) ([]ShefValue, []*Diagnostic, error) {
	segments := collectSegments(bodyText, rec.BodyLines)
	var values []ShefValue
	var diags []*Diagnostic

	// §9 default: .E defaults Type/Source to "IR" (Instantaneous/Raw),
	// matching the worked example of spec §8 S1, as distinct from the
	// general "RZ" default used for .A/.B (see DESIGN.md).
	const defaultTS = "IR"

	paramTok := ""
	index := 0

	creationUTC, hasCreation, err := d.buildCreationTime(ctx)
	if err != nil {
		diags = append(diags, &Diagnostic{Kind: TimeError, Line: rec.StartLine, Text: rec.HeaderLine, Message: err.Error()})
	}

	headerBase, err := d.buildObsTime(ctx)
	if err != nil {
		diags = append(diags, &Diagnostic{Kind: TimeError, Line: rec.StartLine, Text: rec.HeaderLine, Message: err.Error()})
		if d.bumpError() {
			return values, diags, ErrMaxErrors
		}
		return values, diags, nil
	}
	baseTime := headerBase
	var lastObsTime time.Time
	haveLast := false

	for _, seg := range segments {
		if isDirectiveToken(seg) {
			if err := ctx.applyDirective(seg); err != nil {
				diags = append(diags, &Diagnostic{Kind: SyntaxError, Line: rec.StartLine, Text: seg, Message: err.Error()})
				if d.bumpError() {
					return values, diags, ErrMaxErrors
				}
				continue
			}
			// DI may be re-specified mid-body; re-anchor to the last
			// emitted obs_time plus one new interval, and restart the
			// per-segment index so the main loop's i*DI offset below
			// doesn't double-count the interval already folded in here.
			if len(seg) >= 2 && seg[1] == 'I' {
				if haveLast {
					baseTime = ApplyRelativeOffset(lastObsTime, ctx.IntervalUnit, ctx.IntervalAmount)
				} else {
					baseTime = headerBase
				}
				index = 0
			} else if !haveLast {
				// A date/time directive ahead of the first value (e.g. the
				// DH of "DH1400/HT/DIH01/...") moves the anchor itself.
				t, err := d.buildObsTime(ctx)
				if err != nil {
					diags = append(diags, &Diagnostic{Kind: TimeError, Line: rec.StartLine, Text: seg, Message: err.Error()})
					if d.bumpError() {
						return values, diags, ErrMaxErrors
					}
					continue
				}
				headerBase, baseTime = t, t
			}
			continue
		}

		if paramTok == "" {
			paramTok = seg
			continue
		}

		if !ctx.IntervalSet {
			diags = append(diags, &Diagnostic{Kind: ContextError, Line: rec.StartLine, PE: paramTok, Text: seg, Message: ".E body with no DI interval"})
			d.bumpError()
			break
		}

		obsUTC := ApplyRelativeOffset(baseTime, ctx.IntervalUnit, ctx.IntervalAmount*index)
		index++
		lastObsTime = obsUTC
		haveLast = true

		val, err := d.buildValueFromField(&ctx, defaultTS, paramTok, seg, obsUTC, creationUTC, hasCreation)
		if err != nil {
			if err == errNullValue {
				continue
			}
			diags = append(diags, &Diagnostic{Kind: classifyFieldError(err), Line: rec.StartLine, PE: paramTok, Text: seg, Message: err.Error()})
			if d.bumpError() {
				return values, diags, ErrMaxErrors
			}
			continue
		}
		values = append(values, val)
	}

	return values, diags, nil
}
