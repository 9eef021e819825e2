package shef

import "strings"

// decodeA implements the §4.3.2 ".A" body grammar: a slash-separated list
// of "<paramcode> <value>[<qualifier>][<retained-comment>]" fields,
// interleaved with D* directives that mutate context for subsequent
// fields only.
func (d *Decoder) decodeA(rec MessageRecord, ctx headerContext, bodyText string) ([]ShefValue, []*Diagnostic, error) {
	segments := collectSegments(bodyText, rec.BodyLines)
	var values []ShefValue
	var diags []*Diagnostic

	for _, seg := range segments {
		if isDirectiveToken(seg) {
			if err := ctx.applyDirective(seg); err != nil {
				diags = append(diags, &Diagnostic{Kind: SyntaxError, Line: rec.StartLine, PE: ctx.PE, Text: seg, Message: err.Error()})
				if d.bumpError() {
					return values, diags, ErrMaxErrors
				}
			}
			continue
		}

		sp := strings.IndexByte(seg, ' ')
		if sp < 0 {
			diags = append(diags, &Diagnostic{Kind: SyntaxError, Line: rec.StartLine, Text: seg, Message: "malformed paramcode/value field"})
			if d.bumpError() {
				return values, diags, ErrMaxErrors
			}
			continue
		}
		paramTok, rest := seg[:sp], seg[sp+1:]

		obsUTC, err := d.buildObsTime(ctx)
		if err != nil {
			diags = append(diags, &Diagnostic{Kind: TimeError, Line: rec.StartLine, PE: paramTok, Text: seg, Message: err.Error()})
			if d.bumpError() {
				return values, diags, ErrMaxErrors
			}
			continue
		}
		creationUTC, hasCreation, err := d.buildCreationTime(ctx)
		if err != nil {
			diags = append(diags, &Diagnostic{Kind: TimeError, Line: rec.StartLine, PE: paramTok, Text: seg, Message: err.Error()})
			if d.bumpError() {
				return values, diags, ErrMaxErrors
			}
			continue
		}

		val, err := d.buildValueFromField(&ctx, "RZ", paramTok, rest, obsUTC, creationUTC, hasCreation)
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

// classifyFieldError maps a field-build error to one of the recoverable
// error kinds of §7, based on which stage produced it.
func classifyFieldError(err error) ErrKind {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unknown PE"), strings.Contains(msg, "unknown type/source"),
		strings.Contains(msg, "unknown extremum"), strings.Contains(msg, "unknown probability"),
		strings.Contains(msg, "unknown qualifier"):
		return RegistryMissError
	case strings.Contains(msg, "invalid numeric value"):
		return NumericError
	default:
		return SyntaxError
	}
}
