package shef

import (
	"regexp"
)

var locationTokenPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,8}$`)

// decodeB implements the §4.3.2 ".B" body grammar: the header line
// declares a column list (parameter codes and optional D* defaults); each
// subsequent non-.END row line carries an optional location override,
// optional row-local D* overrides, then one value per declared column.
// Row order is preserved row-major, per §5 ordering rule for .B bodies.
func (d *Decoder) decodeB(rec MessageRecord, ctx headerContext, bodyText string) ([]ShefValue, []*Diagnostic, error) {
	declSegs := collectSegments(bodyText, nil)
	var columns []string
	var diags []*Diagnostic

	for _, seg := range declSegs {
		if isDirectiveToken(seg) {
			if err := ctx.applyDirective(seg); err != nil {
				diags = append(diags, &Diagnostic{Kind: SyntaxError, Line: rec.StartLine, Text: seg, Message: err.Error()})
				if d.bumpError() {
					return nil, diags, ErrMaxErrors
				}
			}
			continue
		}
		columns = append(columns, seg)
	}
	if len(columns) == 0 {
		diags = append(diags, &Diagnostic{Kind: ContextError, Line: rec.StartLine, Text: rec.HeaderLine, Message: ".B header declares no columns"})
		d.bumpError()
		return nil, diags, nil
	}

	var values []ShefValue

	for _, rowLine := range rec.BodyLines {
		rowCtx := ctx
		segs := collectSegments(rowLine, nil)
		colIdx := 0

		for _, seg := range segs {
			if isDirectiveToken(seg) {
				if err := rowCtx.applyDirective(seg); err != nil {
					diags = append(diags, &Diagnostic{Kind: SyntaxError, Line: rec.StartLine, Text: seg, Message: err.Error()})
					if d.bumpError() {
						return values, diags, ErrMaxErrors
					}
				}
				continue
			}

			if colIdx == 0 && locationTokenPattern.MatchString(seg) && !isNumericOrSentinel(seg) {
				rowCtx.Location = seg
				continue
			}

			if colIdx >= len(columns) {
				diags = append(diags, &Diagnostic{Kind: SyntaxError, Line: rec.StartLine, Text: seg, Message: "value beyond declared column count"})
				if d.bumpError() {
					return values, diags, ErrMaxErrors
				}
				continue
			}
			paramTok := columns[colIdx]
			colIdx++

			obsUTC, err := d.buildObsTime(rowCtx)
			if err != nil {
				diags = append(diags, &Diagnostic{Kind: TimeError, Line: rec.StartLine, PE: paramTok, Text: seg, Message: err.Error()})
				if d.bumpError() {
					return values, diags, ErrMaxErrors
				}
				continue
			}
			creationUTC, hasCreation, err := d.buildCreationTime(rowCtx)
			if err != nil {
				diags = append(diags, &Diagnostic{Kind: TimeError, Line: rec.StartLine, PE: paramTok, Text: seg, Message: err.Error()})
				if d.bumpError() {
					return values, diags, ErrMaxErrors
				}
				continue
			}

			val, err := d.buildValueFromField(&rowCtx, "RZ", paramTok, seg, obsUTC, creationUTC, hasCreation)
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
	}

	return values, diags, nil
}
