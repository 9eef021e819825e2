package shef

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PEEntry is one Physical-Element registry row.
type PEEntry struct {
	Code            string
	BaseUnit        string
	EnglishFactor   float64
	MetricFactor    float64
	DefaultDuration byte
}

// OverrideDiagnostic reports one change (or rejection) applied while
// merging a SHEFPARM file, per C1.merge_shefparm.
type OverrideDiagnostic struct {
	Level   string // "INFO" or "WARNING"
	Section string
	Line    int
	Message string
}

func (d OverrideDiagnostic) String() string {
	return fmt.Sprintf("%s: %s line %d: %s", d.Level, d.Section, d.Line, d.Message)
}

// ParamRegistry holds the canonical tables §4.1 describes: PE codes,
// duration codes, type/source codes, extremum codes, probability codes,
// send-code duration defaults, data-qualifier codes, and max_errors.
//
// A ParamRegistry is built once (NewDefaultRegistry, optionally followed by
// MergeSHEFPARM) and is immutable thereafter; concurrent Decoder runs may
// share one by reference, per §5.
type ParamRegistry struct {
	pe          map[string]PEEntry
	durations   map[byte]int // minutes, or DurationVariable
	typeSources map[string]bool
	extrema     map[byte]bool
	probability map[byte]float64
	sendCodes   map[string]byte // PE -> default duration code, for send codes other than "I"
	qualifiers  map[byte]bool
	maxErrors   uint
}

// NewDefaultRegistry returns a registry seeded with the SHEF 2.2 built-in
// defaults. It never fails: an incomplete built-in table is a programming
// error, not a runtime condition.
func NewDefaultRegistry() *ParamRegistry {
	r := &ParamRegistry{
		pe:          map[string]PEEntry{},
		durations:   map[byte]int{},
		typeSources: map[string]bool{},
		extrema:     map[byte]bool{},
		probability: map[byte]float64{},
		sendCodes:   map[string]byte{},
		qualifiers:  map[byte]bool{},
		maxErrors:   10,
	}
	for _, e := range defaultPEEntries {
		r.pe[e.Code] = e
	}
	for c, m := range defaultDurations {
		r.durations[c] = m
	}
	for _, ts := range defaultTypeSources {
		r.typeSources[ts] = true
	}
	for _, e := range defaultExtrema {
		r.extrema[e] = true
	}
	for c, v := range defaultProbability {
		r.probability[c] = v
	}
	for c := range defaultQualifiers {
		r.qualifiers[c] = true
	}
	return r
}

// LookupPE returns the PE entry for code, and whether it was found.
func (r *ParamRegistry) LookupPE(code string) (PEEntry, bool) {
	e, ok := r.pe[strings.ToUpper(code)]
	return e, ok
}

// LookupDurationCode returns the duration in minutes for a 1-letter SHEF
// duration code, or (DurationVariable, false) if unknown.
func (r *ParamRegistry) LookupDurationCode(c byte) (int, bool) {
	m, ok := r.durations[c]
	if !ok {
		return DurationVariable, false
	}
	return m, true
}

// LookupTypeSource reports whether a 2-letter type/source code is valid.
func (r *ParamRegistry) LookupTypeSource(code string) bool {
	return r.typeSources[strings.ToUpper(code)]
}

// LookupExtremum reports whether a 1-letter extremum code is valid.
func (r *ParamRegistry) LookupExtremum(c byte) bool {
	return r.extrema[c]
}

// LookupProbability returns the numeric value mapped to a probability code.
func (r *ParamRegistry) LookupProbability(c byte) (float64, bool) {
	v, ok := r.probability[c]
	return v, ok
}

// LookupQualifier reports whether a 1-letter data-qualifier code is valid.
func (r *ParamRegistry) LookupQualifier(c byte) bool {
	return r.qualifiers[c]
}

// LookupSendDuration returns the default duration code registered for a PE
// via a "Send Codes Or Duration Defaults Other Than I" SHEFPARM entry.
func (r *ParamRegistry) LookupSendDuration(pe string) (byte, bool) {
	c, ok := r.sendCodes[strings.ToUpper(pe)]
	return c, ok
}

// MaxErrors returns the recoverable-error ceiling a Decoder run enforces.
func (r *ParamRegistry) MaxErrors() uint {
	return r.maxErrors
}

// SHEFPARM section headers, recognized verbatim per §4.1.
const (
	sectionPE        = "PE Codes And Conversion Factors"
	sectionDuration  = "Duration Codes And Associated Values"
	sectionTS        = "TS Codes"
	sectionExtremum  = "Extremum Codes"
	sectionProb      = "Probability Codes And Associated Values"
	sectionSendCode  = "Send Codes Or Duration Defaults Other Than I"
	sectionQualifier = "Data Qualifier Codes"
	sectionMaxErrors = "Max Number Of Errors"
)

// MergeSHEFPARM applies one SHEFPARM override file's text to the registry.
// An illegal line is logged as a WARNING diagnostic and ignored; it never
// aborts the merge.
func (r *ParamRegistry) MergeSHEFPARM(text string) []OverrideDiagnostic {
	var diags []OverrideDiagnostic
	section := ""
	for i, raw := range strings.Split(text, "\n") {
		lineNum := i + 1
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isSectionHeader(trimmed) {
			section = trimmed
			continue
		}
		if strings.HasPrefix(trimmed, "$") || strings.HasPrefix(trimmed, "*") {
			continue // throwaway comment line
		}

		diag, ok := r.applyLine(section, trimmed, lineNum)
		diags = append(diags, diag)
		if !ok {
			continue
		}
	}
	return diags
}

func isSectionHeader(line string) bool {
	switch line {
	case sectionPE, sectionDuration, sectionTS, sectionExtremum, sectionProb,
		sectionSendCode, sectionQualifier, sectionMaxErrors:
		return true
	default:
		return false
	}
}

func (r *ParamRegistry) applyLine(section, line string, lineNum int) (OverrideDiagnostic, bool) {
	fields := strings.Fields(line)
	switch section {
	case sectionPE:
		if len(fields) < 4 {
			return badLine(section, lineNum, line), false
		}
		code := strings.ToUpper(fields[0])
		eng, err1 := strconv.ParseFloat(fields[1], 64)
		met, err2 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil {
			return badLine(section, lineNum, line), false
		}
		unit := fields[3]
		var dur byte
		if len(fields) >= 5 && len(fields[4]) == 1 {
			dur = fields[4][0]
		}
		r.pe[code] = PEEntry{Code: code, BaseUnit: unit, EnglishFactor: eng, MetricFactor: met, DefaultDuration: dur}
		return infoLine(section, lineNum, fmt.Sprintf("PE %s set", code)), true

	case sectionDuration:
		if len(fields) < 2 || len(fields[0]) != 1 {
			return badLine(section, lineNum, line), false
		}
		mins, err := strconv.Atoi(fields[1])
		if err != nil {
			return badLine(section, lineNum, line), false
		}
		r.durations[fields[0][0]] = mins
		return infoLine(section, lineNum, fmt.Sprintf("duration %s set to %d", fields[0], mins)), true

	case sectionTS:
		if len(fields) < 1 || len(fields[0]) != 2 {
			return badLine(section, lineNum, line), false
		}
		r.typeSources[strings.ToUpper(fields[0])] = true
		return infoLine(section, lineNum, fmt.Sprintf("TS %s added", fields[0])), true

	case sectionExtremum:
		if len(fields) < 1 || len(fields[0]) != 1 {
			return badLine(section, lineNum, line), false
		}
		r.extrema[fields[0][0]] = true
		return infoLine(section, lineNum, fmt.Sprintf("extremum %s added", fields[0])), true

	case sectionProb:
		if len(fields) < 2 || len(fields[0]) != 1 {
			return badLine(section, lineNum, line), false
		}
		val, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return badLine(section, lineNum, line), false
		}
		r.probability[fields[0][0]] = val
		return infoLine(section, lineNum, fmt.Sprintf("probability %s set to %g", fields[0], val)), true

	case sectionSendCode:
		if len(fields) < 2 || len(fields[1]) != 1 {
			return badLine(section, lineNum, line), false
		}
		r.sendCodes[strings.ToUpper(fields[0])] = fields[1][0]
		return infoLine(section, lineNum, fmt.Sprintf("send-code default for %s set to %s", fields[0], fields[1])), true

	case sectionQualifier:
		if len(fields) < 1 || len(fields[0]) != 1 {
			return badLine(section, lineNum, line), false
		}
		r.qualifiers[fields[0][0]] = true
		return infoLine(section, lineNum, fmt.Sprintf("qualifier %s added", fields[0])), true

	case sectionMaxErrors:
		if len(fields) < 1 {
			return badLine(section, lineNum, line), false
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 0 {
			return badLine(section, lineNum, line), false
		}
		r.maxErrors = uint(n)
		return infoLine(section, lineNum, fmt.Sprintf("max_errors set to %d", n)), true

	default:
		return badLine("<no section>", lineNum, line), false
	}
}

func badLine(section string, lineNum int, line string) OverrideDiagnostic {
	return OverrideDiagnostic{Level: "WARNING", Section: section, Line: lineNum, Message: fmt.Sprintf("illegal line ignored: %q", line)}
}

func infoLine(section string, lineNum int, msg string) OverrideDiagnostic {
	return OverrideDiagnostic{Level: "INFO", Section: section, Line: lineNum, Message: msg}
}

// EmitSHEFPARM serializes the current registry state back into SHEFPARM
// text. Re-merging the output into a fresh default registry reproduces the
// same lookups (§8 property 7).
func (r *ParamRegistry) EmitSHEFPARM() string {
	var b strings.Builder

	b.WriteString(sectionPE + "\n")
	peCodes := make([]string, 0, len(r.pe))
	for c := range r.pe {
		peCodes = append(peCodes, c)
	}
	sort.Strings(peCodes)
	for _, c := range peCodes {
		e := r.pe[c]
		dur := " "
		if e.DefaultDuration != 0 {
			dur = string(e.DefaultDuration)
		}
		fmt.Fprintf(&b, "%-2s %g %g %s %s\n", e.Code, e.EnglishFactor, e.MetricFactor, e.BaseUnit, dur)
	}

	b.WriteString(sectionDuration + "\n")
	durCodes := make([]byte, 0, len(r.durations))
	for c := range r.durations {
		durCodes = append(durCodes, c)
	}
	sort.Slice(durCodes, func(i, j int) bool { return durCodes[i] < durCodes[j] })
	for _, c := range durCodes {
		fmt.Fprintf(&b, "%s %d\n", string(c), r.durations[c])
	}

	b.WriteString(sectionTS + "\n")
	tsCodes := make([]string, 0, len(r.typeSources))
	for c := range r.typeSources {
		tsCodes = append(tsCodes, c)
	}
	sort.Strings(tsCodes)
	for _, c := range tsCodes {
		fmt.Fprintf(&b, "%s\n", c)
	}

	b.WriteString(sectionExtremum + "\n")
	extCodes := make([]byte, 0, len(r.extrema))
	for c := range r.extrema {
		extCodes = append(extCodes, c)
	}
	sort.Slice(extCodes, func(i, j int) bool { return extCodes[i] < extCodes[j] })
	for _, c := range extCodes {
		fmt.Fprintf(&b, "%s\n", string(c))
	}

	b.WriteString(sectionProb + "\n")
	probCodes := make([]byte, 0, len(r.probability))
	for c := range r.probability {
		probCodes = append(probCodes, c)
	}
	sort.Slice(probCodes, func(i, j int) bool { return probCodes[i] < probCodes[j] })
	for _, c := range probCodes {
		fmt.Fprintf(&b, "%s %g\n", string(c), r.probability[c])
	}

	b.WriteString(sectionSendCode + "\n")
	sendPEs := make([]string, 0, len(r.sendCodes))
	for pe := range r.sendCodes {
		sendPEs = append(sendPEs, pe)
	}
	sort.Strings(sendPEs)
	for _, pe := range sendPEs {
		fmt.Fprintf(&b, "%s %s\n", pe, string(r.sendCodes[pe]))
	}

	b.WriteString(sectionQualifier + "\n")
	qualCodes := make([]byte, 0, len(r.qualifiers))
	for c := range r.qualifiers {
		qualCodes = append(qualCodes, c)
	}
	sort.Slice(qualCodes, func(i, j int) bool { return qualCodes[i] < qualCodes[j] })
	for _, c := range qualCodes {
		fmt.Fprintf(&b, "%s\n", string(c))
	}

	b.WriteString(sectionMaxErrors + "\n")
	fmt.Fprintf(&b, "%d\n", r.maxErrors)

	return b.String()
}
