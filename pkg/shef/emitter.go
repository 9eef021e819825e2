package shef

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format selects which of the two self-parseable text layouts of §6.2/§6.3
// the Emitter renders.
type Format int

const (
	// Format1 is the long, fixed-column layout (§6.2). The default.
	Format1 Format = iota
	// Format2 is the compact layout (§6.3), with comment truncated to 66 chars.
	Format2
)

const dateTimeLayout = "2006-01-02 15:04:05"

var zeroDateTime = "0000-00-00 00:00:00"

// flagBits packs Missing/Trace/Revised into the 10-char flags column of
// Format1 and the bare flags column of Format2; any other bit is reserved.
func flagBits(v ShefValue) string {
	b := []byte("0000000000")
	if v.Missing {
		b[0] = '1'
	}
	if v.Trace {
		b[1] = '1'
	}
	if v.Revised {
		b[2] = '1'
	}
	return string(b)
}

func parseFlagBits(s string) (missing, trace, revised bool) {
	s = strings.TrimSpace(s)
	if len(s) > 0 && s[0] == '1' {
		missing = true
	}
	if len(s) > 1 && s[1] == '1' {
		trace = true
	}
	if len(s) > 2 && s[2] == '1' {
		revised = true
	}
	return
}

// probCode4 renders the probability bucket as a 4-digit code: the
// exceedance probability scaled to tenths of a percent, 0 for Z (none).
func probCode4(p float64) string {
	return fmt.Sprintf("%04d", int(p*1000))
}

func parseProbCode4(s string) float64 {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return float64(n) / 1000
}

// EmitFormat1 renders v per §6.2's fixed-column long form.
func EmitFormat1(v ShefValue) string {
	creTime := zeroDateTime
	if v.HasCreationTime() {
		creTime = v.CreationTime.UTC().Format(dateTimeLayout)
	}
	durField := "-1.000"
	if v.DurationValue != DurationVariable {
		durField = fmt.Sprintf("%.3f", float64(v.DurationValue))
	}
	comment := v.Comment
	if comment == "" {
		comment = " "
	}

	return fmt.Sprintf("%-10s%-19s  %-19s  %-6s    %12.4f %-2s   %8s  %s %d            %s %q",
		v.Location,
		v.ObsTime.UTC().Format(dateTimeLayout),
		creTime,
		v.ParameterCode,
		v.Value,
		zoneAbbrevFor(v),
		durField,
		probCode4(v.Probability),
		v.TimeSeriesCode,
		flagBits(v),
		comment,
	)
}

// zoneAbbrevFor reports the 2-char zone column of Format1. ShefValue does
// not retain the originating zone code, so UTC ("Z") is always emitted:
// ObsTime/CreationTime already carry the absolute instant, per §8 property 8
// ("UTC invariance"), so the zone column is informational only.
func zoneAbbrevFor(v ShefValue) string {
	return "Z"
}

// ParseFormat1 parses one EmitFormat1 line back into a ShefValue, per the
// round-trip requirement of §8 property 1. Format1 has no qualifier column,
// so Qualifier is left zero, and Value comes back rounded to 4 decimals.
func ParseFormat1(line string) (ShefValue, error) {
	if len(line) < 10+19+2+19+2+6 {
		return ShefValue{}, fmt.Errorf("format1 line too short")
	}
	pos := 0
	loc := strings.TrimSpace(line[pos : pos+10])
	pos += 10
	obsStr := strings.TrimSpace(line[pos : pos+19])
	pos += 19
	pos += 2
	creStr := strings.TrimSpace(line[pos : pos+19])
	pos += 19
	pos += 2
	param := strings.TrimSpace(line[pos : pos+6])
	pos += 6

	rest := strings.TrimSpace(line[pos:])
	fields := strings.Fields(rest)
	if len(fields) < 6 {
		return ShefValue{}, fmt.Errorf("format1 line: too few trailing fields")
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return ShefValue{}, fmt.Errorf("format1 value: %w", err)
	}
	dur, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return ShefValue{}, fmt.Errorf("format1 duration: %w", err)
	}
	prob := parseProbCode4(fields[3])
	tsCode, err := strconv.Atoi(fields[4])
	if err != nil {
		return ShefValue{}, fmt.Errorf("format1 ts_code: %w", err)
	}
	missing, trace, revised := parseFlagBits(fields[5])

	comment := ""
	if i := strings.IndexByte(rest, '"'); i >= 0 {
		if uq, err := strconv.Unquote(strings.TrimSpace(rest[i:])); err == nil {
			comment = uq
		}
	}
	if comment == " " {
		comment = ""
	}

	obsTime, err := time.ParseInLocation(dateTimeLayout, obsStr, time.UTC)
	if err != nil {
		return ShefValue{}, fmt.Errorf("format1 obs_time: %w", err)
	}
	var creTime time.Time
	if creStr != "" && creStr != "0000-00-00 00:00:00" {
		creTime, err = time.ParseInLocation(dateTimeLayout, creStr, time.UTC)
		if err != nil {
			return ShefValue{}, fmt.Errorf("format1 creation_time: %w", err)
		}
	}

	durValue := int(dur)
	if dur < 0 {
		durValue = DurationVariable
	}

	return ShefValue{
		Location:       loc,
		ObsTime:        obsTime,
		CreationTime:   creTime,
		ParameterCode:  param,
		DurationCode:   'Z',
		DurationValue:  durValue,
		Value:          value,
		Missing:        missing,
		Trace:          trace,
		Probability:    prob,
		Revised:        revised,
		Comment:        comment,
		TimeSeriesCode: tsCode,
	}, nil
}

// EmitFormat2 renders v per §6.3's compact form. The retained comment is
// truncated to 66 characters. The line does not carry CreationTime, the
// seconds of ObsTime, Qualifier or Probability, and Value is rounded to 3
// decimals, so ParseFormat2 does not restore those.
func EmitFormat2(v ShefValue) string {
	ut := v.ObsTime.UTC()
	pe := v.PE()
	tsExtProb := v.TypeSource() + string(v.Extremum()) + string(v.ProbabilityCode())
	durField := "-1.00"
	if v.DurationValue != DurationVariable {
		durField = fmt.Sprintf("%.2f", float64(v.DurationValue))
	}

	line := fmt.Sprintf("%-8s %6s %2s %2s %2s    %2s %3s %10.3f %1s %5s    %s %d",
		v.Location,
		ut.Format("200601"),
		fmt.Sprintf("%02d", ut.Day()),
		fmt.Sprintf("%02d", ut.Hour()),
		fmt.Sprintf("%02d", ut.Minute()),
		pe,
		tsExtProb,
		v.Value,
		"Z",
		durField,
		flagBits(v),
		v.TimeSeriesCode,
	)
	if v.Comment != "" {
		c := v.Comment
		if len(c) > 66 {
			c = c[:66]
		}
		line += " " + c
	}
	return line
}

// ParseFormat2 parses one EmitFormat2 line back into a ShefValue.
func ParseFormat2(line string) (ShefValue, error) {
	fields := strings.Fields(line)
	if len(fields) < 12 {
		return ShefValue{}, fmt.Errorf("format2 line: too few fields")
	}
	loc := fields[0]
	yyyymm := fields[1]
	dd, err := strconv.Atoi(fields[2])
	if err != nil {
		return ShefValue{}, fmt.Errorf("format2 day: %w", err)
	}
	hh, err := strconv.Atoi(fields[3])
	if err != nil {
		return ShefValue{}, fmt.Errorf("format2 hour: %w", err)
	}
	mm, err := strconv.Atoi(fields[4])
	if err != nil {
		return ShefValue{}, fmt.Errorf("format2 minute: %w", err)
	}
	if len(yyyymm) != 6 {
		return ShefValue{}, fmt.Errorf("format2 yyyymm: %q", yyyymm)
	}
	year, err := strconv.Atoi(yyyymm[:4])
	if err != nil {
		return ShefValue{}, fmt.Errorf("format2 year: %w", err)
	}
	month, err := strconv.Atoi(yyyymm[4:6])
	if err != nil {
		return ShefValue{}, fmt.Errorf("format2 month: %w", err)
	}
	pe := fields[5]
	tsExtProb := fields[6]
	if len(tsExtProb) != 4 {
		return ShefValue{}, fmt.Errorf("format2 ts/ext/prob field %q malformed", tsExtProb)
	}
	value, err := strconv.ParseFloat(fields[7], 64)
	if err != nil {
		return ShefValue{}, fmt.Errorf("format2 value: %w", err)
	}
	dur, err := strconv.ParseFloat(fields[9], 64)
	if err != nil {
		return ShefValue{}, fmt.Errorf("format2 duration: %w", err)
	}
	missing, trace, revised := parseFlagBits(fields[10])
	tsCode, err := strconv.Atoi(fields[11])
	if err != nil {
		return ShefValue{}, fmt.Errorf("format2 ts_code: %w", err)
	}
	comment := ""
	if len(fields) > 12 {
		comment = strings.Join(fields[12:], " ")
	}

	durValue := int(dur)
	if dur < 0 {
		durValue = DurationVariable
	}

	return ShefValue{
		Location:       loc,
		ObsTime:        time.Date(year, time.Month(month), dd, hh, mm, 0, 0, time.UTC),
		ParameterCode:  pe + tsExtProb[:2] + tsExtProb[2:3] + tsExtProb[3:4],
		DurationCode:   'Z',
		DurationValue:  durValue,
		Value:          value,
		Missing:        missing,
		Trace:          trace,
		Revised:        revised,
		Comment:        comment,
		TimeSeriesCode: tsCode,
	}, nil
}

// Emit renders v in the requested Format.
func Emit(v ShefValue, f Format) string {
	if f == Format2 {
		return EmitFormat2(v)
	}
	return EmitFormat1(v)
}

// Parse parses one rendered line back into a ShefValue in the given Format.
func Parse(line string, f Format) (ShefValue, error) {
	if f == Format2 {
		return ParseFormat2(line)
	}
	return ParseFormat1(line)
}
