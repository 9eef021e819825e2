package shef

import (
	"fmt"
	"strconv"
)

// unsetDuration marks a DurationValueOverride (DV) that has not been set.
const unsetDuration = -2

// headerContext is the mutable bag of inherited defaults described in §3
// "Header context": obs-date, creation-date, obs-time, zone, units-system,
// PE, duration, qualifier, comment, relative-date offset. It is a plain
// value type; cloning it is an ordinary Go assignment, which is what makes
// the §3 "clone at each segment boundary" rule free of ownership trouble
// (see DESIGN.md §9 notes).
type headerContext struct {
	Location string

	Year, Month, Day  int
	Hour, Minute, Sec int
	Zone              string

	HasCreation          bool
	CYear, CMonth, CDay  int
	CHour, CMinute, CSec int

	UnitsSystem byte // 'E' or 'S'

	PE               string
	TypeSource       string
	Extremum         byte
	ProbCode         byte
	DurationCode     byte
	DurationOverride int // DV override, in minutes, or unsetDuration

	Qualifier byte
	Comment   string

	HasRelative bool
	RelUnit     RelUnit
	RelAmount   int

	IntervalSet    bool
	IntervalUnit   RelUnit
	IntervalAmount int

	Revised bool
}

func newHeaderContext() headerContext {
	return headerContext{
		Zone:             "Z",
		UnitsSystem:      'E',
		Extremum:         'Z',
		TypeSource:       "RZ",
		ProbCode:         'Z',
		Qualifier:        'Z',
		DurationOverride: unsetDuration,
	}
}

// clone returns an independent copy. Because headerContext holds only value
// fields, a plain Go assignment already deep-copies it; clone exists to
// make that intent explicit at call sites (§3's segment-boundary rule).
func (c headerContext) clone() headerContext {
	return c
}

// applyDirective mutates c in place to apply one D* header/body token
// (DH, DM, DD, DC, DI, DU, DV, DQ, DR, DT), per §4.3.1.
func (c *headerContext) applyDirective(tok string) error {
	if len(tok) < 2 || tok[0] != 'D' {
		return fmt.Errorf("not a D* directive: %q", tok)
	}
	key := tok[1]
	rest := tok[2:]

	switch key {
	case 'H':
		h, m, s, err := parseClock(rest)
		if err != nil {
			return fmt.Errorf("DH: %w", err)
		}
		c.Hour, c.Minute, c.Sec = h, m, s
	case 'T':
		h, m, s, err := parseClock(rest)
		if err != nil {
			return fmt.Errorf("DT: %w", err)
		}
		c.HasCreation = true
		c.CHour, c.CMinute, c.CSec = h, m, s
	case 'M':
		mm, dd, yy, hasYear, err := parseMonthDay(rest)
		if err != nil {
			return fmt.Errorf("DM: %w", err)
		}
		c.Month, c.Day = mm, dd
		if hasYear {
			c.Year = yy
		}
	case 'D':
		dd, err := strconv.Atoi(rest)
		if err != nil || dd < 1 || dd > 31 {
			return fmt.Errorf("DD: invalid day %q", rest)
		}
		c.Day = dd
	case 'C':
		y, mo, d, h, mi, s, err := parseCreationDate(rest)
		if err != nil {
			return fmt.Errorf("DC: %w", err)
		}
		c.HasCreation = true
		c.CYear, c.CMonth, c.CDay, c.CHour, c.CMinute, c.CSec = y, mo, d, h, mi, s
	case 'I':
		unit, amount, err := parseIntervalOrRelative(rest)
		if err != nil {
			return fmt.Errorf("DI: %w", err)
		}
		c.IntervalSet = true
		c.IntervalUnit, c.IntervalAmount = unit, amount
	case 'U':
		if rest != "E" && rest != "S" {
			return fmt.Errorf("DU: invalid units system %q", rest)
		}
		c.UnitsSystem = rest[0]
	case 'V':
		if len(rest) < 2 {
			return fmt.Errorf("DV: invalid duration override %q", rest)
		}
		letter := rest[0]
		n, err := strconv.Atoi(rest[1:])
		if err != nil {
			return fmt.Errorf("DV: invalid duration override %q", rest)
		}
		mins, err := durationLetterToMinutes(RelUnit(letter), n)
		if err != nil {
			return fmt.Errorf("DV: %w", err)
		}
		c.DurationOverride = mins
	case 'Q':
		if len(rest) != 1 {
			return fmt.Errorf("DQ: invalid qualifier %q", rest)
		}
		c.Qualifier = rest[0]
	case 'R':
		unit, amount, err := parseIntervalOrRelative(rest)
		if err != nil {
			return fmt.Errorf("DR: %w", err)
		}
		c.HasRelative = true
		c.RelUnit, c.RelAmount = unit, amount
	default:
		return fmt.Errorf("unknown D* directive %q", tok)
	}
	return nil
}

// durationLetterToMinutes converts a DV letter+magnitude (M/H/D/Y) to minutes.
func durationLetterToMinutes(letter RelUnit, n int) (int, error) {
	switch letter {
	case 'M':
		return n, nil
	case 'H':
		return n * 60, nil
	case 'D':
		return n * 1440, nil
	case 'Y':
		return n * 525600, nil
	default:
		return 0, fmt.Errorf("invalid duration letter %q", string(letter))
	}
}

// parseClock parses HH, HHMM, or HHMMSS.
func parseClock(s string) (h, m, sec int, err error) {
	switch len(s) {
	case 2:
		h, err = strconv.Atoi(s)
	case 4:
		h, err = strconv.Atoi(s[:2])
		if err == nil {
			m, err = strconv.Atoi(s[2:4])
		}
	case 6:
		h, err = strconv.Atoi(s[:2])
		if err == nil {
			m, err = strconv.Atoi(s[2:4])
		}
		if err == nil {
			sec, err = strconv.Atoi(s[4:6])
		}
	default:
		return 0, 0, 0, fmt.Errorf("invalid clock %q", s)
	}
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid clock %q", s)
	}
	return h, m, sec, nil
}

// parseMonthDay parses MMDD or MMDDYY/MMDDYYYY.
func parseMonthDay(s string) (month, day, year int, hasYear bool, err error) {
	if len(s) < 4 {
		return 0, 0, 0, false, fmt.Errorf("invalid MMDD %q", s)
	}
	mm, err1 := strconv.Atoi(s[:2])
	dd, err2 := strconv.Atoi(s[2:4])
	if err1 != nil || err2 != nil {
		return 0, 0, 0, false, fmt.Errorf("invalid MMDD %q", s)
	}
	if len(s) == 4 {
		return mm, dd, 0, false, nil
	}
	rest := s[4:]
	yy, err3 := strconv.Atoi(rest)
	if err3 != nil {
		return 0, 0, 0, false, fmt.Errorf("invalid year in %q", s)
	}
	if len(rest) == 2 {
		return mm, dd, ExpandYear(yy), true, nil
	}
	return mm, dd, yy, true, nil
}

// parseCreationDate parses DC's YYMMDDHHMM or YYYYMMDDHHMMSS forms.
func parseCreationDate(s string) (year, month, day, hour, minute, sec int, err error) {
	var datePart, timePart string
	switch len(s) {
	case 10: // YYMMDDHHMM
		datePart, timePart = s[:6], s[6:]
	case 12: // YYYYMMDDHHMM
		datePart, timePart = s[:8], s[8:]
	case 14: // YYYYMMDDHHMMSS
		datePart, timePart = s[:8], s[8:]
	default:
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("invalid creation date %q", s)
	}

	if len(datePart) == 6 {
		yy, e1 := strconv.Atoi(datePart[:2])
		mo, e2 := strconv.Atoi(datePart[2:4])
		d, e3 := strconv.Atoi(datePart[4:6])
		if e1 != nil || e2 != nil || e3 != nil {
			return 0, 0, 0, 0, 0, 0, fmt.Errorf("invalid creation date %q", s)
		}
		year, month, day = ExpandYear(yy), mo, d
	} else {
		y, e1 := strconv.Atoi(datePart[:4])
		mo, e2 := strconv.Atoi(datePart[4:6])
		d, e3 := strconv.Atoi(datePart[6:8])
		if e1 != nil || e2 != nil || e3 != nil {
			return 0, 0, 0, 0, 0, 0, fmt.Errorf("invalid creation date %q", s)
		}
		year, month, day = y, mo, d
	}

	h, m, sc, err := parseClock(timePart)
	if err != nil {
		return 0, 0, 0, 0, 0, 0, err
	}
	return year, month, day, h, m, sc, nil
}

// parseIntervalOrRelative parses a DI/DR token: 1 letter unit + signed int
// magnitude, e.g. "H01", "D-1", "M+6".
func parseIntervalOrRelative(s string) (RelUnit, int, error) {
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("invalid interval/offset %q", s)
	}
	unit := RelUnit(s[0])
	switch unit {
	case RelMinute, RelHour, RelDay, RelMonth, RelYear:
	default:
		return 0, 0, fmt.Errorf("invalid interval/offset unit %q", string(s[0]))
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid interval/offset magnitude %q", s[1:])
	}
	return unit, n, nil
}
