package shef

import (
	"fmt"
	"time"
)

// TimeMode selects between the modern tz-database zone model and the
// legacy bug-for-bug reference model of §4.5.
type TimeMode int

const (
	ModernTime TimeMode = iota
	LegacyTime
)

// zoneOffset is a fixed UTC offset in minutes, keyed by SHEF zone code.
// Zones with a trailing S/D suffix are the always-standard / always-daylight
// variants of the base zone; the bare code observes DST under ModernTime via
// the IANA location in zoneLocation, and is a fixed standard offset with no
// DST under LegacyTime.
var zoneOffset = map[string]int{
	"Z": 0,
	"N": -5 * 60, "NS": -5 * 60, "ND": -4 * 60,
	"C": -6 * 60, "CS": -6 * 60, "CD": -5 * 60,
	"M": -7 * 60, "MS": -7 * 60, "MD": -6 * 60,
	"P": -8 * 60, "PS": -8 * 60, "PD": -7 * 60,
	"A": -9 * 60, "AS": -9 * 60, "AD": -8 * 60,
	"H": -10 * 60, "HS": -10 * 60, "HD": -9 * 60,
	"L": -10 * 60, "LS": -10 * 60, "LD": -9 * 60,
	"Y": -9 * 60, "YS": -9 * 60, "YD": -8 * 60,
	"B": -11 * 60, "BS": -11 * 60, "BD": -10 * 60,
	"J": -10 * 60,
	"E": -5 * 60,
}

// zoneLocation names the IANA tz-database location used under ModernTime to
// resolve DST transitions for zones that observe daylight saving when given
// in their bare (non S/D-suffixed) form.
var zoneLocation = map[string]string{
	"N": "America/New_York",
	"C": "America/Chicago",
	"M": "America/Denver",
	"P": "America/Los_Angeles",
	"A": "America/Anchorage",
	"H": "Pacific/Honolulu", // no DST observed; fixed offset applies
	"L": "Pacific/Honolulu",
	"Y": "America/Anchorage", // Yukon time has not observed DST since 1983; legacy-only distinction
	"B": "Pacific/Pago_Pago",
}

// legacyNoDSTZones are zones whose legacy-mode arithmetic ignores DST
// entirely and always applies the fixed standard offset, per §4.5.
var legacyNoDSTZones = map[string]bool{
	"Y": true, "YD": true, "YS": true, "ND": true,
}

// ResolveToUTC converts a calendar wall-clock triplet in the given SHEF zone
// code to a UTC instant. It is a pure function of its arguments.
func ResolveToUTC(year, month, day, hour, minute, second int, zone string, mode TimeMode) (time.Time, error) {
	if zone == "" {
		zone = "Z"
	}

	// DH24 end-of-day convention (§9 open question, resolved): roll to 00:00
	// of the next day.
	if hour == 24 {
		hour = 0
		t := time.Date(year, time.Month(month), day, 0, 0, second, 0, time.UTC).AddDate(0, 0, 1)
		year, month, day = t.Year(), int(t.Month()), t.Day()
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return time.Time{}, fmt.Errorf("invalid date/time %04d-%02d-%02d %02d:%02d:%02d", year, month, day, hour, minute, second)
	}

	if mode == LegacyTime || legacyNoDSTZones[zone] {
		offMin, ok := zoneOffset[zone]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown SHEF zone %q", zone)
		}
		loc := time.FixedZone(zone, offMin*60)
		local := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
		return local.UTC(), nil
	}

	base, suffix := splitZone(zone)
	switch suffix {
	case "S": // always standard, no DST
		offMin, ok := zoneOffset[zone]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown SHEF zone %q", zone)
		}
		loc := time.FixedZone(zone, offMin*60)
		return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc).UTC(), nil
	case "D": // always daylight
		offMin, ok := zoneOffset[zone]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown SHEF zone %q", zone)
		}
		loc := time.FixedZone(zone, offMin*60)
		return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc).UTC(), nil
	default:
		if locName, ok := zoneLocation[base]; ok {
			loc, err := time.LoadLocation(locName)
			if err == nil {
				return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc).UTC(), nil
			}
		}
		offMin, ok := zoneOffset[zone]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown SHEF zone %q", zone)
		}
		loc := time.FixedZone(zone, offMin*60)
		return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc).UTC(), nil
	}
}

func splitZone(zone string) (base, suffix string) {
	if len(zone) >= 2 {
		last := zone[len(zone)-1]
		if last == 'S' || last == 'D' {
			return zone[:len(zone)-1], string(last)
		}
	}
	return zone, ""
}

// ExpandYear maps a 2-digit SHEF year to a 4-digit year: 2000+YY if YY<70,
// else 1900+YY.
func ExpandYear(yy int) int {
	if yy < 70 {
		return 2000 + yy
	}
	return 1900 + yy
}

// RelUnit is the unit of a DR relative-date offset.
type RelUnit byte

const (
	RelMinute RelUnit = 'N'
	RelHour   RelUnit = 'H'
	RelDay    RelUnit = 'D'
	RelMonth  RelUnit = 'M'
	RelYear   RelUnit = 'Y'
)

// ApplyRelativeOffset adds a signed relative offset to t. Month/year
// arithmetic clamps end-of-month overflow to the last valid day of the
// resulting month (31 Jan + 1 Month -> 28/29 Feb), per §4.5 and the §9
// modern-mode resolution of the month-end tie-break open question.
func ApplyRelativeOffset(t time.Time, unit RelUnit, amount int) time.Time {
	switch unit {
	case RelMinute:
		return t.Add(time.Duration(amount) * time.Minute)
	case RelHour:
		return t.Add(time.Duration(amount) * time.Hour)
	case RelDay:
		return t.AddDate(0, 0, amount)
	case RelMonth:
		return addClampedMonths(t, amount)
	case RelYear:
		return addClampedMonths(t, amount*12)
	default:
		return t
	}
}

func addClampedMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	totalMonths := int(m) - 1 + months
	y += totalMonths / 12
	m = time.Month(totalMonths%12 + 1)
	if m <= 0 {
		m += 12
		y--
	}
	lastDay := daysInMonth(y, m)
	if d > lastDay {
		d = lastDay
	}
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
