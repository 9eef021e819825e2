package shef

import "time"

// resolveCalendar implements §4.3.3 steps 3-4: apply any DR relative
// offset to the calendar triplet in its own zone-local terms, then convert
// once to UTC via the decoder's time model.
func (d *Decoder) resolveCalendar(year, month, day, hour, minute, sec int, zone string, hasRel bool, relUnit RelUnit, relAmount int) (time.Time, error) {
	if hasRel {
		naive := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
		adjusted := ApplyRelativeOffset(naive, relUnit, relAmount)
		year, month, day = adjusted.Year(), int(adjusted.Month()), adjusted.Day()
		hour, minute, sec = adjusted.Hour(), adjusted.Minute(), adjusted.Second()
	}
	return ResolveToUTC(year, month, day, hour, minute, sec, zone, d.TimeMode)
}
