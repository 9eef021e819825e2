package shef

import (
	"fmt"
	"sort"
	"strings"
)

// Compose implements the §4.4.3 inverse composer: it turns a sequence of
// ShefValue sharing (location, parameter_code) back into SHEF message text.
// Callers that mix locations or parameters must call Compose once per group;
// Compose itself does not split its input.
func Compose(values []ShefValue) string {
	if len(values) == 0 {
		return ""
	}
	sorted := make([]ShefValue, len(values))
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ObsTime.Before(sorted[j].ObsTime) })

	if interval, ok := uniformInterval(sorted); ok && len(sorted) >= 3 {
		return composeE(sorted, interval)
	}
	return composeA(sorted)
}

// uniformInterval reports the common spacing between consecutive ObsTime
// values, if every gap in the sorted slice is identical and positive.
func uniformInterval(sorted []ShefValue) (minutes int, ok bool) {
	if len(sorted) < 2 {
		return 0, false
	}
	first := sorted[1].ObsTime.Sub(sorted[0].ObsTime)
	if first <= 0 {
		return 0, false
	}
	for i := 2; i < len(sorted); i++ {
		gap := sorted[i].ObsTime.Sub(sorted[i-1].ObsTime)
		if gap != first {
			return 0, false
		}
	}
	return int(first.Minutes()), true
}

// diLetterAndCount chooses the most compact DI letter/magnitude pair that
// expresses minutes exactly (days, then hours, falling back to minutes).
func diLetterAndCount(minutes int) (letter byte, n int) {
	switch {
	case minutes%1440 == 0:
		return 'D', minutes / 1440
	case minutes%60 == 0:
		return 'H', minutes / 60
	default:
		return 'N', minutes
	}
}

// composeE renders a uniformly-spaced run as one ".E" message, splitting
// the value list across 12-value continuation lines (§4.4.3).
func composeE(sorted []ShefValue, minutes int) string {
	first := sorted[0]
	letter, n := diLetterAndCount(minutes)

	var b strings.Builder
	fmt.Fprintf(&b, ".E %s %s Z DH%02d%02d%02d/%s/DI%c%02d",
		first.Location,
		first.ObsTime.UTC().Format("20060102"),
		first.ObsTime.UTC().Hour(), first.ObsTime.UTC().Minute(), first.ObsTime.UTC().Second(),
		first.PE()+first.TypeSource()+string(first.Extremum())+string(first.ProbabilityCode()),
		letter, n,
	)

	const perLine = 12
	for i, v := range sorted {
		if i%perLine == 0 {
			if i == 0 {
				b.WriteByte('/')
			} else {
				fmt.Fprintf(&b, "\n.E%02d ", i/perLine)
			}
		} else {
			b.WriteByte('/')
		}
		b.WriteString(valueToken(v))
	}
	b.WriteByte('\n')
	return b.String()
}

// composeA renders a non-uniform run as one ".A" per obs_time, grouping
// values that share both location and obs_time onto a single message.
func composeA(sorted []ShefValue) string {
	var b strings.Builder
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && sorted[j].Location == sorted[i].Location && sorted[j].ObsTime.Equal(sorted[i].ObsTime) {
			j++
		}
		group := sorted[i:j]
		v0 := group[0]
		fmt.Fprintf(&b, ".A %s %s Z DH%02d%02d%02d",
			v0.Location,
			v0.ObsTime.UTC().Format("20060102"),
			v0.ObsTime.UTC().Hour(), v0.ObsTime.UTC().Minute(), v0.ObsTime.UTC().Second(),
		)
		for _, v := range group {
			b.WriteByte('/')
			fmt.Fprintf(&b, "%s %s", v.PE()+v.TypeSource()+string(v.Extremum())+string(v.ProbabilityCode()), valueToken(v))
		}
		b.WriteByte('\n')
		i = j
	}
	return b.String()
}

// valueToken renders a ShefValue's numeric body as the decoder would have
// consumed it: "M" for missing, "T" for trace, else a decimal literal.
// Missing ShefValues inside a .E stream use "M" to preserve positional
// alignment, per §4.4.3.
func valueToken(v ShefValue) string {
	switch {
	case v.Missing:
		return "M"
	case v.Trace:
		return "T"
	default:
		return fmt.Sprintf("%g", v.Value)
	}
}
