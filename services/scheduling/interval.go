package scheduling

import "fmt"

// span is a half-open [Start, End) minute range within one day.
type span struct {
	Start int
	End   int
}

// mergeSpans sorts and coalesces overlapping or touching spans, dropping
// empty ones. The input slice is reordered in place.
func mergeSpans(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}
	// insertion sort by start; busy lists for a single day are short
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Start < spans[j-1].Start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	merged := spans[:1]
	for _, s := range spans[1:] {
		if s.End <= s.Start {
			continue
		}
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	if merged[0].End <= merged[0].Start {
		merged = merged[1:]
	}
	return merged
}

// subtractSpans removes every busy span from the base window with a single
// sweep over the sorted, merged busy list. The result is ordered by start
// and mutually disjoint.
func subtractSpans(base span, busy []span) []span {
	var free []span
	cursor := base.Start
	for _, b := range mergeSpans(busy) {
		if b.End <= cursor {
			continue
		}
		if b.Start >= base.End {
			break
		}
		if b.Start > cursor {
			free = append(free, span{Start: cursor, End: b.Start})
		}
		if b.End > cursor {
			cursor = b.End
		}
	}
	if cursor < base.End {
		free = append(free, span{Start: cursor, End: base.End})
	}
	return free
}

// gridStarts enumerates bookable start minutes inside the free spans: every
// t = span.Start + k*granularity with t >= notBefore and t+duration within
// the span. Output is ascending; spans are disjoint so no dedup is needed.
func gridStarts(free []span, duration, granularity, notBefore int) []int {
	var starts []int
	for _, f := range free {
		t := f.Start
		if notBefore > t {
			t += ((notBefore - f.Start + granularity - 1) / granularity) * granularity
		}
		for ; t+duration <= f.End; t += granularity {
			starts = append(starts, t)
		}
	}
	return starts
}

// hasGridStart answers gridStarts != empty without building the list.
func hasGridStart(free []span, duration, granularity, notBefore int) bool {
	for _, f := range free {
		t := f.Start
		if notBefore > t {
			t += ((notBefore - f.Start + granularity - 1) / granularity) * granularity
		}
		if t+duration <= f.End {
			return true
		}
	}
	return false
}

// containsSpan reports whether [start, end) lies entirely within one of the
// free spans. Intervals never concatenate across a gap.
func containsSpan(free []span, start, end int) bool {
	for _, f := range free {
		if start >= f.Start && end <= f.End {
			return true
		}
	}
	return false
}

// formatMinute converts minutes from midnight into a human-readable time.
func formatMinute(minutes int) string {
	hour := minutes / 60
	minute := minutes % 60
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	hour = hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, ampm)
}
