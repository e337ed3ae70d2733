package ics

import "time"

// spansToday reports whether an event overlaps the local calendar day that
// contains refUTC.
//
// The local day bounds are built by converting refUTC to local wall clock
// via the measured offset, clamping to 00:00:00 and 23:59:59, and mapping
// those wall-clock fields back to true UTC instants by reversing the offset.
// An event with end <= start is treated as a point at start, so a malformed
// or missing DTEND never hides an otherwise valid event.
func spansToday(startUTC, endUTC, refUTC, ofsSec int64) bool {
	tl := time.Unix(refUTC+ofsSec, 0).UTC()
	y, mo, d := tl.Date()

	dayStart := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC).Unix() - ofsSec
	dayEnd := time.Date(y, mo, d, 23, 59, 59, 0, time.UTC).Unix() - ofsSec

	eEnd := endUTC
	if eEnd <= startUTC {
		eEnd = startUTC
	}
	return eEnd >= dayStart && startUTC <= dayEnd
}
