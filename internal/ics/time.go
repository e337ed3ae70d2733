package ics

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Core timestamps are UTC epoch seconds. Zero and negative values mean "no
// valid instant" throughout this package; see parseTimestamp.

// localOffsetSeconds measures local_wall_clock_epoch - utc_epoch for now in
// loc. The local calendar fields are reinterpreted as UTC and the original
// instant subtracted, so the result is a plain number independent of any
// timezone handling elsewhere in the process. Measured once per fetch
// attempt and held constant for that attempt.
func localOffsetSeconds(now time.Time, loc *time.Location) int64 {
	lt := now.In(loc)
	asUTC := time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), lt.Minute(), lt.Second(), 0, time.UTC)
	return asUTC.Unix() - now.Unix()
}

// parseTimestamp decodes a DTSTART/DTEND logical line into a UTC instant.
// The parameter block before the colon (TZID=..., VALUE=DATE) is not
// interpreted; the value form decides:
//
//   - trailing Z/z: digits are UTC directly
//   - no 'T' separator: all-day YYYYMMDD, local midnight in loc
//   - otherwise: YYYYMMDD 'T' up to six time digits (missing trailing
//     digits are zero), UTC if Z was stripped, else local wall clock
//
// Returns (0, false) on any malformed value. A non-positive instant also
// counts as a failure: the caller uses the sign as the validity flag, which
// conflates a literal epoch-zero start with garbage, accepted as a
// non-case in practice.
func parseTimestamp(line string, loc *time.Location) (int64, bool) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return 0, false
	}
	v := strings.TrimSpace(line[colon+1:])

	zulu := false
	if n := len(v); n > 0 && (v[n-1] == 'Z' || v[n-1] == 'z') {
		zulu = true
		v = v[:n-1]
	}

	tpos := strings.IndexByte(v, 'T')

	// All-day value: a genuine local wall-clock midnight.
	if tpos < 0 {
		if len(v) < 8 {
			return 0, false
		}
		year, month, day, ok := parseDate(v[:8])
		if !ok {
			return 0, false
		}
		u := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc).Unix()
		if u <= 0 {
			return 0, false
		}
		return u, true
	}

	if tpos < 8 {
		return 0, false
	}
	year, month, day, ok := parseDate(v[:8])
	if !ok {
		return 0, false
	}

	// Keep only digits from the time part and normalize to HHMMSS.
	var td strings.Builder
	for i := tpos + 1; i < len(v) && td.Len() < 6; i++ {
		if v[i] >= '0' && v[i] <= '9' {
			td.WriteByte(v[i])
		}
	}
	ts := td.String()
	for len(ts) < 6 {
		ts += "0"
	}

	hour, _ := strconv.Atoi(ts[0:2])
	min, _ := strconv.Atoi(ts[2:4])
	sec, _ := strconv.Atoi(ts[4:6])

	// sec == 60 tolerates a leap second; time.Date normalizes it.
	if hour > 23 || min > 59 || sec > 60 {
		return 0, false
	}

	var t time.Time
	if zulu {
		t = time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC)
	} else {
		t = time.Date(year, time.Month(month), day, hour, min, sec, 0, loc)
	}
	u := t.Unix()
	if u <= 0 {
		return 0, false
	}
	return u, true
}

// parseDate splits YYYYMMDD and range-checks month and day.
func parseDate(d string) (year, month, day int, ok bool) {
	var err error
	if year, err = strconv.Atoi(d[0:4]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(d[4:6]); err != nil {
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(d[6:8]); err != nil {
		return 0, 0, 0, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}

// fmtHHMM renders a UTC instant as local "HH:MM" using the measured offset.
// Non-positive instants render as "--:--".
func fmtHHMM(t int64, ofsSec int64) string {
	if t <= 0 {
		return "--:--"
	}
	tl := time.Unix(t+ofsSec, 0).UTC()
	return fmt.Sprintf("%02d:%02d", tl.Hour(), tl.Minute())
}
