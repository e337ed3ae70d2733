package ics

import (
	"strings"
	"time"
)

// fieldCap bounds the decoded summary/location held in the working event.
// The projector truncates again to the display row width; this cap only
// keeps a pathological feed from ballooning the one live record.
const fieldCap = 256

// event is the single working record assembled by the accumulator. It is
// reset in place on every BEGIN:VEVENT; at most one instance is live during
// a parse, so memory cost does not grow with feed size.
type event struct {
	start     int64
	end       int64
	summary   string
	location  string
	cancelled bool
}

// eligible reports whether the record may be considered for output at all:
// a valid start, a non-empty summary and not cancelled.
func (e *event) eligible() bool {
	return e.start > 0 && e.summary != "" && !e.cancelled
}

// accumulator is the streaming VEVENT state machine. It consumes logical
// lines and emits one finished, eligible event at a time. VALARM blocks are
// skipped wholesale; lines outside a VEVENT and unrecognized prefixes are
// ignored.
type accumulator struct {
	loc     *time.Location
	inEvent bool
	inAlarm bool
	cur     event

	// Diagnostic counters for the current stream.
	seen     int // BEGIN:VEVENT markers consumed
	rejected int // finished events that failed eligibility
}

// feed consumes one logical line. When an END:VEVENT closes an eligible
// event, that event is returned with true; the caller still applies the
// today filter.
func (a *accumulator) feed(ln string) (event, bool) {
	// Alarms never contribute fields; skip them in any state.
	if strings.HasPrefix(ln, "BEGIN:VALARM") {
		a.inAlarm = true
		return event{}, false
	}
	if strings.HasPrefix(ln, "END:VALARM") {
		a.inAlarm = false
		return event{}, false
	}
	if a.inAlarm {
		return event{}, false
	}

	if ln == "BEGIN:VEVENT" {
		a.inEvent = true
		a.cur = event{}
		a.seen++
		return event{}, false
	}
	if ln == "END:VEVENT" {
		open := a.inEvent
		a.inEvent = false
		if open && a.cur.eligible() {
			return a.cur, true
		}
		if open {
			a.rejected++
		}
		return event{}, false
	}

	if !a.inEvent {
		return event{}, false
	}

	switch {
	case strings.HasPrefix(ln, "DTSTART"):
		// A failed parse clears the start: the event must not reach
		// output on the strength of a timestamp we could not decode.
		a.cur.start, _ = parseTimestamp(ln, a.loc)
	case strings.HasPrefix(ln, "DTEND"):
		a.cur.end, _ = parseTimestamp(ln, a.loc)
	case strings.HasPrefix(ln, "STATUS:"):
		if strings.Contains(ln, "CANCELLED") {
			a.cur.cancelled = true
		}
	case strings.HasPrefix(ln, "SUMMARY:"):
		a.cur.summary = clampField(unescapeText(ln[len("SUMMARY:"):]))
	case strings.HasPrefix(ln, "LOCATION:"):
		a.cur.location = clampField(unescapeText(ln[len("LOCATION:"):]))
	}
	return event{}, false
}

// unescapeText decodes backslash escapes in a calendar text value. \n and \N
// become a single space (titles are flattened for a one-line display); \\,
// \, and \; become the literal character. Any other backslash sequence
// passes through unchanged, backslash included.
func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch n := s[i+1]; n {
			case 'n', 'N':
				b.WriteByte(' ')
				i++
				continue
			case '\\', ',', ';':
				b.WriteByte(n)
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

func clampField(s string) string {
	if len(s) > fieldCap {
		return s[:fieldCap]
	}
	return s
}
