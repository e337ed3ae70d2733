// Package format renders local dates and times for the display header.
// Locale and clock style are an explicit options value handed to New once;
// there is no process-wide formatter state.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Options selects a formatter variant.
type Options struct {
	// Locale is "de" or "en"; anything else falls back to "de".
	Locale string
	// Use24h selects the 24-hour clock where the locale supports both.
	Use24h bool
}

// DateTimeFormatter renders wall-clock values for display. Implementations
// are stateless and safe for concurrent use.
type DateTimeFormatter interface {
	FormatDate(t time.Time) string
	FormatTime(t time.Time) string
}

// New returns the formatter for the given options.
func New(opts Options) DateTimeFormatter {
	if strings.EqualFold(opts.Locale, "en") {
		return englishFormatter{use24h: opts.Use24h}
	}
	return germanFormatter{}
}

// germanFormatter renders "Dienstag, 07.10.2025" and always a 24h clock.
type germanFormatter struct{}

var germanWeekdays = [...]string{
	"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag",
}

func (germanFormatter) FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %02d.%02d.%04d",
		germanWeekdays[t.Weekday()], t.Day(), int(t.Month()), t.Year())
}

func (germanFormatter) FormatTime(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// englishFormatter renders "Tue, 07 Oct 2025" and honors the 12h/24h flag.
type englishFormatter struct {
	use24h bool
}

func (englishFormatter) FormatDate(t time.Time) string {
	return t.Format("Mon, 02 Jan 2006")
}

func (f englishFormatter) FormatTime(t time.Time) string {
	if f.use24h {
		return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
	}
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%2d:%02d", h, t.Minute())
}
