package model

// Display row capacities, in bytes. These mirror the fixed cells of the
// e-paper layout: the cap includes a reserved terminator slot, so the
// longest representable title is TitleCap-1 bytes.
const (
	// TitleCap bounds Item.Title ("Summary (Location)" after truncation).
	TitleCap = 40
	// TimeCap bounds Item.TimeRange ("HH:MM-HH:MM" plus headroom).
	TimeCap = 18
)

// Item is one display-ready calendar row for today's view. Instances are
// immutable once produced by the projector; Title is at most TitleCap-1
// bytes and TimeRange at most TimeCap-1 bytes.
type Item struct {
	Title     string
	TimeRange string
}
