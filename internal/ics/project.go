package ics

import "epdtoday/internal/model"

// projectItem builds the display row for an accepted event: the title is
// "Summary (Location)" when a location is present, the time range two local
// HH:MM values joined by a hyphen. Both are truncated to their capacity
// minus the reserved terminator slot; truncation keeps the longest prefix
// that fits and is never an error.
func projectItem(ev event, ofsSec int64) model.Item {
	endUse := ev.end
	if endUse <= ev.start {
		endUse = ev.start
	}
	timeRange := fmtHHMM(ev.start, ofsSec) + "-" + fmtHHMM(endUse, ofsSec)

	title := ev.summary
	if ev.location != "" {
		title += " (" + ev.location + ")"
	}

	if len(title) >= model.TitleCap {
		title = title[:model.TitleCap-1]
	}
	if len(timeRange) >= model.TimeCap {
		timeRange = timeRange[:model.TimeCap-1]
	}
	return model.Item{Title: title, TimeRange: timeRange}
}
