package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"epdtoday/internal/model"
)

func TestProjectItem(t *testing.T) {
	const ofs = int64(3600)
	start := time.Date(2025, 1, 7, 18, 0, 0, 0, time.UTC).Unix()
	end := time.Date(2025, 1, 7, 19, 0, 0, 0, time.UTC).Unix()

	t.Run("summary and range", func(t *testing.T) {
		it := projectItem(event{start: start, end: end, summary: "Standup"}, ofs)
		assert.Equal(t, "Standup", it.Title)
		assert.Equal(t, "19:00-20:00", it.TimeRange)
	})

	t.Run("location appended in parentheses", func(t *testing.T) {
		it := projectItem(event{start: start, end: end, summary: "Standup", location: "Room 4"}, ofs)
		assert.Equal(t, "Standup (Room 4)", it.Title)
	})

	t.Run("missing end collapses to point range", func(t *testing.T) {
		it := projectItem(event{start: start, summary: "Standup"}, ofs)
		assert.Equal(t, "19:00-19:00", it.TimeRange)
	})

	t.Run("end before start collapses to point range", func(t *testing.T) {
		it := projectItem(event{start: start, end: start - 60, summary: "Standup"}, ofs)
		assert.Equal(t, "19:00-19:00", it.TimeRange)
	})

	t.Run("non-positive start renders placeholders", func(t *testing.T) {
		it := projectItem(event{summary: "Standup"}, ofs)
		assert.Equal(t, "--:--"+"-"+"--:--", it.TimeRange)
	})
}

func TestProjectItem_TitleTruncation(t *testing.T) {
	const ofs = int64(0)
	start := time.Date(2025, 1, 7, 18, 0, 0, 0, time.UTC).Unix()

	t.Run("long summary cut at capacity minus one", func(t *testing.T) {
		it := projectItem(event{start: start, summary: strings.Repeat("a", 100)}, ofs)
		assert.Len(t, it.Title, model.TitleCap-1)
		assert.Equal(t, strings.Repeat("a", model.TitleCap-1), it.Title)
	})

	t.Run("title exactly at capacity minus one untouched", func(t *testing.T) {
		want := strings.Repeat("b", model.TitleCap-1)
		it := projectItem(event{start: start, summary: want}, ofs)
		assert.Equal(t, want, it.Title)
	})

	t.Run("location pushes title over the cap", func(t *testing.T) {
		it := projectItem(event{
			start:    start,
			summary:  strings.Repeat("c", model.TitleCap-5),
			location: "Large Conference Room",
		}, ofs)
		assert.Len(t, it.Title, model.TitleCap-1)
		assert.True(t, strings.HasPrefix(it.Title, strings.Repeat("c", model.TitleCap-5)))
	})
}
