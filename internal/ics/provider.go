package ics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	appLog "epdtoday/internal/log"
	"epdtoday/internal/model"
)

// Default tunables for the two-phase fetch.
const (
	// defaultTailBytes is the trailing window of the first attempt; the
	// newest events of a typical hosted feed cluster near the end.
	defaultTailBytes = 200_000

	// defaultScreenQuota is "enough for one screen": parsing stops early
	// once this many rows exist, even if the caller asked for more.
	defaultScreenQuota = 6
)

// Options configures a Provider. Zero values select the defaults above and
// the process-local timezone.
type Options struct {
	// TailBytes is the byte-range window of the tail attempt.
	TailBytes int64

	// ScreenQuota caps rows per call regardless of caller capacity.
	ScreenQuota int

	// Location is the zone used for "today", for local timestamp values
	// and for all-day midnights. Nil means time.Local.
	Location *time.Location
}

// Stats are diagnostic counters for the most recent ReadToday call. The
// provider itself never fails hard; these let the caller tell "no events
// today" from "the fetch went nowhere".
type Stats struct {
	TailAttempts int
	FullAttempts int
	LastStatus   int

	Lines          int
	EventsSeen     int
	EventsAccepted int
	EventsDropped  int
}

// Provider reads today's events from a configured ICS source using a
// tail-first, then full, fetch strategy. It is fetch-policy-owning: the line
// reader, accumulator, filter and projector below it work on any stream.
//
// A Provider is not safe for concurrent ReadToday calls; the surrounding
// scheduler invokes it sequentially.
type Provider struct {
	transport Transport
	url       string

	tailBytes int64
	quota     int
	loc       *time.Location

	// now is swappable for tests.
	now func() time.Time

	stats Stats
}

func NewProvider(t Transport, opts Options) *Provider {
	if opts.TailBytes <= 0 {
		opts.TailBytes = defaultTailBytes
	}
	if opts.ScreenQuota <= 0 {
		opts.ScreenQuota = defaultScreenQuota
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Provider{
		transport: t,
		tailBytes: opts.TailBytes,
		quota:     opts.ScreenQuota,
		loc:       opts.Location,
		now:       time.Now,
	}
}

// Begin performs one-time setup. No network I/O.
func (p *Provider) Begin() error {
	if p.transport == nil {
		return errors.New("ics: no transport configured")
	}
	return nil
}

// SetURL configures the calendar source. An empty URL disables fetching.
func (p *Provider) SetURL(url string) {
	p.url = url
}

// Stats returns the counters of the most recent ReadToday call.
func (p *Provider) Stats() Stats {
	return p.stats
}

// ReadToday returns up to maxn display rows for events overlapping today in
// local time. It never returns an error: a transport failure, a bad status
// or a misconfiguration all degrade to zero rows. Each call is independent
// and idempotent with respect to the remote feed's current content.
//
// Strategy: fetch the trailing tail window first and stop as soon as one
// screen is filled. Only when the tail attempt succeeds but yields nothing
// is the full resource fetched, exactly once.
func (p *Provider) ReadToday(ctx context.Context, maxn int) []model.Item {
	p.stats = Stats{}
	if maxn <= 0 || p.url == "" || p.transport == nil {
		return nil
	}

	p.stats.TailAttempts++
	items, err := p.fetchAndParse(ctx, maxn, true)
	if err != nil {
		appLog.Error("calendar tail fetch failed", err, "url", redactURL(p.url))
		return nil
	}
	if len(items) > 0 {
		return items
	}

	// Tail parsed clean but produced nothing; the day's events may sit
	// before the window. One full pass, no further retries.
	p.stats.FullAttempts++
	items, err = p.fetchAndParse(ctx, maxn, false)
	if err != nil {
		appLog.Error("calendar full fetch failed", err, "url", redactURL(p.url))
		return nil
	}
	return items
}

// fetchAndParse performs one attempt: open the stream (tail or full), then a
// single streaming pass of unfold -> accumulate -> filter -> project, with
// early termination at the quota. The body is closed on every exit path.
func (p *Provider) fetchAndParse(ctx context.Context, maxn int, tail bool) ([]model.Item, error) {
	var rangeBytes int64
	if tail {
		rangeBytes = p.tailBytes
	}

	status, body, err := p.transport.Open(ctx, p.url, rangeBytes)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	p.stats.LastStatus = status
	if status != http.StatusOK && status != http.StatusPartialContent {
		return nil, fmt.Errorf("unexpected status %d", status)
	}

	now := p.now()
	ofs := localOffsetSeconds(now, p.loc)
	nowUTC := now.Unix()

	quota := maxn
	if p.quota < quota {
		quota = p.quota
	}

	acc := accumulator{loc: p.loc}
	lr := NewLineReader(body)
	var items []model.Item

	for {
		ln, ok := lr.Next()
		if !ok {
			break
		}
		p.stats.Lines++

		ev, done := acc.feed(ln)
		if !done {
			continue
		}
		if !spansToday(ev.start, ev.end, nowUTC, ofs) {
			acc.rejected++
			continue
		}
		items = append(items, projectItem(ev, ofs))
		if len(items) >= quota {
			break
		}
	}

	p.stats.EventsSeen += acc.seen
	p.stats.EventsAccepted += len(items)
	p.stats.EventsDropped += acc.rejected

	mode := "full"
	if tail {
		mode = "tail"
	}
	appLog.Debug("calendar fetch completed",
		"url", redactURL(p.url),
		"mode", mode,
		"status", status,
		"events_seen", acc.seen,
		"items", len(items),
	)
	return items, nil
}
