package retention

import (
	"sort"
	"time"

	"github.com/raoulx24/backup-rotator/internal/backup"
)

// Tier identifies the rule that kept an entry.
type Tier int

const (
	TierAll Tier = iota + 1
	TierDaily
	TierWeekly
	TierMonthly
)

func (t Tier) String() string {
	switch t {
	case TierAll:
		return "all"
	case TierDaily:
		return "daily"
	case TierWeekly:
		return "weekly"
	case TierMonthly:
		return "monthly"
	default:
		return "unknown"
	}
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Thresholds are the tier limits in days. Callers must ensure
// 0 <= KeepAll <= KeepDaily <= KeepWeekly; out-of-order values only
// shrink the affected tiers to empty ranges.
type Thresholds struct {
	KeepAll    int `json:"keep_all"`
	KeepDaily  int `json:"keep_daily"`
	KeepWeekly int `json:"keep_weekly"`
}

// Boundaries are the instants delimiting the tiers for a given now.
type Boundaries struct {
	All    time.Time
	Daily  time.Time
	Weekly time.Time
}

// BoundariesAt computes the tier boundaries relative to now: the same
// wall-clock time N calendar days earlier in now's location, so a DST
// change inside the window does not shift them by an hour.
func (t Thresholds) BoundariesAt(now time.Time) Boundaries {
	return Boundaries{
		All:    now.AddDate(0, 0, -t.KeepAll),
		Daily:  now.AddDate(0, 0, -t.KeepDaily),
		Weekly: now.AddDate(0, 0, -t.KeepWeekly),
	}
}

// Decision records an entry that is kept and the first tier that claimed it.
type Decision struct {
	Entry backup.Entry `json:"entry"`
	Tier  Tier         `json:"tier"`
}

// Result partitions a catalog. Both slices follow catalog order.
type Result struct {
	Keep   []Decision
	Delete []backup.Entry
}

// Classify splits catalog into entries to keep and entries to delete.
//
// Entries at or after the keep-all boundary are always kept. Older entries
// are grouped into day, week (Monday start) and month buckets; the newest
// entry of each day bucket in [daily, all), of each week bucket in
// [weekly, daily) and of each month bucket before weekly is kept. Range
// tests use the bucket's start at midnight, not the member timestamps.
// Classify does not read the clock and does not modify catalog.
func Classify(catalog backup.Catalog, th Thresholds, now time.Time) Result {
	b := th.BoundariesAt(now)

	kept := make(map[string]Tier, len(catalog))
	claim := func(e backup.Entry, tier Tier) {
		if _, ok := kept[e.Path]; !ok {
			kept[e.Path] = tier
		}
	}

	days := buckets{}
	weeks := buckets{}
	months := buckets{}

	for _, e := range catalog {
		if !e.Timestamp.Before(b.All) {
			claim(e, TierAll)
			continue
		}
		days.add(dayStart(e.Timestamp), e)
		weeks.add(weekStart(e.Timestamp), e)
		months.add(monthStart(e.Timestamp), e)
	}

	for _, d := range days.ordered() {
		if !d.start.Before(b.Daily) && d.start.Before(b.All) {
			claim(d.newest(), TierDaily)
		}
	}

	for _, w := range weeks.ordered() {
		if !w.start.Before(b.Weekly) && w.start.Before(b.Daily) {
			claim(w.newest(), TierWeekly)
		}
	}

	for _, m := range months.ordered() {
		if m.start.Before(b.Weekly) {
			claim(m.newest(), TierMonthly)
		}
	}

	res := Result{Keep: []Decision{}, Delete: []backup.Entry{}}
	for _, e := range catalog {
		if tier, ok := kept[e.Path]; ok {
			res.Keep = append(res.Keep, Decision{Entry: e, Tier: tier})
		} else {
			res.Delete = append(res.Delete, e)
		}
	}
	return res
}

// bucket is one day, week or month worth of entries.
type bucket struct {
	start   time.Time // midnight at the start of the period
	members []backup.Entry
}

// newest returns the latest entry in the bucket, preferring the earliest
// discovered one when timestamps are equal.
func (b *bucket) newest() backup.Entry {
	best := b.members[0]
	for _, e := range b.members[1:] {
		if e.Timestamp.After(best.Timestamp) ||
			(e.Timestamp.Equal(best.Timestamp) && e.Seq < best.Seq) {
			best = e
		}
	}
	return best
}

type dateKey struct {
	year  int
	month time.Month
	day   int
}

// buckets groups entries by the calendar date their period starts on.
type buckets map[dateKey]*bucket

func (bs buckets) add(start time.Time, e backup.Entry) {
	y, m, d := start.Date()
	k := dateKey{y, m, d}
	b, ok := bs[k]
	if !ok {
		b = &bucket{start: start}
		bs[k] = b
	}
	b.members = append(b.members, e)
}

// ordered returns the buckets newest first.
func (bs buckets) ordered() []*bucket {
	out := make([]*bucket, 0, len(bs))
	for _, b := range bs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start.After(out[j].start) })
	return out
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func weekStart(t time.Time) time.Time {
	sinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, t.Location())
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
