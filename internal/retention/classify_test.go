package retention

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/raoulx24/backup-rotator/internal/backup"
)

const day = 24 * time.Hour

// 2025-09-17 is a Wednesday.
var testNow = time.Date(2025, 9, 17, 12, 0, 0, 0, time.UTC)

func entry(name string, ts time.Time, seq int) backup.Entry {
	return backup.Entry{Path: "/backups/" + name, Name: name, Timestamp: ts, Seq: seq}
}

// dailyCatalog returns one backup per day at 10:00, newest first, for n days ending at now.
func dailyCatalog(now time.Time, n int) backup.Catalog {
	var c backup.Catalog
	for i := 0; i < n; i++ {
		ts := time.Date(now.Year(), now.Month(), now.Day()-i, 10, 0, 0, 0, now.Location())
		c = append(c, entry(fmt.Sprintf("db-%s.sql.bz2", ts.Format("20060102-150405")), ts, i))
	}
	return c
}

func keptNames(res Result) map[string]Tier {
	out := make(map[string]Tier, len(res.Keep))
	for _, d := range res.Keep {
		out[d.Entry.Name] = d.Tier
	}
	return out
}

func TestClassify_FortyDailyBackups(t *testing.T) {
	catalog := dailyCatalog(testNow, 40)

	res := Classify(catalog, Thresholds{KeepAll: 1, KeepDaily: 7, KeepWeekly: 30}, testNow)

	want := map[string]Tier{
		"db-20250917-100000.sql.bz2": TierAll,
		"db-20250916-100000.sql.bz2": TierDaily,
		"db-20250915-100000.sql.bz2": TierDaily,
		"db-20250914-100000.sql.bz2": TierDaily,
		"db-20250913-100000.sql.bz2": TierDaily,
		"db-20250912-100000.sql.bz2": TierDaily,
		"db-20250911-100000.sql.bz2": TierDaily,
		// week of Mon 09-01
		"db-20250907-100000.sql.bz2": TierWeekly,
		// week of Mon 08-25; also the newest of August
		"db-20250831-100000.sql.bz2": TierWeekly,
	}

	got := keptNames(res)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("kept = %v\nwant %v", got, want)
	}
	if len(res.Delete) != 40-len(want) {
		t.Errorf("deleted %d files, want %d", len(res.Delete), 40-len(want))
	}
}

func TestClassify_DegenerateZeroThresholds(t *testing.T) {
	catalog := dailyCatalog(testNow, 40)

	res := Classify(catalog, Thresholds{}, testNow)

	want := map[string]Tier{
		"db-20250917-100000.sql.bz2": TierMonthly,
		"db-20250831-100000.sql.bz2": TierMonthly,
	}
	if got := keptNames(res); !reflect.DeepEqual(got, want) {
		t.Errorf("kept = %v, want %v", got, want)
	}
}

func TestClassify_KeepAllIncludesFutureAndBoundary(t *testing.T) {
	th := Thresholds{KeepAll: 1, KeepDaily: 7, KeepWeekly: 30}
	catalog := backup.Catalog{
		entry("future.sql", testNow.Add(time.Hour), 0),
		entry("exactly-at-boundary.sql", testNow.Add(-24*time.Hour), 1),
		entry("just-before-boundary.sql", testNow.Add(-24*time.Hour-time.Second), 2),
	}

	got := keptNames(Classify(catalog, th, testNow))

	if got["future.sql"] != TierAll {
		t.Errorf("future.sql tier = %v, want all", got["future.sql"])
	}
	if got["exactly-at-boundary.sql"] != TierAll {
		t.Errorf("exactly-at-boundary.sql tier = %v, want all", got["exactly-at-boundary.sql"])
	}
	// its day bucket (09-16 00:00) lies in [daily, all), so it survives as the day's newest
	if got["just-before-boundary.sql"] != TierDaily {
		t.Errorf("just-before-boundary.sql tier = %v, want daily", got["just-before-boundary.sql"])
	}
}

func TestClassify_KeepAllAcrossDSTChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("time zone data unavailable: %v", err)
	}

	// clocks went back from 03:00 CEST to 02:00 CET on 2025-10-26
	now := time.Date(2025, 10, 27, 0, 30, 0, 0, berlin)
	th := Thresholds{KeepAll: 1, KeepDaily: 7, KeepWeekly: 30}

	b := th.BoundariesAt(now)
	if want := time.Date(2025, 10, 26, 0, 30, 0, 0, berlin); !b.All.Equal(want) {
		t.Errorf("All = %v, want %v", b.All, want)
	}
	if want := time.Date(2025, 10, 20, 0, 30, 0, 0, berlin); !b.Daily.Equal(want) {
		t.Errorf("Daily = %v, want %v", b.Daily, want)
	}

	catalog := backup.Catalog{
		entry("late", time.Date(2025, 10, 26, 1, 20, 0, 0, berlin), 0),
		entry("early", time.Date(2025, 10, 26, 1, 0, 0, 0, berlin), 1),
	}

	res := Classify(catalog, th, now)

	want := map[string]Tier{"late": TierAll, "early": TierAll}
	if got := keptNames(res); !reflect.DeepEqual(got, want) {
		t.Errorf("kept = %v, want %v", got, want)
	}
	if len(res.Delete) != 0 {
		t.Errorf("Delete = %v, want none", res.Delete)
	}
}

func TestClassify_NewestPerDay(t *testing.T) {
	th := Thresholds{KeepAll: 1, KeepDaily: 7, KeepWeekly: 30}
	d := time.Date(2025, 9, 13, 0, 0, 0, 0, time.UTC)
	catalog := backup.Catalog{
		entry("evening.sql", d.Add(22*time.Hour), 0),
		entry("noon.sql", d.Add(12*time.Hour), 1),
		entry("morning.sql", d.Add(6*time.Hour), 2),
	}

	res := Classify(catalog, th, testNow)

	if got := keptNames(res); !reflect.DeepEqual(got, map[string]Tier{"evening.sql": TierDaily}) {
		t.Errorf("kept = %v, want only evening.sql", got)
	}
	if len(res.Delete) != 2 {
		t.Errorf("deleted %d files, want 2", len(res.Delete))
	}
}

func TestClassify_TieBreaksOnDiscoveryOrder(t *testing.T) {
	th := Thresholds{KeepAll: 1, KeepDaily: 7, KeepWeekly: 30}
	ts := time.Date(2025, 9, 13, 8, 0, 0, 0, time.UTC)

	// listed out of Seq order to make sure order in the slice does not matter
	catalog := backup.Catalog{
		entry("b.sql", ts, 1),
		entry("c.sql", ts, 2),
		entry("a.sql", ts, 0),
	}

	got := keptNames(Classify(catalog, th, testNow))
	if !reflect.DeepEqual(got, map[string]Tier{"a.sql": TierDaily}) {
		t.Errorf("kept = %v, want only a.sql", got)
	}
}

func TestClassify_WeekStraddlingDailyBoundary(t *testing.T) {
	// now Wed 09-17 12:00, daily boundary Wed 09-10 12:00. The week of Mon
	// 09-08 starts before the boundary, its newest member (Fri 09-12) is
	// already kept by the daily tier and must be reported once, as daily.
	th := Thresholds{KeepAll: 1, KeepDaily: 7, KeepWeekly: 30}
	catalog := backup.Catalog{
		entry("fri.sql", time.Date(2025, 9, 12, 9, 0, 0, 0, time.UTC), 0),
		entry("tue.sql", time.Date(2025, 9, 9, 9, 0, 0, 0, time.UTC), 1),
		entry("mon.sql", time.Date(2025, 9, 8, 9, 0, 0, 0, time.UTC), 2),
	}

	res := Classify(catalog, th, testNow)

	want := map[string]Tier{"fri.sql": TierDaily}
	if got := keptNames(res); !reflect.DeepEqual(got, want) {
		t.Errorf("kept = %v, want %v", got, want)
	}
	if len(res.Keep) != 1 {
		t.Errorf("fri.sql reported %d times", len(res.Keep))
	}
}

func TestClassify_MonthlyUsesMonthStart(t *testing.T) {
	// weekly boundary is 08-18 12:00; aug-20's week starts at 08-18 00:00,
	// just outside the weekly range, so only its month bucket can keep it
	th := Thresholds{KeepAll: 1, KeepDaily: 7, KeepWeekly: 30}
	catalog := backup.Catalog{
		entry("aug-20.sql", time.Date(2025, 8, 20, 1, 0, 0, 0, time.UTC), 0),
		entry("aug-05.sql", time.Date(2025, 8, 5, 1, 0, 0, 0, time.UTC), 1),
		entry("jul-31.sql", time.Date(2025, 7, 31, 1, 0, 0, 0, time.UTC), 2),
		entry("jul-01.sql", time.Date(2025, 7, 1, 1, 0, 0, 0, time.UTC), 3),
	}

	got := keptNames(Classify(catalog, th, testNow))

	want := map[string]Tier{
		"aug-20.sql": TierMonthly,
		"jul-31.sql": TierMonthly,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("kept = %v, want %v", got, want)
	}
}

func TestClassify_Empty(t *testing.T) {
	res := Classify(nil, Thresholds{KeepAll: 1, KeepDaily: 7, KeepWeekly: 30}, testNow)
	if len(res.Keep) != 0 || len(res.Delete) != 0 {
		t.Errorf("Classify(nil) = %+v, want empty", res)
	}
}

func randomCatalog(r *rand.Rand, now time.Time) backup.Catalog {
	n := r.Intn(200)
	c := make(backup.Catalog, 0, n)
	for i := 0; i < n; i++ {
		age := time.Duration(r.Int63n(int64(400 * day)))
		// occasional duplicates of an earlier timestamp
		ts := now.Add(-age).Truncate(time.Minute)
		if i > 0 && r.Intn(10) == 0 {
			ts = c[r.Intn(i)].Timestamp
		}
		c = append(c, entry(fmt.Sprintf("f%03d.sql", i), ts, i))
	}
	return c
}

func TestClassify_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	thresholds := []Thresholds{
		{0, 0, 0},
		{1, 7, 30},
		{2, 14, 60},
		{0, 3, 3},
		{5, 5, 90},
		{7, 7, 7},
	}

	for iter := 0; iter < 50; iter++ {
		catalog := randomCatalog(r, testNow)
		for _, th := range thresholds {
			res := Classify(catalog, th, testNow)

			// partition
			seen := make(map[string]int)
			for _, d := range res.Keep {
				seen[d.Entry.Path]++
			}
			for _, e := range res.Delete {
				seen[e.Path]++
			}
			if len(seen) != len(catalog) {
				t.Fatalf("%+v: %d distinct entries classified, catalog has %d", th, len(seen), len(catalog))
			}
			for path, n := range seen {
				if n != 1 {
					t.Fatalf("%+v: %s classified %d times", th, path, n)
				}
			}

			// idempotence
			if again := Classify(catalog, th, testNow); !reflect.DeepEqual(res, again) {
				t.Fatalf("%+v: classification is not deterministic", th)
			}

			kept := keptNames(res)
			b := th.BoundariesAt(testNow)

			// keep-all monotonicity
			for _, e := range catalog {
				if !e.Timestamp.Before(b.All) {
					if _, ok := kept[e.Name]; !ok {
						t.Fatalf("%+v: %s is inside keep-all window but deleted", th, e.Name)
					}
				}
			}

			// one per day inside the daily window, and it is the newest
			byDay := make(map[time.Time][]backup.Entry)
			for _, e := range catalog {
				if e.Timestamp.Before(b.All) {
					byDay[dayStart(e.Timestamp)] = append(byDay[dayStart(e.Timestamp)], e)
				}
			}
			for start, members := range byDay {
				end := start.Add(day)
				if start.Before(b.Daily) || end.After(b.All) {
					continue
				}
				var keptHere []backup.Entry
				newest := members[0]
				for _, e := range members {
					if _, ok := kept[e.Name]; ok {
						keptHere = append(keptHere, e)
					}
					if e.Timestamp.After(newest.Timestamp) {
						newest = e
					}
				}
				if len(keptHere) != 1 {
					t.Fatalf("%+v: day %s kept %d entries, want 1", th, start, len(keptHere))
				}
				if !keptHere[0].Timestamp.Equal(newest.Timestamp) {
					t.Fatalf("%+v: day %s kept %s, newest is %s", th, start, keptHere[0].Name, newest.Name)
				}
			}

			// degenerate policy keeps at most one per month
			if th == (Thresholds{}) {
				perMonth := make(map[time.Time]int)
				for _, d := range res.Keep {
					if d.Tier != TierAll {
						perMonth[monthStart(d.Entry.Timestamp)]++
					}
				}
				for m, n := range perMonth {
					if n > 1 {
						t.Fatalf("0/0/0: month %s kept %d entries", m, n)
					}
				}
			}
		}
	}
}

func TestBucketStarts(t *testing.T) {
	tests := []struct {
		ts        time.Time
		wantWeek  time.Time
		wantMonth time.Time
	}{
		{
			ts:        time.Date(2025, 9, 17, 23, 59, 0, 0, time.UTC), // Wednesday
			wantWeek:  time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
			wantMonth: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ts:        time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), // Monday
			wantWeek:  time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
			wantMonth: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ts:        time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC), // Sunday, week starts in February
			wantWeek:  time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC),
			wantMonth: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		if got := weekStart(tt.ts); !got.Equal(tt.wantWeek) {
			t.Errorf("weekStart(%v) = %v, want %v", tt.ts, got, tt.wantWeek)
		}
		if got := monthStart(tt.ts); !got.Equal(tt.wantMonth) {
			t.Errorf("monthStart(%v) = %v, want %v", tt.ts, got, tt.wantMonth)
		}
	}
}
