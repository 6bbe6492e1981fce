package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vancouver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Vancouver")
	require.NoError(t, err)
	return loc
}

func localTime(t *testing.T, loc *time.Location, value string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	require.NoError(t, err)
	return parsed
}

func TestSlotTarget(t *testing.T) {
	loc := vancouver(t)
	now := localTime(t, loc, "2026-06-15 12:00")

	target, err := slotTarget(now, "07:30", loc)
	require.NoError(t, err)
	assert.Equal(t, localTime(t, loc, "2026-06-15 07:30"), target)

	// "Today" follows the schedule's zone, not UTC. 23:30 Vancouver on
	// June 15 is already June 16 in UTC.
	lateEvening := localTime(t, loc, "2026-06-15 23:30")
	target, err = slotTarget(lateEvening.UTC(), "07:30", loc)
	require.NoError(t, err)
	assert.Equal(t, localTime(t, loc, "2026-06-15 07:30"), target)
}

func TestSlotTargetMalformed(t *testing.T) {
	loc := vancouver(t)
	now := time.Now()

	for _, bad := range []string{"", "7h30", "25:00", "07:61", "-1:10"} {
		_, err := slotTarget(now, bad, loc)
		assert.Error(t, err, "expected error for %q", bad)
	}
}

func TestSlotTargetAcrossDSTTransition(t *testing.T) {
	loc := vancouver(t)

	// DST starts 2026-03-08 in Vancouver: 07:30 local is UTC-8 before
	// and UTC-7 after, so the two targets are 47h apart, not 48h.
	before, err := slotTarget(localTime(t, loc, "2026-03-07 12:00"), "07:30", loc)
	require.NoError(t, err)
	after, err := slotTarget(localTime(t, loc, "2026-03-09 12:00"), "07:30", loc)
	require.NoError(t, err)

	assert.Equal(t, 47*time.Hour, after.Sub(before))
	assert.Equal(t, 7, after.In(loc).Hour())
	assert.Equal(t, 30, after.In(loc).Minute())
}

func TestSameLocalDay(t *testing.T) {
	loc := vancouver(t)

	a := localTime(t, loc, "2026-06-15 23:50")
	b := localTime(t, loc, "2026-06-15 00:10")
	assert.True(t, sameLocalDay(a, b, loc))

	// Same UTC day, different Vancouver days.
	c := localTime(t, loc, "2026-06-15 23:50").UTC() // June 16 UTC
	d := localTime(t, loc, "2026-06-16 01:00")
	assert.False(t, sameLocalDay(c, d, loc))
}

func TestCheckSlotWindowBoundaries(t *testing.T) {
	loc := vancouver(t)
	target := localTime(t, loc, "2026-06-15 07:30")
	const lead = 15 // minutes; window opens 07:15, closes 09:30

	cases := []struct {
		name    string
		now     time.Time
		started bool
		expired bool
	}{
		{"before window", localTime(t, loc, "2026-06-15 07:10"), false, false},
		{"exactly window start", localTime(t, loc, "2026-06-15 07:15"), false, false},
		{"inside lead time", localTime(t, loc, "2026-06-15 07:20"), true, false},
		{"at target", localTime(t, loc, "2026-06-15 07:30"), true, false},
		{"inside trailing window", localTime(t, loc, "2026-06-15 09:00"), true, false},
		{"exactly window end", localTime(t, loc, "2026-06-15 09:30"), true, false},
		{"past window end", localTime(t, loc, "2026-06-15 09:35"), true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			check := checkSlot(tc.now, target, lead, nil, nil, loc)
			assert.Equal(t, tc.started, check.Started)
			assert.Equal(t, tc.expired, check.Expired)
			assert.Equal(t, tc.started && !tc.expired, check.ShouldSend())
		})
	}
}

func TestCheckSlotTakenToday(t *testing.T) {
	loc := vancouver(t)
	target := localTime(t, loc, "2026-06-15 07:30")
	now := localTime(t, loc, "2026-06-15 07:30")

	takenToday := localTime(t, loc, "2026-06-15 07:25")
	check := checkSlot(now, target, 15, &takenToday, nil, loc)
	assert.True(t, check.TakenToday)
	assert.False(t, check.ShouldSend())

	// A stale marker from yesterday does not count.
	takenYesterday := localTime(t, loc, "2026-06-14 07:25")
	check = checkSlot(now, target, 15, &takenYesterday, nil, loc)
	assert.False(t, check.TakenToday)
	assert.True(t, check.ShouldSend())
}

func TestCheckSlotCooldown(t *testing.T) {
	loc := vancouver(t)
	target := localTime(t, loc, "2026-06-15 07:30")
	now := localTime(t, loc, "2026-06-15 07:30")

	cases := []struct {
		name       string
		sentAgo    time.Duration
		suppressed bool
	}{
		{"sent 5 minutes ago", 5 * time.Minute, true},
		{"sent exactly 14 minutes ago", 14 * time.Minute, true},
		{"sent just over 14 minutes ago", 14*time.Minute + time.Second, false},
		{"sent an hour ago", time.Hour, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			last := now.Add(-tc.sentAgo)
			check := checkSlot(now, target, 15, nil, &last, loc)
			assert.Equal(t, tc.suppressed, check.RecentlyAlerted)
			assert.Equal(t, !tc.suppressed, check.ShouldSend())
		})
	}
}
