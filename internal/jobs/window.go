package jobs

import (
	"fmt"
	"time"
)

const (
	// How long after the scheduled dose time a reminder stays sendable.
	trailingWindow = 2 * time.Hour
	// Minimum spacing between reminders for the same medication. Shared
	// by both slots: one cooldown clock per medication.
	reminderCooldown = 14 * time.Minute
)

// slotTarget interprets an "HH:MM" wall-clock string as an absolute
// instant on now's calendar date in loc. Using the location directly
// keeps DST transitions correct at the window boundaries.
func slotTarget(now time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	var hour, min int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &hour, &min); err != nil {
		return time.Time{}, fmt.Errorf("invalid slot time %q: %v", hhmm, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return time.Time{}, fmt.Errorf("invalid slot time %q", hhmm)
	}

	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, hour, min, 0, 0, loc), nil
}

// sameLocalDay reports whether a and b fall on the same calendar date
// in loc.
func sameLocalDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// slotCheck is the result of evaluating one dose slot at one instant.
type slotCheck struct {
	Started         bool
	Expired         bool
	TakenToday      bool
	RecentlyAlerted bool
}

// ShouldSend reports whether a reminder for the slot is due right now.
func (c slotCheck) ShouldSend() bool {
	return c.Started && !c.Expired && !c.TakenToday && !c.RecentlyAlerted
}

// checkSlot evaluates one slot: the reminder window opens reminderMinutes
// before the target and closes two hours after it; a dose marked taken on
// the target's local date suppresses the slot for the day; a reminder
// sent within the cooldown suppresses both slots.
func checkSlot(now, target time.Time, reminderMinutes int, takenAt, lastReminderAt *time.Time, loc *time.Location) slotCheck {
	windowStart := target.Add(-time.Duration(reminderMinutes) * time.Minute)
	windowEnd := target.Add(trailingWindow)

	check := slotCheck{
		Started: now.After(windowStart),
		Expired: now.After(windowEnd),
	}
	if takenAt != nil {
		check.TakenToday = sameLocalDay(*takenAt, target, loc)
	}
	if lastReminderAt != nil {
		check.RecentlyAlerted = !now.Add(-reminderCooldown).After(*lastReminderAt)
	}
	return check
}
