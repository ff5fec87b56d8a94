package service

import "time"

// resourceTimeline tracks booked production intervals per workstation.
// Each booking is appended after the workstation's last booked day, so every
// workstation carries its own serialized schedule while distinct workstations
// run in parallel. With a single workstation this reduces to one shared
// cursor over the generation window.
type resourceTimeline struct {
	windowStart time.Time
	nextFree    map[string]time.Time
}

func newResourceTimeline(windowStart time.Time) *resourceTimeline {
	return &resourceTimeline{
		windowStart: truncateToDay(windowStart),
		nextFree:    make(map[string]time.Time),
	}
}

// book reserves days consecutive days on the workstation starting at its next
// free day (never before the window start) and returns the inclusive
// [start, end] interval.
func (t *resourceTimeline) book(workstationID string, days int) (start, end time.Time) {
	start = t.windowStart
	if free, ok := t.nextFree[workstationID]; ok && free.After(start) {
		start = free
	}
	end = start.AddDate(0, 0, days-1)
	t.nextFree[workstationID] = end.AddDate(0, 0, 1)
	return start, end
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// intervalsOverlap reports whether two inclusive day ranges intersect.
func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
