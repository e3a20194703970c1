package schedule

import (
	"iter"
	"slices"
	"time"
)

const DefaultSlotStep = 15 * time.Minute

// SlotRequest describes one day of candidate generation. Day may be any instant
// on the target calendar date in the business location.
type SlotRequest struct {
	Day      time.Time
	Window   DayWindow
	Duration time.Duration
	Step     time.Duration
	Busy     []Interval
	Now      time.Time
}

// GenerateSlots yields free [start, start+Duration) intervals in ascending
// order. Candidates start on Step boundaries from the window open and must end
// by the window close. Starts at or before Now are skipped. The sequence can be
// ranged over more than once.
func GenerateSlots(req SlotRequest) iter.Seq[Interval] {
	busy := slices.Clone(req.Busy)
	step := req.Step
	if step <= 0 {
		step = DefaultSlotStep
	}

	return func(yield func(Interval) bool) {
		if !req.Window.Available || req.Duration <= 0 {
			return
		}
		open := req.Window.On(req.Day)

		for start := open.Start; !start.Add(req.Duration).After(open.End); start = start.Add(step) {
			if !start.After(req.Now) {
				continue
			}
			candidate := Interval{Start: start, End: start.Add(req.Duration)}
			if OverlapsAny(candidate, busy) {
				continue
			}
			if !yield(candidate) {
				return
			}
		}
	}
}
