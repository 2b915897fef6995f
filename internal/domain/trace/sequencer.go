package trace

import "sort"

// Sequence returns the events sorted ascending by event date. Events on the
// same date keep their original record order (Seq), so repeated runs over
// the same history are deterministic. The input slice is not modified.
func Sequence(events []Event) []Event {
	ordered := make([]Event, len(events))
	copy(ordered, events)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Seq < ordered[j].Seq
		}
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}

// CounterViolations walks adjacent pairs of an already-sequenced history and
// flags every pair where the later event's cumulative hours or cycles is
// strictly lower than the last recorded value. Events without a counter
// snapshot are skipped for that counter. Violations are surfaced to the rule
// engine, never silently corrected.
func CounterViolations(sequenced []Event) []CounterViolation {
	var out []CounterViolation

	var lastHours *float64
	var lastHoursRef string
	var lastCycles *int
	var lastCyclesRef string

	for _, ev := range sequenced {
		violation := CounterViolation{LaterRef: ev.ID}
		flagged := false

		if ev.Hours != nil {
			if lastHours != nil && *ev.Hours < *lastHours {
				violation.Hours = true
				violation.EarlierRef = lastHoursRef
				flagged = true
			}
			lastHours = ev.Hours
			lastHoursRef = ev.ID
		}

		if ev.Cycles != nil {
			if lastCycles != nil && *ev.Cycles < *lastCycles {
				violation.Cycles = true
				if violation.EarlierRef == "" {
					violation.EarlierRef = lastCyclesRef
				}
				flagged = true
			}
			lastCycles = ev.Cycles
			lastCyclesRef = ev.ID
		}

		if flagged {
			out = append(out, violation)
		}
	}
	return out
}
