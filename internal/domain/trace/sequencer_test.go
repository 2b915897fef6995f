package trace

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func hoursPtr(v float64) *float64 { return &v }
func cyclesPtr(v int) *int        { return &v }

func TestSequenceOrdersByDate(t *testing.T) {
	events := []Event{
		{ID: "e3", Seq: 3, Date: day(2022, time.March, 1)},
		{ID: "e1", Seq: 1, Date: day(2020, time.January, 5)},
		{ID: "e2", Seq: 2, Date: day(2021, time.June, 10)},
	}

	got := Sequence(events)
	if len(got) != 3 {
		t.Fatalf("Sequence() len = %d", len(got))
	}
	if got[0].ID != "e1" || got[1].ID != "e2" || got[2].ID != "e3" {
		t.Fatalf("Sequence() order = %s,%s,%s", got[0].ID, got[1].ID, got[2].ID)
	}
	if events[0].ID != "e3" {
		t.Fatalf("Sequence() mutated input, events[0] = %s", events[0].ID)
	}
}

func TestSequenceStableTieBreak(t *testing.T) {
	same := day(2023, time.May, 2)
	events := []Event{
		{ID: "b", Seq: 2, Date: same},
		{ID: "a", Seq: 1, Date: same},
		{ID: "c", Seq: 3, Date: same},
	}

	got := Sequence(events)
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("Sequence() tie-break order = %s,%s,%s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestCounterViolationsFlagsBackwardsHours(t *testing.T) {
	events := Sequence([]Event{
		{ID: "e1", Seq: 1, Date: day(2021, time.January, 1), Hours: hoursPtr(1000)},
		{ID: "e2", Seq: 2, Date: day(2021, time.June, 1), Hours: hoursPtr(800)},
	})

	got := CounterViolations(events)
	if len(got) != 1 {
		t.Fatalf("CounterViolations() len = %d", len(got))
	}
	if !got[0].Hours || got[0].Cycles {
		t.Fatalf("CounterViolations() = %#v, want hours-only violation", got[0])
	}
	if got[0].EarlierRef != "e1" || got[0].LaterRef != "e2" {
		t.Fatalf("CounterViolations() refs = %s -> %s", got[0].EarlierRef, got[0].LaterRef)
	}
}

func TestCounterViolationsSkipsMissingSnapshots(t *testing.T) {
	events := Sequence([]Event{
		{ID: "e1", Seq: 1, Date: day(2021, time.January, 1), Hours: hoursPtr(1000), Cycles: cyclesPtr(500)},
		{ID: "e2", Seq: 2, Date: day(2021, time.March, 1)},
		{ID: "e3", Seq: 3, Date: day(2021, time.June, 1), Hours: hoursPtr(1200), Cycles: cyclesPtr(550)},
	})

	if got := CounterViolations(events); len(got) != 0 {
		t.Fatalf("CounterViolations() = %#v, want none", got)
	}
}

func TestCounterViolationsMonotonicHistoryClean(t *testing.T) {
	events := Sequence([]Event{
		{ID: "e1", Seq: 1, Date: day(2021, time.January, 1), Hours: hoursPtr(100), Cycles: cyclesPtr(50)},
		{ID: "e2", Seq: 2, Date: day(2021, time.June, 1), Hours: hoursPtr(100), Cycles: cyclesPtr(50)},
		{ID: "e3", Seq: 3, Date: day(2022, time.January, 1), Hours: hoursPtr(340), Cycles: cyclesPtr(91)},
	})

	if got := CounterViolations(events); len(got) != 0 {
		t.Fatalf("CounterViolations() = %#v, want none for non-decreasing counters", got)
	}
}
