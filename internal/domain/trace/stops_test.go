package trace

import (
	"testing"
	"time"
)

func TestParseFacilityName(t *testing.T) {
	cases := []struct {
		full     string
		display  string
		location string
	}{
		{"Collins Aerospace — Wheels & Brakes Division", "Collins Aerospace", ""},
		{"Lufthansa Technik, Hamburg", "Lufthansa Technik", "Hamburg"},
		{"Delta ATL TechOps", "Delta TechOps", "ATL"},
		{"AAR MIA MRO", "AAR MRO", "MIA"},
		{"Safran Landing Systems", "Safran Landing Systems", ""},
		{"", "Unknown", ""},
	}

	for _, tc := range cases {
		display, location := ParseFacilityName(tc.full)
		if display != tc.display || location != tc.location {
			t.Fatalf("ParseFacilityName(%q) = %q/%q, want %q/%q", tc.full, display, location, tc.display, tc.location)
		}
	}
}

func TestBuildStopsMergesConsecutiveFacilityEvents(t *testing.T) {
	events := Sequence([]Event{
		{ID: "e1", Seq: 1, Type: EventManufacture, Date: day(2021, time.January, 1), FacilityName: "Safran, Toulouse"},
		{ID: "e2", Seq: 2, Type: EventFunctionalTest, Date: day(2021, time.January, 3), FacilityName: "Safran, Toulouse"},
		{ID: "e3", Seq: 3, Type: EventTransfer, Date: day(2021, time.January, 10), FacilityName: "AerParts Global"},
		{ID: "e4", Seq: 4, Type: EventReceivingInspection, Date: day(2021, time.January, 20), FacilityName: "Safran, Toulouse"},
	})

	stops := BuildStops(events, nil, StatusServiceable)
	if len(stops) != 3 {
		t.Fatalf("BuildStops() len = %d", len(stops))
	}
	if len(stops[0].Events) != 2 {
		t.Fatalf("BuildStops() first stop events = %d", len(stops[0].Events))
	}
	if stops[0].DisplayName != "Safran" || stops[0].Location != "Toulouse" {
		t.Fatalf("BuildStops() first stop = %q/%q", stops[0].DisplayName, stops[0].Location)
	}
	if !stops[0].EndDate.Equal(day(2021, time.January, 3)) {
		t.Fatalf("BuildStops() first stop end = %s", stops[0].EndDate)
	}
	// Same facility again after a detour starts a new stop.
	if stops[2].Facility != "Safran, Toulouse" {
		t.Fatalf("BuildStops() third stop facility = %q", stops[2].Facility)
	}
}

func TestActivityLabelPrecedence(t *testing.T) {
	cases := []struct {
		name  string
		types []EventType
		want  string
	}{
		{"manufacture wins", []EventType{EventManufacture, EventFunctionalTest}, "MFG"},
		{"overhaul", []EventType{EventReceivingInspection, EventTeardown, EventRepair}, "OH"},
		{"inspection alone", []EventType{EventReceivingInspection}, "INSP"},
		{"install", []EventType{EventInstall, EventFunctionalTest}, "SVC"},
		{"transfer", []EventType{EventTransfer}, "DIST"},
		{"release", []EventType{EventReleaseToService}, "RTS"},
		{"remove", []EventType{EventRemove}, "RMV"},
		{"retire", []EventType{EventRetire}, "RTR"},
		{"fallback", []EventType{EventDetailedInspection}, "SVC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			events := make([]Event, 0, len(tc.types))
			for i, typ := range tc.types {
				events = append(events, Event{ID: "e", Seq: uint64(i), Type: typ})
			}
			if got := activityLabel(events, false); got != tc.want {
				t.Fatalf("activityLabel() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTerminalStatusLabelsFinalStop(t *testing.T) {
	events := Sequence([]Event{
		{ID: "e1", Seq: 1, Type: EventManufacture, Date: day(2019, time.January, 1), FacilityName: "Safran, Toulouse"},
		{ID: "e2", Seq: 2, Type: EventDetailedInspection, Date: day(2019, time.January, 15), FacilityName: "AAR MIA MRO"},
	})

	stops := BuildStops(events, nil, StatusScrapped)
	if stops[1].Activity != "RTR" {
		t.Fatalf("BuildStops() final stop activity = %q, want RTR for scrapped component", stops[1].Activity)
	}
	// Earlier stops and explicit event types keep their own labels.
	if stops[0].Activity != "MFG" {
		t.Fatalf("BuildStops() first stop activity = %q", stops[0].Activity)
	}

	stops = BuildStops(events, nil, StatusServiceable)
	if stops[1].Activity != "SVC" {
		t.Fatalf("BuildStops() final stop activity = %q, want SVC fallback", stops[1].Activity)
	}
}

func TestTrustClassificationChain(t *testing.T) {
	base := day(2022, time.April, 1)
	cases := []struct {
		name  string
		event Event
		want  Trust
	}{
		{
			name:  "verified with work order and hash",
			event: Event{ID: "e", Date: base, WorkOrderRef: "WO-1", IntegrityHash: "abc"},
			want:  TrustVerified,
		},
		{
			name:  "verified with certification and hash",
			event: Event{ID: "e", Date: base, Certification: "FAA 145", IntegrityHash: "abc"},
			want:  TrustVerified,
		},
		{
			name:  "partial with work order only",
			event: Event{ID: "e", Date: base, WorkOrderRef: "WO-1"},
			want:  TrustPartial,
		},
		{
			name:  "partial with evidence only",
			event: Event{ID: "e", Date: base, Evidence: []Evidence{{Type: EvidencePhoto}}},
			want:  TrustPartial,
		},
		{
			name:  "unknown without anything",
			event: Event{ID: "e", Date: base},
			want:  TrustUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.event.FacilityName = "AAR MIA MRO"
			stops := BuildStops([]Event{tc.event}, nil, StatusServiceable)
			if len(stops) != 1 {
				t.Fatalf("BuildStops() len = %d", len(stops))
			}
			if stops[0].Trust != tc.want {
				t.Fatalf("BuildStops() trust = %s, want %s", stops[0].Trust, tc.want)
			}
		})
	}
}

func TestTrustGapOverridesVerified(t *testing.T) {
	events := Sequence([]Event{
		{ID: "mfg", Seq: 1, Type: EventManufacture, Date: day(2019, time.January, 1), FacilityName: "Collins Aerospace, Cedar Rapids"},
		{
			ID: "insp", Seq: 2, Type: EventReceivingInspection, Date: day(2020, time.March, 1),
			FacilityName: "Delta ATL TechOps", WorkOrderRef: "WO-9", Certification: "FAA 145", IntegrityHash: "deadbeef",
		},
	})
	gaps := DetectGaps(events, DefaultGapConfig())
	if len(gaps) != 1 {
		t.Fatalf("DetectGaps() len = %d", len(gaps))
	}

	stops := BuildStops(events, gaps, StatusServiceable)
	if len(stops) != 2 {
		t.Fatalf("BuildStops() len = %d", len(stops))
	}
	if stops[1].Trust != TrustGap {
		t.Fatalf("BuildStops() trust = %s, want gap override", stops[1].Trust)
	}
	if stops[1].PrecedingGap == nil || stops[1].PrecedingGap.Days != gaps[0].Days {
		t.Fatalf("BuildStops() preceding gap = %+v", stops[1].PrecedingGap)
	}
}

func TestTrustGapOverridesVerifiedIntraDayTimes(t *testing.T) {
	events := Sequence([]Event{
		{
			ID: "mfg", Seq: 1, Type: EventManufacture,
			Date:         time.Date(2019, time.January, 1, 18, 0, 0, 0, time.UTC),
			FacilityName: "Collins Aerospace, Cedar Rapids",
		},
		{
			ID: "insp", Seq: 2, Type: EventReceivingInspection,
			Date:         time.Date(2020, time.March, 1, 6, 0, 0, 0, time.UTC),
			FacilityName: "Delta ATL TechOps", WorkOrderRef: "WO-9", IntegrityHash: "deadbeef",
		},
	})
	gaps := DetectGaps(events, DefaultGapConfig())
	if len(gaps) != 1 {
		t.Fatalf("DetectGaps() len = %d", len(gaps))
	}

	// The truncated day count puts the reconstructed end on the previous
	// calendar day; matching must go through the closing event instead.
	stops := BuildStops(events, gaps, StatusInstalled)
	if len(stops) != 2 {
		t.Fatalf("BuildStops() len = %d", len(stops))
	}
	if stops[1].Trust != TrustGap {
		t.Fatalf("BuildStops() trust = %s, want gap override", stops[1].Trust)
	}
	if stops[1].PrecedingGap == nil || stops[1].PrecedingGap.EndEventID != "insp" {
		t.Fatalf("BuildStops() preceding gap = %+v", stops[1].PrecedingGap)
	}
}

func TestBuildStopsDeterministic(t *testing.T) {
	events := Sequence([]Event{
		{ID: "e1", Seq: 1, Type: EventManufacture, Date: day(2021, time.January, 1), FacilityName: "Safran, Toulouse"},
		{ID: "e2", Seq: 2, Type: EventTransfer, Date: day(2021, time.June, 1), FacilityName: "AerParts Global"},
	})
	gaps := DetectGaps(events, DefaultGapConfig())

	first := BuildStops(events, gaps, StatusServiceable)
	second := BuildStops(events, gaps, StatusServiceable)
	if len(first) != len(second) {
		t.Fatalf("BuildStops() lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Trust != second[i].Trust || first[i].Activity != second[i].Activity {
			t.Fatalf("BuildStops() stop %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
