package trace

import (
	"testing"
	"time"
)

func testComponent() Component {
	return Component{
		ID:              "c1",
		PartNumber:      "3-1539-3",
		SerialNumber:    "SN-4471",
		OEM:             "Collins Aerospace",
		ManufactureDate: day(2019, time.January, 1),
		Status:          StatusServiceable,
	}
}

func testRuleConfig() RuleConfig {
	cfg := DefaultRuleConfig()
	cfg.Now = day(2024, time.June, 1)
	return cfg
}

func findingsOfType(findings []Finding, typ ExceptionType) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

func cleanHistory() []Event {
	return []Event{
		{
			ID: "mfg", Seq: 1, Type: EventManufacture, Date: day(2019, time.January, 1),
			FacilityName: "Collins Aerospace, Cedar Rapids", FacilityType: FacilityOEM,
			Certification: "FAA PC 702", Documents: []Document{birthDoc()},
		},
		{
			ID: "rts", Seq: 2, Type: EventReleaseToService, Date: day(2019, time.January, 20),
			FacilityName: "Collins Aerospace, Cedar Rapids", FacilityType: FacilityOEM,
			Certification: "FAA PC 702",
			Documents:     []Document{{Type: Document8130Dash3, Status: DocumentApproved, CreatedAt: day(2019, time.January, 20)}},
		},
	}
}

func TestEvaluateCleanHistoryNoFindings(t *testing.T) {
	got := Evaluate(testComponent(), cleanHistory(), testRuleConfig())
	if len(got) != 0 {
		t.Fatalf("Evaluate() = %#v, want no findings", got)
	}
}

func TestEvaluateSerialMismatch(t *testing.T) {
	events := cleanHistory()
	events[1].RecordedSerial = "SN-9999"

	got := findingsOfType(Evaluate(testComponent(), events, testRuleConfig()), ExceptionSerialNumberMismatch)
	if len(got) != 1 {
		t.Fatalf("Evaluate() serial mismatches = %d", len(got))
	}
	if got[0].Severity != SeverityCritical || got[0].EventRef != "rts" {
		t.Fatalf("Evaluate() mismatch = %+v", got[0])
	}
}

func TestEvaluatePartMismatch(t *testing.T) {
	events := cleanHistory()
	events[0].RecordedPart = "9-0000-1"

	got := findingsOfType(Evaluate(testComponent(), events, testRuleConfig()), ExceptionPartNumberMismatch)
	if len(got) != 1 || got[0].Severity != SeverityCritical {
		t.Fatalf("Evaluate() part mismatches = %#v", got)
	}
}

func TestEvaluateHourCountDiscrepancy(t *testing.T) {
	events := cleanHistory()
	events[0].Hours = hoursPtr(1000)
	events[1].Hours = hoursPtr(800)

	got := findingsOfType(Evaluate(testComponent(), events, testRuleConfig()), ExceptionHourCountDiscrepancy)
	if len(got) != 1 {
		t.Fatalf("Evaluate() hour discrepancies = %d, want exactly one", len(got))
	}
	if got[0].Severity != SeverityCritical {
		t.Fatalf("Evaluate() severity = %s", got[0].Severity)
	}
}

func TestEvaluateMissingBirthCertificate(t *testing.T) {
	events := cleanHistory()
	events[0].Documents = nil

	got := findingsOfType(Evaluate(testComponent(), events, testRuleConfig()), ExceptionMissingBirthCert)
	if len(got) != 1 || got[0].Severity != SeverityCritical {
		t.Fatalf("Evaluate() birth cert findings = %#v", got)
	}
}

func TestEvaluateMissingReleaseCertificate(t *testing.T) {
	events := cleanHistory()
	events[1].Documents = []Document{{Type: DocumentWorkOrder, Status: DocumentApproved, CreatedAt: day(2019, time.January, 20)}}

	got := findingsOfType(Evaluate(testComponent(), events, testRuleConfig()), ExceptionMissingReleaseCert)
	if len(got) != 1 || got[0].Severity != SeverityWarning || got[0].EventRef != "rts" {
		t.Fatalf("Evaluate() release cert findings = %#v", got)
	}
}

func TestEvaluateDocumentationGapMirrorsSeverity(t *testing.T) {
	events := cleanHistory()
	events = append(events, Event{
		ID: "insp", Seq: 3, Type: EventReceivingInspection, Date: day(2020, time.March, 1),
		FacilityName: "Delta ATL TechOps", FacilityType: FacilityAirline,
	})

	got := findingsOfType(Evaluate(testComponent(), events, testRuleConfig()), ExceptionDocumentationGap)
	if len(got) != 1 {
		t.Fatalf("Evaluate() gap findings = %d", len(got))
	}
	if got[0].Severity != SeverityCritical {
		t.Fatalf("Evaluate() gap severity = %s, want severity mirrored from gap", got[0].Severity)
	}
}

func TestEvaluateDateInconsistency(t *testing.T) {
	events := cleanHistory()
	events = append(events, Event{
		ID: "early", Seq: 3, Type: EventTransfer, Date: day(2018, time.June, 1),
		FacilityName: "AerParts Global", FacilityType: FacilityBroker,
		Documents: []Document{{Type: DocumentWorkOrder, Status: DocumentApproved, CreatedAt: day(2018, time.June, 1)}},
	})

	got := findingsOfType(Evaluate(testComponent(), events, testRuleConfig()), ExceptionDateInconsistency)
	if len(got) != 1 || got[0].Severity != SeverityCritical || got[0].EventRef != "early" {
		t.Fatalf("Evaluate() date findings = %#v", got)
	}
}

func TestEvaluateDuplicateTimestampDateInconsistency(t *testing.T) {
	events := cleanHistory()
	events[1].Date = events[0].Date

	got := findingsOfType(Evaluate(testComponent(), events, testRuleConfig()), ExceptionDateInconsistency)
	if len(got) != 1 {
		t.Fatalf("Evaluate() date findings = %d, want one for the broken strict order", len(got))
	}
	if got[0].Severity != SeverityCritical || got[0].EventRef != "rts" {
		t.Fatalf("Evaluate() date finding = %+v", got[0])
	}
}

func TestEvaluateUnsignedDocument(t *testing.T) {
	cfg := testRuleConfig()
	events := cleanHistory()
	events[1].Documents = append(events[1].Documents,
		Document{Type: DocumentFindingsReport, Status: DocumentDraft, CreatedAt: day(2024, time.January, 1)})

	got := findingsOfType(Evaluate(testComponent(), events, cfg), ExceptionUnsignedDocument)
	if len(got) != 1 || got[0].Severity != SeverityInfo {
		t.Fatalf("Evaluate() unsigned findings = %#v", got)
	}

	// A fresh draft inside the grace period is not flagged.
	events[1].Documents[len(events[1].Documents)-1].CreatedAt = cfg.Now.AddDate(0, 0, -3)
	if again := findingsOfType(Evaluate(testComponent(), events, cfg), ExceptionUnsignedDocument); len(again) != 0 {
		t.Fatalf("Evaluate() flagged fresh draft: %#v", again)
	}
}

func TestEvaluateMissingFacilityCertificate(t *testing.T) {
	events := cleanHistory()
	events = append(events, Event{
		ID: "rep", Seq: 3, Type: EventRepair, Date: day(2019, time.February, 1),
		FacilityName: "AAR MIA MRO", FacilityType: FacilityMRO,
		Documents: []Document{{Type: DocumentWorkOrder, Status: DocumentApproved, CreatedAt: day(2019, time.February, 1)}},
	})

	got := findingsOfType(Evaluate(testComponent(), events, testRuleConfig()), ExceptionMissingFacilityCert)
	if len(got) != 1 || got[0].Severity != SeverityWarning || got[0].EventRef != "rep" {
		t.Fatalf("Evaluate() facility cert findings = %#v", got)
	}
}

func TestEvaluateStableRefsAcrossRuns(t *testing.T) {
	events := cleanHistory()
	events[0].Documents = nil
	events = append(events, Event{
		ID: "insp", Seq: 3, Type: EventReceivingInspection, Date: day(2020, time.March, 1),
		FacilityName: "Delta ATL TechOps", FacilityType: FacilityAirline,
	})

	first := Evaluate(testComponent(), events, testRuleConfig())
	second := Evaluate(testComponent(), events, testRuleConfig())
	if len(first) != len(second) {
		t.Fatalf("Evaluate() lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Type != second[i].Type || first[i].EventRef != second[i].EventRef {
			t.Fatalf("Evaluate() finding %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
