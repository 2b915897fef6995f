package trace

import (
	"fmt"
	"time"
)

// RuleConfig parameterizes the rule engine. Now is the injected clock used
// by document-age checks for the determinism guarantee.
type RuleConfig struct {
	Gaps                  GapConfig
	UnsignedDocMaxAgeDays int
	Now                   time.Time
}

// DefaultRuleConfig returns stock thresholds: 30/90/180 day gap tiers and a
// 14 day grace period for draft documents.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		Gaps:                  DefaultGapConfig(),
		UnsignedDocMaxAgeDays: 14,
	}
}

// Evaluate runs the full rule set over one component's history and returns
// zero or more findings. Rules are stateless and order-independent; each
// finding carries a stable EventRef so persistence can upsert on
// (component, type, ref) and repeated evaluation of unchanged data yields
// the same findings.
func Evaluate(component Component, events []Event, cfg RuleConfig) []Finding {
	sequenced := Sequence(events)

	var findings []Finding
	findings = append(findings, identityMismatches(component, sequenced)...)
	findings = append(findings, counterDiscrepancies(sequenced)...)
	findings = append(findings, missingBirthCertificate(sequenced)...)
	findings = append(findings, missingReleaseCertificates(sequenced)...)
	findings = append(findings, documentationGaps(sequenced, cfg.Gaps)...)
	findings = append(findings, dateInconsistencies(component, sequenced)...)
	findings = append(findings, unsignedDocuments(sequenced, cfg)...)
	findings = append(findings, missingFacilityCertificates(sequenced)...)
	return findings
}

func identityMismatches(component Component, events []Event) []Finding {
	var out []Finding
	for _, ev := range events {
		if ev.RecordedSerial != "" && ev.RecordedSerial != component.SerialNumber {
			out = append(out, Finding{
				Type:     ExceptionSerialNumberMismatch,
				Severity: SeverityCritical,
				Title:    "Serial number mismatch",
				Description: fmt.Sprintf("event %q records serial %q, component serial is %q",
					ev.Type, ev.RecordedSerial, component.SerialNumber),
				EventRef: ev.ID,
			})
		}
		if ev.RecordedPart != "" && ev.RecordedPart != component.PartNumber {
			out = append(out, Finding{
				Type:     ExceptionPartNumberMismatch,
				Severity: SeverityCritical,
				Title:    "Part number mismatch",
				Description: fmt.Sprintf("event %q records part %q, component part is %q",
					ev.Type, ev.RecordedPart, component.PartNumber),
				EventRef: ev.ID,
			})
		}
	}
	return out
}

func counterDiscrepancies(sequenced []Event) []Finding {
	var out []Finding
	for _, v := range CounterViolations(sequenced) {
		if v.Hours {
			out = append(out, Finding{
				Type:        ExceptionHourCountDiscrepancy,
				Severity:    SeverityCritical,
				Title:       "Hour count discrepancy",
				Description: fmt.Sprintf("cumulative hours decrease between events %s and %s", v.EarlierRef, v.LaterRef),
				EventRef:    v.LaterRef,
			})
		}
		if v.Cycles {
			out = append(out, Finding{
				Type:        ExceptionCycleCountDiscrepancy,
				Severity:    SeverityCritical,
				Title:       "Cycle count discrepancy",
				Description: fmt.Sprintf("cumulative cycles decrease between events %s and %s", v.EarlierRef, v.LaterRef),
				EventRef:    v.LaterRef,
			})
		}
	}
	return out
}

func missingBirthCertificate(events []Event) []Finding {
	if hasBirthRecord(events) {
		return nil
	}
	return []Finding{{
		Type:        ExceptionMissingBirthCert,
		Severity:    SeverityCritical,
		Title:       "Missing birth certificate",
		Description: "no manufacture event carries a birth certificate document",
		EventRef:    "birth_certificate",
	}}
}

func missingReleaseCertificates(events []Event) []Finding {
	var out []Finding
	for _, ev := range events {
		if ev.Type != EventReleaseToService && ev.Type != EventInstall {
			continue
		}
		if hasDocument(ev, Document8130Dash3) {
			continue
		}
		out = append(out, Finding{
			Type:        ExceptionMissingReleaseCert,
			Severity:    SeverityWarning,
			Title:       "Missing release certificate",
			Description: fmt.Sprintf("%s event at %s has no 8130-3 attached", ev.Type, ev.FacilityName),
			EventRef:    ev.ID,
		})
	}
	return out
}

func documentationGaps(sequenced []Event, cfg GapConfig) []Finding {
	var out []Finding
	for _, gap := range DetectGaps(sequenced, cfg) {
		out = append(out, Finding{
			Type:     ExceptionDocumentationGap,
			Severity: gap.Severity,
			Title:    "Documentation gap",
			Description: fmt.Sprintf("%d days without records between %s and %s",
				gap.Days, orUnknown(gap.LastFacility), orUnknown(gap.NextFacility)),
			EventRef: "gap:" + gap.StartDate.UTC().Format("2006-01-02"),
		})
	}
	return out
}

func dateInconsistencies(component Component, events []Event) []Finding {
	var out []Finding

	if !component.ManufactureDate.IsZero() {
		for _, ev := range events {
			if ev.Date.IsZero() || !ev.Date.Before(component.ManufactureDate) {
				continue
			}
			out = append(out, Finding{
				Type:     ExceptionDateInconsistency,
				Severity: SeverityCritical,
				Title:    "Date inconsistency",
				Description: fmt.Sprintf("%s event dated %s precedes manufacture date %s",
					ev.Type, ev.Date.UTC().Format("2006-01-02"), component.ManufactureDate.UTC().Format("2006-01-02")),
				EventRef: ev.ID,
			})
		}
	}

	// Events arrive sorted ascending, so a strict-order violation surviving
	// the sort means two records share the same timestamp.
	for i := 1; i < len(events); i++ {
		prev := events[i-1]
		next := events[i]
		if prev.Date.IsZero() || next.Date.IsZero() || prev.Date.Before(next.Date) {
			continue
		}
		out = append(out, Finding{
			Type:     ExceptionDateInconsistency,
			Severity: SeverityCritical,
			Title:    "Date inconsistency",
			Description: fmt.Sprintf("%s event is not strictly after the preceding %s event, both dated %s",
				next.Type, prev.Type, next.Date.UTC().Format(time.RFC3339)),
			EventRef: next.ID,
		})
	}
	return out
}

func unsignedDocuments(events []Event, cfg RuleConfig) []Finding {
	maxAge := cfg.UnsignedDocMaxAgeDays
	if maxAge <= 0 {
		maxAge = 14
	}
	now := cfg.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var out []Finding
	for _, ev := range events {
		for i, doc := range ev.Documents {
			if doc.Status != DocumentDraft || doc.CreatedAt.IsZero() {
				continue
			}
			if daysBetween(doc.CreatedAt, now) <= maxAge {
				continue
			}
			out = append(out, Finding{
				Type:     ExceptionUnsignedDocument,
				Severity: SeverityInfo,
				Title:    "Unsigned document",
				Description: fmt.Sprintf("%s document on %s event still in draft after %d days",
					doc.Type, ev.Type, maxAge),
				EventRef: fmt.Sprintf("%s:doc:%d", ev.ID, i),
			})
		}
	}
	return out
}

func missingFacilityCertificates(events []Event) []Finding {
	var out []Finding
	for _, ev := range events {
		if ev.FacilityType != FacilityMRO && ev.FacilityType != FacilityOEM {
			continue
		}
		if ev.Certification != "" {
			continue
		}
		out = append(out, Finding{
			Type:        ExceptionMissingFacilityCert,
			Severity:    SeverityWarning,
			Title:       "Missing facility certificate",
			Description: fmt.Sprintf("%s event at %s carries no facility or performer certification", ev.Type, orUnknown(ev.FacilityName)),
			EventRef:    ev.ID,
		})
	}
	return out
}

func hasDocument(ev Event, docType DocumentType) bool {
	for _, doc := range ev.Documents {
		if doc.Type == docType {
			return true
		}
	}
	return false
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
