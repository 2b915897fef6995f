package analysis

import (
	"strings"
	"time"

	"aerotrace/internal/domain/trace"
	"aerotrace/internal/ports"
)

// mapComponent converts persisted records into domain values. Parsing is
// tolerant: an unparseable date becomes the zero time and the engine
// downgrades whatever depends on it instead of failing the whole load.
func mapComponent(record ports.ComponentRecord) (trace.Component, []trace.Event) {
	component := trace.Component{
		ID:              record.ComponentID,
		PartNumber:      record.PartNumber,
		SerialNumber:    record.SerialNumber,
		OEM:             record.OEM,
		ManufactureDate: parseTime(record.ManufactureDate),
		TotalHours:      record.TotalHours,
		TotalCycles:     record.TotalCycles,
		LifeLimited:     record.LifeLimited,
		LifeLimitHours:  record.LifeLimitHours,
		Status:          trace.ComponentStatus(record.Status),
	}

	events := make([]trace.Event, 0, len(record.Events))
	for _, ev := range record.Events {
		events = append(events, mapEvent(ev))
	}
	return component, events
}

func mapEvent(record ports.EventRecord) trace.Event {
	event := trace.Event{
		ID:             record.EventID,
		Seq:            record.Seq,
		Type:           trace.EventType(record.EventType),
		Date:           parseTime(record.EventDate),
		FacilityName:   record.FacilityName,
		FacilityType:   trace.FacilityType(record.FacilityType),
		PerformedBy:    record.PerformedBy,
		Certification:  record.Certification,
		Hours:          record.Hours,
		Cycles:         record.Cycles,
		WorkOrderRef:   record.WorkOrderRef,
		CMMRef:         record.CMMRef,
		IntegrityHash:  record.IntegrityHash,
		RecordedSerial: record.RecordedSerial,
		RecordedPart:   record.RecordedPart,
	}

	for _, ev := range record.Evidence {
		event.Evidence = append(event.Evidence, trace.Evidence{
			Type:          trace.EvidenceType(ev.EvidenceType),
			Transcription: ev.Transcription,
			CapturedAt:    parseTime(ev.CapturedAt),
		})
	}
	for _, doc := range record.Documents {
		event.Documents = append(event.Documents, trace.Document{
			Type:      trace.DocumentType(doc.DocumentType),
			Status:    trace.DocumentStatus(doc.Status),
			CreatedAt: parseTime(doc.CreatedAt),
		})
	}
	return event
}

func parseTime(value string) time.Time {
	normalized := strings.TrimSpace(value)
	if normalized == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, normalized)
		if err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
