package analysis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"aerotrace/internal/bootstrap/logging"
	"aerotrace/internal/errs"
	"aerotrace/internal/ports"
)

// FleetSnapshot is the import file shape: components with their nested
// histories, as exported by the upstream capture system.
type FleetSnapshot struct {
	Components []ComponentSnapshot `json:"components"`
}

type ComponentSnapshot struct {
	ComponentID     string          `json:"component_id,omitempty"`
	PartNumber      string          `json:"part_number"`
	SerialNumber    string          `json:"serial_number"`
	OEM             string          `json:"oem"`
	ManufactureDate string          `json:"manufacture_date"`
	TotalHours      float64         `json:"total_hours"`
	TotalCycles     int             `json:"total_cycles"`
	LifeLimited     bool            `json:"life_limited"`
	LifeLimitHours  float64         `json:"life_limit_hours"`
	Status          string          `json:"status"`
	Events          []EventSnapshot `json:"events"`
}

type EventSnapshot struct {
	EventID        string             `json:"event_id,omitempty"`
	EventType      string             `json:"event_type"`
	EventDate      string             `json:"event_date"`
	FacilityName   string             `json:"facility_name"`
	FacilityType   string             `json:"facility_type"`
	PerformedBy    string             `json:"performed_by,omitempty"`
	Certification  string             `json:"certification,omitempty"`
	Hours          *float64           `json:"hours,omitempty"`
	Cycles         *int               `json:"cycles,omitempty"`
	WorkOrderRef   string             `json:"work_order_ref,omitempty"`
	CMMRef         string             `json:"cmm_ref,omitempty"`
	IntegrityHash  string             `json:"integrity_hash,omitempty"`
	RecordedSerial string             `json:"recorded_serial,omitempty"`
	RecordedPart   string             `json:"recorded_part,omitempty"`
	Evidence       []EvidenceSnapshot `json:"evidence,omitempty"`
	Documents      []DocumentSnapshot `json:"documents,omitempty"`
}

type EvidenceSnapshot struct {
	EvidenceType  string `json:"evidence_type"`
	Transcription string `json:"transcription,omitempty"`
	CapturedAt    string `json:"captured_at,omitempty"`
}

type DocumentSnapshot struct {
	DocumentType string `json:"document_type"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// ImportSnapshot loads a fleet snapshot into storage. Each component and
// its full history is written in one transaction: a bad component rejects
// that component only, and the importer reports how many went through.
func (s *Service) ImportSnapshot(ctx context.Context, snapshot FleetSnapshot) (imported int, failed []ComponentError, err error) {
	if len(snapshot.Components) == 0 {
		return 0, nil, errors.New("snapshot has no components")
	}

	now := s.now().Format(time.RFC3339Nano)

	for _, component := range snapshot.Components {
		componentErr := s.uow.WithTx(ctx, func(txCtx context.Context) error {
			created, err := s.repo.CreateComponent(txCtx, ports.ComponentRecord{
				ComponentID:     component.ComponentID,
				PartNumber:      component.PartNumber,
				SerialNumber:    component.SerialNumber,
				OEM:             component.OEM,
				ManufactureDate: component.ManufactureDate,
				TotalHours:      component.TotalHours,
				TotalCycles:     component.TotalCycles,
				LifeLimited:     component.LifeLimited,
				LifeLimitHours:  component.LifeLimitHours,
				Status:          component.Status,
				CreatedAt:       now,
				UpdatedAt:       now,
			})
			if err != nil {
				return errs.Wrap(err, "create component")
			}

			for _, event := range component.Events {
				createdEvent, err := s.repo.AppendEvent(txCtx, ports.EventRecord{
					EventID:        event.EventID,
					ComponentID:    created.ComponentID,
					EventType:      event.EventType,
					EventDate:      event.EventDate,
					FacilityName:   event.FacilityName,
					FacilityType:   event.FacilityType,
					PerformedBy:    event.PerformedBy,
					Certification:  event.Certification,
					Hours:          event.Hours,
					Cycles:         event.Cycles,
					WorkOrderRef:   event.WorkOrderRef,
					CMMRef:         event.CMMRef,
					IntegrityHash:  event.IntegrityHash,
					RecordedSerial: event.RecordedSerial,
					RecordedPart:   event.RecordedPart,
					CreatedAt:      now,
				})
				if err != nil {
					return errs.Wrap(err, "append event")
				}

				for _, evidence := range event.Evidence {
					if err := s.repo.AttachEvidence(txCtx, ports.EvidenceRecord{
						EventID:       createdEvent.EventID,
						EvidenceType:  evidence.EvidenceType,
						Transcription: evidence.Transcription,
						CapturedAt:    evidence.CapturedAt,
					}); err != nil {
						return errs.Wrap(err, "attach evidence")
					}
				}
				for _, document := range event.Documents {
					if err := s.repo.AttachDocument(txCtx, ports.DocumentRecord{
						EventID:      createdEvent.EventID,
						DocumentType: document.DocumentType,
						Status:       document.Status,
						CreatedAt:    document.CreatedAt,
					}); err != nil {
						return errs.Wrap(err, "attach document")
					}
				}
			}
			return nil
		})

		if componentErr != nil {
			failed = append(failed, ComponentError{ComponentID: component.SerialNumber, Err: componentErr})
			continue
		}
		imported++
	}

	logging.Info(ctx, "fleet snapshot imported",
		slog.Int("imported", imported),
		slog.Int("failed", len(failed)),
	)
	return imported, failed, nil
}
