package ports

import (
	"context"
	"errors"
)

var (
	ErrComponentNotFound = errors.New("component not found")
	ErrExceptionNotFound = errors.New("exception not found")
)

// ComponentRecord is the persisted shape of a tracked part. Timestamps are
// RFC3339 strings; the usecase layer parses them tolerantly so one bad field
// degrades a single computation instead of failing the load.
type ComponentRecord struct {
	ComponentID     string
	PartNumber      string
	SerialNumber    string
	OEM             string
	ManufactureDate string
	TotalHours      float64
	TotalCycles     int
	LifeLimited     bool
	LifeLimitHours  float64
	Status          string
	CreatedAt       string
	UpdatedAt       string
	Events          []EventRecord
}

// EventRecord is one append-only lifecycle entry with its attachments.
// Seq is assigned by storage in insertion order and never reused.
type EventRecord struct {
	EventID        string
	Seq            uint64
	ComponentID    string
	EventType      string
	EventDate      string
	FacilityName   string
	FacilityType   string
	PerformedBy    string
	Certification  string
	Hours          *float64
	Cycles         *int
	WorkOrderRef   string
	CMMRef         string
	IntegrityHash  string
	RecordedSerial string
	RecordedPart   string
	CreatedAt      string
	Evidence       []EvidenceRecord
	Documents      []DocumentRecord
}

type EvidenceRecord struct {
	EvidenceID    string
	EventID       string
	EvidenceType  string
	Transcription string
	CapturedAt    string
}

type DocumentRecord struct {
	DocumentID   string
	EventID      string
	DocumentType string
	Status       string
	CreatedAt    string
}

// ExceptionRecord is a persisted integrity finding. The natural key is
// (component_id, exception_type, event_ref); status is the only field a
// human mutates.
type ExceptionRecord struct {
	ExceptionID string
	ComponentID string
	Type        string
	Severity    string
	Title       string
	Description string
	Status      string
	EventRef    string
	DetectedAt  string
}

// ExceptionUpsert is the scan-side write shape. Status is owned by the
// store: new rows open as "open", existing rows keep whatever a reviewer
// set.
type ExceptionUpsert struct {
	ComponentID string
	Type        string
	Severity    string
	Title       string
	Description string
	EventRef    string
	DetectedAt  string
}

type ComponentReadRepository interface {
	ListComponentIDs(ctx context.Context) ([]string, error)
	// GetComponent returns the component with its full event history,
	// evidence and documents nested, ordered by insertion.
	GetComponent(ctx context.Context, componentID string) (ComponentRecord, error)
	ListExceptions(ctx context.Context, componentID string) ([]ExceptionRecord, error)
}

type ComponentRepository interface {
	ComponentReadRepository
	CreateComponent(ctx context.Context, record ComponentRecord) (ComponentRecord, error)
	AppendEvent(ctx context.Context, event EventRecord) (EventRecord, error)
	AttachEvidence(ctx context.Context, evidence EvidenceRecord) error
	AttachDocument(ctx context.Context, document DocumentRecord) error
	// UpsertException inserts on a new natural key, refreshes detection
	// metadata when the existing row is open or investigating, and leaves
	// resolved/dismissed rows untouched. Reports whether a row was created.
	UpsertException(ctx context.Context, input ExceptionUpsert) (bool, error)
	SetExceptionStatus(ctx context.Context, exceptionID string, status string, updatedAt string) error
}
