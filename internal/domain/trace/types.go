package trace

import "time"

// EventType identifies what happened to a component at a point in time.
type EventType string

const (
	EventManufacture         EventType = "manufacture"
	EventInstall             EventType = "install"
	EventRemove              EventType = "remove"
	EventReceivingInspection EventType = "receiving_inspection"
	EventTeardown            EventType = "teardown"
	EventDetailedInspection  EventType = "detailed_inspection"
	EventRepair              EventType = "repair"
	EventReassembly          EventType = "reassembly"
	EventFunctionalTest      EventType = "functional_test"
	EventFinalInspection     EventType = "final_inspection"
	EventReleaseToService    EventType = "release_to_service"
	EventTransfer            EventType = "transfer"
	EventRetire              EventType = "retire"
	EventScrap               EventType = "scrap"
)

type FacilityType string

const (
	FacilityOEM         FacilityType = "oem"
	FacilityAirline     FacilityType = "airline"
	FacilityMRO         FacilityType = "mro"
	FacilityDistributor FacilityType = "distributor"
	FacilityBroker      FacilityType = "broker"
)

type EvidenceType string

const (
	EvidencePhoto       EvidenceType = "photo"
	EvidenceVideo       EvidenceType = "video"
	EvidenceVoiceNote   EvidenceType = "voice_note"
	EvidenceMeasurement EvidenceType = "measurement"
)

type DocumentType string

const (
	Document8130Dash3       DocumentType = "8130-3"
	Document337             DocumentType = "337"
	Document8010Dash4       DocumentType = "8010-4"
	DocumentWorkOrder       DocumentType = "work_order"
	DocumentFindingsReport  DocumentType = "findings_report"
	DocumentTestResults     DocumentType = "test_results"
	DocumentBirthCert       DocumentType = "birth_certificate"
)

type DocumentStatus string

const (
	DocumentDraft    DocumentStatus = "draft"
	DocumentReviewed DocumentStatus = "reviewed"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

type ComponentStatus string

const (
	StatusServiceable ComponentStatus = "serviceable"
	StatusInstalled   ComponentStatus = "installed"
	StatusInRepair    ComponentStatus = "in_repair"
	StatusQuarantined ComponentStatus = "quarantined"
	StatusRetired     ComponentStatus = "retired"
	StatusScrapped    ComponentStatus = "scrapped"
)

// Terminal reports whether the component's history is closed for scoring:
// the analysis window is capped at the last event instead of "now".
func (s ComponentStatus) Terminal() bool {
	return s == StatusRetired || s == StatusScrapped
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

type Trust string

const (
	TrustVerified Trust = "verified"
	TrustPartial  Trust = "partial"
	TrustGap      Trust = "gap"
	TrustUnknown  Trust = "unknown"
)

type Rating string

const (
	RatingComplete Rating = "complete"
	RatingGood     Rating = "good"
	RatingFair     Rating = "fair"
	RatingPoor     Rating = "poor"
)

type ExceptionType string

const (
	ExceptionSerialNumberMismatch    ExceptionType = "serial_number_mismatch"
	ExceptionPartNumberMismatch      ExceptionType = "part_number_mismatch"
	ExceptionCycleCountDiscrepancy   ExceptionType = "cycle_count_discrepancy"
	ExceptionHourCountDiscrepancy    ExceptionType = "hour_count_discrepancy"
	ExceptionDocumentationGap        ExceptionType = "documentation_gap"
	ExceptionMissingReleaseCert      ExceptionType = "missing_release_certificate"
	ExceptionMissingBirthCert        ExceptionType = "missing_birth_certificate"
	ExceptionDateInconsistency       ExceptionType = "date_inconsistency"
	ExceptionUnsignedDocument        ExceptionType = "unsigned_document"
	ExceptionMissingFacilityCert     ExceptionType = "missing_facility_certificate"
)

type ExceptionStatus string

const (
	ExceptionOpen          ExceptionStatus = "open"
	ExceptionInvestigating ExceptionStatus = "investigating"
	ExceptionResolved      ExceptionStatus = "resolved"
	ExceptionDismissed     ExceptionStatus = "dismissed"
)

// Component carries the canonical identity the rule engine checks events
// against. Usage counters are the cumulative totals recorded on the
// component itself, not any event snapshot.
type Component struct {
	ID              string
	PartNumber      string
	SerialNumber    string
	OEM             string
	ManufactureDate time.Time
	TotalHours      float64
	TotalCycles     int
	LifeLimited     bool
	LifeLimitHours  float64
	Status          ComponentStatus
}

// Event is one immutable lifecycle record. Seq preserves original insertion
// order and is the stable tie-break for events on the same calendar date.
type Event struct {
	ID             string
	Seq            uint64
	Type           EventType
	Date           time.Time
	FacilityName   string
	FacilityType   FacilityType
	PerformedBy    string
	Certification  string
	Hours          *float64
	Cycles         *int
	WorkOrderRef   string
	CMMRef         string
	IntegrityHash  string
	RecordedSerial string
	RecordedPart   string
	Evidence       []Evidence
	Documents      []Document
}

type Evidence struct {
	Type          EvidenceType
	Transcription string
	CapturedAt    time.Time
}

type Document struct {
	Type      DocumentType
	Status    DocumentStatus
	CreatedAt time.Time
}

// TraceGap is a derived value object describing an unexplained interval
// between two events. Never persisted; recomputed on every scoring run.
// EndDate and EndEventID identify the exact event that closes the gap, so
// downstream matching never depends on Days, which is truncated to whole
// days for reporting.
type TraceGap struct {
	StartDate    time.Time
	EndDate      time.Time
	EndEventID   string
	LastFacility string
	NextFacility string
	Days         int
	Severity     Severity
}

// TraceReport is the completeness scoring output for one component.
type TraceReport struct {
	Score          int
	Rating         Rating
	TotalDays      int
	TotalEvents    int
	TotalDocuments int
	GapCount       int
	TotalGapDays   int
	Gaps           []TraceGap
}

// FacilityStop groups consecutive events at one facility. Derived on each
// run; never persisted.
type FacilityStop struct {
	Facility      string
	DisplayName   string
	Location      string
	Activity      string
	StartDate     time.Time
	EndDate       time.Time
	Events        []Event
	EvidenceCount int
	DocumentCount int
	Trust         Trust
	PrecedingGap  *TraceGap
}

// Finding is the rule engine's pre-persistence output. EventRef is the
// stable triggering reference used as part of the exception natural key.
type Finding struct {
	Type        ExceptionType
	Severity    Severity
	Title       string
	Description string
	EventRef    string
}

// CounterViolation flags an adjacent event pair whose cumulative usage
// counters run backwards. Reported, never corrected.
type CounterViolation struct {
	EarlierRef string
	LaterRef   string
	Hours      bool
	Cycles     bool
}
