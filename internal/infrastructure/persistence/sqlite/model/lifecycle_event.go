package model

// LifecycleEvent rows are append-only; Seq doubles as the stable tie-break
// for events recorded on the same calendar date.
type LifecycleEvent struct {
	Seq            uint64   `gorm:"column:seq;primaryKey;autoIncrement"`
	EventID        string   `gorm:"column:event_id;type:text;not null;uniqueIndex"`
	ComponentID    string   `gorm:"column:component_id;type:text;not null;index"`
	EventType      string   `gorm:"column:event_type;type:text;not null"`
	EventDate      string   `gorm:"column:event_date;type:text;not null"`
	FacilityName   string   `gorm:"column:facility_name;type:text;not null"`
	FacilityType   string   `gorm:"column:facility_type;type:text;not null"`
	PerformedBy    string   `gorm:"column:performed_by;type:text;not null;default:''"`
	Certification  string   `gorm:"column:certification;type:text;not null;default:''"`
	Hours          *float64 `gorm:"column:hours_at"`
	Cycles         *int     `gorm:"column:cycles_at"`
	WorkOrderRef   string   `gorm:"column:work_order_ref;type:text;not null;default:''"`
	CMMRef         string   `gorm:"column:cmm_ref;type:text;not null;default:''"`
	IntegrityHash  string   `gorm:"column:integrity_hash;type:text;not null;default:''"`
	RecordedSerial string   `gorm:"column:recorded_serial;type:text;not null;default:''"`
	RecordedPart   string   `gorm:"column:recorded_part;type:text;not null;default:''"`
	CreatedAt      string   `gorm:"column:created_at;type:text;not null"`
}

func (LifecycleEvent) TableName() string {
	return "lifecycle_events"
}
