package model

// Exception rows are upserted by the scan on the natural key
// (component_id, exception_type, event_ref); status is only ever changed by
// human review.
type Exception struct {
	ExceptionID   string `gorm:"column:exception_id;primaryKey"`
	ComponentID   string `gorm:"column:component_id;type:text;not null;index;uniqueIndex:ux_exceptions_natural_key"`
	ExceptionType string `gorm:"column:exception_type;type:text;not null;uniqueIndex:ux_exceptions_natural_key"`
	EventRef      string `gorm:"column:event_ref;type:text;not null;uniqueIndex:ux_exceptions_natural_key"`
	Severity      string `gorm:"column:severity;type:text;not null"`
	Title         string `gorm:"column:title;type:text;not null"`
	Description   string `gorm:"column:description;type:text;not null"`
	Status        string `gorm:"column:status;type:text;not null;default:'open'"`
	DetectedAt    string `gorm:"column:detected_at;type:text;not null"`
	UpdatedAt     string `gorm:"column:updated_at;type:text;not null"`
}

func (Exception) TableName() string {
	return "exceptions"
}
