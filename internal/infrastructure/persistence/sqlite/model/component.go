package model

type Component struct {
	ComponentID     string  `gorm:"column:component_id;primaryKey"`
	PartNumber      string  `gorm:"column:part_number;type:text;not null;index"`
	SerialNumber    string  `gorm:"column:serial_number;type:text;not null;index"`
	OEM             string  `gorm:"column:oem;type:text;not null"`
	ManufactureDate string  `gorm:"column:manufacture_date;type:text;not null"`
	TotalHours      float64 `gorm:"column:total_hours;not null;default:0"`
	TotalCycles     int     `gorm:"column:total_cycles;not null;default:0"`
	LifeLimited     bool    `gorm:"column:life_limited;not null;default:0"`
	LifeLimitHours  float64 `gorm:"column:life_limit_hours;not null;default:0"`
	Status          string  `gorm:"column:status;type:text;not null"`
	CreatedAt       string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt       string  `gorm:"column:updated_at;type:text;not null"`
}

func (Component) TableName() string {
	return "components"
}
