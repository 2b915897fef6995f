package model

type Evidence struct {
	EvidenceID    string `gorm:"column:evidence_id;primaryKey"`
	EventID       string `gorm:"column:event_id;type:text;not null;index"`
	EvidenceType  string `gorm:"column:evidence_type;type:text;not null"`
	Transcription string `gorm:"column:transcription;type:text;not null;default:''"`
	CapturedAt    string `gorm:"column:captured_at;type:text;not null"`
}

func (Evidence) TableName() string {
	return "evidences"
}
