package model

type GeneratedDocument struct {
	DocumentID   string `gorm:"column:document_id;primaryKey"`
	EventID      string `gorm:"column:event_id;type:text;not null;index"`
	DocumentType string `gorm:"column:document_type;type:text;not null"`
	Status       string `gorm:"column:status;type:text;not null"`
	CreatedAt    string `gorm:"column:created_at;type:text;not null"`
}

func (GeneratedDocument) TableName() string {
	return "generated_documents"
}
