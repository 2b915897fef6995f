package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aerotrace/internal/errs"
	"aerotrace/internal/infrastructure/persistence/sqlite/model"
	"aerotrace/internal/ports"
)

type ComponentRepository struct {
	db *gorm.DB
}

func NewComponentRepository(db *gorm.DB) *ComponentRepository {
	return &ComponentRepository{db: db}
}

func (r *ComponentRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *ComponentRepository) ListComponentIDs(ctx context.Context) ([]string, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := db.Model(&model.Component{}).
		Order("component_id asc").
		Pluck("component_id", &ids).Error; err != nil {
		return nil, errs.Wrap(err, "query component ids")
	}
	return ids, nil
}

func (r *ComponentRepository) GetComponent(ctx context.Context, componentID string) (ports.ComponentRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ComponentRecord{}, err
	}

	var row model.Component
	if err := db.Where("component_id = ?", componentID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ComponentRecord{}, ports.ErrComponentNotFound
		}
		return ports.ComponentRecord{}, errs.Wrap(err, "query component")
	}

	record := mapComponent(row)

	var eventRows []model.LifecycleEvent
	if err := db.
		Where("component_id = ?", componentID).
		Order("seq asc").
		Find(&eventRows).Error; err != nil {
		return ports.ComponentRecord{}, errs.Wrap(err, "query lifecycle events")
	}
	if len(eventRows) == 0 {
		return record, nil
	}

	eventIDs := make([]string, 0, len(eventRows))
	for _, ev := range eventRows {
		eventIDs = append(eventIDs, ev.EventID)
	}

	var evidenceRows []model.Evidence
	if err := db.
		Where("event_id IN ?", eventIDs).
		Order("evidence_id asc").
		Find(&evidenceRows).Error; err != nil {
		return ports.ComponentRecord{}, errs.Wrap(err, "query evidence")
	}
	evidenceByEvent := make(map[string][]ports.EvidenceRecord, len(evidenceRows))
	for _, row := range evidenceRows {
		evidenceByEvent[row.EventID] = append(evidenceByEvent[row.EventID], mapEvidence(row))
	}

	var documentRows []model.GeneratedDocument
	if err := db.
		Where("event_id IN ?", eventIDs).
		Order("document_id asc").
		Find(&documentRows).Error; err != nil {
		return ports.ComponentRecord{}, errs.Wrap(err, "query generated documents")
	}
	documentsByEvent := make(map[string][]ports.DocumentRecord, len(documentRows))
	for _, row := range documentRows {
		documentsByEvent[row.EventID] = append(documentsByEvent[row.EventID], mapDocument(row))
	}

	record.Events = make([]ports.EventRecord, 0, len(eventRows))
	for _, row := range eventRows {
		event := mapEvent(row)
		event.Evidence = evidenceByEvent[row.EventID]
		event.Documents = documentsByEvent[row.EventID]
		record.Events = append(record.Events, event)
	}
	return record, nil
}

func (r *ComponentRepository) ListExceptions(ctx context.Context, componentID string) ([]ports.ExceptionRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.Exception{}).Order("detected_at desc, exception_id asc")
	if componentID != "" {
		query = query.Where("component_id = ?", componentID)
	}

	var rows []model.Exception
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query exceptions")
	}

	items := make([]ports.ExceptionRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapException(row))
	}
	return items, nil
}

func (r *ComponentRepository) CreateComponent(ctx context.Context, record ports.ComponentRecord) (ports.ComponentRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ComponentRecord{}, err
	}

	row := model.Component{
		ComponentID:     record.ComponentID,
		PartNumber:      record.PartNumber,
		SerialNumber:    record.SerialNumber,
		OEM:             record.OEM,
		ManufactureDate: record.ManufactureDate,
		TotalHours:      record.TotalHours,
		TotalCycles:     record.TotalCycles,
		LifeLimited:     record.LifeLimited,
		LifeLimitHours:  record.LifeLimitHours,
		Status:          record.Status,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
	if row.ComponentID == "" {
		row.ComponentID = uuid.NewString()
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.ComponentRecord{}, errs.Wrap(err, "insert component")
	}
	return mapComponent(row), nil
}

func (r *ComponentRepository) AppendEvent(ctx context.Context, event ports.EventRecord) (ports.EventRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.EventRecord{}, err
	}

	row := model.LifecycleEvent{
		EventID:        event.EventID,
		ComponentID:    event.ComponentID,
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
		CreatedAt:      event.CreatedAt,
	}
	if row.EventID == "" {
		row.EventID = uuid.NewString()
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.EventRecord{}, errs.Wrap(err, "insert lifecycle event")
	}
	return mapEvent(row), nil
}

func (r *ComponentRepository) AttachEvidence(ctx context.Context, evidence ports.EvidenceRecord) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.Evidence{
		EvidenceID:    evidence.EvidenceID,
		EventID:       evidence.EventID,
		EvidenceType:  evidence.EvidenceType,
		Transcription: evidence.Transcription,
		CapturedAt:    evidence.CapturedAt,
	}
	if row.EvidenceID == "" {
		row.EvidenceID = uuid.NewString()
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert evidence")
	}
	return nil
}

func (r *ComponentRepository) AttachDocument(ctx context.Context, document ports.DocumentRecord) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.GeneratedDocument{
		DocumentID:   document.DocumentID,
		EventID:      document.EventID,
		DocumentType: document.DocumentType,
		Status:       document.Status,
		CreatedAt:    document.CreatedAt,
	}
	if row.DocumentID == "" {
		row.DocumentID = uuid.NewString()
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert generated document")
	}
	return nil
}

// UpsertException keys on (component_id, exception_type, event_ref). A
// resolved or dismissed row is left untouched so a re-scan never resurrects
// a finding a reviewer already closed.
func (r *ComponentRepository) UpsertException(ctx context.Context, input ports.ExceptionUpsert) (bool, error) {
	if ports.TxFromContext(ctx) != nil {
		db, err := r.dbFromContext(ctx)
		if err != nil {
			return false, err
		}
		return upsertException(db, input)
	}

	created := false
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := upsertException(tx, input)
		if err != nil {
			return err
		}
		created = ok
		return nil
	}); err != nil {
		return false, err
	}
	return created, nil
}

func (r *ComponentRepository) SetExceptionStatus(ctx context.Context, exceptionID string, status string, updatedAt string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Exception{}).
		Where("exception_id = ?", exceptionID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update exception status")
	}
	if result.RowsAffected == 0 {
		return ports.ErrExceptionNotFound
	}
	return nil
}

func upsertException(db *gorm.DB, input ports.ExceptionUpsert) (bool, error) {
	var existing model.Exception
	err := db.
		Where("component_id = ? AND exception_type = ? AND event_ref = ?",
			input.ComponentID, input.Type, input.EventRef).
		Take(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.Wrap(err, "query exception by natural key")
		}

		row := model.Exception{
			ExceptionID:   uuid.NewString(),
			ComponentID:   input.ComponentID,
			ExceptionType: input.Type,
			EventRef:      input.EventRef,
			Severity:      input.Severity,
			Title:         input.Title,
			Description:   input.Description,
			Status:        "open",
			DetectedAt:    input.DetectedAt,
			UpdatedAt:     input.DetectedAt,
		}
		if err := db.Create(&row).Error; err != nil {
			return false, errs.Wrap(err, "insert exception")
		}
		return true, nil
	}

	if existing.Status == "resolved" || existing.Status == "dismissed" {
		return false, nil
	}

	if err := db.Model(&model.Exception{}).
		Where("exception_id = ?", existing.ExceptionID).
		Updates(map[string]any{
			"severity":    input.Severity,
			"title":       input.Title,
			"description": input.Description,
			"detected_at": input.DetectedAt,
			"updated_at":  input.DetectedAt,
		}).Error; err != nil {
		return false, errs.Wrap(err, "refresh exception")
	}
	return false, nil
}

func mapComponent(row model.Component) ports.ComponentRecord {
	return ports.ComponentRecord{
		ComponentID:     row.ComponentID,
		PartNumber:      row.PartNumber,
		SerialNumber:    row.SerialNumber,
		OEM:             row.OEM,
		ManufactureDate: row.ManufactureDate,
		TotalHours:      row.TotalHours,
		TotalCycles:     row.TotalCycles,
		LifeLimited:     row.LifeLimited,
		LifeLimitHours:  row.LifeLimitHours,
		Status:          row.Status,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func mapEvent(row model.LifecycleEvent) ports.EventRecord {
	return ports.EventRecord{
		EventID:        row.EventID,
		Seq:            row.Seq,
		ComponentID:    row.ComponentID,
		EventType:      row.EventType,
		EventDate:      row.EventDate,
		FacilityName:   row.FacilityName,
		FacilityType:   row.FacilityType,
		PerformedBy:    row.PerformedBy,
		Certification:  row.Certification,
		Hours:          row.Hours,
		Cycles:         row.Cycles,
		WorkOrderRef:   row.WorkOrderRef,
		CMMRef:         row.CMMRef,
		IntegrityHash:  row.IntegrityHash,
		RecordedSerial: row.RecordedSerial,
		RecordedPart:   row.RecordedPart,
	}
}

func mapEvidence(row model.Evidence) ports.EvidenceRecord {
	return ports.EvidenceRecord{
		EvidenceID:    row.EvidenceID,
		EventID:       row.EventID,
		EvidenceType:  row.EvidenceType,
		Transcription: row.Transcription,
		CapturedAt:    row.CapturedAt,
	}
}

func mapDocument(row model.GeneratedDocument) ports.DocumentRecord {
	return ports.DocumentRecord{
		DocumentID:   row.DocumentID,
		EventID:      row.EventID,
		DocumentType: row.DocumentType,
		Status:       row.Status,
		CreatedAt:    row.CreatedAt,
	}
}

func mapException(row model.Exception) ports.ExceptionRecord {
	return ports.ExceptionRecord{
		ExceptionID: row.ExceptionID,
		ComponentID: row.ComponentID,
		Type:        row.ExceptionType,
		Severity:    row.Severity,
		Title:       row.Title,
		Description: row.Description,
		Status:      row.Status,
		EventRef:    row.EventRef,
		DetectedAt:  row.DetectedAt,
	}
}
