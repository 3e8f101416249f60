package repository

import (
	"context"
	"errors"

	"github.com/kontim1983-hub/leasing-app/internal/apierror"
	"github.com/kontim1983-hub/leasing-app/internal/model"

	"gorm.io/gorm"
)

// RecordRepository defines the data access contract for canonical records.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type RecordRepository interface {
	// ListByGeneration returns every record of a generation in insertion
	// order (created_at ascending), the stable order used for display and
	// export.
	ListByGeneration(ctx context.Context, generation string) ([]model.Record, error)

	// FindByVIN returns the record for a normalized VIN, or
	// apierror.ErrNotFound.
	FindByVIN(ctx context.Context, generation, vin string) (*model.Record, error)

	// SnapshotByVIN loads the whole generation keyed by VIN for the
	// reconciler to diff against.
	SnapshotByVIN(ctx context.Context, generation string) (map[string]model.Record, error)

	// ApplyBatch persists one reconciliation pass atomically: inside a
	// single transaction it first demotes is_new across the generation,
	// then upserts exactly the given records. Readers never observe a
	// partially applied batch. Returns the number of records written.
	ApplyBatch(ctx context.Context, generation string, records []model.Record) (int64, error)

	// ClearChangeMarkers empties changed_fields and resets is_new for every
	// record of the generation, leaving all values untouched. Idempotent.
	ClearChangeMarkers(ctx context.Context, generation string) (int64, error)

	// DeleteAll removes every record of the generation. Idempotent.
	DeleteAll(ctx context.Context, generation string) (int64, error)

	// CountByGeneration returns the number of stored records of a
	// generation, reported by the health endpoint.
	CountByGeneration(ctx context.Context, generation string) (int64, error)

	// DB exposes the underlying *gorm.DB for the health check.
	DB() *gorm.DB
}

type recordRepo struct{ db *gorm.DB }

func NewRecordRepository(db *gorm.DB) RecordRepository { return &recordRepo{db: db} }

func (r *recordRepo) ListByGeneration(ctx context.Context, generation string) ([]model.Record, error) {
	records := make([]model.Record, 0)
	err := r.db.WithContext(ctx).
		Where("generation = ?", generation).
		Order("created_at ASC, id ASC").
		Find(&records).Error
	return records, err
}

func (r *recordRepo) FindByVIN(ctx context.Context, generation, vin string) (*model.Record, error) {
	var rec model.Record
	err := r.db.WithContext(ctx).
		Where("generation = ? AND vin = ?", generation, vin).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepo) SnapshotByVIN(ctx context.Context, generation string) (map[string]model.Record, error) {
	records, err := r.ListByGeneration(ctx, generation)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string]model.Record, len(records))
	for _, rec := range records {
		snapshot[rec.VIN] = rec
	}
	return snapshot, nil
}

func (r *recordRepo) ApplyBatch(ctx context.Context, generation string, records []model.Record) (int64, error) {
	var written int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A record is "new" for exactly one pass. Demote the whole
		// generation first; freshly created batch records re-set the flag
		// in the upserts below.
		if err := tx.Model(&model.Record{}).
			Where("generation = ? AND is_new = true", generation).
			Update("is_new", false).Error; err != nil {
			return err
		}

		for i := range records {
			rec := &records[i]
			if rec.IsNew {
				if err := tx.Create(rec).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Save(rec).Error; err != nil {
					return err
				}
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (r *recordRepo) ClearChangeMarkers(ctx context.Context, generation string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Record{}).
		Where("generation = ?", generation).
		Updates(map[string]interface{}{
			"changed_fields": "{}",
			"is_new":         false,
		})
	return res.RowsAffected, res.Error
}

func (r *recordRepo) DeleteAll(ctx context.Context, generation string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("generation = ?", generation).
		Delete(&model.Record{})
	return res.RowsAffected, res.Error
}

func (r *recordRepo) CountByGeneration(ctx context.Context, generation string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Record{}).
		Where("generation = ?", generation).
		Count(&n).Error
	return n, err
}

func (r *recordRepo) DB() *gorm.DB { return r.db }
