package implementation

import (
	"context"

	"invoiceflow-be/internal/repository/contract"

	"gorm.io/gorm"
)

type sequenceRepositoryImpl struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) contract.SequenceRepository {
	return &sequenceRepositoryImpl{db: db}
}

// Next bumps the counter row for (prefix, period) atomically and returns
// the new value. The upsert keeps concurrent callers from ever reading
// the same number, replacing the old scan-last-and-increment scheme.
func (r *sequenceRepositoryImpl) Next(ctx context.Context, prefix, period string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO sequence_counters (prefix, period, last_value, updated_at)
		VALUES (?, ?, 1, NOW())
		ON CONFLICT (prefix, period)
		DO UPDATE SET last_value = sequence_counters.last_value + 1, updated_at = NOW()
		RETURNING last_value`,
		prefix, period,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
