package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// FieldMap stores a record's generation-specific attributes as a jsonb
// name-to-value map. Which names exist is dictated by the generation's Schema.
type FieldMap map[string]string

func (m FieldMap) Value() (driver.Value, error) {
	if m == nil {
		m = FieldMap{}
	}
	return json.Marshal(m)
}

func (m *FieldMap) Scan(value interface{}) error {
	if value == nil {
		*m = FieldMap{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("fieldmap: unsupported scan source")
	}
	return json.Unmarshal(raw, m)
}

func (FieldMap) GormDataType() string { return "jsonb" }

// Record is one canonical vehicle row, keyed by (generation, VIN).
//
// ChangedFields holds the delta of the single most recent reconciliation
// pass that touched this record; it is overwritten, never accumulated.
// IsNew is a persisted fact set during the creating pass only; later passes
// and the generation-wide demotion in ApplyBatch turn it off for good.
type Record struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Generation    string           `gorm:"uniqueIndex:idx_records_generation_vin;not null"`
	VIN           string           `gorm:"uniqueIndex:idx_records_generation_vin;not null"`
	Fields        FieldMap         `gorm:"type:jsonb;not null"`
	CurrentPrice  decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PreviousPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ChangedFields pq.StringArray   `gorm:"type:text[];not null"`
	IsNew         bool             `gorm:"not null;default:false"`
	Photos        pq.StringArray   `gorm:"type:text[];not null"`
	CreatedAt     time.Time        `gorm:"index"`
	UpdatedAt     time.Time
}

func (Record) TableName() string { return "leasing_records" }
