package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/kontim1983-hub/leasing-app/internal/model"
)

// RecordResponse renders one record in its generation's wire shape: the
// generation fields appear at the top level, in schema declaration order,
// with the price under the generation's own price key (approved_price or
// actual_price) and old_price right after it.
//
// Field order is part of the contract the display layer relies on, so
// marshaling is done by hand instead of through a per-generation struct.
type RecordResponse struct {
	Record model.Record
	Schema model.Schema
}

func NewRecordResponse(sch model.Schema, rec model.Record) RecordResponse {
	return RecordResponse{Record: rec, Schema: sch}
}

func NewRecordResponses(sch model.Schema, recs []model.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, NewRecordResponse(sch, r))
	}
	return out
}

func (r RecordResponse) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(name string, value interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := writeField("id", r.Record.ID.String()); err != nil {
		return nil, err
	}
	for _, f := range r.Schema.Fields {
		switch f.Name {
		case r.Schema.KeyField:
			if err := writeField(f.Name, r.Record.VIN); err != nil {
				return nil, err
			}
		case r.Schema.PriceField:
			if err := writeField(f.Name, r.Record.CurrentPrice); err != nil {
				return nil, err
			}
			if r.Record.PreviousPrice != nil {
				if err := writeField("old_price", r.Record.PreviousPrice); err != nil {
					return nil, err
				}
			}
		default:
			if err := writeField(f.Name, r.Record.Fields[f.Name]); err != nil {
				return nil, err
			}
		}
	}

	photos := []string(r.Record.Photos)
	if photos == nil {
		photos = []string{}
	}
	if err := writeField("photos", photos); err != nil {
		return nil, err
	}
	if err := writeField("is_new", r.Record.IsNew); err != nil {
		return nil, err
	}
	if len(r.Record.ChangedFields) > 0 {
		if err := writeField("changed_columns", []string(r.Record.ChangedFields)); err != nil {
			return nil, err
		}
	}
	if err := writeField("created_at", r.Record.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	if err := writeField("updated_at", r.Record.UpdatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
