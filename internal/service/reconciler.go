package service

import (
	"strings"

	"github.com/kontim1983-hub/leasing-app/internal/dto"
	"github.com/kontim1983-hub/leasing-app/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Candidate is one normalized upload row, ready to be reconciled.
type Candidate struct {
	Line   int
	VIN    string
	Fields map[string]string
	Price  decimal.Decimal
	Photos []string
}

// Reconcile is the reconciliation engine: a pure function from the current
// store snapshot and a batch of candidates to the records to persist and the
// per-row outcomes. It performs no I/O; persistence is the caller's job.
//
// Rules:
//   - an unknown VIN yields a created record: is_new=true, empty changed
//     set, no previous price;
//   - a known VIN gets a field-level diff against the snapshot; the price's old
//     value is retained in previous_price only when the price actually
//     changed; changed_fields is replaced (not merged) every pass, so an
//     unchanged row wipes stale markers;
//   - a VIN occurring twice in one batch: the last occurrence wins. Every
//     occurrence is diffed against the pre-batch snapshot, and the later
//     result replaces the earlier one, so each VIN yields exactly one stored
//     record and one outcome;
//   - VINs absent from the batch are not touched here (the store demotes
//     their is_new flag when the batch is applied).
func Reconcile(sch model.Schema, snapshot map[string]model.Record, candidates []Candidate) ([]model.Record, []dto.RowResult) {
	type slot struct {
		record model.Record
		result dto.RowResult
	}

	order := make([]string, 0, len(candidates))
	slots := make(map[string]*slot, len(candidates))

	for _, c := range candidates {
		s := &slot{}
		if existing, ok := snapshot[c.VIN]; ok {
			s.record, s.result = reconcileExisting(sch, existing, c)
		} else {
			s.record = model.Record{
				ID:            uuid.New(),
				Generation:    sch.Generation,
				VIN:           c.VIN,
				Fields:        model.FieldMap(c.Fields),
				CurrentPrice:  c.Price,
				ChangedFields: []string{},
				IsNew:         true,
				Photos:        photosOrEmpty(c.Photos),
			}
			s.result = dto.RowResult{Line: c.Line, VIN: c.VIN, Outcome: dto.OutcomeCreated}
		}

		if _, seen := slots[c.VIN]; !seen {
			order = append(order, c.VIN)
		}
		slots[c.VIN] = s
	}

	records := make([]model.Record, 0, len(order))
	results := make([]dto.RowResult, 0, len(order))
	for _, vin := range order {
		records = append(records, slots[vin].record)
		results = append(results, slots[vin].result)
	}
	return records, results
}

func reconcileExisting(sch model.Schema, existing model.Record, c Candidate) (model.Record, dto.RowResult) {
	changed := diffFields(sch, existing, c)

	rec := existing
	rec.Fields = model.FieldMap(c.Fields)
	rec.ChangedFields = changed
	rec.IsNew = false
	if !existing.CurrentPrice.Equal(c.Price) {
		prev := existing.CurrentPrice
		rec.PreviousPrice = &prev
		rec.CurrentPrice = c.Price
	}
	if len(c.Photos) > 0 {
		rec.Photos = c.Photos
	} else {
		rec.Photos = photosOrEmpty(existing.Photos)
	}

	outcome := dto.OutcomeUnchanged
	var changedOut []string
	if len(changed) > 0 {
		outcome = dto.OutcomeUpdated
		changedOut = changed
	}

	return rec, dto.RowResult{Line: c.Line, VIN: c.VIN, Outcome: outcome, ChangedFields: changedOut}
}

// diffFields walks the schema's declared fields and collects the names whose
// candidate value differs from the stored one. Comparison is normalized:
// trimmed + case-folded for text, value equality for numerics.
func diffFields(sch model.Schema, existing model.Record, c Candidate) []string {
	changed := []string{}
	for _, f := range sch.Fields {
		switch f.Name {
		case sch.KeyField:
			continue
		case sch.PriceField:
			if !existing.CurrentPrice.Equal(c.Price) {
				changed = append(changed, f.Name)
			}
		default:
			if !valuesEqual(f.Kind, existing.Fields[f.Name], c.Fields[f.Name]) {
				changed = append(changed, f.Name)
			}
		}
	}
	return changed
}

func valuesEqual(kind model.FieldKind, old, new string) bool {
	old = strings.TrimSpace(old)
	new = strings.TrimSpace(new)
	if kind == model.FieldNumeric {
		a, errA := parseNumber(old)
		b, errB := parseNumber(new)
		if errA == nil && errB == nil {
			return a.Equal(b)
		}
		// Not both parseable, fall back to text comparison.
	}
	return strings.EqualFold(old, new)
}

func photosOrEmpty(photos []string) []string {
	if photos == nil {
		return []string{}
	}
	return photos
}
