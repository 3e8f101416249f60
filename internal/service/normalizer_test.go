package service

import (
	"testing"

	"github.com/kontim1983-hub/leasing-app/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRow(line int, cells map[string]string) RawRow {
	return RawRow{Line: line, Cells: cells}
}

func TestNormalizeRowRejectsMissingVIN(t *testing.T) {
	sch := v2Schema(t)

	for _, vin := range []string{"", "   ", "\t"} {
		_, err := NormalizeRow(sch, rawRow(5, map[string]string{"vin": vin, "actual_price": "100"}))
		require.Error(t, err)
		var rowErr *RowError
		require.ErrorAs(t, err, &rowErr)
		assert.Equal(t, 5, rowErr.Line)
		assert.Equal(t, "vin", rowErr.Field)
	}
}

func TestNormalizeRowNormalizesVIN(t *testing.T) {
	sch := v2Schema(t)

	cand, err := NormalizeRow(sch, rawRow(2, map[string]string{"vin": "  wvwzzz1jz3w386752 "}))
	require.NoError(t, err)
	assert.Equal(t, "WVWZZZ1JZ3W386752", cand.VIN)
}

func TestNormalizeRowParsesLocaleFormattedPrices(t *testing.T) {
	sch := v2Schema(t)

	cases := []struct {
		raw  string
		want string
	}{
		{"1234567.89", "1234567.89"},
		{"1 234 567,89", "1234567.89"},
		{"1 234 567,89", "1234567.89"},
		{"1,234,567.89", "1234567.89"},
		{"1'234'567.89", "1234567.89"},
		{"950000", "950000"},
		{"", "0"},
	}
	for _, tc := range cases {
		cand, err := NormalizeRow(sch, rawRow(2, map[string]string{"vin": "X1", "actual_price": tc.raw}))
		require.NoError(t, err, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, cand.Price.String(), "raw=%q", tc.raw)
	}
}

func TestNormalizeRowRejectsMalformedPrice(t *testing.T) {
	sch := v2Schema(t)

	_, err := NormalizeRow(sch, rawRow(7, map[string]string{"vin": "X1", "actual_price": "договорная"}))
	require.Error(t, err)
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "actual_price", rowErr.Field)
}

func TestNormalizeRowAppliesDefaultStatus(t *testing.T) {
	v2 := v2Schema(t)
	cand, err := NormalizeRow(v2, rawRow(2, map[string]string{"vin": "X1"}))
	require.NoError(t, err)
	assert.Equal(t, "В продаже", cand.Fields["status"])

	v3, ok := model.SchemaFor("v3")
	require.True(t, ok)
	cand, err = NormalizeRow(v3, rawRow(2, map[string]string{"vin": "X1"}))
	require.NoError(t, err)
	assert.Equal(t, "В свободной продаже", cand.Fields["status"])

	// An explicit status is kept as-is.
	cand, err = NormalizeRow(v2, rawRow(2, map[string]string{"vin": "X1", "status": "Продано"}))
	require.NoError(t, err)
	assert.Equal(t, "Продано", cand.Fields["status"])
}

func TestNormalizeRowTrimsFieldsAndPhotos(t *testing.T) {
	sch := v2Schema(t)

	cand, err := NormalizeRow(sch, RawRow{
		Line:   2,
		Cells:  map[string]string{"vin": "X1", "city": "  Москва  "},
		Photos: []string{" https://example.com/a.jpg ", "", "https://example.com/b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Москва", cand.Fields["city"])
	assert.Equal(t, []string{"https://example.com/a.jpg", "https://example.com/b.jpg"}, cand.Photos)
}
