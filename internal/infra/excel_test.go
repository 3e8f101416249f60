package infra

import (
	"bytes"
	"testing"

	"github.com/kontim1983-hub/leasing-app/internal/apierror"
	"github.com/kontim1983-hub/leasing-app/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, cells map[string]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for ref, value := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", ref, value))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestExcelCodecRowsReadsSchemaColumns(t *testing.T) {
	sch, ok := model.SchemaFor("v2")
	require.True(t, ok)

	data := buildWorkbook(t, map[string]string{
		"F2": "XTA210990Y2707690",
		"K2": "Toyota",
		"L2": "Camry",
		"N2": "1 200 000",
		"C2": "В продаже",
		"AU2": "https://cdn.example.com/a.jpg",
		"AT2": "https://cdn.example.com/b.jpg",

		"F3": "Z94CB41AAGR323020",
		"K3": "Kia",
	})

	rows, err := NewExcelCodec().Rows(bytes.NewReader(data), sch)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "XTA210990Y2707690", first.Cells["vin"])
	assert.Equal(t, "Toyota", first.Cells["brand"])
	assert.Equal(t, "1 200 000", first.Cells["actual_price"], "price cells pass through raw; parsing happens later")
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, first.Photos)

	second := rows[1]
	assert.Equal(t, 3, second.Line)
	assert.Equal(t, "Z94CB41AAGR323020", second.Cells["vin"])
	assert.Empty(t, second.Cells["actual_price"])
	assert.Empty(t, second.Photos)
}

func TestExcelCodecRowsEmptyWorkbook(t *testing.T) {
	sch, ok := model.SchemaFor("v1")
	require.True(t, ok)

	// Header only, no data rows.
	data := buildWorkbook(t, map[string]string{"A1": "VIN"})

	_, err := NewExcelCodec().Rows(bytes.NewReader(data), sch)
	assert.ErrorIs(t, err, apierror.ErrEmptySheet)
}

func TestExcelCodecWriteRoundTrip(t *testing.T) {
	sch, ok := model.SchemaFor("v2")
	require.True(t, ok)

	prev := decimal.NewFromInt(1100000)
	records := []model.Record{
		{
			ID:            uuid.New(),
			Generation:    "v2",
			VIN:           "XTA210990Y2707690",
			Fields:        model.FieldMap{"brand": "Toyota", "model": "Camry", "status": "В продаже"},
			CurrentPrice:  decimal.NewFromInt(1200000),
			PreviousPrice: &prev,
			ChangedFields: pq.StringArray{"actual_price"},
		},
		{
			ID:           uuid.New(),
			Generation:   "v2",
			VIN:          "Z94CB41AAGR323020",
			Fields:       model.FieldMap{"brand": "Kia", "model": "Rio", "status": "В продаже"},
			CurrentPrice: decimal.NewFromInt(900000),
		},
	}

	data, err := NewExcelCodec().Write(sch, records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheetName := f.GetSheetList()[0]
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Equal(t, "Марка", header[0])
	priceIdx := -1
	for i, h := range header {
		if h == "Актуальная стоимость" {
			priceIdx = i
		}
	}
	require.GreaterOrEqual(t, priceIdx, 0)
	assert.Equal(t, "Предыдущая стоимость", header[priceIdx+1], "previous price column sits right after the price")

	assert.Equal(t, "1200000", rows[1][priceIdx])
	assert.Equal(t, "1100000", rows[1][priceIdx+1])
	assert.Equal(t, "900000", rows[2][priceIdx])
	if len(rows[2]) > priceIdx+1 {
		assert.Empty(t, rows[2][priceIdx+1], "no previous price renders as an empty cell")
	}
}
