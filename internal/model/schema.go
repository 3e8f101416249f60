package model

// FieldKind controls how two values of a field are compared during
// reconciliation: text fields are trimmed and case-folded, numeric fields are
// compared by value so "12 500" and "12500" are the same mileage.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldNumeric
)

// Field describes one attribute of a generation: its wire/JSON name, the
// header used in xlsx exports, the source column letter in the uploaded
// sheet, and how it is compared.
type Field struct {
	Name   string
	Header string
	Column string
	Kind   FieldKind
}

// Schema is the per-generation descriptor that parameterizes the whole
// engine. The reconciler, normalizer, parser and export assembler know
// nothing about a concrete generation beyond what a Schema declares:
// the key field (VIN) and the price-bearing field are named here.
type Schema struct {
	Generation string
	// Fields in declaration order. Order drives JSON output and export
	// columns. Includes the key field and the price field.
	Fields []Field
	// KeyField names the natural key field (always the VIN).
	KeyField string
	// PriceField names the audited price field; its previous value is
	// retained whenever the current value changes.
	PriceField string
	// DefaultStatus is substituted when the status cell is blank.
	DefaultStatus string
	// PhotoColumns are sheet columns scanned for photo links.
	PhotoColumns []string
}

// Generations supported by the service, oldest layout first.
var schemas = []Schema{
	{
		Generation: "v1",
		Fields: []Field{
			{Name: "subject", Header: "Предмет лизинга", Column: "B", Kind: FieldText},
			{Name: "location", Header: "Местонахождение", Column: "AD", Kind: FieldText},
			{Name: "subject_type", Header: "Тип предмета", Column: "E", Kind: FieldText},
			{Name: "vehicle_type", Header: "Вид ТС", Column: "F", Kind: FieldText},
			{Name: "vin", Header: "VIN", Column: "G", Kind: FieldText},
			{Name: "year", Header: "Год выпуска", Column: "K", Kind: FieldNumeric},
			{Name: "mileage", Header: "Пробег", Column: "L", Kind: FieldNumeric},
			{Name: "days_on_sale", Header: "Дней в продаже", Column: "O", Kind: FieldNumeric},
			{Name: "approved_price", Header: "Согласованная стоимость", Column: "Q", Kind: FieldNumeric},
			{Name: "status", Header: "Статус", Column: "AN", Kind: FieldText},
		},
		KeyField:      "vin",
		PriceField:    "approved_price",
		DefaultStatus: "В продаже",
	},
	{
		Generation: "v2",
		Fields: []Field{
			{Name: "brand", Header: "Марка", Column: "K", Kind: FieldText},
			{Name: "model", Header: "Модель", Column: "L", Kind: FieldText},
			{Name: "vin", Header: "VIN", Column: "F", Kind: FieldText},
			{Name: "exposure_period", Header: "Срок экспозиции (дн.)", Column: "E", Kind: FieldNumeric},
			{Name: "vehicle_type", Header: "Вид ТС", Column: "H", Kind: FieldText},
			{Name: "vehicle_subtype", Header: "Подвид ТС", Column: "I", Kind: FieldText},
			{Name: "year", Header: "Год выпуска", Column: "R", Kind: FieldNumeric},
			{Name: "mileage", Header: "Пробег", Column: "BA", Kind: FieldNumeric},
			{Name: "city", Header: "Город", Column: "P", Kind: FieldText},
			{Name: "actual_price", Header: "Актуальная стоимость", Column: "N", Kind: FieldNumeric},
			{Name: "status", Header: "Статус", Column: "C", Kind: FieldText},
		},
		KeyField:      "vin",
		PriceField:    "actual_price",
		DefaultStatus: "В продаже",
		PhotoColumns:  []string{"AU", "AT", "AS", "AR", "AQ"},
	},
	{
		Generation: "v3",
		Fields: []Field{
			{Name: "brand", Header: "Марка", Column: "K", Kind: FieldText},
			{Name: "model", Header: "Модель", Column: "L", Kind: FieldText},
			{Name: "vin", Header: "VIN", Column: "F", Kind: FieldText},
			{Name: "exposure_period", Header: "Срок экспозиции (дн.)", Column: "AW", Kind: FieldNumeric},
			{Name: "vehicle_type", Header: "Вид ТС", Column: "G", Kind: FieldText},
			{Name: "vehicle_subtype", Header: "Подвид ТС", Column: "H", Kind: FieldText},
			{Name: "year", Header: "Год выпуска", Column: "R", Kind: FieldNumeric},
			{Name: "mileage", Header: "Пробег", Column: "BA", Kind: FieldNumeric},
			{Name: "city", Header: "Город", Column: "P", Kind: FieldText},
			{Name: "actual_price", Header: "Актуальная стоимость", Column: "N", Kind: FieldNumeric},
			{Name: "status", Header: "Статус", Column: "C", Kind: FieldText},
		},
		KeyField:      "vin",
		PriceField:    "actual_price",
		DefaultStatus: "В свободной продаже",
	},
}

// SchemaFor returns the descriptor for a generation identifier ("v1".."v3").
func SchemaFor(generation string) (Schema, bool) {
	for _, s := range schemas {
		if s.Generation == generation {
			return s, true
		}
	}
	return Schema{}, false
}

// Generations returns the registered generation identifiers in order.
func Generations() []string {
	out := make([]string, 0, len(schemas))
	for _, s := range schemas {
		out = append(out, s.Generation)
	}
	return out
}

// AttributeFields returns the fields that live in Record.Fields: everything
// except the key and the price, which are stored in dedicated columns.
func (s Schema) AttributeFields() []Field {
	out := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == s.KeyField || f.Name == s.PriceField {
			continue
		}
		out = append(out, f)
	}
	return out
}
