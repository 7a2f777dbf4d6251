package form

import "math"

// Field identifies one of the eight inputs of the prediction form.
type Field int

const (
	CropYear Field = iota
	Area
	Production
	AnnualRainfall
	Fertilizer
	Pesticide
	Humidity
	AverageTemperature

	fieldCount
)

// Kind is the numeric type a field is coerced to.
type Kind int

const (
	KindFloat Kind = iota
	KindInteger
)

// fieldDef describes a field's names and accepted range.
type fieldDef struct {
	name    string
	wireKey string
	label   string
	kind    Kind
	min     float64
	max     float64
}

var defs = [fieldCount]fieldDef{
	CropYear:           {"Crop_Year", "Crop_Year", "Crop Year", KindInteger, 1900, 2100},
	Area:               {"Area", "Area", "Area (hectares)", KindFloat, 0, math.Inf(1)},
	Production:         {"Production", "Production", "Production (tons)", KindFloat, 0, math.Inf(1)},
	AnnualRainfall:     {"Annual_Rainfall", "Annual_Rainfall", "Annual Rainfall (mm)", KindFloat, 0, math.Inf(1)},
	Fertilizer:         {"Fertilizer", "Fertilizer", "Fertilizer (kg/ha)", KindFloat, 0, math.Inf(1)},
	Pesticide:          {"Pesticide", "Pesticide", "Pesticide (kg/ha)", KindFloat, 0, math.Inf(1)},
	Humidity:           {"Humidity", "HUMPIDITY", "Humidity (%)", KindFloat, 0, 100},
	AverageTemperature: {"Average_Temperature", "AVG_TEMPERATURE", "Average Temperature (°C)", KindFloat, -10, 50},
}

// Fields returns all fields in form order.
func Fields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// Valid reports whether f is one of the eight known fields.
func (f Field) Valid() bool {
	return f >= 0 && f < fieldCount
}

func (f Field) def() fieldDef {
	if !f.Valid() {
		panic("form: unknown field")
	}
	return defs[f]
}

// String returns the field name, e.g. "Annual_Rainfall".
func (f Field) String() string {
	if !f.Valid() {
		return "Field(?)"
	}
	return defs[f].name
}

// WireKey returns the JSON key the prediction service expects.
func (f Field) WireKey() string { return f.def().wireKey }

// Label returns a human label including the unit.
func (f Field) Label() string { return f.def().label }

// Kind returns the numeric kind of the field.
func (f Field) Kind() Kind { return f.def().kind }

// Range returns the inclusive bounds accepted by Validate.
func (f Field) Range() (min, max float64) {
	s := f.def()
	return s.min, s.max
}

// ParseField looks a field up by name or wire key.
func ParseField(name string) (Field, bool) {
	for i, s := range defs {
		if s.name == name || s.wireKey == name {
			return Field(i), true
		}
	}
	return 0, false
}
