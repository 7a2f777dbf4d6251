package form

// FieldSet holds the raw text of every form field. The key set is fixed;
// all values start empty.
type FieldSet struct {
	values [fieldCount]string
}

// NewFieldSet returns a FieldSet with every field empty.
func NewFieldSet() *FieldSet {
	return &FieldSet{}
}

// UpdateField replaces the raw value of name. No validation happens here.
// Passing a field outside the fixed set panics.
func (fs *FieldSet) UpdateField(name Field, raw string) {
	if !name.Valid() {
		panic("form: UpdateField on unknown field")
	}
	fs.values[name] = raw
}

// Value returns the raw text of name.
func (fs *FieldSet) Value(name Field) string {
	if !name.Valid() {
		panic("form: Value on unknown field")
	}
	return fs.values[name]
}

// Values returns the raw text of every field in form order.
func (fs *FieldSet) Values() []string {
	out := make([]string, fieldCount)
	copy(out, fs.values[:])
	return out
}

// ToPredictionRequest coerces the current values into a payload. It never
// fails: a value that cannot be coerced becomes NaN in its slot.
func (fs *FieldSet) ToPredictionRequest() PredictionRequest {
	var req PredictionRequest
	for _, f := range Fields() {
		raw := fs.values[f]
		if f.Kind() == KindInteger {
			req.values[f] = coerceInteger(raw)
		} else {
			req.values[f] = coerceFloat(raw)
		}
	}
	return req
}
