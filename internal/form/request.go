package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PredictionRequest is the coerced payload sent to the prediction service.
// Crop_Year holds an integral value; the other seven are floats. A field
// that failed coercion holds NaN.
type PredictionRequest struct {
	values [fieldCount]float64
}

// Get returns the coerced value of f.
func (r PredictionRequest) Get(f Field) float64 {
	if !f.Valid() {
		panic("form: Get on unknown field")
	}
	return r.values[f]
}

// CropYear returns the integer crop year, or false when it is NaN or
// outside the int64 range.
func (r PredictionRequest) CropYear() (int64, bool) {
	v := r.values[CropYear]
	if math.IsNaN(v) || v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// MarshalJSON encodes the payload with the service's key names in form
// order. NaN has no JSON form and is written as null.
func (r PredictionRequest) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range Fields() {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f.WireKey())
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')

		v := r.values[f]
		if v == 0 {
			v = 0 // negative zero encodes as 0
		}
		switch {
		case math.IsNaN(v):
			b.WriteString("null")
		case f.Kind() == KindInteger:
			b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		default:
			num, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", f, err)
			}
			b.Write(num)
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// FieldError describes one field rejected by Validate.
type FieldError struct {
	Field  Field
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		parts[i] = fe.Error()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Has reports whether f is among the rejected fields.
func (e *ValidationError) Has(f Field) bool {
	for _, fe := range e.Fields {
		if fe.Field == f {
			return true
		}
	}
	return false
}

// Validate checks that every field is a number within its range.
// It returns a *ValidationError or nil.
func (r PredictionRequest) Validate() error {
	var errs []FieldError
	for _, f := range Fields() {
		v := r.values[f]
		if math.IsNaN(v) {
			errs = append(errs, FieldError{Field: f, Reason: "not a number"})
			continue
		}
		lo, hi := f.Range()
		if v < lo || v > hi {
			errs = append(errs, FieldError{Field: f, Reason: rangeReason(lo, hi)})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}

func rangeReason(lo, hi float64) string {
	if math.IsInf(hi, 1) {
		return fmt.Sprintf("must be at least %g", lo)
	}
	return fmt.Sprintf("must be between %g and %g", lo, hi)
}
