package footprint

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidQuantity is returned when an activity quantity is negative,
// NaN or infinite.
var ErrInvalidQuantity = errors.New("invalid activity quantity")

// QuantityError reports the field holding an invalid quantity.
type QuantityError struct {
	Field string
	Value float64
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("%s: %v is not a valid quantity (must be a finite number >= 0)", e.Field, e.Value)
}

func (e *QuantityError) Unwrap() error {
	return ErrInvalidQuantity
}

type quantity struct {
	field string
	value float64
}

// checkQuantities returns a *QuantityError for the first invalid quantity.
func checkQuantities(qs ...quantity) error {
	for _, q := range qs {
		if math.IsNaN(q.value) || math.IsInf(q.value, 0) || q.value < 0 {
			return &QuantityError{Field: q.field, Value: q.value}
		}
	}
	return nil
}

// CheckQuantity returns a *QuantityError naming field if v is not a
// finite number >= 0.
func CheckQuantity(field string, v float64) error {
	return checkQuantities(quantity{field, v})
}
