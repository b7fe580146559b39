package validate

import (
	"math"
	"strconv"
	"strings"
)

// ErrField is one rejected input, reported to clients as a detail entry.
type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Errs collects every field problem of one request.
type Errs []ErrField

func (e Errs) Error() string {
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Add appends ef when it is non-nil and reports whether it did.
func (e *Errs) Add(ef *ErrField) bool {
	if ef == nil {
		return false
	}
	*e = append(*e, *ef)
	return true
}

func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

func Finite(field string, v float64) *ErrField {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ErrField{Field: field, Msg: "must be numeric"}
	}
	return nil
}

func MinFloat(field string, v, min float64) *ErrField {
	if v < min {
		return &ErrField{Field: field, Msg: "must be >= " + strconv.FormatFloat(min, 'f', -1, 64)}
	}
	return nil
}
