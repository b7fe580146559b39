package validate

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/baharkarakas/budgetbox/internal/models"
)

// Budget coerces a loosely typed budget object into a models.Budget.
//
// Per field: absent or null is 0, a JSON number is taken as is, a string is
// trimmed and parsed ("" is 0). Anything else, non-finite values and
// negative amounts are reported as field errors. The returned error is
// always Errs.
func Budget(raw json.RawMessage) (models.Budget, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return models.Budget{}, Errs{{Field: "budget", Msg: "must be an object"}}
	}

	var (
		b    models.Budget
		errs Errs
	)
	for _, f := range models.Fields {
		v, msg := coerce(obj[string(f)])
		if msg != "" {
			errs = append(errs, ErrField{Field: string(f), Msg: msg})
			continue
		}
		if errs.Add(Finite(string(f), v)) || errs.Add(MinFloat(string(f), v, 0)) {
			continue
		}
		b.Set(f, v)
	}
	if len(errs) > 0 {
		return models.Budget{}, errs
	}
	return b, nil
}

func coerce(raw json.RawMessage) (float64, string) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ""
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, "must be numeric"
	}
	switch t := v.(type) {
	case float64:
		return t, ""
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, ""
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, "must be numeric"
		}
		return f, ""
	default:
		return 0, "must be numeric"
	}
}
