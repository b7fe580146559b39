package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Field string

const (
	FieldIncome        Field = "income"
	FieldMonthlyBills  Field = "monthlyBills"
	FieldFood          Field = "food"
	FieldTransport     Field = "transport"
	FieldSubscriptions Field = "subscriptions"
	FieldMiscellaneous Field = "miscellaneous"
)

// Fields lists every budget field in display order.
var Fields = []Field{
	FieldIncome,
	FieldMonthlyBills,
	FieldFood,
	FieldTransport,
	FieldSubscriptions,
	FieldMiscellaneous,
}

func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown budget field %q", s)
}

// Label is the human form of the field name ("monthlyBills" -> "Monthly Bills").
func (f Field) Label() string {
	var b []byte
	for i, r := range []byte(f) {
		switch {
		case i == 0 && r >= 'a' && r <= 'z':
			b = append(b, r-'a'+'A')
		case r >= 'A' && r <= 'Z':
			b = append(b, ' ', r)
		default:
			b = append(b, r)
		}
	}
	return string(b)
}

type Budget struct {
	Income        float64 `json:"income"`
	MonthlyBills  float64 `json:"monthlyBills"`
	Food          float64 `json:"food"`
	Transport     float64 `json:"transport"`
	Subscriptions float64 `json:"subscriptions"`
	Miscellaneous float64 `json:"miscellaneous"`
}

func (b Budget) Get(f Field) float64 {
	switch f {
	case FieldIncome:
		return b.Income
	case FieldMonthlyBills:
		return b.MonthlyBills
	case FieldFood:
		return b.Food
	case FieldTransport:
		return b.Transport
	case FieldSubscriptions:
		return b.Subscriptions
	case FieldMiscellaneous:
		return b.Miscellaneous
	}
	return 0
}

// Set reports false for unknown fields and leaves b untouched.
func (b *Budget) Set(f Field, v float64) bool {
	switch f {
	case FieldIncome:
		b.Income = v
	case FieldMonthlyBills:
		b.MonthlyBills = v
	case FieldFood:
		b.Food = v
	case FieldTransport:
		b.Transport = v
	case FieldSubscriptions:
		b.Subscriptions = v
	case FieldMiscellaneous:
		b.Miscellaneous = v
	default:
		return false
	}
	return true
}

// BudgetSnapshot is one immutable row of a user's budget history.
type BudgetSnapshot struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Budget
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DecodeSnapshot decodes a latest-snapshot response body. It returns nil
// when the server had nothing to report: an empty body, `null`, `{}` or any
// object without an income key.
func DecodeSnapshot(data []byte) (*BudgetSnapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if raw, ok := probe["income"]; !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var s BudgetSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}
