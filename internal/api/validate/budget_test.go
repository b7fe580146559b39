package validate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/baharkarakas/budgetbox/internal/models"
)

func TestBudgetCoercion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want models.Budget
	}{
		{
			name: "numbers",
			in:   `{"income":1000,"monthlyBills":200.5,"food":150,"transport":40,"subscriptions":15,"miscellaneous":0}`,
			want: models.Budget{Income: 1000, MonthlyBills: 200.5, Food: 150, Transport: 40, Subscriptions: 15},
		},
		{
			name: "numeric strings",
			in:   `{"income":" 1200 ","food":"99.9"}`,
			want: models.Budget{Income: 1200, Food: 99.9},
		},
		{
			name: "missing, null and empty become zero",
			in:   `{"income":null,"food":""}`,
			want: models.Budget{},
		},
		{
			name: "unknown keys ignored",
			in:   `{"income":10,"rent":500}`,
			want: models.Budget{Income: 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Budget(json.RawMessage(tt.in))
			if err != nil {
				t.Fatalf("Budget(%s) err = %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Budget(%s) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBudgetRejects(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		field string
	}{
		{"not an object", `[1,2,3]`, "budget"},
		{"scalar", `42`, "budget"},
		{"word", `{"food":"lots"}`, "food"},
		{"bool", `{"income":true}`, "income"},
		{"nested", `{"transport":{"bus":3}}`, "transport"},
		{"nan string", `{"subscriptions":"NaN"}`, "subscriptions"},
		{"infinite string", `{"miscellaneous":"Inf"}`, "miscellaneous"},
		{"negative", `{"monthlyBills":-1}`, "monthlyBills"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Budget(json.RawMessage(tt.in))
			var errs Errs
			if !errors.As(err, &errs) {
				t.Fatalf("Budget(%s) err = %v, want Errs", tt.in, err)
			}
			if len(errs) == 0 || errs[0].Field != tt.field {
				t.Fatalf("Budget(%s) errs = %v, want field %q", tt.in, errs, tt.field)
			}
		})
	}
}

func TestBudgetCollectsAllFieldErrors(t *testing.T) {
	_, err := Budget(json.RawMessage(`{"income":"x","food":false}`))
	var errs Errs
	if !errors.As(err, &errs) || len(errs) != 2 {
		t.Fatalf("errs = %v, want 2 entries", err)
	}
	if errs.Error() != "income: must be numeric; food: must be numeric" {
		t.Fatalf("Error() = %q", errs.Error())
	}
}
