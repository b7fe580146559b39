// Package dashboard derives the summary figures shown next to the budget
// form and renders them for a terminal.
package dashboard

import (
	"strconv"

	"github.com/baharkarakas/budgetbox/internal/models"
)

const (
	InsightOverspend = "Expenses exceed income!"
	InsightFood      = "Reduce food spend."
	InsightAllGood   = "All metrics look good."

	// food above this share of income triggers InsightFood
	foodShareLimit = 0.4
)

func TotalExpenses(b models.Budget) float64 {
	return b.MonthlyBills + b.Food + b.Transport + b.Subscriptions + b.Miscellaneous
}

// Savings may be negative.
func Savings(b models.Budget) float64 { return b.Income - TotalExpenses(b) }

// BurnRate is expenses as a percentage of income with one decimal, or "0"
// when there is no income.
func BurnRate(b models.Budget) string {
	if b.Income <= 0 {
		return "0"
	}
	return strconv.FormatFloat(TotalExpenses(b)/b.Income*100, 'f', 1, 64)
}

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityAlert
)

type Insight struct {
	Message  string
	Severity Severity
}

// Insights returns the rule messages in fixed order. Overspend and food
// can both fire; the all-good message only appears alone.
func Insights(b models.Budget) []Insight {
	var out []Insight
	if Savings(b) < 0 {
		out = append(out, Insight{Message: InsightOverspend, Severity: SeverityAlert})
	}
	if b.Food > b.Income*foodShareLimit {
		out = append(out, Insight{Message: InsightFood, Severity: SeverityWarn})
	}
	if len(out) == 0 {
		out = append(out, Insight{Message: InsightAllGood, Severity: SeverityInfo})
	}
	return out
}

type Slice struct {
	Name  string
	Value float64
}

var breakdownOrder = []struct {
	name  string
	field models.Field
}{
	{"Bills", models.FieldMonthlyBills},
	{"Food", models.FieldFood},
	{"Transport", models.FieldTransport},
	{"Subscriptions", models.FieldSubscriptions},
	{"Misc", models.FieldMiscellaneous},
}

// Breakdown lists the expense categories with a positive value.
func Breakdown(b models.Budget) []Slice {
	var out []Slice
	for _, c := range breakdownOrder {
		if v := b.Get(c.field); v > 0 {
			out = append(out, Slice{Name: c.name, Value: v})
		}
	}
	return out
}
