package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MonthKey returns the YYYY-MM key for a point in time.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PreviousMonth shifts a YYYY-MM key back one calendar month. Malformed keys
// are returned unchanged; downstream prefix matching then simply finds
// nothing.
func PreviousMonth(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	y, m := t.Year(), int(t.Month())
	if m == 1 {
		return fmt.Sprintf("%04d-12", y-1)
	}
	return fmt.Sprintf("%04d-%02d", y, m-1)
}

// inMonth matches a transaction date against a YYYY-MM key by comparing the
// first 7 characters of the stored date string. This is intentionally not a
// calendar-range check: it mirrors the documented prefix semantics, and a
// date string that cannot supply a matching 7-char prefix (malformed,
// truncated, differently formatted) is silently skipped rather than fatal.
func inMonth(date, month string) bool {
	return len(date) >= 7 && date[:7] == month
}

// CategoryTotal is a category's summed expense amount for some period.
type CategoryTotal struct {
	Category string `json:"category"`
	Amount   Money  `json:"amount"`
}

// ExpenseTotalsByCategory sums expense amounts per trimmed category for the
// transactions of the given scope and month. Non-expense rows, rows outside
// the month, and rows with a blank category are ignored.
func ExpenseTotalsByCategory(txs []Transaction, scope Scope, month string) map[string]int64 {
	totals := make(map[string]int64)
	for _, t := range txs {
		if t.Type != Expense || t.Amount.Cents <= 0 {
			continue
		}
		if !inMonth(t.Date, month) || !scope.Matches(t) {
			continue
		}
		category := strings.TrimSpace(t.Category)
		if category == "" {
			continue
		}
		totals[category] += t.Amount.Cents
	}
	return totals
}

// TopCategories returns per-category expense totals sorted largest first,
// ties broken by name for stable output.
func TopCategories(txs []Transaction, scope Scope, month string) []CategoryTotal {
	totals := ExpenseTotalsByCategory(txs, scope, month)
	out := make([]CategoryTotal, 0, len(totals))
	for category, cents := range totals {
		out = append(out, CategoryTotal{Category: category, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthExpenseTotal sums all expense amounts for the scope and month.
func MonthExpenseTotal(txs []Transaction, scope Scope, month string) Money {
	var total int64
	for _, cents := range ExpenseTotalsByCategory(txs, scope, month) {
		total += cents
	}
	return Money{Cents: total}
}

// ComputeBudgetStatus derives spent, remaining, and percentage for every
// budget in the scope against the month's expenses. Budgets pass through
// otherwise unmodified; a budget whose category saw no spending still
// appears with spent = 0. The function is pure: same inputs, same output.
//
// remaining = max(0, amount - spent)
// percentage = amount > 0 ? clamp(0, 100, spent/amount*100) : 0
//
// Spending in categories without a budget is invisible here; the insight
// generator surfaces it from raw transactions instead.
func ComputeBudgetStatus(budgets []Budget, txs []Transaction, scope Scope, month string) []BudgetStatus {
	totals := ExpenseTotalsByCategory(txs, scope, month)

	out := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		if !scope.MatchesBudget(b) {
			continue
		}
		spent := totals[strings.TrimSpace(b.Category)]

		remaining := b.Amount.Cents - spent
		if remaining < 0 {
			remaining = 0
		}

		var percentage float64
		if b.Amount.Cents > 0 {
			percentage = float64(spent) * 100 / float64(b.Amount.Cents)
			if percentage < 0 {
				percentage = 0
			}
			if percentage > 100 {
				percentage = 100
			}
		}

		out = append(out, BudgetStatus{
			Budget:     b,
			Spent:      Money{Cents: spent},
			Remaining:  Money{Cents: remaining},
			Percentage: percentage,
		})
	}
	return out
}
