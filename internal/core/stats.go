package core

// MonthlyStats is the dashboard summary for one scope: lifetime totals plus
// the named month's income, expenses, savings rate, and category breakdown.
type MonthlyStats struct {
	Month         string          `json:"month"`
	TotalIncome   Money           `json:"totalIncome"`
	TotalExpenses Money           `json:"totalExpenses"`
	Balance       Money           `json:"balance"`
	MonthIncome   Money           `json:"monthIncome"`
	MonthExpenses Money           `json:"monthExpenses"`
	SavingsRate   float64         `json:"savingsRate"`
	ByCategory    []CategoryTotal `json:"byCategory"`
}

// ComputeMonthlyStats aggregates the scope's ledger into a MonthlyStats.
// The savings rate is (income-expenses)/income*100 for the month, 0 when
// the month has no income.
func ComputeMonthlyStats(txs []Transaction, scope Scope, month string) MonthlyStats {
	stats := MonthlyStats{Month: month}

	for _, t := range txs {
		if !scope.Matches(t) || t.Amount.Cents <= 0 {
			continue
		}
		switch t.Type {
		case Income:
			stats.TotalIncome.Cents += t.Amount.Cents
			if inMonth(t.Date, month) {
				stats.MonthIncome.Cents += t.Amount.Cents
			}
		case Expense:
			stats.TotalExpenses.Cents += t.Amount.Cents
			if inMonth(t.Date, month) {
				stats.MonthExpenses.Cents += t.Amount.Cents
			}
		}
	}

	stats.Balance = Money{Cents: stats.TotalIncome.Cents - stats.TotalExpenses.Cents}
	if stats.MonthIncome.Cents > 0 {
		stats.SavingsRate = float64(stats.MonthIncome.Cents-stats.MonthExpenses.Cents) * 100 /
			float64(stats.MonthIncome.Cents)
	}
	stats.ByCategory = TopCategories(txs, scope, month)
	return stats
}
