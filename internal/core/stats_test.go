package core

import "testing"

func TestComputeMonthlyStats(t *testing.T) {
	txs := []Transaction{
		{Amount: Money{Cents: 500000}, Date: "2024-03-01", Type: Income, Category: "Salary"},
		expense("2024-03-05", "Food", 100000),
		expense("2024-03-10", "Transport", 50000),
		expense("2024-02-10", "Food", 70000),
	}
	stats := ComputeMonthlyStats(txs, GlobalScope(), "2024-03")

	if stats.TotalIncome.Cents != 500000 {
		t.Fatalf("total income: got %d", stats.TotalIncome.Cents)
	}
	if stats.TotalExpenses.Cents != 220000 {
		t.Fatalf("total expenses: got %d", stats.TotalExpenses.Cents)
	}
	if stats.Balance.Cents != 280000 {
		t.Fatalf("balance: got %d", stats.Balance.Cents)
	}
	if stats.MonthExpenses.Cents != 150000 {
		t.Fatalf("month expenses: got %d", stats.MonthExpenses.Cents)
	}
	if stats.SavingsRate != 70 {
		t.Fatalf("savings rate: got %v", stats.SavingsRate)
	}
	if len(stats.ByCategory) != 2 || stats.ByCategory[0].Category != "Food" {
		t.Fatalf("category breakdown wrong: %+v", stats.ByCategory)
	}
}

func TestComputeMonthlyStatsNoIncome(t *testing.T) {
	txs := []Transaction{expense("2024-03-05", "Food", 1000)}
	stats := ComputeMonthlyStats(txs, GlobalScope(), "2024-03")
	if stats.SavingsRate != 0 {
		t.Fatalf("savings rate must be 0 without income, got %v", stats.SavingsRate)
	}
	if stats.Balance.Cents != -1000 {
		t.Fatalf("balance: got %d", stats.Balance.Cents)
	}
}

func TestComputeMonthlyStatsScoped(t *testing.T) {
	txs := []Transaction{
		{Amount: Money{Cents: 1000}, Date: "2024-03-01", Type: Expense, Category: "Food", Description: "x", ProfileID: "p1", GroupID: "g1"},
		{Amount: Money{Cents: 2000}, Date: "2024-03-01", Type: Expense, Category: "Food", Description: "x", ProfileID: "p2", GroupID: "g1"},
	}
	if got := ComputeMonthlyStats(txs, ProfileScope("p1"), "2024-03").MonthExpenses.Cents; got != 1000 {
		t.Fatalf("individual scope: got %d", got)
	}
	if got := ComputeMonthlyStats(txs, GroupScope("g1"), "2024-03").MonthExpenses.Cents; got != 3000 {
		t.Fatalf("group scope: got %d", got)
	}
}
