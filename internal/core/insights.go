package core

import "fmt"

type InsightType string

const (
	InsightWarning InsightType = "warning"
	InsightSuccess InsightType = "success"
	InsightInfo    InsightType = "info"
)

// MaxInsights caps how many observations one request returns.
const MaxInsights = 3

// Insight is a short human-readable observation derived from the ledger.
type Insight struct {
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
}

// GenerateInsights derives at most MaxInsights observations for the scope
// and month, in fixed priority order: budgets over 90% first, then the top
// spending category, then the month-over-month trend. The ordering is a
// deliberate ranking, so truncation always keeps the budget warnings.
func GenerateInsights(txs []Transaction, budgets []Budget, scope Scope, month string) []Insight {
	var insights []Insight

	for _, status := range ComputeBudgetStatus(budgets, txs, scope, month) {
		if status.Percentage > 90 {
			insights = append(insights, Insight{
				Type:        InsightWarning,
				Title:       fmt.Sprintf("%s Budget Alert", status.Category),
				Description: fmt.Sprintf("You've spent %.0f%% of your %s budget this month.", status.Percentage, status.Category),
				Icon:        "AlertTriangle",
			})
		}
	}

	if top := TopCategories(txs, scope, month); len(top) > 0 {
		insights = append(insights, Insight{
			Type:        InsightInfo,
			Title:       "Top Spending Category",
			Description: fmt.Sprintf("%s accounts for %s of your spending this month.", top[0].Category, FormatUSD(top[0].Amount.Cents)),
			Icon:        "TrendingUp",
		})
	}

	if trend, ok := spendingTrend(txs, scope, month); ok {
		insights = append(insights, trend)
	}

	if len(insights) > MaxInsights {
		insights = insights[:MaxInsights]
	}
	return insights
}

// spendingTrend compares this month's expense total to the prior month's.
// A swing beyond ±10% yields an insight; a quiet month yields none, and a
// prior month with zero spending yields none (no baseline to compare).
func spendingTrend(txs []Transaction, scope Scope, month string) (Insight, bool) {
	current := MonthExpenseTotal(txs, scope, month).Cents
	previous := MonthExpenseTotal(txs, scope, PreviousMonth(month)).Cents
	if previous <= 0 {
		return Insight{}, false
	}

	change := float64(current-previous) * 100 / float64(previous)
	switch {
	case change > 10:
		return Insight{
			Type:        InsightWarning,
			Title:       "Increased Spending",
			Description: fmt.Sprintf("Your spending increased by %.1f%% compared to last month.", change),
			Icon:        "TrendingUp",
		}, true
	case change < -10:
		return Insight{
			Type:        InsightSuccess,
			Title:       "Great Savings!",
			Description: fmt.Sprintf("You've reduced spending by %.1f%% compared to last month.", -change),
			Icon:        "TrendingDown",
		}, true
	default:
		return Insight{}, false
	}
}
