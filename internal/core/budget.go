package core

import (
	"fmt"
	"strings"
	"time"
)

// Budget is a per-category monthly spending limit. The spent/remaining/
// percentage trio is derived at read time by ComputeBudgetStatus and is
// never stored as ground truth.
type Budget struct {
	ID        string    `json:"id,omitempty"`
	Category  string    `json:"category"`
	Amount    Money     `json:"amount"`
	ProfileID string    `json:"profileId,omitempty"`
	GroupID   string    `json:"groupId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// BudgetStatus is a budget with its derived fields filled in for one month.
type BudgetStatus struct {
	Budget
	Spent      Money   `json:"spent"`
	Remaining  Money   `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetInput is one raw candidate {category, amount} pair of a set
// replacement request.
type BudgetInput struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ValidateBudgetSet validates a full replacement batch as a unit. Every item
// needs a non-empty trimmed category of at most 50 characters and an amount
// within bounds; two items naming the same category (case-insensitive,
// trimmed) reject the whole batch with ErrDuplicateCategory. On success the
// returned budgets are normalized: categories trimmed, amounts rounded to
// cents. Nothing is merged or dropped.
func ValidateBudgetSet(items []BudgetInput) ([]Budget, error) {
	errs := ValidationErrors{}
	budgets := make([]Budget, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for i, item := range items {
		category := strings.TrimSpace(item.Category)
		field := fmt.Sprintf("budgets[%d]", i)
		switch {
		case category == "":
			errs[field+".category"] = "category is required"
		case len(category) > MaxCategoryLen:
			errs[field+".category"] = fmt.Sprintf("category cannot exceed %d characters", MaxCategoryLen)
		}

		amount, err := ParseAmount(item.Amount)
		if err != nil {
			errs[field+".amount"] = fmt.Sprintf("amount must be a number between %s and %s",
				FormatUSD(MinAmountCents), FormatUSD(MaxAmountCents))
		}

		if category != "" {
			key := strings.ToLower(category)
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, category)
			}
			seen[key] = struct{}{}
		}

		budgets = append(budgets, Budget{Category: category, Amount: amount})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return budgets, nil
}

// ValidateScopedBudgetSet validates a partitioned-ledger replacement: both
// scope references must be non-empty, and every budget is stamped with them.
func ValidateScopedBudgetSet(profileID, groupID string, items []BudgetInput) ([]Budget, error) {
	scopeErrs := ValidationErrors{}
	if strings.TrimSpace(profileID) == "" {
		scopeErrs["profileId"] = "profileId is required"
	}
	if strings.TrimSpace(groupID) == "" {
		scopeErrs["groupId"] = "groupId is required"
	}
	if len(scopeErrs) > 0 {
		return nil, scopeErrs
	}

	budgets, err := ValidateBudgetSet(items)
	if err != nil {
		return nil, err
	}
	for i := range budgets {
		budgets[i].ProfileID = strings.TrimSpace(profileID)
		budgets[i].GroupID = strings.TrimSpace(groupID)
	}
	return budgets, nil
}
