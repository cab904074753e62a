package core

import (
	"fmt"
	"strings"
	"time"
)

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Field length bounds for transaction content.
const (
	MinDescriptionLen = 3
	MaxDescriptionLen = 100
	MaxCategoryLen    = 50
)

// DateLayout is the calendar date format carried on the wire and in storage.
// Month filtering compares the first 7 characters of this string form.
const DateLayout = "2006-01-02"

// Transaction is a single recorded income or expense. ProfileID and GroupID
// are set only on the profile-partitioned ledger, always together.
type Transaction struct {
	ID          string          `json:"id,omitempty"`
	Amount      Money           `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	ProfileID   string          `json:"profileId,omitempty"`
	GroupID     string          `json:"groupId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`

	// Version counts writes to this row; the export pipeline uses it to
	// detect stale sync messages. Not part of the API payload.
	Version int64 `json:"-"`
}

// TransactionInput carries raw candidate fields before validation. Amount is
// the undecoded dollar value so out-of-range input produces a field error
// rather than a decode failure.
type TransactionInput struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	ProfileID   string  `json:"profileId"`
	GroupID     string  `json:"groupId"`
}

// ValidateTransaction checks every field independently and, when all hold,
// returns the normalized transaction: amount rounded to cents, description
// and category trimmed. On failure the returned ValidationErrors has one
// message per offending field and no normalization is performed.
func ValidateTransaction(in TransactionInput, now time.Time) (Transaction, error) {
	errs := ValidationErrors{}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		errs["amount"] = fmt.Sprintf("amount must be a number between %s and %s",
			FormatUSD(MinAmountCents), FormatUSD(MaxAmountCents))
	}

	if strings.TrimSpace(in.Date) == "" {
		errs["date"] = "date is required"
	} else if parsed, err := ParseDate(in.Date); err != nil {
		errs["date"] = "date must be a valid calendar date"
	} else if parsed.After(now) {
		errs["date"] = "date cannot be in the future"
	}

	desc := strings.TrimSpace(in.Description)
	switch {
	case len(desc) < MinDescriptionLen:
		errs["description"] = fmt.Sprintf("description must be at least %d characters", MinDescriptionLen)
	case len(desc) > MaxDescriptionLen:
		errs["description"] = fmt.Sprintf("description cannot exceed %d characters", MaxDescriptionLen)
	}

	if in.Type != string(Income) && in.Type != string(Expense) {
		errs["type"] = `type must be either "income" or "expense"`
	}

	category := strings.TrimSpace(in.Category)
	switch {
	case category == "":
		errs["category"] = "category is required"
	case len(category) > MaxCategoryLen:
		errs["category"] = fmt.Sprintf("category cannot exceed %d characters", MaxCategoryLen)
	}

	if len(errs) > 0 {
		return Transaction{}, errs
	}

	return Transaction{
		Amount:      amount,
		Date:        in.Date,
		Description: desc,
		Type:        TransactionType(in.Type),
		Category:    category,
		ProfileID:   strings.TrimSpace(in.ProfileID),
		GroupID:     strings.TrimSpace(in.GroupID),
	}, nil
}

// ValidateScopedTransaction is the partitioned-ledger variant: both profile
// and group references must be present, on top of the usual field checks.
func ValidateScopedTransaction(in TransactionInput, now time.Time) (Transaction, error) {
	tx, err := ValidateTransaction(in, now)
	scopeErrs := ValidationErrors{}
	if strings.TrimSpace(in.ProfileID) == "" {
		scopeErrs["profileId"] = "profileId is required"
	}
	if strings.TrimSpace(in.GroupID) == "" {
		scopeErrs["groupId"] = "groupId is required"
	}
	if len(scopeErrs) == 0 {
		return tx, err
	}
	if ve, ok := AsValidationErrors(err); ok {
		for f, msg := range scopeErrs {
			ve[f] = msg
		}
		return Transaction{}, ve
	}
	return Transaction{}, scopeErrs
}

// ParseDate accepts a plain calendar date and, for robustness against
// clients sending full timestamps, an RFC 3339 date-time.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
