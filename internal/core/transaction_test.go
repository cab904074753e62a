package core

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func validInput() TransactionInput {
	return TransactionInput{
		Amount:      42.50,
		Date:        "2024-03-10",
		Description: "Weekly groceries",
		Type:        "expense",
		Category:    "Groceries",
	}
}

func TestValidateTransactionAccepts(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*TransactionInput)
	}{
		{"minimum amount", func(in *TransactionInput) { in.Amount = 0.01 }},
		{"maximum amount", func(in *TransactionInput) { in.Amount = 999999.99 }},
		{"description of exactly 3 chars", func(in *TransactionInput) { in.Description = "abc" }},
		{"description of exactly 100 chars", func(in *TransactionInput) { in.Description = strings.Repeat("d", 100) }},
		{"income type", func(in *TransactionInput) { in.Type = "income"; in.Category = "Salary" }},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		if _, err := ValidateTransaction(in, testNow); err != nil {
			t.Fatalf("%s: expected ok, got %v", tc.name, err)
		}
	}
}

func TestValidateTransactionRejects(t *testing.T) {
	cases := []struct {
		name   string
		field  string
		mutate func(*TransactionInput)
	}{
		{"zero amount", "amount", func(in *TransactionInput) { in.Amount = 0 }},
		{"negative amount", "amount", func(in *TransactionInput) { in.Amount = -5 }},
		{"amount over cap", "amount", func(in *TransactionInput) { in.Amount = 1000000 }},
		{"short description", "description", func(in *TransactionInput) { in.Description = "ab" }},
		{"long description", "description", func(in *TransactionInput) { in.Description = strings.Repeat("x", 101) }},
		{"empty category", "category", func(in *TransactionInput) { in.Category = "" }},
		{"long category", "category", func(in *TransactionInput) { in.Category = strings.Repeat("c", 51) }},
		{"transfer type", "type", func(in *TransactionInput) { in.Type = "transfer" }},
		{"future date", "date", func(in *TransactionInput) { in.Date = "2024-03-16" }},
		{"garbage date", "date", func(in *TransactionInput) { in.Date = "not-a-date" }},
		{"missing date", "date", func(in *TransactionInput) { in.Date = "" }},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		_, err := ValidateTransaction(in, testNow)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		ve, ok := AsValidationErrors(err)
		if !ok {
			t.Fatalf("%s: expected ValidationErrors, got %T", tc.name, err)
		}
		if _, present := ve[tc.field]; !present {
			t.Fatalf("%s: expected error on field %q, got %v", tc.name, tc.field, ve)
		}
	}
}

func TestValidateTransactionReportsAllFields(t *testing.T) {
	in := TransactionInput{Amount: 0, Date: "bogus", Description: "no", Type: "transfer", Category: ""}
	_, err := ValidateTransaction(in, testNow)
	ve, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	for _, field := range []string{"amount", "date", "description", "type", "category"} {
		if _, present := ve[field]; !present {
			t.Fatalf("expected error for %s, got %v", field, ve)
		}
	}
}

func TestValidateTransactionNormalizes(t *testing.T) {
	in := validInput()
	in.Amount = 12.346
	in.Description = "  padded description  "
	in.Category = " Food & Dining "
	tx, err := ValidateTransaction(in, testNow)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if tx.Amount.Cents != 1235 {
		t.Fatalf("expected amount rounded to 1235 cents, got %d", tx.Amount.Cents)
	}
	if tx.Description != "padded description" {
		t.Fatalf("expected trimmed description, got %q", tx.Description)
	}
	if tx.Category != "Food & Dining" {
		t.Fatalf("expected trimmed category, got %q", tx.Category)
	}
}

func TestValidateScopedTransaction(t *testing.T) {
	in := validInput()
	in.ProfileID = "p1"
	in.GroupID = "g1"
	tx, err := ValidateScopedTransaction(in, testNow)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if tx.ProfileID != "p1" || tx.GroupID != "g1" {
		t.Fatalf("scope not carried: %+v", tx)
	}

	in.GroupID = ""
	_, err = ValidateScopedTransaction(in, testNow)
	ve, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if _, present := ve["groupId"]; !present {
		t.Fatalf("expected groupId error, got %v", ve)
	}

	// Scope errors merge with field errors instead of replacing them.
	in.Amount = 0
	in.ProfileID = ""
	_, err = ValidateScopedTransaction(in, testNow)
	ve, _ = AsValidationErrors(err)
	for _, field := range []string{"amount", "profileId", "groupId"} {
		if _, present := ve[field]; !present {
			t.Fatalf("expected %s error, got %v", field, ve)
		}
	}
}
