package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetguru/assets"
	"budgetguru/internal/config"
	"budgetguru/internal/core"
	"budgetguru/internal/services"
	"budgetguru/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithLimit(t, 1000)
}

func newTestServerWithLimit(t *testing.T, perMinute int) *Server {
	t.Helper()
	catalog, err := assets.Categories()
	if err != nil {
		t.Fatalf("load categories: %v", err)
	}
	cfg := &config.Config{
		Port:               "8080",
		AppEnv:             config.EnvProduction,
		RateLimitPerMinute: perMinute,
	}
	srv := NewServer(cfg, services.NewFinanceService(memory.New(), nil), catalog)
	t.Cleanup(func() { srv.limiter.stop() })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func validTransactionBody() map[string]any {
	return map[string]any{
		"amount":      75.50,
		"date":        "2024-03-10",
		"description": "Weekly groceries",
		"type":        "expense",
		"category":    "Food",
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, srv, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s = %d, want 200", path, rec.Code)
		}
	}
}

func TestCreateTransaction(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", validTransactionBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[core.Transaction](t, rec)
	if created.ID == "" || created.Amount.Cents != 7550 {
		t.Errorf("created = %+v", created)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]any{
		"amount":      -5,
		"date":        "not-a-date",
		"description": "ab",
		"type":        "transfer",
		"category":    "",
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"amount", "date", "description", "type", "category"} {
		if resp.Details[field] == "" {
			t.Errorf("missing %s in details: %v", field, resp.Details)
		}
	}
}

func TestCreateTransactionBadBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/transactions", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", validTransactionBody())
	created := decodeBody[core.Transaction](t, rec)

	update := validTransactionBody()
	update["description"] = "Monthly groceries"
	rec = doJSON(t, srv, http.MethodPut, "/api/transactions/"+created.ID, update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[core.Transaction](t, rec)
	if updated.Description != "Monthly groceries" {
		t.Errorf("Description = %q", updated.Description)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	srv := newTestServer(t)

	first := validTransactionBody()
	first["description"] = "First entry"
	second := validTransactionBody()
	second["description"] = "Second entry"
	doJSON(t, srv, http.MethodPost, "/api/transactions", first)
	doJSON(t, srv, http.MethodPost, "/api/transactions", second)

	rec := doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list := decodeBody[[]core.Transaction](t, rec)
	if len(list) != 2 {
		t.Fatalf("got %d transactions", len(list))
	}
	if list[0].Description != "Second entry" {
		t.Errorf("order wrong: %+v", list)
	}
}

func TestProfileTransactionsRequireScope(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/profile-transactions", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	body := validTransactionBody()
	rec = doJSON(t, srv, http.MethodPost, "/api/profile-transactions", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unscoped create status = %d, want 400", rec.Code)
	}

	body["profileId"] = "p1"
	body["groupId"] = "g1"
	rec = doJSON(t, srv, http.MethodPost, "/api/profile-transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("scoped create status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/profile-transactions?profileId=p1", nil)
	list := decodeBody[[]core.Transaction](t, rec)
	if len(list) != 1 || list[0].ProfileID != "p1" {
		t.Errorf("profile listing = %+v", list)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/profile-transactions?viewMode=group&groupId=g1", nil)
	list = decodeBody[[]core.Transaction](t, rec)
	if len(list) != 1 {
		t.Errorf("group listing = %+v", list)
	}

	// The flat ledger does not see partitioned rows.
	rec = doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
	list = decodeBody[[]core.Transaction](t, rec)
	if len(list) != 0 {
		t.Errorf("flat listing = %+v, want empty", list)
	}
}

func TestBudgetReplaceAndOverview(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/budgets", []map[string]any{
		{"category": "Food", "amount": 100},
		{"category": "Transport", "amount": 50},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("replace status = %d, body %s", rec.Code, rec.Body.String())
	}

	doJSON(t, srv, http.MethodPost, "/api/transactions", validTransactionBody())

	rec = doJSON(t, srv, http.MethodGet, "/api/budgets?month=2024-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("overview status = %d", rec.Code)
	}
	statuses := decodeBody[[]core.BudgetStatus](t, rec)
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses", len(statuses))
	}
	for _, st := range statuses {
		if st.Category == "Food" {
			if st.Spent.Cents != 7550 || st.Remaining.Cents != 2450 || st.Percentage != 75.5 {
				t.Errorf("Food status = %+v", st)
			}
		}
	}

	// Replacement removes budgets missing from the new set.
	rec = doJSON(t, srv, http.MethodPost, "/api/budgets", []map[string]any{
		{"category": "Rent", "amount": 1200},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second replace status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/budgets?month=2024-03", nil)
	statuses = decodeBody[[]core.BudgetStatus](t, rec)
	if len(statuses) != 1 || statuses[0].Category != "Rent" {
		t.Errorf("after replace = %+v", statuses)
	}
}

func TestBudgetDuplicateCategoryConflict(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/budgets", []map[string]any{
		{"category": "Food", "amount": 100},
		{"category": "  food ", "amount": 50},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body %s", rec.Code, rec.Body.String())
	}
}

func TestProfileBudgets(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/profile-budgets", map[string]any{
		"profileId": "p1",
		"groupId":   "g1",
		"budgets": []map[string]any{
			{"category": "Food", "amount": 200},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	budgets := decodeBody[[]core.Budget](t, rec)
	if budgets[0].ProfileID != "p1" || budgets[0].GroupID != "g1" {
		t.Errorf("budget not stamped: %+v", budgets[0])
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/profile-budgets?profileId=p1&month=2024-03", nil)
	statuses := decodeBody[[]core.BudgetStatus](t, rec)
	if len(statuses) != 1 {
		t.Errorf("overview = %+v", statuses)
	}

	// Another profile sees nothing.
	rec = doJSON(t, srv, http.MethodGet, "/api/profile-budgets?profileId=p2&month=2024-03", nil)
	statuses = decodeBody[[]core.BudgetStatus](t, rec)
	if len(statuses) != 0 {
		t.Errorf("p2 overview = %+v, want empty", statuses)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/budgets", []map[string]any{
		{"category": "Food", "amount": 100},
	})
	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"amount": 95.0, "date": "2024-03-10", "description": "Weekly groceries",
		"type": "expense", "category": "Food",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/insights?month=2024-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	insights := decodeBody[[]core.Insight](t, rec)
	if len(insights) == 0 || insights[0].Title != "Food Budget Alert" {
		t.Errorf("insights = %+v", insights)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"amount": 3000.0, "date": "2024-03-01", "description": "March salary",
		"type": "income", "category": "Salary",
	})
	doJSON(t, srv, http.MethodPost, "/api/transactions", validTransactionBody())

	rec := doJSON(t, srv, http.MethodGet, "/api/stats?month=2024-03", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	stats := decodeBody[core.MonthlyStats](t, rec)
	if stats.MonthIncome.Cents != 300000 || stats.MonthExpenses.Cents != 7550 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	catalog := decodeBody[assets.CategoryCatalog](t, rec)
	found := false
	for _, c := range catalog.Expense {
		if c == "Groceries" {
			found = true
		}
	}
	if !found || len(catalog.Income) == 0 {
		t.Errorf("catalog = %+v", catalog)
	}
}

func TestGroupsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/profiles", map[string]any{
		"name": "Casa",
		"type": "family",
		"profiles": []map[string]any{
			{"name": "Ana"},
			{"name": "Luis", "color": "#00FF00"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[core.Group](t, rec)
	if created.Profiles[0].Color != core.DefaultProfileColor {
		t.Errorf("default color missing: %+v", created.Profiles[0])
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/profiles", nil)
	groups := decodeBody[[]core.Group](t, rec)
	if len(groups) != 1 || len(groups[0].Profiles) != 2 {
		t.Errorf("groups = %+v", groups)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/profiles", map[string]any{
		"name": "", "type": "club",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid group status = %d, want 400", rec.Code)
	}
}

func TestRateLimitOnMutations(t *testing.T) {
	srv := newTestServerWithLimit(t, 2)

	var last int
	for i := 0; i < 3; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/transactions", validTransactionBody())
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third mutation status = %d, want 429", last)
	}

	// Reads are never limited.
	for i := 0; i < 5; i++ {
		rec := doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("read %d status = %d", i, rec.Code)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestListCapAtLimit(t *testing.T) {
	srv := newTestServer(t)
	for i := 0; i < 3; i++ {
		body := validTransactionBody()
		body["description"] = fmt.Sprintf("Entry number %d", i)
		doJSON(t, srv, http.MethodPost, "/api/transactions", body)
	}
	rec := doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
	list := decodeBody[[]core.Transaction](t, rec)
	if len(list) != 3 {
		t.Errorf("got %d rows", len(list))
	}
}
