// Package sqlite implements the store ports on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"budgetguru/internal/core"
	"budgetguru/internal/store"

	_ "modernc.org/sqlite"
)

// Repository persists the finance ledger in a single SQLite file.
type Repository struct {
	db *sql.DB
}

var _ store.Store = (*Repository)(nil)

// New opens (creating if needed) the database at dbPath and runs migrations.
func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// scopeClause turns a scope into a WHERE fragment over the profile_id and
// group_id columns. A global scope addresses rows stamped with neither.
func scopeClause(scope core.Scope) (string, []any) {
	switch scope.Mode {
	case core.ScopeIndividual:
		return "profile_id = ?", []any{scope.ProfileID}
	case core.ScopeGroup:
		return "group_id = ?", []any{scope.GroupID}
	default:
		return "profile_id = '' AND group_id = ''", nil
	}
}

func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (amount_cents, date, description, type, category, profile_id, group_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.Amount.Cents, tx.Date, tx.Description, string(tx.Type), tx.Category, tx.ProfileID, tx.GroupID, now)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	tx.ID = strconv.FormatInt(id, 10)
	tx.CreatedAt = now
	tx.Version = 1
	return tx, nil
}

const transactionColumns = "id, amount_cents, date, description, type, category, profile_id, group_id, version, created_at"

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		tx core.Transaction
		id int64
	)
	err := row.Scan(&id, &tx.Amount.Cents, &tx.Date, &tx.Description, &tx.Type, &tx.Category, &tx.ProfileID, &tx.GroupID, &tx.Version, &tx.CreatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.ID = strconv.FormatInt(id, 10)
	return tx, nil
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *Repository) ListTransactions(ctx context.Context, scope core.Scope, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	clause, args := scopeClause(scope)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE `+clause+`
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, date = ?, description = ?, type = ?, category = ?, profile_id = ?, group_id = ?,
		    sync_status = 'pending', sync_error = '', version = version + 1
		WHERE id = ?`,
		tx.Amount.Cents, tx.Date, tx.Description, string(tx.Type), tx.Category, tx.ProfileID, tx.GroupID, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n == 0 {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return r.GetTransaction(ctx, id)
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (r *Repository) ListBudgets(ctx context.Context, scope core.Scope) ([]core.Budget, error) {
	clause, args := scopeClause(scope)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, amount_cents, profile_id, group_id, created_at
		FROM budgets
		WHERE `+clause+`
		ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := make([]core.Budget, 0)
	for rows.Next() {
		var (
			b  core.Budget
			id int64
		)
		if err := rows.Scan(&id, &b.Category, &b.Amount.Cents, &b.ProfileID, &b.GroupID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.ID = strconv.FormatInt(id, 10)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

// ReplaceBudgets deletes every budget under the scope and inserts the new set
// in one database transaction. Individual replacements delete by profile so a
// profile's set has a single owner.
func (r *Repository) ReplaceBudgets(ctx context.Context, scope core.Scope, budgets []core.Budget) ([]core.Budget, error) {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace budgets: %w", err)
	}
	defer dbtx.Rollback()

	clause, args := scopeClause(scope)
	if _, err := dbtx.ExecContext(ctx, `DELETE FROM budgets WHERE `+clause, args...); err != nil {
		return nil, fmt.Errorf("clear budgets: %w", err)
	}

	now := time.Now().UTC()
	out := make([]core.Budget, 0, len(budgets))
	for _, b := range budgets {
		res, err := dbtx.ExecContext(ctx, `
			INSERT INTO budgets (category, amount_cents, profile_id, group_id, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			b.Category, b.Amount.Cents, b.ProfileID, b.GroupID, now)
		if err != nil {
			return nil, fmt.Errorf("insert budget %q: %w", b.Category, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("budget id: %w", err)
		}
		b.ID = strconv.FormatInt(id, 10)
		b.CreatedAt = now
		out = append(out, b)
	}

	if err := dbtx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace budgets: %w", err)
	}
	return out, nil
}

func (r *Repository) CreateGroup(ctx context.Context, g core.Group) (core.Group, error) {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Group{}, fmt.Errorf("begin create group: %w", err)
	}
	defer dbtx.Rollback()

	now := time.Now().UTC()
	res, err := dbtx.ExecContext(ctx, `INSERT INTO groups (name, type, created_at) VALUES (?, ?, ?)`,
		g.Name, string(g.Type), now)
	if err != nil {
		return core.Group{}, fmt.Errorf("insert group: %w", err)
	}
	groupID, err := res.LastInsertId()
	if err != nil {
		return core.Group{}, fmt.Errorf("group id: %w", err)
	}
	g.ID = strconv.FormatInt(groupID, 10)
	g.CreatedAt = now

	for i := range g.Profiles {
		p := &g.Profiles[i]
		res, err := dbtx.ExecContext(ctx, `INSERT INTO profiles (group_id, name, avatar, color, created_at) VALUES (?, ?, ?, ?, ?)`,
			groupID, p.Name, p.Avatar, p.Color, now)
		if err != nil {
			return core.Group{}, fmt.Errorf("insert profile %q: %w", p.Name, err)
		}
		profileID, err := res.LastInsertId()
		if err != nil {
			return core.Group{}, fmt.Errorf("profile id: %w", err)
		}
		p.ID = strconv.FormatInt(profileID, 10)
		p.GroupID = g.ID
		p.CreatedAt = now
	}

	if err := dbtx.Commit(); err != nil {
		return core.Group{}, fmt.Errorf("commit create group: %w", err)
	}
	return g, nil
}

func (r *Repository) ListGroups(ctx context.Context) ([]core.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, type, created_at FROM groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	out := make([]core.Group, 0)
	for rows.Next() {
		var (
			g  core.Group
			id int64
		)
		if err := rows.Scan(&id, &g.Name, &g.Type, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		g.ID = strconv.FormatInt(id, 10)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	for i := range out {
		profiles, err := r.listProfiles(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Profiles = profiles
	}
	return out, nil
}

func (r *Repository) listProfiles(ctx context.Context, groupID string) ([]core.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, group_id, name, avatar, color, created_at FROM profiles WHERE group_id = ? ORDER BY id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	out := make([]core.Profile, 0)
	for rows.Next() {
		var (
			p       core.Profile
			id, gid int64
		)
		if err := rows.Scan(&id, &gid, &p.Name, &p.Avatar, &p.Color, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p.ID = strconv.FormatInt(id, 10)
		p.GroupID = strconv.FormatInt(gid, 10)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return out, nil
}

func (r *Repository) ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE sync_status = 'pending'
		ORDER BY id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	return out, nil
}

func (r *Repository) MarkExported(ctx context.Context, id string, ref string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'synced', sync_ref = ?, sync_error = '' WHERE id = ?`, ref, id)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (r *Repository) MarkExportError(ctx context.Context, id string, cause string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET sync_status = 'error', sync_error = ? WHERE id = ?`, cause, id)
	if err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return nil
}
