package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/thenoetrevino/studio/internal/models"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// withTx executes a function within a database transaction.
// It automatically handles begin, rollback on error, and commit on success.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("failed to rollback transaction: %v", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Printf("error closing rows: %v", err)
	}
}

// expectAffected turns a zero-row UPDATE or DELETE into ErrNotFound
func expectAffected(res sql.Result, what string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s %d: %w", what, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps anything else
func notFound(err error, what string, id int) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s %d: %w", what, id, err)
}

// nullInt64ToPtr converts sql.NullInt64 to *int.
// Returns nil if the value is not valid.
func nullInt64ToPtr(nv sql.NullInt64) *int {
	if nv.Valid {
		val := int(nv.Int64)
		return &val
	}
	return nil
}

// intPtrToArg converts an optional ID into a driver argument (NULL when nil)
func intPtrToArg(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseDate(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, ns.String)
	if err != nil {
		log.Printf("invalid stored date %q: %v", ns.String, err)
		return nil
	}
	return &t
}

func formatMonth(t time.Time) string {
	return models.FirstOfMonth(t).Format(monthLayout)
}

func parseMonth(s string) (time.Time, error) {
	return time.Parse(monthLayout, s)
}

// likeEscaper escapes the LIKE wildcards so user text matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsLike is a LIKE operand matching any value that contains s. Used with
// ESCAPE '\'.
func containsLike(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// scopeArgs returns the (scope_kind, scope_id) column values for s
func scopeArgs(s models.Scope) (string, int) {
	if s.Kind == "" {
		return string(models.ScopeGlobal), 0
	}
	return string(s.Kind), s.RefID
}

func scopeFrom(kind string, ref int) models.Scope {
	return models.Scope{Kind: models.ScopeKind(kind), RefID: ref}
}
