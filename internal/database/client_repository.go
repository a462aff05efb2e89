package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thenoetrevino/studio/internal/models"
)

// ClientRepo handles clients and their contracts.
type ClientRepo struct {
	db *sql.DB
}

// CreateClient inserts a client
func (r *ClientRepo) CreateClient(ctx context.Context, name, email string) (*models.Client, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO clients (name, email) VALUES (?, ?)`, name, email)
	if err != nil {
		return nil, fmt.Errorf("failed to insert client '%s': %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get client ID after insert: %w", err)
	}
	return r.GetClientByID(ctx, int(id))
}

// GetClientByID retrieves a client by its ID
func (r *ClientRepo) GetClientByID(ctx context.Context, id int) (*models.Client, error) {
	c := &models.Client{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err, "client", id)
	}
	return c, nil
}

// ListClients retrieves every client ordered by name
func (r *ClientRepo) ListClients(ctx context.Context) ([]*models.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, created_at FROM clients ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer closeRows(rows)

	clients := make([]*models.Client, 0)
	for rows.Next() {
		c := &models.Client{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// CreateContract inserts a contract. Months are stored as YYYY-MM.
func (r *ClientRepo) CreateContract(ctx context.Context, c *models.Contract) (*models.Contract, error) {
	status := c.Status
	if status == "" {
		status = "active"
	}
	var end any
	if c.EndMonth != nil {
		end = formatMonth(*c.EndMonth)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contracts (client_id, title, status, start_month, end_month, monthly_fee_cents)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ClientID, c.Title, status, formatMonth(c.StartMonth), end, c.MonthlyFeeCents,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contract '%s': %w", c.Title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get contract ID after insert: %w", err)
	}

	out := *c
	out.ID = int(id)
	out.Status = status
	out.StartMonth = models.FirstOfMonth(c.StartMonth)
	if c.EndMonth != nil {
		e := models.FirstOfMonth(*c.EndMonth)
		out.EndMonth = &e
	}
	return &out, nil
}

// ListContracts retrieves contracts ordered by start month. A Month filter keeps the
// contracts whose [start_month, end_month] range overlaps that month; YYYY-MM strings
// compare correctly as text.
func (r *ClientRepo) ListContracts(ctx context.Context, filter models.ContractFilter) ([]*models.Contract, error) {
	var (
		where []string
		args  []any
	)
	if filter.ClientID != 0 {
		where = append(where, "client_id = ?")
		args = append(args, filter.ClientID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where = append(where, `title LIKE ? ESCAPE '\'`)
		args = append(args, containsLike(filter.Search))
	}
	if filter.Month != nil {
		m := formatMonth(*filter.Month)
		where = append(where, "start_month <= ? AND (end_month IS NULL OR end_month >= ?)")
		args = append(args, m, m)
	}

	query := `SELECT id, client_id, title, status, start_month, end_month, monthly_fee_cents FROM contracts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_month, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer closeRows(rows)

	contracts := make([]*models.Contract, 0)
	for rows.Next() {
		var (
			c     models.Contract
			start string
			end   sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.ClientID, &c.Title, &c.Status, &start, &end, &c.MonthlyFeeCents); err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		if c.StartMonth, err = parseMonth(start); err != nil {
			return nil, fmt.Errorf("contract %d has invalid start month: %w", c.ID, err)
		}
		if end.Valid {
			e, err := parseMonth(end.String)
			if err != nil {
				return nil, fmt.Errorf("contract %d has invalid end month: %w", c.ID, err)
			}
			c.EndMonth = &e
		}
		contracts = append(contracts, &c)
	}
	return contracts, rows.Err()
}
