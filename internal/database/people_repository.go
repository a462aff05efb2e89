package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/studio/internal/models"
)

// PeopleRepo handles users and tags.
type PeopleRepo struct {
	db *sql.DB
}

// CreateUser inserts a user; names are unique
func (r *PeopleRepo) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`, name, email)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user '%s': %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user ID after insert: %w", err)
	}
	return &models.User{ID: int(id), Name: name, Email: email}, nil
}

// ListUsers retrieves every user ordered by name
func (r *PeopleRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email FROM users ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer closeRows(rows)

	users := make([]*models.User, 0)
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateTag inserts a tag; names are unique
func (r *PeopleRepo) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	if color == "" {
		color = models.DefaultStatuses[0].Color
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO tags (name, color) VALUES (?, ?)`, name, color)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tag '%s': %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get tag ID after insert: %w", err)
	}
	return &models.Tag{ID: int(id), Name: name, Color: color}, nil
}

// ListTags retrieves every tag ordered by name
func (r *PeopleRepo) ListTags(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM tags ORDER BY name COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer closeRows(rows)

	tags := make([]*models.Tag, 0)
	for rows.Next() {
		tg := &models.Tag{}
		if err := rows.Scan(&tg.ID, &tg.Name, &tg.Color); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tg)
	}
	return tags, rows.Err()
}
