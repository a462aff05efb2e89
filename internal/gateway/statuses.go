package gateway

import (
	"context"
	"strings"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/revalidate"
)

// msgStatusInUse is shown when the store refuses to delete a status tasks still reference
const msgStatusInUse = "status still has tasks; move or delete them first"

func (g *Gateway) statusChanged(op events.Op, s *models.Status) {
	g.changed(
		[]events.Event{events.NewChange("statuses", op, keys("id", s.ID, "project_id", s.ProjectID))},
		revalidate.BoardPath(s.ProjectID), revalidate.DashboardPath,
	)
}

// statusRef loads the status a write addresses
func (g *Gateway) statusRef(ctx context.Context, op string, id int) (*models.Status, error) {
	if err := validateIDs(id); err != nil {
		return nil, g.fail(op, err, "")
	}
	s, err := g.store.GetStatusByID(ctx, id)
	if err != nil {
		return nil, g.fail(op, err, "")
	}
	return s, nil
}

// CreateStatus appends a status to a project's workflow
func (g *Gateway) CreateStatus(ctx context.Context, projectID int, name, color string) (*models.Status, error) {
	const op = "create status"
	if err := validateIDs(projectID); err != nil {
		return nil, g.fail(op, err, "")
	}
	name, err := validateName(name)
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	s, err := g.store.CreateStatus(ctx, projectID, name, strings.TrimSpace(color))
	if err != nil {
		return nil, g.fail(op, err, "project does not exist")
	}

	g.statusChanged(events.OpInsert, s)
	return s, nil
}

// RenameStatus changes a status name
func (g *Gateway) RenameStatus(ctx context.Context, id int, name string) error {
	const op = "rename status"
	name, err := validateName(name)
	if err != nil {
		return g.fail(op, err, "")
	}
	s, err := g.statusRef(ctx, op, id)
	if err != nil {
		return err
	}

	if err := g.store.RenameStatus(ctx, id, name); err != nil {
		return g.fail(op, err, "")
	}

	s.Name = name
	g.statusChanged(events.OpUpdate, s)
	return nil
}

// SetDefaultStatus makes a status the one new tasks land in. The previous default
// is cleared first in a separate statement.
func (g *Gateway) SetDefaultStatus(ctx context.Context, id int) error {
	const op = "set default status"
	s, err := g.statusRef(ctx, op, id)
	if err != nil {
		return err
	}

	if err := g.store.SetDefaultStatus(ctx, id); err != nil {
		return g.fail(op, err, "")
	}

	g.statusChanged(events.OpUpdate, s)
	return nil
}

// DeleteStatus removes a status. The store refuses while tasks still reference it,
// which surfaces as a conflict.
func (g *Gateway) DeleteStatus(ctx context.Context, id int) error {
	const op = "delete status"
	s, err := g.statusRef(ctx, op, id)
	if err != nil {
		return err
	}

	if err := g.store.DeleteStatus(ctx, id); err != nil {
		return g.fail(op, err, msgStatusInUse)
	}

	g.statusChanged(events.OpDelete, s)
	return nil
}
