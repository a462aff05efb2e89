package gateway

import (
	"context"
	"strings"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
)

// CreateUser adds a workspace member
func (g *Gateway) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	const op = "create user"
	name, err := validateName(name)
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	u, err := g.store.CreateUser(ctx, name, strings.TrimSpace(email))
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	g.changed([]events.Event{events.NewChange("users", events.OpInsert, keys("id", u.ID))})
	return u, nil
}

// CreateTag adds a tag
func (g *Gateway) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	const op = "create tag"
	name, err := validateName(name)
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	t, err := g.store.CreateTag(ctx, name, strings.TrimSpace(color))
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	g.changed([]events.Event{events.NewChange("tags", events.OpInsert, keys("id", t.ID))})
	return t, nil
}
