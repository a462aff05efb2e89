package gateway

import (
	"context"
	"strings"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/revalidate"
)

// CreateProject adds a project with the default workflow of statuses
func (g *Gateway) CreateProject(ctx context.Context, in *models.Project) (*models.Project, error) {
	const op = "create project"
	name, err := validateName(in.Name)
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	p := *in
	p.Name = name
	p.Description = strings.TrimSpace(in.Description)

	created, err := g.store.CreateProject(ctx, &p)
	if err != nil {
		return nil, g.fail(op, err, "client does not exist")
	}

	g.changed(
		[]events.Event{events.NewChange("projects", events.OpInsert, keys("id", created.ID, "client_id", created.ClientID))},
		revalidate.DashboardPath,
	)
	return created, nil
}
