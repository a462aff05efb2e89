package gateway

import (
	"context"
	"strings"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/models"
	"github.com/thenoetrevino/studio/internal/revalidate"
)

// CreateClient adds a client
func (g *Gateway) CreateClient(ctx context.Context, name, email string) (*models.Client, error) {
	const op = "create client"
	name, err := validateName(name)
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	c, err := g.store.CreateClient(ctx, name, strings.TrimSpace(email))
	if err != nil {
		return nil, g.fail(op, err, "")
	}

	g.changed([]events.Event{events.NewChange("clients", events.OpInsert, keys("id", c.ID))}, revalidate.ContractsPath)
	return c, nil
}

// CreateContract adds a contract to a client. Months are truncated to the first of the month.
func (g *Gateway) CreateContract(ctx context.Context, in *models.Contract) (*models.Contract, error) {
	const op = "create contract"
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, g.fail(op, err, "")
	}
	if err := validateIDs(in.ClientID); err != nil {
		return nil, g.fail(op, err, "")
	}
	start := in.StartMonth
	if start.IsZero() {
		start = g.now()
	}

	c := *in
	c.Title = title
	c.StartMonth = models.FirstOfMonth(start)
	if in.EndMonth != nil {
		end := models.FirstOfMonth(*in.EndMonth)
		if end.Before(c.StartMonth) {
			return nil, g.fail(op, ErrInvalidMonthRange, "")
		}
		c.EndMonth = &end
	}

	created, err := g.store.CreateContract(ctx, &c)
	if err != nil {
		return nil, g.fail(op, err, "client does not exist")
	}

	g.changed(
		[]events.Event{events.NewChange("contracts", events.OpInsert, keys("id", created.ID, "client_id", created.ClientID))},
		revalidate.ContractsPath, revalidate.DashboardPath,
	)
	return created, nil
}
