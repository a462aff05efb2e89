package cli

import (
	"context"

	"github.com/thenoetrevino/studio/internal/app"
	"github.com/thenoetrevino/studio/internal/config"
)

type appKey struct{}

// WithApp returns a context carrying an already built App. Commands run with it use
// that App instead of opening the workspace.
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// GetCLIFromContext returns a CLI over the App carried by ctx, or opens one
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if a, ok := ctx.Value(appKey{}).(*app.App); ok && a != nil {
		return &CLI{App: a, Config: config.Default()}, nil
	}
	return NewCLI(ctx)
}
