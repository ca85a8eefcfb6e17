package cli

import (
	"context"
	"time"

	"github.com/law-makers/reviews/internal/app"
	"github.com/law-makers/reviews/internal/config"
	"github.com/law-makers/reviews/internal/engine"
)

// closeTimeout bounds application shutdown after a run
const closeTimeout = 5 * time.Second

// runtime is what a scrape needs from the application
type runtime struct {
	fetcher engine.Fetcher
	dynamic bool
	close   func()
}

// openRuntime initializes the application for cfg. Tests swap it for a
// runtime serving canned pages.
var openRuntime = func(ctx context.Context, cfg *config.Config) (*runtime, error) {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &runtime{
		fetcher: a.Fetcher,
		dynamic: a.Fetcher.DynamicAvailable(),
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			_ = a.Close(ctx)
		},
	}, nil
}
