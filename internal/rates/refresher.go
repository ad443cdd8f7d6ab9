package rates

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher periodically re-fetches exchange rates so aggregation requests
// never wait on the rate service.
type Refresher struct {
	cron    *cron.Cron
	client  *Client
	sources []string
	log     *slog.Logger
}

// NewRefresher schedules a rate refresh for each source currency every
// interval. The first refresh happens on Start.
func NewRefresher(
	client *Client,
	sources []string,
	interval time.Duration,
	log *slog.Logger,
) (*Refresher, error) {
	c := cron.New()

	r := &Refresher{
		cron:    c,
		client:  client,
		sources: sources,
		log:     log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), r.refreshAll); err != nil {
		return nil, err
	}

	return r, nil
}

// Start warms the cache once, then begins the periodic refresh.
func (r *Refresher) Start() {
	r.refreshAll()
	r.cron.Start()
	r.log.Info("rate refresher started", "sources", r.sources)
}

// Stop gracefully stops the refresher, waiting for a running refresh to finish.
func (r *Refresher) Stop() context.Context {
	r.log.Info("rate refresher stopping")
	return r.cron.Stop()
}

func (r *Refresher) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), totalTimeout)
	defer cancel()

	for _, source := range r.sources {
		if err := r.client.Refresh(ctx, source); err != nil {
			// Conversion falls back to the cached or default rate, so a
			// failed warmup is log-only.
			r.log.Warn("scheduled rate refresh failed", "source", source, "error", err)
		}
	}
}
