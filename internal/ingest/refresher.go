package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/AngelCh415/sellerdash/internal/models"
	"github.com/AngelCh415/sellerdash/internal/utils"
)

// OrderSink receives each freshly fetched batch, keyed by the caller token it
// was fetched with ("" for the configured API token).
type OrderSink interface {
	ReplaceOrders(key string, orders []models.Order)
}

// Refresher re-fetches orders on a fixed interval. A failed round keeps the
// previous batch.
type Refresher struct {
	c        *Client
	sink     OrderSink
	interval time.Duration
	log      *slog.Logger
}

func NewRefresher(c *Client, sink OrderSink, interval time.Duration, log *slog.Logger) *Refresher {
	return &Refresher{c: c, sink: sink, interval: interval, log: log}
}

// RefreshOnce fetches and stores one batch.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	orders, err := r.c.Orders(ctx)
	if err != nil {
		utils.RefreshFailures.Inc()
		r.log.Error("orders refresh failed", slog.String("err", err.Error()))
		return err
	}
	r.sink.ReplaceOrders(TokenFrom(ctx), orders)
	r.log.Info("orders refreshed", slog.Int("count", len(orders)))
	return nil
}

// Run blocks until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_ = r.RefreshOnce(ctx)
		}
	}
}
