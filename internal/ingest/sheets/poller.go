package sheets

import (
	"context"
	"errors"
	"time"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
)

// Poller syncs today's sheet tab on a fixed interval. The sheet side has
// no webhooks, so continuous sync is a pull loop.
type Poller struct {
	svc      *Service
	interval time.Duration
}

func NewPoller(svc *Service, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	return &Poller{svc: svc, interval: interval}
}

// Run loops until ctx is cancelled. Missing settings are not an error:
// the loop idles until an admin configures the spreadsheet.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			today := p.svc.now().UTC().Format("2006-01-02")
			added, err := p.svc.SyncOrders(ctx, today)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				// not configured yet
			case err != nil:
				p.svc.lg.Error("sheets_poll_failed", err, map[string]any{"date": today})
			case added > 0:
				p.svc.lg.Info("sheets_poll_added_orders", map[string]any{"date": today, "added": added})
			}
		}
	}
}
