package bot

import (
	"context"
	"time"

	"zhkh/internal/adapters/telegram"
	perr "zhkh/internal/platform/errors"
	"zhkh/internal/platform/logger"

	"golang.org/x/sync/errgroup"
)

// Poller fetches updates after offset, waiting up to wait for new ones
type Poller interface {
	GetUpdates(ctx context.Context, offset int64, wait time.Duration) ([]telegram.Update, error)
}

// RunOptions tunes the polling loop
type RunOptions struct {
	// Wait is the long poll timeout, 0 means 25s
	Wait time.Duration

	// Workers caps updates handled at once, 0 means 8
	Workers int

	// Backoff is the first pause after a failed poll, doubled up to a minute
	Backoff time.Duration
}

// sleep is a seam so tests do not wait out the backoff
var sleep = func(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Run long polls until ctx ends; a rejected token stops it with an error
func (b *Bot) Run(ctx context.Context, p Poller, o RunOptions) error {
	if o.Wait <= 0 {
		o.Wait = 25 * time.Second
	}
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.Backoff <= 0 {
		o.Backoff = time.Second
	}
	log := logger.Named("bot")
	log.Info().Dur("wait", o.Wait).Int("workers", o.Workers).Msg("bot polling")

	var offset int64
	backoff := o.Backoff
	for ctx.Err() == nil {
		updates, err := p.GetUpdates(ctx, offset, o.Wait)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if perr.IsCode(err, perr.ErrorCodeAuthConfig) {
				return err
			}
			log.Warn().Err(err).Dur("backoff", backoff).Msg("poll failed")
			sleep(ctx, backoff)
			backoff = min(backoff*2, time.Minute)
			continue
		}
		backoff = o.Backoff

		g := &errgroup.Group{}
		g.SetLimit(o.Workers)
		for _, u := range updates {
			offset = max(offset, u.UpdateID+1)
			g.Go(func() error {
				if err := b.Handle(ctx, u); err != nil {
					log.Warn().Err(err).Int64("update_id", u.UpdateID).Msg("reply failed")
				}
				return nil
			})
		}
		_ = g.Wait()
	}
	log.Info().Msg("bot stopped")
	return nil
}
