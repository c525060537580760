// Package scheduler runs the periodic job that promotes due scheduled
// posts into live posts.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"tidepool/internal/observability"
	"tidepool/internal/repository"
)

// Promoter periodically converts scheduled posts whose due time has passed
// into live posts. It runs independently of request traffic.
type Promoter struct {
	repo     repository.ScheduledPostRepository
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewPromoter creates a Promoter ticking at the given interval.
func NewPromoter(repo repository.ScheduledPostRepository, interval time.Duration, logger *slog.Logger) *Promoter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Promoter{
		repo:     repo,
		interval: interval,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run blocks, promoting due rows every interval until ctx is canceled.
func (p *Promoter) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("scheduled-post promoter started", slog.Duration("interval", p.interval))
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("scheduled-post promoter stopped")
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce promotes every currently-due scheduled post. Each row is one
// transaction; a row whose promotion fails is logged and skipped so the
// rest of the batch still goes through. An empty selection is a no-op.
func (p *Promoter) RunOnce(ctx context.Context) (promoted, failed int) {
	due, err := p.repo.ListDue(ctx, p.now())
	if err != nil {
		p.logger.ErrorContext(ctx, "listing due scheduled posts failed", slog.String("error", err.Error()))
		return 0, 0
	}
	if len(due) == 0 {
		return 0, 0
	}

	for _, sp := range due {
		post, err := p.repo.Promote(ctx, sp)
		if err != nil {
			failed++
			observability.FailedPromotions.Inc()
			p.logger.ErrorContext(ctx, "promotion failed, skipping row",
				slog.Uint64("scheduled_post_id", uint64(sp.ID)),
				slog.String("title", sp.Title),
				slog.String("error", err.Error()),
			)
			continue
		}
		promoted++
		observability.PromotedScheduledPosts.Inc()
		p.logger.InfoContext(ctx, "scheduled post promoted",
			slog.Uint64("scheduled_post_id", uint64(sp.ID)),
			slog.Uint64("post_id", uint64(post.ID)),
			slog.String("title", post.Title),
		)
	}
	return promoted, failed
}
