package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/repository"
	"go.uber.org/zap"
)

// DefaultRecentVisits is how many visits the admin panel shows.
const DefaultRecentVisits = 100

var ErrVisitorNotFound = errors.New("visitor event not found")

// VisitInput describes one page view.
type VisitInput struct {
	Page      string
	UserAgent string
	Referrer  string
}

// VisitorService 记录页面访问并负责按保留期清理。
type VisitorService struct {
	store  *repository.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewVisitorService creates a VisitorService instance.
func NewVisitorService(store *repository.Store, logger *zap.Logger) *VisitorService {
	return &VisitorService{store: store, logger: orNop(logger), now: time.Now}
}

// WithClock 允许在测试中替换当前时间。
func (s *VisitorService) WithClock(now func() time.Time) *VisitorService {
	if now != nil {
		s.now = now
	}
	return s
}

// Record appends one visit. Over-long fields are truncated to the column size.
func (s *VisitorService) Record(ctx context.Context, input VisitInput) error {
	page := truncate(input.Page, 255)
	if page == "" {
		page = "/"
	}
	event := db.VisitorEvent{
		PageVisited: page,
		UserAgent:   truncate(input.UserAgent, 500),
		Referrer:    truncate(input.Referrer, 500),
	}
	if err := s.store.Visitors.Insert(ctx, &event); err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// Recent returns the newest visits; limit <= 0 means DefaultRecentVisits.
func (s *VisitorService) Recent(ctx context.Context, limit int) ([]db.VisitorEvent, error) {
	if limit <= 0 {
		limit = DefaultRecentVisits
	}
	return s.store.Visitors.List(ctx, repository.ListOptions{
		OrderBy: []repository.Order{{Field: "created_at", Desc: true}},
		Limit:   limit,
	})
}

// Delete removes one visit.
func (s *VisitorService) Delete(ctx context.Context, id string) error {
	if err := s.store.Visitors.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrVisitorNotFound)
	}
	return nil
}

// Purge deletes visits recorded before cutoff.
func (s *VisitorService) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	removed, err := s.store.Visitors.DeleteWhere(ctx, "created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge visitors: %w", err)
	}
	return removed, nil
}

// RunRetention purges visits older than retention once immediately and then
// every interval, until ctx is cancelled.
func (s *VisitorService) RunRetention(ctx context.Context, interval, retention time.Duration) {
	if interval <= 0 || retention <= 0 {
		s.logger.Warn("visitor retention disabled",
			zap.Duration("interval", interval), zap.Duration("retention", retention))
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.purgeOnce(ctx, retention)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *VisitorService) purgeOnce(ctx context.Context, retention time.Duration) {
	cutoff := s.now().Add(-retention)
	removed, err := s.Purge(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("visitor retention failed", zap.Error(err))
		}
		return
	}
	if removed > 0 {
		s.logger.Info("visitor retention purged events",
			zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
	}
}
