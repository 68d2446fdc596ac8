package service

import (
	"context"
	"fmt"

	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/repository"
	"gorm.io/gorm"
)

// Dashboard is the admin panel's view of all six collections.
type Dashboard struct {
	Projects []db.Project        `json:"projects"`
	Skills   []db.Skill          `json:"skills"`
	Blogs    []db.BlogPost       `json:"blogs"`
	Comments []db.Comment        `json:"comments"`
	Messages []db.ContactMessage `json:"messages"`
	Visitors []db.VisitorEvent   `json:"visitors"`
}

func emptyDashboard() *Dashboard {
	return &Dashboard{
		Projects: []db.Project{},
		Skills:   []db.Skill{},
		Blogs:    []db.BlogPost{},
		Comments: []db.Comment{},
		Messages: []db.ContactMessage{},
		Visitors: []db.VisitorEvent{},
	}
}

// DashboardService 在同一个事务中读取后台面板需要的全部集合。
type DashboardService struct {
	store *repository.Store
}

// NewDashboardService creates a DashboardService instance.
func NewDashboardService(store *repository.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Snapshot reads every collection at one consistency point. Projects and
// skills are the raw stored rows, not the reconciled display lists. On failure
// every list is empty and the error is returned alongside.
func (s *DashboardService) Snapshot(ctx context.Context) (*Dashboard, error) {
	result := emptyDashboard()

	err := repository.Snapshot(ctx, s.store.DB(), func(tx *gorm.DB) error {
		store := s.store.WithDB(tx)
		next := emptyDashboard()
		var err error

		if next.Projects, err = NewProjectService(store, nil).List(ctx); err != nil {
			return err
		}
		if next.Skills, err = NewSkillService(store, nil).List(ctx); err != nil {
			return err
		}
		if next.Blogs, err = NewBlogService(store, nil).ListAll(ctx); err != nil {
			return err
		}
		if next.Comments, err = NewCommentService(store).List(ctx); err != nil {
			return err
		}
		if next.Messages, err = NewMessageService(store).List(ctx); err != nil {
			return err
		}
		if next.Visitors, err = NewVisitorService(store, nil).Recent(ctx, DefaultRecentVisits); err != nil {
			return err
		}

		result = next
		return nil
	})
	if err != nil {
		return emptyDashboard(), fmt.Errorf("dashboard snapshot: %w", err)
	}
	return result, nil
}
