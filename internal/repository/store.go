package repository

import (
	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

// Store groups the six content collections over one connection.
type Store struct {
	db       *gorm.DB
	Projects *Collection[db.Project]
	Skills   *Collection[db.Skill]
	Blogs    *Collection[db.BlogPost]
	Comments *Collection[db.Comment]
	Messages *Collection[db.ContactMessage]
	Visitors *Collection[db.VisitorEvent]
}

// NewStore wires every collection with its queryable columns.
func NewStore(gdb *gorm.DB) *Store {
	return &Store{
		db: gdb,
		Projects: NewCollection[db.Project](gdb, db.CollectionProjects,
			"title", "description", "image_url", "details", "link_url", "code_url", "variant"),
		Skills: NewCollection[db.Skill](gdb, db.CollectionSkills,
			"name", "category", "icon_url", "level"),
		Blogs: NewCollection[db.BlogPost](gdb, db.CollectionBlogs,
			"title", "excerpt", "content", "image_url", "is_published"),
		Comments: NewCollection[db.Comment](gdb, db.CollectionComments,
			"name", "message", "is_author", "is_pinned", "is_liked_by_admin", "admin_reply"),
		Messages: NewCollection[db.ContactMessage](gdb, db.CollectionMessages,
			"name", "email", "message"),
		Visitors: NewCollection[db.VisitorEvent](gdb, db.CollectionVisitors,
			"page_visited", "user_agent", "referrer"),
	}
}

// DB exposes the underlying handle for transactions.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithDB rebinds every collection to another handle, typically a transaction.
func (s *Store) WithDB(gdb *gorm.DB) *Store {
	return &Store{
		db:       gdb,
		Projects: s.Projects.WithDB(gdb),
		Skills:   s.Skills.WithDB(gdb),
		Blogs:    s.Blogs.WithDB(gdb),
		Comments: s.Comments.WithDB(gdb),
		Messages: s.Messages.WithDB(gdb),
		Visitors: s.Visitors.WithDB(gdb),
	}
}
