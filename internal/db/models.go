package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection names double as table names.
const (
	CollectionProjects = "projects"
	CollectionSkills   = "skills"
	CollectionBlogs    = "blogs"
	CollectionComments = "comments"
	CollectionMessages = "messages"
	CollectionVisitors = "visitors"
)

// Base carries the opaque string ID and creation time shared by every row.
// Callers may preset ID (reserved project IDs); otherwise a UUID is assigned.
type Base struct {
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// BeforeCreate assigns a UUID when no ID was supplied.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Project 作品集条目。Variant 为空表示历史数据，展示时按标题规则推断。
type Project struct {
	Base
	Title       string    `json:"title" gorm:"size:200"`
	Description string    `json:"description" gorm:"size:500"`
	ImageURL    string    `json:"image_url" gorm:"size:500"`
	Details     string    `json:"details" gorm:"type:text"`
	LinkURL     string    `json:"link_url,omitempty" gorm:"size:500"`
	CodeURL     string    `json:"code_url,omitempty" gorm:"size:500"`
	Variant     string    `json:"variant,omitempty" gorm:"size:40;index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 返回集合名称。
func (Project) TableName() string { return CollectionProjects }

// Skill 技能条目，Level 越大越靠前。
type Skill struct {
	Base
	Name      string    `json:"name" gorm:"size:100;not null"`
	Category  string    `json:"category" gorm:"size:40"`
	IconURL   string    `json:"icon_url" gorm:"size:500"`
	Level     int       `json:"level"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 返回集合名称。
func (Skill) TableName() string { return CollectionSkills }

// BlogPost 博客文章，只有 IsPublished 为真时对外可见。
type BlogPost struct {
	Base
	Title       string    `json:"title" gorm:"size:200;not null"`
	Excerpt     string    `json:"excerpt" gorm:"size:500"`
	Content     string    `json:"content" gorm:"type:text"`
	ImageURL    string    `json:"image_url,omitempty" gorm:"size:500"`
	IsPublished bool      `json:"is_published" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 返回集合名称。
func (BlogPost) TableName() string { return CollectionBlogs }

// Comment 留言墙条目。IsAuthor 只能在站外设置，公开提交始终为 false。
type Comment struct {
	Base
	Name           string    `json:"name" gorm:"size:100;not null"`
	Message        string    `json:"message" gorm:"type:text;not null"`
	IsAuthor       bool      `json:"is_author"`
	IsPinned       bool      `json:"is_pinned" gorm:"index"`
	IsLikedByAdmin bool      `json:"is_liked_by_admin"`
	AdminReply     string    `json:"admin_reply,omitempty" gorm:"type:text"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName 返回集合名称。
func (Comment) TableName() string { return CollectionComments }

// ContactMessage 联系表单提交，前台只写，后台只读或删除。
type ContactMessage struct {
	Base
	Name    string `json:"name" gorm:"size:100;not null"`
	Email   string `json:"email" gorm:"size:255;not null"`
	Message string `json:"message" gorm:"type:text;not null"`
}

// TableName 返回集合名称。
func (ContactMessage) TableName() string { return CollectionMessages }

// VisitorEvent 页面访问记录，只追加不修改。
type VisitorEvent struct {
	Base
	PageVisited string `json:"page_visited" gorm:"size:255"`
	UserAgent   string `json:"user_agent" gorm:"size:500"`
	Referrer    string `json:"referrer,omitempty" gorm:"size:500"`
}

// TableName 返回集合名称。
func (VisitorEvent) TableName() string { return CollectionVisitors }
