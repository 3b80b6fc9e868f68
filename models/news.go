package models

import "time"

type News struct {
	ID          int64     `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Title       string    `json:"title" db:"title" gorm:"column:title;type:varchar(255);not null"`
	Summary     string    `json:"summary" db:"summary" gorm:"column:summary;type:text;not null;default:''"`
	URL         string    `json:"url" db:"url" gorm:"column:url;type:text;not null"`
	Source      *string   `json:"source,omitempty" db:"source" gorm:"column:source;type:varchar(100)"`
	ProjectID   int64     `json:"projectId" db:"project_id" gorm:"column:project_id;not null;index"`
	PublishedAt time.Time `json:"publishedAt" db:"published_at" gorm:"column:published_at;not null"`
	CreatedAt   time.Time `json:"-" db:"created_at" gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"-" db:"updated_at" gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func (News) TableName() string {
	return "news"
}

type NewsPage struct {
	News       []News `json:"news"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}
