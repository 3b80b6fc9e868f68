package models

import "time"

// Tag is a catalog entry. Project tags are free text and do not reference it.
type Tag struct {
	ID          int64     `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `json:"name" db:"name" gorm:"column:name;type:varchar(50);not null;uniqueIndex"`
	Category    *string   `json:"category,omitempty" db:"category" gorm:"column:category;type:varchar(50)"`
	Description *string   `json:"description,omitempty" db:"description" gorm:"column:description;type:text"`
	Color       *string   `json:"color,omitempty" db:"color" gorm:"column:color;type:varchar(20)"`
	UsageCount  int64     `json:"usageCount" db:"usage_count" gorm:"column:usage_count;not null;default:0"`
	CreatedAt   time.Time `json:"-" db:"created_at" gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `json:"-" db:"updated_at" gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Tag) TableName() string {
	return "tags"
}

type Chain struct {
	Symbol    string `json:"symbol" db:"chain_symbol" gorm:"column:chain_symbol;type:varchar(20);primaryKey"`
	Name      string `json:"name" db:"chain_name" gorm:"column:chain_name;type:varchar(100);not null"`
	SortOrder int    `json:"sortOrder" db:"sort" gorm:"column:sort;not null;default:0"`
}

func (Chain) TableName() string {
	return "chains"
}
