package models

// CategoryRecord is one row of the self-referential categories table. Rows
// with a nil ParentID are top-level categories.
type CategoryRecord struct {
	ID           int64  `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name         string `json:"name" db:"name" gorm:"column:name;type:varchar(100);not null"`
	Slug         string `json:"slug" db:"slug" gorm:"column:slug;type:varchar(100);not null"`
	Icon         string `json:"icon" db:"icon" gorm:"column:icon;type:varchar(50);not null;default:''"`
	ParentID     *int64 `json:"parentId,omitempty" db:"parent_id" gorm:"column:parent_id;index"`
	SortOrder    int    `json:"sortOrder" db:"sort_order" gorm:"column:sort_order;not null;default:0"`
	ProjectCount int64  `json:"projectCount" db:"project_count" gorm:"column:project_count;not null;default:0"`
}

func (CategoryRecord) TableName() string {
	return "categories"
}

func (c CategoryRecord) IsTopLevel() bool {
	return c.ParentID == nil
}

// Category is a top-level category with its subcategories nested in sort order.
type Category struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Icon          string        `json:"icon"`
	SortOrder     int           `json:"sortOrder"`
	ProjectCount  int64         `json:"projectCount"`
	Subcategories []Subcategory `json:"subcategories"`
}

type Subcategory struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Icon         string `json:"icon"`
	ParentID     int64  `json:"parentId"`
	SortOrder    int    `json:"sortOrder"`
	ProjectCount int64  `json:"projectCount"`
}
