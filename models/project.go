package models

import "time"

// ProjectRecord mirrors the projects table. Tags, chains and official links
// are JSON text columns and are decoded when a Project is assembled.
type ProjectRecord struct {
	ID                  int64     `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name                string    `json:"name" db:"name" gorm:"column:name;type:varchar(100);not null"`
	Description         string    `json:"description" db:"description" gorm:"column:description;type:text;not null"`
	DetailedDescription *string   `json:"detailedDescription,omitempty" db:"detailed_description" gorm:"column:detailed_description;type:text"`
	CategoryID          int64     `json:"categoryId" db:"category" gorm:"column:category;not null;index"`
	SubcategoryID       *int64    `json:"subcategoryId,omitempty" db:"subcategory" gorm:"column:subcategory;index"`
	URL                 string    `json:"url" db:"url" gorm:"column:url;type:text;not null"`
	Logo                *string   `json:"logo,omitempty" db:"logo" gorm:"column:logo;type:text"`
	Tags                *string   `json:"tags,omitempty" db:"tags" gorm:"column:tags;type:text"`
	Chains              *string   `json:"chains,omitempty" db:"chains" gorm:"column:chains;type:text"`
	OfficialLinks       *string   `json:"officialLinks,omitempty" db:"official_links" gorm:"column:official_links;type:text"`
	ViewCount           int64     `json:"viewCount" db:"view_count" gorm:"column:view_count;not null;default:0"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at" gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at" gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func (ProjectRecord) TableName() string {
	return "projects"
}

// Project is the assembled, client facing view of a project row.
type Project struct {
	ID                  int64         `json:"id"`
	Name                string        `json:"name"`
	Description         string        `json:"description"`
	DetailedDescription string        `json:"detailedDescription,omitempty"`
	CategoryID          int64         `json:"categoryId"`
	SubcategoryID       int64         `json:"subcategoryId,omitempty"`
	CategoryName        string        `json:"categoryName"`
	SubcategoryName     string        `json:"subcategoryName"`
	URL                 string        `json:"url"`
	Logo                string        `json:"logo,omitempty"`
	Tags                []string      `json:"tags"`
	Chains              []string      `json:"chains"`
	OfficialLinks       OfficialLinks `json:"officialLinks"`
	ViewCount           int64         `json:"viewCount"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`

	// IsBookmarked stays nil when the request has no user.
	IsBookmarked *bool  `json:"isBookmarked,omitempty"`
	News         []News `json:"news,omitempty"`
}

// OfficialLinks is the fixed set of outbound links a project may list.
type OfficialLinks struct {
	Website    string `json:"website,omitempty"`
	Whitepaper string `json:"whitepaper,omitempty"`
	Twitter    string `json:"twitter,omitempty"`
	Telegram   string `json:"telegram,omitempty"`
	Discord    string `json:"discord,omitempty"`
	Github     string `json:"github,omitempty"`
	Medium     string `json:"medium,omitempty"`
}

type NamedLink struct {
	Key   string
	Value string
}

// Entries lists the links in display order, empty ones included.
func (l OfficialLinks) Entries() []NamedLink {
	return []NamedLink{
		{"website", l.Website},
		{"whitepaper", l.Whitepaper},
		{"twitter", l.Twitter},
		{"telegram", l.Telegram},
		{"discord", l.Discord},
		{"github", l.Github},
		{"medium", l.Medium},
	}
}

// ProjectInput is the payload for both staged submissions and admin publishes.
// Category and Subcategory are slugs.
type ProjectInput struct {
	Name                string        `json:"name"`
	Description         string        `json:"description"`
	DetailedDescription string        `json:"detailedDescription"`
	Category            string        `json:"category"`
	Subcategory         string        `json:"subcategory"`
	URL                 string        `json:"url"`
	Logo                string        `json:"logo"`
	Tags                []string      `json:"tags"`
	Chains              []string      `json:"chains"`
	OfficialLinks       OfficialLinks `json:"officialLinks"`
}

type ProjectPage struct {
	Projects   []Project `json:"projects"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

// TotalPages is ceil(total/limit), and 0 for an empty result.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// NewProjectPage slices one page out of an already ranked project list.
func NewProjectPage(projects []Project, page, limit int) ProjectPage {
	total := len(projects)
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return ProjectPage{
		Projects:   projects[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}
}
