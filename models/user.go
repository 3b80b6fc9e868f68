package models

import "time"

type User struct {
	ID         int64     `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Email      string    `json:"email" db:"email" gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Name       string    `json:"name" db:"name" gorm:"column:name;type:varchar(255);not null;default:''"`
	AvatarURL  *string   `json:"avatarUrl,omitempty" db:"avatar_url" gorm:"column:avatar_url;type:text"`
	Provider   string    `json:"provider" db:"provider" gorm:"column:provider;type:varchar(50);not null"`
	ProviderID string    `json:"-" db:"provider_id" gorm:"column:provider_id;type:varchar(255);not null"`
	IsAdmin    bool      `json:"isAdmin" db:"is_admin" gorm:"column:is_admin;not null;default:false"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at" gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `json:"-" db:"updated_at" gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string {
	return "users"
}

// SignInProfile is what the external sign-in provider hands over for a user.
type SignInProfile struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatarUrl"`
	Provider   string `json:"provider"`
	ProviderID string `json:"providerId"`
}

type Bookmark struct {
	ID        int64     `json:"id" db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `json:"userId" db:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_user_bookmarks_user_project"`
	ProjectID int64     `json:"projectId" db:"project_id" gorm:"column:project_id;not null;uniqueIndex:idx_user_bookmarks_user_project"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (Bookmark) TableName() string {
	return "user_bookmarks"
}
