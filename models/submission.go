package models

import "time"

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return true
	}
	return false
}

// CanTransitionTo allows review decisions only on pending submissions.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	return s == SubmissionPending && (next == SubmissionApproved || next == SubmissionRejected)
}

// SubmissionRecord mirrors project_submissions. Category and subcategory keep
// the slugs the submitter chose.
type SubmissionRecord struct {
	ID                  string           `json:"id" db:"submission_id" gorm:"column:submission_id;type:varchar(64);primaryKey"`
	Name                string           `json:"name" db:"name" gorm:"column:name;type:varchar(100);not null"`
	Description         string           `json:"description" db:"description" gorm:"column:description;type:text;not null"`
	DetailedDescription *string          `json:"detailedDescription,omitempty" db:"detailed_description" gorm:"column:detailed_description;type:text"`
	Category            string           `json:"category" db:"category" gorm:"column:category;type:varchar(100);not null"`
	Subcategory         string           `json:"subcategory" db:"subcategory" gorm:"column:subcategory;type:varchar(100);not null"`
	URL                 string           `json:"url" db:"url" gorm:"column:url;type:text;not null"`
	Logo                *string          `json:"logo,omitempty" db:"logo" gorm:"column:logo;type:text"`
	Tags                *string          `json:"tags,omitempty" db:"tags" gorm:"column:tags;type:text"`
	Chains              *string          `json:"chains,omitempty" db:"chains" gorm:"column:chains;type:text"`
	OfficialLinks       *string          `json:"officialLinks,omitempty" db:"official_links" gorm:"column:official_links;type:text"`
	Status              SubmissionStatus `json:"status" db:"status" gorm:"column:status;type:varchar(20);not null;default:'pending'"`
	SubmitterIP         string           `json:"submitterIp" db:"submitter_ip" gorm:"column:submitter_ip;type:varchar(64);not null"`
	SubmitterUserAgent  string           `json:"submitterUserAgent" db:"submitter_user_agent" gorm:"column:submitter_user_agent;type:text;not null"`
	CreatedAt           time.Time        `json:"createdAt" db:"created_at" gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

func (SubmissionRecord) TableName() string {
	return "project_submissions"
}

type Submission struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	DetailedDescription string           `json:"detailedDescription,omitempty"`
	Category            string           `json:"category"`
	Subcategory         string           `json:"subcategory"`
	URL                 string           `json:"url"`
	Logo                string           `json:"logo,omitempty"`
	Tags                []string         `json:"tags"`
	Chains              []string         `json:"chains"`
	OfficialLinks       OfficialLinks    `json:"officialLinks"`
	Status              SubmissionStatus `json:"status"`
	SubmitterIP         string           `json:"submitterIp"`
	SubmitterUserAgent  string           `json:"submitterUserAgent"`
	CreatedAt           time.Time        `json:"createdAt"`
}

// Submitter identifies where a staged submission came from.
type Submitter struct {
	IP        string
	UserAgent string
}
