package database

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Shuixingchen/web3-compass/models"
)

// Decoded is the outcome of decoding a JSON text column. When OK is false the
// Value holds the fallback and Err explains why, so a single bad row degrades
// instead of failing a whole listing.
type Decoded[T any] struct {
	Value T
	OK    bool
	Err   error
}

func decodeJSON[T any](raw *string, fallback T) Decoded[T] {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return Decoded[T]{Value: fallback}
	}
	var v T
	if err := json.Unmarshal([]byte(*raw), &v); err != nil {
		return Decoded[T]{Value: fallback, Err: err}
	}
	return Decoded[T]{Value: v, OK: true}
}

// DecodeStringList decodes a JSON array of strings. Absent, null or malformed
// input yields an empty, non-nil slice.
func DecodeStringList(raw *string) Decoded[[]string] {
	d := decodeJSON(raw, []string{})
	if d.Value == nil {
		d.Value = []string{}
	}
	return d
}

// DecodeOfficialLinks decodes the official links object. Unknown keys are ignored.
func DecodeOfficialLinks(raw *string) Decoded[models.OfficialLinks] {
	return decodeJSON(raw, models.OfficialLinks{})
}

// encodeJSON serializes a value for a JSON text column. A value that cannot
// be encoded is stored as NULL and reads back as the default.
func encodeJSON(v any) *string {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// NewProjectRecord encodes validated input for the projects table.
func NewProjectRecord(in models.ProjectInput, categoryID, subcategoryID int64) models.ProjectRecord {
	return models.ProjectRecord{
		Name:                in.Name,
		Description:         in.Description,
		DetailedDescription: nullable(in.DetailedDescription),
		CategoryID:          categoryID,
		SubcategoryID:       &subcategoryID,
		URL:                 in.URL,
		Logo:                nullable(in.Logo),
		Tags:                encodeJSON(in.Tags),
		Chains:              encodeJSON(in.Chains),
		OfficialLinks:       encodeJSON(in.OfficialLinks),
	}
}

// NewSubmissionRecord encodes validated input as a pending submission.
func NewSubmissionRecord(id string, in models.ProjectInput, from models.Submitter, createdAt time.Time) models.SubmissionRecord {
	return models.SubmissionRecord{
		ID:                  id,
		Name:                in.Name,
		Description:         in.Description,
		DetailedDescription: nullable(in.DetailedDescription),
		Category:            in.Category,
		Subcategory:         in.Subcategory,
		URL:                 in.URL,
		Logo:                nullable(in.Logo),
		Tags:                encodeJSON(in.Tags),
		Chains:              encodeJSON(in.Chains),
		OfficialLinks:       encodeJSON(in.OfficialLinks),
		Status:              models.SubmissionPending,
		SubmitterIP:         from.IP,
		SubmitterUserAgent:  from.UserAgent,
		CreatedAt:           createdAt,
	}
}

// nullable turns an empty string into SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
