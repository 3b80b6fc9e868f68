package testutil

import (
	"database/sql/driver"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// Fixed timestamp so assertions on assembled rows stay stable.
var FixtureTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

var (
	ProjectColumns  = []string{"id", "name", "description", "detailed_description", "category", "subcategory", "url", "logo", "tags", "chains", "official_links", "view_count", "created_at", "updated_at"}
	CategoryColumns = []string{"id", "name", "slug", "icon", "parent_id", "sort_order", "project_count"}
	NewsColumns     = []string{"id", "title", "summary", "url", "source", "project_id", "published_at", "created_at", "updated_at"}
)

// ProjectRow builds one projects row. A zero subcategoryID is stored as NULL.
func ProjectRow(id int64, name string, categoryID, subcategoryID int64, tags string) []driver.Value {
	var sub driver.Value
	if subcategoryID != 0 {
		sub = subcategoryID
	}
	return []driver.Value{
		id, name, name + " description", nil, categoryID, sub,
		"https://" + name + ".io", nil, tags, `["Ethereum"]`, `{"website":"https://` + name + `.io"}`,
		int64(100 - id), FixtureTime, FixtureTime,
	}
}

func ProjectRows(rows ...[]driver.Value) *sqlmock.Rows {
	r := sqlmock.NewRows(ProjectColumns)
	for _, row := range rows {
		r.AddRow(row...)
	}
	return r
}

// CategoryRow builds one categories row. A zero parentID is stored as NULL.
func CategoryRow(id int64, name, slug string, parentID int64, sortOrder int) []driver.Value {
	var parent driver.Value
	if parentID != 0 {
		parent = parentID
	}
	return []driver.Value{id, name, slug, "icon", parent, int64(sortOrder), int64(0)}
}

func CategoryRows(rows ...[]driver.Value) *sqlmock.Rows {
	r := sqlmock.NewRows(CategoryColumns)
	for _, row := range rows {
		r.AddRow(row...)
	}
	return r
}

func NewsRow(id, projectID int64, title string, publishedAt time.Time) []driver.Value {
	return []driver.Value{id, title, title + " summary", "https://news.example/" + title, nil, projectID, publishedAt, publishedAt, publishedAt}
}

func NewsRows(rows ...[]driver.Value) *sqlmock.Rows {
	r := sqlmock.NewRows(NewsColumns)
	for _, row := range rows {
		r.AddRow(row...)
	}
	return r
}

func CountRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}
