package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionStatusTransitions(t *testing.T) {
	assert.True(t, SubmissionPending.CanTransitionTo(SubmissionApproved))
	assert.True(t, SubmissionPending.CanTransitionTo(SubmissionRejected))
	assert.False(t, SubmissionPending.CanTransitionTo(SubmissionPending))
	assert.False(t, SubmissionApproved.CanTransitionTo(SubmissionRejected))
	assert.False(t, SubmissionRejected.CanTransitionTo(SubmissionApproved))

	assert.True(t, SubmissionStatus("approved").Valid())
	assert.False(t, SubmissionStatus("archived").Valid())
}

func TestOfficialLinksEntriesOrder(t *testing.T) {
	links := OfficialLinks{Website: "https://a.io", Medium: "https://medium.com/a"}

	var keys []string
	for _, e := range links.Entries() {
		keys = append(keys, e.Key)
	}

	assert.Equal(t, []string{"website", "whitepaper", "twitter", "telegram", "discord", "github", "medium"}, keys)
	assert.Equal(t, "https://a.io", links.Entries()[0].Value)
	assert.Equal(t, "https://medium.com/a", links.Entries()[6].Value)
}

func TestGetModelFields(t *testing.T) {
	fields := getModelFields(ProjectRecord{})

	assert.Contains(t, fields, "official_links")
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "view_count")
	assert.Len(t, fields, 14)
}

func TestFindColumnMismatches(t *testing.T) {
	mismatches := findColumnMismatches(
		[]string{"chain_symbol", "chain_name", "sort", "legacy_rank"},
		getModelFields(Chain{}),
	)
	assert.Equal(t, []string{"legacy_rank"}, mismatches)
}

func TestExtractColumnNameFromGormTag(t *testing.T) {
	assert.Equal(t, "parent_id", extractColumnNameFromGormTag("column:parent_id;index"))
	assert.Equal(t, "", extractColumnNameFromGormTag("primaryKey;autoIncrement"))
}

func TestRecordsTableNames(t *testing.T) {
	for table, record := range Records() {
		named, ok := record.(interface{ TableName() string })
		if assert.True(t, ok, table) {
			assert.Equal(t, table, named.TableName())
		}
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 0, TotalPages(0, 10))
}

func TestNewProjectPage(t *testing.T) {
	projects := make([]Project, 23)
	for i := range projects {
		projects[i].ID = int64(i + 1)
	}

	page := NewProjectPage(projects, 3, 10)
	assert.Len(t, page.Projects, 3)
	assert.Equal(t, int64(21), page.Projects[0].ID)
	assert.Equal(t, 23, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	beyond := NewProjectPage(projects, 9, 10)
	assert.Empty(t, beyond.Projects)
	assert.Equal(t, 9, beyond.Page)
}
