package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Shuixingchen/web3-compass/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) (Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := testutil.MockDB(t)
	return New(db, time.Second), mock
}

func expectCategoryLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories") + "$").
		WillReturnRows(testutil.CategoryRows(
			testutil.CategoryRow(1, "DeFi", "defi", 0, 1),
			testutil.CategoryRow(11, "DEX", "dex", 1, 1),
		))
}

func TestProjectRepo_FindByIDMissingReturnsNil(t *testing.T) {
	d, mock := newTestDatabase(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(testutil.ProjectRows())

	project, err := d.ProjectRepo().FindByID(context.Background(), 42, ListOptions{ResolveCategories: true})
	require.NoError(t, err)
	assert.Nil(t, project)
}

func TestProjectRepo_FindByIDDecodesJSONColumns(t *testing.T) {
	d, mock := newTestDatabase(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(testutil.ProjectRows(testutil.ProjectRow(3, "uniswap", 1, 11, `["DeFi","AMM"]`)))
	expectCategoryLookup(mock)

	project, err := d.ProjectRepo().FindByID(context.Background(), 3, ListOptions{ResolveCategories: true})
	require.NoError(t, err)
	require.NotNil(t, project)

	assert.Equal(t, []string{"DeFi", "AMM"}, project.Tags)
	assert.Equal(t, []string{"Ethereum"}, project.Chains)
	assert.Equal(t, "https://uniswap.io", project.OfficialLinks.Website)
	assert.Equal(t, "DeFi", project.CategoryName)
	assert.Equal(t, "DEX", project.SubcategoryName)
	assert.Equal(t, int64(11), project.SubcategoryID)
	assert.Nil(t, project.IsBookmarked)
}

func TestProjectRepo_FindAllMarksBookmarks(t *testing.T) {
	d, mock := newTestDatabase(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects ORDER BY view_count DESC, created_at DESC")).
		WillReturnRows(testutil.ProjectRows(
			testutil.ProjectRow(1, "aave", 1, 11, `["Lending"]`),
			testutil.ProjectRow(2, "curve", 1, 0, `["DEX"]`),
			testutil.ProjectRow(3, "lido", 99, 0, `[]`),
		))
	expectCategoryLookup(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT project_id FROM user_bookmarks WHERE user_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"project_id"}).AddRow(int64(2)))

	userID := int64(7)
	projects, err := d.ProjectRepo().FindAll(context.Background(), ListOptions{UserID: &userID, ResolveCategories: true})
	require.NoError(t, err)
	require.Len(t, projects, 3)

	require.NotNil(t, projects[0].IsBookmarked)
	assert.False(t, *projects[0].IsBookmarked)
	require.NotNil(t, projects[1].IsBookmarked)
	assert.True(t, *projects[1].IsBookmarked)
	assert.False(t, *projects[2].IsBookmarked)

	assert.Equal(t, "DEX", projects[0].SubcategoryName)
	assert.Equal(t, "", projects[1].SubcategoryName)
	// unknown category id resolves to an empty name instead of failing
	assert.Equal(t, "", projects[2].CategoryName)
}

func TestProjectRepo_FindAllWithoutUserLeavesBookmarkUnset(t *testing.T) {
	d, mock := newTestDatabase(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects ORDER BY")).
		WillReturnRows(testutil.ProjectRows(testutil.ProjectRow(1, "aave", 1, 11, `["Lending"]`)))

	projects, err := d.ProjectRepo().FindAll(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Nil(t, projects[0].IsBookmarked)
}

func TestProjectRepo_MalformedRowDegrades(t *testing.T) {
	d, mock := newTestDatabase(t)

	bad := testutil.ProjectRow(1, "broken", 1, 11, `{not json`)
	bad[9] = `"Ethereum"`
	bad[10] = `[1,2]`
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects ORDER BY")).
		WillReturnRows(testutil.ProjectRows(bad, testutil.ProjectRow(2, "fine", 1, 11, `["NFT"]`)))

	projects, err := d.ProjectRepo().FindAll(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, projects, 2)

	assert.Equal(t, []string{}, projects[0].Tags)
	assert.Equal(t, []string{}, projects[0].Chains)
	assert.Empty(t, projects[0].OfficialLinks.Website)
	assert.Equal(t, []string{"NFT"}, projects[1].Tags)
}

func TestProjectRepo_FindByCategoryBatchesNews(t *testing.T) {
	d, mock := newTestDatabase(t)
	published := testutil.FixtureTime

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE category = $1 AND subcategory = $2 ORDER BY view_count DESC")).
		WithArgs(int64(1), int64(11)).
		WillReturnRows(testutil.ProjectRows(
			testutil.ProjectRow(1, "uniswap", 1, 11, `["DEX"]`),
			testutil.ProjectRow(2, "sushi", 1, 11, `["DEX"]`),
		))
	mock.ExpectQuery(regexp.QuoteMeta("FROM news WHERE project_id IN ($1,$2) ORDER BY published_at DESC")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(testutil.NewsRows(
			testutil.NewsRow(10, 1, "v4-launch", published),
			testutil.NewsRow(9, 1, "v3-fees", published.Add(-time.Hour)),
		))

	sub := int64(11)
	projects, err := d.ProjectRepo().FindByCategory(context.Background(), 1, &sub, "", ListOptions{})
	require.NoError(t, err)
	require.Len(t, projects, 2)

	require.Len(t, projects[0].News, 2)
	assert.Equal(t, "v4-launch", projects[0].News[0].Title)
	assert.NotNil(t, projects[1].News)
	assert.Empty(t, projects[1].News)
}

func TestProjectRepo_FindByCategoryAppliesKeyword(t *testing.T) {
	d, mock := newTestDatabase(t)

	pattern := "%uni%"
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE category = $1 AND (name ILIKE $2 OR description ILIKE $3 OR tags ILIKE $4) ORDER BY view_count DESC")).
		WithArgs(int64(1), pattern, pattern, pattern).
		WillReturnRows(testutil.ProjectRows())

	projects, err := d.ProjectRepo().FindByCategory(context.Background(), 1, nil, "  uni ", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectRepo_SearchEscapesWildcards(t *testing.T) {
	d, mock := newTestDatabase(t)

	pattern := `%100\%\_real%`
	mock.ExpectQuery(regexp.QuoteMeta("WHERE name ILIKE $1 OR description ILIKE $2 OR tags ILIKE $3")).
		WithArgs(pattern, pattern, pattern).
		WillReturnRows(testutil.ProjectRows())

	projects, err := d.ProjectRepo().Search(context.Background(), " 100%_real ", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectRepo_NameTakenIsCaseInsensitive(t *testing.T) {
	d, mock := newTestDatabase(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE LOWER(name) = LOWER($1) AND id <> $2")).
		WithArgs("TEST", int64(0)).
		WillReturnRows(testutil.CountRows(1))

	taken, err := d.ProjectRepo().NameTaken(context.Background(), "TEST", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestProjectRepo_StorageErrorPropagates(t *testing.T) {
	d, mock := newTestDatabase(t)
	boom := errors.New("connection reset by peer")

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects ORDER BY")).WillReturnError(boom)

	_, err := d.ProjectRepo().FindAll(context.Background(), ListOptions{})
	assert.ErrorIs(t, err, boom)
}
