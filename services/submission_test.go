package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Shuixingchen/web3-compass/database"
	"github.com/Shuixingchen/web3-compass/errs"
	"github.com/Shuixingchen/web3-compass/models"
	"github.com/Shuixingchen/web3-compass/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	received []models.Submission
	ctxErrs  []error
	err      error
	// release, when set, holds each call until it is closed.
	release chan struct{}
}

func (n *recordingNotifier) SubmissionReceived(ctx context.Context, s models.Submission) error {
	if n.release != nil {
		<-n.release
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, s)
	n.ctxErrs = append(n.ctxErrs, ctx.Err())
	return n.err
}

func (n *recordingNotifier) sent() []models.Submission {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Submission(nil), n.received...)
}

var fixedID = uuid.MustParse("0195b2c4-0000-7000-8000-000000000001")

func newTestService(t *testing.T) (*SubmissionService, sqlmock.Sqlmock, *recordingNotifier) {
	t.Helper()
	db, mock := testutil.MockDB(t)
	notifier := &recordingNotifier{}
	svc := NewSubmissionService(database.New(db, time.Second), notifier)
	svc.now = func() time.Time { return testutil.FixtureTime }
	svc.newID = func() (uuid.UUID, error) { return fixedID, nil }
	return svc, mock, notifier
}

func scenarioInput() models.ProjectInput {
	return models.ProjectInput{
		Name:        "Test",
		Description: "A decentralized exchange for tokens",
		Category:    "defi",
		Subcategory: "dex",
		URL:         "https://test.io",
		Tags:        []string{"dex"},
		Chains:      []string{"Ethereum"},
	}
}

func userID(id int64) *int64 { return &id }

func expectAdminCheck(mock sqlmock.Sqlmock, id int64, admin bool) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, is_admin FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_admin"}).AddRow(id, admin))
}

func expectSlugResolution(mock sqlmock.Sqlmock, category, subcategory string, categoryID, subcategoryID int64) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE slug = $1 AND parent_id IS NULL")).
		WithArgs(category).
		WillReturnRows(testutil.CategoryRows(testutil.CategoryRow(categoryID, category, category, 0, 1)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE slug = $1 AND parent_id = $2")).
		WithArgs(subcategory, categoryID).
		WillReturnRows(testutil.CategoryRows(testutil.CategoryRow(subcategoryID, subcategory, subcategory, categoryID, 1)))
}

func expectProjectReload(mock sqlmock.Sqlmock, id, categoryID, subcategoryID int64) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(testutil.ProjectRows(testutil.ProjectRow(id, "Test", categoryID, subcategoryID, `["dex"]`)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories") + "$").
		WillReturnRows(testutil.CategoryRows(
			testutil.CategoryRow(1, "DeFi", "defi", 0, 1),
			testutil.CategoryRow(11, "DEX", "dex", 1, 1),
			testutil.CategoryRow(2, "NFT", "nft", 0, 2),
			testutil.CategoryRow(21, "Marketplace", "marketplace", 2, 1),
		))
}

func TestPublish_NonAdminIsForbidden(t *testing.T) {
	svc, mock, _ := newTestService(t)
	expectAdminCheck(mock, 5, false)

	_, err := svc.Publish(context.Background(), userID(5), scenarioInput())

	require.Error(t, err)
	assert.True(t, errs.IsForbidden(err))
	assert.False(t, errs.IsValidation(err))
}

func TestPublish_AnonymousIsUnauthorized(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Publish(context.Background(), nil, scenarioInput())

	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestPublish_AdminIncrementsCountersInTransaction(t *testing.T) {
	svc, mock, _ := newTestService(t)

	expectAdminCheck(mock, 1, true)
	expectSlugResolution(mock, "defi", "dex", 1, 11)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE LOWER(name) = LOWER($1) AND id <> $2")).
		WithArgs("Test", int64(0)).
		WillReturnRows(testutil.CountRows(0))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO projects")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET project_count = GREATEST(project_count + $1, 0) WHERE id IN ($2,$3)")).
		WithArgs(1, int64(1), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	expectProjectReload(mock, 42, 1, 11)

	project, err := svc.Publish(context.Background(), userID(1), scenarioInput())

	require.NoError(t, err)
	assert.Equal(t, int64(42), project.ID)
	assert.Equal(t, "DeFi", project.CategoryName)
	assert.Equal(t, "DEX", project.SubcategoryName)
}

func TestPublish_MissingFieldFailsBeforeStorage(t *testing.T) {
	svc, _, _ := newTestService(t)
	in := scenarioInput()
	in.URL = "  "

	_, err := svc.Publish(context.Background(), userID(1), in)

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "url", apiErr.Field)
}

func TestPublish_DuplicateNameRollsBack(t *testing.T) {
	svc, mock, _ := newTestService(t)

	expectAdminCheck(mock, 1, true)
	expectSlugResolution(mock, "defi", "dex", 1, 11)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE LOWER(name) = LOWER($1)")).
		WithArgs("TEST", int64(0)).
		WillReturnRows(testutil.CountRows(1))
	mock.ExpectRollback()

	in := scenarioInput()
	in.Name = "TEST"
	_, err := svc.Publish(context.Background(), userID(1), in)

	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
}

func TestPublish_UnknownSubcategoryIsValidationError(t *testing.T) {
	svc, mock, _ := newTestService(t)

	expectAdminCheck(mock, 1, true)
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE slug = $1 AND parent_id IS NULL")).
		WithArgs("defi").
		WillReturnRows(testutil.CategoryRows(testutil.CategoryRow(1, "DeFi", "defi", 0, 1)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE slug = $1 AND parent_id = $2")).
		WithArgs("dex", int64(1)).
		WillReturnRows(testutil.CategoryRows())

	_, err := svc.Publish(context.Background(), userID(1), scenarioInput())

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.False(t, errs.IsStorage(err))
}

func TestPublish_StorageErrorIsHidden(t *testing.T) {
	svc, mock, _ := newTestService(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).WillReturnError(errors.New("dial tcp: connection refused"))

	_, err := svc.Publish(context.Background(), userID(1), scenarioInput())

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Internal())
	assert.NotContains(t, apiErr.Message(), "connection refused")
}

func TestUpdate_MovesCountersWhenCategoryChanges(t *testing.T) {
	svc, mock, _ := newTestService(t)
	in := scenarioInput()
	in.Category = "nft"
	in.Subcategory = "marketplace"

	expectAdminCheck(mock, 1, true)
	expectSlugResolution(mock, "nft", "marketplace", 2, 21)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(testutil.ProjectRows(testutil.ProjectRow(7, "Test", 1, 11, `["dex"]`)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE LOWER(name) = LOWER($1) AND id <> $2")).
		WithArgs("Test", int64(7)).
		WillReturnRows(testutil.CountRows(0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE projects SET name = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET project_count")).
		WithArgs(-1, int64(1), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE categories SET project_count")).
		WithArgs(1, int64(2), int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	expectProjectReload(mock, 7, 2, 21)

	project, err := svc.Update(context.Background(), userID(1), 7, in)

	require.NoError(t, err)
	assert.Equal(t, "NFT", project.CategoryName)
	assert.Equal(t, "Marketplace", project.SubcategoryName)
}

func TestUpdate_MissingProjectIsNotFound(t *testing.T) {
	svc, mock, _ := newTestService(t)

	expectAdminCheck(mock, 1, true)
	expectSlugResolution(mock, "defi", "dex", 1, 11)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE id = $1")).
		WithArgs(int64(404)).
		WillReturnRows(testutil.ProjectRows())
	mock.ExpectRollback()

	_, err := svc.Update(context.Background(), userID(1), 404, scenarioInput())

	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestSubmit_StagesWithGeneratedID(t *testing.T) {
	svc, mock, notifier := newTestService(t)

	expectSlugResolution(mock, "defi", "dex", 1, 11)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM project_submissions WHERE LOWER(name) = LOWER($1) AND status <> $2")).
		WithArgs("Test", "rejected").
		WillReturnRows(testutil.CountRows(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO project_submissions")).
		WithArgs(fixedID.String(), "Test", "A decentralized exchange for tokens", nil, "defi", "dex",
			"https://test.io", nil, `["dex"]`, `["Ethereum"]`, `{}`, "pending", "10.0.0.1", "curl/8", testutil.FixtureTime).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	submission, err := svc.Submit(context.Background(), scenarioInput(), models.Submitter{IP: "10.0.0.1", UserAgent: "curl/8"})

	require.NoError(t, err)
	assert.Equal(t, fixedID.String(), submission.ID)
	assert.Equal(t, models.SubmissionPending, submission.Status)

	svc.Wait()
	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Test", sent[0].Name)
}

func expectStagedSubmission(mock sqlmock.Sqlmock) {
	expectSlugResolution(mock, "defi", "dex", 1, 11)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM project_submissions")).WillReturnRows(testutil.CountRows(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO project_submissions")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestSubmit_ReturnsBeforeNotificationIsSent(t *testing.T) {
	svc, mock, notifier := newTestService(t)
	notifier.release = make(chan struct{})
	expectStagedSubmission(mock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, scenarioInput(), models.Submitter{IP: "unknown"})
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on the notifier")
	}
	assert.Empty(t, notifier.sent())

	// The request is over; the notification must still go out.
	cancel()
	close(notifier.release)
	svc.Wait()

	require.Len(t, notifier.sent(), 1)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.NoError(t, notifier.ctxErrs[0])
}

func TestSubmit_NotifierFailureDoesNotFailWrite(t *testing.T) {
	svc, mock, notifier := newTestService(t)
	notifier.err = errors.New("resend unavailable")

	expectSlugResolution(mock, "defi", "dex", 1, 11)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM project_submissions")).WillReturnRows(testutil.CountRows(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO project_submissions")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := svc.Submit(context.Background(), scenarioInput(), models.Submitter{IP: "unknown"})
	assert.NoError(t, err)
	svc.Wait()
	assert.Len(t, notifier.sent(), 1)
}

func TestSubmit_UniqueViolationIsConflict(t *testing.T) {
	svc, mock, notifier := newTestService(t)

	expectSlugResolution(mock, "defi", "dex", 1, 11)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM project_submissions")).WillReturnRows(testutil.CountRows(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO project_submissions")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_project_submissions_name_active"})
	mock.ExpectRollback()

	_, err := svc.Submit(context.Background(), scenarioInput(), models.Submitter{IP: "unknown"})

	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
	svc.Wait()
	assert.Empty(t, notifier.sent())
}

func TestSubmit_FormLimitsApply(t *testing.T) {
	svc, _, _ := newTestService(t)
	in := scenarioInput()
	in.Description = "too short"

	_, err := svc.Submit(context.Background(), in, models.Submitter{})

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestReview(t *testing.T) {
	columns := []string{"submission_id", "name", "description", "detailed_description", "category", "subcategory", "url", "logo",
		"tags", "chains", "official_links", "status", "submitter_ip", "submitter_user_agent", "created_at"}
	row := func(status string) *sqlmock.Rows {
		return sqlmock.NewRows(columns).AddRow(fixedID.String(), "Test", "A decentralized exchange for tokens", nil,
			"defi", "dex", "https://test.io", nil, `["dex"]`, `["Ethereum"]`, `{}`, status, "10.0.0.1", "curl/8", testutil.FixtureTime)
	}

	t.Run("pending to approved", func(t *testing.T) {
		svc, mock, _ := newTestService(t)
		expectAdminCheck(mock, 1, true)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM project_submissions WHERE submission_id = $1")).
			WithArgs(fixedID.String()).
			WillReturnRows(row("pending"))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE project_submissions SET status = $1 WHERE submission_id = $2 AND status = $3")).
			WithArgs("approved", fixedID.String(), "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		reviewed, err := svc.Review(context.Background(), userID(1), fixedID.String(), models.SubmissionApproved)
		require.NoError(t, err)
		assert.Equal(t, models.SubmissionApproved, reviewed.Status)
	})

	t.Run("already rejected", func(t *testing.T) {
		svc, mock, _ := newTestService(t)
		expectAdminCheck(mock, 1, true)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("FROM project_submissions WHERE submission_id = $1")).
			WillReturnRows(row("rejected"))
		mock.ExpectRollback()

		_, err := svc.Review(context.Background(), userID(1), fixedID.String(), models.SubmissionApproved)
		assert.True(t, errs.IsConflict(err))
	})

	t.Run("back to pending is invalid", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Review(context.Background(), userID(1), fixedID.String(), models.SubmissionPending)
		assert.True(t, errs.IsValidation(err))
	})
}

func TestListSubmissions_RejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListSubmissions(context.Background(), userID(1), "archived")

	assert.True(t, errs.IsBadRequest(err))
}
