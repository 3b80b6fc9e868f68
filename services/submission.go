package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Shuixingchen/web3-compass/database"
	"github.com/Shuixingchen/web3-compass/errs"
	"github.com/Shuixingchen/web3-compass/models"
	"github.com/Shuixingchen/web3-compass/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SubmissionService owns every write of project data: staged submissions,
// admin publishes and edits, and submission review.
type SubmissionService struct {
	db       database.Database
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() (uuid.UUID, error)
	// notifications tracks admin emails still being sent.
	notifications sync.WaitGroup
}

// notifyTimeout bounds an admin notification once the request has returned.
const notifyTimeout = 15 * time.Second

func NewSubmissionService(db database.Database, notifier Notifier) *SubmissionService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &SubmissionService{
		db:       db,
		notifier: notifier,
		logger:   log.With().Str("service", "submissions").Logger(),
		now:      time.Now,
		newID:    uuid.NewV7,
	}
}

// categoryPair is a resolved category/subcategory slug pair.
type categoryPair struct {
	category    models.CategoryRecord
	subcategory models.CategoryRecord
}

func (p categoryPair) ids() []int64 {
	return []int64{p.category.ID, p.subcategory.ID}
}

// Submit stages a project for review. Anyone may submit; the public form
// limits apply.
func (s *SubmissionService) Submit(ctx context.Context, in models.ProjectInput, from models.Submitter) (*models.Submission, error) {
	in = validation.Normalize(in)
	if err := validation.Validate(in, validation.FormRules); err != nil {
		return nil, err
	}
	if _, err := s.resolveCategories(ctx, in); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("could not generate submission id", err)
	}
	rec := database.NewSubmissionRecord(id.String(), in, from, s.now().UTC())

	err = s.db.Transaction(ctx, func(tx database.Database) error {
		taken, err := tx.SubmissionRepo().NameTaken(ctx, in.Name)
		if err != nil {
			return errs.NewDatabaseError("check name of", "submission", err)
		}
		if taken {
			return errs.NewConflictError(fmt.Sprintf("a submission named %q is already pending or approved", in.Name))
		}
		if err := tx.SubmissionRepo().Insert(ctx, rec); err != nil {
			return errs.NewDatabaseError("insert", "submission", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	submission := models.Submission{
		ID:                  rec.ID,
		Name:                in.Name,
		Description:         in.Description,
		DetailedDescription: in.DetailedDescription,
		Category:            in.Category,
		Subcategory:         in.Subcategory,
		URL:                 in.URL,
		Logo:                in.Logo,
		Tags:                in.Tags,
		Chains:              in.Chains,
		OfficialLinks:       in.OfficialLinks,
		Status:              rec.Status,
		SubmitterIP:         from.IP,
		SubmitterUserAgent:  from.UserAgent,
		CreatedAt:           rec.CreatedAt,
	}

	s.notifyAdmins(ctx, submission)

	s.logger.Info().Str("submissionId", submission.ID).Str("name", submission.Name).Msg("submission staged")
	return &submission, nil
}

// notifyAdmins sends the notification in the background so the submitter does
// not wait on the mail provider. It outlives the request context.
func (s *SubmissionService) notifyAdmins(ctx context.Context, submission models.Submission) {
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := s.notifier.SubmissionReceived(ctx, submission); err != nil {
			s.logger.Warn().Err(err).Str("submissionId", submission.ID).Msg("admin notification failed")
		}
	}()
}

// Wait blocks until pending admin notifications are done.
func (s *SubmissionService) Wait() {
	s.notifications.Wait()
}

// Publish inserts a live project. Field validation runs before the caller's
// admin flag is read, and the category counters move in the same transaction
// as the insert.
func (s *SubmissionService) Publish(ctx context.Context, userID *int64, in models.ProjectInput) (*models.Project, error) {
	in = validation.Normalize(in)
	if err := validation.Validate(in, validation.APIRules); err != nil {
		return nil, err
	}
	if err := s.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}
	cats, err := s.resolveCategories(ctx, in)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		taken, err := tx.ProjectRepo().NameTaken(ctx, in.Name, 0)
		if err != nil {
			return errs.NewDatabaseError("check name of", "project", err)
		}
		if taken {
			return errs.NewConflictError(fmt.Sprintf("a project named %q already exists", in.Name))
		}

		if id, err = tx.ProjectRepo().Insert(ctx, database.NewProjectRecord(in, cats.category.ID, cats.subcategory.ID)); err != nil {
			return errs.NewDatabaseError("insert", "project", err)
		}

		if err := tx.CategoryRepo().AdjustProjectCount(ctx, 1, cats.ids()...); err != nil {
			return errs.NewDatabaseError("update counters of", "category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("projectId", id).Int64("userId", *userID).Str("name", in.Name).Msg("project published")
	return s.loadProject(ctx, id)
}

// Update rewrites an existing project. When the category pair changes the
// counters move from the old pair to the new one.
func (s *SubmissionService) Update(ctx context.Context, userID *int64, projectID int64, in models.ProjectInput) (*models.Project, error) {
	in = validation.Normalize(in)
	if err := validation.Validate(in, validation.APIRules); err != nil {
		return nil, err
	}
	if err := s.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}
	cats, err := s.resolveCategories(ctx, in)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(ctx, func(tx database.Database) error {
		current, err := tx.ProjectRepo().FindRecord(ctx, projectID)
		if err != nil {
			return errs.NewDatabaseError("find", "project", err)
		}
		if current == nil {
			return errs.NewNotFound("project")
		}

		taken, err := tx.ProjectRepo().NameTaken(ctx, in.Name, projectID)
		if err != nil {
			return errs.NewDatabaseError("check name of", "project", err)
		}
		if taken {
			return errs.NewConflictError(fmt.Sprintf("a project named %q already exists", in.Name))
		}

		rec := database.NewProjectRecord(in, cats.category.ID, cats.subcategory.ID)
		rec.ID = projectID
		if _, err := tx.ProjectRepo().Update(ctx, rec); err != nil {
			return errs.NewDatabaseError("update", "project", err)
		}

		previous := []int64{current.CategoryID}
		if current.SubcategoryID != nil {
			previous = append(previous, *current.SubcategoryID)
		}
		if sameIDs(previous, cats.ids()) {
			return nil
		}
		if err := tx.CategoryRepo().AdjustProjectCount(ctx, -1, previous...); err != nil {
			return errs.NewDatabaseError("update counters of", "category", err)
		}
		if err := tx.CategoryRepo().AdjustProjectCount(ctx, 1, cats.ids()...); err != nil {
			return errs.NewDatabaseError("update counters of", "category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("projectId", projectID).Int64("userId", *userID).Msg("project updated")
	return s.loadProject(ctx, projectID)
}

// ListSubmissions is the admin review queue. An empty status lists all.
func (s *SubmissionService) ListSubmissions(ctx context.Context, userID *int64, status models.SubmissionStatus) ([]models.Submission, error) {
	if status != "" && !status.Valid() {
		return nil, errs.NewInvalidParameterError("status", "must be pending, approved or rejected")
	}
	if err := s.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}

	submissions, err := s.db.SubmissionRepo().List(ctx, status)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "submissions", err)
	}
	return submissions, nil
}

// Review records an admin decision on a pending submission.
func (s *SubmissionService) Review(ctx context.Context, userID *int64, submissionID string, next models.SubmissionStatus) (*models.Submission, error) {
	if next != models.SubmissionApproved && next != models.SubmissionRejected {
		return nil, errs.NewValidationError("status", "status must be approved or rejected")
	}
	if err := s.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}

	var reviewed *models.Submission
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		current, err := tx.SubmissionRepo().FindByID(ctx, submissionID)
		if err != nil {
			return errs.NewDatabaseError("find", "submission", err)
		}
		if current == nil {
			return errs.NewNotFound("submission")
		}
		if !current.Status.CanTransitionTo(next) {
			return errs.NewConflictError(fmt.Sprintf("submission is already %s", current.Status))
		}

		updated, err := tx.SubmissionRepo().UpdateStatus(ctx, submissionID, current.Status, next)
		if err != nil {
			return errs.NewDatabaseError("update", "submission", err)
		}
		if !updated {
			return errs.NewConflictError("submission was reviewed concurrently")
		}

		current.Status = next
		reviewed = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("submissionId", submissionID).Str("status", string(next)).Msg("submission reviewed")
	return reviewed, nil
}

// requireAdmin reads the admin flag from storage on every call so revoked
// privileges apply immediately.
func (s *SubmissionService) requireAdmin(ctx context.Context, userID *int64) error {
	if userID == nil {
		return errs.NewMissingTokenError()
	}
	admin, err := s.db.UserRepo().IsAdmin(ctx, *userID)
	if err != nil {
		return errs.NewDatabaseError("check role of", "user", err)
	}
	if !admin {
		return errs.NewInsufficientRoleError("admin")
	}
	return nil
}

// resolveCategories maps the input slugs to category rows. Unknown slugs are
// validation errors, not storage errors.
func (s *SubmissionService) resolveCategories(ctx context.Context, in models.ProjectInput) (categoryPair, error) {
	category, err := s.db.CategoryRepo().FindTopLevelBySlug(ctx, in.Category)
	if err != nil {
		return categoryPair{}, errs.NewDatabaseError("resolve", "category", err)
	}
	if category == nil {
		return categoryPair{}, errs.NewValidationError("category", fmt.Sprintf("unknown category %q", in.Category))
	}

	subcategory, err := s.db.CategoryRepo().FindChildBySlug(ctx, category.ID, in.Subcategory)
	if err != nil {
		return categoryPair{}, errs.NewDatabaseError("resolve", "subcategory", err)
	}
	if subcategory == nil {
		return categoryPair{}, errs.NewValidationError("subcategory",
			fmt.Sprintf("unknown subcategory %q in category %q", in.Subcategory, in.Category))
	}

	return categoryPair{category: *category, subcategory: *subcategory}, nil
}

func (s *SubmissionService) loadProject(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.db.ProjectRepo().FindByID(ctx, id, database.ListOptions{ResolveCategories: true})
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	return project, nil
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
