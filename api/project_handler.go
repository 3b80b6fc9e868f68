package api

import (
	"net/http"
	"strings"

	"github.com/Shuixingchen/web3-compass/database"
	"github.com/Shuixingchen/web3-compass/errs"
	"github.com/Shuixingchen/web3-compass/models"
	"github.com/Shuixingchen/web3-compass/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	db          database.Database
	submissions *services.SubmissionService
}

func newProjectHandler(db database.Database, submissions *services.SubmissionService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		db:          db,
		submissions: submissions,
	}
}

// getAllProjects lists projects one page at a time. The category slugs and the
// search keyword narrow the result together.
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, err := pagination(r, defaultProjectLimit, maxProjectLimit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		query := r.URL.Query()
		categorySlug := strings.TrimSpace(query.Get("category"))
		subcategorySlug := strings.TrimSpace(query.Get("subcategory"))
		search := strings.TrimSpace(query.Get("search"))
		opts := database.ListOptions{UserID: ctxGetUserID(r.Context()), ResolveCategories: true}

		if subcategorySlug != "" && categorySlug == "" {
			h.responder.WriteError(w, errs.NewInvalidParameterError("subcategory", "requires category"))
			return
		}

		var projects []models.Project
		switch {
		case categorySlug != "":
			projects, err = h.findByCategory(r, categorySlug, subcategorySlug, search, opts)
		case search != "":
			projects, err = h.db.ProjectRepo().Search(r.Context(), search, opts)
		default:
			projects, err = h.db.ProjectRepo().FindAll(r.Context(), opts)
		}
		if err != nil {
			h.responder.WriteError(w, asDatabaseError(err, "find", "projects"))
			return
		}

		h.responder.WriteJSON(w, models.NewProjectPage(projects, page, limit))
	}
}

// findByCategory resolves the slugs first. Unknown slugs give an empty page.
func (h projectHandler) findByCategory(r *http.Request, categorySlug, subcategorySlug, search string, opts database.ListOptions) ([]models.Project, error) {
	ctx := r.Context()
	category, err := h.db.CategoryRepo().FindTopLevelBySlug(ctx, categorySlug)
	if err != nil || category == nil {
		return []models.Project{}, err
	}

	var subcategoryID *int64
	if subcategorySlug != "" {
		sub, err := h.db.CategoryRepo().FindChildBySlug(ctx, category.ID, subcategorySlug)
		if err != nil || sub == nil {
			return []models.Project{}, err
		}
		subcategoryID = &sub.ID
	}

	return h.db.ProjectRepo().FindByCategory(ctx, category.ID, subcategoryID, search, opts)
}

func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.db.ProjectRepo().FindByID(r.Context(), projectID, database.ListOptions{
			UserID:            ctxGetUserID(r.Context()),
			ResolveCategories: true,
		})
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"project": project})
	}
}

func (h projectHandler) getProjectNews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		page, limit, err := pagination(r, database.DefaultNewsLimit, database.MaxNewsLimit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		news, err := h.db.NewsRepo().FindByProject(r.Context(), projectID, page, limit)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "news", err))
			return
		}
		h.responder.WriteJSON(w, news)
	}
}

// createProject publishes a project directly. Admin only.
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.ProjectInput
		if err := decodeBody(r.Body, &in, "project"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.submissions.Publish(r.Context(), ctxGetUserID(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, map[string]any{"project": project})
	}
}

func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var in models.ProjectInput
		if err := decodeBody(r.Body, &in, "project"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.submissions.Update(r.Context(), ctxGetUserID(r.Context()), projectID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{"project": project})
	}
}

// asDatabaseError leaves ApiErr values alone and wraps raw storage errors.
func asDatabaseError(err error, operation, entity string) error {
	if _, ok := err.(*errs.ApiErr); ok {
		return err
	}
	return errs.NewDatabaseError(operation, entity, err)
}
