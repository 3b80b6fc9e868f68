package api

import (
	"net/http"

	"github.com/Shuixingchen/web3-compass/database"
	"github.com/Shuixingchen/web3-compass/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// bookmarkHandler routes all require a signed-in user; requireUser runs first.
type bookmarkHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newBookmarkHandler(db database.Database) bookmarkHandler {
	logger := log.With().Str("handlerName", "bookmarkHandler").Logger()

	return bookmarkHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

type bookmarkRequest struct {
	ProjectID int64 `json:"projectId"`
}

func (h bookmarkHandler) getBookmarks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := *ctxGetUserID(r.Context())

		projects, err := h.db.ProjectRepo().FindBookmarkedBy(r.Context(), userID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "bookmarks", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"projects": projects})
	}
}

func (h bookmarkHandler) getBookmarkStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		bookmarked, err := h.db.BookmarkRepo().Exists(r.Context(), *ctxGetUserID(r.Context()), projectID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "bookmark", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"bookmarked": bookmarked})
	}
}

func (h bookmarkHandler) addBookmark() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookmarkRequest
		if err := decodeBody(r.Body, &req, "bookmark"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.ProjectID <= 0 {
			h.responder.WriteError(w, errs.NewValidationError("projectId", "projectId is required"))
			return
		}

		ctx := r.Context()
		exists, err := h.db.ProjectRepo().Exists(ctx, req.ProjectID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "project", err))
			return
		}
		if !exists {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		bookmark, err := h.db.BookmarkRepo().Add(ctx, *ctxGetUserID(ctx), req.ProjectID)
		if errs.IsForeignKeyViolation(err) {
			// The project was deleted after the check, or the user row is gone.
			h.responder.WriteError(w, h.missingReference(r, req.ProjectID))
			return
		}
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("create", "bookmark", err))
			return
		}
		if bookmark == nil {
			h.responder.WriteError(w, errs.NewConflictError("project is already bookmarked"))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, map[string]any{
			"bookmarked": true,
			"bookmark":   bookmark,
		})
	}
}

// missingReference tells which side of a rejected bookmark insert is gone.
func (h bookmarkHandler) missingReference(r *http.Request, projectID int64) error {
	exists, err := h.db.ProjectRepo().Exists(r.Context(), projectID)
	if err != nil {
		return errs.NewDatabaseError("find", "project", err)
	}
	if exists {
		return errs.NewNotFound("user")
	}
	return errs.NewNotFound("project")
}

func (h bookmarkHandler) removeBookmark() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		removed, err := h.db.BookmarkRepo().Remove(r.Context(), *ctxGetUserID(r.Context()), projectID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("delete", "bookmark", err))
			return
		}
		if !removed {
			h.responder.WriteError(w, errs.NewNotFound("bookmark"))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"bookmarked": false})
	}
}
