package api

import (
	"net/http"
	"strings"

	"github.com/Shuixingchen/web3-compass/database"
	"github.com/Shuixingchen/web3-compass/errs"
	"github.com/Shuixingchen/web3-compass/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newUserHandler(db database.Database) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

// getMe returns the caller's profile, admin flag included, read fresh.
func (h userHandler) getMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.db.UserRepo().FindByID(r.Context(), *ctxGetUserID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFound("user"))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"user": user})
	}
}

// upsertUser is called by the sign-in frontend after a successful OAuth flow.
func (h userHandler) upsertUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var profile models.SignInProfile
		if err := decodeBody(r.Body, &profile, "user"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		switch {
		case strings.TrimSpace(profile.Email) == "":
			h.responder.WriteError(w, errs.NewValidationError("email", "email is required"))
			return
		case strings.TrimSpace(profile.Provider) == "":
			h.responder.WriteError(w, errs.NewValidationError("provider", "provider is required"))
			return
		case strings.TrimSpace(profile.ProviderID) == "":
			h.responder.WriteError(w, errs.NewValidationError("providerId", "providerId is required"))
			return
		}

		user, err := h.db.UserRepo().Upsert(r.Context(), profile)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("upsert", "user", err))
			return
		}

		h.logger.Info().Int64("userId", user.ID).Str("provider", user.Provider).Msg("user signed in")
		h.responder.WriteJSON(w, map[string]any{"user": user})
	}
}
