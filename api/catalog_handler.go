package api

import (
	"net/http"

	"github.com/Shuixingchen/web3-compass/database"
	"github.com/Shuixingchen/web3-compass/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// catalogHandler serves the read-only reference data: categories, chains,
// tags and the latest news.
type catalogHandler struct {
	responder Responder
	logger    zerolog.Logger
	db        database.Database
}

func newCatalogHandler(db database.Database) catalogHandler {
	logger := log.With().Str("handlerName", "catalogHandler").Logger()

	return catalogHandler{
		responder: NewResponder(logger),
		logger:    logger,
		db:        db,
	}
}

func (h catalogHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.db.CategoryRepo().FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "categories", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"categories": categories})
	}
}

func (h catalogHandler) getChains() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chains, err := h.db.ChainRepo().FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "chains", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"chains": chains})
	}
}

func (h catalogHandler) getTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.db.TagRepo().FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "tags", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"tags": tags})
	}
}

func (h catalogHandler) getLatestNews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", database.DefaultNewsLimit, 1, database.MaxNewsLimit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		news, err := h.db.NewsRepo().FindLatest(r.Context(), limit)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "news", err))
			return
		}
		h.responder.WriteJSON(w, map[string]any{"news": news})
	}
}
