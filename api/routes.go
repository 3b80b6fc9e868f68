package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupPublicRoutes registers the read-only directory. A bearer token is
// optional here and only adds per-user bookmark flags.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/categories", handlers.catalogHandler.getCategories())
	r.Get("/chains", handlers.catalogHandler.getChains())
	r.Get("/tags", handlers.catalogHandler.getTags())
	r.Get("/news/latest", handlers.catalogHandler.getLatestNews())

	r.Get("/projects", handlers.projectHandler.getAllProjects())
	r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
	r.Get("/projects/{projectID}/news", handlers.projectHandler.getProjectNews())
}

// setupSubmissionRoutes registers the anonymous intake and the admin review
// queue. Admin checks live in the service so they read fresh state.
func setupSubmissionRoutes(r chi.Router, handlers *routeHandlers, limiter *rateLimiter) {
	r.With(limiter.Handler).Post("/submissions", handlers.submissionHandler.createSubmission())

	r.Post("/projects", handlers.projectHandler.createProject())
	r.Put("/projects/{projectID}", handlers.projectHandler.updateProject())
	r.Get("/submissions", handlers.submissionHandler.getSubmissions())
	r.Patch("/submissions/{submissionID}", handlers.submissionHandler.reviewSubmission())
}

// setupUserRoutes sets up all routes that need a signed-in user
func setupUserRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(auth.requireUser)

		r.Get("/me", handlers.userHandler.getMe())

		r.Get("/bookmarks", handlers.bookmarkHandler.getBookmarks())
		r.Get("/bookmarks/{projectID}", handlers.bookmarkHandler.getBookmarkStatus())
		r.Post("/bookmarks", handlers.bookmarkHandler.addBookmark())
		r.Delete("/bookmarks/{projectID}", handlers.bookmarkHandler.removeBookmark())
	})
}

// setupInternalRoutes is for the sign-in frontend only.
func setupInternalRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(auth.requireServiceKey)

		r.Post("/internal/users", handlers.userHandler.upsertUser())
	})
}
