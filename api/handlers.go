package api

import (
	"github.com/Shuixingchen/web3-compass/database"
	"github.com/Shuixingchen/web3-compass/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, submissions *services.SubmissionService) *routeHandlers {
	return &routeHandlers{
		catalogHandler:    newCatalogHandler(db),
		projectHandler:    newProjectHandler(db, submissions),
		submissionHandler: newSubmissionHandler(submissions),
		bookmarkHandler:   newBookmarkHandler(db),
		userHandler:       newUserHandler(db),
	}
}
