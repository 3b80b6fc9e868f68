package api

import (
	"net/http"

	"github.com/Shuixingchen/web3-compass/models"
	"github.com/Shuixingchen/web3-compass/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const submissionReceivedMessage = "Project submitted. We will review it within 1-3 business days."

type submissionHandler struct {
	responder   Responder
	logger      zerolog.Logger
	submissions *services.SubmissionService
}

func newSubmissionHandler(submissions *services.SubmissionService) submissionHandler {
	logger := log.With().Str("handlerName", "submissionHandler").Logger()

	return submissionHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		submissions: submissions,
	}
}

type reviewRequest struct {
	Status models.SubmissionStatus `json:"status"`
}

func (h submissionHandler) createSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.ProjectInput
		if err := decodeBody(r.Body, &in, "submission"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		userAgent := r.UserAgent()
		if userAgent == "" {
			userAgent = "unknown"
		}

		submission, err := h.submissions.Submit(r.Context(), in, models.Submitter{
			IP:        clientIP(r),
			UserAgent: userAgent,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, map[string]any{
			"success":      true,
			"message":      submissionReceivedMessage,
			"submissionId": submission.ID,
		})
	}
}

func (h submissionHandler) getSubmissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := models.SubmissionStatus(r.URL.Query().Get("status"))
		submissions, err := h.submissions.ListSubmissions(r.Context(), ctxGetUserID(r.Context()), status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"submissions": submissions,
			"total":       len(submissions),
		})
	}
}

func (h submissionHandler) reviewSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviewRequest
		if err := decodeBody(r.Body, &req, "review"); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		submission, err := h.submissions.Review(r.Context(), ctxGetUserID(r.Context()), chi.URLParam(r, "submissionID"), req.Status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]any{"submission": submission})
	}
}
