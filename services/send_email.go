package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Shuixingchen/web3-compass/config"
	"github.com/Shuixingchen/web3-compass/models"
	"github.com/rs/zerolog/log"
)

const resendEndpoint = "https://api.resend.com/emails"

// Notifier is told about new submissions. Implementations are best effort.
type Notifier interface {
	SubmissionReceived(ctx context.Context, s models.Submission) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) SubmissionReceived(context.Context, models.Submission) error { return nil }

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// EmailNotifier mails the admins through the Resend API.
type EmailNotifier struct {
	apiKey     string
	from       string
	recipients []string
	endpoint   string
	client     *http.Client
}

// NewNotifier returns an EmailNotifier when Resend is configured and a
// NopNotifier otherwise.
func NewNotifier(cfg *config.Config) Notifier {
	if !cfg.NotificationsEnabled() {
		log.Info().Msg("admin notifications disabled, RESEND_API_KEY or ADMIN_NOTIFY_EMAILS not set")
		return NopNotifier{}
	}
	return &EmailNotifier{
		apiKey:     cfg.ResendAPIKey,
		from:       cfg.ResendFromEmail,
		recipients: cfg.AdminNotifyEmails,
		endpoint:   resendEndpoint,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *EmailNotifier) SubmissionReceived(ctx context.Context, s models.Submission) error {
	subject := fmt.Sprintf("New project submission: %s", s.Name)

	var body strings.Builder
	fmt.Fprintf(&body, "<h2>%s</h2>", html.EscapeString(s.Name))
	fmt.Fprintf(&body, "<p>%s</p>", html.EscapeString(s.Description))
	fmt.Fprintf(&body, "<p>Category: %s / %s</p>", html.EscapeString(s.Category), html.EscapeString(s.Subcategory))
	fmt.Fprintf(&body, "<p>URL: %s</p>", html.EscapeString(s.URL))
	fmt.Fprintf(&body, "<p>Submission id: %s</p>", html.EscapeString(s.ID))

	return n.SendEmail(ctx, subject, body.String(), n.recipients)
}

// SendEmail sends an email using the Resend API
func (n *EmailNotifier) SendEmail(ctx context.Context, subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    n.from,
		To:      recipients,
		Subject: subject,
		Html:    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}
