package database

import (
	"context"
	"strings"

	"github.com/Shuixingchen/web3-compass/models"
	"github.com/rs/zerolog/log"
)

const submissionColumns = `submission_id, name, description, detailed_description, category, subcategory, url, logo,
	tags, chains, official_links, status, submitter_ip, submitter_user_agent, created_at`

type SubmissionRepo struct {
	conn Conn
}

func NewSubmissionRepo(conn Conn) *SubmissionRepo {
	return &SubmissionRepo{conn}
}

// NameTaken reports whether a pending or approved submission uses the name,
// ignoring case. Rejected submissions free their name.
func (r *SubmissionRepo) NameTaken(ctx context.Context, name string) (bool, error) {
	n, err := count(ctx, r.conn,
		`SELECT COUNT(*) AS count FROM project_submissions WHERE LOWER(name) = LOWER(?) AND status <> ?`,
		strings.TrimSpace(name), models.SubmissionRejected)
	return n > 0, err
}

func (r *SubmissionRepo) Insert(ctx context.Context, s models.SubmissionRecord) error {
	_, err := Exec(ctx, r.conn,
		`INSERT INTO project_submissions (`+submissionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Description, s.DetailedDescription, s.Category, s.Subcategory, s.URL, s.Logo,
		s.Tags, s.Chains, s.OfficialLinks, s.Status, s.SubmitterIP, s.SubmitterUserAgent, s.CreatedAt)
	return err
}

// List returns submissions newest first, optionally limited to one status.
func (r *SubmissionRepo) List(ctx context.Context, status models.SubmissionStatus) ([]models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM project_submissions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}

	records, err := Query[models.SubmissionRecord](ctx, r.conn, query+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, err
	}

	submissions := make([]models.Submission, 0, len(records))
	for _, rec := range records {
		submissions = append(submissions, assembleSubmission(rec))
	}
	return submissions, nil
}

func (r *SubmissionRepo) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	rec, err := QuerySingle[models.SubmissionRecord](ctx, r.conn,
		`SELECT `+submissionColumns+` FROM project_submissions WHERE submission_id = ?`, id)
	if err != nil || rec == nil {
		return nil, err
	}
	s := assembleSubmission(*rec)
	return &s, nil
}

// UpdateStatus moves a submission from one status to another. It reports false
// when the submission was not in the expected status.
func (r *SubmissionRepo) UpdateStatus(ctx context.Context, id string, from, to models.SubmissionStatus) (bool, error) {
	n, err := Exec(ctx, r.conn,
		`UPDATE project_submissions SET status = ? WHERE submission_id = ? AND status = ?`, to, id, from)
	return n > 0, err
}

func assembleSubmission(rec models.SubmissionRecord) models.Submission {
	tags := DecodeStringList(rec.Tags)
	chains := DecodeStringList(rec.Chains)
	links := DecodeOfficialLinks(rec.OfficialLinks)
	if tags.Err != nil || chains.Err != nil || links.Err != nil {
		log.Warn().Str("submissionId", rec.ID).Msg("malformed JSON column in submission, using defaults")
	}

	return models.Submission{
		ID:                  rec.ID,
		Name:                rec.Name,
		Description:         rec.Description,
		DetailedDescription: deref(rec.DetailedDescription),
		Category:            rec.Category,
		Subcategory:         rec.Subcategory,
		URL:                 rec.URL,
		Logo:                deref(rec.Logo),
		Tags:                tags.Value,
		Chains:              chains.Value,
		OfficialLinks:       links.Value,
		Status:              rec.Status,
		SubmitterIP:         rec.SubmitterIP,
		SubmitterUserAgent:  rec.SubmitterUserAgent,
		CreatedAt:           rec.CreatedAt,
	}
}
