package database

import (
	"context"
	"strings"

	"github.com/Shuixingchen/web3-compass/models"
	"github.com/rs/zerolog/log"
)

const projectColumns = `id, name, description, detailed_description, category, subcategory, url, logo, tags, chains, official_links, view_count, created_at, updated_at`

// Most viewed first, then newest.
const projectRanking = ` ORDER BY view_count DESC, created_at DESC`

type ProjectRepo struct {
	conn       Conn
	categories *CategoryRepo
	bookmarks  *BookmarkRepo
	news       *NewsRepo
}

func NewProjectRepo(conn Conn, categories *CategoryRepo, bookmarks *BookmarkRepo, news *NewsRepo) *ProjectRepo {
	return &ProjectRepo{conn: conn, categories: categories, bookmarks: bookmarks, news: news}
}

// ListOptions controls how project rows are assembled.
type ListOptions struct {
	// UserID enables the per-project bookmark flag.
	UserID *int64
	// ResolveCategories fills in category and subcategory display names.
	ResolveCategories bool
	// WithNews attaches each project's news, loaded in one batch.
	WithNews bool
}

// FindAll returns every project ranked by views then recency.
func (r *ProjectRepo) FindAll(ctx context.Context, opts ListOptions) ([]models.Project, error) {
	records, err := Query[models.ProjectRecord](ctx, r.conn,
		`SELECT `+projectColumns+` FROM projects`+projectRanking)
	if err != nil {
		return nil, err
	}
	return r.assemble(ctx, records, opts)
}

// FindByID returns nil without an error when the project does not exist.
func (r *ProjectRepo) FindByID(ctx context.Context, id int64, opts ListOptions) (*models.Project, error) {
	record, err := r.FindRecord(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}

	projects, err := r.assemble(ctx, []models.ProjectRecord{*record}, opts)
	if err != nil {
		return nil, err
	}
	return &projects[0], nil
}

func (r *ProjectRepo) FindRecord(ctx context.Context, id int64) (*models.ProjectRecord, error) {
	return QuerySingle[models.ProjectRecord](ctx, r.conn,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
}

// FindByCategory filters on category and, when given, subcategory and a search
// keyword. News is always attached.
func (r *ProjectRepo) FindByCategory(ctx context.Context, categoryID int64, subcategoryID *int64, keyword string, opts ListOptions) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE category = ?`
	args := []any{categoryID}
	if subcategoryID != nil {
		query += ` AND subcategory = ?`
		args = append(args, *subcategoryID)
	}
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		pattern := likePattern(keyword)
		query += ` AND (` + keywordMatch + `)`
		args = append(args, pattern, pattern, pattern)
	}

	records, err := Query[models.ProjectRecord](ctx, r.conn, query+projectRanking, args...)
	if err != nil {
		return nil, err
	}

	opts.WithNews = true
	return r.assemble(ctx, records, opts)
}

const keywordMatch = `name ILIKE ? OR description ILIKE ? OR tags ILIKE ?`

// Search matches the keyword case-insensitively as a substring of the name,
// the description or the serialized tags.
func (r *ProjectRepo) Search(ctx context.Context, keyword string, opts ListOptions) ([]models.Project, error) {
	pattern := likePattern(keyword)
	records, err := Query[models.ProjectRecord](ctx, r.conn,
		`SELECT `+projectColumns+` FROM projects WHERE `+keywordMatch+projectRanking,
		pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	return r.assemble(ctx, records, opts)
}

func likePattern(keyword string) string {
	return "%" + escapeLike(strings.TrimSpace(keyword)) + "%"
}

// FindBookmarkedBy lists the projects a user bookmarked, most recent bookmark first.
func (r *ProjectRepo) FindBookmarkedBy(ctx context.Context, userID int64) ([]models.Project, error) {
	records, err := Query[models.ProjectRecord](ctx, r.conn,
		`SELECT p.id, p.name, p.description, p.detailed_description, p.category, p.subcategory, p.url, p.logo,
			p.tags, p.chains, p.official_links, p.view_count, p.created_at, p.updated_at
		FROM user_bookmarks b
		JOIN projects p ON p.id = b.project_id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}

	projects, err := r.assemble(ctx, records, ListOptions{ResolveCategories: true, WithNews: true})
	if err != nil {
		return nil, err
	}
	bookmarked := true
	for i := range projects {
		projects[i].IsBookmarked = &bookmarked
	}
	return projects, nil
}

func (r *ProjectRepo) Exists(ctx context.Context, id int64) (bool, error) {
	n, err := count(ctx, r.conn, `SELECT COUNT(*) AS count FROM projects WHERE id = ?`, id)
	return n > 0, err
}

// NameTaken reports whether a live project already uses the name, ignoring
// case. excludeID skips the project being edited; pass 0 for inserts.
func (r *ProjectRepo) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	n, err := count(ctx, r.conn,
		`SELECT COUNT(*) AS count FROM projects WHERE LOWER(name) = LOWER(?) AND id <> ?`,
		strings.TrimSpace(name), excludeID)
	return n > 0, err
}

// Insert stores a new project and returns its id.
func (r *ProjectRepo) Insert(ctx context.Context, p models.ProjectRecord) (int64, error) {
	row, err := QuerySingle[idRow](ctx, r.conn,
		`INSERT INTO projects (name, description, detailed_description, category, subcategory, url, logo, tags, chains, official_links)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		p.Name, p.Description, p.DetailedDescription, p.CategoryID, p.SubcategoryID,
		p.URL, p.Logo, p.Tags, p.Chains, p.OfficialLinks)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// Update rewrites the editable columns of an existing project.
func (r *ProjectRepo) Update(ctx context.Context, p models.ProjectRecord) (bool, error) {
	n, err := Exec(ctx, r.conn,
		`UPDATE projects SET name = ?, description = ?, detailed_description = ?, category = ?, subcategory = ?,
			url = ?, logo = ?, tags = ?, chains = ?, official_links = ?, updated_at = NOW()
		WHERE id = ?`,
		p.Name, p.Description, p.DetailedDescription, p.CategoryID, p.SubcategoryID,
		p.URL, p.Logo, p.Tags, p.Chains, p.OfficialLinks, p.ID)
	return n > 0, err
}

// assemble decodes JSON columns and attaches the optional per-request data.
// Decode failures degrade the affected field only.
func (r *ProjectRepo) assemble(ctx context.Context, records []models.ProjectRecord, opts ListOptions) ([]models.Project, error) {
	projects := make([]models.Project, 0, len(records))
	if len(records) == 0 {
		return projects, nil
	}

	var lookup map[int64]models.CategoryRecord
	if opts.ResolveCategories {
		var err error
		if lookup, err = r.categories.Lookup(ctx); err != nil {
			return nil, err
		}
	}

	var bookmarked map[int64]struct{}
	if opts.UserID != nil {
		var err error
		if bookmarked, err = r.bookmarks.ProjectIDs(ctx, *opts.UserID); err != nil {
			return nil, err
		}
	}

	var news map[int64][]models.News
	if opts.WithNews {
		ids := make([]int64, 0, len(records))
		for _, rec := range records {
			ids = append(ids, rec.ID)
		}
		var err error
		if news, err = r.news.FindByProjectIDs(ctx, ids); err != nil {
			return nil, err
		}
	}

	for _, rec := range records {
		p := assembleProject(rec)
		if lookup != nil {
			p.CategoryName = categoryName(lookup, &rec.CategoryID)
			p.SubcategoryName = categoryName(lookup, rec.SubcategoryID)
		}
		if bookmarked != nil {
			_, ok := bookmarked[rec.ID]
			p.IsBookmarked = &ok
		}
		if news != nil {
			p.News = news[rec.ID]
			if p.News == nil {
				p.News = []models.News{}
			}
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func assembleProject(rec models.ProjectRecord) models.Project {
	tags := DecodeStringList(rec.Tags)
	chains := DecodeStringList(rec.Chains)
	links := DecodeOfficialLinks(rec.OfficialLinks)
	for field, err := range map[string]error{"tags": tags.Err, "chains": chains.Err, "official_links": links.Err} {
		if err != nil {
			log.Warn().Err(err).Int64("projectId", rec.ID).Str("column", field).Msg("malformed JSON column, using default")
		}
	}

	p := models.Project{
		ID:                  rec.ID,
		Name:                rec.Name,
		Description:         rec.Description,
		DetailedDescription: deref(rec.DetailedDescription),
		CategoryID:          rec.CategoryID,
		URL:                 rec.URL,
		Logo:                deref(rec.Logo),
		Tags:                tags.Value,
		Chains:              chains.Value,
		OfficialLinks:       links.Value,
		ViewCount:           rec.ViewCount,
		CreatedAt:           rec.CreatedAt,
		UpdatedAt:           rec.UpdatedAt,
	}
	if rec.SubcategoryID != nil {
		p.SubcategoryID = *rec.SubcategoryID
	}
	return p
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
