package database

import (
	"context"

	"github.com/Shuixingchen/web3-compass/models"
)

const (
	newsColumns = `id, title, summary, url, source, project_id, published_at, created_at, updated_at`

	DefaultNewsLimit = 10
	MaxNewsLimit     = 50
)

type NewsRepo struct {
	conn Conn
}

func NewNewsRepo(conn Conn) *NewsRepo {
	return &NewsRepo{conn}
}

// FindByProject returns one page of a project's news, newest first.
func (r *NewsRepo) FindByProject(ctx context.Context, projectID int64, page, limit int) (*models.NewsPage, error) {
	page, limit = normalizePage(page, limit, MaxNewsLimit)

	total, err := count(ctx, r.conn, `SELECT COUNT(*) AS count FROM news WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, err
	}

	news, err := Query[models.News](ctx, r.conn,
		`SELECT `+newsColumns+` FROM news WHERE project_id = ? ORDER BY published_at DESC LIMIT ? OFFSET ?`,
		projectID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	return &models.NewsPage{
		News:       news,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: models.TotalPages(int(total), limit),
	}, nil
}

// FindByProjectIDs loads the news of many projects in one query and groups it
// by project id.
func (r *NewsRepo) FindByProjectIDs(ctx context.Context, projectIDs []int64) (map[int64][]models.News, error) {
	grouped := make(map[int64][]models.News, len(projectIDs))
	if len(projectIDs) == 0 {
		return grouped, nil
	}

	news, err := Query[models.News](ctx, r.conn,
		`SELECT `+newsColumns+` FROM news WHERE project_id IN ? ORDER BY published_at DESC`, projectIDs)
	if err != nil {
		return nil, err
	}
	for _, n := range news {
		grouped[n.ProjectID] = append(grouped[n.ProjectID], n)
	}
	return grouped, nil
}

// FindLatest returns the newest news across all projects.
func (r *NewsRepo) FindLatest(ctx context.Context, limit int) ([]models.News, error) {
	_, limit = normalizePage(1, limit, MaxNewsLimit)
	return Query[models.News](ctx, r.conn,
		`SELECT `+newsColumns+` FROM news ORDER BY published_at DESC LIMIT ?`, limit)
}

func normalizePage(page, limit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultNewsLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
