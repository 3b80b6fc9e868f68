package database

import (
	"context"

	"github.com/Shuixingchen/web3-compass/models"
)

type BookmarkRepo struct {
	conn Conn
}

func NewBookmarkRepo(conn Conn) *BookmarkRepo {
	return &BookmarkRepo{conn}
}

// ProjectIDs returns the set of project ids the user has bookmarked.
func (r *BookmarkRepo) ProjectIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	rows, err := Query[models.Bookmark](ctx, r.conn,
		`SELECT project_id FROM user_bookmarks WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}

	ids := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		ids[row.ProjectID] = struct{}{}
	}
	return ids, nil
}

func (r *BookmarkRepo) Exists(ctx context.Context, userID, projectID int64) (bool, error) {
	n, err := count(ctx, r.conn,
		`SELECT COUNT(*) AS count FROM user_bookmarks WHERE user_id = ? AND project_id = ?`, userID, projectID)
	return n > 0, err
}

// Add bookmarks a project for the user. It returns nil when the bookmark
// already existed; the unique (user_id, project_id) constraint decides.
func (r *BookmarkRepo) Add(ctx context.Context, userID, projectID int64) (*models.Bookmark, error) {
	return QuerySingle[models.Bookmark](ctx, r.conn,
		`INSERT INTO user_bookmarks (user_id, project_id) VALUES (?, ?)
		ON CONFLICT (user_id, project_id) DO NOTHING
		RETURNING id, user_id, project_id, created_at`, userID, projectID)
}

// Remove reports whether a bookmark was deleted.
func (r *BookmarkRepo) Remove(ctx context.Context, userID, projectID int64) (bool, error) {
	n, err := Exec(ctx, r.conn,
		`DELETE FROM user_bookmarks WHERE user_id = ? AND project_id = ?`, userID, projectID)
	return n > 0, err
}
