package database

import (
	"context"

	"github.com/Shuixingchen/web3-compass/models"
	"golang.org/x/sync/singleflight"
)

const categoryColumns = `id, name, slug, icon, parent_id, sort_order, project_count`

type CategoryRepo struct {
	conn  Conn
	loads *singleflight.Group
}

func NewCategoryRepo(conn Conn, loads *singleflight.Group) *CategoryRepo {
	return &CategoryRepo{conn: conn, loads: loads}
}

// FindAll returns the top-level categories with their subcategories nested
// underneath, both levels in sort order.
func (r *CategoryRepo) FindAll(ctx context.Context) ([]models.Category, error) {
	top, err := Query[models.CategoryRecord](ctx, r.conn,
		`SELECT `+categoryColumns+` FROM categories WHERE parent_id IS NULL ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}

	children, err := Query[models.CategoryRecord](ctx, r.conn,
		`SELECT `+categoryColumns+` FROM categories WHERE parent_id IS NOT NULL ORDER BY parent_id, sort_order`)
	if err != nil {
		return nil, err
	}

	return nestCategories(top, children), nil
}

func nestCategories(top, children []models.CategoryRecord) []models.Category {
	byParent := make(map[int64][]models.Subcategory, len(top))
	for _, c := range children {
		parentID := *c.ParentID
		byParent[parentID] = append(byParent[parentID], models.Subcategory{
			ID:           c.ID,
			Name:         c.Name,
			Slug:         c.Slug,
			Icon:         c.Icon,
			ParentID:     parentID,
			SortOrder:    c.SortOrder,
			ProjectCount: c.ProjectCount,
		})
	}

	categories := make([]models.Category, 0, len(top))
	for _, c := range top {
		subs := byParent[c.ID]
		if subs == nil {
			subs = []models.Subcategory{}
		}
		categories = append(categories, models.Category{
			ID:            c.ID,
			Name:          c.Name,
			Slug:          c.Slug,
			Icon:          c.Icon,
			SortOrder:     c.SortOrder,
			ProjectCount:  c.ProjectCount,
			Subcategories: subs,
		})
	}
	return categories
}

// Lookup loads every category row into an id keyed map. Concurrent callers
// share a single query. The returned map must not be modified.
func (r *CategoryRepo) Lookup(ctx context.Context) (map[int64]models.CategoryRecord, error) {
	// The load is shared by every caller in the flight, so it must not die
	// with the first caller's request. The Conn timeout still bounds it.
	shared := context.WithoutCancel(ctx)
	v, err, _ := r.loads.Do("categories", func() (any, error) {
		rows, err := Query[models.CategoryRecord](shared, r.conn, `SELECT `+categoryColumns+` FROM categories`)
		if err != nil {
			return nil, err
		}
		lookup := make(map[int64]models.CategoryRecord, len(rows))
		for _, row := range rows {
			lookup[row.ID] = row
		}
		return lookup, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[int64]models.CategoryRecord), nil
}

// FindTopLevelBySlug returns nil when no top-level category has the slug.
func (r *CategoryRepo) FindTopLevelBySlug(ctx context.Context, slug string) (*models.CategoryRecord, error) {
	return QuerySingle[models.CategoryRecord](ctx, r.conn,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ? AND parent_id IS NULL`, slug)
}

// FindChildBySlug returns nil when the parent has no subcategory with the slug.
func (r *CategoryRepo) FindChildBySlug(ctx context.Context, parentID int64, slug string) (*models.CategoryRecord, error) {
	return QuerySingle[models.CategoryRecord](ctx, r.conn,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ? AND parent_id = ?`, slug, parentID)
}

// AdjustProjectCount adds delta to the project counter of each category.
func (r *CategoryRepo) AdjustProjectCount(ctx context.Context, delta int, ids ...int64) error {
	if len(ids) == 0 || delta == 0 {
		return nil
	}
	_, err := Exec(ctx, r.conn,
		`UPDATE categories SET project_count = GREATEST(project_count + ?, 0) WHERE id IN ?`, delta, ids)
	return err
}

// categoryName falls back to an empty string for unknown or missing ids.
func categoryName(lookup map[int64]models.CategoryRecord, id *int64) string {
	if id == nil {
		return ""
	}
	return lookup[*id].Name
}
