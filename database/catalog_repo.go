package database

import (
	"context"

	"github.com/Shuixingchen/web3-compass/models"
)

type TagRepo struct {
	conn Conn
}

func NewTagRepo(conn Conn) *TagRepo {
	return &TagRepo{conn}
}

// FindAll returns the tag catalog, most used first.
func (r *TagRepo) FindAll(ctx context.Context) ([]models.Tag, error) {
	return Query[models.Tag](ctx, r.conn,
		`SELECT id, name, category, description, color, usage_count, created_at, updated_at
		FROM tags ORDER BY usage_count DESC, name ASC`)
}

type ChainRepo struct {
	conn Conn
}

func NewChainRepo(conn Conn) *ChainRepo {
	return &ChainRepo{conn}
}

func (r *ChainRepo) FindAll(ctx context.Context) ([]models.Chain, error) {
	return Query[models.Chain](ctx, r.conn,
		`SELECT chain_symbol, chain_name, sort FROM chains ORDER BY sort ASC, chain_name ASC`)
}
