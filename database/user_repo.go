package database

import (
	"context"
	"strings"

	"github.com/Shuixingchen/web3-compass/models"
)

const userColumns = `id, email, name, avatar_url, provider, provider_id, is_admin, created_at, updated_at`

type UserRepo struct {
	conn Conn
}

func NewUserRepo(conn Conn) *UserRepo {
	return &UserRepo{conn}
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return QuerySingle[models.User](ctx, r.conn, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// IsAdmin reads the admin flag straight from storage. Unknown users are not admins.
func (r *UserRepo) IsAdmin(ctx context.Context, id int64) (bool, error) {
	user, err := QuerySingle[models.User](ctx, r.conn, `SELECT id, is_admin FROM users WHERE id = ?`, id)
	if err != nil || user == nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// Upsert records a sign-in. A user is matched by provider identity first and
// by email second; the admin flag is never touched here.
func (r *UserRepo) Upsert(ctx context.Context, p models.SignInProfile) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))

	existing, err := QuerySingle[models.User](ctx, r.conn,
		`SELECT `+userColumns+` FROM users
		WHERE (provider = ? AND provider_id = ?) OR email = ?
		ORDER BY (provider = ? AND provider_id = ?) DESC
		LIMIT 1`,
		p.Provider, p.ProviderID, email, p.Provider, p.ProviderID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return QuerySingle[models.User](ctx, r.conn,
			`UPDATE users SET email = ?, name = ?, avatar_url = ?, provider = ?, provider_id = ?, updated_at = NOW()
			WHERE id = ?
			RETURNING `+userColumns,
			email, p.Name, nullable(p.AvatarURL), p.Provider, p.ProviderID, existing.ID)
	}

	return QuerySingle[models.User](ctx, r.conn,
		`INSERT INTO users (email, name, avatar_url, provider, provider_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		email, p.Name, nullable(p.AvatarURL), p.Provider, p.ProviderID)
}
