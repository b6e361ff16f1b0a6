package adminrepo

import (
	"context"
	"database/sql"

	"smartlibrary/model"
)

type Repo interface {
	ByUsername(ctx context.Context, username string) (*model.Admin, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) ByUsername(ctx context.Context, username string) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, fullname
		FROM admin_users
		WHERE username = $1`,
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Fullname)
	if err != nil {
		return nil, err
	}
	return a, nil
}
