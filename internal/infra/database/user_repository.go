package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nicksok2413/CRM/internal/entity"
)

// UserRepository reads staff accounts. Accounts are provisioned by the
// identity service and never written here.
type UserRepository struct {
	DB *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	err := sqlx.GetContext(ctx, conn(ctx, r.DB), &u,
		`SELECT id, username, first_name, email, role FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, mapError("select user", err)
	}
	return &u, nil
}
