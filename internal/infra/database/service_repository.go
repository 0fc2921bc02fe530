package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nicksok2413/CRM/internal/entity"
)

const serviceColumns = `id, name, description, cost, is_deleted, created_at, updated_at, deleted_at`

type ServiceRepository struct {
	DB *sqlx.DB
}

func NewServiceRepository(db *sqlx.DB) *ServiceRepository {
	return &ServiceRepository{DB: db}
}

func (r *ServiceRepository) Create(ctx context.Context, s *entity.Service) error {
	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.DB), `
		INSERT INTO services (`+serviceColumns+`)
		VALUES (:id, :name, :description, :cost, :is_deleted, :created_at, :updated_at, :deleted_at)`, s)
	return mapError("insert service", err)
}

func (r *ServiceRepository) FindByID(ctx context.Context, id string, scope entity.Scope) (*entity.Service, error) {
	var s entity.Service
	err := sqlx.GetContext(ctx, conn(ctx, r.DB), &s,
		`SELECT `+serviceColumns+` FROM services WHERE id = $1`+scopeClause(scope, ""), id)
	if err != nil {
		return nil, mapError("select service", err)
	}
	return &s, nil
}

func (r *ServiceRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	var taken bool
	err := sqlx.GetContext(ctx, conn(ctx, r.DB), &taken, `
		SELECT EXISTS (
			SELECT 1 FROM services
			WHERE name = $1 AND is_deleted = false AND ($2 = '' OR id::text <> $2)
		)`, name, excludeID)
	return taken, mapError("check service name", err)
}

func (r *ServiceRepository) UpdateDeletion(ctx context.Context, s *entity.Service) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE services SET is_deleted = $2, deleted_at = $3, updated_at = $4 WHERE id = $1`,
		s.ID, s.IsDeleted, s.DeletedAt, s.UpdatedAt)
	if err != nil {
		return mapError("update service deletion", err)
	}
	return expectOne("update service deletion", res)
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return mapError("delete service", err)
	}
	return expectOne("delete service", res)
}
