package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Nicksok2413/CRM/internal/entity"
)

const contractColumns = `id, name, service_id, amount, start_date, end_date, is_deleted, created_at, updated_at, deleted_at`

type ContractRepository struct {
	DB *sqlx.DB
}

func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{DB: db}
}

func (r *ContractRepository) Create(ctx context.Context, c *entity.Contract) error {
	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.DB), `
		INSERT INTO contracts (`+contractColumns+`)
		VALUES (:id, :name, :service_id, :amount, :start_date, :end_date, :is_deleted, :created_at, :updated_at, :deleted_at)`, c)
	return mapError("insert contract", err)
}

func (r *ContractRepository) FindByID(ctx context.Context, id string, scope entity.Scope) (*entity.Contract, error) {
	var c entity.Contract
	err := sqlx.GetContext(ctx, conn(ctx, r.DB), &c,
		`SELECT `+contractColumns+` FROM contracts WHERE id = $1`+scopeClause(scope, ""), id)
	if err != nil {
		return nil, mapError("select contract", err)
	}
	return &c, nil
}

func (r *ContractRepository) FindByIDForUpdate(ctx context.Context, id string) (*entity.Contract, error) {
	var c entity.Contract
	err := sqlx.GetContext(ctx, conn(ctx, r.DB), &c,
		`SELECT `+contractColumns+` FROM contracts WHERE id = $1 AND is_deleted = false FOR UPDATE`, id)
	if err != nil {
		return nil, mapError("lock contract", err)
	}
	return &c, nil
}

func (r *ContractRepository) ListByService(ctx context.Context, serviceID string, scope entity.Scope) ([]entity.Contract, error) {
	contracts := []entity.Contract{}
	err := sqlx.SelectContext(ctx, conn(ctx, r.DB), &contracts,
		`SELECT `+contractColumns+` FROM contracts WHERE service_id = $1`+scopeClause(scope, "")+` ORDER BY name`, serviceID)
	return contracts, mapError("select service contracts", err)
}

// ListExpiring returns contracts ending on endDate that back a current customer
// whose lead has a manager with an email, ordered by manager.
func (r *ContractRepository) ListExpiring(ctx context.Context, endDate time.Time) ([]entity.ExpiringContract, error) {
	rows := []entity.ExpiringContract{}
	err := sqlx.SelectContext(ctx, conn(ctx, r.DB), &rows, `
		SELECT k.id AS contract_id,
		       k.name AS contract_name,
		       k.end_date,
		       l.first_name AS lead_first_name,
		       l.last_name AS lead_last_name,
		       u.id AS manager_id,
		       u.email AS manager_email,
		       u.username AS manager_username,
		       u.first_name AS manager_first_name
		FROM contracts k
		JOIN contract_history h ON h.contract_id = k.id AND h.is_deleted = false
		JOIN leads l ON l.id = h.lead_id AND l.is_deleted = false
		JOIN users u ON u.id = l.manager_id
		WHERE k.is_deleted = false
		  AND k.end_date = $1::date
		  AND u.email <> ''
		ORDER BY u.username, k.name`, endDate.Format(entity.DateLayout))
	return rows, mapError("select expiring contracts", err)
}

func (r *ContractRepository) UpdateDeletion(ctx context.Context, c *entity.Contract) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE contracts SET is_deleted = $2, deleted_at = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.IsDeleted, c.DeletedAt, c.UpdatedAt)
	if err != nil {
		return mapError("update contract deletion", err)
	}
	return expectOne("update contract deletion", res)
}

func (r *ContractRepository) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return mapError("delete contract", err)
	}
	return expectOne("delete contract", res)
}
