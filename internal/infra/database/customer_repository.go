package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Nicksok2413/CRM/internal/entity"
)

const historyColumns = `id, lead_id, contract_id, created_by, is_deleted, created_at, updated_at, deleted_at`

// CustomerRepository stores contract history entries. A non-deleted entry is
// what the rest of the system calls a customer.
type CustomerRepository struct {
	DB *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Create(ctx context.Context, e *entity.ContractHistoryEntry) error {
	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.DB), `
		INSERT INTO contract_history (`+historyColumns+`)
		VALUES (:id, :lead_id, :contract_id, :created_by, :is_deleted, :created_at, :updated_at, :deleted_at)`, e)
	return mapError("insert contract history", err)
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string, scope entity.Scope) (*entity.ContractHistoryEntry, error) {
	return r.get(ctx, `SELECT `+historyColumns+` FROM contract_history WHERE id = $1`+scopeClause(scope, ""), id)
}

func (r *CustomerRepository) FindByIDForUpdate(ctx context.Context, id string) (*entity.ContractHistoryEntry, error) {
	return r.get(ctx, `SELECT `+historyColumns+` FROM contract_history WHERE id = $1 FOR UPDATE`, id)
}

func (r *CustomerRepository) FindActiveByContract(ctx context.Context, contractID string) (*entity.ContractHistoryEntry, error) {
	return r.get(ctx, `SELECT `+historyColumns+` FROM contract_history WHERE contract_id = $1 AND is_deleted = false`, contractID)
}

func (r *CustomerRepository) get(ctx context.Context, query, arg string) (*entity.ContractHistoryEntry, error) {
	var e entity.ContractHistoryEntry
	if err := sqlx.GetContext(ctx, conn(ctx, r.DB), &e, query, arg); err != nil {
		return nil, mapError("select contract history", err)
	}
	return &e, nil
}

func (r *CustomerRepository) ListByLead(ctx context.Context, leadID string, scope entity.Scope) ([]entity.ContractHistoryEntry, error) {
	return r.list(ctx, `SELECT `+historyColumns+` FROM contract_history WHERE lead_id = $1`+scopeClause(scope, "")+` ORDER BY created_at`, leadID)
}

func (r *CustomerRepository) ListByContract(ctx context.Context, contractID string, scope entity.Scope) ([]entity.ContractHistoryEntry, error) {
	return r.list(ctx, `SELECT `+historyColumns+` FROM contract_history WHERE contract_id = $1`+scopeClause(scope, "")+` ORDER BY created_at`, contractID)
}

func (r *CustomerRepository) list(ctx context.Context, query, arg string) ([]entity.ContractHistoryEntry, error) {
	entries := []entity.ContractHistoryEntry{}
	err := sqlx.SelectContext(ctx, conn(ctx, r.DB), &entries, query, arg)
	return entries, mapError("select contract history", err)
}

func (r *CustomerRepository) ListContractsForLeads(ctx context.Context, leadIDs []string) ([]entity.LeadContract, error) {
	rows := []entity.LeadContract{}
	if len(leadIDs) == 0 {
		return rows, nil
	}
	err := sqlx.SelectContext(ctx, conn(ctx, r.DB), &rows, `
		SELECT h.id AS entry_id, h.lead_id, h.contract_id, h.is_deleted, k.amount
		FROM contract_history h
		JOIN contracts k ON k.id = h.contract_id
		WHERE h.lead_id = ANY($1::uuid[])
		ORDER BY h.created_at`, pq.Array(leadIDs))
	return rows, mapError("select lead contracts", err)
}

func (r *CustomerRepository) CountActiveByLead(ctx context.Context, leadID string) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, conn(ctx, r.DB), &n,
		`SELECT COUNT(*) FROM contract_history WHERE lead_id = $1 AND is_deleted = false`, leadID)
	return n, mapError("count active history", err)
}

func (r *CustomerRepository) UpdateDeletion(ctx context.Context, e *entity.ContractHistoryEntry) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE contract_history SET is_deleted = $2, deleted_at = $3, updated_at = $4 WHERE id = $1`,
		e.ID, e.IsDeleted, e.DeletedAt, e.UpdatedAt)
	if err != nil {
		return mapError("update contract history deletion", err)
	}
	return expectOne("update contract history deletion", res)
}
