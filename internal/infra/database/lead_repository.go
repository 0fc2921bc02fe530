package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Nicksok2413/CRM/internal/entity"
)

const leadColumns = `id, first_name, last_name, email, phone, status, campaign_id, manager_id,
	is_deleted, created_at, updated_at, deleted_at`

type LeadRepository struct {
	DB *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.DB), `
		INSERT INTO leads (`+leadColumns+`)
		VALUES (:id, :first_name, :last_name, :email, :phone, :status, :campaign_id, :manager_id,
			:is_deleted, :created_at, :updated_at, :deleted_at)`, lead)
	return mapError("insert lead", err)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string, scope entity.Scope) (*entity.Lead, error) {
	return r.find(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`+scopeClause(scope, ""), id)
}

func (r *LeadRepository) FindByIDForUpdate(ctx context.Context, id string, scope entity.Scope) (*entity.Lead, error) {
	return r.find(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`+scopeClause(scope, "")+` FOR UPDATE`, id)
}

func (r *LeadRepository) find(ctx context.Context, query, id string) (*entity.Lead, error) {
	var lead entity.Lead
	if err := sqlx.GetContext(ctx, conn(ctx, r.DB), &lead, query, id); err != nil {
		return nil, mapError("select lead", err)
	}
	return &lead, nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]entity.Lead, error) {
	query, args, err := buildLeadListQuery(filter)
	if err != nil {
		return nil, err
	}
	leads := []entity.Lead{}
	err = sqlx.SelectContext(ctx, conn(ctx, r.DB), &leads, query, args...)
	return leads, mapError("select leads", err)
}

func buildLeadListQuery(filter entity.LeadFilter) (string, []any, error) {
	order, ok := entity.LeadSorts[filter.Sort]
	if !ok {
		return "", nil, fmt.Errorf("unsupported lead sort %q", filter.Sort)
	}

	var (
		where = []string{"is_deleted = false"}
		args  []any
	)
	if filter.CampaignID != "" {
		args = append(args, filter.CampaignID)
		where = append(where, fmt.Sprintf("campaign_id = $%d", len(args)))
	}
	if filter.ManagerID != "" {
		args = append(args, filter.ManagerID)
		where = append(where, fmt.Sprintf("manager_id = $%d", len(args)))
	}
	args = append(args, filter.Limit, filter.Offset)

	query := fmt.Sprintf(`SELECT %s FROM leads WHERE %s ORDER BY %s, id LIMIT $%d OFFSET $%d`,
		leadColumns, strings.Join(where, " AND "), order, len(args)-1, len(args))
	return query, args, nil
}

func (r *LeadRepository) ListByCampaign(ctx context.Context, campaignID string, scope entity.Scope) ([]entity.Lead, error) {
	leads := []entity.Lead{}
	err := sqlx.SelectContext(ctx, conn(ctx, r.DB), &leads,
		`SELECT `+leadColumns+` FROM leads WHERE campaign_id = $1`+scopeClause(scope, "")+
			` ORDER BY last_name, first_name, id`, campaignID)
	return leads, mapError("select campaign leads", err)
}

func (r *LeadRepository) FindDuplicates(ctx context.Context, email, phone, excludeID string) (bool, bool, error) {
	var found struct {
		EmailTaken bool `db:"email_taken"`
		PhoneTaken bool `db:"phone_taken"`
	}
	err := sqlx.GetContext(ctx, conn(ctx, r.DB), &found, `
		SELECT
			COALESCE(bool_or($1 <> '' AND email = $1), false) AS email_taken,
			COALESCE(bool_or($2 <> '' AND phone = $2), false) AS phone_taken
		FROM leads
		WHERE is_deleted = false
		  AND ($3 = '' OR id::text <> $3)
		  AND (email = $1 OR ($2 <> '' AND phone = $2))`, email, phone, excludeID)
	if err != nil {
		return false, false, mapError("check lead duplicates", err)
	}
	return found.EmailTaken, found.PhoneTaken, nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return mapError("update lead status", err)
	}
	return expectOne("update lead status", res)
}

func (r *LeadRepository) UpdateDeletion(ctx context.Context, lead *entity.Lead) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE leads SET is_deleted = $2, deleted_at = $3, updated_at = $4 WHERE id = $1`,
		lead.ID, lead.IsDeleted, lead.DeletedAt, lead.UpdatedAt)
	if err != nil {
		return mapError("update lead deletion", err)
	}
	return expectOne("update lead deletion", res)
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return mapError("delete lead", err)
	}
	return expectOne("delete lead", res)
}
