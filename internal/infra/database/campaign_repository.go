package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Nicksok2413/CRM/internal/entity"
)

const campaignColumns = `id, name, channel, budget, service_id, is_deleted, created_at, updated_at, deleted_at`

var campaignOrders = map[entity.CampaignOrder]string{
	entity.CampaignOrderDefault:    "c.created_at DESC, c.id",
	entity.CampaignOrderName:       "c.name ASC, c.id",
	entity.CampaignOrderNameDesc:   "c.name DESC, c.id",
	entity.CampaignOrderBudget:     "c.budget ASC, c.id",
	entity.CampaignOrderBudgetDesc: "c.budget DESC, c.id",
}

type CampaignRepository struct {
	DB *sqlx.DB
}

func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	_, err := sqlx.NamedExecContext(ctx, conn(ctx, r.DB), `
		INSERT INTO campaigns (`+campaignColumns+`)
		VALUES (:id, :name, :channel, :budget, :service_id, :is_deleted, :created_at, :updated_at, :deleted_at)`, c)
	return mapError("insert campaign", err)
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string, scope entity.Scope) (*entity.Campaign, error) {
	var c entity.Campaign
	err := sqlx.GetContext(ctx, conn(ctx, r.DB), &c,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`+scopeClause(scope, ""), id)
	if err != nil {
		return nil, mapError("select campaign", err)
	}
	return &c, nil
}

func (r *CampaignRepository) ListByService(ctx context.Context, serviceID string, scope entity.Scope) ([]entity.Campaign, error) {
	campaigns := []entity.Campaign{}
	err := sqlx.SelectContext(ctx, conn(ctx, r.DB), &campaigns,
		`SELECT `+campaignColumns+` FROM campaigns WHERE service_id = $1`+scopeClause(scope, "")+` ORDER BY name`, serviceID)
	return campaigns, mapError("select service campaigns", err)
}

func (r *CampaignRepository) ListFacts(ctx context.Context, filter entity.CampaignFilter) ([]entity.CampaignFact, error) {
	query, args, err := buildFactsQuery(filter)
	if err != nil {
		return nil, err
	}
	facts := []entity.CampaignFact{}
	err = sqlx.SelectContext(ctx, conn(ctx, r.DB), &facts, query, args...)
	return facts, mapError("select campaign facts", err)
}

// buildFactsQuery yields one row per (campaign, lead, history entry). Campaigns
// without leads and leads without history still produce a row.
func buildFactsQuery(filter entity.CampaignFilter) (string, []any, error) {
	order, ok := campaignOrders[filter.OrderBy]
	if !ok {
		return "", nil, fmt.Errorf("unsupported campaign order %q", filter.OrderBy)
	}

	var (
		where = []string{"c.is_deleted = false"}
		args  []any
	)
	if filter.Channel != "" {
		args = append(args, filter.Channel)
		where = append(where, fmt.Sprintf("c.channel = $%d", len(args)))
	}
	if filter.ServiceID != "" {
		args = append(args, filter.ServiceID)
		where = append(where, fmt.Sprintf("c.service_id = $%d", len(args)))
	}

	query := `
		SELECT c.id, c.name, c.channel, c.budget, c.service_id,
		       c.is_deleted, c.created_at, c.updated_at, c.deleted_at,
		       l.id AS lead_id,
		       h.id AS entry_id,
		       h.is_deleted AS entry_deleted,
		       k.amount AS contract_amount
		FROM campaigns c
		LEFT JOIN leads l ON l.campaign_id = c.id AND l.is_deleted = false
		LEFT JOIN contract_history h ON h.lead_id = l.id
		LEFT JOIN contracts k ON k.id = h.contract_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + order + `, l.created_at, h.created_at`
	return query, args, nil
}

func (r *CampaignRepository) UpdateDeletion(ctx context.Context, c *entity.Campaign) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE campaigns SET is_deleted = $2, deleted_at = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.IsDeleted, c.DeletedAt, c.UpdatedAt)
	if err != nil {
		return mapError("update campaign deletion", err)
	}
	return expectOne("update campaign deletion", res)
}

func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return mapError("delete campaign", err)
	}
	return expectOne("delete campaign", res)
}
