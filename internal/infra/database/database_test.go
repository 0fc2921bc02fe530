package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nicksok2413/CRM/internal/entity"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, entity.ErrNotFound},
		{"duplicate email", &pgconn.PgError{Code: "23505", ConstraintName: "leads_email_active_key"}, entity.ErrDuplicateEmail},
		{"duplicate phone", &pgconn.PgError{Code: "23505", ConstraintName: "leads_phone_active_key"}, entity.ErrDuplicatePhone},
		{"duplicate service name", &pgconn.PgError{Code: "23505", ConstraintName: "services_name_active_key"}, entity.ErrDuplicateName},
		{"contract linked", &pgconn.PgError{Code: "23505", ConstraintName: "contract_history_contract_active_key"}, entity.ErrContractAlreadyLinked},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "contract_history_lead_id_fkey"}, entity.ErrReferenced},
		{"malformed uuid", &pgconn.PgError{Code: "22P02"}, entity.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("op", tt.err), tt.want)
		})
	}
}

func TestMapError_KeepsUnknownErrors(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}

	err := mapError("insert user", pgErr)

	assert.ErrorIs(t, err, pgErr)
	assert.NotErrorIs(t, err, entity.ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "insert user")
	assert.NoError(t, mapError("op", nil))
}

func TestScopeClause(t *testing.T) {
	assert.Equal(t, " AND is_deleted = false", scopeClause(entity.ScopeActive, ""))
	assert.Equal(t, " AND h.is_deleted = false", scopeClause(entity.ScopeActive, "h"))
	assert.Empty(t, scopeClause(entity.ScopeAll, "h"))
}

func TestBuildFactsQuery(t *testing.T) {
	query, args, err := buildFactsQuery(entity.CampaignFilter{
		Channel:   "ads",
		ServiceID: "s1",
		OrderBy:   entity.CampaignOrderBudgetDesc,
	})

	require.NoError(t, err)
	assert.Equal(t, []any{"ads", "s1"}, args)
	assert.Contains(t, query, "c.channel = $1")
	assert.Contains(t, query, "c.service_id = $2")
	assert.Contains(t, query, "LEFT JOIN leads l ON l.campaign_id = c.id AND l.is_deleted = false")
	assert.NotContains(t, query, "h.is_deleted = false")
	assert.Contains(t, query, "ORDER BY c.budget DESC, c.id")

	_, _, err = buildFactsQuery(entity.CampaignFilter{OrderBy: "profit"})
	assert.Error(t, err)
}

func TestBuildLeadListQuery(t *testing.T) {
	query, args, err := buildLeadListQuery(entity.LeadFilter{
		ManagerID: "m1",
		Sort:      "-last_name",
		Limit:     20,
		Offset:    40,
	})

	require.NoError(t, err)
	assert.Equal(t, []any{"m1", 20, 40}, args)
	assert.Contains(t, query, "manager_id = $1")
	assert.NotContains(t, query, "campaign_id =")
	assert.Contains(t, query, "ORDER BY last_name DESC, id LIMIT $2 OFFSET $3")
}

func TestWithinTx_JoinsExistingTransaction(t *testing.T) {
	m := &TxManager{}
	ctx := context.WithValue(context.Background(), txKey{}, new(sqlx.Tx))

	called := false
	err := m.WithinTx(ctx, func(ctx context.Context) error {
		called = true
		return errors.New("boom")
	})

	assert.True(t, called)
	assert.EqualError(t, err, "boom")
}
