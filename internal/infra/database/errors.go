package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Nicksok2413/CRM/internal/entity"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

// Partial unique indexes, see migrations.
var uniqueConstraints = map[string]error{
	"leads_email_active_key":               entity.ErrDuplicateEmail,
	"leads_phone_active_key":               entity.ErrDuplicatePhone,
	"services_name_active_key":             entity.ErrDuplicateName,
	"contract_history_contract_active_key": entity.ErrContractAlreadyLinked,
}

// mapError turns driver errors into entity sentinels, keeping the original in
// the chain. op names the failed statement.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if sentinel, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
				return fmt.Errorf("%s: %w: %w", op, sentinel, err)
			}
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w: %w", op, entity.ErrReferenced, err)
		case pgInvalidText:
			// a malformed id cannot match any row
			return entity.ErrNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// expectOne reports ErrNotFound when a write touched no row.
func expectOne(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func scopeClause(scope entity.Scope, alias string) string {
	if scope == entity.ScopeAll {
		return ""
	}
	if alias != "" {
		alias += "."
	}
	return " AND " + alias + "is_deleted = false"
}
