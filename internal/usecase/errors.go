package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Nicksok2413/CRM/internal/entity"
)

const (
	CodeLeadAlreadyActive       = "LEAD_ALREADY_ACTIVE"
	CodeContractAlreadyLinked   = "CONTRACT_ALREADY_LINKED"
	CodeServiceMismatch         = "SERVICE_MISMATCH"
	CodeProtected               = "PROTECTED"
	CodeHistoryRestoreForbidden = "HISTORY_RESTORE_FORBIDDEN"
)

// BusinessRuleError rejects an operation that is well formed but not allowed
// in the current state. Blockers lists the records that caused the rejection.
type BusinessRuleError struct {
	Code     string
	Message  string
	Blockers []entity.Ref
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func IsBusinessRuleError(err error) bool {
	var target *BusinessRuleError
	return errors.As(err, &target)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return entity.ErrNotFound
}

type PermissionError struct {
	Capability entity.Capability
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Capability)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var target *TechnicalError
	return errors.As(err, &target)
}

func technical(msg string, err error) error {
	return &TechnicalError{Code: "INTERNAL_ERROR", Message: msg, Err: err}
}

// ValidationErrors collects every field problem of one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, message string) error {
	return ValidationErrors{{Field: field, Message: message}}
}

// lookupErr turns a repository miss into a NotFoundError and anything else
// into a TechnicalError.
func lookupErr(kind, id string, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return &NotFoundError{Entity: kind, ID: id}
	}
	return technical("load "+kind, err)
}

func authorize(actor entity.Actor, c entity.Capability) error {
	if !actor.Can(c) {
		return &PermissionError{Capability: c}
	}
	return nil
}
