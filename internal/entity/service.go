package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is a sellable offering promoted by campaigns and sold through contracts.
type Service struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Cost        decimal.Decimal `json:"cost" db:"cost"`
	Archivable
}

func NewService(name, description string, cost decimal.Decimal) *Service {
	return &Service{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Cost:        cost,
		Archivable:  newArchivable(time.Now().UTC()),
	}
}

func (s *Service) Ref() Ref {
	return Ref{Kind: "service", ID: s.ID, Label: s.Name, Deleted: s.IsDeleted}
}

type ServiceRepositoryInterface interface {
	Create(ctx context.Context, s *Service) error
	FindByID(ctx context.Context, id string, scope Scope) (*Service, error)
	// NameTaken checks the name against non-deleted services only.
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	UpdateDeletion(ctx context.Context, s *Service) error
	Delete(ctx context.Context, id string) error
}
