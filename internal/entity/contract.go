package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Contract is a signed agreement for one service.
type Contract struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	ServiceID string          `json:"service_id" db:"service_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	StartDate time.Time       `json:"start_date" db:"start_date"`
	EndDate   time.Time       `json:"end_date" db:"end_date"`
	Archivable
}

func NewContract(name, serviceID string, amount decimal.Decimal, start, end time.Time) *Contract {
	return &Contract{
		ID:         uuid.New().String(),
		Name:       name,
		ServiceID:  serviceID,
		Amount:     amount,
		StartDate:  start,
		EndDate:    end,
		Archivable: newArchivable(time.Now().UTC()),
	}
}

func (c *Contract) Ref() Ref {
	return Ref{Kind: "contract", ID: c.ID, Label: c.Name, Deleted: c.IsDeleted}
}

// ExpiringContract is a contract about to end that still backs an active
// customer, together with the manager responsible for that customer.
type ExpiringContract struct {
	ContractID       string    `db:"contract_id"`
	ContractName     string    `db:"contract_name"`
	EndDate          time.Time `db:"end_date"`
	LeadFirstName    string    `db:"lead_first_name"`
	LeadLastName     string    `db:"lead_last_name"`
	ManagerID        string    `db:"manager_id"`
	ManagerEmail     string    `db:"manager_email"`
	ManagerUsername  string    `db:"manager_username"`
	ManagerFirstName string    `db:"manager_first_name"`
}

type ContractRepositoryInterface interface {
	Create(ctx context.Context, c *Contract) error
	FindByID(ctx context.Context, id string, scope Scope) (*Contract, error)
	// FindByIDForUpdate locks a non-deleted contract row for the current transaction.
	FindByIDForUpdate(ctx context.Context, id string) (*Contract, error)
	ListByService(ctx context.Context, serviceID string, scope Scope) ([]Contract, error)
	ListExpiring(ctx context.Context, endDate time.Time) ([]ExpiringContract, error)
	UpdateDeletion(ctx context.Context, c *Contract) error
	Delete(ctx context.Context, id string) error
}
