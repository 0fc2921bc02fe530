package entity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "NEW"
	LeadStatusInProgress LeadStatus = "IN_PROGRESS"
	LeadStatusConverted  LeadStatus = "CONVERTED"
	LeadStatusLost       LeadStatus = "LOST"
)

var leadStatuses = []LeadStatus{LeadStatusNew, LeadStatusInProgress, LeadStatusConverted, LeadStatusLost}

func (s LeadStatus) Valid() bool {
	for _, v := range leadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseLeadStatus accepts the enum value in any letter case.
func ParseLeadStatus(raw string) (LeadStatus, error) {
	s := LeadStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidLeadStatus
	}
	return s, nil
}

// Lead is a contact captured through a campaign (a potential client).
type Lead struct {
	ID         string     `json:"id" db:"id"`
	FirstName  string     `json:"first_name" db:"first_name"`
	LastName   string     `json:"last_name" db:"last_name"`
	Email      string     `json:"email" db:"email"`
	Phone      string     `json:"phone,omitempty" db:"phone"`
	Status     LeadStatus `json:"status" db:"status"`
	CampaignID *string    `json:"campaign_id,omitempty" db:"campaign_id"`
	ManagerID  *string    `json:"manager_id,omitempty" db:"manager_id"`
	Archivable
}

func NewLead(firstName, lastName, email, phone string, campaignID, managerID *string) *Lead {
	return &Lead{
		ID:         uuid.New().String(),
		FirstName:  firstName,
		LastName:   lastName,
		Email:      email,
		Phone:      phone,
		Status:     LeadStatusNew,
		CampaignID: campaignID,
		ManagerID:  managerID,
		Archivable: newArchivable(time.Now().UTC()),
	}
}

// FullName renders "Last First", the way leads are listed everywhere.
func (l *Lead) FullName() string {
	return strings.TrimSpace(l.LastName + " " + l.FirstName)
}

func (l *Lead) Ref() Ref {
	return Ref{Kind: "lead", ID: l.ID, Label: l.FullName(), Deleted: l.IsDeleted}
}

// Convert is the implicit transition on activation.
func (l *Lead) Convert() bool {
	if l.Status == LeadStatusConverted {
		return false
	}
	l.Status = LeadStatusConverted
	return true
}

// RevertConversion is the implicit transition on deactivation. Only a
// converted lead goes back to work; NEW, IN_PROGRESS and LOST are untouched.
func (l *Lead) RevertConversion() bool {
	if l.Status != LeadStatusConverted {
		return false
	}
	l.Status = LeadStatusInProgress
	return true
}

// SetStatus is the explicit transition driven by a user.
func (l *Lead) SetStatus(s LeadStatus) (bool, error) {
	if !s.Valid() {
		return false, ErrInvalidLeadStatus
	}
	if l.Status == s {
		return false, nil
	}
	l.Status = s
	return true, nil
}

type LeadFilter struct {
	CampaignID string
	// ManagerID restricts the list to one manager's leads; empty means no restriction.
	ManagerID string
	Sort      string
	Limit     int
	Offset    int
}

var LeadSorts = map[string]string{
	"last_name":   "last_name ASC",
	"-last_name":  "last_name DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string, scope Scope) (*Lead, error)
	// FindByIDForUpdate locks the lead row for the current transaction.
	FindByIDForUpdate(ctx context.Context, id string, scope Scope) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]Lead, error)
	ListByCampaign(ctx context.Context, campaignID string, scope Scope) ([]Lead, error)
	// FindDuplicates checks email and phone against non-deleted leads other than excludeID.
	FindDuplicates(ctx context.Context, email, phone, excludeID string) (emailTaken, phoneTaken bool, err error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus) error
	UpdateDeletion(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
}
