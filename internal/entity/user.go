package entity

import "context"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleMarketer Role = "marketer"
	RoleManager  Role = "manager"
	// RoleSystem is used by public capture and background jobs.
	RoleSystem Role = "system"
)

type Capability string

const (
	CapViewStats        Capability = "stats.view"
	CapViewLeads        Capability = "leads.view"
	CapAddLead          Capability = "leads.add"
	CapChangeLead       Capability = "leads.change"
	CapDeleteLead       Capability = "leads.delete"
	CapChangeLeadStatus Capability = "leads.change_status"
	CapManageServices   Capability = "services.manage"
	CapManageCampaigns  Capability = "campaigns.manage"
	CapManageContracts  Capability = "contracts.manage"
	CapManageCustomers  Capability = "customers.manage"
	CapPurge            Capability = "records.purge"
)

var roleCapabilities = map[Role][]Capability{
	RoleOperator: {CapViewStats, CapViewLeads, CapAddLead, CapChangeLead, CapDeleteLead, CapChangeLeadStatus},
	RoleMarketer: {CapViewStats, CapManageServices, CapManageCampaigns},
	RoleManager:  {CapViewStats, CapViewLeads, CapChangeLeadStatus, CapManageContracts, CapManageCustomers},
	RoleSystem:   {CapAddLead, CapViewLeads},
}

// Actor is the authenticated principal an operation runs on behalf of.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

var SystemActor = Actor{ID: "system", Username: "system", Role: RoleSystem}

func (a Actor) Can(c Capability) bool {
	if a.Role == RoleAdmin {
		return true
	}
	for _, have := range roleCapabilities[a.Role] {
		if have == c {
			return true
		}
	}
	return false
}

// LeadScopeFor returns the manager id lead queries must be restricted to,
// or "" when the actor sees every lead.
func LeadScopeFor(a Actor) string {
	if a.Role == RoleManager {
		return a.ID
	}
	return ""
}

func CanAccessLead(a Actor, l *Lead) bool {
	scope := LeadScopeFor(a)
	if scope == "" {
		return true
	}
	return l.ManagerID != nil && *l.ManagerID == scope
}

type User struct {
	ID        string `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	Email     string `json:"email" db:"email"`
	Role      Role   `json:"role" db:"role"`
}

func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*User, error)
}
