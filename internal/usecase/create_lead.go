package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/infra/metrics"
	"github.com/Nicksok2413/CRM/internal/infra/queue"
)

type CreateLeadUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Campaigns entity.CampaignRepositoryInterface
	Users     entity.UserRepositoryInterface
	Queue     QueueProducerInterface
	Log       *logger.Logger
}

func NewCreateLeadUseCase(
	leads entity.LeadRepositoryInterface,
	campaigns entity.CampaignRepositoryInterface,
	users entity.UserRepositoryInterface,
	producer QueueProducerInterface,
	log *logger.Logger,
) *CreateLeadUseCase {
	return &CreateLeadUseCase{
		Leads:     leads,
		Campaigns: campaigns,
		Users:     users,
		Queue:     producer,
		Log:       log,
	}
}

func (uc *CreateLeadUseCase) Execute(ctx context.Context, actor entity.Actor, input CreateLeadInput) (*entity.Lead, error) {
	if err := authorize(actor, entity.CapAddLead); err != nil {
		return nil, err
	}
	phone, errs := ValidateLeadInput(input)
	if len(errs) > 0 {
		return nil, errs
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	emailTaken, phoneTaken, err := uc.Leads.FindDuplicates(ctx, email, phone, "")
	if err != nil {
		return nil, technical("check lead duplicates", err)
	}
	if emailTaken {
		errs = append(errs, ValidationError{"email", "already used by another lead"})
	}
	if phoneTaken {
		errs = append(errs, ValidationError{"phone", "already used by another lead"})
	}

	var campaign *entity.Campaign
	if id := strings.TrimSpace(input.CampaignID); id != "" {
		campaign, err = uc.Campaigns.FindByID(ctx, id, entity.ScopeActive)
		if errors.Is(err, entity.ErrNotFound) {
			errs = append(errs, ValidationError{"campaign_id", "campaign does not exist"})
		} else if err != nil {
			return nil, technical("load campaign", err)
		}
	}

	var manager *entity.User
	if id := strings.TrimSpace(input.ManagerID); id != "" {
		manager, err = uc.Users.FindByID(ctx, id)
		switch {
		case errors.Is(err, entity.ErrNotFound) || (err == nil && manager.Role != entity.RoleManager):
			errs = append(errs, ValidationError{"manager_id", "must reference a user with the manager role"})
			manager = nil
		case err != nil:
			return nil, technical("load manager", err)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var campaignID, managerID *string
	if campaign != nil {
		campaignID = &campaign.ID
	}
	if manager != nil {
		managerID = &manager.ID
	}
	lead := entity.NewLead(strings.TrimSpace(input.FirstName), strings.TrimSpace(input.LastName), email, phone, campaignID, managerID)

	if err := uc.Leads.Create(ctx, lead); err != nil {
		switch {
		case errors.Is(err, entity.ErrDuplicateEmail):
			return nil, invalid("email", "already used by another lead")
		case errors.Is(err, entity.ErrDuplicatePhone):
			return nil, invalid("phone", "already used by another lead")
		}
		return nil, technical("create lead", err)
	}
	uc.Log.Info("lead created", "actor", actor.ID, "lead_id", lead.ID)

	if manager != nil {
		uc.notifyManager(ctx, lead, campaign, manager)
	}
	return lead, nil
}

// notifyManager never fails the creation; the lead is already stored.
func (uc *CreateLeadUseCase) notifyManager(ctx context.Context, lead *entity.Lead, campaign *entity.Campaign, manager *entity.User) {
	if manager.Email == "" {
		return
	}
	payload := queue.LeadAssignedPayload{
		ManagerEmail: manager.Email,
		ManagerName:  manager.DisplayName(),
		LeadID:       lead.ID,
		LeadName:     lead.FullName(),
		LeadEmail:    lead.Email,
		LeadPhone:    lead.Phone,
	}
	if campaign != nil {
		payload.CampaignName = campaign.Name
	}

	err := uc.Queue.PublishLeadAssigned(ctx, payload)
	metrics.RecordNotification(string(queue.KindLeadAssigned), err)
	if err != nil {
		uc.Log.Error("lead assignment notification not published", "lead_id", lead.ID, "error", err)
	}
}

type CheckDuplicatesUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewCheckDuplicatesUseCase(leads entity.LeadRepositoryInterface) *CheckDuplicatesUseCase {
	return &CheckDuplicatesUseCase{Leads: leads}
}

// Execute reports which of email and phone already belong to a non-deleted lead.
func (uc *CheckDuplicatesUseCase) Execute(ctx context.Context, actor entity.Actor, input CheckDuplicatesInput) (*CheckDuplicatesOutput, error) {
	if err := authorize(actor, entity.CapAddLead); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := NormalizePhone(input.Phone)
	if email == "" && phone == "" {
		return nil, invalid("email", "email or phone is required")
	}

	emailTaken, phoneTaken, err := uc.Leads.FindDuplicates(ctx, email, phone, input.ExcludeID)
	if err != nil {
		return nil, technical("check lead duplicates", err)
	}
	return &CheckDuplicatesOutput{EmailTaken: emailTaken, PhoneTaken: phoneTaken}, nil
}
