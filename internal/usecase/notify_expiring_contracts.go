package usecase

import (
	"context"
	"time"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/infra/metrics"
	"github.com/Nicksok2413/CRM/internal/infra/queue"
)

// NotifyExpiringContractsUseCase tells every manager which of their customers'
// contracts end in exactly NoticeDays days. Running it twice on the same day
// sends the notices twice.
type NotifyExpiringContractsUseCase struct {
	Contracts  entity.ContractRepositoryInterface
	Queue      QueueProducerInterface
	NoticeDays int
	Log        *logger.Logger
	Now        func() time.Time
}

func NewNotifyExpiringContractsUseCase(
	contracts entity.ContractRepositoryInterface,
	producer QueueProducerInterface,
	noticeDays int,
	log *logger.Logger,
) *NotifyExpiringContractsUseCase {
	return &NotifyExpiringContractsUseCase{
		Contracts:  contracts,
		Queue:      producer,
		NoticeDays: noticeDays,
		Log:        log,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

func (uc *NotifyExpiringContractsUseCase) Execute(ctx context.Context) (*NotifyExpiringOutput, error) {
	now := uc.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	endDate := today.AddDate(0, 0, uc.NoticeDays)

	rows, err := uc.Contracts.ListExpiring(ctx, endDate)
	if err != nil {
		return nil, technical("load expiring contracts", err)
	}

	var order []string
	byManager := make(map[string]*queue.ContractsExpiringPayload)
	for _, r := range rows {
		p, ok := byManager[r.ManagerID]
		if !ok {
			name := r.ManagerFirstName
			if name == "" {
				name = r.ManagerUsername
			}
			p = &queue.ContractsExpiringPayload{
				ManagerEmail: r.ManagerEmail,
				ManagerName:  name,
				EndDate:      endDate.Format(entity.DateLayout),
			}
			byManager[r.ManagerID] = p
			order = append(order, r.ManagerID)
		}
		lead := entity.Lead{FirstName: r.LeadFirstName, LastName: r.LeadLastName}
		p.Contracts = append(p.Contracts, queue.ExpiringItem{
			ContractName: r.ContractName,
			ClientName:   lead.FullName(),
		})
	}

	out := &NotifyExpiringOutput{Contracts: len(rows), Managers: len(order)}
	for _, managerID := range order {
		err := uc.Queue.PublishContractsExpiring(ctx, *byManager[managerID])
		metrics.RecordNotification(string(queue.KindContractsExpiring), err)
		if err != nil {
			out.Failed++
			uc.Log.Error("expiring contracts notice not published", "manager_id", managerID, "error", err)
		}
	}

	uc.Log.Info("expiring contracts scanned",
		"actor", entity.SystemActor.ID,
		"end_date", endDate.Format(entity.DateLayout),
		"contracts", out.Contracts,
		"managers", out.Managers,
		"failed", out.Failed,
	)
	return out, nil
}
