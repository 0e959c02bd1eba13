package payroll

import (
	"context"
	"errors"
	"time"

	"go-sirh/internal/events"
	"go-sirh/internal/messaging/kafka"
	payrollerrors "go-sirh/internal/payroll/errors"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/shared/lock"
	"go-sirh/internal/store"

	"go.uber.org/zap"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	// GenerateForPeriod creates the payslip of every active employee who has none in the period.
	GenerateForPeriod(ctx context.Context, periodeID, actor string) (int, error)
	// RequestGeneration queues GenerateForPeriod for the consumer.
	RequestGeneration(ctx context.Context, periodeID string) error
}

type service struct {
	repo     Repository
	payslips resource.Service
	outbox   kafka.OutboxRepository
	locker   lock.Locker
	logger   *zap.Logger
}

// NewService builds the generator. outbox may be nil, which disables RequestGeneration.
func NewService(
	repo Repository,
	payslips resource.Service,
	outbox kafka.OutboxRepository,
	locker lock.Locker,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &service{repo: repo, payslips: payslips, outbox: outbox, locker: locker, logger: l}
}

func (s *service) openPeriod(ctx context.Context, periodeID string) (store.Record, error) {
	period, err := s.repo.FindPeriod(ctx, periodeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, payrollerrors.ErrPeriodNotFound
	}
	if err != nil {
		return nil, err
	}
	if period.Text("statut") != PeriodOuverte {
		return nil, payrollerrors.ErrPeriodClosed
	}
	return period, nil
}

func (s *service) GenerateForPeriod(ctx context.Context, periodeID, actor string) (int, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	unlock, err := s.locker.Lock(ctx, "paies:generate:"+periodeID)
	if err != nil {
		return 0, err
	}
	defer unlock()

	period, err := s.openPeriod(ctx, periodeID)
	if err != nil {
		return 0, err
	}

	existing, err := s.repo.PayslipsForPeriod(ctx, period.ID())
	if err != nil {
		return 0, err
	}
	done := make(map[string]bool, len(existing))
	for _, p := range existing {
		done[store.IDString(p["employe_id"])] = true
	}

	employees, err := s.repo.ActiveEmployees(ctx)
	if err != nil {
		return 0, err
	}

	if actor != "" {
		ctx = contextutil.WithActor(ctx, actor)
	}
	generated := 0
	for _, emp := range employees {
		if done[emp.ID()] {
			continue
		}
		_, err := s.payslips.Create(ctx, store.Record{
			"periode_id": period["id"],
			"employe_id": emp["id"],
		})
		if err != nil {
			log.Error("generate payslip failed",
				zap.String("periode_id", period.ID()),
				zap.String("employe_id", emp.ID()),
				zap.Error(err),
			)
			return generated, err
		}
		generated++
	}

	log.Info("payslips generated",
		zap.String("periode_id", period.ID()),
		zap.String("code", period.Text("code")),
		zap.Int("generated", generated),
		zap.Int("existing", len(existing)),
	)
	return generated, nil
}

func (s *service) RequestGeneration(ctx context.Context, periodeID string) error {
	if s.outbox == nil {
		return payrollerrors.ErrAsyncUnavailable
	}
	period, err := s.openPeriod(ctx, periodeID)
	if err != nil {
		return err
	}

	evt, err := kafka.NewOutboxEvent(ctx,
		events.PayslipGenerationRequestedTopic,
		events.PayslipGenerationRequestedType,
		"periode_paie",
		period.ID(),
		events.PayslipGenerationRequestedEvent{
			EventType:   events.PayslipGenerationRequestedType,
			PeriodeID:   period.ID(),
			RequestedBy: contextutil.GetActor(ctx),
			OccurredAt:  time.Now().UTC(),
		},
	)
	if err != nil {
		return err
	}
	if err := s.outbox.Create(ctx, evt); err != nil {
		s.logger.Error("queue payslip generation failed", zap.String("periode_id", period.ID()), zap.Error(err))
		return err
	}
	s.logger.Info("payslip generation queued", zap.String("periode_id", period.ID()), zap.String("event_id", evt.ID))
	return nil
}
