package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-sirh/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// DraftContractCreator opens a draft contract for a newly hired employee.
// It reports created=false when the employee already has one.
type DraftContractCreator interface {
	CreateDraftForEmployee(ctx context.Context, event events.EmployeeCreatedEvent) (created bool, err error)
}

// PayslipGenerator computes the missing payslips of a pay period.
type PayslipGenerator interface {
	GenerateForPeriod(ctx context.Context, periodeID, actor string) (int, error)
}

var errUndecodable = errors.New("undecodable message")

// consume fetches messages until ctx ends. Messages are committed after handle
// succeeds or when they cannot be decoded; other failures leave them for redelivery.
func consume(ctx context.Context, reader MessageReader, log *zap.Logger, handle func(context.Context, kafkago.Message) error) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if err := handle(ctx, msg); err != nil {
			if errors.Is(err, errUndecodable) {
				log.Error("decode message failed", zap.Error(err), zap.Int64("offset", msg.Offset))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			log.Error("handle message failed", zap.Error(err), zap.Int64("offset", msg.Offset))
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed", zap.Error(err))
		}
	}
}

func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	contracts DraftContractCreator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	consume(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: %v", errUndecodable, err)
		}
		if event.EventType != "" && event.EventType != events.EmployeeCreatedType {
			return nil
		}

		created, err := contracts.CreateDraftForEmployee(ctx, event)
		if err != nil {
			return err
		}
		if !created {
			log.Warn("employee already has a contract, skipping", zap.String("employee_id", event.EmployeeID))
			return nil
		}

		log.Info("draft contract created from employee_created event", zap.String("employee_id", event.EmployeeID))
		return nil
	})
}

func ConsumePayslipGenerationRequested(
	ctx context.Context,
	reader MessageReader,
	generator PayslipGenerator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_generation")
	log.Info("payslip generation consumer started")

	consume(ctx, reader, log, func(ctx context.Context, msg kafkago.Message) error {
		var event events.PayslipGenerationRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: %v", errUndecodable, err)
		}

		n, err := generator.GenerateForPeriod(ctx, event.PeriodeID, event.RequestedBy)
		if err != nil {
			return err
		}

		log.Info("payslips generated",
			zap.String("periode_id", event.PeriodeID),
			zap.Int("count", n),
		)
		return nil
	})
}
