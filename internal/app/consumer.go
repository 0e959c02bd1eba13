package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-sirh/internal/config"
	"go-sirh/internal/events"
	"go-sirh/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func newReader(broker, topic, groupID string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{broker},
		Topic:          topic,
		GroupID:        groupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}

// RunConsumer handles employee-created and payslip-generation events until SIGINT/SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	infra, err := OpenInfra(cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m, err := buildModules(ctx, cfg, infra, logger)
	if err != nil {
		return err
	}

	employeeReader := newReader(cfg.KafkaBroker, events.EmployeeCreatedTopic, "go-sirh-contracts")
	defer employeeReader.Close()
	payslipReader := newReader(cfg.KafkaBroker, events.PayslipGenerationRequestedTopic, "go-sirh-payroll")
	defer payslipReader.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeEmployeeLifecycle(ctx, employeeReader, m.contracts, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumePayslipGenerationRequested(ctx, payslipReader, m.payroll, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}
