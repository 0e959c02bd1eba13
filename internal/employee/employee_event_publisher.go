package employee

import (
	"context"
	"time"

	"go-sirh/internal/events"
	"go-sirh/internal/messaging/kafka"
	"go-sirh/internal/store"
)

func newEmployeeCreatedOutboxEvent(ctx context.Context, created store.Record) (kafka.OutboxEvent, error) {
	salary, _ := created.Float("salaireBase")
	payload := events.EmployeeCreatedEvent{
		EventType:    events.EmployeeCreatedType,
		EmployeeID:   created.ID(),
		Matricule:    created.Text("matricule"),
		Poste:        created.Text("poste"),
		SalaireBase:  salary,
		DateEmbauche: created.Text("dateEmbauche"),
		OccurredAt:   time.Now().UTC(),
	}
	return kafka.NewOutboxEvent(ctx, events.EmployeeCreatedTopic, events.EmployeeCreatedType, "employee", created.ID(), payload)
}
