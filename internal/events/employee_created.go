package events

import "time"

const (
	EmployeeCreatedTopic = "sirh.employee.lifecycle.v1"
	EmployeeCreatedType  = "employee_created"
)

type EmployeeCreatedEvent struct {
	EventType    string    `json:"event_type"`
	EmployeeID   string    `json:"employee_id"`
	Matricule    string    `json:"matricule"`
	Poste        string    `json:"poste,omitempty"`
	SalaireBase  float64   `json:"salaire_base"`
	DateEmbauche string    `json:"date_embauche,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
