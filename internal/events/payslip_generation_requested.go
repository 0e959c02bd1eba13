package events

import "time"

const (
	PayslipGenerationRequestedTopic = "sirh.paie.bulletins.requested.v1"
	PayslipGenerationRequestedType  = "payslip_generation_requested"
)

type PayslipGenerationRequestedEvent struct {
	EventType   string    `json:"event_type"`
	PeriodeID   string    `json:"periode_id"`
	RequestedBy string    `json:"requested_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
