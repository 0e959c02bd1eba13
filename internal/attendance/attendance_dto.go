package attendance

const (
	Collection = "pointages"

	StatusBrouillon = "Brouillon"
	StatusValide    = "Valide"

	PresencePresent = "Présent"
	PresenceRetard  = "Retard"

	sourceManual = "MANUEL"
	sourceBadge  = "BADGE"
)

type ClockInRequest struct {
	EmployeID int64  `json:"employe_id" binding:"required,gt=0"`
	Notes     string `json:"notes"`
}

type ClockOutRequest struct {
	EmployeID int64  `json:"employe_id" binding:"required,gt=0"`
	Notes     string `json:"notes"`
}
