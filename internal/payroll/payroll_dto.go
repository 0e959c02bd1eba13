package payroll

const (
	PeriodsCollection  = "periodesPaie"
	PayslipsCollection = "paies"

	PeriodOuverte  = "Ouverte"
	PeriodCloturee = "Cloturee"

	PayslipBrouillon = "Brouillon"
	PayslipValide    = "Valide"
	PayslipPaye      = "Paye"
	PayslipAnnule    = "Annule"
)

type GenerateResponse struct {
	PeriodeID string `json:"periode_id"`
	Generated int    `json:"generated"`
}

type GenerateQueuedResponse struct {
	PeriodeID string `json:"periode_id"`
	Status    string `json:"status"`
}
