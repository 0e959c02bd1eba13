package pret

const (
	Collection = "prets"

	StatusEnAttente = "En_attente"
	StatusEnCours   = "En_cours"
	StatusRefuse    = "Refuse"
	StatusAnnule    = "Annule"
	StatusSolde     = "Solde"
)

type SimulateRequest struct {
	Montant    float64 `form:"montant" binding:"required,gt=0"`
	DureeMois  int     `form:"duree_mois" binding:"required,gt=0"`
	TauxAnnuel float64 `form:"taux_annuel" binding:"gte=0"`
}

type Installment struct {
	Echeance       int     `json:"echeance"`
	Date           string  `json:"date,omitempty"`
	Mensualite     float64 `json:"mensualite"`
	Interet        float64 `json:"interet"`
	Principal      float64 `json:"principal"`
	CapitalRestant float64 `json:"capital_restant"`
}

type ScheduleResponse struct {
	PretID       string        `json:"pret_id,omitempty"`
	Montant      float64       `json:"montant"`
	DureeMois    int           `json:"duree_mois"`
	TauxAnnuel   float64       `json:"taux_annuel"`
	Mensualite   float64       `json:"mensualite"`
	CoutTotal    float64       `json:"cout_total"`
	TotalInteret float64       `json:"total_interet"`
	Echeances    []Installment `json:"echeances"`
}
