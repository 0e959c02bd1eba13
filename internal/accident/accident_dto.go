package accident

import "time"

const (
	Collection = "accidentsTravail"

	StatusBrouillon   = "Brouillon"
	StatusDeclare     = "Déclaré"
	StatusTransmis    = "Transmis CNSS"
	StatusAccepte     = "Accepté"
	StatusRefuse      = "Refusé"
	StatusClos        = "Clos"
	ReferenceCounter  = "accident_reference"
	cnssCounterPrefix = "accident_cnss_"

	// DeclarationDeadline is the legal delay, in hours, to declare an accident to the employer.
	DeclarationDeadline = 48.0
)

// ClockSkewTolerance is how far in the future an accident may be dated when it is declared.
const ClockSkewTolerance = 5 * time.Minute

// Statistics summarizes the accidents matching a list query.
type Statistics struct {
	Total                int            `json:"total"`
	ParStatut            map[string]int `json:"par_statut"`
	ParMois              map[string]int `json:"par_mois"`
	DeclarationsTardives int            `json:"declarations_tardives"`
	TotalJoursArret      float64        `json:"total_jours_arret"`
}
