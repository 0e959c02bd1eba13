package absence

const (
	Collection = "absences"

	StatusEnAttente = "En_attente"
	StatusValidee   = "Validee"
	StatusRefusee   = "Refusee"
	StatusAnnulee   = "Annulee"
)
