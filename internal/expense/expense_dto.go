package expense

const (
	Collection = "notesFrais"

	StatusBrouillon  = "Brouillon"
	StatusSoumise    = "Soumise"
	StatusValidee    = "Validee"
	StatusRefusee    = "Refusee"
	StatusRemboursee = "Remboursee"

	ReferenceCounter = "note_frais_reference"
	linesField       = "lignes"
)
