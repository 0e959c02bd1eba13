package contract

const (
	Collection = "contracts"

	StatusBrouillon = "Brouillon"
	StatusActif     = "Actif"
	StatusAnnule    = "Annulé"

	// defaultTypeContratID is the CDI catalog entry used for drafts opened on hire.
	defaultTypeContratID = 1
	systemActor          = "system"
)
