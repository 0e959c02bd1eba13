package employee

const (
	Collection = "employees"

	StatusActif   = "Actif"
	StatusInactif = "Inactif"

	MatriculeCounter = "employee_matricule"
)

// Option is the light projection used by selects in the admin UI.
type Option struct {
	ID        int64  `json:"id"`
	Matricule string `json:"matricule"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Poste     string `json:"poste,omitempty"`
}

// Projection is the enrichment attached to records referencing an employee.
var Projection = []string{"id", "firstName", "lastName", "matricule"}
