package user

const Collection = "users"

// Projection is attached to records referencing a user, e.g. a validator.
var Projection = []string{"id", "nom", "prenom", "email", "role"}
