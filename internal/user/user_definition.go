package user

import (
	"go-sirh/internal/employee"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/export"
)

// NewDefinition exposes the user directory read-only. Accounts are managed by the external auth service.
func NewDefinition() *resource.Definition {
	return &resource.Definition{
		Name:       "users",
		Label:      "Utilisateur",
		Collection: Collection,
		Query: query.Spec{
			Filters: []query.Filter{
				query.Exact("role", "role"),
				query.Exact("employe_id", "employe_id"),
			},
			Ignore: []string{"password", "password_hash"},
		},
		Enrichments: []query.Enrichment{
			{Key: "employee", ForeignKey: "employe_id", Collection: employee.Collection, Fields: employee.Projection},
		},
		ReadOnly: true,
		Hidden:   []string{"password", "password_hash"},
		Export: []export.Column{
			{Header: "Nom", Field: "nom"},
			{Header: "Prénom", Field: "prenom"},
			{Header: "Email", Field: "email"},
			{Header: "Rôle", Field: "role"},
		},
	}
}
