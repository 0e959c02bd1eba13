package rbac

import (
	"context"

	"go-sirh/internal/store"
)

const (
	PermissionsCollection = "rolePermissions"
	InheritanceCollection = "roleInheritance"

	RoleAdmin   = "admin"
	RoleRH      = "rh"
	RoleManager = "manager"
	RoleEmploye = "employe"
)

type RolePermission struct {
	Role     string `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

// RoleInheritance grants Role every permission of Parent.
type RoleInheritance struct {
	Role   string `json:"role"`
	Parent string `json:"parent"`
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetRolePermissions(ctx context.Context) ([]RolePermission, error)
	GetRoleInheritance(ctx context.Context) ([]RoleInheritance, error)
	SeedDefaults(ctx context.Context) error
}

type repository struct {
	store store.Store
}

func NewRepository(s store.Store) Repository {
	return &repository{store: s}
}

func (r *repository) GetRolePermissions(ctx context.Context) ([]RolePermission, error) {
	rows, err := r.store.Collection(PermissionsCollection).All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RolePermission, 0, len(rows))
	for _, row := range rows {
		out = append(out, RolePermission{
			Role:     row.Text("role"),
			Resource: row.Text("resource"),
			Action:   row.Text("action"),
		})
	}
	return out, nil
}

func (r *repository) GetRoleInheritance(ctx context.Context) ([]RoleInheritance, error) {
	rows, err := r.store.Collection(InheritanceCollection).All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RoleInheritance, 0, len(rows))
	for _, row := range rows {
		out = append(out, RoleInheritance{Role: row.Text("role"), Parent: row.Text("parent")})
	}
	return out, nil
}

// SeedDefaults writes the default policy when no permission is stored yet.
func (r *repository) SeedDefaults(ctx context.Context) error {
	perms := r.store.Collection(PermissionsCollection)
	n, err := perms.Count(ctx)
	if err != nil || n > 0 {
		return err
	}

	for _, p := range defaultPermissions() {
		if _, err := perms.Push(ctx, store.Record{"role": p.Role, "resource": p.Resource, "action": p.Action}); err != nil {
			return err
		}
	}

	inheritance := r.store.Collection(InheritanceCollection)
	for _, g := range defaultInheritance {
		if _, err := inheritance.Push(ctx, store.Record{"role": g.Role, "parent": g.Parent}); err != nil {
			return err
		}
	}
	return nil
}

var defaultInheritance = []RoleInheritance{
	{Role: RoleAdmin, Parent: RoleRH},
	{Role: RoleRH, Parent: RoleManager},
	{Role: RoleManager, Parent: RoleEmploye},
}

func defaultPermissions() []RolePermission {
	perms := []RolePermission{
		{Role: RoleAdmin, Resource: "rbac", Action: "*"},
		{Role: RoleRH, Resource: "*", Action: "*"},
		{Role: RoleManager, Resource: "*", Action: "read"},
		{Role: RoleManager, Resource: "*", Action: "export"},
	}
	for _, res := range []string{"absences", "avances", "notes-frais", "pointages"} {
		for _, act := range []string{"validate", "refuse"} {
			perms = append(perms, RolePermission{Role: RoleManager, Resource: res, Action: act})
		}
	}
	for _, res := range []string{"absences", "avances", "notes-frais", "pointages", "accidents-travail"} {
		perms = append(perms,
			RolePermission{Role: RoleEmploye, Resource: res, Action: "read"},
			RolePermission{Role: RoleEmploye, Resource: res, Action: "create"},
		)
	}
	perms = append(perms,
		RolePermission{Role: RoleEmploye, Resource: "notes-frais", Action: "submit"},
		RolePermission{Role: RoleEmploye, Resource: "absences", Action: "cancel"},
		RolePermission{Role: RoleEmploye, Resource: "settings", Action: "read"},
		RolePermission{Role: RoleEmploye, Resource: "employees", Action: "read"},
	)
	return perms
}
