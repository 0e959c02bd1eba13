package employee

import (
	"context"
	"errors"

	"go-sirh/internal/store"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id any) (store.Record, error)
	// FindOther returns a record other than excludeID whose field equals value, or nil.
	FindOther(ctx context.Context, field, value, excludeID string) (store.Record, error)
	FindOptions(ctx context.Context) ([]Option, error)
}

type repository struct {
	employees store.Collection
}

func NewRepository(s store.Store) Repository {
	return &repository{employees: s.Collection(Collection)}
}

func (r *repository) FindByID(ctx context.Context, id any) (store.Record, error) {
	return r.employees.Get(ctx, id)
}

func (r *repository) FindOther(ctx context.Context, field, value, excludeID string) (store.Record, error) {
	rec, err := r.employees.Find(ctx, func(rec store.Record) bool {
		return rec.ID() != excludeID && rec.Text(field) == value
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Option, error) {
	active, err := r.employees.Filter(ctx, func(rec store.Record) bool {
		return rec.Text("statut") != StatusInactif
	})
	if err != nil {
		return nil, err
	}

	out := make([]Option, 0, len(active))
	for _, rec := range active {
		id, _ := rec.Float("id")
		out = append(out, Option{
			ID:        int64(id),
			Matricule: rec.Text("matricule"),
			FirstName: rec.Text("firstName"),
			LastName:  rec.Text("lastName"),
			Poste:     rec.Text("poste"),
		})
	}
	return out, nil
}
