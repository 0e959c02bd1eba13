package attendance

import (
	"context"
	"errors"

	"go-sirh/internal/store"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	// FindByEmployeeAndDate returns the employee's pointage of date other than excludeID, or nil.
	FindByEmployeeAndDate(ctx context.Context, employeID, date, excludeID string) (store.Record, error)
}

type repository struct {
	pointages store.Collection
}

func NewRepository(s store.Store) Repository {
	return &repository{pointages: s.Collection(Collection)}
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeID, date, excludeID string) (store.Record, error) {
	rec, err := r.pointages.Find(ctx, func(rec store.Record) bool {
		return rec.ID() != excludeID &&
			store.IDString(rec["employe_id"]) == employeID &&
			rec.Text("date") == date
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}
