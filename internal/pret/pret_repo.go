package pret

import (
	"context"

	"go-sirh/internal/store"
)

//go:generate mockgen -source=pret_repo.go -destination=mock/pret_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (store.Record, error)
	// HasOpenLoan reports whether the employee has a loan still pending or being repaid.
	HasOpenLoan(ctx context.Context, employeID, excludeID string) (bool, error)
	// ActiveForEmployee lists the loans being repaid, the ones withheld from payslips.
	ActiveForEmployee(ctx context.Context, employeID string) ([]store.Record, error)
}

type repository struct {
	prets store.Collection
}

func NewRepository(s store.Store) Repository {
	return &repository{prets: s.Collection(Collection)}
}

func (r *repository) FindByID(ctx context.Context, id string) (store.Record, error) {
	return r.prets.Get(ctx, id)
}

func (r *repository) HasOpenLoan(ctx context.Context, employeID, excludeID string) (bool, error) {
	open, err := r.prets.Filter(ctx, func(rec store.Record) bool {
		if rec.ID() == excludeID || store.IDString(rec["employe_id"]) != employeID {
			return false
		}
		s := rec.Text("statut")
		return s == StatusEnAttente || s == StatusEnCours
	})
	if err != nil {
		return false, err
	}
	return len(open) > 0, nil
}

func (r *repository) ActiveForEmployee(ctx context.Context, employeID string) ([]store.Record, error) {
	return r.prets.Filter(ctx, func(rec store.Record) bool {
		return store.IDString(rec["employe_id"]) == employeID && rec.Text("statut") == StatusEnCours
	})
}
