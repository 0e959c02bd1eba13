package avance

import (
	"context"
	"strings"

	"go-sirh/internal/store"
)

//go:generate mockgen -source=avance_repo.go -destination=mock/avance_repo_mock.go -package=mock
type Repository interface {
	// CountForYear counts the employee's non refused advances requested during year (YYYY),
	// leaving out excludeID when set.
	CountForYear(ctx context.Context, employeID, year, excludeID string) (int, error)
	// ValidatedBetween lists the employee's validated advances requested in [from, to].
	ValidatedBetween(ctx context.Context, employeID, from, to string) ([]store.Record, error)
}

type repository struct {
	avances store.Collection
}

func NewRepository(s store.Store) Repository {
	return &repository{avances: s.Collection(Collection)}
}

func (r *repository) CountForYear(ctx context.Context, employeID, year, excludeID string) (int, error) {
	rows, err := r.avances.Filter(ctx, func(rec store.Record) bool {
		if excludeID != "" && rec.ID() == excludeID {
			return false
		}
		return store.IDString(rec["employe_id"]) == employeID &&
			NormalizeStatus(rec.Text("statut")) != StatusRefuse &&
			strings.HasPrefix(rec.Text("date_demande"), year)
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *repository) ValidatedBetween(ctx context.Context, employeID, from, to string) ([]store.Record, error) {
	return r.avances.Filter(ctx, func(rec store.Record) bool {
		d := rec.Text("date_demande")
		return store.IDString(rec["employe_id"]) == employeID &&
			NormalizeStatus(rec.Text("statut")) == StatusValide &&
			d >= from && d <= to
	})
}
