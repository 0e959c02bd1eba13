package absence

import (
	"context"

	"go-sirh/internal/store"
)

//go:generate mockgen -source=absence_repo.go -destination=mock/absence_repo_mock.go -package=mock
type Repository interface {
	// HasOverlappingPeriod reports whether the employee already has a live absence intersecting [start, end].
	HasOverlappingPeriod(ctx context.Context, employeID, start, end, excludeID string) (bool, error)
}

type repository struct {
	absences store.Collection
}

func NewRepository(s store.Store) Repository {
	return &repository{absences: s.Collection(Collection)}
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeID, start, end, excludeID string) (bool, error) {
	overlapping, err := r.absences.Filter(ctx, func(rec store.Record) bool {
		if rec.ID() == excludeID || store.IDString(rec["employe_id"]) != employeID {
			return false
		}
		switch rec.Text("statut") {
		case StatusRefusee, StatusAnnulee:
			return false
		}
		return rec.Text("date_debut") <= end && rec.Text("date_fin") >= start
	})
	if err != nil {
		return false, err
	}
	return len(overlapping) > 0, nil
}
