package payroll

import (
	"context"
	"errors"

	"go-sirh/internal/employee"
	"go-sirh/internal/store"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	FindPeriod(ctx context.Context, id any) (store.Record, error)
	// FindPeriodByMonth returns the period of annee/mois other than excludeID, or nil.
	FindPeriodByMonth(ctx context.Context, annee, mois int, excludeID string) (store.Record, error)
	// PayslipsForPeriod lists the payslips of a period, cancelled ones excluded.
	PayslipsForPeriod(ctx context.Context, periodeID string) ([]store.Record, error)
	ActiveEmployees(ctx context.Context) ([]store.Record, error)
	FindEmployee(ctx context.Context, id any) (store.Record, error)
}

type repository struct {
	periods   store.Collection
	payslips  store.Collection
	employees store.Collection
}

func NewRepository(s store.Store) Repository {
	return &repository{
		periods:   s.Collection(PeriodsCollection),
		payslips:  s.Collection(PayslipsCollection),
		employees: s.Collection(employee.Collection),
	}
}

func (r *repository) FindPeriod(ctx context.Context, id any) (store.Record, error) {
	return r.periods.Get(ctx, id)
}

func (r *repository) FindPeriodByMonth(ctx context.Context, annee, mois int, excludeID string) (store.Record, error) {
	rec, err := r.periods.Find(ctx, func(rec store.Record) bool {
		a, _ := rec.Float("annee")
		m, _ := rec.Float("mois")
		return rec.ID() != excludeID && int(a) == annee && int(m) == mois
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func (r *repository) PayslipsForPeriod(ctx context.Context, periodeID string) ([]store.Record, error) {
	return r.payslips.Filter(ctx, func(rec store.Record) bool {
		return store.IDString(rec["periode_id"]) == periodeID && rec.Text("statut") != PayslipAnnule
	})
}

func (r *repository) ActiveEmployees(ctx context.Context) ([]store.Record, error) {
	return r.employees.Filter(ctx, func(rec store.Record) bool {
		return rec.Text("statut") == employee.StatusActif
	})
}

func (r *repository) FindEmployee(ctx context.Context, id any) (store.Record, error) {
	return r.employees.Get(ctx, id)
}
