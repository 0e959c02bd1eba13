package absence

import (
	"context"
	"time"

	absenceerrors "go-sirh/internal/absence/errors"
	"go-sirh/internal/catalog"
	"go-sirh/internal/employee"
	"go-sirh/internal/lifecycle"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/store"

	"go.uber.org/zap"
)

var Machine = &lifecycle.Machine{
	Entity:  "absence",
	Initial: StatusEnAttente,
	Transitions: []lifecycle.Transition{
		{Action: "validate", From: []string{StatusEnAttente}, To: StatusValidee},
		{Action: "refuse", From: []string{StatusEnAttente}, To: StatusRefusee},
		{Action: "cancel", From: []string{StatusEnAttente, StatusValidee}, To: StatusAnnulee},
	},
	Deletable: []string{StatusEnAttente},
	Editable:  []string{StatusEnAttente},
}

type hooks struct {
	repo   Repository
	logger *zap.Logger
}

func NewDefinition(repo Repository, logger ...*zap.Logger) *resource.Definition {
	l := zap.L().Named("absence.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("absence.service")
	}
	h := &hooks{repo: repo, logger: l}

	return &resource.Definition{
		Name:       "absences",
		Label:      "Absence",
		Collection: Collection,
		Query: query.Spec{
			Filters: []query.Filter{
				query.DateOverlap("from", "to", "date_debut", "date_fin"),
				query.Exact("employe_id", "employe_id"),
				query.Exact("employeeId", "employe_id"),
				query.Exact("type_absence_id", "type_absence_id"),
				query.Exact("statut", "statut"),
			},
		},
		Enrichments: []query.Enrichment{
			{Key: "employee", ForeignKey: "employe_id", Collection: employee.Collection, Fields: employee.Projection},
			{Key: "type_absence", ForeignKey: "type_absence_id", Collection: catalog.AbsenceTypesCollection, Fields: []string{"id", "code", "libelle"}},
		},
		Machine:   Machine,
		Immutable: []string{"employe_id"},
		Actions: map[string]resource.Action{
			"validate": {ActorField: "valide_par", DateField: "date_validation"},
			"refuse":   {ReasonField: "motif_refus", ActorField: "valide_par", DateField: "date_validation"},
			"cancel":   {ReasonField: "motif_annulation", DateField: "date_annulation"},
		},
		Export: []export.Column{
			{Header: "Matricule", Field: "employee.matricule"},
			{Header: "Nom", Field: "employee.lastName"},
			{Header: "Prénom", Field: "employee.firstName"},
			{Header: "Type", Field: "type_absence.libelle"},
			{Header: "Date début", Field: "date_debut"},
			{Header: "Date fin", Field: "date_fin"},
			{Header: "Jours", Field: "nombre_jours"},
			{Header: "Statut", Field: "statut"},
		},
		BeforeCreate: func(ctx context.Context, rec store.Record) error {
			return h.validate(ctx, rec, "")
		},
		BeforeUpdate: func(ctx context.Context, current, next store.Record) error {
			return h.validate(ctx, next, current.ID())
		},
		CreateLockKey: func(rec store.Record) string {
			return store.IDString(rec["employe_id"])
		},
	}
}

// validate checks the period, computes nombre_jours and rejects overlaps.
func (h *hooks) validate(ctx context.Context, rec store.Record, excludeID string) error {
	for _, f := range []string{"employe_id", "type_absence_id", "date_debut", "date_fin"} {
		if rec.Text(f) == "" {
			return apperror.RequiredField(f)
		}
	}

	days, err := CountDays(rec.Text("date_debut"), rec.Text("date_fin"))
	if err != nil {
		return err
	}
	rec["nombre_jours"] = days

	overlap, err := h.repo.HasOverlappingPeriod(ctx, store.IDString(rec["employe_id"]), rec.Text("date_debut"), rec.Text("date_fin"), excludeID)
	if err != nil {
		h.logger.Error("absence overlap check failed", zap.Error(err))
		return err
	}
	if overlap {
		h.logger.Warn("absence overlap detected",
			zap.String("employe_id", store.IDString(rec["employe_id"])),
			zap.String("date_debut", rec.Text("date_debut")),
			zap.String("date_fin", rec.Text("date_fin")),
		)
		return absenceerrors.ErrAbsenceOverlap
	}
	return nil
}

// CountDays returns the inclusive number of calendar days between two YYYY-MM-DD dates.
func CountDays(start, end string) (int, error) {
	from, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return 0, absenceerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return 0, absenceerrors.ErrInvalidDateFormat
	}
	if to.Before(from) {
		return 0, absenceerrors.ErrInvalidDateRange
	}
	return int(to.Sub(from).Hours()/24) + 1, nil
}
