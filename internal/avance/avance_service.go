package avance

import (
	"context"
	"errors"
	"time"

	avanceerrors "go-sirh/internal/avance/errors"
	"go-sirh/internal/catalog"
	"go-sirh/internal/employee"
	"go-sirh/internal/lifecycle"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/shared/money"
	"go-sirh/internal/store"

	"go.uber.org/zap"
)

var Machine = &lifecycle.Machine{
	Entity:  "avance",
	Initial: StatusEnAttente,
	Transitions: []lifecycle.Transition{
		{Action: "validate", From: []string{StatusEnAttente}, To: StatusValide},
		{Action: "refuse", From: []string{StatusEnAttente}, To: StatusRefuse},
	},
	Deletable: []string{StatusEnAttente},
	Editable:  []string{StatusEnAttente},
}

type hooks struct {
	repo      Repository
	employees employee.Repository
	catalog   catalog.Service
	logger    *zap.Logger
}

func NewDefinition(repo Repository, employees employee.Repository, catalogService catalog.Service, logger ...*zap.Logger) *resource.Definition {
	l := zap.L().Named("avance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("avance.service")
	}
	h := &hooks{repo: repo, employees: employees, catalog: catalogService, logger: l}

	return &resource.Definition{
		Name:       "avances",
		Label:      "Avance",
		Collection: Collection,
		Query: query.Spec{
			Filters: []query.Filter{
				query.Normalized("statut", "statut", NormalizeStatus),
				query.Exact("employe_id", "employe_id"),
				query.Exact("employeeId", "employe_id"),
				query.DateWithin("from", "to", "date_demande"),
			},
		},
		Enrichments: []query.Enrichment{
			{Key: "employee", ForeignKey: "employe_id", Collection: employee.Collection, Fields: employee.Projection},
		},
		Machine:         Machine,
		NormalizeStatus: NormalizeStatus,
		Immutable:       []string{"employe_id"},
		Actions: map[string]resource.Action{
			"validate": {ActorField: "valide_par", DateField: "date_validation"},
			"refuse":   {ReasonField: "motif_refus", ActorField: "valide_par", DateField: "date_validation"},
		},
		Export: []export.Column{
			{Header: "Matricule", Field: "employee.matricule"},
			{Header: "Nom", Field: "employee.lastName"},
			{Header: "Prénom", Field: "employee.firstName"},
			{Header: "Date demande", Field: "date_demande"},
			{Header: "Montant", Field: "montant"},
			{Header: "Motif", Field: "motif"},
			{Header: "Statut", Field: "statut"},
		},
		BeforeCreate: h.beforeCreate,
		BeforeUpdate: h.beforeUpdate,
		CreateLockKey: func(rec store.Record) string {
			return store.IDString(rec["employe_id"])
		},
	}
}

func (h *hooks) validateFields(rec store.Record) error {
	if store.IDString(rec["employe_id"]) == "" {
		return apperror.RequiredField("employe_id")
	}
	montant, ok := money.FromValue(rec["montant"])
	if !ok || !montant.IsPositive() {
		return avanceerrors.ErrInvalidMontant
	}
	rec["montant"] = money.Float(montant)

	if rec.Text("date_demande") == "" {
		return apperror.RequiredField("date_demande")
	}
	if _, err := time.Parse(time.DateOnly, rec.Text("date_demande")); err != nil {
		return avanceerrors.ErrInvalidDateDemande
	}
	return nil
}

// beforeCreate and beforeUpdate run under the per-employee lock, so the count cannot race with another write.
func (h *hooks) beforeCreate(ctx context.Context, rec store.Record) error {
	if err := h.validateFields(rec); err != nil {
		return err
	}
	return h.checkLimits(ctx, rec, "")
}

func (h *hooks) beforeUpdate(ctx context.Context, current, next store.Record) error {
	if err := h.validateFields(next); err != nil {
		return err
	}
	return h.checkLimits(ctx, next, current.ID())
}

// checkLimits enforces the yearly cap and the salary based ceiling.
// excludeID keeps an edited advance from counting against itself.
func (h *hooks) checkLimits(ctx context.Context, rec store.Record, excludeID string) error {
	settings, err := h.catalog.PayrollSettings(ctx)
	if err != nil {
		return err
	}

	employeID := store.IDString(rec["employe_id"])
	year := rec.Text("date_demande")[:4]
	count, err := h.repo.CountForYear(ctx, employeID, year, excludeID)
	if err != nil {
		h.logger.Error("count yearly advances failed", zap.String("employe_id", employeID), zap.Error(err))
		return err
	}
	if settings.MaxAvancesParAn > 0 && count >= settings.MaxAvancesParAn {
		h.logger.Warn("yearly advance cap reached",
			zap.String("employe_id", employeID),
			zap.String("year", year),
			zap.Int("count", count),
			zap.Int("max", settings.MaxAvancesParAn),
		)
		return avanceerrors.ErrYearlyCapReached
	}

	if settings.AvancePlafondPourcentage.IsPositive() {
		emp, err := h.employees.FindByID(ctx, rec["employe_id"])
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil
		case err != nil:
			return err
		}
		salaire := money.Field(emp, "salaireBase")
		if !salaire.IsPositive() {
			return nil
		}
		ceiling := money.Round(money.Percent(salaire, settings.AvancePlafondPourcentage))
		montant, _ := money.FromValue(rec["montant"])
		if montant.GreaterThan(ceiling) {
			h.logger.Warn("advance above ceiling",
				zap.String("employe_id", employeID),
				zap.String("montant", montant.String()),
				zap.String("plafond", ceiling.String()),
			)
			return avanceerrors.ErrAboveCeiling
		}
	}
	return nil
}
