package payroll

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go-sirh/internal/avance"
	"go-sirh/internal/catalog"
	"go-sirh/internal/employee"
	"go-sirh/internal/lifecycle"
	payrollerrors "go-sirh/internal/payroll/errors"
	"go-sirh/internal/pret"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/shared/money"
	"go-sirh/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var PeriodMachine = &lifecycle.Machine{
	Entity:  "période de paie",
	Initial: PeriodOuverte,
	Transitions: []lifecycle.Transition{
		{Action: "cloturer", From: []string{PeriodOuverte}, To: PeriodCloturee},
	},
	Deletable: []string{PeriodOuverte},
	Editable:  []string{PeriodOuverte},
}

var PayslipMachine = &lifecycle.Machine{
	Entity:  "bulletin de paie",
	Initial: PayslipBrouillon,
	Transitions: []lifecycle.Transition{
		{Action: "validate", From: []string{PayslipBrouillon}, To: PayslipValide},
		{Action: "pay", From: []string{PayslipValide}, To: PayslipPaye},
		{Action: "cancel", From: []string{PayslipBrouillon}, To: PayslipAnnule},
	},
	Deletable: []string{PayslipBrouillon},
	Editable:  []string{PayslipBrouillon},
}

func NewPeriodDefinition(repo Repository, logger ...*zap.Logger) *resource.Definition {
	l := zap.L().Named("payroll.period")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.period")
	}

	check := func(ctx context.Context, rec store.Record, excludeID string) error {
		annee, mois, err := readMonth(rec)
		if err != nil {
			return err
		}
		existing, err := repo.FindPeriodByMonth(ctx, annee, mois, excludeID)
		if err != nil {
			return err
		}
		if existing != nil {
			l.Warn("pay period already exists", zap.Int("annee", annee), zap.Int("mois", mois))
			return payrollerrors.ErrPeriodExists
		}

		first := time.Date(annee, time.Month(mois), 1, 0, 0, 0, 0, time.UTC)
		rec["annee"] = annee
		rec["mois"] = mois
		rec["code"] = fmt.Sprintf("%04d-%02d", annee, mois)
		rec["date_debut"] = first.Format(time.DateOnly)
		rec["date_fin"] = first.AddDate(0, 1, -1).Format(time.DateOnly)
		return nil
	}

	return &resource.Definition{
		Name:         "periodes-paie",
		Label:        "Période de paie",
		Collection:   PeriodsCollection,
		HistoryField: lifecycle.DefaultHistoryField,
		Query: query.Spec{
			Filters: []query.Filter{
				query.Exact("annee", "annee"),
				query.Exact("mois", "mois"),
				query.Exact("statut", "statut"),
			},
		},
		Machine: PeriodMachine,
		Actions: map[string]resource.Action{
			"cloturer": {
				ActorField: "cloture_par",
				DateField:  "date_cloture",
				Apply: func(ctx context.Context, current, payload, patch store.Record, now time.Time) error {
					payslips, err := repo.PayslipsForPeriod(ctx, current.ID())
					if err != nil {
						return err
					}
					for _, p := range payslips {
						if s := p.Text("statut"); s != PayslipValide && s != PayslipPaye {
							return payrollerrors.ErrPeriodNotReady
						}
					}
					patch["nombre_bulletins"] = len(payslips)
					return nil
				},
			},
		},
		Export: []export.Column{
			{Header: "Code", Field: "code"},
			{Header: "Début", Field: "date_debut"},
			{Header: "Fin", Field: "date_fin"},
			{Header: "Statut", Field: "statut"},
		},
		BeforeCreate: func(ctx context.Context, rec store.Record) error {
			return check(ctx, rec, "")
		},
		BeforeUpdate: func(ctx context.Context, current, next store.Record) error {
			return check(ctx, next, current.ID())
		},
		BeforeDelete: func(ctx context.Context, current store.Record) error {
			payslips, err := repo.PayslipsForPeriod(ctx, current.ID())
			if err != nil {
				return err
			}
			if len(payslips) > 0 {
				return payrollerrors.ErrPeriodHasPayslips
			}
			return nil
		},
		CreateLockKey: func(rec store.Record) string {
			return "month"
		},
	}
}

func readMonth(rec store.Record) (int, int, error) {
	annee, ok := store.ToFloat(rec["annee"])
	if !ok {
		return 0, 0, apperror.RequiredField("annee")
	}
	mois, ok := store.ToFloat(rec["mois"])
	if !ok {
		return 0, 0, apperror.RequiredField("mois")
	}
	if annee != math.Trunc(annee) || mois != math.Trunc(mois) || annee < 1900 || mois < 1 || mois > 12 {
		return 0, 0, payrollerrors.ErrInvalidPeriod
	}
	return int(annee), int(mois), nil
}

type payslipHooks struct {
	repo    Repository
	catalog catalog.Service
	avances avance.Repository
	prets   pret.Repository
	logger  *zap.Logger
}

func NewPayslipDefinition(
	repo Repository,
	catalogService catalog.Service,
	avances avance.Repository,
	prets pret.Repository,
	logger ...*zap.Logger,
) *resource.Definition {
	l := zap.L().Named("payroll.payslip")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.payslip")
	}
	h := &payslipHooks{repo: repo, catalog: catalogService, avances: avances, prets: prets, logger: l}

	return &resource.Definition{
		Name:       "paies",
		Label:      "Bulletin de paie",
		Collection: PayslipsCollection,
		Query: query.Spec{
			Filters: []query.Filter{
				query.Exact("periode_id", "periode_id"),
				query.Exact("employe_id", "employe_id"),
				query.Exact("employeeId", "employe_id"),
				query.Exact("statut", "statut"),
			},
		},
		Enrichments: []query.Enrichment{
			{Key: "employee", ForeignKey: "employe_id", Collection: employee.Collection, Fields: employee.Projection},
			{Key: "periode", ForeignKey: "periode_id", Collection: PeriodsCollection, Fields: []string{"id", "code", "statut"}},
		},
		Machine:   PayslipMachine,
		Immutable: []string{"periode_id", "employe_id"},
		Actions: map[string]resource.Action{
			"validate": {ActorField: "valide_par", DateField: "date_validation"},
			"pay":      {Fields: []string{"mode_paiement"}, ActorField: "paye_par", DateField: "date_paiement"},
			"cancel":   {ReasonField: "motif_annulation", DateField: "date_annulation"},
		},
		Export: []export.Column{
			{Header: "Période", Field: "periode.code"},
			{Header: "Matricule", Field: "employee.matricule"},
			{Header: "Nom", Field: "employee.lastName"},
			{Header: "Prénom", Field: "employee.firstName"},
			{Header: "Salaire de base", Field: "salaire_base"},
			{Header: "Brut", Field: "salaire_brut"},
			{Header: "CNSS", Field: "cotisation_cnss"},
			{Header: "AMO", Field: "cotisation_amo"},
			{Header: "Avances", Field: "retenue_avances"},
			{Header: "Prêts", Field: "retenue_prets"},
			{Header: "Net à payer", Field: "net_a_payer"},
			{Header: "Statut", Field: "statut"},
		},
		BeforeCreate: h.beforeCreate,
		BeforeUpdate: func(ctx context.Context, current, next store.Record) error {
			period, err := h.openPeriod(ctx, next["periode_id"])
			if err != nil {
				return err
			}
			return h.compute(ctx, next, period)
		},
		CreateLockKey: func(rec store.Record) string {
			return store.IDString(rec["periode_id"]) + ":" + store.IDString(rec["employe_id"])
		},
	}
}

func (h *payslipHooks) openPeriod(ctx context.Context, id any) (store.Record, error) {
	period, err := h.repo.FindPeriod(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, payrollerrors.ErrPeriodNotFound
	}
	if err != nil {
		return nil, err
	}
	if period.Text("statut") != PeriodOuverte {
		return nil, payrollerrors.ErrPeriodClosed
	}
	return period, nil
}

func (h *payslipHooks) beforeCreate(ctx context.Context, rec store.Record) error {
	for _, f := range []string{"periode_id", "employe_id"} {
		if store.IDString(rec[f]) == "" {
			return apperror.RequiredField(f)
		}
	}
	period, err := h.openPeriod(ctx, rec["periode_id"])
	if err != nil {
		return err
	}

	employeID := store.IDString(rec["employe_id"])
	existing, err := h.repo.PayslipsForPeriod(ctx, period.ID())
	if err != nil {
		return err
	}
	for _, p := range existing {
		if store.IDString(p["employe_id"]) == employeID {
			return payrollerrors.ErrPayslipExists
		}
	}

	if _, ok := rec["salaire_base"]; !ok {
		emp, err := h.repo.FindEmployee(ctx, rec["employe_id"])
		switch {
		case errors.Is(err, store.ErrNotFound):
			return apperror.NotFound("Employé")
		case err != nil:
			return err
		}
		rec["salaire_base"] = money.Float(money.Field(emp, "salaireBase"))
	}
	return h.compute(ctx, rec, period)
}

// compute fills the payslip amounts from its inputs, the payroll settings and the
// employee's validated advances and running loans.
func (h *payslipHooks) compute(ctx context.Context, rec store.Record, period store.Record) error {
	in := Inputs{}
	for field, dst := range map[string]*decimal.Decimal{
		"salaire_base": &in.SalaireBase,
		"primes":       &in.Primes,
		"heures_sup":   &in.HeuresSup,
	} {
		v, present := rec[field]
		if !present || v == nil {
			continue
		}
		d, ok := money.FromValue(v)
		if !ok || d.IsNegative() {
			return payrollerrors.ErrInvalidMoneyValue
		}
		*dst = d
	}

	settings, err := h.catalog.PayrollSettings(ctx)
	if err != nil {
		return err
	}

	employeID := store.IDString(rec["employe_id"])
	advances, err := h.avances.ValidatedBetween(ctx, employeID, period.Text("date_debut"), period.Text("date_fin"))
	if err != nil {
		return err
	}
	for _, a := range advances {
		in.RetenueAvances = in.RetenueAvances.Add(money.Field(a, "montant"))
	}
	loans, err := h.prets.ActiveForEmployee(ctx, employeID)
	if err != nil {
		return err
	}
	for _, p := range loans {
		in.RetenuePrets = in.RetenuePrets.Add(money.Field(p, "mensualite"))
	}

	rec["salaire_base"] = money.Float(in.SalaireBase)
	rec["primes"] = money.Float(in.Primes)
	rec["heures_sup"] = money.Float(in.HeuresSup)
	Compute(in, settings).apply(rec)

	h.logger.Debug("payslip computed",
		zap.String("periode_id", period.ID()),
		zap.String("employe_id", employeID),
		zap.Any("net_a_payer", rec["net_a_payer"]),
	)
	return nil
}
