package pret

import (
	"context"
	"errors"
	"math"
	"time"

	"go-sirh/internal/employee"
	"go-sirh/internal/lifecycle"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	preterrors "go-sirh/internal/pret/errors"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/shared/money"
	"go-sirh/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var Machine = &lifecycle.Machine{
	Entity:  "pret",
	Initial: StatusEnAttente,
	Transitions: []lifecycle.Transition{
		{Action: "validate", From: []string{StatusEnAttente}, To: StatusEnCours},
		{Action: "refuse", From: []string{StatusEnAttente}, To: StatusRefuse},
		{Action: "cancel", From: []string{StatusEnAttente}, To: StatusAnnule},
		{Action: "close", From: []string{StatusEnCours}, To: StatusSolde},
	},
	Deletable: []string{StatusEnAttente},
	Editable:  []string{StatusEnAttente},
}

//go:generate mockgen -source=pret_service.go -destination=mock/pret_service_mock.go -package=mock
type Service interface {
	Definition() *resource.Definition
	Schedule(ctx context.Context, id string) (ScheduleResponse, error)
	Simulate(req SimulateRequest) ScheduleResponse
}

type service struct {
	repo   Repository
	def    *resource.Definition
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("pret.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("pret.service")
	}
	s := &service{repo: repo, logger: l}
	s.def = s.definition()
	return s
}

func (s *service) Definition() *resource.Definition {
	return s.def
}

func (s *service) definition() *resource.Definition {
	return &resource.Definition{
		Name:       "prets",
		Label:      "Prêt",
		Collection: Collection,
		Query: query.Spec{
			Filters: []query.Filter{
				query.Exact("employe_id", "employe_id"),
				query.Exact("employeeId", "employe_id"),
				query.Exact("statut", "statut"),
			},
		},
		Enrichments: []query.Enrichment{
			{Key: "employee", ForeignKey: "employe_id", Collection: employee.Collection, Fields: employee.Projection},
		},
		Machine:   Machine,
		Defaults:  store.Record{"taux_annuel": 0},
		Immutable: []string{"employe_id", "reste_a_payer", "mensualite"},
		Actions: map[string]resource.Action{
			"validate": {ActorField: "valide_par", DateField: "date_validation", Apply: s.applyValidate},
			"refuse":   {ReasonField: "motif_refus", ActorField: "valide_par", DateField: "date_validation"},
			"cancel":   {ReasonField: "motif_annulation", DateField: "date_annulation"},
			"close":    {DateField: "date_cloture", Apply: s.applyClose},
		},
		Export: []export.Column{
			{Header: "Matricule", Field: "employee.matricule"},
			{Header: "Nom", Field: "employee.lastName"},
			{Header: "Prénom", Field: "employee.firstName"},
			{Header: "Montant", Field: "montant"},
			{Header: "Durée (mois)", Field: "duree_mois"},
			{Header: "Taux annuel", Field: "taux_annuel"},
			{Header: "Mensualité", Field: "mensualite"},
			{Header: "Reste à payer", Field: "reste_a_payer"},
			{Header: "Statut", Field: "statut"},
		},
		BeforeCreate: func(ctx context.Context, rec store.Record) error {
			return s.prepare(ctx, rec, "")
		},
		BeforeUpdate: func(ctx context.Context, current, next store.Record) error {
			return s.prepare(ctx, next, current.ID())
		},
		CreateLockKey: func(rec store.Record) string {
			return store.IDString(rec["employe_id"])
		},
	}
}

type terms struct {
	montant decimal.Decimal
	duree   int
	taux    decimal.Decimal
}

func readTerms(rec store.Record) (terms, error) {
	montant, ok := money.FromValue(rec["montant"])
	if !ok || !montant.IsPositive() {
		return terms{}, preterrors.ErrInvalidMontant
	}
	duree, ok := store.ToFloat(rec["duree_mois"])
	if !ok || duree <= 0 || duree != math.Trunc(duree) {
		return terms{}, preterrors.ErrInvalidDuree
	}
	taux := decimal.Zero
	if v, present := rec["taux_annuel"]; present && v != nil && store.Stringify(v) != "" {
		taux, ok = money.FromValue(v)
		if !ok || taux.IsNegative() {
			return terms{}, preterrors.ErrInvalidTaux
		}
	}
	return terms{montant: montant, duree: int(duree), taux: taux}, nil
}

// prepare validates the loan terms and computes mensualite and reste_a_payer.
func (s *service) prepare(ctx context.Context, rec store.Record, excludeID string) error {
	employeID := store.IDString(rec["employe_id"])
	if employeID == "" {
		return apperror.RequiredField("employe_id")
	}
	t, err := readTerms(rec)
	if err != nil {
		return err
	}
	if d := rec.Text("date_debut"); d != "" {
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return preterrors.ErrInvalidDateDebut
		}
	}

	open, err := s.repo.HasOpenLoan(ctx, employeID, excludeID)
	if err != nil {
		return err
	}
	if open {
		s.logger.Warn("loan already open", zap.String("employe_id", employeID))
		return preterrors.ErrLoanInProgress
	}

	mensualite := MonthlyPayment(t.montant, t.duree, t.taux)
	rec["montant"] = money.Float(t.montant)
	rec["duree_mois"] = t.duree
	rec["taux_annuel"] = money.Float(t.taux)
	rec["mensualite"] = money.Float(mensualite)
	rec["reste_a_payer"] = money.Float(mensualite.Mul(decimal.NewFromInt(int64(t.duree))))
	return nil
}

func (s *service) applyValidate(ctx context.Context, current, payload, patch store.Record, now time.Time) error {
	if current.Text("date_debut") == "" {
		patch["date_debut"] = now.Format(time.DateOnly)
	}
	return nil
}

func (s *service) applyClose(ctx context.Context, current, payload, patch store.Record, now time.Time) error {
	patch["reste_a_payer"] = 0
	patch["cloture_par"] = contextutil.GetActor(ctx)
	return nil
}

func (s *service) Schedule(ctx context.Context, id string) (ScheduleResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ScheduleResponse{}, preterrors.ErrPretNotFound
	}
	if err != nil {
		s.logger.Error("load loan failed", zap.String("id", id), zap.Error(err))
		return ScheduleResponse{}, err
	}
	t, err := readTerms(rec)
	if err != nil {
		return ScheduleResponse{}, err
	}

	out := Schedule(t.montant, t.duree, t.taux, rec.Text("date_debut"))
	out.PretID = rec.ID()
	return out, nil
}

func (s *service) Simulate(req SimulateRequest) ScheduleResponse {
	return Schedule(decimal.NewFromFloat(req.Montant), req.DureeMois, decimal.NewFromFloat(req.TauxAnnuel), "")
}
