package accident

import (
	"context"
	"fmt"
	"math"
	"time"

	accidenterrors "go-sirh/internal/accident/errors"
	"go-sirh/internal/employee"
	"go-sirh/internal/lifecycle"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/shared/counter"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/store"

	"go.uber.org/zap"
)

var Machine = &lifecycle.Machine{
	Entity:  "accident du travail",
	Initial: StatusBrouillon,
	Transitions: []lifecycle.Transition{
		{Action: "declarer", From: []string{StatusBrouillon}, To: StatusDeclare},
		{Action: "declarer-cnss", From: []string{StatusDeclare}, To: StatusTransmis},
		{Action: "decision-cnss", From: []string{StatusTransmis}, To: StatusAccepte},
		{Action: "decision-cnss", From: []string{StatusTransmis}, To: StatusRefuse},
		{Action: "cloturer", From: []string{StatusAccepte, StatusRefuse}, To: StatusClos},
	},
	Deletable: []string{StatusBrouillon},
	Editable:  []string{StatusBrouillon},
}

type hooks struct {
	counter counter.Repository
	logger  *zap.Logger
}

func NewDefinition(counterRepo counter.Repository, logger ...*zap.Logger) *resource.Definition {
	l := zap.L().Named("accident.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("accident.service")
	}
	h := &hooks{counter: counterRepo, logger: l}

	return &resource.Definition{
		Name:         "accidents-travail",
		Label:        "Accident du travail",
		Collection:   Collection,
		HistoryField: lifecycle.DefaultHistoryField,
		Defaults:     store.Record{"jours_arret": 0},
		Query: query.Spec{
			Filters: []query.Filter{
				query.Exact("employe_id", "employe_id"),
				query.Exact("employeeId", "employe_id"),
				query.Exact("statut", "statut"),
				query.Exact("type_lesion", "type_lesion"),
				query.DateWithin("from", "to", "date_accident"),
			},
		},
		Enrichments: []query.Enrichment{
			{Key: "employee", ForeignKey: "employe_id", Collection: employee.Collection, Fields: employee.Projection},
		},
		Machine:   Machine,
		Immutable: []string{"employe_id", "reference", "numero_dossier_cnss"},
		Actions: map[string]resource.Action{
			"declarer": {ActorField: "declare_par", Apply: h.applyDeclare},
			"declarer-cnss": {
				Fields:    []string{"numero_dossier_cnss"},
				DateField: "date_transmission_cnss",
				Apply:     h.applyTransmit,
			},
			"decision-cnss": {
				Fields:      []string{"decision"},
				ReasonField: "motif_decision",
				DateField:   "date_decision_cnss",
				Outcome:     decisionOutcome,
			},
			"cloturer": {ActorField: "cloture_par", DateField: "date_cloture"},
		},
		Export: []export.Column{
			{Header: "Référence", Field: "reference"},
			{Header: "Matricule", Field: "employee.matricule"},
			{Header: "Nom", Field: "employee.lastName"},
			{Header: "Prénom", Field: "employee.firstName"},
			{Header: "Date", Field: "date_accident"},
			{Header: "Heure", Field: "heure_accident"},
			{Header: "Lieu", Field: "lieu"},
			{Header: "Lésion", Field: "type_lesion"},
			{Header: "Jours d'arrêt", Field: "jours_arret"},
			{Header: "Dossier CNSS", Field: "numero_dossier_cnss"},
			{Header: "Déclaré dans les délais", Field: "delaiDeclarationRespect"},
			{Header: "Statut", Field: "statut"},
		},
		BeforeCreate: h.beforeCreate,
		BeforeUpdate: func(ctx context.Context, current, next store.Record) error {
			_, err := occurredAt(next)
			if err != nil {
				return err
			}
			return validateJoursArret(next)
		},
	}
}

func (h *hooks) beforeCreate(ctx context.Context, rec store.Record) error {
	if _, err := occurredAt(rec); err != nil {
		return err
	}
	if err := validateJoursArret(rec); err != nil {
		return err
	}
	if rec.Text("reference") == "" {
		n, err := h.counter.GetNextValue(ctx, ReferenceCounter)
		if err != nil {
			h.logger.Error("generate accident reference failed", zap.Error(err))
			return err
		}
		rec["reference"] = counter.Format("ACC-", n, 6)
	}
	return nil
}

// occurredAt validates the accident date and time and returns the instant, in local time.
// A missing heure_accident means midnight.
func occurredAt(rec store.Record) (time.Time, error) {
	if store.IDString(rec["employe_id"]) == "" {
		return time.Time{}, apperror.RequiredField("employe_id")
	}
	day := rec.Text("date_accident")
	if day == "" {
		return time.Time{}, apperror.RequiredField("date_accident")
	}
	at, err := time.ParseInLocation(time.DateOnly, day, time.Local)
	if err != nil {
		return time.Time{}, accidenterrors.ErrInvalidDateAccident
	}
	if hour := rec.Text("heure_accident"); hour != "" {
		clock, err := time.Parse("15:04", hour)
		if err != nil {
			return time.Time{}, accidenterrors.ErrInvalidHeure
		}
		at = at.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
	}
	return at, nil
}

func validateJoursArret(rec store.Record) error {
	v, ok := rec["jours_arret"]
	if !ok || v == nil || v == "" {
		return nil
	}
	n, ok := store.ToFloat(v)
	if !ok || n < 0 {
		return accidenterrors.ErrInvalidJoursArret
	}
	rec["jours_arret"] = n
	return nil
}

// DeclarationDelay returns the hours elapsed between the accident and now and whether
// they fit the legal deadline.
func DeclarationDelay(accidentAt, now time.Time) (float64, bool) {
	hours := math.Abs(now.Sub(accidentAt).Hours())
	return hours, hours <= DeclarationDeadline
}

func (h *hooks) applyDeclare(ctx context.Context, current, payload, patch store.Record, now time.Time) error {
	at, err := occurredAt(current)
	if err != nil {
		return err
	}
	if at.After(now.Add(ClockSkewTolerance)) {
		return accidenterrors.ErrFutureAccident
	}
	hours, onTime := DeclarationDelay(at, now)
	patch["heuresDepuisAccident"] = math.Round(hours*100) / 100
	patch["delaiDeclarationRespect"] = onTime
	patch["date_declaration"] = now.Format(time.RFC3339)
	if !onTime {
		contextutil.GetLogger(ctx, h.logger).Warn("accident declared after deadline",
			zap.String("id", current.ID()),
			zap.Float64("hours", hours),
		)
	}
	return nil
}

func (h *hooks) applyTransmit(ctx context.Context, current, payload, patch store.Record, now time.Time) error {
	if patch.Text("numero_dossier_cnss") != "" {
		return nil
	}
	n, err := h.counter.GetNextValue(ctx, fmt.Sprintf("%s%d", cnssCounterPrefix, now.Year()))
	if err != nil {
		h.logger.Error("generate cnss file number failed", zap.Error(err))
		return err
	}
	patch["numero_dossier_cnss"] = counter.Format(fmt.Sprintf("AT-%d-", now.Year()), n, 4)
	return nil
}

func decisionOutcome(payload store.Record) (string, error) {
	switch d := payload.Text("decision"); d {
	case StatusAccepte, StatusRefuse:
		return d, nil
	case "":
		return "", apperror.RequiredField("decision")
	default:
		return "", accidenterrors.ErrInvalidDecision
	}
}

//go:generate mockgen -source=accident_service.go -destination=mock/accident_service_mock.go -package=mock
type Service interface {
	Statistics(ctx context.Context, params query.Params) (Statistics, error)
}

type service struct {
	crud   resource.Service
	logger *zap.Logger
}

func NewService(crud resource.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("accident.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("accident.service")
	}
	return &service{crud: crud, logger: l}
}

// Statistics aggregates the accidents selected by the list filters.
// Months are keyed "YYYY-MM" from date_accident.
func (s *service) Statistics(ctx context.Context, params query.Params) (Statistics, error) {
	rows, err := s.crud.Search(ctx, params)
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		Total:     len(rows),
		ParStatut: map[string]int{},
		ParMois:   map[string]int{},
	}
	for _, rec := range rows {
		stats.ParStatut[rec.Text("statut")]++
		if day := rec.Text("date_accident"); len(day) >= 7 {
			stats.ParMois[day[:7]]++
		}
		if onTime, ok := rec["delaiDeclarationRespect"].(bool); ok && !onTime {
			stats.DeclarationsTardives++
		}
		if n, ok := store.ToFloat(rec["jours_arret"]); ok {
			stats.TotalJoursArret += n
		}
	}

	contextutil.GetLogger(ctx, s.logger).Debug("accident statistics computed", zap.Int("total", stats.Total))
	return stats, nil
}
