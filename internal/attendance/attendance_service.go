package attendance

import (
	"context"
	"math"
	"time"

	attendanceerrors "go-sirh/internal/attendance/errors"
	"go-sirh/internal/catalog"
	"go-sirh/internal/employee"
	"go-sirh/internal/lifecycle"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/store"

	"go.uber.org/zap"
)

const clockLayout = "15:04"

var Machine = &lifecycle.Machine{
	Entity:  "pointage",
	Initial: StatusBrouillon,
	Transitions: []lifecycle.Transition{
		{Action: "validate", From: []string{StatusBrouillon}, To: StatusValide},
	},
	Deletable: []string{StatusBrouillon},
	Editable:  []string{StatusBrouillon},
}

type hooks struct {
	repo    Repository
	catalog catalog.Service
	logger  *zap.Logger
}

func NewDefinition(repo Repository, catalogService catalog.Service, logger ...*zap.Logger) *resource.Definition {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	h := &hooks{repo: repo, catalog: catalogService, logger: l}

	return &resource.Definition{
		Name:       "pointages",
		Label:      "Pointage",
		Collection: Collection,
		Defaults:   store.Record{"source": sourceManual},
		Query: query.Spec{
			Filters: []query.Filter{
				query.DateWithin("from", "to", "date"),
				query.Exact("employe_id", "employe_id"),
				query.Exact("employeeId", "employe_id"),
				query.Exact("statut", "statut"),
				query.Exact("presence", "presence"),
			},
		},
		Enrichments: []query.Enrichment{
			{Key: "employee", ForeignKey: "employe_id", Collection: employee.Collection, Fields: employee.Projection},
		},
		Machine:   Machine,
		Immutable: []string{"employe_id"},
		Actions: map[string]resource.Action{
			"validate": {ActorField: "valide_par", DateField: "date_validation"},
		},
		Export: []export.Column{
			{Header: "Matricule", Field: "employee.matricule"},
			{Header: "Nom", Field: "employee.lastName"},
			{Header: "Prénom", Field: "employee.firstName"},
			{Header: "Date", Field: "date"},
			{Header: "Entrée", Field: "heure_entree"},
			{Header: "Sortie", Field: "heure_sortie"},
			{Header: "Heures", Field: "heures_travaillees"},
			{Header: "Présence", Field: "presence"},
			{Header: "Retard (min)", Field: "minutes_retard"},
			{Header: "Statut", Field: "statut"},
		},
		BeforeCreate: func(ctx context.Context, rec store.Record) error {
			return h.compute(ctx, rec, "")
		},
		BeforeUpdate: func(ctx context.Context, current, next store.Record) error {
			return h.compute(ctx, next, current.ID())
		},
		CreateLockKey: func(rec store.Record) string {
			return store.IDString(rec["employe_id"]) + ":" + rec.Text("date")
		},
	}
}

func parseClock(v string) (time.Time, error) {
	t, err := time.Parse(clockLayout, v)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidTime
	}
	return t, nil
}

// compute validates the pointage, then derives heures_travaillees and the lateness flag.
func (h *hooks) compute(ctx context.Context, rec store.Record, excludeID string) error {
	employeID := store.IDString(rec["employe_id"])
	if employeID == "" {
		return apperror.RequiredField("employe_id")
	}
	if rec.Text("date") == "" {
		return apperror.RequiredField("date")
	}
	if _, err := time.Parse(time.DateOnly, rec.Text("date")); err != nil {
		return attendanceerrors.ErrInvalidDate
	}
	if rec.Text("heure_entree") == "" {
		return apperror.RequiredField("heure_entree")
	}
	entree, err := parseClock(rec.Text("heure_entree"))
	if err != nil {
		return err
	}

	worked := 0.0
	if s := rec.Text("heure_sortie"); s != "" {
		sortie, err := parseClock(s)
		if err != nil {
			return err
		}
		if !sortie.After(entree) {
			return attendanceerrors.ErrInvalidTimeRange
		}
		worked = math.Round(sortie.Sub(entree).Hours()*100) / 100
	}
	rec["heures_travaillees"] = worked

	settings, err := h.catalog.PayrollSettings(ctx)
	if err != nil {
		return err
	}
	start, err := parseClock(settings.HeureDebutTravail)
	if err != nil {
		start, _ = time.Parse(clockLayout, "09:00")
	}
	if entree.After(start) {
		rec["presence"] = PresenceRetard
		rec["retard"] = true
		rec["minutes_retard"] = int(entree.Sub(start).Minutes())
	} else {
		rec["presence"] = PresencePresent
		rec["retard"] = false
		rec["minutes_retard"] = 0
	}

	existing, err := h.repo.FindByEmployeeAndDate(ctx, employeID, rec.Text("date"), excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		h.logger.Warn("duplicate pointage", zap.String("employe_id", employeID), zap.String("date", rec.Text("date")))
		return attendanceerrors.ErrAlreadyClockedIn
	}
	return nil
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, req ClockInRequest) (store.Record, error)
	ClockOut(ctx context.Context, req ClockOutRequest) (store.Record, error)
}

type service struct {
	crud   resource.Service
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(crud resource.Service, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{crud: crud, repo: repo, now: time.Now, logger: l}
}

func (s *service) ClockIn(ctx context.Context, req ClockInRequest) (store.Record, error) {
	now := s.now()
	rec := store.Record{
		"employe_id":   req.EmployeID,
		"date":         now.Format(time.DateOnly),
		"heure_entree": now.Format(clockLayout),
		"source":       sourceBadge,
	}
	if req.Notes != "" {
		rec["notes"] = req.Notes
	}

	created, err := s.crud.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	contextutil.GetLogger(ctx, s.logger).Info("clock in",
		zap.Int64("employe_id", req.EmployeID),
		zap.String("heure_entree", created.Text("heure_entree")),
		zap.Any("presence", created["presence"]),
	)
	return created, nil
}

func (s *service) ClockOut(ctx context.Context, req ClockOutRequest) (store.Record, error) {
	now := s.now()
	today, err := s.repo.FindByEmployeeAndDate(ctx, store.IDString(req.EmployeID), now.Format(time.DateOnly), "")
	if err != nil {
		return nil, err
	}
	if today == nil {
		return nil, attendanceerrors.ErrClockInNotFound
	}
	if today.Text("heure_sortie") != "" {
		return nil, attendanceerrors.ErrAlreadyClockedOut
	}

	patch := store.Record{"heure_sortie": now.Format(clockLayout)}
	if req.Notes != "" {
		patch["notes"] = req.Notes
	}
	updated, err := s.crud.Update(ctx, today.ID(), patch, true)
	if err != nil {
		return nil, err
	}
	contextutil.GetLogger(ctx, s.logger).Info("clock out",
		zap.Int64("employe_id", req.EmployeID),
		zap.Any("heures_travaillees", updated["heures_travaillees"]),
	)
	return updated, nil
}
