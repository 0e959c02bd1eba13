package contract

import (
	"context"
	"strconv"
	"time"

	"go-sirh/internal/catalog"
	contracterrors "go-sirh/internal/contract/errors"
	"go-sirh/internal/employee"
	"go-sirh/internal/events"
	"go-sirh/internal/lifecycle"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/shared/money"
	"go-sirh/internal/store"

	"go.uber.org/zap"
)

var Machine = &lifecycle.Machine{
	Entity:  "contrat",
	Initial: StatusBrouillon,
	Transitions: []lifecycle.Transition{
		{Action: "validate", From: []string{StatusBrouillon}, To: StatusActif},
		{Action: "cancel", From: []string{StatusBrouillon, StatusActif}, To: StatusAnnule},
	},
	Deletable: []string{StatusBrouillon},
	Editable:  []string{StatusBrouillon},
}

func NewDefinition() *resource.Definition {
	return &resource.Definition{
		Name:         "contracts",
		Label:        "Contrat",
		Collection:   Collection,
		HistoryField: lifecycle.DefaultHistoryField,
		Query: query.Spec{
			Filters: []query.Filter{
				query.Exact("employeeId", "employeeId"),
				query.Exact("employe_id", "employeeId"),
				query.Exact("typeContratId", "typeContratId"),
				query.Exact("statut", "statut"),
				query.DateOverlap("from", "to", "dateDebut", "dateFin"),
			},
		},
		Enrichments: []query.Enrichment{
			{Key: "employee", ForeignKey: "employeeId", Collection: employee.Collection, Fields: employee.Projection},
			{Key: "type_contrat", ForeignKey: "typeContratId", Collection: catalog.ContractTypesCollection, Fields: []string{"id", "code", "libelle"}},
		},
		Machine: Machine,
		Actions: map[string]resource.Action{
			"validate": {ActorField: "valide_par", DateField: "date_validation"},
			"cancel":   {ReasonField: "motif_annulation", DateField: "date_annulation"},
		},
		Export: []export.Column{
			{Header: "Matricule", Field: "employee.matricule"},
			{Header: "Nom", Field: "employee.lastName"},
			{Header: "Prénom", Field: "employee.firstName"},
			{Header: "Type", Field: "type_contrat.code"},
			{Header: "Poste", Field: "poste"},
			{Header: "Date début", Field: "dateDebut"},
			{Header: "Date fin", Field: "dateFin"},
			{Header: "Salaire", Field: "salaire"},
			{Header: "Statut", Field: "statut"},
		},
		BeforeCreate: func(ctx context.Context, rec store.Record) error {
			return validate(rec)
		},
		BeforeUpdate: func(ctx context.Context, current, next store.Record) error {
			return validate(next)
		},
	}
}

func validate(rec store.Record) error {
	for _, f := range []string{"employeeId", "typeContratId", "dateDebut"} {
		if store.Stringify(rec[f]) == "" {
			return apperror.RequiredField(f)
		}
	}

	start, err := time.Parse(time.DateOnly, rec.Text("dateDebut"))
	if err != nil {
		return contracterrors.ErrInvalidDateFormat
	}
	if end := rec.Text("dateFin"); end != "" {
		to, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return contracterrors.ErrInvalidDateFormat
		}
		if to.Before(start) {
			return contracterrors.ErrInvalidDateRange
		}
	}

	if v, ok := rec["salaire"]; ok && v != nil {
		salaire, ok := money.FromValue(v)
		if !ok || salaire.IsNegative() {
			return contracterrors.ErrInvalidSalaire
		}
		rec["salaire"] = money.Float(salaire)
	}
	return nil
}

//go:generate mockgen -source=contract_service.go -destination=mock/contract_service_mock.go -package=mock
type Service interface {
	// CreateDraftForEmployee opens a Brouillon contract for a new hire, unless one exists.
	CreateDraftForEmployee(ctx context.Context, event events.EmployeeCreatedEvent) (bool, error)
}

type service struct {
	crud   resource.Service
	repo   Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(crud resource.Service, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("contract.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("contract.service")
	}
	return &service{
		crud:   crud,
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) CreateDraftForEmployee(ctx context.Context, event events.EmployeeCreatedEvent) (bool, error) {
	exists, err := s.repo.ExistsForEmployee(ctx, event.EmployeeID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	start := event.DateEmbauche
	if start == "" {
		start = s.now().Format(time.DateOnly)
	}
	draft := store.Record{
		"employeeId":    employeeRef(event.EmployeeID),
		"typeContratId": defaultTypeContratID,
		"dateDebut":     start,
		"salaire":       event.SalaireBase,
		"poste":         event.Poste,
	}

	created, err := s.crud.Create(contextutil.WithActor(ctx, systemActor), draft)
	if err != nil {
		s.logger.Error("create draft contract failed", zap.String("employee_id", event.EmployeeID), zap.Error(err))
		return false, err
	}
	s.logger.Info("draft contract created", zap.String("employee_id", event.EmployeeID), zap.String("contract_id", created.ID()))
	return true, nil
}

// employeeRef keeps numeric employee ids numeric, like the ones the UI posts.
func employeeRef(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
