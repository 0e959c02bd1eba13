package employee

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	employeeerrors "go-sirh/internal/employee/errors"
	"go-sirh/internal/lifecycle"
	"go-sirh/internal/messaging/kafka"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/shared/counter"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/ttacon/libphonenumber"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	OptionsCacheKey = "employees:options"
	optionsCacheTTL = time.Hour
)

var validate = validator.New()

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Definition() *resource.Definition
	GetOptions(ctx context.Context) ([]Option, error)
	InvalidateOptions(ctx context.Context)
}

type service struct {
	repo        Repository
	counter     counter.Repository
	outbox      kafka.OutboxRepository
	rdb         redis.Cmdable
	sf          *singleflight.Group
	phoneRegion string
	def         *resource.Definition
	logger      *zap.Logger
}

// NewService builds the employee resource. outbox and rdb may be nil.
func NewService(
	repo Repository,
	counterRepo counter.Repository,
	outbox kafka.OutboxRepository,
	rdb redis.Cmdable,
	phoneRegion string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if phoneRegion == "" {
		phoneRegion = "MA"
	}
	s := &service{
		repo:        repo,
		counter:     counterRepo,
		outbox:      outbox,
		rdb:         rdb,
		sf:          &singleflight.Group{},
		phoneRegion: phoneRegion,
		logger:      l,
	}
	s.def = s.definition()
	return s
}

func (s *service) Definition() *resource.Definition {
	return s.def
}

func (s *service) definition() *resource.Definition {
	return &resource.Definition{
		Name:       "employees",
		Label:      "Employé",
		Collection: Collection,
		Query: query.Spec{
			Filters: []query.Filter{
				query.Exact("statut", "statut"),
				query.Exact("departement", "departement"),
			},
		},
		Machine: &lifecycle.Machine{
			Entity:  "employé",
			Initial: StatusActif,
			Transitions: []lifecycle.Transition{
				{Action: "deactivate", From: []string{StatusActif}, To: StatusInactif},
				{Action: "reactivate", From: []string{StatusInactif}, To: StatusActif},
			},
			Deletable: []string{StatusActif, StatusInactif},
		},
		Actions: map[string]resource.Action{
			"deactivate": {ReasonField: "motif", DateField: "date_sortie"},
			"reactivate": {},
		},
		Export: []export.Column{
			{Header: "Matricule", Field: "matricule"},
			{Header: "Nom", Field: "lastName"},
			{Header: "Prénom", Field: "firstName"},
			{Header: "CIN", Field: "cin"},
			{Header: "Poste", Field: "poste"},
			{Header: "Département", Field: "departement"},
			{Header: "Date d'embauche", Field: "dateEmbauche"},
			{Header: "Salaire de base", Field: "salaireBase"},
			{Header: "Statut", Field: "statut"},
		},
		BeforeCreate:  s.beforeCreate,
		BeforeUpdate:  s.beforeUpdate,
		AfterCreate:   s.afterCreate,
		OnChange:      s.InvalidateOptions,
		CreateLockKey: func(store.Record) string { return "identity" },
	}
}

func (s *service) beforeCreate(ctx context.Context, rec store.Record) error {
	for _, f := range []string{"firstName", "lastName"} {
		if strings.TrimSpace(rec.Text(f)) == "" {
			return apperror.RequiredField(f)
		}
	}
	if err := s.validateFields(rec); err != nil {
		return err
	}

	if rec.Text("matricule") == "" {
		next, err := s.counter.GetNextValue(ctx, MatriculeCounter)
		if err != nil {
			s.logger.Error("generate matricule failed", zap.Error(err))
			return err
		}
		rec["matricule"] = counter.Format("EMP-", next, 6)
	}
	return s.checkUnique(ctx, rec, "")
}

func (s *service) beforeUpdate(ctx context.Context, current, next store.Record) error {
	if next.Text("matricule") == "" {
		next["matricule"] = current["matricule"]
	}
	if err := s.validateFields(next); err != nil {
		return err
	}
	return s.checkUnique(ctx, next, current.ID())
}

// validateFields checks the optional fields and normalizes the phone number to E.164.
func (s *service) validateFields(rec store.Record) error {
	if email := strings.TrimSpace(rec.Text("email")); email != "" {
		if err := validate.Var(email, "email"); err != nil {
			return employeeerrors.ErrInvalidEmail
		}
		rec["email"] = strings.ToLower(email)
	}

	if phone := strings.TrimSpace(rec.Text("phone")); phone != "" {
		normalized, err := NormalizePhone(phone, s.phoneRegion)
		if err != nil {
			return err
		}
		rec["phone"] = normalized
	}

	if d := rec.Text("dateEmbauche"); d != "" {
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return employeeerrors.ErrInvalidDateEmbauche
		}
	}

	if v, ok := rec["salaireBase"]; ok && v != nil {
		amount, ok := store.ToFloat(v)
		if !ok || amount < 0 {
			return employeeerrors.ErrInvalidSalaire
		}
		rec["salaireBase"] = amount
	}
	return nil
}

func (s *service) checkUnique(ctx context.Context, rec store.Record, excludeID string) error {
	checks := []struct {
		field string
		err   error
	}{
		{"matricule", employeeerrors.ErrMatriculeAlreadyExists},
		{"cin", employeeerrors.ErrCINAlreadyExists},
	}
	for _, c := range checks {
		value := rec.Text(c.field)
		if value == "" {
			continue
		}
		existing, err := s.repo.FindOther(ctx, c.field, value, excludeID)
		if err != nil {
			return err
		}
		if existing != nil {
			return c.err
		}
	}
	return nil
}

func NormalizePhone(raw, region string) (string, error) {
	num, err := libphonenumber.Parse(raw, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return "", employeeerrors.ErrInvalidPhone
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

func (s *service) afterCreate(ctx context.Context, created store.Record) error {
	if s.outbox == nil {
		return nil
	}
	evt, err := newEmployeeCreatedOutboxEvent(ctx, created)
	if err != nil {
		return err
	}
	if err := s.outbox.Create(ctx, evt); err != nil {
		return err
	}
	s.logger.Info("employee created event queued",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_id", created.ID()),
	)
	return nil
}

func (s *service) GetOptions(ctx context.Context) ([]Option, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, OptionsCacheKey).Result(); err == nil {
			var opts []Option
			if json.Unmarshal([]byte(cached), &opts) == nil {
				return opts, nil
			}
		}
	}

	v, err, _ := s.sf.Do(OptionsCacheKey, func() (interface{}, error) {
		opts, err := s.repo.FindOptions(ctx)
		if err != nil {
			s.logger.Error("load employee options failed", zap.Error(err))
			return nil, apperror.Wrap(err, apperror.CodeInternalError, apperror.ErrInternal.Message, apperror.ErrInternal.HTTPStatus)
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(opts); err == nil {
				if err := s.rdb.Set(ctx, OptionsCacheKey, payload, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}
		return opts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Option), nil
}

func (s *service) InvalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, OptionsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.String("key", OptionsCacheKey),
			zap.Error(err),
		)
	}
}
