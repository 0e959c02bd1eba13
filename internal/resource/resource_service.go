package resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-sirh/internal/events"
	"go-sirh/internal/lifecycle"
	"go-sirh/internal/messaging/kafka"
	"go-sirh/internal/query"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/shared/lock"
	"go-sirh/internal/store"

	"go.uber.org/zap"
)

//go:generate mockgen -source=resource_service.go -destination=mock/resource_service_mock.go -package=mock
type Service interface {
	Definition() *Definition
	List(ctx context.Context, params query.Params) (query.Page, error)
	Search(ctx context.Context, params query.Params) ([]store.Record, error)
	Get(ctx context.Context, id string) (store.Record, error)
	Create(ctx context.Context, payload store.Record) (store.Record, error)
	Update(ctx context.Context, id string, payload store.Record, partial bool) (store.Record, error)
	Delete(ctx context.Context, id string) error
	Transition(ctx context.Context, id, action string, payload store.Record) (store.Record, error)
}

// Deps are the collaborators shared by every resource service.
// Outbox and Locker are optional.
type Deps struct {
	Store  store.Store
	Engine *query.Engine
	Outbox kafka.OutboxRepository
	Locker lock.Locker
	Now    func() time.Time
}

type service struct {
	def    *Definition
	deps   Deps
	coll   store.Collection
	logger *zap.Logger
}

func NewService(def *Definition, deps Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named(def.Name + ".service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named(def.Name + ".service")
	}
	if deps.Engine == nil {
		deps.Engine = query.NewEngine(deps.Store, l)
	}
	if deps.Locker == nil {
		deps.Locker = lock.NewLocalLocker()
	}
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		def:    def,
		deps:   deps,
		coll:   deps.Store.Collection(def.Collection),
		logger: l,
	}
}

func (s *service) Definition() *Definition {
	return s.def
}

func (s *service) storeError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperror.NotFound(s.def.Label)
	case errors.Is(err, store.ErrDuplicateID):
		return apperror.Conflict(fmt.Sprintf("%s déjà existant", s.def.Label))
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Wrap(err, apperror.CodeInternalError, apperror.ErrInternal.Message, apperror.ErrInternal.HTTPStatus)
}

func (s *service) List(ctx context.Context, params query.Params) (query.Page, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("list records", zap.String("resource", s.def.Name))

	page, err := s.deps.Engine.Run(ctx, s.def.Collection, params, s.def.Query, s.def.Enrichments...)
	if err != nil {
		log.Error("list records failed", zap.Error(err))
		return query.Page{}, s.storeError(err)
	}
	s.hide(page.Data...)
	return page, nil
}

func (s *service) Search(ctx context.Context, params query.Params) ([]store.Record, error) {
	rows, err := s.deps.Engine.Search(ctx, s.def.Collection, params, s.def.Query, s.def.Enrichments...)
	if err != nil {
		return nil, s.storeError(err)
	}
	s.hide(rows...)
	return rows, nil
}

func (s *service) Get(ctx context.Context, id string) (store.Record, error) {
	rec, err := s.coll.Get(ctx, id)
	if err != nil {
		return nil, s.storeError(err)
	}
	if err := query.Enrich(ctx, s.deps.Store, []store.Record{rec}, s.def.Enrichments...); err != nil {
		return nil, s.storeError(err)
	}
	s.hide(rec)
	return rec, nil
}

func (s *service) clean(payload store.Record, extra ...string) store.Record {
	protected := s.def.protected()
	for _, f := range extra {
		protected[f] = true
	}
	out := store.Record{}
	for k, v := range payload {
		if !protected[k] {
			out[k] = v
		}
	}
	return out
}

func (s *service) Create(ctx context.Context, payload store.Record) (store.Record, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	now := s.deps.Now()

	rec := s.def.Defaults.Clone()
	if rec == nil {
		rec = store.Record{}
	}
	for k, v := range s.clean(payload) {
		rec[k] = v
	}
	if m := s.def.Machine; m != nil {
		rec[m.Field()] = m.Initial
	}

	unlock, err := s.lockFor(ctx, rec)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if s.def.BeforeCreate != nil {
		if err := s.def.BeforeCreate(ctx, rec); err != nil {
			log.Warn("create rejected", zap.String("resource", s.def.Name), zap.Error(err))
			return nil, err
		}
	}

	stamp := now.Format(time.RFC3339)
	rec["created_at"] = stamp
	rec["updated_at"] = stamp
	if s.def.HistoryField != "" {
		lifecycle.AppendHistory(rec, s.def.HistoryField,
			lifecycle.NewHistoryEntry(now, "create", contextutil.GetActor(ctx), "Création"))
	}

	created, err := s.coll.Push(ctx, rec)
	if err != nil {
		log.Error("create record failed", zap.String("resource", s.def.Name), zap.Error(err))
		return nil, s.storeError(err)
	}

	if s.def.AfterCreate != nil {
		if err := s.def.AfterCreate(ctx, created); err != nil {
			log.Error("after create hook failed", zap.String("resource", s.def.Name), zap.String("id", created.ID()), zap.Error(err))
		}
	}

	s.changed(ctx)
	log.Info("record created", zap.String("resource", s.def.Name), zap.String("id", created.ID()))
	s.hide(created)
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, payload store.Record, partial bool) (store.Record, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	now := s.deps.Now()

	current, err := s.coll.Get(ctx, id)
	if err != nil {
		return nil, s.storeError(err)
	}
	if m := s.def.Machine; m != nil {
		if err := m.CheckEdit(s.def.currentStatus(current)); err != nil {
			log.Warn("update rejected by status", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	}

	changes := s.clean(payload, s.def.Immutable...)
	var next store.Record
	if partial {
		next = store.Merge(current, changes)
	} else {
		next = changes
		for f := range s.def.protected() {
			if v, ok := current[f]; ok {
				next[f] = v
			}
		}
		for _, f := range s.def.Immutable {
			if v, ok := current[f]; ok {
				next[f] = v
			}
		}
		for _, e := range s.def.Enrichments {
			delete(next, e.Key)
		}
	}

	unlock, err := s.lockFor(ctx, next)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if s.def.BeforeUpdate != nil {
		if err := s.def.BeforeUpdate(ctx, current, next); err != nil {
			log.Warn("update rejected", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	}

	next["updated_at"] = now.Format(time.RFC3339)
	if s.def.HistoryField != "" {
		lifecycle.AppendHistory(next, s.def.HistoryField,
			lifecycle.NewHistoryEntry(now, "update", contextutil.GetActor(ctx), "Modification"))
	}

	updated, err := s.coll.Replace(ctx, id, next)
	if err != nil {
		log.Error("update record failed", zap.String("id", id), zap.Error(err))
		return nil, s.storeError(err)
	}

	s.changed(ctx)
	log.Info("record updated", zap.String("resource", s.def.Name), zap.String("id", id), zap.Bool("partial", partial))
	s.hide(updated)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)

	current, err := s.coll.Get(ctx, id)
	if err != nil {
		return s.storeError(err)
	}
	if m := s.def.Machine; m != nil {
		if err := m.CheckDelete(s.def.currentStatus(current)); err != nil {
			log.Warn("delete rejected by status", zap.String("id", id), zap.Error(err))
			return err
		}
	}
	if s.def.BeforeDelete != nil {
		if err := s.def.BeforeDelete(ctx, current); err != nil {
			return err
		}
	}

	if err := s.coll.Remove(ctx, id); err != nil {
		log.Error("delete record failed", zap.String("id", id), zap.Error(err))
		return s.storeError(err)
	}

	s.changed(ctx)
	log.Info("record deleted", zap.String("resource", s.def.Name), zap.String("id", id))
	return nil
}

func (s *service) Transition(ctx context.Context, id, action string, payload store.Record) (store.Record, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	now := s.deps.Now()

	m := s.def.Machine
	if m == nil {
		return nil, lifecycle.ErrUnknownAction
	}
	if payload == nil {
		payload = store.Record{}
	}

	current, err := s.coll.Get(ctx, id)
	if err != nil {
		return nil, s.storeError(err)
	}
	from := s.def.currentStatus(current)
	act := s.def.Actions[action]

	var to string
	if act.Outcome != nil && m.HasAction(action) {
		wanted, err := act.Outcome(payload)
		if err != nil {
			return nil, err
		}
		to, err = m.TargetOf(action, from, wanted)
		if err != nil {
			log.Warn("transition rejected", zap.String("id", id), zap.String("action", action), zap.Error(err))
			return nil, err
		}
	} else {
		to, err = m.Target(action, from)
		if err != nil {
			log.Warn("transition rejected", zap.String("id", id), zap.String("action", action), zap.Error(err))
			return nil, err
		}
	}

	for _, f := range act.Required {
		if store.Stringify(payload[f]) == "" {
			return nil, apperror.RequiredField(f)
		}
	}

	actor := contextutil.GetActor(ctx)
	patch := store.Record{
		m.Field():    to,
		"updated_at": now.Format(time.RFC3339),
	}
	for _, f := range act.Fields {
		if v, ok := payload[f]; ok {
			patch[f] = v
		}
	}
	if act.ReasonField != "" {
		if v, ok := payload[act.ReasonField]; ok {
			patch[act.ReasonField] = v
		}
	}
	if act.ActorField != "" {
		patch[act.ActorField] = actor
	}
	if act.DateField != "" {
		patch[act.DateField] = now.Format(time.RFC3339)
	}
	if act.Apply != nil {
		if err := act.Apply(ctx, current, payload, patch, now); err != nil {
			log.Warn("transition rejected", zap.String("id", id), zap.String("action", action), zap.Error(err))
			return nil, err
		}
	}

	if s.def.HistoryField != "" {
		details := from + " → " + to
		if act.ReasonField != "" {
			if reason := store.Stringify(payload[act.ReasonField]); reason != "" {
				details += " : " + reason
			}
		}
		withHistory := current.Clone()
		patch[s.def.HistoryField] = lifecycle.AppendHistory(withHistory, s.def.HistoryField,
			lifecycle.NewHistoryEntry(now, action, actor, details))
	}

	updated, err := s.coll.Assign(ctx, id, patch)
	if err != nil {
		log.Error("transition failed", zap.String("id", id), zap.String("action", action), zap.Error(err))
		return nil, s.storeError(err)
	}

	s.recordStatusChange(ctx, updated, action, from, to, actor, now)
	s.changed(ctx)

	log.Info("record transitioned",
		zap.String("resource", s.def.Name),
		zap.String("id", id),
		zap.String("action", action),
		zap.String("from", from),
		zap.String("to", to),
	)
	s.hide(updated)
	return updated, nil
}

// lockFor takes the CreateLockKey lock of rec, so checks spanning several records of the
// same key run one at a time for creates and updates alike.
func (s *service) lockFor(ctx context.Context, rec store.Record) (func(), error) {
	if s.def.CreateLockKey == nil {
		return func() {}, nil
	}
	key := s.def.CreateLockKey(rec)
	if key == "" {
		return func() {}, nil
	}
	unlock, err := s.deps.Locker.Lock(ctx, s.def.Name+":"+key)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("acquire record lock failed", zap.String("key", key), zap.Error(err))
		return nil, s.storeError(err)
	}
	return unlock, nil
}

func (s *service) hide(recs ...store.Record) {
	for _, rec := range recs {
		for _, f := range s.def.Hidden {
			delete(rec, f)
		}
	}
}

func (s *service) changed(ctx context.Context) {
	if s.def.OnChange != nil {
		s.def.OnChange(ctx)
	}
}

func (s *service) recordStatusChange(ctx context.Context, rec store.Record, action, from, to, actor string, now time.Time) {
	if s.deps.Outbox == nil {
		return
	}
	evt, err := kafka.NewOutboxEvent(ctx, events.StatusChangedTopic, events.StatusChangedType, s.def.Name, rec.ID(),
		events.StatusChangedEvent{
			EventType:  events.StatusChangedType,
			Resource:   s.def.Name,
			RecordID:   rec.ID(),
			Action:     action,
			FromStatus: from,
			ToStatus:   to,
			Actor:      actor,
			OccurredAt: now,
		})
	if err == nil {
		err = s.deps.Outbox.Create(ctx, evt)
	}
	if err != nil {
		s.logger.Error("record status change event failed", zap.String("resource", s.def.Name), zap.String("id", rec.ID()), zap.Error(err))
	}
}
