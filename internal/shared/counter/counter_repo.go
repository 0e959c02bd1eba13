package counter

import (
	"context"
	"errors"
	"fmt"

	"go-sirh/internal/shared/lock"
	"go-sirh/internal/store"
)

const Collection = "counters"

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	GetNextValue(ctx context.Context, counterType string) (int64, error)
}

type repository struct {
	store  store.Store
	locker lock.Locker
}

func NewRepository(s store.Store, locker lock.Locker) Repository {
	return &repository{store: s, locker: locker}
}

// GetNextValue increments the named counter and returns its new value, starting at 1.
func (r *repository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	unlock, err := r.locker.Lock(ctx, "counter:"+counterType)
	if err != nil {
		return 0, err
	}
	defer unlock()

	counters := r.store.Collection(Collection)
	current, err := counters.Get(ctx, counterType)
	if errors.Is(err, store.ErrNotFound) {
		if _, err := counters.Push(ctx, store.Record{"id": counterType, "last_value": 1}); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	last, _ := current.Float("last_value")
	next := int64(last) + 1
	if _, err := counters.Assign(ctx, counterType, store.Record{"last_value": next}); err != nil {
		return 0, err
	}
	return next, nil
}

// Format renders a counter value as a zero-padded reference, e.g. Format("EMP-", 12, 6) = "EMP-000012".
func Format(prefix string, value int64, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, value)
}
