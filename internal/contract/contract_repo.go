package contract

import (
	"context"
	"errors"

	"go-sirh/internal/store"
)

//go:generate mockgen -source=contract_repo.go -destination=mock/contract_repo_mock.go -package=mock
type Repository interface {
	ExistsForEmployee(ctx context.Context, employeeID string) (bool, error)
}

type repository struct {
	contracts store.Collection
}

func NewRepository(s store.Store) Repository {
	return &repository{contracts: s.Collection(Collection)}
}

func (r *repository) ExistsForEmployee(ctx context.Context, employeeID string) (bool, error) {
	_, err := r.contracts.Find(ctx, func(rec store.Record) bool {
		return store.IDString(rec["employeeId"]) == employeeID
	})
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
