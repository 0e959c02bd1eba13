package query

import (
	"context"

	"go-sirh/internal/store"

	"go.uber.org/zap"
)

// Engine runs filter, sort, paginate and enrich over a store collection.
type Engine struct {
	store  store.Store
	logger *zap.Logger
}

func NewEngine(s store.Store, logger ...*zap.Logger) *Engine {
	l := zap.L().Named("query.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("query.engine")
	}
	return &Engine{store: s, logger: l}
}

func (e *Engine) Run(ctx context.Context, collection string, p Params, spec Spec, enrichments ...Enrichment) (Page, error) {
	all, err := e.store.Collection(collection).All(ctx)
	if err != nil {
		e.logger.Error("load collection failed", zap.String("collection", collection), zap.Error(err))
		return Page{}, err
	}

	filtered := filterSort(all, p, spec)
	start, length := ParsePaging(p)
	data := Paginate(filtered, start, length)

	if err := Enrich(ctx, e.store, data, enrichments...); err != nil {
		e.logger.Error("enrich page failed", zap.String("collection", collection), zap.Error(err))
		return Page{}, err
	}

	e.logger.Debug("query run",
		zap.String("collection", collection),
		zap.Int("total", len(all)),
		zap.Int("filtered", len(filtered)),
		zap.Int("returned", len(data)),
	)

	return Page{
		Data:            data,
		RecordsTotal:    len(all),
		RecordsFiltered: len(filtered),
	}, nil
}

// Search returns every filtered and sorted record, enriched, ignoring paging.
func (e *Engine) Search(ctx context.Context, collection string, p Params, spec Spec, enrichments ...Enrichment) ([]store.Record, error) {
	all, err := e.store.Collection(collection).All(ctx)
	if err != nil {
		return nil, err
	}
	filtered := filterSort(all, p, spec)
	if err := Enrich(ctx, e.store, filtered, enrichments...); err != nil {
		return nil, err
	}
	return filtered, nil
}

func filterSort(all []store.Record, p Params, spec Spec) []store.Record {
	pred := BuildPredicate(p, spec)
	filtered := make([]store.Record, 0, len(all))
	for _, rec := range all {
		if pred(rec) {
			filtered = append(filtered, rec)
		}
	}
	Sort(filtered, p[ParamSortBy], ParseDirection(p[ParamSortDir]))
	return filtered
}
