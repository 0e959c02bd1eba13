package query

import (
	"context"
	"fmt"

	"go-sirh/internal/store"
)

// Enrichment attaches a projection of the record referenced by ForeignKey under Key.
// An empty Fields keeps the whole foreign record.
type Enrichment struct {
	Key        string
	ForeignKey string
	Collection string
	Fields     []string
}

// Enrich indexes each foreign collection once and decorates page in place.
// A dangling or empty foreign id attaches nil.
func Enrich(ctx context.Context, s store.Store, page []store.Record, enrichments ...Enrichment) error {
	if len(page) == 0 {
		return nil
	}

	indexes := make(map[string]map[string]store.Record)
	for _, e := range enrichments {
		index, ok := indexes[e.Collection]
		if !ok {
			foreign, err := s.Collection(e.Collection).All(ctx)
			if err != nil {
				return fmt.Errorf("enrich %s: %w", e.Collection, err)
			}
			index = make(map[string]store.Record, len(foreign))
			for _, f := range foreign {
				index[f.ID()] = f
			}
			indexes[e.Collection] = index
		}

		for _, rec := range page {
			foreign, found := index[store.IDString(rec[e.ForeignKey])]
			if !found {
				rec[e.Key] = nil
				continue
			}
			rec[e.Key] = project(foreign, e.Fields)
		}
	}
	return nil
}

func project(rec store.Record, fields []string) store.Record {
	if len(fields) == 0 {
		return rec.Clone()
	}
	out := store.Record{"id": rec["id"]}
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}
