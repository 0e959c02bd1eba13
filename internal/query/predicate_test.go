package query_test

import (
	"strings"
	"testing"

	"go-sirh/internal/query"
	"go-sirh/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestBuildPredicate_DefaultSubstring(t *testing.T) {
	pred := query.BuildPredicate(query.Params{"lastName": "ALAOUI", "start": "0", "sortBy": "x"}, query.Spec{})

	assert.True(t, pred(store.Record{"lastName": "El Alaoui"}))
	assert.False(t, pred(store.Record{"lastName": "Bennani"}))
	assert.False(t, pred(store.Record{"lastName": nil}))
	assert.False(t, pred(store.Record{}))
}

func TestBuildPredicate_CoercesNumbersToText(t *testing.T) {
	pred := query.BuildPredicate(query.Params{"montant": "150"}, query.Spec{})
	assert.True(t, pred(store.Record{"montant": float64(1500)}))
	assert.False(t, pred(store.Record{"montant": float64(1400)}))
}

func TestBuildPredicate_EmptyParamIsIgnored(t *testing.T) {
	pred := query.BuildPredicate(query.Params{"statut": ""}, query.Spec{})
	assert.True(t, pred(store.Record{}))
}

func TestBuildPredicate_UnknownFieldNeverMatches(t *testing.T) {
	pred := query.BuildPredicate(query.Params{"couleur": "bleu"}, query.Spec{})
	assert.False(t, pred(store.Record{"statut": "bleu"}))
}

func TestBuildPredicate_Aliases(t *testing.T) {
	spec := query.Spec{Aliases: map[string]string{"employee": "employe_nom"}}
	pred := query.BuildPredicate(query.Params{"employee": "karim"}, spec)
	assert.True(t, pred(store.Record{"employe_nom": "Karim Tazi"}))
}

func TestExactFilter(t *testing.T) {
	spec := query.Spec{Filters: []query.Filter{query.Exact("employe_id", "employe_id")}}
	pred := query.BuildPredicate(query.Params{"employe_id": "7"}, spec)

	assert.True(t, pred(store.Record{"employe_id": float64(7)}))
	assert.False(t, pred(store.Record{"employe_id": float64(17)}))
	assert.False(t, pred(store.Record{}))
}

func TestOneOfFilter(t *testing.T) {
	spec := query.Spec{Filters: []query.Filter{query.OneOf("statut", "statut")}}
	pred := query.BuildPredicate(query.Params{"statut": "Valide, Paye"}, spec)

	assert.True(t, pred(store.Record{"statut": "Paye"}))
	assert.False(t, pred(store.Record{"statut": "Brouillon"}))
}

func TestNormalizedFilter(t *testing.T) {
	spec := query.Spec{Filters: []query.Filter{query.Normalized("statut", "statut", strings.ToUpper)}}
	pred := query.BuildPredicate(query.Params{"statut": "valide"}, spec)

	assert.True(t, pred(store.Record{"statut": "Valide"}))
	assert.False(t, pred(store.Record{"statut": "Refuse"}))
}

func TestDateOverlapFilter(t *testing.T) {
	spec := query.Spec{Filters: []query.Filter{query.DateOverlap("from", "to", "date_debut", "date_fin")}}
	pred := query.BuildPredicate(query.Params{"from": "2025-03-10", "to": "2025-03-20"}, spec)

	assert.True(t, pred(store.Record{"date_debut": "2025-03-01", "date_fin": "2025-03-10"}))
	assert.True(t, pred(store.Record{"date_debut": "2025-03-15", "date_fin": "2025-04-01"}))
	assert.True(t, pred(store.Record{"date_debut": "2025-03-12"}))
	assert.False(t, pred(store.Record{"date_debut": "2025-03-21", "date_fin": "2025-03-25"}))
	assert.False(t, pred(store.Record{"date_debut": "2025-02-01", "date_fin": "2025-03-09"}))
	assert.False(t, pred(store.Record{}))

	openEnded := query.BuildPredicate(query.Params{"from": "2025-03-10"}, spec)
	assert.True(t, openEnded(store.Record{"date_debut": "2025-06-01", "date_fin": "2025-06-02"}))
}

func TestDateWithinFilter(t *testing.T) {
	spec := query.Spec{Filters: []query.Filter{query.DateWithin("from", "to", "date")}}
	pred := query.BuildPredicate(query.Params{"from": "2025-01-01", "to": "2025-01-31"}, spec)

	assert.True(t, pred(store.Record{"date": "2025-01-31"}))
	assert.True(t, pred(store.Record{"date": "2025-01-15T08:00:00Z"}))
	assert.False(t, pred(store.Record{"date": "2025-02-01"}))
}
