package query_test

import (
	"context"
	"testing"

	"go-sirh/internal/query"
	"go-sirh/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewMemoryStore("")
	require.NoError(t, err)
	ctx := context.Background()

	employees := s.Collection("employees")
	for _, e := range []store.Record{
		{"firstName": "Youssef", "lastName": "Amrani", "matricule": "EMP-000001", "salaireBase": 9000},
		{"firstName": "Nadia", "lastName": "Berrada", "matricule": "EMP-000002", "salaireBase": 7000},
	} {
		_, err := employees.Push(ctx, e)
		require.NoError(t, err)
	}

	absences := s.Collection("absences")
	for _, a := range []store.Record{
		{"employe_id": 1, "statut": "En_attente", "date_debut": "2025-01-06", "date_fin": "2025-01-08"},
		{"employe_id": 2, "statut": "Validee", "date_debut": "2025-02-03", "date_fin": "2025-02-03"},
		{"employe_id": 1, "statut": "Validee", "date_debut": "2025-03-10", "date_fin": "2025-03-14"},
		{"employe_id": 99, "statut": "Refusee", "date_debut": "2025-04-01", "date_fin": "2025-04-02"},
	} {
		_, err := absences.Push(ctx, a)
		require.NoError(t, err)
	}
	return s
}

var employeeEnrichment = query.Enrichment{
	Key:        "employee",
	ForeignKey: "employe_id",
	Collection: "employees",
	Fields:     []string{"firstName", "lastName", "matricule"},
}

func TestEngine_Run(t *testing.T) {
	s := seedStore(t)
	engine := query.NewEngine(s)

	page, err := engine.Run(context.Background(), "absences",
		query.Params{"statut": "valid", "sortBy": "date_debut", "sortDir": "desc", "length": "1"},
		query.Spec{},
		employeeEnrichment,
	)
	require.NoError(t, err)

	assert.Equal(t, 4, page.RecordsTotal)
	assert.Equal(t, 2, page.RecordsFiltered)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "3", page.Data[0].ID())

	emp, ok := page.Data[0]["employee"].(store.Record)
	require.True(t, ok)
	assert.Equal(t, "Youssef", emp["firstName"])
	assert.NotContains(t, emp, "salaireBase")
}

func TestEngine_RunCountsInvariant(t *testing.T) {
	s := seedStore(t)
	engine := query.NewEngine(s)

	for _, p := range []query.Params{
		{},
		{"statut": "zzz"},
		{"employe_id": "1", "length": "1"},
		{"start": "-1"},
		{"length": "100"},
	} {
		page, err := engine.Run(context.Background(), "absences", p, query.Spec{})
		require.NoError(t, err)
		assert.LessOrEqual(t, page.RecordsFiltered, page.RecordsTotal)
		_, length := query.ParsePaging(p)
		assert.LessOrEqual(t, len(page.Data), length)
		assert.NotNil(t, page.Data)
	}
}

func TestEngine_Search_DateOverlap(t *testing.T) {
	s := seedStore(t)
	engine := query.NewEngine(s)
	spec := query.Spec{Filters: []query.Filter{query.DateOverlap("from", "to", "date_debut", "date_fin")}}

	rows, err := engine.Search(context.Background(), "absences", query.Params{"from": "2025-02-01", "to": "2025-03-31"}, spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, ids(rows))
}

func TestEnrich_DanglingForeignIDIsNull(t *testing.T) {
	s := seedStore(t)
	page := []store.Record{{"id": 4, "employe_id": float64(99)}, {"id": 5}}

	err := query.Enrich(context.Background(), s, page, employeeEnrichment)
	require.NoError(t, err)

	assert.Contains(t, page[0], "employee")
	assert.Nil(t, page[0]["employee"])
	assert.Nil(t, page[1]["employee"])
}
