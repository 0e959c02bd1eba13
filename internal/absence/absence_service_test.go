package absence_test

import (
	"context"
	"testing"

	"go-sirh/internal/absence"
	absenceerrors "go-sirh/internal/absence/errors"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (store.Store, resource.Service) {
	t.Helper()
	s, err := store.NewMemoryStore("")
	require.NoError(t, err)
	def := absence.NewDefinition(absence.NewRepository(s))
	return s, resource.NewService(def, resource.Deps{Store: s})
}

func leave(employeID int, from, to string) store.Record {
	return store.Record{"employe_id": employeID, "type_absence_id": 1, "date_debut": from, "date_fin": to}
}

func TestCountDays(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
		wantErr    error
	}{
		{"2025-03-03", "2025-03-07", 5, nil},
		{"2025-03-03", "2025-03-03", 1, nil},
		{"2025-02-27", "2025-03-02", 4, nil},
		{"2025-03-07", "2025-03-03", 0, absenceerrors.ErrInvalidDateRange},
		{"03/03/2025", "2025-03-07", 0, absenceerrors.ErrInvalidDateFormat},
	}
	for _, tt := range tests {
		got, err := absence.CountDays(tt.start, tt.end)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestAbsence_Create(t *testing.T) {
	ctx := context.Background()
	s, svc := setup(t)

	created, err := svc.Create(ctx, leave(7, "2025-03-03", "2025-03-07"))
	require.NoError(t, err)
	assert.Equal(t, absence.StatusEnAttente, created.Text("statut"))
	assert.Equal(t, 5.0, created["nombre_jours"])

	_, err = svc.Create(ctx, leave(7, "2025-03-06", "2025-03-10"))
	assert.ErrorIs(t, err, absenceerrors.ErrAbsenceOverlap)
	assert.Equal(t, 409, apperror.ToHTTP(err).Status)

	_, err = svc.Create(ctx, leave(8, "2025-03-06", "2025-03-10"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, store.Record{"employe_id": 7, "type_absence_id": 1, "date_debut": "2025-04-01"})
	assert.ErrorIs(t, err, apperror.RequiredField("date_fin"))

	n, err := s.Collection(absence.Collection).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAbsence_CancelledDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	_, svc := setup(t)

	first, err := svc.Create(ctx, leave(7, "2025-03-03", "2025-03-07"))
	require.NoError(t, err)
	_, err = svc.Transition(ctx, first.ID(), "refuse", store.Record{"motif_refus": "Période chargée"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, leave(7, "2025-03-04", "2025-03-05"))
	assert.NoError(t, err)
}

func TestAbsence_Lifecycle(t *testing.T) {
	ctx := context.Background()
	_, svc := setup(t)

	created, err := svc.Create(ctx, leave(7, "2025-03-03", "2025-03-07"))
	require.NoError(t, err)

	validated, err := svc.Transition(ctx, created.ID(), "validate", nil)
	require.NoError(t, err)
	assert.Equal(t, absence.StatusValidee, validated.Text("statut"))

	err = svc.Delete(ctx, created.ID())
	assert.Equal(t, 400, apperror.ToHTTP(err).Status)

	_, err = svc.Transition(ctx, created.ID(), "refuse", nil)
	assert.Equal(t, "INVALID_STATE", apperror.ToHTTP(err).Code)

	cancelled, err := svc.Transition(ctx, created.ID(), "cancel", store.Record{"motif_annulation": "Reprise anticipée"})
	require.NoError(t, err)
	assert.Equal(t, absence.StatusAnnulee, cancelled.Text("statut"))
	assert.Equal(t, "Reprise anticipée", cancelled.Text("motif_annulation"))
}

func TestAbsence_ListFilters(t *testing.T) {
	ctx := context.Background()
	_, svc := setup(t)

	_, err := svc.Create(ctx, leave(7, "2025-03-03", "2025-03-07"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, leave(7, "2025-05-01", "2025-05-02"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, leave(8, "2025-03-05", "2025-03-06"))
	require.NoError(t, err)

	page, err := svc.List(ctx, query.Params{"from": "2025-03-06", "to": "2025-03-31", "employe_id": "7"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.RecordsTotal)
	assert.Equal(t, 1, page.RecordsFiltered)
	assert.Nil(t, page.Data[0]["employee"])
}
