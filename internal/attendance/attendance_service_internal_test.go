package attendance

import (
	"context"
	"testing"
	"time"

	attendanceerrors "go-sirh/internal/attendance/errors"
	"go-sirh/internal/catalog"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	crud resource.Service
	svc  *service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s, err := store.NewMemoryStore("")
	require.NoError(t, err)
	require.NoError(t, catalog.SeedDefaults(context.Background(), s, zap.NewNop()))

	repo := NewRepository(s)
	crud := resource.NewService(NewDefinition(repo, catalog.NewService(s)), resource.Deps{Store: s})
	svc := NewService(crud, repo).(*service)
	return fixture{crud: crud, svc: svc}
}

func TestPointage_Compute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	onTime, err := f.crud.Create(ctx, store.Record{"employe_id": 7, "date": "2025-03-03", "heure_entree": "08:55", "heure_sortie": "17:25"})
	require.NoError(t, err)
	assert.Equal(t, 8.5, onTime["heures_travaillees"])
	assert.Equal(t, PresencePresent, onTime["presence"])
	assert.Equal(t, false, onTime["retard"])
	assert.Equal(t, StatusBrouillon, onTime["statut"])

	late, err := f.crud.Create(ctx, store.Record{"employe_id": 7, "date": "2025-03-04", "heure_entree": "09:20"})
	require.NoError(t, err)
	assert.Equal(t, PresenceRetard, late["presence"])
	assert.Equal(t, 20.0, late["minutes_retard"])
	assert.Equal(t, 0.0, late["heures_travaillees"])

	tests := []struct {
		name    string
		rec     store.Record
		wantErr error
	}{
		{"duplicate day", store.Record{"employe_id": 7, "date": "2025-03-03", "heure_entree": "09:00"}, attendanceerrors.ErrAlreadyClockedIn},
		{"bad date", store.Record{"employe_id": 7, "date": "03-03-2025", "heure_entree": "09:00"}, attendanceerrors.ErrInvalidDate},
		{"bad time", store.Record{"employe_id": 7, "date": "2025-03-05", "heure_entree": "9h"}, attendanceerrors.ErrInvalidTime},
		{"exit before entry", store.Record{"employe_id": 7, "date": "2025-03-05", "heure_entree": "09:00", "heure_sortie": "08:00"}, attendanceerrors.ErrInvalidTimeRange},
		{"missing entry", store.Record{"employe_id": 7, "date": "2025-03-05"}, apperror.RequiredField("heure_entree")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.crud.Create(ctx, tt.rec)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Editing the same pointage is not a duplicate.
	updated, err := f.crud.Update(ctx, late.ID(), store.Record{"heure_sortie": "18:00"}, true)
	require.NoError(t, err)
	assert.Equal(t, 8.67, updated["heures_travaillees"])

	page, err := f.crud.List(ctx, query.Params{"from": "2025-03-04", "to": "2025-03-31", "employe_id": "7"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.RecordsFiltered)

	validated, err := f.crud.Transition(ctx, onTime.ID(), "validate", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusValide, validated.Text("statut"))
	assert.Error(t, f.crud.Delete(ctx, onTime.ID()))
}

func TestService_ClockInOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	clock := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return clock }

	_, err := f.svc.ClockOut(ctx, ClockOutRequest{EmployeID: 7})
	assert.ErrorIs(t, err, attendanceerrors.ErrClockInNotFound)

	in, err := f.svc.ClockIn(ctx, ClockInRequest{EmployeID: 7, Notes: "Badge oublié"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", in.Text("date"))
	assert.Equal(t, "09:05", in.Text("heure_entree"))
	assert.Equal(t, PresenceRetard, in["presence"])
	assert.Equal(t, sourceBadge, in.Text("source"))

	_, err = f.svc.ClockIn(ctx, ClockInRequest{EmployeID: 7})
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClockedIn)

	clock = clock.Add(8*time.Hour + 30*time.Minute)
	out, err := f.svc.ClockOut(ctx, ClockOutRequest{EmployeID: 7})
	require.NoError(t, err)
	assert.Equal(t, "17:35", out.Text("heure_sortie"))
	assert.Equal(t, 8.5, out["heures_travaillees"])

	_, err = f.svc.ClockOut(ctx, ClockOutRequest{EmployeID: 7})
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClockedOut)
}
