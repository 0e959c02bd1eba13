package catalog_test

import (
	"context"
	"testing"

	"go-sirh/internal/catalog"
	catalogerrors "go-sirh/internal/catalog/errors"
	"go-sirh/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seeded(t *testing.T) (store.Store, catalog.Service) {
	t.Helper()
	s, err := store.NewMemoryStore("")
	require.NoError(t, err)
	require.NoError(t, catalog.SeedDefaults(context.Background(), s, zap.NewNop()))
	return s, catalog.NewService(s)
}

func TestSeedDefaults_KeepsExistingRows(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewMemoryStore("")
	require.NoError(t, err)
	_, err = s.Collection(catalog.ContractTypesCollection).Push(ctx, store.Record{"code": "INTERIM"})
	require.NoError(t, err)

	require.NoError(t, catalog.SeedDefaults(ctx, s, nil))
	require.NoError(t, catalog.SeedDefaults(ctx, s, nil))

	n, err := s.Collection(catalog.ContractTypesCollection).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Collection(catalog.AbsenceTypesCollection).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestService_PayrollSettings(t *testing.T) {
	_, svc := seeded(t)

	settings, err := svc.PayrollSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, settings.MaxAvancesParAn)
	assert.True(t, settings.TauxCNSS.Equal(decimal.RequireFromString("4.48")))
	assert.True(t, settings.HeuresMensuelles.Equal(decimal.NewFromInt(191)))
	assert.Equal(t, "09:00", settings.HeureDebutTravail)
}

func TestService_PayrollSettingsMissing(t *testing.T) {
	s, err := store.NewMemoryStore("")
	require.NoError(t, err)

	_, err = catalog.NewService(s).PayrollSettings(context.Background())
	assert.ErrorIs(t, err, catalogerrors.ErrPayrollSettingsMissing)
}

func TestService_Convert(t *testing.T) {
	_, svc := seeded(t)
	ctx := context.Background()

	got, err := svc.Convert(ctx, decimal.NewFromInt(100), "EUR", "MAD")
	require.NoError(t, err)
	assert.Equal(t, "1085", got.String())

	same, err := svc.Convert(ctx, decimal.NewFromInt(100), "mad", "MAD")
	require.NoError(t, err)
	assert.Equal(t, "100", same.String())

	_, err = svc.Convert(ctx, decimal.NewFromInt(100), "JPY", "MAD")
	assert.ErrorIs(t, err, catalogerrors.ErrUnknownCurrency)
}

func TestService_RatesAndCeilings(t *testing.T) {
	_, svc := seeded(t)
	ctx := context.Background()

	rate, ok, err := svc.VehicleRate(ctx, "Voiture")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", rate.String())

	_, ok, err = svc.VehicleRate(ctx, "camion")
	require.NoError(t, err)
	assert.False(t, ok)

	ceiling, ok, err := svc.FeeCeiling(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "300", ceiling.String())

	_, ok, err = svc.FeeCeiling(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}
