package catalog

import (
	"context"
	"errors"
	"strings"

	catalogerrors "go-sirh/internal/catalog/errors"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/money"
	"go-sirh/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=catalog_service.go -destination=mock/catalog_service_mock.go -package=mock
type Service interface {
	Definitions() []*resource.Definition
	Settings(ctx context.Context) (store.Record, error)
	PayrollSettings(ctx context.Context) (PayrollSettings, error)
	// Convert converts amount from one currency to another through the base currency rates.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
	VehicleRate(ctx context.Context, vehicleType string) (decimal.Decimal, bool, error)
	FeeCeiling(ctx context.Context, categoryID any) (decimal.Decimal, bool, error)
}

type service struct {
	store  store.Store
	logger *zap.Logger
}

func NewService(s store.Store, logger ...*zap.Logger) Service {
	l := zap.L().Named("catalog.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("catalog.service")
	}
	return &service{store: s, logger: l}
}

func readOnly(name, label, collection string, enrichments ...query.Enrichment) *resource.Definition {
	return &resource.Definition{
		Name:        name,
		Resource:    "settings",
		Label:       label,
		Collection:  collection,
		Enrichments: enrichments,
		ReadOnly:    true,
	}
}

func (s *service) Definitions() []*resource.Definition {
	return []*resource.Definition{
		readOnly("contract-types", "Type de contrat", ContractTypesCollection),
		readOnly("absence-types", "Type d'absence", AbsenceTypesCollection),
		readOnly("fee-categories", "Catégorie de frais", FeeCategoriesCollection),
		readOnly("currency-rates", "Taux de change", CurrencyRatesCollection),
		readOnly("vehicle-rates", "Barème kilométrique", VehicleRatesCollection),
		readOnly("departements", "Département", DepartementsCollection),
		readOnly("postes", "Poste", PostesCollection, query.Enrichment{
			Key: "departement", ForeignKey: "departement_id", Collection: DepartementsCollection, Fields: []string{"id", "nom"},
		}),
	}
}

func (s *service) Settings(ctx context.Context) (store.Record, error) {
	rec, err := s.store.Collection(PayrollSettingsCollection).Get(ctx, payrollSettingsID)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Error("payroll settings missing")
		return nil, catalogerrors.ErrPayrollSettingsMissing
	}
	return rec, err
}

func (s *service) PayrollSettings(ctx context.Context) (PayrollSettings, error) {
	rec, err := s.Settings(ctx)
	if err != nil {
		return PayrollSettings{}, err
	}

	maxAvances, _ := rec.Float("max_avances_par_an")
	settings := PayrollSettings{
		MaxAvancesParAn:          int(maxAvances),
		AvancePlafondPourcentage: money.Field(rec, "avance_plafond_pourcentage"),
		TauxCNSS:                 money.Field(rec, "taux_cnss"),
		PlafondCNSS:              money.Field(rec, "plafond_cnss"),
		TauxAMO:                  money.Field(rec, "taux_amo"),
		HeuresMensuelles:         money.Field(rec, "heures_mensuelles"),
		MajorationHeuresSup:      money.Field(rec, "majoration_heures_sup"),
		HeureDebutTravail:        rec.Text("heure_debut_travail"),
	}
	if settings.HeuresMensuelles.IsZero() {
		settings.HeuresMensuelles = decimal.NewFromInt(191)
	}
	if settings.MajorationHeuresSup.IsZero() {
		settings.MajorationHeuresSup = decimal.RequireFromString("1.25")
	}
	if settings.HeureDebutTravail == "" {
		settings.HeureDebutTravail = "09:00"
	}
	return settings, nil
}

func (s *service) rate(ctx context.Context, code string) (decimal.Decimal, error) {
	rec, err := s.store.Collection(CurrencyRatesCollection).Find(ctx, func(r store.Record) bool {
		return strings.EqualFold(r.Text("code"), code)
	})
	if errors.Is(err, store.ErrNotFound) {
		return decimal.Zero, catalogerrors.ErrUnknownCurrency
	}
	if err != nil {
		return decimal.Zero, err
	}
	rate := money.Field(rec, "taux")
	if !rate.IsPositive() {
		return decimal.Zero, catalogerrors.ErrUnknownCurrency
	}
	return rate, nil
}

func (s *service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == "" || strings.EqualFold(from, to) {
		return amount, nil
	}
	fromRate, err := s.rate(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := s.rate(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(fromRate).Div(toRate), nil
}

func (s *service) VehicleRate(ctx context.Context, vehicleType string) (decimal.Decimal, bool, error) {
	rec, err := s.store.Collection(VehicleRatesCollection).Find(ctx, func(r store.Record) bool {
		return strings.EqualFold(r.Text("type"), vehicleType)
	})
	if errors.Is(err, store.ErrNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return money.Field(rec, "taux_km"), true, nil
}

func (s *service) FeeCeiling(ctx context.Context, categoryID any) (decimal.Decimal, bool, error) {
	rec, err := s.store.Collection(FeeCategoriesCollection).Get(ctx, categoryID)
	if errors.Is(err, store.ErrNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	ceiling, ok := money.FromValue(rec["plafond"])
	if !ok || !ceiling.IsPositive() {
		return decimal.Zero, false, nil
	}
	return ceiling, true, nil
}
