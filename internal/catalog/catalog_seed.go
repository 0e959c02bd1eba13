package catalog

import (
	"context"

	"go-sirh/internal/store"

	"go.uber.org/zap"
)

var defaults = map[string][]store.Record{
	ContractTypesCollection: {
		{"id": 1, "code": "CDI", "libelle": "Contrat à durée indéterminée"},
		{"id": 2, "code": "CDD", "libelle": "Contrat à durée déterminée"},
		{"id": 3, "code": "ANAPEC", "libelle": "Contrat ANAPEC"},
		{"id": 4, "code": "STAGE", "libelle": "Convention de stage"},
	},
	AbsenceTypesCollection: {
		{"id": 1, "code": "CP", "libelle": "Congé payé", "deductible": true},
		{"id": 2, "code": "MAL", "libelle": "Maladie", "deductible": false},
		{"id": 3, "code": "SS", "libelle": "Congé sans solde", "deductible": false},
		{"id": 4, "code": "EXC", "libelle": "Absence exceptionnelle", "deductible": false},
	},
	FeeCategoriesCollection: {
		{"id": 1, "code": "TRANSPORT", "libelle": "Transport", "plafond": 1500},
		{"id": 2, "code": "REPAS", "libelle": "Repas", "plafond": 300},
		{"id": 3, "code": "HEBERGEMENT", "libelle": "Hébergement", "plafond": 1200},
		{"id": 4, "code": "KM", "libelle": "Indemnités kilométriques", "plafond": 2000},
		{"id": 5, "code": "DIVERS", "libelle": "Divers", "plafond": 500},
	},
	CurrencyRatesCollection: {
		{"id": 1, "code": "MAD", "taux": 1},
		{"id": 2, "code": "EUR", "taux": 10.85},
		{"id": 3, "code": "USD", "taux": 10.02},
	},
	VehicleRatesCollection: {
		{"id": 1, "type": "voiture", "taux_km": 3},
		{"id": 2, "type": "moto", "taux_km": 1.5},
	},
	DepartementsCollection: {
		{"id": 1, "nom": "Ressources humaines"},
		{"id": 2, "nom": "Finance"},
		{"id": 3, "nom": "Informatique"},
		{"id": 4, "nom": "Production"},
	},
	PostesCollection: {
		{"id": 1, "titre": "Chargé RH", "departement_id": 1},
		{"id": 2, "titre": "Comptable", "departement_id": 2},
		{"id": 3, "titre": "Développeur", "departement_id": 3},
		{"id": 4, "titre": "Opérateur", "departement_id": 4},
	},
	PayrollSettingsCollection: {
		{
			"id":                         payrollSettingsID,
			"max_avances_par_an":         3,
			"avance_plafond_pourcentage": 50,
			"taux_cnss":                  4.48,
			"plafond_cnss":               6000,
			"taux_amo":                   2.26,
			"heures_mensuelles":          191,
			"majoration_heures_sup":      1.25,
			"heure_debut_travail":        "09:00",
		},
	},
}

// SeedDefaults fills every empty catalog collection with its default rows.
func SeedDefaults(ctx context.Context, s store.Store, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.L()
	}
	for name, rows := range defaults {
		coll := s.Collection(name)
		n, err := coll.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		for _, row := range rows {
			if _, err := coll.Push(ctx, row.Clone()); err != nil {
				return err
			}
		}
		logger.Info("catalog seeded", zap.String("collection", name), zap.Int("rows", len(rows)))
	}
	return nil
}
