package catalog

import "github.com/shopspring/decimal"

const (
	ContractTypesCollection   = "contractTypes"
	AbsenceTypesCollection    = "absenceTypes"
	FeeCategoriesCollection   = "feeCategories"
	CurrencyRatesCollection   = "currencyRates"
	VehicleRatesCollection    = "vehicleRates"
	DepartementsCollection    = "departements"
	PostesCollection          = "postes"
	PayrollSettingsCollection = "payrollSettings"

	payrollSettingsID = 1
)

// PayrollSettings holds the parameters used by advances and payslips.
// Rates are percentages, e.g. TauxCNSS 4.48 means 4.48 %.
type PayrollSettings struct {
	MaxAvancesParAn          int
	AvancePlafondPourcentage decimal.Decimal
	TauxCNSS                 decimal.Decimal
	PlafondCNSS              decimal.Decimal
	TauxAMO                  decimal.Decimal
	HeuresMensuelles         decimal.Decimal
	MajorationHeuresSup      decimal.Decimal
	HeureDebutTravail        string
}
