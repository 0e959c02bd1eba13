package payroll

import (
	"go-sirh/internal/catalog"
	"go-sirh/internal/shared/money"
	"go-sirh/internal/store"

	"github.com/shopspring/decimal"
)

// Inputs are the amounts a payslip is computed from.
type Inputs struct {
	SalaireBase    decimal.Decimal
	Primes         decimal.Decimal
	HeuresSup      decimal.Decimal
	RetenueAvances decimal.Decimal
	RetenuePrets   decimal.Decimal
}

type Breakdown struct {
	TauxHoraire      decimal.Decimal
	MontantHeuresSup decimal.Decimal
	SalaireBrut      decimal.Decimal
	BaseCNSS         decimal.Decimal
	CotisationCNSS   decimal.Decimal
	CotisationAMO    decimal.Decimal
	RetenueAvances   decimal.Decimal
	RetenuePrets     decimal.Decimal
	TotalRetenues    decimal.Decimal
	NetAPayer        decimal.Decimal
}

// Compute derives a payslip, every amount rounded to 2 places:
//
//	brut = base + primes + heures_sup × (base / heures_mensuelles) × majoration
//	cnss = min(brut, plafond_cnss) × taux_cnss, amo = brut × taux_amo
//	net  = brut − cnss − amo − avances − prêts
func Compute(in Inputs, settings catalog.PayrollSettings) Breakdown {
	var b Breakdown
	if settings.HeuresMensuelles.IsPositive() {
		b.TauxHoraire = money.Round(in.SalaireBase.Div(settings.HeuresMensuelles))
	}
	b.MontantHeuresSup = money.Round(in.HeuresSup.Mul(b.TauxHoraire).Mul(settings.MajorationHeuresSup))
	b.SalaireBrut = money.Round(in.SalaireBase.Add(in.Primes).Add(b.MontantHeuresSup))

	b.BaseCNSS = b.SalaireBrut
	if settings.PlafondCNSS.IsPositive() {
		b.BaseCNSS = decimal.Min(b.SalaireBrut, settings.PlafondCNSS)
	}
	b.CotisationCNSS = money.Round(money.Percent(b.BaseCNSS, settings.TauxCNSS))
	b.CotisationAMO = money.Round(money.Percent(b.SalaireBrut, settings.TauxAMO))

	b.RetenueAvances = money.Round(in.RetenueAvances)
	b.RetenuePrets = money.Round(in.RetenuePrets)
	b.TotalRetenues = b.CotisationCNSS.Add(b.CotisationAMO).Add(b.RetenueAvances).Add(b.RetenuePrets)
	b.NetAPayer = b.SalaireBrut.Sub(b.TotalRetenues)
	return b
}

// apply writes the breakdown into a payslip record.
func (b Breakdown) apply(rec store.Record) {
	rec["taux_horaire"] = money.Float(b.TauxHoraire)
	rec["montant_heures_sup"] = money.Float(b.MontantHeuresSup)
	rec["salaire_brut"] = money.Float(b.SalaireBrut)
	rec["base_cnss"] = money.Float(b.BaseCNSS)
	rec["cotisation_cnss"] = money.Float(b.CotisationCNSS)
	rec["cotisation_amo"] = money.Float(b.CotisationAMO)
	rec["retenue_avances"] = money.Float(b.RetenueAvances)
	rec["retenue_prets"] = money.Float(b.RetenuePrets)
	rec["total_retenues"] = money.Float(b.TotalRetenues)
	rec["net_a_payer"] = money.Float(b.NetAPayer)
}
