package pret

import (
	"time"

	"go-sirh/internal/shared/money"

	"github.com/shopspring/decimal"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// MonthlyRate converts an annual percentage into a monthly rate: t/100/12.
func MonthlyRate(tauxAnnuel decimal.Decimal) decimal.Decimal {
	return tauxAnnuel.Div(hundred).Div(twelve)
}

// MonthlyPayment is the annuity M*r/(1-(1+r)^-n), rounded to the unit.
// A zero rate splits the principal evenly: round(M/n).
func MonthlyPayment(montant decimal.Decimal, dureeMois int, tauxAnnuel decimal.Decimal) decimal.Decimal {
	if dureeMois <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(dureeMois))
	r := MonthlyRate(tauxAnnuel)
	if r.IsZero() {
		return montant.Div(n).Round(0)
	}
	// (1+r)^n / ((1+r)^n - 1) is 1/(1-(1+r)^-n) without a negative power.
	factor := decimal.NewFromInt(1).Add(r).Pow(n)
	return montant.Mul(r).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1))).Round(0)
}

// Schedule builds the amortization table. The last installment absorbs rounding so the capital ends at zero.
// Dates are monthly from start when start is a YYYY-MM-DD date.
func Schedule(montant decimal.Decimal, dureeMois int, tauxAnnuel decimal.Decimal, start string) ScheduleResponse {
	mensualite := MonthlyPayment(montant, dureeMois, tauxAnnuel)
	r := MonthlyRate(tauxAnnuel)

	var first time.Time
	hasDate := false
	if t, err := time.Parse(time.DateOnly, start); err == nil {
		first, hasDate = t, true
	}

	out := ScheduleResponse{
		Montant:    money.Float(montant),
		DureeMois:  dureeMois,
		TauxAnnuel: money.Float(tauxAnnuel),
		Mensualite: money.Float(mensualite),
		Echeances:  make([]Installment, 0, max(dureeMois, 0)),
	}

	restant := montant
	total := decimal.Zero
	for i := 1; i <= dureeMois; i++ {
		interet := money.Round(restant.Mul(r))
		principal := mensualite.Sub(interet)
		payment := mensualite
		if i == dureeMois || principal.GreaterThan(restant) {
			principal = restant
			payment = principal.Add(interet)
		}
		restant = restant.Sub(principal)
		total = total.Add(payment)

		inst := Installment{
			Echeance:       i,
			Mensualite:     money.Float(payment),
			Interet:        money.Float(interet),
			Principal:      money.Float(principal),
			CapitalRestant: money.Float(restant),
		}
		if hasDate {
			inst.Date = first.AddDate(0, i-1, 0).Format(time.DateOnly)
		}
		out.Echeances = append(out.Echeances, inst)
		if restant.IsZero() {
			break
		}
	}

	out.CoutTotal = money.Float(total)
	out.TotalInteret = money.Float(total.Sub(montant))
	return out
}
