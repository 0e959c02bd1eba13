package expense

import (
	"context"
	"time"

	"go-sirh/internal/catalog"
	expenseerrors "go-sirh/internal/expense/errors"
	"go-sirh/internal/shared/money"
	"go-sirh/internal/store"

	"github.com/shopspring/decimal"
)

// readLines decodes rec["lignes"]. A missing field is an empty list.
func readLines(rec store.Record) ([]store.Record, error) {
	raw, ok := rec[linesField]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		if typed, isTyped := raw.([]store.Record); isTyped {
			return cloneLines(typed), nil
		}
		return nil, expenseerrors.ErrInvalidLines
	}
	out := make([]store.Record, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			out = append(out, store.Record(v).Clone())
		case store.Record:
			out = append(out, v.Clone())
		default:
			return nil, expenseerrors.ErrInvalidLines
		}
	}
	return out, nil
}

func cloneLines(lines []store.Record) []store.Record {
	out := make([]store.Record, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

func validateLine(line store.Record) error {
	if store.IDString(line["categorie_id"]) == "" {
		return expenseerrors.ErrInvalidLine
	}
	if _, err := time.Parse(time.DateOnly, line.Text("date")); err != nil {
		return expenseerrors.ErrInvalidLine
	}
	montant, ok := money.FromValue(line["montant"])
	if !ok || montant.IsNegative() {
		return expenseerrors.ErrInvalidLine
	}
	line["montant"] = money.Float(montant)
	if v, present := line["km"]; present && v != nil {
		km, ok := money.FromValue(v)
		if !ok || km.IsNegative() {
			return expenseerrors.ErrInvalidLine
		}
		line["km"] = money.Float(km)
	}
	return nil
}

type approver struct {
	catalog      catalog.Service
	baseCurrency string
}

// lineAmount is the raw amount plus the mileage allowance, in the line's currency.
func (a approver) lineAmount(ctx context.Context, line store.Record) (decimal.Decimal, error) {
	amount := money.Field(line, "montant")
	if vt := line.Text("vehicule_type"); vt != "" {
		rate, ok, err := a.catalog.VehicleRate(ctx, vt)
		if err != nil {
			return decimal.Zero, err
		}
		if ok {
			amount = amount.Add(rate.Mul(money.Field(line, "km")))
		}
	}
	return amount, nil
}

// approve computes montant_approuve and plafonne for one line, in the note currency.
// Category ceilings are expressed in the base currency.
func (a approver) approve(ctx context.Context, line store.Record, noteCurrency string) (decimal.Decimal, error) {
	amount, err := a.lineAmount(ctx, line)
	if err != nil {
		return decimal.Zero, err
	}
	lineCurrency := line.Text("devise")
	if lineCurrency == "" {
		lineCurrency = noteCurrency
	}
	converted, err := a.catalog.Convert(ctx, amount, lineCurrency, noteCurrency)
	if err != nil {
		return decimal.Zero, err
	}
	converted = money.Round(converted)

	approved := converted
	capped := false
	ceiling, ok, err := a.catalog.FeeCeiling(ctx, line["categorie_id"])
	if err != nil {
		return decimal.Zero, err
	}
	if ok {
		ceiling, err = a.catalog.Convert(ctx, ceiling, a.baseCurrency, noteCurrency)
		if err != nil {
			return decimal.Zero, err
		}
		ceiling = money.Round(ceiling)
		if converted.GreaterThan(ceiling) {
			approved, capped = ceiling, true
		}
	}

	line["montant_converti"] = money.Float(converted)
	line["montant_approuve"] = money.Float(approved)
	line["plafonne"] = capped
	return approved, nil
}

// total sums the lines converted into the note currency, before any ceiling.
func (a approver) total(ctx context.Context, lines []store.Record, noteCurrency string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, line := range lines {
		amount, err := a.lineAmount(ctx, line)
		if err != nil {
			return decimal.Zero, err
		}
		lineCurrency := line.Text("devise")
		if lineCurrency == "" {
			lineCurrency = noteCurrency
		}
		converted, err := a.catalog.Convert(ctx, amount, lineCurrency, noteCurrency)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(converted)
	}
	return money.Round(sum), nil
}
