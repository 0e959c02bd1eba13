package expense

import (
	"context"
	"strings"
	"time"

	"go-sirh/internal/catalog"
	expenseerrors "go-sirh/internal/expense/errors"
	"go-sirh/internal/employee"
	"go-sirh/internal/lifecycle"
	"go-sirh/internal/query"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/counter"
	"go-sirh/internal/shared/export"
	"go-sirh/internal/shared/money"
	"go-sirh/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var Machine = &lifecycle.Machine{
	Entity:  "note de frais",
	Initial: StatusBrouillon,
	Transitions: []lifecycle.Transition{
		{Action: "submit", From: []string{StatusBrouillon}, To: StatusSoumise},
		{Action: "validate", From: []string{StatusSoumise}, To: StatusValidee},
		{Action: "refuse", From: []string{StatusSoumise}, To: StatusRefusee},
		{Action: "rembourser", From: []string{StatusValidee}, To: StatusRemboursee},
	},
	Deletable: []string{StatusBrouillon},
	Editable:  []string{StatusBrouillon},
}

type hooks struct {
	counter  counter.Repository
	approver approver
	logger   *zap.Logger
}

func NewDefinition(counterRepo counter.Repository, catalogService catalog.Service, baseCurrency string, logger ...*zap.Logger) *resource.Definition {
	l := zap.L().Named("expense.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("expense.service")
	}
	baseCurrency = strings.ToUpper(baseCurrency)
	h := &hooks{
		counter:  counterRepo,
		approver: approver{catalog: catalogService, baseCurrency: baseCurrency},
		logger:   l,
	}

	return &resource.Definition{
		Name:         "notes-frais",
		Label:        "Note de frais",
		Collection:   Collection,
		HistoryField: lifecycle.DefaultHistoryField,
		Defaults:     store.Record{"devise": baseCurrency},
		Query: query.Spec{
			Filters: []query.Filter{
				query.Exact("employe_id", "employe_id"),
				query.Exact("employeeId", "employe_id"),
				query.Exact("statut", "statut"),
				query.DateWithin("from", "to", "created_at"),
			},
		},
		Enrichments: []query.Enrichment{
			{Key: "employee", ForeignKey: "employe_id", Collection: employee.Collection, Fields: employee.Projection},
		},
		Machine:   Machine,
		Immutable: []string{"employe_id", "reference", "total_approuve"},
		Actions: map[string]resource.Action{
			"submit":     {DateField: "date_soumission", Apply: h.applySubmit},
			"validate":   {ActorField: "valide_par", DateField: "date_validation", Apply: h.applyValidate},
			"refuse":     {ReasonField: "motif_refus", ActorField: "valide_par", DateField: "date_validation"},
			"rembourser": {Fields: []string{"mode_paiement", "reference_paiement"}, DateField: "date_remboursement"},
		},
		Export: []export.Column{
			{Header: "Référence", Field: "reference"},
			{Header: "Matricule", Field: "employee.matricule"},
			{Header: "Nom", Field: "employee.lastName"},
			{Header: "Prénom", Field: "employee.firstName"},
			{Header: "Objet", Field: "titre"},
			{Header: "Devise", Field: "devise"},
			{Header: "Total", Field: "montant_total"},
			{Header: "Total approuvé", Field: "total_approuve"},
			{Header: "Statut", Field: "statut"},
		},
		BeforeCreate: h.beforeCreate,
		BeforeUpdate: func(ctx context.Context, current, next store.Record) error {
			return h.prepare(ctx, next)
		},
	}
}

func (h *hooks) beforeCreate(ctx context.Context, rec store.Record) error {
	if err := h.prepare(ctx, rec); err != nil {
		return err
	}
	if rec.Text("reference") == "" {
		n, err := h.counter.GetNextValue(ctx, ReferenceCounter)
		if err != nil {
			h.logger.Error("generate expense reference failed", zap.Error(err))
			return err
		}
		rec["reference"] = counter.Format("NF-", n, 6)
	}
	return nil
}

// prepare validates the note and its lines and refreshes montant_total.
func (h *hooks) prepare(ctx context.Context, rec store.Record) error {
	if store.IDString(rec["employe_id"]) == "" {
		return apperror.RequiredField("employe_id")
	}
	rec["devise"] = strings.ToUpper(rec.Text("devise"))
	if rec.Text("devise") == "" {
		rec["devise"] = h.approver.baseCurrency
	}

	lines, err := readLines(rec)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if err := validateLine(line); err != nil {
			return err
		}
		if d := line.Text("devise"); d != "" {
			line["devise"] = strings.ToUpper(d)
		}
	}
	total, err := h.approver.total(ctx, lines, rec.Text("devise"))
	if err != nil {
		return err
	}
	rec[linesField] = lines
	rec["montant_total"] = money.Float(total)
	return nil
}

func (h *hooks) applySubmit(ctx context.Context, current, payload, patch store.Record, now time.Time) error {
	lines, err := readLines(current)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return expenseerrors.ErrEmptyNote
	}
	return nil
}

// applyValidate approves every line: amount plus mileage, converted to the note currency and capped at the category ceiling.
func (h *hooks) applyValidate(ctx context.Context, current, payload, patch store.Record, now time.Time) error {
	lines, err := readLines(current)
	if err != nil {
		return err
	}
	currency := current.Text("devise")
	if currency == "" {
		currency = h.approver.baseCurrency
	}

	total := decimal.Zero
	capped := 0
	for _, line := range lines {
		approved, err := h.approver.approve(ctx, line, currency)
		if err != nil {
			return err
		}
		if plafonne, _ := line["plafonne"].(bool); plafonne {
			capped++
		}
		total = total.Add(approved)
	}

	patch[linesField] = lines
	patch["total_approuve"] = money.Float(total)
	h.logger.Info("expense note approved",
		zap.String("id", current.ID()),
		zap.String("total_approuve", money.Round(total).String()),
		zap.Int("lignes_plafonnees", capped),
	)
	return nil
}
