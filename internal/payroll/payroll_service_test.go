package payroll_test

import (
	"context"
	"testing"

	"go-sirh/internal/avance"
	"go-sirh/internal/catalog"
	"go-sirh/internal/employee"
	"go-sirh/internal/events"
	"go-sirh/internal/messaging/kafka"
	kafkamock "go-sirh/internal/messaging/kafka/mock"
	"go-sirh/internal/payroll"
	payrollerrors "go-sirh/internal/payroll/errors"
	"go-sirh/internal/pret"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/contextutil"
	"go-sirh/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fixture struct {
	store    store.Store
	periods  resource.Service
	payslips resource.Service
	repo     payroll.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s, err := store.NewMemoryStore("")
	require.NoError(t, err)
	require.NoError(t, catalog.SeedDefaults(ctx, s, zap.NewNop()))

	seed := map[string][]store.Record{
		employee.Collection: {
			{"id": 7, "matricule": "EMP-000007", "firstName": "Salma", "lastName": "Bennani", "salaireBase": 10000, "statut": employee.StatusActif},
			{"id": 8, "matricule": "EMP-000008", "firstName": "Yassine", "lastName": "Alaoui", "salaireBase": 4000, "statut": employee.StatusActif},
			{"id": 9, "matricule": "EMP-000009", "firstName": "Karim", "lastName": "Tazi", "salaireBase": 5000, "statut": employee.StatusInactif},
		},
		avance.Collection: {
			{"employe_id": 7, "montant": 1000, "date_demande": "2025-03-05", "statut": avance.StatusValide},
			{"employe_id": 7, "montant": 700, "date_demande": "2025-03-12", "statut": avance.StatusEnAttente},
			{"employe_id": 7, "montant": 300, "date_demande": "2025-02-20", "statut": avance.StatusValide},
		},
		pret.Collection: {
			{"employe_id": 7, "montant": 6000, "duree_mois": 12, "mensualite": 500, "statut": pret.StatusEnCours},
			{"employe_id": 8, "montant": 1200, "duree_mois": 12, "mensualite": 100, "statut": pret.StatusSolde},
		},
	}
	for name, rows := range seed {
		for _, rec := range rows {
			_, err := s.Collection(name).Push(ctx, rec)
			require.NoError(t, err)
		}
	}

	repo := payroll.NewRepository(s)
	payslipDef := payroll.NewPayslipDefinition(repo, catalog.NewService(s), avance.NewRepository(s), pret.NewRepository(s))
	return fixture{
		store:    s,
		periods:  resource.NewService(payroll.NewPeriodDefinition(repo), resource.Deps{Store: s}),
		payslips: resource.NewService(payslipDef, resource.Deps{Store: s}),
		repo:     repo,
	}
}

func TestPeriod_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.periods.Create(ctx, store.Record{"annee": 2025, "mois": 2})
	require.NoError(t, err)
	assert.Equal(t, "2025-02", created.Text("code"))
	assert.Equal(t, "2025-02-01", created.Text("date_debut"))
	assert.Equal(t, "2025-02-28", created.Text("date_fin"))
	assert.Equal(t, payroll.PeriodOuverte, created.Text("statut"))

	_, err = f.periods.Create(ctx, store.Record{"annee": "2025", "mois": "2"})
	assert.ErrorIs(t, err, payrollerrors.ErrPeriodExists)
	assert.Equal(t, 409, apperror.ToHTTP(err).Status)

	_, err = f.periods.Create(ctx, store.Record{"annee": 2025, "mois": 13})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidPeriod)

	_, err = f.periods.Create(ctx, store.Record{"mois": 4})
	assert.ErrorIs(t, err, apperror.RequiredField("annee"))
}

func TestService_GenerateForPeriod(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := payroll.NewService(f.repo, f.payslips, nil, nil)

	period, err := f.periods.Create(ctx, store.Record{"annee": 2025, "mois": 3})
	require.NoError(t, err)

	n, err := svc.GenerateForPeriod(ctx, period.ID(), "rh.admin")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.GenerateForPeriod(ctx, period.ID(), "rh.admin")
	require.NoError(t, err)
	assert.Zero(t, n)

	slips, err := f.repo.PayslipsForPeriod(ctx, period.ID())
	require.NoError(t, err)
	require.Len(t, slips, 2)

	byEmployee := map[string]store.Record{}
	for _, s := range slips {
		byEmployee[store.IDString(s["employe_id"])] = s
	}
	assert.Equal(t, 1000.0, byEmployee["7"]["retenue_avances"])
	assert.Equal(t, 500.0, byEmployee["7"]["retenue_prets"])
	assert.Equal(t, 8005.2, byEmployee["7"]["net_a_payer"])
	assert.Equal(t, 0.0, byEmployee["8"]["retenue_prets"])
	assert.Equal(t, 3730.4, byEmployee["8"]["net_a_payer"])
	assert.Equal(t, payroll.PayslipBrouillon, byEmployee["8"].Text("statut"))

	_, err = f.payslips.Create(ctx, store.Record{"periode_id": period.ID(), "employe_id": 8})
	assert.ErrorIs(t, err, payrollerrors.ErrPayslipExists)

	_, err = svc.GenerateForPeriod(ctx, "404", "")
	assert.ErrorIs(t, err, payrollerrors.ErrPeriodNotFound)
}

func TestPeriod_Cloturer(t *testing.T) {
	ctx := contextutil.WithActor(context.Background(), "rh.admin")
	f := newFixture(t)
	svc := payroll.NewService(f.repo, f.payslips, nil, nil)

	period, err := f.periods.Create(ctx, store.Record{"annee": 2025, "mois": 3})
	require.NoError(t, err)
	_, err = svc.GenerateForPeriod(ctx, period.ID(), "")
	require.NoError(t, err)

	err = f.periods.Delete(ctx, period.ID())
	assert.ErrorIs(t, err, payrollerrors.ErrPeriodHasPayslips)

	_, err = f.periods.Transition(ctx, period.ID(), "cloturer", nil)
	assert.ErrorIs(t, err, payrollerrors.ErrPeriodNotReady)

	slips, err := f.repo.PayslipsForPeriod(ctx, period.ID())
	require.NoError(t, err)
	for _, s := range slips {
		_, err := f.payslips.Transition(ctx, s.ID(), "validate", nil)
		require.NoError(t, err)
	}
	_, err = f.payslips.Transition(ctx, slips[0].ID(), "pay", store.Record{"mode_paiement": "virement"})
	require.NoError(t, err)

	closed, err := f.periods.Transition(ctx, period.ID(), "cloturer", nil)
	require.NoError(t, err)
	assert.Equal(t, payroll.PeriodCloturee, closed.Text("statut"))
	assert.Equal(t, 2.0, closed["nombre_bulletins"])
	assert.Equal(t, "rh.admin", closed.Text("cloture_par"))

	_, err = svc.GenerateForPeriod(ctx, period.ID(), "")
	assert.ErrorIs(t, err, payrollerrors.ErrPeriodClosed)
}

func TestService_RequestGeneration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	period, err := f.periods.Create(ctx, store.Record{"annee": 2025, "mois": 3})
	require.NoError(t, err)

	t.Run("queues an outbox event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		outbox := kafkamock.NewMockOutboxRepository(ctrl)
		outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, evt kafka.OutboxEvent) error {
			assert.Equal(t, events.PayslipGenerationRequestedTopic, evt.Topic)
			assert.Equal(t, period.ID(), evt.AggregateID)
			assert.Contains(t, string(evt.Payload), `"periode_id":"`+period.ID()+`"`)
			return nil
		})

		svc := payroll.NewService(f.repo, f.payslips, outbox, nil)
		assert.NoError(t, svc.RequestGeneration(ctx, period.ID()))
	})

	t.Run("without outbox", func(t *testing.T) {
		svc := payroll.NewService(f.repo, f.payslips, nil, nil)
		err := svc.RequestGeneration(ctx, period.ID())
		assert.ErrorIs(t, err, payrollerrors.ErrAsyncUnavailable)
	})

	t.Run("unknown period", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := payroll.NewService(f.repo, f.payslips, kafkamock.NewMockOutboxRepository(ctrl), nil)
		err := svc.RequestGeneration(ctx, "404")
		assert.ErrorIs(t, err, payrollerrors.ErrPeriodNotFound)
	})
}
