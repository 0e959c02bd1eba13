package employee_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-sirh/internal/employee"
	employeeerrors "go-sirh/internal/employee/errors"
	"go-sirh/internal/events"
	"go-sirh/internal/messaging/kafka"
	kafkaMock "go-sirh/internal/messaging/kafka/mock"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/apperror"
	"go-sirh/internal/shared/counter"
	counterMock "go-sirh/internal/shared/counter/mock"
	"go-sirh/internal/shared/lock"
	"go-sirh/internal/store"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serviceDeps struct {
	store    store.Store
	employee employee.Service
	crud     resource.Service
}

func setupServiceTest(t *testing.T, outbox kafka.OutboxRepository, counterRepo counter.Repository) *serviceDeps {
	t.Helper()
	s, err := store.NewMemoryStore("")
	require.NoError(t, err)

	if counterRepo == nil {
		counterRepo = counter.NewRepository(s, lock.NewLocalLocker())
	}
	svc := employee.NewService(employee.NewRepository(s), counterRepo, outbox, nil, "MA")
	return &serviceDeps{
		store:    s,
		employee: svc,
		crud:     resource.NewService(svc.Definition(), resource.Deps{Store: s}),
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("generates matricule and normalizes contact fields", func(t *testing.T) {
		deps := setupServiceTest(t, nil, nil)

		created, err := deps.crud.Create(ctx, store.Record{
			"firstName":    "Yassine",
			"lastName":     "Alaoui",
			"email":        "Y.Alaoui@Example.ma",
			"phone":        "0612345678",
			"dateEmbauche": "2024-01-15",
			"salaireBase":  "9500",
		})
		require.NoError(t, err)

		assert.Equal(t, "EMP-000001", created.Text("matricule"))
		assert.Equal(t, "y.alaoui@example.ma", created.Text("email"))
		assert.Equal(t, "+212612345678", created.Text("phone"))
		assert.Equal(t, 9500.0, created["salaireBase"])
		assert.Equal(t, employee.StatusActif, created.Text("statut"))

		second, err := deps.crud.Create(ctx, store.Record{"firstName": "Salma", "lastName": "Idrissi"})
		require.NoError(t, err)
		assert.Equal(t, "EMP-000002", second.Text("matricule"))
	})

	t.Run("validation failures", func(t *testing.T) {
		deps := setupServiceTest(t, nil, nil)

		tests := []struct {
			name    string
			payload store.Record
			wantErr error
		}{
			{"missing last name", store.Record{"firstName": "A"}, apperror.RequiredField("lastName")},
			{"bad email", store.Record{"firstName": "A", "lastName": "B", "email": "nope"}, employeeerrors.ErrInvalidEmail},
			{"bad phone", store.Record{"firstName": "A", "lastName": "B", "phone": "12"}, employeeerrors.ErrInvalidPhone},
			{"bad hire date", store.Record{"firstName": "A", "lastName": "B", "dateEmbauche": "15/01/2024"}, employeeerrors.ErrInvalidDateEmbauche},
			{"negative salary", store.Record{"firstName": "A", "lastName": "B", "salaireBase": -1}, employeeerrors.ErrInvalidSalaire},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := deps.crud.Create(ctx, tt.payload)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}

		n, err := deps.store.Collection(employee.Collection).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("duplicate matricule and cin", func(t *testing.T) {
		deps := setupServiceTest(t, nil, nil)

		_, err := deps.crud.Create(ctx, store.Record{"firstName": "A", "lastName": "B", "matricule": "EMP-900", "cin": "BK12345"})
		require.NoError(t, err)

		_, err = deps.crud.Create(ctx, store.Record{"firstName": "C", "lastName": "D", "matricule": "EMP-900"})
		assert.ErrorIs(t, err, employeeerrors.ErrMatriculeAlreadyExists)

		_, err = deps.crud.Create(ctx, store.Record{"firstName": "C", "lastName": "D", "cin": "BK12345"})
		assert.ErrorIs(t, err, employeeerrors.ErrCINAlreadyExists)
		assert.Equal(t, 409, apperror.ToHTTP(err).Status)
	})

	t.Run("counter failure aborts creation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		counterRepo := counterMock.NewMockRepository(ctrl)
		counterRepo.EXPECT().GetNextValue(gomock.Any(), employee.MatriculeCounter).Return(int64(0), assert.AnError)

		deps := setupServiceTest(t, nil, counterRepo)
		_, err := deps.crud.Create(ctx, store.Record{"firstName": "A", "lastName": "B"})
		assert.Error(t, err)
	})

	t.Run("queues employee created event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		outbox := kafkaMock.NewMockOutboxRepository(ctrl)

		var queued kafka.OutboxEvent
		outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, evt kafka.OutboxEvent) error {
			queued = evt
			return nil
		})

		deps := setupServiceTest(t, outbox, nil)
		created, err := deps.crud.Create(ctx, store.Record{"firstName": "A", "lastName": "B", "poste": "Comptable", "salaireBase": 8000})
		require.NoError(t, err)

		assert.Equal(t, events.EmployeeCreatedTopic, queued.Topic)
		assert.Equal(t, created.ID(), queued.AggregateID)

		var payload events.EmployeeCreatedEvent
		require.NoError(t, json.Unmarshal(queued.Payload, &payload))
		assert.Equal(t, "EMP-000001", payload.Matricule)
		assert.Equal(t, "Comptable", payload.Poste)
		assert.Equal(t, 8000.0, payload.SalaireBase)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t, nil, nil)

	first, err := deps.crud.Create(ctx, store.Record{"firstName": "A", "lastName": "B", "cin": "X1"})
	require.NoError(t, err)
	second, err := deps.crud.Create(ctx, store.Record{"firstName": "C", "lastName": "D", "cin": "X2"})
	require.NoError(t, err)

	updated, err := deps.crud.Update(ctx, first.ID(), store.Record{"firstName": "Amine", "lastName": "B", "cin": "X1"}, false)
	require.NoError(t, err)
	assert.Equal(t, "Amine", updated.Text("firstName"))
	assert.Equal(t, first.Text("matricule"), updated.Text("matricule"))

	_, err = deps.crud.Update(ctx, second.ID(), store.Record{"cin": "X1"}, true)
	assert.ErrorIs(t, err, employeeerrors.ErrCINAlreadyExists)

	deactivated, err := deps.crud.Transition(ctx, second.ID(), "deactivate", store.Record{"motif": "Démission"})
	require.NoError(t, err)
	assert.Equal(t, employee.StatusInactif, deactivated.Text("statut"))
	assert.Equal(t, "Démission", deactivated.Text("motif"))
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewMemoryStore("")
	require.NoError(t, err)
	emps := s.Collection(employee.Collection)
	_, err = emps.Push(ctx, store.Record{"id": 1, "matricule": "EMP-000001", "firstName": "A", "lastName": "B", "statut": "Actif"})
	require.NoError(t, err)
	_, err = emps.Push(ctx, store.Record{"id": 2, "matricule": "EMP-000002", "firstName": "C", "lastName": "D", "statut": "Inactif"})
	require.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	svc := employee.NewService(employee.NewRepository(s), counter.NewRepository(s, lock.NewLocalLocker()), nil, rdb, "MA")

	want := []employee.Option{{ID: 1, Matricule: "EMP-000001", FirstName: "A", LastName: "B"}}
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	t.Run("cache miss loads and stores", func(t *testing.T) {
		mock.ExpectGet(employee.OptionsCacheKey).RedisNil()
		mock.ExpectSet(employee.OptionsCacheKey, payload, time.Hour).SetVal("OK")

		got, err := svc.GetOptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache hit", func(t *testing.T) {
		mock.ExpectGet(employee.OptionsCacheKey).SetVal(`[{"id":9,"matricule":"EMP-000009","firstName":"Z","lastName":"Y"}]`)

		got, err := svc.GetOptions(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(9), got[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalidate", func(t *testing.T) {
		mock.ExpectDel(employee.OptionsCacheKey).SetVal(1)
		svc.InvalidateOptions(ctx)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNormalizePhone(t *testing.T) {
	got, err := employee.NormalizePhone("+212 6 12 34 56 78", "MA")
	require.NoError(t, err)
	assert.Equal(t, "+212612345678", got)

	_, err = employee.NormalizePhone("abc", "MA")
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidPhone)
}
