package app

import (
	"context"

	"go-sirh/internal/absence"
	"go-sirh/internal/accident"
	"go-sirh/internal/attendance"
	"go-sirh/internal/avance"
	"go-sirh/internal/catalog"
	"go-sirh/internal/config"
	"go-sirh/internal/contract"
	"go-sirh/internal/employee"
	"go-sirh/internal/expense"
	"go-sirh/internal/middleware"
	"go-sirh/internal/payroll"
	"go-sirh/internal/pret"
	"go-sirh/internal/rbac"
	"go-sirh/internal/rbac/infra"
	"go-sirh/internal/resource"
	"go-sirh/internal/shared/counter"
	"go-sirh/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// modules holds every wired service and handler of the api.
type modules struct {
	rbacService rbac.Service

	employees   employee.Service
	employeeSvc resource.Service
	users       resource.Service
	catalog     catalog.Service
	catalogs    []resource.Service
	absences    resource.Service
	avances     resource.Service
	contractSvc resource.Service
	contracts   contract.Service
	prets       pret.Service
	pretSvc     resource.Service
	periods     resource.Service
	payslips    resource.Service
	payroll     payroll.Service
	expenses    resource.Service
	pointageSvc resource.Service
	pointages   attendance.Service
	accidentSvc resource.Service
	accidents   accident.Service

	logger *zap.Logger
}

func buildModules(ctx context.Context, cfg *config.Config, in *Infra, logger *zap.Logger) (*modules, error) {
	s := in.Store

	if cfg.SeedDefaults {
		if err := catalog.SeedDefaults(ctx, s, logger); err != nil {
			return nil, err
		}
	}

	// --- RBAC Core ---
	rbacRepo := rbac.NewRepository(s)
	if err := rbacRepo.SeedDefaults(ctx); err != nil {
		return nil, err
	}
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return nil, err
	}

	deps := resource.Deps{Store: s, Outbox: in.Outbox, Locker: in.Locker}
	newCRUD := func(def *resource.Definition) resource.Service {
		return resource.NewService(def, deps, logger)
	}

	// --- Repositories ---
	counterRepo := counter.NewRepository(s, in.Locker)
	employeeRepo := employee.NewRepository(s)
	absenceRepo := absence.NewRepository(s)
	avanceRepo := avance.NewRepository(s)
	contractRepo := contract.NewRepository(s)
	pretRepo := pret.NewRepository(s)
	payrollRepo := payroll.NewRepository(s)
	attendanceRepo := attendance.NewRepository(s)

	// --- Services ---
	m := &modules{rbacService: rbacService, logger: logger}
	m.catalog = catalog.NewService(s, logger)
	for _, def := range m.catalog.Definitions() {
		m.catalogs = append(m.catalogs, newCRUD(def))
	}

	m.employees = employee.NewService(employeeRepo, counterRepo, in.Outbox, in.Cache(), cfg.PhoneRegion, logger)
	m.employeeSvc = newCRUD(m.employees.Definition())
	m.users = newCRUD(user.NewDefinition())
	m.absences = newCRUD(absence.NewDefinition(absenceRepo, logger))
	m.avances = newCRUD(avance.NewDefinition(avanceRepo, employeeRepo, m.catalog, logger))

	m.contractSvc = newCRUD(contract.NewDefinition())
	m.contracts = contract.NewService(m.contractSvc, contractRepo, logger)

	m.prets = pret.NewService(pretRepo, logger)
	m.pretSvc = newCRUD(m.prets.Definition())

	m.periods = newCRUD(payroll.NewPeriodDefinition(payrollRepo, logger))
	m.payslips = newCRUD(payroll.NewPayslipDefinition(payrollRepo, m.catalog, avanceRepo, pretRepo, logger))
	m.payroll = payroll.NewService(payrollRepo, m.payslips, in.Outbox, in.Locker, logger)

	m.expenses = newCRUD(expense.NewDefinition(counterRepo, m.catalog, cfg.DefaultCurrency, logger))

	m.pointageSvc = newCRUD(attendance.NewDefinition(attendanceRepo, m.catalog, logger))
	m.pointages = attendance.NewService(m.pointageSvc, attendanceRepo, logger)

	m.accidentSvc = newCRUD(accident.NewDefinition(counterRepo, logger))
	m.accidents = accident.NewService(m.accidentSvc, logger)

	return m, nil
}

func (m *modules) register(api *gin.RouterGroup, in *Infra) {
	l := m.logger
	crud := func(svc resource.Service) *resource.Handler {
		return resource.NewHandler(svc, l)
	}
	catalogHandlers := make([]*resource.Handler, 0, len(m.catalogs))
	for _, svc := range m.catalogs {
		catalogHandlers = append(catalogHandlers, crud(svc))
	}

	// --- Routes Registration ---
	rbac.RegisterRoutes(api, rbac.NewHandler(m.rbacService, l), middleware.Authorizer(m.rbacService))
	catalog.RegisterRoutes(api, catalogHandlers, catalog.NewHandler(m.catalog, l), m.rbacService)
	employee.RegisterRoutes(api, crud(m.employeeSvc), employee.NewHandler(m.employees, l), m.rbacService)
	user.RegisterRoutes(api, crud(m.users), m.rbacService)
	absence.RegisterRoutes(api, crud(m.absences), m.rbacService)
	avance.RegisterRoutes(api, crud(m.avances), m.rbacService, in.Cache())
	contract.RegisterRoutes(api, crud(m.contractSvc), m.rbacService)
	pret.RegisterRoutes(api, crud(m.pretSvc), pret.NewHandler(m.prets, l), m.rbacService)
	payroll.RegisterRoutes(api, crud(m.periods), crud(m.payslips), payroll.NewHandler(m.payroll, l), m.rbacService)
	expense.RegisterRoutes(api, crud(m.expenses), m.rbacService)
	attendance.RegisterRoutes(api, crud(m.pointageSvc), attendance.NewHandler(m.pointages, l), m.rbacService)
	accident.RegisterRoutes(api, crud(m.accidentSvc), accident.NewHandler(m.accidents, l), m.rbacService)
}
