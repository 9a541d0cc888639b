package app

import (
	"database/sql"

	"github.com/srihar-15/EMS/internal/attendance"
	"github.com/srihar-15/EMS/internal/audit"
	"github.com/srihar-15/EMS/internal/auth"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/department"
	"github.com/srihar-15/EMS/internal/employee"
	"github.com/srihar-15/EMS/internal/insights"
	"github.com/srihar-15/EMS/internal/leave"
	"github.com/srihar-15/EMS/internal/messaging/kafka"
	"github.com/srihar-15/EMS/internal/middleware"
	"github.com/srihar-15/EMS/internal/notification"
	"github.com/srihar-15/EMS/internal/performance"
	"github.com/srihar-15/EMS/internal/rbac"
	"github.com/srihar-15/EMS/internal/rbac/infra"
	"github.com/srihar-15/EMS/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func attendanceRules(cfg *config.Config) (attendance.Rules, error) {
	cutoff, err := cfg.Attendance.CutoffClock()
	if err != nil {
		return attendance.Rules{}, err
	}
	loc, err := cfg.App.Location()
	if err != nil {
		return attendance.Rules{}, err
	}
	return attendance.Rules{
		Location:     loc,
		LateCutoff:   cutoff,
		HalfDayHours: decimal.NewFromFloat(cfg.Attendance.HalfDayHours),
	}, nil
}

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) (audit.Logger, error) {
	// --- Repositories ---
	auditRepo := audit.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	insightsRepo := insights.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	performanceRepo := performance.NewRepository(gormDB)

	// --- Cross-cutting ---
	auditService := audit.NewService(auditRepo)

	enforcer, err := infra.NewEnforcer(rbac.ModelText, rbac.Rules())
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(enforcer, auditService)
	notificationService := notification.NewService(notificationRepo, employeeRepo, rbacService)

	rules, err := attendanceRules(cfg)
	if err != nil {
		return nil, err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, cfg.Auth, auditService)
	attendanceService := attendance.NewService(db, attendanceRepo, rules, notificationService, auditService)
	departmentService := department.NewService(db, departmentRepo, auditService)
	employeeService := employee.NewService(
		db,
		employeeRepo,
		authRepo,
		counterRepo,
		outboxRepo,
		rdb,
		notificationService,
		auditService,
		cfg.Auth.DefaultPassword,
	)
	insightsService := insights.NewService(
		insightsRepo,
		insights.NewOpenAIAnalyst(cfg.AI),
		notificationService,
		rdb,
		cfg.AI.Timeout,
	)
	leaveService := leave.NewService(
		db,
		leaveRepo,
		outboxRepo,
		rbacService,
		notificationService,
		auditService,
		cfg.Leave,
	)
	performanceService := performance.NewService(db, performanceRepo, notificationService, auditService)

	// --- Handlers ---
	auditHandler := audit.NewHandler(auditService)
	authHandler := auth.NewHandler(authService, auth.CookieOptions{
		Secure:     cfg.App.IsProduction(),
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	})
	attendanceHandler := attendance.NewHandler(attendanceService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	insightsHandler := insights.NewHandler(insightsService)
	leaveHandler := leave.NewHandler(leaveService)
	notificationHandler := notification.NewHandler(notificationService)
	performanceHandler := performance.NewHandler(performanceService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	authMiddleware := middleware.AuthMiddleware(cfg.Auth.JWTSecret)

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMiddleware)
		rbac.RegisterRoutes(api, rbacHandler, authMiddleware)
		employee.RegisterRoutes(api, employeeHandler, authMiddleware, rbacService, rdb)
		leave.RegisterRoutes(api, leaveHandler, authMiddleware, rdb)
		attendance.RegisterRoutes(api, attendanceHandler, authMiddleware, rbacService)
		performance.RegisterRoutes(api, performanceHandler, authMiddleware, rbacService, rdb)
		audit.RegisterRoutes(api, auditHandler, authMiddleware, rbacService)
		notification.RegisterRoutes(api, notificationHandler, authMiddleware)
		department.RegisterRoutes(api, departmentHandler, authMiddleware, rbacService)
		insights.RegisterRoutes(api, insightsHandler, authMiddleware, rbacService)
	}

	return auditService, nil
}
