package router

import (
	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"
	"sitetrack/backend/internal/middleware"
	"sitetrack/backend/internal/pkg/config"
	"sitetrack/backend/internal/pkg/repository/postgresql"
	"sitetrack/backend/internal/service/audit"

	"sitetrack/backend/internal/repository/postgres/attendance"
	"sitetrack/backend/internal/repository/postgres/project"
	syncrepo "sitetrack/backend/internal/repository/postgres/sync"
	"sitetrack/backend/internal/repository/postgres/wage"
	"sitetrack/backend/internal/repository/postgres/worker"

	attendance_controller "sitetrack/backend/internal/controller/http/v1/attendance"
	authentication_controller "sitetrack/backend/internal/controller/http/v1/authentication"
	"sitetrack/backend/internal/controller/http/v1/file"
	project_controller "sitetrack/backend/internal/controller/http/v1/project"
	sync_controller "sitetrack/backend/internal/controller/http/v1/sync"
	wage_controller "sitetrack/backend/internal/controller/http/v1/wage"
	worker_controller "sitetrack/backend/internal/controller/http/v1/worker"

	"github.com/redis/go-redis/v9"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	port       string
	auth       *auth.Auth
	policy     config.Policy
	mediaDir   string
	origins    []string
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	port string,
	auth *auth.Auth,
	policy config.Policy,
	mediaDir string,
	origins []string,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		port,
		auth,
		policy,
		mediaDir,
		origins,
	}
}

func (r Router) Init() error {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORS(r.origins))

	// - postgresql
	auditStore := audit.NewStore(r.postgresDB)
	workerPostgres := worker.NewRepository(r.postgresDB)
	projectPostgres := project.NewRepository(r.postgresDB)
	wagePostgres := wage.NewRepository(r.postgresDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB, r.policy, r.redisDB, auditStore, wagePostgres)
	syncPostgres := syncrepo.NewRepository(r.postgresDB, attendancePostgres)

	// controller
	authenticationController := authentication_controller.NewController(workerPostgres, r.auth)
	workerController := worker_controller.NewController(workerPostgres)
	projectController := project_controller.NewController(projectPostgres)
	wageController := wage_controller.NewController(wagePostgres)
	attendanceController := attendance_controller.NewController(attendancePostgres)
	syncController := sync_controller.NewController(syncPostgres)

	fileC := file.NewController(r.App, r.mediaDir)

	// #auth
	r.Post("/api/v1/sign-in", authenticationController.SignIn)
	r.Post("/api/v1/refresh-token", authenticationController.RefreshToken)

	r.GET("/media/*filepath", fileC.File)
	r.HEAD("/media/*filepath", fileC.File)

	// #worker
	r.Get("/api/v1/worker/list", workerController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/worker/:id", workerController.GetById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/worker/create", workerController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/worker/:id", workerController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/worker/:id", workerController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #project
	r.Get("/api/v1/project/list", projectController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard, auth.RoleSupervisor))
	r.Get("/api/v1/project/:id", projectController.GetById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard, auth.RoleSupervisor))
	r.Post("/api/v1/project/create", projectController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/project/:id", projectController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/project/:id", projectController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/project/:id/badge", projectController.Badge, middleware.Authenticate(r.auth, auth.RoleAdmin))

	r.Get("/api/v1/project/:id/breaks", projectController.GetBreaks, middleware.Authenticate(r.auth))
	r.Post("/api/v1/project/:id/breaks", projectController.CreateBreak, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/project/breaks/:id", projectController.DeleteBreak, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/project/:id/members", projectController.UpsertMember, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #attendance
	r.Post("/api/v1/attendance/checkin", attendanceController.CheckIn, middleware.Authenticate(r.auth, auth.RoleWorker, auth.RoleSupervisor))
	r.Patch("/api/v1/attendance/checkout", attendanceController.CheckOut, middleware.Authenticate(r.auth, auth.RoleWorker, auth.RoleSupervisor))
	r.Post("/api/v1/attendance/track", attendanceController.TrackLocation, middleware.Authenticate(r.auth, auth.RoleWorker, auth.RoleSupervisor))
	r.Get("/api/v1/attendance/live", attendanceController.GetLiveStatus, middleware.Authenticate(r.auth, auth.RoleWorker, auth.RoleSupervisor))
	r.Get("/api/v1/attendance/list", attendanceController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Get("/api/v1/attendance/export", attendanceController.Export, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/attendance/:id", attendanceController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))

	// #sync
	r.Post("/api/v1/sync/batch", syncController.SyncBatch, middleware.Authenticate(r.auth, auth.RoleWorker, auth.RoleSupervisor))

	// #wage
	r.Get("/api/v1/wage/list", wageController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin, auth.RoleDashboard))
	r.Get("/api/v1/wage/export", wageController.Export, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/wage/rate", wageController.UpsertRate, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/wage/recompute/:id", wageController.Recompute, middleware.Authenticate(r.auth, auth.RoleAdmin))

	return r.Run(r.port)
}
