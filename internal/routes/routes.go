package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fahrwerk/driveschool-scheduler/internal/audit"
	"github.com/fahrwerk/driveschool-scheduler/internal/cache"
	"github.com/fahrwerk/driveschool-scheduler/internal/config"
	"github.com/fahrwerk/driveschool-scheduler/internal/handlers"
	infraRepo "github.com/fahrwerk/driveschool-scheduler/internal/infra/repository"
	"github.com/fahrwerk/driveschool-scheduler/internal/middleware"
	coresched "github.com/fahrwerk/driveschool-scheduler/internal/schedule"
	ucAppointment "github.com/fahrwerk/driveschool-scheduler/internal/usecase/appointment"
	ucSchedule "github.com/fahrwerk/driveschool-scheduler/internal/usecase/schedule"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	log *zap.Logger,
	slotCache cache.SlotCache,
	recalcQueue coresched.Queue,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — SCHEDULING ENGINE
	// ======================================================
	resolver := ucSchedule.NewResolver(scheduleRepo)
	aggregator := ucSchedule.NewBusyAggregator(scheduleRepo, log)
	generator := ucSchedule.NewSlotGenerator(scheduleRepo, resolver, aggregator, slotCache, log)
	checker := ucSchedule.NewConflictChecker(aggregator, log)
	recalcUC := ucSchedule.NewQueueRecalc(recalcQueue, slotCache, log)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		recalcUC,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		recalcUC,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(
		appointmentRepo,
		recalcUC,
		auditDispatcher,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	tenantHandler := handlers.NewTenantHandler(db)
	studentHandler := handlers.NewStudentHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, recalcUC)
	externalBusyHandler := handlers.NewExternalBusyHandler(db, recalcUC)

	availabilityHandler := handlers.NewAvailabilityHandler(
		db,
		generator,
		checker,
		recalcUC,
		slotCache,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		deleteAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/availability", availabilityHandler.GetPublicAvailability)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/school", tenantHandler.GetMyTenant)
			secured.PATCH("/me/school", tenantHandler.UpdateMyTenant)

			secured.GET("/me/students", studentHandler.List)

			secured.GET("/me/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/working-hours", workingHoursHandler.Update)

			secured.GET("/external-busy-times", externalBusyHandler.List)
			secured.POST("/external-busy-times", externalBusyHandler.Create)
			secured.DELETE("/external-busy-times/:id", externalBusyHandler.Delete)

			// ------------------------------
			// AVAILABILITY
			// ------------------------------
			secured.GET("/availability", availabilityHandler.GetAvailability)
			secured.POST("/availability/queue-recalc", availabilityHandler.QueueRecalc)
			secured.POST("/staff/check-conflicts", availabilityHandler.CheckConflicts)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.DELETE("/me/appointments/:id", appointmentHandler.Delete)

			secured.GET("/me/audit-logs", middleware.RequireRole("admin"), auditLogsHandler.List)
		}
	}
}
