package routes

import (
	"clinic-scheduler-server/internal/config"
	"clinic-scheduler-server/internal/handlers"
	"clinic-scheduler-server/internal/middleware"
	"clinic-scheduler-server/internal/models"
	"clinic-scheduler-server/internal/scheduling"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, store scheduling.Store) {
	lifecycle := scheduling.NewLifecycle(store)
	availability := scheduling.NewAvailabilityStore(store)
	queries := scheduling.NewQueries(store)
	seeder := scheduling.NewSeeder(store)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg, seeder)
	userHandler := handlers.NewUserHandler(db)
	appointmentHandler := handlers.NewAppointmentHandler(lifecycle, queries, store)
	availabilityHandler := handlers.NewAvailabilityHandler(availability, queries, store)
	notificationHandler := handlers.NewNotificationHandler(store)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(store)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// User directory routes
		userRoutes := private.Group("/users")
		{
			// All authenticated users can list doctors (needed for booking)
			userRoutes.GET("/doctors", userHandler.GetDoctors)

			// Nurses are listed for appointment assignment
			userRoutes.GET("/nurses", middleware.RoleAuthMiddleware(models.RoleDoctor, models.RoleNurse), userHandler.GetNurses)

			// A doctor's own patient roster
			userRoutes.GET("/doctor-patients", middleware.RoleAuthMiddleware(models.RoleDoctor), userHandler.GetDoctorPatients)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			// Patients book for themselves; nurses may book on a patient's behalf
			appointmentRoutes.POST("", middleware.RoleAuthMiddleware(models.RolePatient, models.RoleNurse), appointmentHandler.CreateAppointment)

			// Role-specific listing handled inside the handler
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)

			// A doctor's appointments after today
			appointmentRoutes.GET("/upcoming", middleware.RoleAuthMiddleware(models.RoleDoctor), appointmentHandler.GetUpcomingAppointments)

			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)

			// Ownership checks happen in the scheduling core
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.PATCH("/:id/reschedule", middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.RescheduleAppointment)
			appointmentRoutes.PATCH("/:id/check-in", middleware.RoleAuthMiddleware(models.RoleNurse), appointmentHandler.CheckInAppointment)
			appointmentRoutes.PATCH("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor), appointmentHandler.UpdateAppointment)
		}

		// Availability routes
		availabilityRoutes := private.Group("/availability")
		{
			availabilityRoutes.GET("/weekly", middleware.RoleAuthMiddleware(models.RoleDoctor), availabilityHandler.GetWeeklyView)
			availabilityRoutes.PATCH("", middleware.RoleAuthMiddleware(models.RoleDoctor), availabilityHandler.SetAvailability)
			availabilityRoutes.GET("/:doctorId/times", availabilityHandler.GetOpenTimes)
			availabilityRoutes.GET("/:doctorId/slots", availabilityHandler.GetOpenSlots)
			availabilityRoutes.GET("/:doctorId/schedule", availabilityHandler.GetSchedule)
		}

		// Notification routes
		notificationRoutes := private.Group("/notifications")
		{
			notificationRoutes.GET("", notificationHandler.GetNotifications)
			notificationRoutes.GET("/unread-count", notificationHandler.GetUnreadCount)
			notificationRoutes.PATCH("/read-all", notificationHandler.MarkAllAsRead)
			notificationRoutes.PATCH("/:id/read", notificationHandler.MarkAsRead)
			notificationRoutes.POST("/send", middleware.RoleAuthMiddleware(models.RoleNurse), notificationHandler.SendMessage)
		}

		// Medical record routes
		medicalRecordRoutes := private.Group("/medical-records")
		{
			medicalRecordRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), medicalRecordHandler.CreateMedicalRecord)
			medicalRecordRoutes.GET("/patient/:patientId", medicalRecordHandler.GetMedicalRecordsForPatient)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
