package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/config"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/handlers"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/middleware"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/report"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/session"
)

func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	loc := cfg.Location()
	store := session.NewStore(db, loc)
	engine := report.NewEngine(store, loc)

	authH := handlers.NewAuthHandler(db)
	attH := handlers.NewAttendanceHandler(store, cfg.PhotoDir)
	repH := handlers.NewReportHandler(engine, store)
	adminH := handlers.NewAdminHandler(db)

	r.GET("/health", handlers.Health)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", authH.Login)
		api.POST("/auth/logout", middleware.AuthRequired(), authH.Logout)
		api.POST("/auth/change-password", middleware.AuthRequired(), authH.ChangePassword)
		api.POST("/auth/totp/setup", middleware.AuthRequired(), authH.SetupTOTP)
		api.POST("/auth/totp/verify", middleware.AuthRequired(), authH.VerifyTOTPSetup)
	}

	att := r.Group("/api/v1/attendance")
	att.Use(middleware.AuthRequired())
	{
		att.POST("/start", attH.Start)
		att.POST("/:id/stop", attH.Stop)
		att.POST("/:id/evidence", attH.AddMidEvidence)
		att.GET("/:id/evidence", attH.ListEvidence)
		att.GET("/active", attH.Active)
		att.GET("/sessions", attH.List)
		att.POST("/evidence-upload", attH.UploadEvidence)
	}

	rep := r.Group("/api/v1/reports")
	rep.Use(middleware.AuthRequired())
	{
		// per-user reports; employees are limited to themselves
		rep.GET("/daily", repH.DailyTotals)
		rep.GET("/calendar", repH.MonthlyCalendar)

		mgr := rep.Group("")
		mgr.Use(middleware.RequireManager())
		{
			mgr.GET("/total", repH.RangeTotal)
			mgr.GET("/top-performers", repH.TopPerformers)
			mgr.GET("/active", repH.ActiveSessions)
			mgr.GET("/sessions", repH.Sessions)
		}
	}

	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthRequired(), middleware.RequireAdmin())
	{
		admin.POST("/employees", adminH.CreateEmployee)
		admin.GET("/employees", adminH.ListEmployees)
		admin.GET("/employees/:id", adminH.GetEmployee)
		admin.PUT("/employees/:id", adminH.UpdateEmployee)
		admin.DELETE("/employees/:id", adminH.DeleteEmployee)
		admin.POST("/employees/:id/reset-password", adminH.ResetPassword)
		admin.POST("/employees/:id/reset-totp", adminH.ResetTOTP)

		admin.GET("/settings", adminH.ListSettings)
		admin.POST("/settings", adminH.AddSetting)
		admin.PUT("/settings/:id", adminH.UpdateSetting)
		admin.DELETE("/settings/:id", adminH.DeleteSetting)
	}

	return r
}
