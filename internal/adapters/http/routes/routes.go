package routes

import (
	"time"

	"saccolink/internal/adapters/http/handlers"
	"saccolink/internal/adapters/http/middleware"
	"saccolink/internal/adapters/persistence/repositories"
	"saccolink/internal/config"
	"saccolink/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, reconcileService *services.ReconcileService, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	depositRepo := repositories.NewDepositRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	// Initialize services
	authService := services.NewAuthService(db, userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(db, userRepo, memberRepo, staffRepo)
	memberService := services.NewMemberService(memberRepo)
	staffService := services.NewStaffService(staffRepo)
	savingsService := services.NewSavingsService(db, depositRepo, withdrawalRepo, memberRepo, staffRepo)
	loanService := services.NewLoanService(db, loanRepo, memberRepo, staffRepo)
	analyticsService := services.NewAnalyticsService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	memberHandler := handlers.NewMemberHandler(memberService)
	staffHandler := handlers.NewStaffHandler(staffService)
	savingsHandler := handlers.NewSavingsHandler(savingsService)
	loanHandler := handlers.NewLoanHandler(loanService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, reconcileService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler, memberHandler,
		staffHandler, savingsHandler, loanHandler, analyticsHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	memberHandler *handlers.MemberHandler,
	staffHandler *handlers.StaffHandler,
	savingsHandler *handlers.SavingsHandler,
	loanHandler *handlers.LoanHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	authRoutes.Use(middleware.NoCacheHeaders())
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes (Admin only)
	userRoutes := router.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Member routes
	memberRoutes := router.Group("/members")
	memberRoutes.Use(middleware.AuthMiddleware(cfg))
	setupMemberRoutes(memberRoutes, memberHandler)

	// Staff routes
	staffRoutes := router.Group("/staff")
	staffRoutes.Use(middleware.AuthMiddleware(cfg))
	setupStaffRoutes(staffRoutes, staffHandler)

	// Savings ledger routes
	depositRoutes := router.Group("/deposits")
	depositRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDepositRoutes(depositRoutes, savingsHandler)

	withdrawalRoutes := router.Group("/withdrawals")
	withdrawalRoutes.Use(middleware.AuthMiddleware(cfg))
	setupWithdrawalRoutes(withdrawalRoutes, savingsHandler)

	// Loan routes
	loanRoutes := router.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	setupLoanRoutes(loanRoutes, loanHandler)

	// Analytics routes (Staff/Admin)
	analyticsRoutes := router.Group("/analytics")
	analyticsRoutes.Use(middleware.AuthMiddleware(cfg))
	analyticsRoutes.Use(middleware.StaffOrAdmin())
	analyticsRoutes.Use(middleware.AnalyticsCache(1 * time.Minute))
	setupAnalyticsRoutes(analyticsRoutes, analyticsHandler)

	// Admin routes (Admin only)
	adminRoutes := router.Group("/admin")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())
	setupAdminRoutes(adminRoutes, analyticsHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupMemberRoutes configures member profile routes
func setupMemberRoutes(router fiber.Router, handler *handlers.MemberHandler) {
	// Members can always see their own profile
	router.Get("/me", handler.GetOwnProfile)

	// Staff/Admin routes
	staffRoutes := router.Group("")
	staffRoutes.Use(middleware.StaffOrAdmin())

	staffRoutes.Get("/", handler.ListMembers)
	staffRoutes.Get("/:id", handler.GetMember)
	staffRoutes.Put("/:id", handler.UpdateMember)
}

// setupStaffRoutes configures staff profile routes
func setupStaffRoutes(router fiber.Router, handler *handlers.StaffHandler) {
	// Staff can see their own profile and approval flags
	router.Get("/me", middleware.StaffOrAdmin(), handler.GetOwnProfile)

	// Admin only
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())

	adminRoutes.Get("/", handler.ListStaff)
	adminRoutes.Get("/:id", handler.GetStaff)
	adminRoutes.Put("/:id", handler.UpdateStaff)
}

// setupDepositRoutes configures deposit ledger routes
func setupDepositRoutes(router fiber.Router, handler *handlers.SavingsHandler) {
	router.Post("/", handler.CreateDeposit)
	router.Get("/me", handler.ListMyDeposits)

	// Staff/Admin routes
	staffRoutes := router.Group("")
	staffRoutes.Use(middleware.StaffOrAdmin())

	staffRoutes.Get("/", handler.ListDeposits)
	staffRoutes.Post("/:id/approve", handler.ApproveDeposit)
	staffRoutes.Post("/:id/reject", handler.RejectDeposit)
}

// setupWithdrawalRoutes configures withdrawal ledger routes
func setupWithdrawalRoutes(router fiber.Router, handler *handlers.SavingsHandler) {
	router.Post("/", handler.CreateWithdrawal)
	router.Get("/me", handler.ListMyWithdrawals)

	// Staff/Admin routes
	staffRoutes := router.Group("")
	staffRoutes.Use(middleware.StaffOrAdmin())

	staffRoutes.Get("/", handler.ListWithdrawals)
	staffRoutes.Post("/:id/approve", handler.ApproveWithdrawal)
	staffRoutes.Post("/:id/reject", handler.RejectWithdrawal)
}

// setupLoanRoutes configures loan lifecycle routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/", handler.RequestLoan)
	router.Get("/me", handler.ListMyLoans)
	router.Get("/:id", handler.GetLoan)
	router.Get("/:id/repayments", handler.ListRepayments)
	router.Post("/:id/repay", handler.Repay)

	// Staff/Admin routes
	staffRoutes := router.Group("")
	staffRoutes.Use(middleware.StaffOrAdmin())

	staffRoutes.Get("/", handler.ListLoans)
	staffRoutes.Post("/:id/approve", handler.ApproveLoan)
	staffRoutes.Post("/:id/reject", handler.RejectLoan)
}

// setupAnalyticsRoutes configures analytics routes (Staff/Admin)
func setupAnalyticsRoutes(router fiber.Router, handler *handlers.AnalyticsHandler) {
	router.Get("/dashboard", handler.Dashboard)
	router.Get("/trends", handler.Trends)
	router.Get("/financial-summary", handler.FinancialSummary)
	router.Get("/performance", handler.Performance)
}

// setupAdminRoutes configures admin routes (Admin only)
func setupAdminRoutes(router fiber.Router, handler *handlers.AnalyticsHandler) {
	router.Get("/overview", handler.AdminOverview)
	router.Post("/reconciliation", handler.Reconciliation)
}
