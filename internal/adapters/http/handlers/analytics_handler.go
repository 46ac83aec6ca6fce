package handlers

import (
	"errors"
	"time"

	"saccolink/internal/core/domain"
	"saccolink/internal/core/services"
	"saccolink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler handles reporting and dashboard endpoints
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	reconcileService *services.ReconcileService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(
	analyticsService *services.AnalyticsService,
	reconcileService *services.ReconcileService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		reconcileService: reconcileService,
	}
}

// Dashboard handles the cooperative dashboard (Staff/Admin)
// @Summary Cooperative dashboard
// @Description Get totals and pending counts across all ledgers
// @Tags Analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	data, err := h.analyticsService.GetDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// Trends handles monthly trends for the current year (Staff/Admin)
// @Summary Monthly trends
// @Description Get per-month approved ledger flow for the current year
// @Tags Analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /analytics/trends [get]
func (h *AnalyticsHandler) Trends(c *fiber.Ctx) error {
	trends, err := h.analyticsService.GetMonthlyTrends(c.Context(), time.Now())
	if err != nil {
		return response.InternalServerError(c, "Failed to build trends")
	}

	return response.Success(c, "Trends retrieved successfully", fiber.Map{
		"trends": trends,
	})
}

// FinancialSummary handles the date-range financial summary (Staff/Admin)
// @Summary Financial summary
// @Description Get approved activity totals between two dates
// @Tags Analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date (YYYY-MM-DD), defaults to 30 days ago"
// @Param to query string false "End date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /analytics/financial-summary [get]
func (h *AnalyticsHandler) FinancialSummary(c *fiber.Ctx) error {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if q := c.Query("from"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			return response.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		}
		from = parsed
	}
	if q := c.Query("to"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			return response.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		}
		// Include the whole end day
		to = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}

	summary, err := h.analyticsService.GetFinancialSummary(c.Context(), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return response.BadRequest(c, "End date must not precede start date")
		}
		return response.InternalServerError(c, "Failed to build financial summary")
	}

	return response.Success(c, "Financial summary retrieved successfully", summary)
}

// Performance handles cooperative health indicators (Staff/Admin)
// @Summary Performance indicators
// @Description Get loan-to-deposit ratio, repayment rate, savings growth and rankings
// @Tags Analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /analytics/performance [get]
func (h *AnalyticsHandler) Performance(c *fiber.Ctx) error {
	data, err := h.analyticsService.GetPerformance(c.Context(), time.Now())
	if err != nil {
		return response.InternalServerError(c, "Failed to build performance report")
	}

	return response.Success(c, "Performance retrieved successfully", data)
}

// AdminOverview handles the admin landing page (Admin only)
// @Summary Admin overview
// @Description Get account counts, dashboard totals and the pending queue
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/overview [get]
func (h *AnalyticsHandler) AdminOverview(c *fiber.Ctx) error {
	data, err := h.analyticsService.GetAdminOverview(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build admin overview")
	}

	return response.Success(c, "Admin overview retrieved successfully", data)
}

// Reconciliation handles an on-demand reconciliation run (Admin only)
// @Summary Run reconciliation
// @Description Compare member balances against approved ledger history
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/reconciliation [post]
func (h *AnalyticsHandler) Reconciliation(c *fiber.Ctx) error {
	report, err := h.reconcileService.CheckAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Reconciliation failed")
	}

	return response.Success(c, "Reconciliation completed", report)
}
