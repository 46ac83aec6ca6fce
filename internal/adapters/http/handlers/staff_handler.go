package handlers

import (
	"errors"
	"strconv"

	"saccolink/internal/core/domain"
	"saccolink/internal/core/services"
	"saccolink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// StaffHandler handles staff profile endpoints
type StaffHandler struct {
	staffService *services.StaffService
}

// NewStaffHandler creates a new staff handler
func NewStaffHandler(staffService *services.StaffService) *StaffHandler {
	return &StaffHandler{
		staffService: staffService,
	}
}

// ListStaff handles listing staff profiles (Admin only)
// @Summary List staff
// @Description Get a paginated list of staff profiles
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /staff [get]
func (h *StaffHandler) ListStaff(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	input := &services.ListStaffInput{
		Page:  page,
		Limit: limit,
	}

	result, err := h.staffService.ListStaff(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list staff")
	}

	return response.Success(c, "Staff retrieved successfully", result)
}

// GetStaff handles getting a staff profile by ID (Admin only)
// @Summary Get staff by ID
// @Description Get a staff profile with its approval flags
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /staff/{id} [get]
func (h *StaffHandler) GetStaff(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}

	staff, err := h.staffService.GetStaffByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Staff not found")
		}
		return response.InternalServerError(c, "Failed to get staff")
	}

	return response.Success(c, "Staff retrieved successfully", fiber.Map{
		"staff": staff,
	})
}

// GetOwnProfile handles getting the authenticated staff's profile
// @Summary Get own staff profile
// @Description Get the staff profile for the current account
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /staff/me [get]
func (h *StaffHandler) GetOwnProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	staff, err := h.staffService.GetOwnProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileMissing) {
			return response.NotFound(c, "Staff profile missing for this account")
		}
		return response.InternalServerError(c, "Failed to get staff profile")
	}

	return response.Success(c, "Staff profile retrieved successfully", fiber.Map{
		"staff": staff,
	})
}

// UpdateStaffRequest represents update staff request body
type UpdateStaffRequest struct {
	Position          *string `json:"position"`
	Department        *string `json:"department"`
	Phone             *string `json:"phone"`
	CanApproveLoans   *bool   `json:"can_approve_loans"`
	CanApproveSavings *bool   `json:"can_approve_savings"`
	IsActive          *bool   `json:"is_active"`
}

// UpdateStaff handles updating a staff profile (Admin only)
// @Summary Update staff
// @Description Update a staff profile, including approval flags
// @Tags Staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Staff ID"
// @Param body body UpdateStaffRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /staff/{id} [put]
func (h *StaffHandler) UpdateStaff(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid staff ID")
	}

	var req UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateStaffInput{
		Position:          req.Position,
		Department:        req.Department,
		Phone:             req.Phone,
		CanApproveLoans:   req.CanApproveLoans,
		CanApproveSavings: req.CanApproveSavings,
		IsActive:          req.IsActive,
	}

	staff, err := h.staffService.UpdateStaff(c.Context(), uint(id), input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Staff not found")
		}
		return response.InternalServerError(c, "Failed to update staff")
	}

	return response.Success(c, "Staff updated successfully", fiber.Map{
		"staff": staff,
	})
}
