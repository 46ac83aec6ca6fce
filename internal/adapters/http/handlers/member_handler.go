package handlers

import (
	"errors"
	"strconv"
	"time"

	"saccolink/internal/core/domain"
	"saccolink/internal/core/services"
	"saccolink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member profile endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// ListMembers handles listing member profiles (Staff/Admin)
// @Summary List members
// @Description Get a paginated list of member profiles, optionally searched
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param search query string false "Search by username, email or national ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	input := &services.ListMembersInput{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	}

	result, err := h.memberService.ListMembers(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully", result)
}

// GetMember handles getting a member profile by ID (Staff/Admin)
// @Summary Get member by ID
// @Description Get a member profile with balances
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetMemberByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", fiber.Map{
		"member": member,
	})
}

// GetOwnProfile handles getting the authenticated member's profile
// @Summary Get own member profile
// @Description Get the member profile with balances for the current account
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /members/me [get]
func (h *MemberHandler) GetOwnProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	member, err := h.memberService.GetOwnProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileMissing) {
			return response.NotFound(c, "Member profile missing for this account")
		}
		return response.InternalServerError(c, "Failed to get member profile")
	}

	return response.Success(c, "Member profile retrieved successfully", fiber.Map{
		"member": member,
	})
}

// UpdateMemberRequest represents update member request body
type UpdateMemberRequest struct {
	Address     *string `json:"address"`
	NationalID  *string `json:"national_id"`
	DateOfBirth *string `json:"date_of_birth"` // YYYY-MM-DD
}

// UpdateMember handles updating a member profile (Staff/Admin)
// @Summary Update member
// @Description Update a member profile; balances are not writable
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Member ID"
// @Param body body UpdateMemberRequest true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [put]
func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateMemberInput{
		Address:    req.Address,
		NationalID: req.NationalID,
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return response.BadRequest(c, "Invalid date of birth, expected YYYY-MM-DD")
		}
		input.DateOfBirth = &dob
	}

	member, err := h.memberService.UpdateMember(c.Context(), uint(id), input)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Member not found")
		}
		return response.InternalServerError(c, "Failed to update member")
	}

	return response.Success(c, "Member updated successfully", fiber.Map{
		"member": member,
	})
}
