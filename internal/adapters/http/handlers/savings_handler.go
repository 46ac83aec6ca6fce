package handlers

import (
	"errors"
	"strconv"

	"saccolink/internal/core/domain"
	"saccolink/internal/core/services"
	"saccolink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// actorFromCtx rebuilds the authenticated actor from middleware locals
func actorFromCtx(c *fiber.Ctx) (services.Actor, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return services.Actor{}, false
	}
	roleStr, ok := c.Locals("role").(string)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{UserID: userID, Role: domain.Role(roleStr)}, true
}

// ledgerError maps ledger service errors onto HTTP responses
func ledgerError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, "Invalid request data")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission for this operation")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Record not found")
	case errors.Is(err, domain.ErrProfileMissing):
		return response.NotFound(c, "Profile missing for this account")
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return response.Conflict(c, "Request has already been processed")
	case errors.Is(err, domain.ErrInsufficientFunds):
		return response.Conflict(c, "Insufficient savings balance")
	case errors.Is(err, domain.ErrInvalidState):
		return response.Conflict(c, "Operation not allowed in current state")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// SavingsHandler handles deposit and withdrawal endpoints
type SavingsHandler struct {
	savingsService *services.SavingsService
}

// NewSavingsHandler creates a new savings handler
func NewSavingsHandler(savingsService *services.SavingsService) *SavingsHandler {
	return &SavingsHandler{
		savingsService: savingsService,
	}
}

// SavingsTxRequest represents a deposit or withdrawal request body
type SavingsTxRequest struct {
	MemberID *uint  `json:"member_id"`
	Amount   string `json:"amount"`
}

func (r *SavingsTxRequest) toInput() (*services.CreateSavingsTxInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return nil, err
	}
	return &services.CreateSavingsTxInput{
		MemberID: r.MemberID,
		Amount:   amount,
	}, nil
}

func savingsListInput(c *fiber.Ctx) *services.ListSavingsTxInput {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	return &services.ListSavingsTxInput{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
}

// CreateDeposit handles creating a deposit request
// @Summary Request deposit
// @Description Create a pending deposit request
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SavingsTxRequest true "Deposit data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /deposits [post]
func (h *SavingsHandler) CreateDeposit(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SavingsTxRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, "Invalid amount")
	}

	deposit, err := h.savingsService.CreateDeposit(c.Context(), actor, input)
	if err != nil {
		return ledgerError(c, err, "Failed to create deposit")
	}

	return response.Created(c, "Deposit requested successfully", fiber.Map{
		"deposit": deposit,
	})
}

// ApproveDeposit handles approving a deposit (Staff/Admin)
// @Summary Approve deposit
// @Description Approve a pending deposit and credit the member's savings
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Deposit ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /deposits/{id}/approve [post]
func (h *SavingsHandler) ApproveDeposit(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid deposit ID")
	}

	deposit, err := h.savingsService.ApproveDeposit(c.Context(), actor, uint(id))
	if err != nil {
		return ledgerError(c, err, "Failed to approve deposit")
	}

	return response.Success(c, "Deposit approved successfully", fiber.Map{
		"deposit": deposit,
	})
}

// RejectDeposit handles rejecting a deposit (Staff/Admin)
// @Summary Reject deposit
// @Description Reject a pending deposit with no balance effect
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Deposit ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /deposits/{id}/reject [post]
func (h *SavingsHandler) RejectDeposit(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid deposit ID")
	}

	deposit, err := h.savingsService.RejectDeposit(c.Context(), actor, uint(id))
	if err != nil {
		return ledgerError(c, err, "Failed to reject deposit")
	}

	return response.Success(c, "Deposit rejected successfully", fiber.Map{
		"deposit": deposit,
	})
}

// ListDeposits handles listing all deposits (Staff/Admin)
// @Summary List deposits
// @Description Get deposits across all members, optionally filtered by status
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /deposits [get]
func (h *SavingsHandler) ListDeposits(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.savingsService.ListDeposits(c.Context(), actor, savingsListInput(c))
	if err != nil {
		return ledgerError(c, err, "Failed to list deposits")
	}

	return response.Success(c, "Deposits retrieved successfully", result)
}

// ListMyDeposits handles listing the member's own deposits
// @Summary List own deposits
// @Description Get the authenticated member's deposit history
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /deposits/me [get]
func (h *SavingsHandler) ListMyDeposits(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.savingsService.ListMyDeposits(c.Context(), actor, savingsListInput(c))
	if err != nil {
		return ledgerError(c, err, "Failed to list deposits")
	}

	return response.Success(c, "Deposits retrieved successfully", result)
}

// CreateWithdrawal handles creating a withdrawal request
// @Summary Request withdrawal
// @Description Create a pending withdrawal request; funds are checked at approval
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SavingsTxRequest true "Withdrawal data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /withdrawals [post]
func (h *SavingsHandler) CreateWithdrawal(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req SavingsTxRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input, err := req.toInput()
	if err != nil {
		return response.BadRequest(c, "Invalid amount")
	}

	withdrawal, err := h.savingsService.CreateWithdrawal(c.Context(), actor, input)
	if err != nil {
		return ledgerError(c, err, "Failed to create withdrawal")
	}

	return response.Created(c, "Withdrawal requested successfully", fiber.Map{
		"withdrawal": withdrawal,
	})
}

// ApproveWithdrawal handles approving a withdrawal (Staff/Admin)
// @Summary Approve withdrawal
// @Description Approve a pending withdrawal and debit the member's savings
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Withdrawal ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /withdrawals/{id}/approve [post]
func (h *SavingsHandler) ApproveWithdrawal(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid withdrawal ID")
	}

	withdrawal, err := h.savingsService.ApproveWithdrawal(c.Context(), actor, uint(id))
	if err != nil {
		return ledgerError(c, err, "Failed to approve withdrawal")
	}

	return response.Success(c, "Withdrawal approved successfully", fiber.Map{
		"withdrawal": withdrawal,
	})
}

// RejectWithdrawal handles rejecting a withdrawal (Staff/Admin)
// @Summary Reject withdrawal
// @Description Reject a pending withdrawal with no balance effect
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Withdrawal ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /withdrawals/{id}/reject [post]
func (h *SavingsHandler) RejectWithdrawal(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid withdrawal ID")
	}

	withdrawal, err := h.savingsService.RejectWithdrawal(c.Context(), actor, uint(id))
	if err != nil {
		return ledgerError(c, err, "Failed to reject withdrawal")
	}

	return response.Success(c, "Withdrawal rejected successfully", fiber.Map{
		"withdrawal": withdrawal,
	})
}

// ListWithdrawals handles listing all withdrawals (Staff/Admin)
// @Summary List withdrawals
// @Description Get withdrawals across all members, optionally filtered by status
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Response
// @Router /withdrawals [get]
func (h *SavingsHandler) ListWithdrawals(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.savingsService.ListWithdrawals(c.Context(), actor, savingsListInput(c))
	if err != nil {
		return ledgerError(c, err, "Failed to list withdrawals")
	}

	return response.Success(c, "Withdrawals retrieved successfully", result)
}

// ListMyWithdrawals handles listing the member's own withdrawals
// @Summary List own withdrawals
// @Description Get the authenticated member's withdrawal history
// @Tags Savings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /withdrawals/me [get]
func (h *SavingsHandler) ListMyWithdrawals(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.savingsService.ListMyWithdrawals(c.Context(), actor, savingsListInput(c))
	if err != nil {
		return ledgerError(c, err, "Failed to list withdrawals")
	}

	return response.Success(c, "Withdrawals retrieved successfully", result)
}
