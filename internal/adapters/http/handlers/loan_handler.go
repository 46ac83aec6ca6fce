package handlers

import (
	"strconv"

	"saccolink/internal/core/services"
	"saccolink/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan lifecycle endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
	}
}

// RequestLoanRequest represents a loan request body
type RequestLoanRequest struct {
	MemberID       *uint   `json:"member_id"`
	Amount         string  `json:"amount"`
	InterestRate   *string `json:"interest_rate"`
	DurationMonths *int    `json:"duration_months"`
}

// RepayLoanRequest represents a repayment request body
type RepayLoanRequest struct {
	Amount string `json:"amount"`
}

// RequestLoan handles creating a loan request
// @Summary Request loan
// @Description Create a pending loan request
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RequestLoanRequest true "Loan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) RequestLoan(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req RequestLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return response.BadRequest(c, "Invalid amount")
	}

	input := &services.RequestLoanInput{
		MemberID:       req.MemberID,
		Amount:         amount,
		DurationMonths: req.DurationMonths,
	}

	if req.InterestRate != nil {
		rate, err := decimal.NewFromString(*req.InterestRate)
		if err != nil {
			return response.BadRequest(c, "Invalid interest rate")
		}
		input.InterestRate = &rate
	}

	loan, err := h.loanService.RequestLoan(c.Context(), actor, input)
	if err != nil {
		return ledgerError(c, err, "Failed to request loan")
	}

	return response.Created(c, "Loan requested successfully", fiber.Map{
		"loan": loan,
	})
}

// ApproveLoan handles approving a loan (Staff/Admin)
// @Summary Approve loan
// @Description Approve a pending loan, setting balance and due date
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/approve [post]
func (h *LoanHandler) ApproveLoan(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.ApproveLoan(c.Context(), actor, uint(id))
	if err != nil {
		return ledgerError(c, err, "Failed to approve loan")
	}

	return response.Success(c, "Loan approved successfully", fiber.Map{
		"loan": loan,
	})
}

// RejectLoan handles rejecting a loan (Staff/Admin)
// @Summary Reject loan
// @Description Reject a pending loan with no balance effect
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/reject [post]
func (h *LoanHandler) RejectLoan(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.RejectLoan(c.Context(), actor, uint(id))
	if err != nil {
		return ledgerError(c, err, "Failed to reject loan")
	}

	return response.Success(c, "Loan rejected successfully", fiber.Map{
		"loan": loan,
	})
}

// Repay handles recording a repayment
// @Summary Repay loan
// @Description Record a repayment against an approved loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body RepayLoanRequest true "Repayment data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/{id}/repay [post]
func (h *LoanHandler) Repay(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req RepayLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return response.BadRequest(c, "Invalid amount")
	}

	result, err := h.loanService.Repay(c.Context(), actor, uint(id), &services.RepayLoanInput{Amount: amount})
	if err != nil {
		return ledgerError(c, err, "Failed to record repayment")
	}

	return response.Success(c, "Repayment recorded successfully", result)
}

// GetLoan handles getting a loan with its repayments
// @Summary Get loan by ID
// @Description Get a loan and its repayment history
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetLoan(c.Context(), actor, uint(id))
	if err != nil {
		return ledgerError(c, err, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", fiber.Map{
		"loan":       loan.ToResponse(),
		"repayments": loan.Repayments,
	})
}

// ListLoans handles listing all loans (Staff/Admin)
// @Summary List loans
// @Description Get loans across all members, optionally filtered by status
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) ListLoans(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	input := &services.ListLoansInput{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	result, err := h.loanService.ListLoans(c.Context(), actor, input)
	if err != nil {
		return ledgerError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", result)
}

// ListMyLoans handles listing the member's own loans
// @Summary List own loans
// @Description Get the authenticated member's loans
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/me [get]
func (h *LoanHandler) ListMyLoans(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	input := &services.ListLoansInput{
		Page:  page,
		Limit: limit,
	}

	result, err := h.loanService.ListMyLoans(c.Context(), actor, input)
	if err != nil {
		return ledgerError(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", result)
}

// ListRepayments handles listing a loan's repayment history
// @Summary List loan repayments
// @Description Get the repayment history of a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/repayments [get]
func (h *LoanHandler) ListRepayments(c *fiber.Ctx) error {
	actor, ok := actorFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	repayments, err := h.loanService.ListRepayments(c.Context(), actor, uint(id))
	if err != nil {
		return ledgerError(c, err, "Failed to list repayments")
	}

	return response.Success(c, "Repayments retrieved successfully", fiber.Map{
		"repayments": repayments,
	})
}
