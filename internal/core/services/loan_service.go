package services

import (
	"context"
	"errors"
	"log"
	"time"

	"saccolink/internal/adapters/persistence/models"
	"saccolink/internal/adapters/persistence/repositories"
	"saccolink/internal/core/domain"
	"saccolink/internal/pkg/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoanService handles the loan lifecycle and repayments
type LoanService struct {
	db         *gorm.DB
	loanRepo   repositories.LoanRepository
	memberRepo repositories.MemberRepository
	staffRepo  repositories.StaffRepository
}

// NewLoanService creates a new loan service
func NewLoanService(
	db *gorm.DB,
	loanRepo repositories.LoanRepository,
	memberRepo repositories.MemberRepository,
	staffRepo repositories.StaffRepository,
) *LoanService {
	return &LoanService{
		db:         db,
		loanRepo:   loanRepo,
		memberRepo: memberRepo,
		staffRepo:  staffRepo,
	}
}

// RequestLoanInput represents a loan request. Interest rate and duration
// fall back to cooperative defaults when omitted.
type RequestLoanInput struct {
	MemberID       *uint            `json:"member_id"`
	Amount         decimal.Decimal  `json:"amount" validate:"required"`
	InterestRate   *decimal.Decimal `json:"interest_rate"`
	DurationMonths *int             `json:"duration_months"`
}

// RepayLoanInput represents a repayment against an approved loan
type RepayLoanInput struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// ListLoansInput represents loan listing input
type ListLoansInput struct {
	Status string
	Page   int
	Limit  int
}

// ListLoansOutput represents loan listing output
type ListLoansOutput struct {
	Loans []*models.LoanResponse `json:"loans"`
	Meta  *pagination.Meta       `json:"meta"`
}

// RepaymentResult bundles the repayment entry with the updated loan
type RepaymentResult struct {
	Repayment *models.LoanRepayment `json:"repayment"`
	Loan      *models.LoanResponse  `json:"loan"`
}

// requireLoanApprover checks that the actor may decide loan requests
func (s *LoanService) requireLoanApprover(ctx context.Context, actor Actor) error {
	if !actor.Role.CanApprove() {
		return domain.ErrForbidden
	}
	if actor.Role.IsAdmin() {
		return nil
	}

	staff, err := s.staffRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrProfileMissing
		}
		return err
	}
	if !staff.IsActive || !staff.CanApproveLoans {
		return domain.ErrForbidden
	}
	return nil
}

func (s *LoanService) resolveTargetMember(ctx context.Context, actor Actor, memberID *uint) (uint, error) {
	if actor.Role.IsMember() {
		member, err := s.memberRepo.GetByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, domain.ErrProfileMissing
			}
			return 0, err
		}
		return member.ID, nil
	}

	if memberID == nil {
		return 0, domain.ErrValidation
	}
	if _, err := s.memberRepo.GetByID(ctx, *memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return *memberID, nil
}

// RequestLoan records a pending loan request
func (s *LoanService) RequestLoan(ctx context.Context, actor Actor, input *RequestLoanInput) (*models.LoanResponse, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrValidation
	}

	memberID, err := s.resolveTargetMember(ctx, actor, input.MemberID)
	if err != nil {
		return nil, err
	}

	loan := &models.Loan{
		MemberID:       memberID,
		Amount:         input.Amount,
		InterestRate:   models.DefaultInterestRate,
		DurationMonths: models.DefaultDurationMonths,
		Status:         models.LoanStatusPending,
		Balance:        decimal.Zero,
	}

	if input.InterestRate != nil {
		if input.InterestRate.IsNegative() {
			return nil, domain.ErrValidation
		}
		loan.InterestRate = *input.InterestRate
	}
	if input.DurationMonths != nil {
		if *input.DurationMonths < 1 {
			return nil, domain.ErrValidation
		}
		loan.DurationMonths = *input.DurationMonths
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan #%d requested: member=%d amount=%s", loan.ID, memberID, input.Amount)
	return loan.ToResponse(), nil
}

// ApproveLoan decides a pending loan: the outstanding balance is set to
// principal plus interest, the due date one year out, and the member's loan
// balance grows by the principal. Rows are locked so concurrent decisions
// serialize.
func (s *LoanService) ApproveLoan(ctx context.Context, actor Actor, loanID uint) (*models.LoanResponse, error) {
	if err := s.requireLoanApprover(ctx, actor); err != nil {
		return nil, err
	}

	var loan models.Loan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var member models.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&member, loan.MemberID).Error; err != nil {
			return err
		}

		if err := loan.Approve(&member, time.Now()); err != nil {
			return err
		}

		if err := tx.Save(&member).Error; err != nil {
			return err
		}
		return tx.Save(&loan).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Loan #%d approved by user %d: balance=%s", loan.ID, actor.UserID, loan.Balance)
	return loan.ToResponse(), nil
}

// RejectLoan decides a pending loan with no balance effect
func (s *LoanService) RejectLoan(ctx context.Context, actor Actor, loanID uint) (*models.LoanResponse, error) {
	if err := s.requireLoanApprover(ctx, actor); err != nil {
		return nil, err
	}

	var loan models.Loan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if err := loan.Reject(); err != nil {
			return err
		}
		return tx.Save(&loan).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Loan #%d rejected by user %d", loan.ID, actor.UserID)
	return loan.ToResponse(), nil
}

// canRepay reports whether the actor owns the loan's member profile.
// Repayment is owner-only; staff and admins cannot repay on behalf.
func canRepay(actor Actor, ownerUserID uint) bool {
	return actor.UserID == ownerUserID
}

// Repay records a repayment against an approved loan. Only the owning
// member may repay; a full repayment completes the loan.
func (s *LoanService) Repay(ctx context.Context, actor Actor, loanID uint, input *RepayLoanInput) (*RepaymentResult, error) {
	var loan models.Loan
	var repayment *models.LoanRepayment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var member models.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&member, loan.MemberID).Error; err != nil {
			return err
		}

		if !canRepay(actor, member.UserID) {
			return domain.ErrForbidden
		}

		entry, err := loan.ApplyRepayment(&member, input.Amount, time.Now())
		if err != nil {
			return err
		}
		repayment = entry

		if err := tx.Save(&member).Error; err != nil {
			return err
		}
		if err := tx.Save(&loan).Error; err != nil {
			return err
		}
		return tx.Create(repayment).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Loan #%d repayment of %s recorded: balance=%s status=%s",
		loan.ID, input.Amount, loan.Balance, loan.Status)

	return &RepaymentResult{
		Repayment: repayment,
		Loan:      loan.ToResponse(),
	}, nil
}

// GetLoan gets a loan with its repayment history. Members may only see
// their own loans.
func (s *LoanService) GetLoan(ctx context.Context, actor Actor, loanID uint) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if actor.Role.IsMember() {
		if loan.Member == nil || loan.Member.UserID != actor.UserID {
			return nil, domain.ErrForbidden
		}
	}

	return loan, nil
}

// ListLoans lists loans across all members (staff/admin)
func (s *LoanService) ListLoans(ctx context.Context, actor Actor, input *ListLoansInput) (*ListLoansOutput, error) {
	if !actor.Role.CanViewAllRecords() {
		return nil, domain.ErrForbidden
	}

	normalizeListInput(&input.Page, &input.Limit)
	offset := (input.Page - 1) * input.Limit

	loans, total, err := s.loanRepo.List(ctx, input.Status, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	return buildLoanListOutput(loans, total, input.Page, input.Limit), nil
}

// ListMyLoans lists the authenticated member's loans
func (s *LoanService) ListMyLoans(ctx context.Context, actor Actor, input *ListLoansInput) (*ListLoansOutput, error) {
	member, err := s.memberRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileMissing
		}
		return nil, err
	}

	normalizeListInput(&input.Page, &input.Limit)
	offset := (input.Page - 1) * input.Limit

	loans, total, err := s.loanRepo.ListByMember(ctx, member.ID, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	return buildLoanListOutput(loans, total, input.Page, input.Limit), nil
}

// ListRepayments lists the repayment history of a loan, subject to the
// same ownership rule as GetLoan
func (s *LoanService) ListRepayments(ctx context.Context, actor Actor, loanID uint) ([]*models.LoanRepayment, error) {
	if _, err := s.GetLoan(ctx, actor, loanID); err != nil {
		return nil, err
	}
	return s.loanRepo.ListRepayments(ctx, loanID)
}

func buildLoanListOutput(loans []*models.Loan, total int64, page, limit int) *ListLoansOutput {
	responses := make([]*models.LoanResponse, len(loans))
	for i, l := range loans {
		responses[i] = l.ToResponse()
	}

	return &ListLoansOutput{
		Loans: responses,
		Meta:  pagination.GetMeta(&pagination.Params{Page: page, Limit: limit}, total),
	}
}
