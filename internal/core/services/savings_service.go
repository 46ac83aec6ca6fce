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

// Actor identifies the authenticated account performing an operation
type Actor struct {
	UserID uint
	Role   domain.Role
}

// SavingsService handles the deposit and withdrawal ledger
type SavingsService struct {
	db             *gorm.DB
	depositRepo    repositories.DepositRepository
	withdrawalRepo repositories.WithdrawalRepository
	memberRepo     repositories.MemberRepository
	staffRepo      repositories.StaffRepository
}

// NewSavingsService creates a new savings service
func NewSavingsService(
	db *gorm.DB,
	depositRepo repositories.DepositRepository,
	withdrawalRepo repositories.WithdrawalRepository,
	memberRepo repositories.MemberRepository,
	staffRepo repositories.StaffRepository,
) *SavingsService {
	return &SavingsService{
		db:             db,
		depositRepo:    depositRepo,
		withdrawalRepo: withdrawalRepo,
		memberRepo:     memberRepo,
		staffRepo:      staffRepo,
	}
}

// CreateSavingsTxInput represents a deposit or withdrawal request.
// MemberID is only honored for staff/admin acting on behalf of a member.
type CreateSavingsTxInput struct {
	MemberID *uint           `json:"member_id"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
}

// ListSavingsTxInput represents savings listing input
type ListSavingsTxInput struct {
	Status string
	Page   int
	Limit  int
}

// ListSavingsTxOutput represents savings listing output
type ListSavingsTxOutput struct {
	Transactions []*models.SavingsTxResponse `json:"transactions"`
	Meta         *pagination.Meta            `json:"meta"`
}

// requireSavingsApprover checks that the actor may decide savings requests.
// Admins always may; staff need an active profile with the savings flag.
func (s *SavingsService) requireSavingsApprover(ctx context.Context, actor Actor) error {
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
	if !staff.IsActive || !staff.CanApproveSavings {
		return domain.ErrForbidden
	}
	return nil
}

// resolveTargetMember resolves which member a created request belongs to:
// members always act on their own profile, staff/admin must name one.
func (s *SavingsService) resolveTargetMember(ctx context.Context, actor Actor, memberID *uint) (uint, error) {
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

// CreateDeposit records a pending deposit request
func (s *SavingsService) CreateDeposit(ctx context.Context, actor Actor, input *CreateSavingsTxInput) (*models.SavingsTxResponse, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrValidation
	}

	memberID, err := s.resolveTargetMember(ctx, actor, input.MemberID)
	if err != nil {
		return nil, err
	}

	deposit := &models.Deposit{
		MemberID: memberID,
		Amount:   input.Amount,
		Status:   models.TxStatusPending,
	}
	if err := s.depositRepo.Create(ctx, deposit); err != nil {
		return nil, err
	}

	log.Printf("✅ Deposit #%d requested: member=%d amount=%s", deposit.ID, memberID, input.Amount)
	return deposit.ToResponse(), nil
}

// ApproveDeposit decides a pending deposit and credits the member's savings
// balance. The deposit and member rows are locked for the duration of the
// transaction so concurrent decisions serialize; the loser sees the request
// already processed.
func (s *SavingsService) ApproveDeposit(ctx context.Context, actor Actor, depositID uint) (*models.SavingsTxResponse, error) {
	if err := s.requireSavingsApprover(ctx, actor); err != nil {
		return nil, err
	}

	var deposit models.Deposit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&deposit, depositID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var member models.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&member, deposit.MemberID).Error; err != nil {
			return err
		}

		if err := deposit.Approve(&member, actor.UserID, time.Now()); err != nil {
			return err
		}

		if err := tx.Save(&member).Error; err != nil {
			return err
		}
		return tx.Save(&deposit).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Deposit #%d approved by user %d", deposit.ID, actor.UserID)
	return deposit.ToResponse(), nil
}

// RejectDeposit decides a pending deposit with no balance effect
func (s *SavingsService) RejectDeposit(ctx context.Context, actor Actor, depositID uint) (*models.SavingsTxResponse, error) {
	if err := s.requireSavingsApprover(ctx, actor); err != nil {
		return nil, err
	}

	var deposit models.Deposit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&deposit, depositID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if err := deposit.Reject(actor.UserID, time.Now()); err != nil {
			return err
		}
		return tx.Save(&deposit).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Deposit #%d rejected by user %d", deposit.ID, actor.UserID)
	return deposit.ToResponse(), nil
}

// CreateWithdrawal records a pending withdrawal request. Funds are not
// checked here; the balance is only verified at approval time.
func (s *SavingsService) CreateWithdrawal(ctx context.Context, actor Actor, input *CreateSavingsTxInput) (*models.SavingsTxResponse, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrValidation
	}

	memberID, err := s.resolveTargetMember(ctx, actor, input.MemberID)
	if err != nil {
		return nil, err
	}

	withdrawal := &models.Withdrawal{
		MemberID: memberID,
		Amount:   input.Amount,
		Status:   models.TxStatusPending,
	}
	if err := s.withdrawalRepo.Create(ctx, withdrawal); err != nil {
		return nil, err
	}

	log.Printf("✅ Withdrawal #%d requested: member=%d amount=%s", withdrawal.ID, memberID, input.Amount)
	return withdrawal.ToResponse(), nil
}

// ApproveWithdrawal decides a pending withdrawal and debits the member's
// savings balance. Insufficient funds leave the request pending so it can
// be retried once the balance grows.
func (s *SavingsService) ApproveWithdrawal(ctx context.Context, actor Actor, withdrawalID uint) (*models.SavingsTxResponse, error) {
	if err := s.requireSavingsApprover(ctx, actor); err != nil {
		return nil, err
	}

	var withdrawal models.Withdrawal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&withdrawal, withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		var member models.Member
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&member, withdrawal.MemberID).Error; err != nil {
			return err
		}

		if err := withdrawal.Approve(&member, actor.UserID, time.Now()); err != nil {
			return err
		}

		if err := tx.Save(&member).Error; err != nil {
			return err
		}
		return tx.Save(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Withdrawal #%d approved by user %d", withdrawal.ID, actor.UserID)
	return withdrawal.ToResponse(), nil
}

// RejectWithdrawal decides a pending withdrawal with no balance effect
func (s *SavingsService) RejectWithdrawal(ctx context.Context, actor Actor, withdrawalID uint) (*models.SavingsTxResponse, error) {
	if err := s.requireSavingsApprover(ctx, actor); err != nil {
		return nil, err
	}

	var withdrawal models.Withdrawal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&withdrawal, withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if err := withdrawal.Reject(actor.UserID, time.Now()); err != nil {
			return err
		}
		return tx.Save(&withdrawal).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Withdrawal #%d rejected by user %d", withdrawal.ID, actor.UserID)
	return withdrawal.ToResponse(), nil
}

// ListDeposits lists deposits across all members (staff/admin)
func (s *SavingsService) ListDeposits(ctx context.Context, actor Actor, input *ListSavingsTxInput) (*ListSavingsTxOutput, error) {
	if !actor.Role.CanViewAllRecords() {
		return nil, domain.ErrForbidden
	}

	normalizeListInput(&input.Page, &input.Limit)
	offset := (input.Page - 1) * input.Limit

	deposits, total, err := s.depositRepo.List(ctx, input.Status, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	return buildSavingsListOutput(depositResponses(deposits), total, input.Page, input.Limit), nil
}

// ListMyDeposits lists the authenticated member's deposits
func (s *SavingsService) ListMyDeposits(ctx context.Context, actor Actor, input *ListSavingsTxInput) (*ListSavingsTxOutput, error) {
	member, err := s.memberRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileMissing
		}
		return nil, err
	}

	normalizeListInput(&input.Page, &input.Limit)
	offset := (input.Page - 1) * input.Limit

	deposits, total, err := s.depositRepo.ListByMember(ctx, member.ID, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	return buildSavingsListOutput(depositResponses(deposits), total, input.Page, input.Limit), nil
}

// ListWithdrawals lists withdrawals across all members (staff/admin)
func (s *SavingsService) ListWithdrawals(ctx context.Context, actor Actor, input *ListSavingsTxInput) (*ListSavingsTxOutput, error) {
	if !actor.Role.CanViewAllRecords() {
		return nil, domain.ErrForbidden
	}

	normalizeListInput(&input.Page, &input.Limit)
	offset := (input.Page - 1) * input.Limit

	withdrawals, total, err := s.withdrawalRepo.List(ctx, input.Status, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	return buildSavingsListOutput(withdrawalResponses(withdrawals), total, input.Page, input.Limit), nil
}

// ListMyWithdrawals lists the authenticated member's withdrawals
func (s *SavingsService) ListMyWithdrawals(ctx context.Context, actor Actor, input *ListSavingsTxInput) (*ListSavingsTxOutput, error) {
	member, err := s.memberRepo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileMissing
		}
		return nil, err
	}

	normalizeListInput(&input.Page, &input.Limit)
	offset := (input.Page - 1) * input.Limit

	withdrawals, total, err := s.withdrawalRepo.ListByMember(ctx, member.ID, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	return buildSavingsListOutput(withdrawalResponses(withdrawals), total, input.Page, input.Limit), nil
}

func normalizeListInput(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = 10
	}
	if *limit > 100 {
		*limit = 100
	}
}

func depositResponses(deposits []*models.Deposit) []*models.SavingsTxResponse {
	out := make([]*models.SavingsTxResponse, len(deposits))
	for i, d := range deposits {
		out[i] = d.ToResponse()
	}
	return out
}

func withdrawalResponses(withdrawals []*models.Withdrawal) []*models.SavingsTxResponse {
	out := make([]*models.SavingsTxResponse, len(withdrawals))
	for i, w := range withdrawals {
		out[i] = w.ToResponse()
	}
	return out
}

func buildSavingsListOutput(txs []*models.SavingsTxResponse, total int64, page, limit int) *ListSavingsTxOutput {
	return &ListSavingsTxOutput{
		Transactions: txs,
		Meta:         pagination.GetMeta(&pagination.Params{Page: page, Limit: limit}, total),
	}
}
