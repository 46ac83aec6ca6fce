package repositories

import (
	"context"

	"saccolink/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// depositRepository implements DepositRepository interface
type depositRepository struct {
	db *gorm.DB
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *gorm.DB) DepositRepository {
	return &depositRepository{db: db}
}

// Create creates a new deposit request
func (r *depositRepository) Create(ctx context.Context, deposit *models.Deposit) error {
	return r.db.WithContext(ctx).Create(deposit).Error
}

// GetByID gets a deposit with member and approver loaded
func (r *depositRepository) GetByID(ctx context.Context, id uint) (*models.Deposit, error) {
	var deposit models.Deposit
	err := r.db.WithContext(ctx).
		Preload("Member.User").
		Preload("Approver").
		Where("id = ?", id).
		First(&deposit).Error
	if err != nil {
		return nil, err
	}
	return &deposit, nil
}

// List lists deposits, optionally filtered by status, newest first
func (r *depositRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.Deposit, int64, error) {
	var deposits []*models.Deposit
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Deposit{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Member.User").
		Preload("Approver").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&deposits).Error
	if err != nil {
		return nil, 0, err
	}

	return deposits, total, nil
}

// ListByMember lists one member's deposits, newest first
func (r *depositRepository) ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.Deposit, int64, error) {
	var deposits []*models.Deposit
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Deposit{}).Where("member_id = ?", memberID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Approver").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&deposits).Error
	if err != nil {
		return nil, 0, err
	}

	return deposits, total, nil
}

// withdrawalRepository implements WithdrawalRepository interface
type withdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a new withdrawal repository
func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

// Create creates a new withdrawal request
func (r *withdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	return r.db.WithContext(ctx).Create(withdrawal).Error
}

// GetByID gets a withdrawal with member and approver loaded
func (r *withdrawalRepository) GetByID(ctx context.Context, id uint) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := r.db.WithContext(ctx).
		Preload("Member.User").
		Preload("Approver").
		Where("id = ?", id).
		First(&withdrawal).Error
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// List lists withdrawals, optionally filtered by status, newest first
func (r *withdrawalRepository) List(ctx context.Context, status string, offset, limit int) ([]*models.Withdrawal, int64, error) {
	var withdrawals []*models.Withdrawal
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Withdrawal{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Member.User").
		Preload("Approver").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&withdrawals).Error
	if err != nil {
		return nil, 0, err
	}

	return withdrawals, total, nil
}

// ListByMember lists one member's withdrawals, newest first
func (r *withdrawalRepository) ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.Withdrawal, int64, error) {
	var withdrawals []*models.Withdrawal
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Withdrawal{}).Where("member_id = ?", memberID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Approver").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&withdrawals).Error
	if err != nil {
		return nil, 0, err
	}

	return withdrawals, total, nil
}
