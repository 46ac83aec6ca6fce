package repositories

import (
	"context"

	"saccolink/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
	CountActiveByUserID(ctx context.Context, userID uint) (int64, error)
}

// MemberRepository defines member profile repository interface
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByID(ctx context.Context, id uint) (*models.Member, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Member, int64, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Member, error)
	ExistsByUserID(ctx context.Context, userID uint) (bool, error)
}

// StaffRepository defines staff profile repository interface
type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id uint) (*models.Staff, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Staff, error)
	Update(ctx context.Context, staff *models.Staff) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.Staff, int64, error)
	ExistsByUserID(ctx context.Context, userID uint) (bool, error)
}

// DepositRepository defines deposit ledger repository interface.
// Approval writes go through transactional service code, not through here.
type DepositRepository interface {
	Create(ctx context.Context, deposit *models.Deposit) error
	GetByID(ctx context.Context, id uint) (*models.Deposit, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.Deposit, int64, error)
	ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.Deposit, int64, error)
}

// WithdrawalRepository defines withdrawal ledger repository interface
type WithdrawalRepository interface {
	Create(ctx context.Context, withdrawal *models.Withdrawal) error
	GetByID(ctx context.Context, id uint) (*models.Withdrawal, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.Withdrawal, int64, error)
	ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.Withdrawal, int64, error)
}

// LoanRepository defines loan ledger repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	List(ctx context.Context, status string, offset, limit int) ([]*models.Loan, int64, error)
	ListByMember(ctx context.Context, memberID uint, offset, limit int) ([]*models.Loan, int64, error)
	ListRepayments(ctx context.Context, loanID uint) ([]*models.LoanRepayment, error)
}
