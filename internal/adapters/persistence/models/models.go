package models

import (
	"time"

	"saccolink/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Accounts & Profiles
// ============================================================

// User represents the users table, the single source of truth for
// authentication and roles
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone     string         `gorm:"size:20" json:"phone"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:10;default:'MEMBER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// RoleValue returns the typed role of the account
func (u *User) RoleValue() domain.Role {
	return domain.Role(u.Role)
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// Member represents the members table: the 1:1 profile of a MEMBER account.
// Balances are mutated only by approved ledger transitions and never go
// below zero.
type Member struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Address        string          `gorm:"size:255" json:"address"`
	NationalID     string          `gorm:"size:50" json:"national_id"`
	DateOfBirth    *time.Time      `gorm:"type:date" json:"date_of_birth"`
	SavingsBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"savings_balance"`
	LoanBalance    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"loan_balance"`
	JoinedAt       time.Time       `gorm:"autoCreateTime" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// MemberResponse DTO
type MemberResponse struct {
	ID             uint            `json:"id"`
	UserID         uint            `json:"user_id"`
	Username       string          `json:"username,omitempty"`
	Email          string          `json:"email,omitempty"`
	Address        string          `json:"address"`
	NationalID     string          `json:"national_id"`
	DateOfBirth    *time.Time      `json:"date_of_birth"`
	SavingsBalance decimal.Decimal `json:"savings_balance"`
	LoanBalance    decimal.Decimal `json:"loan_balance"`
	JoinedAt       time.Time       `json:"joined_at"`
}

func (m *Member) ToResponse() *MemberResponse {
	resp := &MemberResponse{
		ID:             m.ID,
		UserID:         m.UserID,
		Address:        m.Address,
		NationalID:     m.NationalID,
		DateOfBirth:    m.DateOfBirth,
		SavingsBalance: m.SavingsBalance,
		LoanBalance:    m.LoanBalance,
		JoinedAt:       m.JoinedAt,
	}

	if m.User != nil {
		resp.Username = m.User.Username
		resp.Email = m.User.Email
	}

	return resp
}

// Staff represents the staff table: the 1:1 profile of a STAFF account,
// holding the approval privilege flags
type Staff struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Position          string    `gorm:"size:128;default:'Staff'" json:"position"`
	Department        string    `gorm:"size:128" json:"department"`
	Phone             string    `gorm:"size:20" json:"phone"`
	HiredOn           time.Time `gorm:"autoCreateTime" json:"hired_on"`
	CanApproveLoans   bool      `gorm:"default:true" json:"can_approve_loans"`
	CanApproveSavings bool      `gorm:"default:true" json:"can_approve_savings"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (Staff) TableName() string {
	return "staff"
}

// StaffResponse DTO
type StaffResponse struct {
	ID                uint      `json:"id"`
	UserID            uint      `json:"user_id"`
	Username          string    `json:"username,omitempty"`
	Email             string    `json:"email,omitempty"`
	Position          string    `json:"position"`
	Department        string    `json:"department"`
	Phone             string    `json:"phone,omitempty"`
	HiredOn           time.Time `json:"hired_on"`
	CanApproveLoans   bool      `json:"can_approve_loans"`
	CanApproveSavings bool      `json:"can_approve_savings"`
	IsActive          bool      `json:"is_active"`
}

func (s *Staff) ToResponse() *StaffResponse {
	resp := &StaffResponse{
		ID:                s.ID,
		UserID:            s.UserID,
		Position:          s.Position,
		Department:        s.Department,
		Phone:             s.Phone,
		HiredOn:           s.HiredOn,
		CanApproveLoans:   s.CanApproveLoans,
		CanApproveSavings: s.CanApproveSavings,
		IsActive:          s.IsActive,
	}

	if s.User != nil {
		resp.Username = s.User.Username
		resp.Email = s.User.Email
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates/updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Member{},
		&Staff{},
		&Deposit{},
		&Withdrawal{},
		&Loan{},
		&LoanRepayment{},
	)
}
